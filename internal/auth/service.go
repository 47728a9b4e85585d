package auth

import (
	"context"
	"errors"
	"fmt"

	"eventdesk/internal/activity"
	"eventdesk/internal/remote"
	"eventdesk/internal/session"
	"eventdesk/pkg/logger"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrMissingToken       = errors.New("login succeeded without a token")
)

// Repository is the account API; *remote.Client satisfies it.
type Repository interface {
	Login(ctx context.Context, req remote.LoginRequest) (string, error)
	Register(ctx context.Context, req remote.RegisterRequest) (string, error)
}

var _ Repository = (*remote.Client)(nil)

// SessionCleaner drops the per-session listing state.
type SessionCleaner interface {
	ClearSession(ctx context.Context, sessionKey string) error
}

// ProfileCache forgets a cached profile.
type ProfileCache interface {
	Forget(ctx context.Context, token string)
}

type Service interface {
	SetPublisher(publisher activity.Publisher)

	Login(ctx context.Context, form LoginForm, requestID string) (string, error)
	Register(ctx context.Context, form RegisterForm, requestID string) (string, error)
	Logout(ctx context.Context, token, requestID string)
}

type service struct {
	repo      Repository
	sessions  SessionCleaner
	profiles  ProfileCache
	publisher activity.Publisher
	log       *logger.Logger
}

func NewService(repo Repository, sessions SessionCleaner, profiles ProfileCache) Service {
	return &service{
		repo:      repo,
		sessions:  sessions,
		profiles:  profiles,
		publisher: activity.NopPublisher{},
		log:       logger.GetDefault(),
	}
}

func (s *service) SetPublisher(publisher activity.Publisher) {
	if publisher != nil {
		s.publisher = publisher
	}
}

// Login exchanges credentials for a token.
func (s *service) Login(ctx context.Context, form LoginForm, requestID string) (string, error) {
	token, err := s.repo.Login(ctx, remote.LoginRequest{Email: form.Email, Password: form.Password})
	if err != nil {
		if remote.IsAuth(err) {
			return "", fmt.Errorf("%w: %w", ErrInvalidCredentials, err)
		}
		return "", err
	}
	if token == "" {
		return "", ErrMissingToken
	}

	subject := session.Subject(token)
	s.log.LogAuthSuccess(ctx, subject, "password")
	activity.Emit(ctx, s.publisher, activity.NewRecord(activity.TypeLogin, subject, form.Email).
		WithRequestID(requestID))
	return token, nil
}

// Register creates the account. The returned token is empty when the API
// does not sign the new user in.
func (s *service) Register(ctx context.Context, form RegisterForm, requestID string) (string, error) {
	token, err := s.repo.Register(ctx, remote.RegisterRequest{
		Name:     form.Name,
		Email:    form.Email,
		Password: form.Password,
	})
	if err != nil {
		return "", err
	}

	activity.Emit(ctx, s.publisher, activity.NewRecord(activity.TypeRegistered, form.Email, form.Email).
		WithRequestID(requestID))
	if token != "" {
		s.log.LogAuthSuccess(ctx, session.Subject(token), "register")
	}
	return token, nil
}

// Logout drops everything held for token. Failures are logged only; the
// credential is cleared by the caller either way.
func (s *service) Logout(ctx context.Context, token, requestID string) {
	if token == "" {
		return
	}
	if s.sessions != nil {
		if err := s.sessions.ClearSession(ctx, session.Key(token)); err != nil {
			s.log.WithError(err).WarnContext(ctx, "clear view state failed")
		}
	}
	if s.profiles != nil {
		s.profiles.Forget(ctx, token)
	}
	activity.Emit(ctx, s.publisher, activity.NewRecord(activity.TypeLogout, session.Subject(token), "").
		WithRequestID(requestID))
}
