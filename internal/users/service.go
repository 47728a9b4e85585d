package users

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"eventdesk/internal/activity"
	"eventdesk/internal/remote"
	"eventdesk/internal/session"
	"eventdesk/internal/shared/constants"
	"eventdesk/pkg/cache"
	"eventdesk/pkg/logger"
)

var ErrProfileMissing = errors.New("profile not returned by the user API")

// Repository is the user API; *remote.Client satisfies it.
type Repository interface {
	Profile(ctx context.Context, token string) (*remote.User, error)
	UpdateProfile(ctx context.Context, token string, user remote.User) error
	DeleteAccount(ctx context.Context, token string) error
}

var _ Repository = (*remote.Client)(nil)

type Service interface {
	SetCacheService(cacheService cache.Service)
	SetCacheTTL(ttl time.Duration)
	SetPublisher(publisher activity.Publisher)

	Profile(ctx context.Context, token string) (*User, error)
	UpdateProfile(ctx context.Context, token, requestID string, form ProfileForm) (*User, error)
	DeleteAccount(ctx context.Context, token, requestID string) error
	Forget(ctx context.Context, token string)
}

type service struct {
	repo         Repository
	cacheService cache.Service
	cacheTTL     time.Duration
	publisher    activity.Publisher
	log          *logger.Logger
}

func NewService(repo Repository) Service {
	return &service{
		repo:      repo,
		cacheTTL:  constants.TTL_PROFILE_CACHE,
		publisher: activity.NopPublisher{},
		log:       logger.GetDefault(),
	}
}

// SetCacheService injects the cache service dependency
func (s *service) SetCacheService(cacheService cache.Service) {
	s.cacheService = cacheService
}

func (s *service) SetCacheTTL(ttl time.Duration) {
	if ttl > 0 {
		s.cacheTTL = ttl
	}
}

func (s *service) SetPublisher(publisher activity.Publisher) {
	if publisher != nil {
		s.publisher = publisher
	}
}

// Profile returns the account behind token, from cache when available.
func (s *service) Profile(ctx context.Context, token string) (*User, error) {
	if s.cacheService == nil {
		return s.fetchProfile(ctx, token)
	}

	var user User
	err := s.cacheService.GetOrSet(ctx, profileKey(token), s.cacheTTL, func() (interface{}, error) {
		return s.fetchProfile(ctx, token)
	}, &user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *service) fetchProfile(ctx context.Context, token string) (*User, error) {
	user, err := s.repo.Profile(ctx, token)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrProfileMissing
	}
	return user, nil
}

func (s *service) UpdateProfile(ctx context.Context, token, requestID string, form ProfileForm) (*User, error) {
	user := User{
		Name:   form.Name,
		Email:  form.Email,
		Avatar: AvatarURL(form.Name),
	}
	if err := s.repo.UpdateProfile(ctx, token, user); err != nil {
		return nil, err
	}
	s.Forget(ctx, token)

	activity.Emit(ctx, s.publisher, activity.NewRecord(activity.TypeAccountUpdated, session.Subject(token), form.Email).
		WithRequestID(requestID))
	return &user, nil
}

func (s *service) DeleteAccount(ctx context.Context, token, requestID string) error {
	if err := s.repo.DeleteAccount(ctx, token); err != nil {
		return err
	}
	s.Forget(ctx, token)

	activity.Emit(ctx, s.publisher, activity.NewRecord(activity.TypeAccountDeleted, session.Subject(token), "").
		WithRequestID(requestID))
	return nil
}

// Forget drops the cached profile for token.
func (s *service) Forget(ctx context.Context, token string) {
	if s.cacheService == nil || token == "" {
		return
	}
	if err := s.cacheService.Delete(ctx, profileKey(token)); err != nil {
		s.log.WarnContext(ctx, "profile cache delete failed", slog.Any("error", err))
	}
}

func profileKey(token string) string {
	return constants.BuildProfileKey(session.Key(token))
}
