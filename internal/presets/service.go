package presets

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"eventdesk/internal/activity"
	"eventdesk/internal/filters"
	"eventdesk/internal/remote"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrPresetNotFound = errors.New("preset not found")
	ErrDuplicateName  = errors.New("a preset with this name already exists")
	ErrEmptyFilter    = errors.New("apply a filter before saving it")
	ErrEmptyName      = errors.New("preset name is required")
	ErrNoOwner        = errors.New("account email unavailable")
)

// ProfileSource resolves the account behind a token. Presets belong to the
// account email.
type ProfileSource interface {
	Profile(ctx context.Context, token string) (*remote.User, error)
}

type Service interface {
	SetPublisher(publisher activity.Publisher)
	List(ctx context.Context, token string) ([]PresetResponse, error)
	Save(ctx context.Context, token, name string, active filters.Active) (*PresetResponse, error)
	Get(ctx context.Context, token, id string) (*Preset, error)
	Delete(ctx context.Context, token, id string) error
}

type service struct {
	repo      Repository
	profiles  ProfileSource
	publisher activity.Publisher
}

func NewService(repo Repository, profiles ProfileSource) Service {
	return &service{
		repo:      repo,
		profiles:  profiles,
		publisher: activity.NopPublisher{},
	}
}

func (s *service) SetPublisher(publisher activity.Publisher) {
	if publisher != nil {
		s.publisher = publisher
	}
}

func (s *service) owner(ctx context.Context, token string) (string, error) {
	user, err := s.profiles.Profile(ctx, token)
	if err != nil {
		return "", err
	}
	if user == nil || strings.TrimSpace(user.Email) == "" {
		return "", ErrNoOwner
	}
	return normalizeOwner(user.Email), nil
}

func (s *service) List(ctx context.Context, token string) ([]PresetResponse, error) {
	owner, err := s.owner(ctx, token)
	if err != nil {
		return nil, err
	}
	presets, err := s.repo.ListByOwner(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to list presets: %w", err)
	}

	responses := make([]PresetResponse, 0, len(presets))
	for i := range presets {
		responses = append(responses, presets[i].ToResponse())
	}
	return responses, nil
}

func (s *service) Save(ctx context.Context, token, name string, active filters.Active) (*PresetResponse, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}
	if !filters.HasActiveConstraints(active) {
		return nil, ErrEmptyFilter
	}

	owner, err := s.owner(ctx, token)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByName(ctx, owner, name)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check existing preset: %w", err)
	}
	if existing != nil {
		return nil, ErrDuplicateName
	}

	preset := NewPreset(owner, name, active)
	if err := s.repo.Create(ctx, preset); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateName
		}
		return nil, fmt.Errorf("failed to save preset: %w", err)
	}

	activity.Emit(ctx, s.publisher, activity.NewRecord(activity.TypePresetSaved, owner, preset.ID.String()).
		WithDetail("name", name))

	response := preset.ToResponse()
	return &response, nil
}

func (s *service) Get(ctx context.Context, token, id string) (*Preset, error) {
	presetID, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrPresetNotFound
	}
	owner, err := s.owner(ctx, token)
	if err != nil {
		return nil, err
	}

	preset, err := s.repo.GetByID(ctx, owner, presetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPresetNotFound
		}
		return nil, fmt.Errorf("failed to get preset: %w", err)
	}
	return preset, nil
}

func (s *service) Delete(ctx context.Context, token, id string) error {
	presetID, err := uuid.Parse(id)
	if err != nil {
		return ErrPresetNotFound
	}
	owner, err := s.owner(ctx, token)
	if err != nil {
		return err
	}

	deleted, err := s.repo.Delete(ctx, owner, presetID)
	if err != nil {
		return fmt.Errorf("failed to delete preset: %w", err)
	}
	if !deleted {
		return ErrPresetNotFound
	}

	activity.Emit(ctx, s.publisher, activity.NewRecord(activity.TypePresetDeleted, owner, id))
	return nil
}
