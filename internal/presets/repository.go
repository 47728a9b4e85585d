package presets

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, preset *Preset) error
	GetByID(ctx context.Context, owner string, id uuid.UUID) (*Preset, error)
	GetByName(ctx context.Context, owner, name string) (*Preset, error)
	ListByOwner(ctx context.Context, owner string) ([]Preset, error)
	Delete(ctx context.Context, owner string, id uuid.UUID) (bool, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, preset *Preset) error {
	return r.db.WithContext(ctx).Create(preset).Error
}

func (r *repository) GetByID(ctx context.Context, owner string, id uuid.UUID) (*Preset, error) {
	var preset Preset
	err := r.db.WithContext(ctx).
		Where("id = ? AND owner_email = ?", id, normalizeOwner(owner)).
		First(&preset).Error
	if err != nil {
		return nil, err
	}
	return &preset, nil
}

func (r *repository) GetByName(ctx context.Context, owner, name string) (*Preset, error) {
	var preset Preset
	err := r.db.WithContext(ctx).
		Where("owner_email = ? AND name = ?", normalizeOwner(owner), name).
		First(&preset).Error
	if err != nil {
		return nil, err
	}
	return &preset, nil
}

func (r *repository) ListByOwner(ctx context.Context, owner string) ([]Preset, error) {
	var presets []Preset
	err := r.db.WithContext(ctx).
		Where("owner_email = ?", normalizeOwner(owner)).
		Order("name ASC").
		Find(&presets).Error
	return presets, err
}

// Delete reports whether a row was removed.
func (r *repository) Delete(ctx context.Context, owner string, id uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("id = ? AND owner_email = ?", id, normalizeOwner(owner)).
		Delete(&Preset{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
