package database

import (
	"eventdesk/internal/presets"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&presets.Preset{},
	)
}
