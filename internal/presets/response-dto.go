package presets

import (
	"time"

	"eventdesk/internal/filters"
)

type PresetResponse struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Summary   string         `json:"summary"`
	Filter    filters.Active `json:"filter"`
	CreatedAt time.Time      `json:"created_at"`
}
