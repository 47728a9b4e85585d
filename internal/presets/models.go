package presets

import (
	"strings"
	"time"

	"eventdesk/internal/filters"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Preset is a named active filter saved by one account.
type Preset struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	OwnerEmail string    `json:"owner_email" gorm:"not null;size:255;uniqueIndex:idx_preset_owner_name"`
	Name       string    `json:"name" gorm:"not null;size:100;uniqueIndex:idx_preset_owner_name"`
	SearchTerm *string   `json:"search_term" gorm:"size:255"`
	Start      string    `json:"start" gorm:"size:16"`
	End        string    `json:"end" gorm:"size:16"`
	MinPrice   string    `json:"min_price" gorm:"size:32"`
	MaxPrice   string    `json:"max_price" gorm:"size:32"`
	CreatedAt  time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt  time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (Preset) TableName() string {
	return "filter_presets"
}

func (p *Preset) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// Active returns the stored filter.
func (p *Preset) Active() filters.Active {
	var term *string
	if p.SearchTerm != nil {
		t := *p.SearchTerm
		term = &t
	}
	return filters.Active{
		SearchTerm: term,
		Start:      p.Start,
		End:        p.End,
		MinPrice:   p.MinPrice,
		MaxPrice:   p.MaxPrice,
	}
}

// NewPreset builds an unsaved preset for owner from an active filter.
func NewPreset(owner, name string, a filters.Active) *Preset {
	p := &Preset{
		OwnerEmail: normalizeOwner(owner),
		Name:       name,
		Start:      a.Start,
		End:        a.End,
		MinPrice:   a.MinPrice,
		MaxPrice:   a.MaxPrice,
	}
	if a.SearchTerm != nil {
		t := *a.SearchTerm
		p.SearchTerm = &t
	}
	return p
}

func normalizeOwner(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Helper methods
func (p *Preset) ToResponse() PresetResponse {
	return PresetResponse{
		ID:        p.ID.String(),
		Name:      p.Name,
		Summary:   Summarize(p.Active()),
		Filter:    p.Active(),
		CreatedAt: p.CreatedAt,
	}
}

// Summarize describes a filter in a few words for the preset list.
func Summarize(a filters.Active) string {
	var parts []string
	if term := a.Term(); term != "" {
		parts = append(parts, `"`+term+`"`)
	}
	switch {
	case a.Start != "" && a.End != "":
		parts = append(parts, a.Start+" to "+a.End)
	case a.Start != "":
		parts = append(parts, "from "+a.Start)
	case a.End != "":
		parts = append(parts, "until "+a.End)
	}
	switch {
	case a.MinPrice != "" && a.MaxPrice != "":
		parts = append(parts, "$"+a.MinPrice+" to $"+a.MaxPrice)
	case a.MinPrice != "":
		parts = append(parts, "from $"+a.MinPrice)
	case a.MaxPrice != "":
		parts = append(parts, "up to $"+a.MaxPrice)
	}
	if len(parts) == 0 {
		return "all events"
	}
	return strings.Join(parts, ", ")
}
