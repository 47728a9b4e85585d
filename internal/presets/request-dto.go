package presets

// SavePresetRequest names the current active filter.
type SavePresetRequest struct {
	Name string `form:"name" json:"name" validate:"required,min=1,max=100"`
}
