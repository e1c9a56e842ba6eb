package model

// Element represents a UI element reported by the accessibility layer.
type Element struct {
	ID      string `yaml:"id,omitempty"      json:"id,omitempty"`      // Accessibility identifier
	Label   string `yaml:"label"             json:"label"`             // Visible label / title
	Role    string `yaml:"role"              json:"role"`              // Element role ("button", "textfield", "link")
	Bounds  [4]int `yaml:"bounds"            json:"bounds"`            // [x, y, width, height]
	Value   string `yaml:"value,omitempty"   json:"value,omitempty"`   // Current value (for inputs)
	Enabled bool   `yaml:"enabled"           json:"enabled"`           // Is element interactable
	Focused bool   `yaml:"focused,omitempty" json:"focused,omitempty"` // Has keyboard focus
}

// Center returns the midpoint of the element's bounds, the natural click target.
func (e Element) Center() (int, int) {
	return e.Bounds[0] + e.Bounds[2]/2, e.Bounds[1] + e.Bounds[3]/2
}
