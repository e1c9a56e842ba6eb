package model

// ActionType identifies the kind of UI action a planner produced.
type ActionType string

const (
	ActionClick           ActionType = "click"
	ActionDoubleClick     ActionType = "double_click"
	ActionRightClick      ActionType = "right_click"
	ActionTypeText        ActionType = "type"
	ActionShortcut        ActionType = "shortcut"
	ActionScroll          ActionType = "scroll"
	ActionSpeak           ActionType = "speak"
	ActionConfirmRequired ActionType = "confirm_required"
	ActionUnknown         ActionType = "unknown"
)

// retryOffsetStep is the per-retry coordinate nudge in pixels.
const retryOffsetStep = 5

// Action is one planned UI action. A zero Element means no element target;
// HasCoords distinguishes an explicit (0,0) coordinate from no coordinate.
type Action struct {
	Type       ActionType `yaml:"type"                json:"type"`
	Element    int        `yaml:"element,omitempty"   json:"element,omitempty"` // element number from the perceive snapshot
	X          int        `yaml:"x,omitempty"         json:"x,omitempty"`
	Y          int        `yaml:"y,omitempty"         json:"y,omitempty"`
	HasCoords  bool       `yaml:"-"                   json:"-"`
	Text       string     `yaml:"text,omitempty"      json:"text,omitempty"`     // for type/speak/confirm_required
	Shortcut   string     `yaml:"shortcut,omitempty"  json:"shortcut,omitempty"` // "+"-joined combo, e.g. "cmd+shift+z"
	Direction  string     `yaml:"direction,omitempty" json:"direction,omitempty"`
	Amount     int        `yaml:"amount,omitempty"    json:"amount,omitempty"`
	Confidence float64    `yaml:"confidence"          json:"confidence"`
	Reasoning  string     `yaml:"reasoning,omitempty" json:"reasoning,omitempty"`
}

// WithRetryOffset returns a copy of the action adjusted for the given retry
// number (1 for the first retry). Coordinate-based clicks are nudged by
// +5*retry pixels on both axes to escape slightly-misaligned coordinates;
// all other actions are returned unchanged. The receiver is never mutated.
func (a Action) WithRetryOffset(retry int) Action {
	if retry <= 0 || !a.HasCoords {
		return a
	}
	switch a.Type {
	case ActionClick, ActionDoubleClick, ActionRightClick:
		a.X += retryOffsetStep * retry
		a.Y += retryOffsetStep * retry
	}
	return a
}
