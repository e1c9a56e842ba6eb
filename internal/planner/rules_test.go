package planner

import (
	"context"
	"testing"

	"github.com/uipilot/uipilot/internal/model"
)

func testScreen() *model.ScreenContext {
	return &model.ScreenContext{
		AppName: "Mail",
		Elements: map[int]model.Element{
			1: {Role: "button", Label: "Reply", Bounds: [4]int{0, 0, 60, 20}, Enabled: true},
			2: {Role: "button", Label: "Submit Form", Bounds: [4]int{0, 30, 60, 20}, Enabled: true},
			3: {Role: "textfield", Label: "Search Mail", Bounds: [4]int{0, 60, 200, 20}, Enabled: true},
			4: {Role: "button", Label: "Submit Again", Bounds: [4]int{0, 90, 60, 20}, Enabled: true},
		},
	}
}

func TestRulePlanner_ClickElementNumber(t *testing.T) {
	p := NewRulePlanner(nil)

	tests := []struct {
		utterance string
		element   int
	}{
		{"click 2", 2},
		{"click element 3", 3},
		{"Click on element 1", 1},
	}

	for _, tt := range tests {
		a, err := p.Plan(context.Background(), tt.utterance, testScreen())
		if err != nil {
			t.Fatalf("Plan(%q): %v", tt.utterance, err)
		}
		if a.Type != model.ActionClick || a.Element != tt.element {
			t.Errorf("Plan(%q) = %s element %d, want click element %d", tt.utterance, a.Type, a.Element, tt.element)
		}
		if a.Confidence != 1.0 {
			t.Errorf("numbered click should be fully confident, got %v", a.Confidence)
		}
	}
}

func TestRulePlanner_ClickByLabel(t *testing.T) {
	p := NewRulePlanner(nil)

	a, err := p.Plan(context.Background(), "click the reply button", testScreen())
	if err != nil {
		t.Fatal(err)
	}
	if a.Type != model.ActionClick || a.Element != 1 {
		t.Errorf("expected click on element 1, got %s element %d", a.Type, a.Element)
	}
}

func TestRulePlanner_LabelTiesResolveToLowestNumber(t *testing.T) {
	p := NewRulePlanner(nil)

	// "Submit" matches elements 2 and 4; the lower number wins.
	a, _ := p.Plan(context.Background(), "click submit", testScreen())
	if a.Element != 2 {
		t.Errorf("expected the lowest matching element, got %d", a.Element)
	}
}

func TestRulePlanner_DoubleAndRightClick(t *testing.T) {
	p := NewRulePlanner(nil)

	a, _ := p.Plan(context.Background(), "double-click the reply button", testScreen())
	if a.Type != model.ActionDoubleClick || a.Element != 1 {
		t.Errorf("expected double_click element 1, got %s element %d", a.Type, a.Element)
	}

	a, _ = p.Plan(context.Background(), "right click on Search Mail", testScreen())
	if a.Type != model.ActionRightClick || a.Element != 3 {
		t.Errorf("expected right_click element 3, got %s element %d", a.Type, a.Element)
	}
}

func TestRulePlanner_Type(t *testing.T) {
	p := NewRulePlanner(nil)

	tests := []struct {
		utterance string
		text      string
	}{
		{"type hello world", "hello world"},
		{`type "hello world"`, "hello world"},
		{"type 'quoted text'", "quoted text"},
	}

	for _, tt := range tests {
		a, _ := p.Plan(context.Background(), tt.utterance, testScreen())
		if a.Type != model.ActionTypeText || a.Text != tt.text {
			t.Errorf("Plan(%q) = %s %q, want type %q", tt.utterance, a.Type, a.Text, tt.text)
		}
	}
}

func TestRulePlanner_Scroll(t *testing.T) {
	p := NewRulePlanner(nil)

	for _, dir := range []string{"up", "down", "left", "right"} {
		a, _ := p.Plan(context.Background(), "scroll "+dir, testScreen())
		if a.Type != model.ActionScroll || a.Direction != dir {
			t.Errorf("expected scroll %s, got %s %s", dir, a.Type, a.Direction)
		}
	}
}

func TestRulePlanner_Shortcut(t *testing.T) {
	p := NewRulePlanner(nil)

	tests := []struct {
		utterance string
		combo     string
	}{
		{"press cmd+s", "cmd+s"},
		{"press cmd shift z", "cmd+shift+z"},
		{"Press Enter", "enter"},
	}

	for _, tt := range tests {
		a, _ := p.Plan(context.Background(), tt.utterance, testScreen())
		if a.Type != model.ActionShortcut || a.Shortcut != tt.combo {
			t.Errorf("Plan(%q) = %s %q, want shortcut %q", tt.utterance, a.Type, a.Shortcut, tt.combo)
		}
	}
}

func TestRulePlanner_Unknown(t *testing.T) {
	p := NewRulePlanner(nil)

	tests := []string{
		"make me a sandwich",
		"click the nonexistent widget",
		"",
	}

	for _, utterance := range tests {
		a, err := p.Plan(context.Background(), utterance, testScreen())
		if err != nil {
			t.Fatalf("Plan(%q): %v", utterance, err)
		}
		if a.Type != model.ActionUnknown {
			t.Errorf("Plan(%q) = %s, want unknown", utterance, a.Type)
		}
		if a.Confidence != 0 {
			t.Errorf("unknown action should carry zero confidence, got %v", a.Confidence)
		}
	}
}

func TestRulePlanner_NilScreen(t *testing.T) {
	p := NewRulePlanner(nil)

	a, err := p.Plan(context.Background(), "click the reply button", nil)
	if err != nil {
		t.Fatal(err)
	}
	if a.Type != model.ActionUnknown {
		t.Errorf("label click with no screen should be unknown, got %s", a.Type)
	}
}
