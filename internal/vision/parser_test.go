package vision

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/uipilot/uipilot/internal/model"
	"github.com/uipilot/uipilot/internal/platform"
)

type fakeSource struct {
	raw *platform.RawScreen
	err error
}

func (s fakeSource) Snapshot(_ context.Context) (*platform.RawScreen, error) {
	return s.raw, s.err
}

func TestPerceive_FiltersAndNumbers(t *testing.T) {
	src := fakeSource{raw: &platform.RawScreen{
		AppName:     "Safari",
		WindowTitle: "Apple",
		Elements: []model.Element{
			{Role: "button", Label: "Back", Enabled: true},
			{Role: "group", Label: "Toolbar"}, // not interactive
			{Role: "AXTextField", Label: "Address", Enabled: true, Focused: true},
			{Role: "statictext", Label: "Welcome"}, // not interactive
			{Role: "link", Label: "Store", Enabled: true},
		},
	}}

	sctx, err := NewParser(src, false, nil).Perceive(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(sctx.Elements) != 3 {
		t.Fatalf("expected 3 interactive elements, got %d", len(sctx.Elements))
	}
	// Numbering follows source order over the interactive subset.
	if sctx.Elements[1].Label != "Back" || sctx.Elements[2].Label != "Address" || sctx.Elements[3].Label != "Store" {
		t.Errorf("unexpected numbering: %+v", sctx.Elements)
	}
	if sctx.FocusedNumber != 2 {
		t.Errorf("expected focused number 2, got %d", sctx.FocusedNumber)
	}
	if sctx.AppName != "Safari" || sctx.WindowTitle != "Apple" {
		t.Errorf("app/window not carried over: %s / %s", sctx.AppName, sctx.WindowTitle)
	}
}

func TestPerceive_AXRolePrefixAndButtonVariants(t *testing.T) {
	src := fakeSource{raw: &platform.RawScreen{
		Elements: []model.Element{
			{Role: "AXButton", Label: "OK", Enabled: true},
			{Role: "popupbutton", Label: "Options", Enabled: true},
			{Role: "closebutton", Label: "Close", Enabled: true}, // matched by the button substring
		},
	}}

	sctx, err := NewParser(src, false, nil).Perceive(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(sctx.Elements) != 3 {
		t.Errorf("expected all button variants to pass the filter, got %d", len(sctx.Elements))
	}
}

func TestPerceive_CapsElementCount(t *testing.T) {
	raw := &platform.RawScreen{}
	for i := 0; i < MaxElements+20; i++ {
		raw.Elements = append(raw.Elements, model.Element{
			Role: "button", Label: fmt.Sprintf("Button %d", i), Enabled: true,
		})
	}

	sctx, err := NewParser(fakeSource{raw: raw}, false, nil).Perceive(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(sctx.Elements) != MaxElements {
		t.Errorf("expected the element cap to hold, got %d", len(sctx.Elements))
	}
}

func TestPerceive_EmptyScreenIsNotAnError(t *testing.T) {
	src := fakeSource{raw: &platform.RawScreen{AppName: "Finder"}}

	sctx, err := NewParser(src, false, nil).Perceive(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(sctx.Elements) != 0 {
		t.Errorf("expected no elements, got %d", len(sctx.Elements))
	}
}

func TestPerceive_SourceErrorPropagates(t *testing.T) {
	src := fakeSource{err: fmt.Errorf("bridge unreachable")}

	if _, err := NewParser(src, false, nil).Perceive(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

func TestDescribe(t *testing.T) {
	sctx := &model.ScreenContext{
		AppName:       "Safari",
		WindowTitle:   "Apple",
		FocusedNumber: 2,
		Elements: map[int]model.Element{
			1: {Role: "AXButton", Label: "Back", Enabled: true},
			2: {Role: "textfield", Label: "Address", Enabled: true},
			3: {Role: "button", Label: "", Enabled: false},
		},
	}

	out := Describe(sctx)

	for _, want := range []string{
		"Active App: Safari",
		"Apple",
		"1. [button] Back",
		"2. [textfield] Address (focused)",
		"3. [button] (unlabeled) (disabled)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Describe output missing %q:\n%s", want, out)
		}
	}

	// Numbered lines come out in ascending order.
	if strings.Index(out, "1. [") > strings.Index(out, "3. [") {
		t.Error("elements should be listed in ascending order")
	}
}

func TestDescribe_Empty(t *testing.T) {
	out := Describe(&model.ScreenContext{AppName: "Finder", Elements: map[int]model.Element{}})
	if !strings.Contains(out, "no interactive elements") {
		t.Errorf("expected the empty marker, got:\n%s", out)
	}
}
