package platform

import (
	"context"

	"github.com/uipilot/uipilot/internal/model"
)

// RawScreen is the unprocessed screen state delivered by a ScreenSource.
// Elements are unfiltered and unnumbered; the vision parser turns this into
// a model.ScreenContext.
type RawScreen struct {
	Elements    []model.Element
	AppName     string
	WindowTitle string
	Screenshot  []byte // PNG, may be nil
}

// ScreenSource reads raw screen state from the OS accessibility layer.
type ScreenSource interface {
	Snapshot(ctx context.Context) (*RawScreen, error)
}

// Sensor produces a parsed, numbered screen context. One call is one
// perceive cycle; element numbers are not stable across calls.
type Sensor interface {
	Perceive(ctx context.Context) (*model.ScreenContext, error)
}

// AppTracker reports the frontmost application without a full tree read.
type AppTracker interface {
	ActiveApp(ctx context.Context) (string, error)
}

// Inputter injects mouse and keyboard input.
type Inputter interface {
	Click(ctx context.Context, x, y int) error
	DoubleClick(ctx context.Context, x, y int) error
	RightClick(ctx context.Context, x, y int) error
	ClickElement(ctx context.Context, el model.Element) error
	TypeText(ctx context.Context, text string) error
	PressShortcut(ctx context.Context, combo string) error
	Scroll(ctx context.Context, direction string, amount int) error
}

// TextLocator finds on-screen text and returns its click point. A lookup
// that finds nothing returns an error; it does not click.
type TextLocator interface {
	Locate(ctx context.Context, query string) (x, y int, err error)
}

// VisualReasoner resolves a command that needs visual understanding of the
// screen (relative positions, colors, icons). No implementation ships with
// the engine; the router reports a clear failure when none is injected.
type VisualReasoner interface {
	Execute(ctx context.Context, utterance string, sctx *model.ScreenContext) (string, error)
}

// Speaker voices a message to the user. Fire-and-forget: failures are
// logged by implementations, never returned.
type Speaker interface {
	Speak(text string)
}
