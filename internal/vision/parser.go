// Package vision turns raw screen state into the numbered, planner-friendly
// context the engine works with.
package vision

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/uipilot/uipilot/internal/model"
	"github.com/uipilot/uipilot/internal/platform"
)

// MaxElements caps how many elements one perceive cycle numbers. Planner
// prompts degrade badly past this.
const MaxElements = 40

// interactiveRoles are the accessibility roles worth offering to a planner.
var interactiveRoles = map[string]bool{
	"button":      true,
	"link":        true,
	"textfield":   true,
	"textarea":    true,
	"checkbox":    true,
	"radiobutton": true,
	"combobox":    true,
	"slider":      true,
	"menu":        true,
	"menuitem":    true,
	"tab":         true,
	"list":        true,
	"row":         true,
	"cell":        true,
	"popupbutton": true,
	"scrollbar":   true,
	"toolbar":     true,
}

// Parser implements platform.Sensor on top of a raw ScreenSource: it filters
// the tree down to interactive elements, assigns fresh numbers, and
// optionally stamps those numbers onto the screenshot.
type Parser struct {
	src    platform.ScreenSource
	labels bool
	log    *zap.Logger
}

// NewParser creates a parser. When labels is true the screenshot carries
// drawn element numbers for visual-reasoning consumers.
func NewParser(src platform.ScreenSource, labels bool, log *zap.Logger) *Parser {
	if log == nil {
		log = zap.NewNop()
	}
	return &Parser{src: src, labels: labels, log: log}
}

// Perceive reads the screen and builds a fresh numbered context. An empty
// element list means nothing actionable is on screen; it is not an error.
func (p *Parser) Perceive(ctx context.Context) (*model.ScreenContext, error) {
	raw, err := p.src.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("perceive: %w", err)
	}

	sctx := &model.ScreenContext{
		Elements:    make(map[int]model.Element),
		AppName:     raw.AppName,
		WindowTitle: raw.WindowTitle,
		Screenshot:  raw.Screenshot,
	}

	number := 0
	for _, el := range raw.Elements {
		if !isInteractive(el) {
			continue
		}
		number++
		if number > MaxElements {
			break
		}
		sctx.Elements[number] = el
		if el.Focused {
			sctx.FocusedNumber = number
		}
	}

	if p.labels && sctx.Screenshot != nil && len(sctx.Elements) > 0 {
		labeled, err := Annotate(sctx.Screenshot, sctx.Elements)
		if err != nil {
			p.log.Warn("screenshot labeling failed", zap.Error(err))
		} else {
			sctx.Screenshot = labeled
		}
	}

	p.log.Debug("perceived screen",
		zap.String("app", sctx.AppName),
		zap.Int("elements", len(sctx.Elements)))
	return sctx, nil
}

func isInteractive(el model.Element) bool {
	role := strings.ToLower(strings.TrimPrefix(el.Role, "AX"))
	return interactiveRoles[role] || strings.Contains(role, "button")
}

// Describe renders a context as the numbered text list used in planner
// prompts and debug output.
func Describe(sctx *model.ScreenContext) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Active App: %s", sctx.AppName)
	if sctx.WindowTitle != "" {
		fmt.Fprintf(&b, " - %s", sctx.WindowTitle)
	}
	b.WriteString("\n\nInteractive Elements:\n")

	if len(sctx.Elements) == 0 {
		b.WriteString("  (no interactive elements found)\n")
		return b.String()
	}

	numbers := make([]int, 0, len(sctx.Elements))
	for n := range sctx.Elements {
		numbers = append(numbers, n)
	}
	sort.Ints(numbers)

	for _, n := range numbers {
		el := sctx.Elements[n]
		label := el.Label
		if label == "" {
			label = "(unlabeled)"
		}
		role := strings.ToLower(strings.TrimPrefix(el.Role, "AX"))
		status := ""
		if n == sctx.FocusedNumber {
			status = " (focused)"
		} else if !el.Enabled {
			status = " (disabled)"
		}
		fmt.Fprintf(&b, "  %d. [%s] %s%s\n", n, role, label, status)
	}
	return b.String()
}
