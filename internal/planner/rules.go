// Package planner maps a natural-language command plus the current screen
// context to one structured action. Two backends ship: a pattern-based
// planner that needs no network, and an OpenAI-backed one.
package planner

import (
	"context"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/uipilot/uipilot/internal/model"
)

var (
	clickElementRe = regexp.MustCompile(`(?i)\bclick\s+(?:on\s+)?(?:element\s+)?(\d+)\b`)
	clickLabelRe   = regexp.MustCompile(`(?i)\bclick\s+(?:on\s+)?(?:the\s+)?(.+?)(?:\s+button)?$`)
	doubleClickRe  = regexp.MustCompile(`(?i)\bdouble[\s-]?click\s+(?:on\s+)?(?:the\s+)?(.+?)(?:\s+button)?$`)
	rightClickRe   = regexp.MustCompile(`(?i)\bright[\s-]?click\s+(?:on\s+)?(?:the\s+)?(.+?)(?:\s+button)?$`)
	typeRe         = regexp.MustCompile(`(?i)^type\s+["']?(.+?)["']?$`)
	scrollRe       = regexp.MustCompile(`(?i)\bscroll\s+(up|down|left|right)\b`)
	shortcutRe     = regexp.MustCompile(`(?i)^press\s+(.+)$`)
)

// RulePlanner resolves commands with surface patterns and a label search
// over the perceived elements. It never gates: confirmation classification
// is the kernel's job.
type RulePlanner struct {
	log *zap.Logger
}

// NewRulePlanner creates the pattern-based planner.
func NewRulePlanner(log *zap.Logger) *RulePlanner {
	if log == nil {
		log = zap.NewNop()
	}
	return &RulePlanner{log: log}
}

// Plan derives one action from the utterance and the current context.
func (p *RulePlanner) Plan(_ context.Context, utterance string, sctx *model.ScreenContext) (model.Action, error) {
	trimmed := strings.TrimSpace(utterance)

	if m := rightClickRe.FindStringSubmatch(trimmed); m != nil {
		if a, ok := clickByLabel(sctx, m[1], model.ActionRightClick); ok {
			return a, nil
		}
	}
	if m := doubleClickRe.FindStringSubmatch(trimmed); m != nil {
		if a, ok := clickByLabel(sctx, m[1], model.ActionDoubleClick); ok {
			return a, nil
		}
	}

	if m := clickElementRe.FindStringSubmatch(trimmed); m != nil {
		n, _ := strconv.Atoi(m[1])
		return model.Action{
			Type:       model.ActionClick,
			Element:    n,
			Confidence: 1.0,
			Reasoning:  "clicking element " + m[1],
		}, nil
	}

	if m := clickLabelRe.FindStringSubmatch(trimmed); m != nil {
		if a, ok := clickByLabel(sctx, m[1], model.ActionClick); ok {
			return a, nil
		}
	}

	if m := typeRe.FindStringSubmatch(trimmed); m != nil {
		return model.Action{
			Type:       model.ActionTypeText,
			Text:       m[1],
			Confidence: 0.9,
			Reasoning:  "typing requested text",
		}, nil
	}

	if m := scrollRe.FindStringSubmatch(trimmed); m != nil {
		return model.Action{
			Type:       model.ActionScroll,
			Direction:  strings.ToLower(m[1]),
			Confidence: 1.0,
			Reasoning:  "scrolling " + strings.ToLower(m[1]),
		}, nil
	}

	if m := shortcutRe.FindStringSubmatch(trimmed); m != nil {
		combo := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(m[1]), " ", "+"))
		return model.Action{
			Type:       model.ActionShortcut,
			Shortcut:   combo,
			Confidence: 0.9,
			Reasoning:  "pressing shortcut " + combo,
		}, nil
	}

	p.log.Debug("no pattern matched", zap.String("utterance", utterance))
	return model.Action{
		Type:       model.ActionUnknown,
		Confidence: 0,
		Reasoning:  "could not understand command",
	}, nil
}

// clickByLabel finds the first numbered element whose label contains the
// target text, case-insensitively.
func clickByLabel(sctx *model.ScreenContext, target string, typ model.ActionType) (model.Action, bool) {
	targetLower := strings.ToLower(strings.TrimSpace(target))
	if targetLower == "" || sctx == nil {
		return model.Action{}, false
	}
	// Walk numbers in ascending order so ties resolve deterministically.
	numbers := make([]int, 0, len(sctx.Elements))
	for n := range sctx.Elements {
		numbers = append(numbers, n)
	}
	sort.Ints(numbers)
	for _, n := range numbers {
		el := sctx.Elements[n]
		if strings.Contains(strings.ToLower(el.Label), targetLower) {
			return model.Action{
				Type:       typ,
				Element:    n,
				Confidence: 0.9,
				Reasoning:  "found '" + targetLower + "' as element " + strconv.Itoa(n),
			}, true
		}
	}
	return model.Action{}, false
}
