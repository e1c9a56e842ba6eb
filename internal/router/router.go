// Package router picks the cheapest execution path for a command. Targets
// seen before resolve from the coordinate cache in O(1); plain text labels
// go through the bridge's text search; anything visually or positionally
// relative needs full visual reasoning.
package router

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/uipilot/uipilot/internal/platform"
	"github.com/uipilot/uipilot/internal/uicache"
)

// Tier is one of the three execution paths, ordered by latency: cached
// (~100ms), text search (~500ms), full visual reasoning (~3s).
type Tier string

const (
	TierCached Tier = "cached"
	TierText   Tier = "text"
	TierVisual Tier = "visual"
)

// Plan is a routing decision: which tier to run and what it needs.
type Plan struct {
	Tier      Tier   `yaml:"tier"                json:"tier"`
	Target    string `yaml:"target,omitempty"    json:"target,omitempty"`    // extracted click target (cached/text)
	X         int    `yaml:"x,omitempty"         json:"x,omitempty"`         // cached coordinate
	Y         int    `yaml:"y,omitempty"         json:"y,omitempty"`
	HasCoords bool   `yaml:"-"                   json:"-"`
	Utterance string `yaml:"utterance,omitempty" json:"utterance,omitempty"` // original command (visual)
}

// Result is the outcome of executing a plan, tagged with the tier that ran.
type Result struct {
	Success bool   `yaml:"success" json:"success"`
	Message string `yaml:"message" json:"message"`
	Tier    Tier   `yaml:"tier"    json:"tier"`
}

// clickPatterns extract a click target from a command. First match wins.
var clickPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^click\s+(?:on\s+)?(?:the\s+)?(.+)$`),
	regexp.MustCompile(`(?i)^tap\s+(?:on\s+)?(?:the\s+)?(.+)$`),
	regexp.MustCompile(`(?i)^press\s+(?:the\s+)?(.+?)(?:\s+button)?$`),
	regexp.MustCompile(`(?i)^select\s+(.+)$`),
}

// complexIndicators mark targets whose identity is visual or positional
// rather than a stable label. Such targets cannot be trusted to a cached
// coordinate or a plain text search.
var complexIndicators = []string{
	"first", "second", "third", "last", "next", "previous",
	"red", "blue", "green", "large", "small", "icon",
	"image", "picture", "photo", "logo",
}

// Router decides and drives the tiered execution path. Successful text-tier
// resolutions are written back to the coordinate cache; that is the cache's
// sole population path.
type Router struct {
	cache   *uicache.Cache
	input   platform.Inputter
	locator platform.TextLocator
	visual  platform.VisualReasoner // nil until a visual backend is wired in
	log     *zap.Logger
}

// New creates a router. visual may be nil; the visual tier then reports a
// clear not-implemented failure.
func New(cache *uicache.Cache, input platform.Inputter, locator platform.TextLocator, visual platform.VisualReasoner, log *zap.Logger) *Router {
	if log == nil {
		log = zap.NewNop()
	}
	return &Router{cache: cache, input: input, locator: locator, visual: visual, log: log}
}

// Route decides the execution tier for a command in the given app context.
func (r *Router) Route(utterance, appName string) Plan {
	lower := strings.ToLower(strings.TrimSpace(utterance))

	target, ok := extractClickTarget(lower)
	if !ok {
		r.log.Debug("no click target, visual fallback", zap.String("utterance", utterance))
		return Plan{Tier: TierVisual, Utterance: utterance}
	}

	if needsVisual(target) {
		r.log.Debug("complex target needs visual tier", zap.String("target", target))
		return Plan{Tier: TierVisual, Target: target, Utterance: utterance}
	}

	if x, y, hit := r.cache.Get(appName, target); hit {
		r.log.Debug("cache hit", zap.String("target", target), zap.Int("x", x), zap.Int("y", y))
		return Plan{Tier: TierCached, Target: target, X: x, Y: y, HasCoords: true}
	}

	return Plan{Tier: TierText, Target: target}
}

// Execute runs the chosen tier. Collaborator errors never escape: they are
// converted into a failure Result tagged with the tier that was attempted.
func (r *Router) Execute(ctx context.Context, plan Plan, appName string) Result {
	var err error
	var msg string

	switch plan.Tier {
	case TierCached:
		msg, err = r.executeCached(ctx, plan)
	case TierText:
		msg, err = r.executeText(ctx, plan, appName)
	case TierVisual:
		msg, err = r.executeVisual(ctx, plan)
	default:
		err = fmt.Errorf("unknown tier %q", plan.Tier)
	}

	if err != nil {
		r.log.Warn("tier execution failed", zap.String("tier", string(plan.Tier)), zap.Error(err))
		return Result{Success: false, Message: err.Error(), Tier: plan.Tier}
	}
	return Result{Success: true, Message: msg, Tier: plan.Tier}
}

// executeCached clicks a previously resolved coordinate directly.
func (r *Router) executeCached(ctx context.Context, plan Plan) (string, error) {
	if !plan.HasCoords {
		return "", fmt.Errorf("cached plan has no coordinate")
	}
	if err := r.input.Click(ctx, plan.X, plan.Y); err != nil {
		return "", fmt.Errorf("cached click: %w", err)
	}
	return fmt.Sprintf("Clicked %s at (%d, %d) [cached]", plan.Target, plan.X, plan.Y), nil
}

// executeText resolves the target through the bridge's text search, clicks
// it, and caches the coordinate for next time.
func (r *Router) executeText(ctx context.Context, plan Plan, appName string) (string, error) {
	x, y, err := r.locator.Locate(ctx, plan.Target)
	if err != nil {
		return "", fmt.Errorf("text search: %w", err)
	}
	if err := r.input.Click(ctx, x, y); err != nil {
		return "", fmt.Errorf("click located text: %w", err)
	}
	r.cache.Set(appName, plan.Target, x, y)
	r.log.Info("cached resolved target",
		zap.String("app", appName), zap.String("target", plan.Target),
		zap.Int("x", x), zap.Int("y", y))
	return fmt.Sprintf("Clicked %s via text search", plan.Target), nil
}

// executeVisual delegates to the visual-reasoning collaborator when one is
// wired in, and otherwise reports a clear failure rather than pretending.
func (r *Router) executeVisual(ctx context.Context, plan Plan) (string, error) {
	if r.visual == nil {
		return "", fmt.Errorf("visual reasoning is not available for %q", plan.Utterance)
	}
	msg, err := r.visual.Execute(ctx, plan.Utterance, nil)
	if err != nil {
		return "", fmt.Errorf("visual reasoning: %w", err)
	}
	return msg, nil
}

func extractClickTarget(utterance string) (string, bool) {
	for _, p := range clickPatterns {
		if m := p.FindStringSubmatch(utterance); m != nil {
			target := strings.TrimSpace(m[1])
			if target != "" {
				return target, true
			}
		}
	}
	return "", false
}

func needsVisual(target string) bool {
	lower := strings.ToLower(target)
	for _, ind := range complexIndicators {
		if strings.Contains(lower, ind) {
			return true
		}
	}
	return false
}
