package engine

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/uipilot/uipilot/internal/model"
	"github.com/uipilot/uipilot/internal/platform"
	"github.com/uipilot/uipilot/internal/router"
	"github.com/uipilot/uipilot/internal/safety"
	"github.com/uipilot/uipilot/internal/uicache"
)

// Engine is the session-level dispatch layer. It owns the kernel, router,
// confirmation gate, and coordinate cache as explicitly constructed
// services; callers hold an Engine per session instead of reaching for
// process globals. Simple click commands try the router's cheap tiers
// first; everything else, including router misses, runs the kernel loop.
type Engine struct {
	kernel  *Kernel
	router  *router.Router
	guard   *safety.Guard
	cache   *uicache.Cache
	tracker platform.AppTracker
	sensor  platform.Sensor
	speaker platform.Speaker
	speak   bool
	log     *zap.Logger
}

// New assembles an engine from its services. tracker and speaker may be nil.
func New(kernel *Kernel, rt *router.Router, guard *safety.Guard, cache *uicache.Cache, tracker platform.AppTracker, sensor platform.Sensor, speaker platform.Speaker, speak bool, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	if speaker == nil {
		speaker = platform.NopSpeaker{}
	}
	return &Engine{
		kernel:  kernel,
		router:  rt,
		guard:   guard,
		cache:   cache,
		tracker: tracker,
		sensor:  sensor,
		speaker: speaker,
		speak:   speak,
		log:     log,
	}
}

// ProcessCommand executes one natural-language command end to end.
// Sensitive commands return a confirmation request before any routing or
// execution happens, so no input is ever injected for an unconfirmed
// destructive command.
func (e *Engine) ProcessCommand(ctx context.Context, utterance string) model.Result {
	if e.guard.RequiresConfirmation(utterance) {
		e.guard.SetPending(utterance)
		prompt := e.guard.ConfirmationPrompt(utterance)
		e.log.Info("command gated for confirmation", zap.String("utterance", utterance))
		res := model.Result{
			ID:                 uuid.NewString(),
			Success:            false,
			Message:            "Confirmation needed: " + utterance,
			Attempts:           1,
			NeedsConfirmation:  true,
			ConfirmationPrompt: prompt,
		}
		e.announce(res.ConfirmationPrompt)
		return res
	}

	app := e.activeApp(ctx)
	plan := e.router.Route(utterance, app)

	if plan.Tier == router.TierCached || plan.Tier == router.TierText {
		rres := e.router.Execute(ctx, plan, app)
		if rres.Success {
			res := model.Result{
				ID:                 uuid.NewString(),
				Success:            true,
				Message:            rres.Message,
				Attempts:           1,
				Verification:       model.VerifyAssumed,
				VerificationPassed: true,
				Tier:               string(rres.Tier),
			}
			e.announce("Done. " + res.Message)
			return res
		}
		// Cheap tier missed; the kernel loop gets a full try.
		e.log.Info("router tier failed, falling back to kernel",
			zap.String("tier", string(rres.Tier)), zap.String("message", rres.Message))
	}

	res := e.kernel.ProcessCommand(ctx, utterance)
	if res.Success {
		e.announce("Done. " + res.Message)
	} else if !res.NeedsConfirmation {
		e.announce(res.Message)
	}
	return res
}

// ProcessWithConfirmation resolves a previously gated command.
func (e *Engine) ProcessWithConfirmation(ctx context.Context, utterance string, confirmed bool) model.Result {
	res := e.kernel.ProcessWithConfirmation(ctx, utterance, confirmed)
	e.announce(res.Message)
	return res
}

// RequiresConfirmation exposes the gate's classification.
func (e *Engine) RequiresConfirmation(utterance string) bool {
	return e.guard.RequiresConfirmation(utterance)
}

// ParseConfirmation interprets a natural reply to a confirmation prompt.
func (e *Engine) ParseConfirmation(text string) safety.Response {
	return e.guard.ParseResponse(text)
}

// HasPendingConfirmation reports whether a command awaits confirmation.
func (e *Engine) HasPendingConfirmation() bool {
	return e.guard.HasPending()
}

// PendingCommand returns the command awaiting confirmation, if any.
func (e *Engine) PendingCommand() (string, bool) {
	return e.guard.PendingCommand()
}

// Route returns the routing decision for a command without executing it,
// along with the app context the decision was made against.
func (e *Engine) Route(ctx context.Context, utterance string) (router.Plan, string) {
	app := e.activeApp(ctx)
	return e.router.Route(utterance, app), app
}

// RouteFor is Route with an explicit app context instead of the frontmost app.
func (e *Engine) RouteFor(utterance, app string) router.Plan {
	return e.router.Route(utterance, app)
}

// ScreenContext exposes the current perceive snapshot for inspection.
func (e *Engine) ScreenContext(ctx context.Context) (*model.ScreenContext, error) {
	return e.sensor.Perceive(ctx)
}

// CacheStats returns coordinate cache counters.
func (e *Engine) CacheStats() uicache.Stats {
	return e.cache.Stats()
}

// InvalidateCache clears cached coordinates, scoped to one app when app is
// non-empty. Returns the number of entries removed.
func (e *Engine) InvalidateCache(app string) int {
	if app == "" {
		return e.cache.InvalidateAll()
	}
	return e.cache.InvalidateApp(app)
}

func (e *Engine) activeApp(ctx context.Context) string {
	if e.tracker == nil {
		return "Unknown"
	}
	app, err := e.tracker.ActiveApp(ctx)
	if err != nil {
		e.log.Debug("active app lookup failed", zap.Error(err))
		return "Unknown"
	}
	return app
}

func (e *Engine) announce(text string) {
	if e.speak && text != "" {
		e.speaker.Speak(text)
	}
}
