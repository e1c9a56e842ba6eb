// Package engine implements the command execution core: the retrying
// perceive → plan → execute → verify loop and the session-level dispatch
// that ties the router, cache, and confirmation gate together.
package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/uipilot/uipilot/internal/model"
	"github.com/uipilot/uipilot/internal/platform"
	"github.com/uipilot/uipilot/internal/safety"
)

// Planner derives one structured action from an utterance and the screen
// context of the current perceive cycle.
type Planner interface {
	Plan(ctx context.Context, utterance string, sctx *model.ScreenContext) (model.Action, error)
}

// KernelConfig tunes the retry loop.
type KernelConfig struct {
	MaxRetries  int           // attempts per command (default 3)
	VerifyDelay time.Duration // settle time before re-perceiving (default 500ms)
	RetryDelay  time.Duration // pause between attempts (default 300ms)
}

func (c KernelConfig) withDefaults() KernelConfig {
	if c.MaxRetries <= 0 {
		c.MaxRetries = 3
	}
	if c.VerifyDelay <= 0 {
		c.VerifyDelay = 500 * time.Millisecond
	}
	if c.RetryDelay <= 0 {
		c.RetryDelay = 300 * time.Millisecond
	}
	return c
}

// Kernel is the retrying state machine that turns one command into one
// executed, verified UI action. One command is in flight per kernel at a
// time; attempts within it are strictly sequential.
type Kernel struct {
	cfg     KernelConfig
	sensor  platform.Sensor
	input   platform.Inputter
	speaker platform.Speaker
	planner Planner
	guard   *safety.Guard
	log     *zap.Logger
}

// NewKernel wires the kernel's collaborators. speaker may be nil.
func NewKernel(cfg KernelConfig, sensor platform.Sensor, input platform.Inputter, speaker platform.Speaker, planner Planner, guard *safety.Guard, log *zap.Logger) *Kernel {
	if log == nil {
		log = zap.NewNop()
	}
	if speaker == nil {
		speaker = platform.NopSpeaker{}
	}
	return &Kernel{
		cfg:     cfg.withDefaults(),
		sensor:  sensor,
		input:   input,
		speaker: speaker,
		planner: planner,
		guard:   guard,
		log:     log,
	}
}

// exhaustedMessage is returned when every attempt failed without a more
// specific execute error to report.
const exhaustedMessage = "I'm having trouble completing this action. Is the target visible on screen?"

// ProcessCommand runs the full perceive/plan/execute/verify loop for one
// command. Sensitive commands short-circuit with a confirmation request
// before anything executes. Collaborator errors are absorbed into the retry
// budget and only surface in the final result message.
func (k *Kernel) ProcessCommand(ctx context.Context, utterance string) model.Result {
	id := uuid.NewString()
	log := k.log.With(zap.String("command_id", id), zap.String("utterance", utterance))
	log.Info("processing command")

	var lastErr error

	for attempt := 1; attempt <= k.cfg.MaxRetries; attempt++ {
		// 1. Perceive.
		sctx, err := k.sensor.Perceive(ctx)
		if err != nil {
			lastErr = err
			log.Warn("perceive failed", zap.Int("attempt", attempt), zap.Error(err))
			if !k.pauseForRetry(ctx, attempt) {
				break
			}
			continue
		}

		// 2. The confirmation gate runs before any planning.
		if k.guard.RequiresConfirmation(utterance) {
			k.guard.SetPending(utterance)
			prompt := k.guard.ConfirmationPrompt(utterance)
			log.Info("confirmation required", zap.Int("attempt", attempt))
			return model.Result{
				ID:                 id,
				Success:            false,
				Message:            "Confirmation needed: " + utterance,
				Attempts:           attempt,
				NeedsConfirmation:  true,
				ConfirmationPrompt: prompt,
			}
		}

		// 3. Plan.
		action, err := k.planner.Plan(ctx, utterance, sctx)
		if err != nil {
			lastErr = err
			log.Warn("planning failed", zap.Int("attempt", attempt), zap.Error(err))
			if !k.pauseForRetry(ctx, attempt) {
				break
			}
			continue
		}
		log.Debug("planned action",
			zap.String("type", string(action.Type)),
			zap.Float64("confidence", action.Confidence))

		// A command the planner cannot map to an action is never retried:
		// the screen will not make the words clearer.
		if action.Type == model.ActionUnknown {
			return model.Result{
				ID:          id,
				Success:     false,
				Message:     "I couldn't understand that command.",
				Attempts:    attempt,
				ActionTaken: &action,
			}
		}

		// 4. Execute, with the attempt-indexed coordinate nudge on retries.
		attemptAction := action.WithRetryOffset(attempt - 1)
		if err := k.execute(ctx, attemptAction, sctx); err != nil {
			lastErr = err
			log.Warn("execute failed", zap.Int("attempt", attempt), zap.Error(err))
			if attempt < k.cfg.MaxRetries {
				k.pauseForRetry(ctx, attempt)
				continue
			}
			return model.Result{
				ID:          id,
				Success:     false,
				Message:     fmt.Sprintf("Failed to execute after %d attempts: %v. Is the target visible on screen?", attempt, err),
				Attempts:    attempt,
				ActionTaken: &attemptAction,
			}
		}

		// 5. Verify after a settle delay.
		if !sleepCtx(ctx, k.cfg.VerifyDelay) {
			lastErr = ctx.Err()
			break
		}
		verification, err := k.verify(ctx, attemptAction, sctx)
		if err != nil {
			lastErr = err
			log.Warn("verification errored", zap.Int("attempt", attempt), zap.Error(err))
			if !k.pauseForRetry(ctx, attempt) {
				break
			}
			continue
		}
		// Today verify only reports VerifyFailed together with an error,
		// which the branch above consumes. This branch is reserved for a
		// verifier that can affirmatively conclude "no effect" without
		// erroring.
		if verification == model.VerifyFailed {
			log.Warn("verification failed", zap.Int("attempt", attempt))
			lastErr = fmt.Errorf("action had no visible effect")
			if !k.pauseForRetry(ctx, attempt) {
				break
			}
			continue
		}

		msg := successMessage(attemptAction)
		log.Info("command succeeded",
			zap.Int("attempts", attempt),
			zap.String("verification", string(verification)))
		return model.Result{
			ID:                 id,
			Success:            true,
			Message:            msg,
			Attempts:           attempt,
			Verification:       verification,
			VerificationPassed: verification.Passed(),
			ActionTaken:        &attemptAction,
		}
	}

	msg := exhaustedMessage
	if lastErr != nil {
		log.Error("command failed", zap.Error(lastErr))
		msg = fmt.Sprintf("%s (last error: %v)", exhaustedMessage, lastErr)
	}
	return model.Result{
		ID:       id,
		Success:  false,
		Message:  msg,
		Attempts: k.cfg.MaxRetries,
	}
}

// ProcessWithConfirmation resumes a command that was gated. The pending
// slot is cleared either way. On confirmation the command is re-perceived
// and re-planned with the gate bypassed, then executed exactly once; the
// multi-attempt retry loop is not re-entered.
func (k *Kernel) ProcessWithConfirmation(ctx context.Context, utterance string, confirmed bool) model.Result {
	id := uuid.NewString()
	k.guard.ClearPending()

	if !confirmed {
		k.log.Info("command cancelled", zap.String("utterance", utterance))
		return model.Result{ID: id, Success: false, Message: "Action cancelled.", Attempts: 0}
	}

	log := k.log.With(zap.String("command_id", id), zap.String("utterance", utterance))
	log.Info("processing confirmed command")

	sctx, err := k.sensor.Perceive(ctx)
	if err != nil {
		return model.Result{ID: id, Success: false, Message: fmt.Sprintf("Action failed: %v", err), Attempts: 1}
	}

	action, err := k.planner.Plan(ctx, utterance, sctx)
	if err != nil {
		return model.Result{ID: id, Success: false, Message: fmt.Sprintf("Action failed: %v", err), Attempts: 1}
	}
	if action.Type == model.ActionUnknown || action.Type == model.ActionConfirmRequired {
		return model.Result{
			ID:          id,
			Success:     false,
			Message:     "I couldn't work out how to perform that confirmed action.",
			Attempts:    1,
			ActionTaken: &action,
		}
	}

	if err := k.execute(ctx, action, sctx); err != nil {
		return model.Result{
			ID:          id,
			Success:     false,
			Message:     fmt.Sprintf("Action failed: %v", err),
			Attempts:    1,
			ActionTaken: &action,
		}
	}
	return model.Result{
		ID:                 id,
		Success:            true,
		Message:            "Action confirmed and executed.",
		Attempts:           1,
		Verification:       model.VerifyAssumed,
		VerificationPassed: true,
		ActionTaken:        &action,
	}
}

// execute dispatches one action to the input collaborator. A click naming
// an element number absent from the current snapshot is an ordinary,
// retry-triggering failure: the numbering changes every perceive cycle.
func (k *Kernel) execute(ctx context.Context, action model.Action, sctx *model.ScreenContext) error {
	switch action.Type {
	case model.ActionClick:
		if action.Element > 0 {
			el, ok := sctx.Element(action.Element)
			if !ok {
				return fmt.Errorf("element %d is not on screen", action.Element)
			}
			return k.input.ClickElement(ctx, el)
		}
		if action.HasCoords {
			return k.input.Click(ctx, action.X, action.Y)
		}
		return fmt.Errorf("click action has no target")

	case model.ActionDoubleClick:
		x, y, err := resolvePoint(action, sctx)
		if err != nil {
			return err
		}
		return k.input.DoubleClick(ctx, x, y)

	case model.ActionRightClick:
		x, y, err := resolvePoint(action, sctx)
		if err != nil {
			return err
		}
		return k.input.RightClick(ctx, x, y)

	case model.ActionTypeText:
		if action.Text == "" {
			return fmt.Errorf("type action has no text")
		}
		return k.input.TypeText(ctx, action.Text)

	case model.ActionShortcut:
		if action.Shortcut == "" {
			return fmt.Errorf("shortcut action has no combo")
		}
		return k.input.PressShortcut(ctx, action.Shortcut)

	case model.ActionScroll:
		return k.input.Scroll(ctx, action.Direction, action.Amount)

	case model.ActionSpeak:
		k.speaker.Speak(action.Text)
		return nil

	default:
		return fmt.Errorf("cannot execute action type %q", action.Type)
	}
}

func resolvePoint(action model.Action, sctx *model.ScreenContext) (int, int, error) {
	if action.Element > 0 {
		el, ok := sctx.Element(action.Element)
		if !ok {
			return 0, 0, fmt.Errorf("element %d is not on screen", action.Element)
		}
		x, y := el.Center()
		return x, y, nil
	}
	if action.HasCoords {
		return action.X, action.Y, nil
	}
	return 0, 0, fmt.Errorf("%s action has no target", action.Type)
}

// pauseForRetry sleeps the retry delay if budget remains. Returns false
// when the loop should stop (budget exhausted or context cancelled).
func (k *Kernel) pauseForRetry(ctx context.Context, attempt int) bool {
	if attempt >= k.cfg.MaxRetries {
		return false
	}
	return sleepCtx(ctx, k.cfg.RetryDelay)
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

func successMessage(action model.Action) string {
	switch action.Type {
	case model.ActionClick:
		if action.Element > 0 {
			return fmt.Sprintf("Clicked element %d", action.Element)
		}
		return "Clicked successfully"
	case model.ActionDoubleClick:
		return "Double-clicked successfully"
	case model.ActionRightClick:
		return "Right-clicked successfully"
	case model.ActionTypeText:
		return "Typed: " + action.Text
	case model.ActionScroll:
		return "Scrolled " + action.Direction
	case model.ActionShortcut:
		return "Pressed " + action.Shortcut
	case model.ActionSpeak:
		return action.Text
	default:
		return "Action completed"
	}
}
