package engine

import (
	"context"

	"go.uber.org/zap"

	"github.com/uipilot/uipilot/internal/model"
)

// verify re-perceives the screen and decides whether the action took
// effect. The policy is deliberately optimistic: clicks are confirmed when
// the element population or focus changed, and everything without a
// detectable signal (typing, scrolling, shortcuts, coordinate clicks) is
// assumed successful because execution itself did not error. The
// three-valued result keeps "we saw it work" distinguishable from "we
// assumed it worked".
func (k *Kernel) verify(ctx context.Context, action model.Action, before *model.ScreenContext) (model.Verification, error) {
	switch action.Type {
	case model.ActionClick, model.ActionDoubleClick, model.ActionRightClick:
		if action.Element <= 0 {
			// Coordinate clicks have no element to re-find.
			return model.VerifyAssumed, nil
		}
		after, err := k.sensor.Perceive(ctx)
		if err != nil {
			return model.VerifyFailed, err
		}
		if len(after.Elements) != len(before.Elements) {
			k.log.Debug("verified: element count changed",
				zap.Int("before", len(before.Elements)), zap.Int("after", len(after.Elements)))
			return model.VerifyConfirmed, nil
		}
		if after.FocusedNumber != before.FocusedNumber {
			k.log.Debug("verified: focus moved",
				zap.Int("before", before.FocusedNumber), zap.Int("after", after.FocusedNumber))
			return model.VerifyConfirmed, nil
		}
		return model.VerifyAssumed, nil

	default:
		// Type, scroll, shortcut, speak: no reliable signal to check.
		return model.VerifyAssumed, nil
	}
}
