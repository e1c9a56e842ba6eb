package cmd

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/uipilot/uipilot/internal/config"
	"github.com/uipilot/uipilot/internal/engine"
	"github.com/uipilot/uipilot/internal/logging"
	"github.com/uipilot/uipilot/internal/planner"
	"github.com/uipilot/uipilot/internal/platform"
	"github.com/uipilot/uipilot/internal/router"
	"github.com/uipilot/uipilot/internal/safety"
	"github.com/uipilot/uipilot/internal/uicache"
	"github.com/uipilot/uipilot/internal/vision"
)

// buildEngine assembles a full engine from the loaded config. Every service
// is constructed here and injected; nothing reaches for globals.
func buildEngine(cfg config.Config) (*engine.Engine, *zap.Logger, error) {
	log, err := logging.New(cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}

	bridge := platform.NewBridge(cfg.BridgeURL, cfg.BridgeTimeout(), log)
	sensor := vision.NewParser(bridge, cfg.LabelScreenshots, log)
	cache := uicache.New(cfg.CacheTTL())
	guard := safety.NewGuard(cfg.PendingTTL(), log)

	var pl engine.Planner
	switch cfg.Planner {
	case "", "rules":
		pl = planner.NewRulePlanner(log)
	case "openai":
		pl, err = planner.NewOpenAIPlanner(cfg.OpenAIModel, log)
		if err != nil {
			return nil, nil, fmt.Errorf("openai planner: %w", err)
		}
	default:
		return nil, nil, fmt.Errorf("unknown planner %q (use rules or openai)", cfg.Planner)
	}

	var speaker platform.Speaker = platform.NopSpeaker{}
	if cfg.Speak {
		speaker = platform.NewSaySpeaker(log)
	}

	kernel := engine.NewKernel(engine.KernelConfig{
		MaxRetries:  cfg.MaxRetries,
		VerifyDelay: cfg.VerifyDelay(),
		RetryDelay:  cfg.RetryDelay(),
	}, sensor, bridge, speaker, pl, guard, log)

	rt := router.New(cache, bridge, bridge, nil, log)

	eng := engine.New(kernel, rt, guard, cache, bridge, sensor, speaker, cfg.Speak, log)
	return eng, log, nil
}
