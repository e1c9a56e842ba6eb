package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/uipilot/uipilot/internal/output"
	"github.com/uipilot/uipilot/internal/router"
)

// RouteResult is the output of the route command.
type RouteResult struct {
	App  string      `yaml:"app"  json:"app"`
	Plan router.Plan `yaml:"plan" json:"plan"`
}

var routeCmd = &cobra.Command{
	Use:   "route <command>",
	Short: "Show the routing decision for a command without executing it",
	Long: `Show which execution tier a command would take: a cached coordinate,
the text-search path, or full visual reasoning.

Examples:
  uipilot route "click the submit button"
  uipilot route "click the third icon"
  uipilot route --app Safari "tap the back button"`,
	Args: cobra.ExactArgs(1),
	RunE: runRoute,
}

func init() {
	rootCmd.AddCommand(routeCmd)
	routeCmd.Flags().String("app", "", "App context (default: the frontmost app)")
}

func runRoute(cmd *cobra.Command, args []string) error {
	utterance := strings.TrimSpace(args[0])
	if utterance == "" {
		return fmt.Errorf("empty command")
	}

	eng, log, err := buildEngine(cfg)
	if err != nil {
		return err
	}
	defer log.Sync()

	var plan router.Plan
	app, _ := cmd.Flags().GetString("app")
	if app != "" {
		plan = eng.RouteFor(utterance, app)
	} else {
		plan, app = eng.Route(cmd.Context(), utterance)
	}

	return output.Print(RouteResult{App: app, Plan: plan})
}
