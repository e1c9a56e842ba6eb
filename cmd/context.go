package cmd

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/uipilot/uipilot/internal/model"
	"github.com/uipilot/uipilot/internal/output"
)

// ContextElement is one numbered element in the context command's output.
type ContextElement struct {
	Number  int    `yaml:"number"            json:"number"`
	Role    string `yaml:"role"              json:"role"`
	Label   string `yaml:"label"             json:"label"`
	Bounds  [4]int `yaml:"bounds"            json:"bounds"`
	Enabled bool   `yaml:"enabled"           json:"enabled"`
	Focused bool   `yaml:"focused,omitempty" json:"focused,omitempty"`
}

// ContextResult is the output of the context command.
type ContextResult struct {
	App      string           `yaml:"app"               json:"app"`
	Window   string           `yaml:"window,omitempty"  json:"window,omitempty"`
	Focused  int              `yaml:"focused,omitempty" json:"focused,omitempty"`
	Elements []ContextElement `yaml:"elements"          json:"elements"`
}

var contextCmd = &cobra.Command{
	Use:   "context",
	Short: "Show the current numbered screen context",
	Long: `Perceive the screen once and print the numbered interactive elements
the planner would see. Useful for debugging why a command resolved (or
failed to resolve) to a particular element.

Examples:
  uipilot context
  uipilot context --screenshot /tmp/screen.png`,
	RunE: runContext,
}

func init() {
	rootCmd.AddCommand(contextCmd)
	contextCmd.Flags().String("screenshot", "", "Write the (optionally labeled) screenshot to this file")
}

func runContext(cmd *cobra.Command, args []string) error {
	eng, log, err := buildEngine(cfg)
	if err != nil {
		return err
	}
	defer log.Sync()

	sctx, err := eng.ScreenContext(cmd.Context())
	if err != nil {
		return err
	}

	if path, _ := cmd.Flags().GetString("screenshot"); path != "" {
		if sctx.Screenshot == nil {
			return fmt.Errorf("bridge returned no screenshot")
		}
		if err := os.WriteFile(path, sctx.Screenshot, 0644); err != nil {
			return fmt.Errorf("write screenshot: %w", err)
		}
	}

	return output.Print(contextResult(sctx))
}

func contextResult(sctx *model.ScreenContext) ContextResult {
	res := ContextResult{
		App:     sctx.AppName,
		Window:  sctx.WindowTitle,
		Focused: sctx.FocusedNumber,
	}
	numbers := make([]int, 0, len(sctx.Elements))
	for n := range sctx.Elements {
		numbers = append(numbers, n)
	}
	sort.Ints(numbers)
	for _, n := range numbers {
		el := sctx.Elements[n]
		res.Elements = append(res.Elements, ContextElement{
			Number:  n,
			Role:    el.Role,
			Label:   el.Label,
			Bounds:  el.Bounds,
			Enabled: el.Enabled,
			Focused: el.Focused,
		})
	}
	return res
}
