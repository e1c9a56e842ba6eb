package cmd

import (
	"github.com/spf13/cobra"

	"github.com/uipilot/uipilot/internal/output"
	"github.com/uipilot/uipilot/internal/uicache"
)

// StatusResult is the output of the status command.
type StatusResult struct {
	Pending        bool          `yaml:"pending"                   json:"pending"`
	PendingCommand string        `yaml:"pending_command,omitempty" json:"pending_command,omitempty"`
	Cache          uicache.Stats `yaml:"cache"                     json:"cache"`
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show engine status",
	Long: `Show the engine's session state: whether a destructive command is
awaiting confirmation, and the coordinate cache counters.

Examples:
  uipilot status`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	eng, log, err := buildEngine(cfg)
	if err != nil {
		return err
	}
	defer log.Sync()

	res := StatusResult{Cache: eng.CacheStats()}
	if pending, ok := eng.PendingCommand(); ok {
		res.Pending = true
		res.PendingCommand = pending
	}
	return output.Print(res)
}
