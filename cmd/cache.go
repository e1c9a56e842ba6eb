package cmd

import (
	"github.com/spf13/cobra"

	"github.com/uipilot/uipilot/internal/output"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect and manage the coordinate cache",
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show coordinate cache counters",
	Long: `Show the coordinate cache counters: entry count, hits, misses, hit
rate, and TTL.

Examples:
  uipilot cache stats`,
	RunE: runCacheStats,
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Drop cached coordinates",
	Long: `Drop cached coordinates, for one app or for all apps. Useful after a
window layout change makes cached click points stale.

Examples:
  uipilot cache clear
  uipilot cache clear --app Safari`,
	RunE: runCacheClear,
}

func init() {
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cacheStatsCmd)
	cacheCmd.AddCommand(cacheClearCmd)
	cacheClearCmd.Flags().String("app", "", "Only drop entries for this app")
}

func runCacheStats(cmd *cobra.Command, args []string) error {
	eng, log, err := buildEngine(cfg)
	if err != nil {
		return err
	}
	defer log.Sync()

	return output.Print(eng.CacheStats())
}

// CacheClearResult is the output of the cache clear command.
type CacheClearResult struct {
	Removed int    `yaml:"removed" json:"removed"`
	App     string `yaml:"app,omitempty" json:"app,omitempty"`
}

func runCacheClear(cmd *cobra.Command, args []string) error {
	eng, log, err := buildEngine(cfg)
	if err != nil {
		return err
	}
	defer log.Sync()

	app, _ := cmd.Flags().GetString("app")
	removed := eng.InvalidateCache(app)
	return output.Print(CacheClearResult{Removed: removed, App: app})
}
