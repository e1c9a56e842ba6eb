package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/uipilot/uipilot/internal/config"
	"github.com/uipilot/uipilot/internal/output"
	"github.com/uipilot/uipilot/internal/version"
)

// cfg is loaded once in the persistent pre-run and shared by subcommands.
var cfg = config.Default()

var rootCmd = &cobra.Command{
	Use:   "uipilot",
	Short: "Execute natural-language commands against the desktop UI",
	Long: `uipilot turns a natural-language command into one concrete UI action
(click, type, shortcut, scroll), executes it through the accessibility
bridge, and verifies the result. Destructive commands are held until the
user explicitly confirms them.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", version.Version, version.Commit, version.BuildDate)
	rootCmd.PersistentFlags().String("format", "yaml", "Output format: yaml, json")
	rootCmd.PersistentFlags().String("config", "", "Config file (default ~/.uipilot.yaml)")
	rootCmd.PersistentFlags().Bool("pretty", false, "Pretty-print JSON output")

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		format, _ := rootCmd.PersistentFlags().GetString("format")
		switch format {
		case "yaml":
			output.OutputFormat = output.FormatYAML
		case "json":
			output.OutputFormat = output.FormatJSON
		default:
			return fmt.Errorf("unsupported format: %s (use yaml or json)", format)
		}
		if pretty, err := rootCmd.PersistentFlags().GetBool("pretty"); err == nil && pretty {
			output.PrettyOutput = true
		}

		path, _ := rootCmd.PersistentFlags().GetString("config")
		loaded, err := config.Load(path)
		if err != nil {
			return err
		}
		cfg = loaded
		return nil
	}
}
