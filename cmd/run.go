package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/uipilot/uipilot/internal/model"
	"github.com/uipilot/uipilot/internal/output"
	"github.com/uipilot/uipilot/internal/safety"
)

var runCmd = &cobra.Command{
	Use:   "run <command>",
	Short: "Execute one natural-language command",
	Long: `Execute a single natural-language command against the desktop UI.

If the command is classified as destructive, uipilot prints the
confirmation prompt and reads the reply from stdin. Pass --yes or --no to
answer non-interactively.

Examples:
  uipilot run "click the submit button"
  uipilot run "type hello world"
  uipilot run "scroll down"
  uipilot run --yes "delete this file"`,
	Args: cobra.ExactArgs(1),
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().Bool("yes", false, "Auto-confirm a destructive command")
	runCmd.Flags().Bool("no", false, "Auto-cancel a destructive command")
}

func runRun(cmd *cobra.Command, args []string) error {
	utterance := strings.TrimSpace(args[0])
	if utterance == "" {
		return fmt.Errorf("empty command")
	}

	eng, log, err := buildEngine(cfg)
	if err != nil {
		return err
	}
	defer log.Sync()

	autoYes, _ := cmd.Flags().GetBool("yes")
	autoNo, _ := cmd.Flags().GetBool("no")
	if autoYes && autoNo {
		return fmt.Errorf("--yes and --no are mutually exclusive")
	}

	ctx := cmd.Context()
	result := eng.ProcessCommand(ctx, utterance)

	if result.NeedsConfirmation {
		confirmed, answered := resolveConfirmation(eng.ParseConfirmation, result, autoYes, autoNo)
		if !answered {
			return output.Print(result)
		}
		result = eng.ProcessWithConfirmation(ctx, utterance, confirmed)
	}

	return output.Print(result)
}

// resolveConfirmation answers the confirmation prompt, either from flags or
// by asking on the terminal. Unclear replies re-prompt a bounded number of
// times; running out of replies leaves the command unresolved.
func resolveConfirmation(parse func(string) safety.Response, result model.Result, autoYes, autoNo bool) (confirmed, answered bool) {
	if autoYes {
		return true, true
	}
	if autoNo {
		return false, true
	}

	fmt.Fprintln(os.Stderr, result.ConfirmationPrompt)
	scanner := bufio.NewScanner(os.Stdin)
	for tries := 0; tries < 3; tries++ {
		fmt.Fprint(os.Stderr, "> ")
		if !scanner.Scan() {
			return false, false
		}
		switch parse(scanner.Text()) {
		case safety.ResponseConfirmed:
			return true, true
		case safety.ResponseCancelled:
			return false, true
		default:
			fmt.Fprintln(os.Stderr, "Please say 'confirm' or 'cancel'.")
		}
	}
	return false, false
}
