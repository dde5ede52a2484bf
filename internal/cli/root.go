package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/rileyhilliard/resourcelight/internal/errors"
	"github.com/rileyhilliard/resourcelight/internal/ui"
	"github.com/spf13/cobra"
)

// rootFlags holds the global flags shared by every command.
var rootFlags RootFlags

var rootCmd = &cobra.Command{
	Use:   "resourcelight",
	Short: "Live terminal dashboard for CPU, memory, disk and network",
	Long: `resourcelight samples this machine once per refresh interval and draws
CPU, memory, disk and network usage with trend graphs, threshold colors
and a top-process table.

When stdout is not a terminal, or with --no-ui, it prints one summary
line per sample instead.

Examples:
  resourcelight
  resourcelight --interval 0.5 --history 120
  resourcelight --no-ui --log
  resourcelight config init`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		ui.SetupColor(rootFlags.Color, os.Stdout)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDashboard(cmd, &rootFlags)
	},
}

func init() {
	AddRootFlags(rootCmd, &rootFlags)
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	err := rootCmd.Execute()
	if err == nil {
		return
	}

	// Commands that already reported their result just set the exit code.
	if code, ok := errors.GetExitCode(err); ok {
		os.Exit(code)
	}

	msg := err.Error()
	if !strings.HasSuffix(msg, "\n") {
		msg += "\n"
	}
	fmt.Fprint(os.Stderr, msg)
	if isUnknownCommandError(err) {
		fmt.Fprintln(os.Stderr, "Run 'resourcelight --help' to see the available commands and flags.")
	}
	os.Exit(1)
}

// isUnknownCommandError reports whether cobra rejected the command line
// itself rather than a command failing.
func isUnknownCommandError(err error) bool {
	msg := err.Error()
	return strings.HasPrefix(msg, "unknown command") ||
		strings.HasPrefix(msg, "unknown flag") ||
		strings.HasPrefix(msg, "unknown shorthand flag")
}
