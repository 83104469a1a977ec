package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"nbcheck/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "nbcheck",
	Short: "Run a Python line checker over Jupyter notebooks",
	Long: `nbcheck converts notebooks into plain Python files, runs a checker such as
flake8 over them and reports every finding at its notebook cell.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := applyColorMode(cmd); err != nil {
			return err
		}
		cleanup, err := setupTracing(cmd)
		if err != nil {
			return err
		}
		traceCleanup = cleanup
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		closeTracing()
	},
}

// exitCodeError ends the process with code after output was already written.
type exitCodeError struct {
	code int
}

func (e *exitCodeError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

// silentExit returns an error cobra does not print; findings were already
// written.
func silentExit(cmd *cobra.Command, code int) error {
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	return &exitCodeError{code: code}
}

// init registers subcommands and persistent flags.
func init() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress informational messages")
	rootCmd.PersistentFlags().Bool("timings", false, "show stage timings on stderr")
	rootCmd.PersistentFlags().Int("max-diagnostics", 100, "maximum number of nbcheck warnings to show (0 = all)")
	rootCmd.PersistentFlags().String("trace", "", "write a trace to path ('-' for stderr)")
	rootCmd.PersistentFlags().String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	rootCmd.PersistentFlags().String("trace-format", "auto", "trace format (auto|text|ndjson)")
}

// main runs the root command. Findings exit with 1 (or the checker's own
// status); tool failures with 2.
func main() {
	err := rootCmd.Execute()
	closeTracing()
	if err == nil {
		return
	}
	var exitErr *exitCodeError
	if errors.As(err, &exitErr) {
		os.Exit(exitErr.code)
	}
	os.Exit(2)
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
