package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"nbcheck/internal/diag"
	"nbcheck/internal/diagfmt"
	"nbcheck/internal/driver"
	"nbcheck/internal/source"
	"nbcheck/internal/trace"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] [paths...]",
	Short: "Check notebooks and Python files",
	Long: `Convert every notebook found in paths, run the checker over the converted
files together with the remaining paths, and report findings at their cells.
Without paths the working directory is checked.`,
	RunE: runCheck,
}

func init() {
	addRunFlags(checkCmd)
	checkCmd.Flags().String("format", "", "output format (default|pretty|json)")
	checkCmd.Flags().String("path-mode", "auto", "how paths are printed (auto|absolute|relative|basename)")
	checkCmd.Flags().String("checker", "", "checker command line, e.g. 'python -m flake8'")
	checkCmd.Flags().StringArray("checker-arg", nil, "extra argument passed to the checker (repeatable)")
}

// runCheck converts, checks and reports. Findings end the process with
// status 1, or with the checker's own status when it failed without
// reporting any.
func runCheck(cmd *cobra.Command, args []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	common, err := readCommonFlags(cmd)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, span := trace.Start(ctx, trace.ScopeRun, "check")
	defer span.End("")

	discovery, err := driver.CollectNotebooks(args, s.exclude)
	if err != nil {
		return err
	}

	bag := diag.NewBag(common.maxDiagnostics)
	opts := driver.Options{
		ProjectRoot: s.root,
		Keep:        s.keep,
		Jobs:        s.jobs,
		Reporter:    diag.NewDedupReporter(diag.BagReporter{Bag: bag}),
	}
	useTUI := shouldUseTUI(s.ui, s.format == diagfmt.FormatJSON) && len(discovery.Notebooks) > 0
	var events chan driver.Event
	if useTUI {
		events = make(chan driver.Event, 256)
		opts.Progress = driver.ChannelSink{Ch: events}
	}

	run, err := driver.NewRun(opts)
	if err != nil {
		return err
	}

	var result driver.CheckResult
	work := func() error {
		if err := run.Convert(ctx, discovery.Notebooks); err != nil {
			return err
		}
		var checkErr error
		result, checkErr = run.Check(ctx, s.command, discovery.Forward)
		return checkErr
	}
	if useTUI {
		err = runWithUI("nbcheck", discovery.Notebooks, events, work)
	} else {
		err = work()
	}

	if err == nil {
		renderOpts := diagfmt.Options{
			CellFormat: s.cellFormat,
			PathMode:   s.pathMode,
			Color:      colorEnabled(),
			Sources:    source.NewFileSet(),
		}
		err = diagfmt.Render(cmd.OutOrStdout(), s.format, result.Reports, result.Other, renderOpts)
	}

	// the temp directory must outlive rendering, which reads previews from it
	retained, closeErr := run.Close()
	if closeErr != nil && err == nil {
		err = closeErr
	}
	if retained != "" {
		diag.ReportInfo(diag.BagReporter{Bag: bag}, diag.RunRetainedDir, diag.Location{Path: retained},
			fmt.Sprintf("Parsed notebooks retained in %s", retained)).Emit()
	}
	if werr := printWarnings(cmd.ErrOrStderr(), bag, common.quiet); werr != nil && err == nil {
		err = werr
	}
	if common.timings {
		printStageTimings(cmd.ErrOrStderr(), run.Timings())
	}
	if err != nil {
		return err
	}

	switch {
	case len(result.Reports) > 0:
		return silentExit(cmd, 1)
	case result.ExitCode != 0:
		return silentExit(cmd, result.ExitCode)
	}
	return nil
}

type commonFlags struct {
	quiet          bool
	timings        bool
	maxDiagnostics int
}

func readCommonFlags(cmd *cobra.Command) (commonFlags, error) {
	var c commonFlags
	var err error
	pf := cmd.Root().PersistentFlags()
	if c.quiet, err = pf.GetBool("quiet"); err != nil {
		return c, fmt.Errorf("failed to get quiet flag: %w", err)
	}
	if c.timings, err = pf.GetBool("timings"); err != nil {
		return c, fmt.Errorf("failed to get timings flag: %w", err)
	}
	if c.maxDiagnostics, err = pf.GetInt("max-diagnostics"); err != nil {
		return c, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	return c, nil
}

// printWarnings writes nbcheck's own diagnostics sorted by location.
// quiet drops informational ones.
func printWarnings(w io.Writer, bag *diag.Bag, quiet bool) error {
	bag.Sort()
	items := bag.Items()
	if quiet {
		kept := items[:0:0]
		for _, d := range items {
			if d.Severity != diag.SevInfo {
				kept = append(kept, d)
			}
		}
		items = kept
	}
	if w == nil {
		w = os.Stderr
	}
	return diagfmt.Warnings(w, items, colorEnabled())
}
