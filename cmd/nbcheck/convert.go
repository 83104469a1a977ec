package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"nbcheck/internal/diag"
	"nbcheck/internal/driver"
	"nbcheck/internal/trace"
)

var convertCmd = &cobra.Command{
	Use:   "convert [flags] [paths...]",
	Short: "Convert notebooks without checking them",
	Long: `Write the checkable Python form of every notebook found in paths, keep it on
disk together with a manifest, and print where every cell starts. The
directory can be passed to "nbcheck resolve" later.`,
	RunE: runConvert,
}

func init() {
	addRunFlags(convertCmd)
	convertCmd.Flags().Bool("json", false, "print the cell table as JSON")
}

type convertedCell struct {
	Cell      string `json:"cell"`
	CodeIndex int    `json:"code_cell_index"`
	CellIndex int    `json:"total_cell_index"`
	StartLine int    `json:"start_line"`
}

type convertedNotebook struct {
	Notebook     string          `json:"notebook"`
	Intermediate string          `json:"intermediate"`
	Cells        []convertedCell `json:"cells"`
}

type convertOutput struct {
	Directory string              `json:"directory"`
	Notebooks []convertedNotebook `json:"notebooks"`
}

func runConvert(cmd *cobra.Command, args []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	common, err := readCommonFlags(cmd)
	if err != nil {
		return err
	}
	asJSON, err := cmd.Flags().GetBool("json")
	if err != nil {
		return fmt.Errorf("failed to get json flag: %w", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, span := trace.Start(ctx, trace.ScopeRun, "convert")
	defer span.End("")

	discovery, err := driver.CollectNotebooks(args, s.exclude)
	if err != nil {
		return err
	}

	bag := diag.NewBag(common.maxDiagnostics)
	opts := driver.Options{
		ProjectRoot: s.root,
		Keep:        true,
		Jobs:        s.jobs,
		Reporter:    diag.NewDedupReporter(diag.BagReporter{Bag: bag}),
	}
	useTUI := shouldUseTUI(s.ui, asJSON) && len(discovery.Notebooks) > 0
	var events chan driver.Event
	if useTUI {
		events = make(chan driver.Event, 256)
		opts.Progress = driver.ChannelSink{Ch: events}
	}
	run, err := driver.NewRun(opts)
	if err != nil {
		return err
	}

	work := func() error { return run.Convert(ctx, discovery.Notebooks) }
	if useTUI {
		err = runWithUI("nbcheck convert", discovery.Notebooks, events, work)
	} else {
		err = work()
	}
	dir, closeErr := run.Close()
	if err == nil {
		err = closeErr
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

	out := buildConvertOutput(dir, run.Entries())
	if asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}
	return writeConvertText(cmd.OutOrStdout(), out)
}

func buildConvertOutput(dir string, entries []driver.Entry) convertOutput {
	out := convertOutput{Directory: dir, Notebooks: make([]convertedNotebook, 0, len(entries))}
	for _, e := range entries {
		nb := convertedNotebook{Notebook: e.NotebookPath, Intermediate: e.IntermediatePath}
		for i, id := range e.Mapping.CellIDs {
			nb.Cells = append(nb.Cells, convertedCell{
				Cell:      id.String(),
				CodeIndex: id.CodeCellIndex,
				CellIndex: id.TotalCellIndex,
				StartLine: e.Mapping.StartLines[i],
			})
		}
		out.Notebooks = append(out.Notebooks, nb)
	}
	return out
}

func writeConvertText(w io.Writer, out convertOutput) error {
	for _, nb := range out.Notebooks {
		if _, err := fmt.Fprintf(w, "%s -> %s\n", nb.Notebook, nb.Intermediate); err != nil {
			return err
		}
		for _, c := range nb.Cells {
			if _, err := fmt.Fprintf(w, "  %-8s code cell %d, cell %d, starts at line %d\n",
				c.Cell, c.CodeIndex, c.CellIndex, c.StartLine); err != nil {
				return err
			}
		}
	}
	_, err := fmt.Fprintf(w, "converted files in %s\n", out.Directory)
	return err
}
