package driver

import (
	"context"
	"errors"
	"fmt"
	"time"

	"nbcheck/internal/checker"
	"nbcheck/internal/diag"
	"nbcheck/internal/intermediate"
	"nbcheck/internal/trace"
)

// Report is a checker finding, mapped to a notebook cell when it came from
// an intermediate file.
type Report struct {
	checker.Finding
	Mapped bool
	Cell   Location // valid when Mapped
}

// Remap maps findings on this run's intermediate files back to their cells.
// Other findings pass through unchanged. An *intermediate.InvariantError
// aborts the remap.
func (r *Run) Remap(ctx context.Context, findings []checker.Finding) ([]Report, error) {
	_, span := trace.Start(ctx, trace.ScopeStage, "remap")
	defer span.End("")
	began := time.Now()
	defer func() { r.timings.Add(StageRemap, time.Since(began)) }()

	out := make([]Report, 0, len(findings))
	for _, f := range findings {
		loc, ok, err := r.ResolveDiagnosticPosition(f.Path, f.Row)
		if err != nil {
			var inv *intermediate.InvariantError
			if errors.As(err, &inv) {
				return nil, fmt.Errorf("%s:%d: %w", f.Path, f.Row, err)
			}
			return nil, err
		}
		if !ok && intermediate.IsIntermediate(f.Path) {
			diag.ReportWarning(r.opts.Reporter, diag.RunUnmappedLine, diag.Location{Path: f.Path},
				fmt.Sprintf("finding %s on line %d belongs to no converted notebook", f.Code, f.Row)).Emit()
		}
		out = append(out, Report{Finding: f, Mapped: ok, Cell: loc})
	}
	return out, nil
}

// CheckResult is the outcome of running the checker over a converted run.
type CheckResult struct {
	Reports  []Report
	Other    []string // checker output that is not a finding
	ExitCode int      // checker exit status
}

// Check runs cmd over the intermediate files followed by forward, then maps
// the findings. It does nothing when there is nothing to check.
func (r *Run) Check(ctx context.Context, cmd checker.Command, forward []string) (CheckResult, error) {
	files := append(r.IntermediatePaths(), forward...)
	if len(files) == 0 {
		return CheckResult{}, nil
	}

	ctx, span := trace.Start(ctx, trace.ScopeStage, "check")
	r.opts.Progress.OnEvent(Event{Stage: StageCheck, Status: StatusWorking})
	began := time.Now()
	out, err := checker.Run(ctx, cmd, files)
	elapsed := time.Since(began)
	r.timings.Add(StageCheck, elapsed)
	span.WithExtra("findings", fmt.Sprint(len(out.Findings))).End("")
	if err != nil {
		r.opts.Progress.OnEvent(Event{Stage: StageCheck, Status: StatusError, Err: err, Elapsed: elapsed})
		return CheckResult{}, err
	}
	r.opts.Progress.OnEvent(Event{Stage: StageCheck, Status: StatusDone, Elapsed: elapsed})

	if out.Stderr != "" {
		diag.ReportWarning(r.opts.Reporter, diag.RunCheckerStderr, diag.Location{},
			fmt.Sprintf("%s: %s", cmd.Argv0(), out.Stderr)).Emit()
	}

	reports, err := r.Remap(ctx, out.Findings)
	if err != nil {
		return CheckResult{}, err
	}
	return CheckResult{Reports: reports, Other: out.Other, ExitCode: out.ExitCode}, nil
}
