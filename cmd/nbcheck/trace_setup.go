package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"nbcheck/internal/trace"
)

var traceCleanup func()

// setupTracing reads the trace flags and attaches a tracer to the command
// context. The returned cleanup flushes and closes it.
func setupTracing(cmd *cobra.Command) (func(), error) {
	root := cmd.Root()

	output, err := root.PersistentFlags().GetString("trace")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace flag: %w", err)
	}
	levelStr, err := root.PersistentFlags().GetString("trace-level")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-level flag: %w", err)
	}
	formatStr, err := root.PersistentFlags().GetString("trace-format")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-format flag: %w", err)
	}

	level, err := trace.ParseLevel(levelStr)
	if err != nil {
		return nil, err
	}
	// --trace alone implies phase level
	if level == trace.LevelOff && output != "" {
		level = trace.LevelPhase
	}
	format, err := trace.ParseFormat(formatStr)
	if err != nil {
		return nil, err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if level == trace.LevelOff {
		cmd.SetContext(trace.WithTracer(ctx, trace.Nop))
		return func() {}, nil
	}

	tracer, err := trace.New(trace.Config{Level: level, Format: format, OutputPath: output})
	if err != nil {
		return nil, fmt.Errorf("failed to create tracer: %w", err)
	}
	ctx = trace.WithTracer(ctx, tracer)
	cmd.SetContext(ctx)
	root.SetContext(ctx)

	return func() {
		if err := tracer.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "trace: close error: %v\n", err)
		}
	}, nil
}

func closeTracing() {
	if traceCleanup != nil {
		traceCleanup()
		traceCleanup = nil
	}
}
