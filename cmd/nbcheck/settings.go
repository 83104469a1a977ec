package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"nbcheck/internal/checker"
	"nbcheck/internal/diagfmt"
	"nbcheck/internal/project"
)

// settings is nbcheck.toml merged with command-line flags.
type settings struct {
	configPath string
	root       string
	command    checker.Command
	cellFormat diagfmt.CellFormat
	exclude    []string
	keep       bool
	jobs       int
	format     diagfmt.Format
	pathMode   diagfmt.PathMode
	ui         uiMode
}

// addRunFlags registers the flags shared by check and convert.
func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().String("config", "", "path to nbcheck.toml (default: search upwards from the working directory)")
	cmd.Flags().String("notebook-cell-format", "", "cell location template, e.g. '{notebookPath}:code_cell#{codeCellIndex}'")
	cmd.Flags().Bool("keep-parsed-notebooks", false, "keep the converted files and print their directory")
	cmd.Flags().StringSlice("exclude", nil, "patterns of paths to skip (replaces the configured list)")
	cmd.Flags().StringSlice("extend-exclude", nil, "patterns of paths to skip in addition to the configured list")
	cmd.Flags().Int("jobs", 0, "max notebooks converted in parallel (0=auto)")
	cmd.Flags().String("ui", "auto", "progress view (auto|on|off)")
}

func loadSettings(cmd *cobra.Command) (settings, error) {
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return settings{}, fmt.Errorf("failed to get config flag: %w", err)
	}

	var manifest *project.Manifest
	if configPath != "" {
		cfg, err := project.Load(configPath)
		if err != nil {
			return settings{}, err
		}
		root, err := filepath.Abs(filepath.Dir(configPath))
		if err != nil {
			return settings{}, fmt.Errorf("failed to resolve %s: %w", configPath, err)
		}
		manifest = &project.Manifest{Path: configPath, Root: root, Config: cfg}
	} else {
		manifest, _, err = project.Discover(".")
		if err != nil {
			return settings{}, err
		}
	}
	cfg := manifest.Config

	s := settings{
		configPath: manifest.Path,
		root:       manifest.Root,
		command:    checker.Command{Argv: cfg.Checker.Command, Args: cfg.Checker.Args},
		exclude:    cfg.Notebook.Exclude,
		keep:       cfg.Notebook.KeepParsed,
		jobs:       cfg.Run.Jobs,
	}

	flags := cmd.Flags()
	cellFormat := cfg.Notebook.CellFormat
	if flags.Changed("notebook-cell-format") {
		if cellFormat, err = flags.GetString("notebook-cell-format"); err != nil {
			return settings{}, fmt.Errorf("failed to get notebook-cell-format flag: %w", err)
		}
	}
	if s.cellFormat, err = diagfmt.ParseCellFormat(cellFormat); err != nil {
		return settings{}, err
	}

	if flags.Changed("keep-parsed-notebooks") {
		if s.keep, err = flags.GetBool("keep-parsed-notebooks"); err != nil {
			return settings{}, fmt.Errorf("failed to get keep-parsed-notebooks flag: %w", err)
		}
	}
	if flags.Changed("exclude") {
		if s.exclude, err = flags.GetStringSlice("exclude"); err != nil {
			return settings{}, fmt.Errorf("failed to get exclude flag: %w", err)
		}
	}
	extend, err := flags.GetStringSlice("extend-exclude")
	if err != nil {
		return settings{}, fmt.Errorf("failed to get extend-exclude flag: %w", err)
	}
	s.exclude = append(append([]string(nil), s.exclude...), extend...)

	if flags.Changed("jobs") {
		if s.jobs, err = flags.GetInt("jobs"); err != nil {
			return settings{}, fmt.Errorf("failed to get jobs flag: %w", err)
		}
	}

	uiValue, err := flags.GetString("ui")
	if err != nil {
		return settings{}, fmt.Errorf("failed to get ui flag: %w", err)
	}
	if s.ui, err = readUIMode(uiValue); err != nil {
		return settings{}, err
	}

	s.format = diagfmt.Format(cfg.Run.Format)
	if flags.Lookup("format") != nil {
		if err := s.readOutputFlags(cmd); err != nil {
			return settings{}, err
		}
	}
	if flags.Lookup("checker") != nil {
		if err := s.readCheckerFlags(cmd); err != nil {
			return settings{}, err
		}
	}
	return s, nil
}

func (s *settings) readOutputFlags(cmd *cobra.Command) error {
	flags := cmd.Flags()
	if flags.Changed("format") {
		value, err := flags.GetString("format")
		if err != nil {
			return fmt.Errorf("failed to get format flag: %w", err)
		}
		s.format = diagfmt.Format(value)
	}
	format, err := diagfmt.ParseFormat(string(s.format))
	if err != nil {
		return err
	}
	s.format = format

	pathMode, err := flags.GetString("path-mode")
	if err != nil {
		return fmt.Errorf("failed to get path-mode flag: %w", err)
	}
	s.pathMode, err = diagfmt.ParsePathMode(pathMode)
	return err
}

func (s *settings) readCheckerFlags(cmd *cobra.Command) error {
	flags := cmd.Flags()
	if flags.Changed("checker") {
		value, err := flags.GetString("checker")
		if err != nil {
			return fmt.Errorf("failed to get checker flag: %w", err)
		}
		argv := strings.Fields(value)
		if len(argv) == 0 {
			return fmt.Errorf("--checker must name a command")
		}
		s.command.Argv = argv
	}
	extra, err := flags.GetStringArray("checker-arg")
	if err != nil {
		return fmt.Errorf("failed to get checker-arg flag: %w", err)
	}
	s.command.Args = append(append([]string(nil), s.command.Args...), extra...)
	return nil
}
