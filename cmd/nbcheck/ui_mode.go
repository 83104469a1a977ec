package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

type uiMode string

const (
	uiModeAuto uiMode = "auto"
	uiModeOn   uiMode = "on"
	uiModeOff  uiMode = "off"
)

func readUIMode(value string) (uiMode, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "", "auto":
		return uiModeAuto, nil
	case "on":
		return uiModeOn, nil
	case "off":
		return uiModeOff, nil
	default:
		return "", fmt.Errorf("invalid --ui value %q (expected auto|on|off)", value)
	}
}

// shouldUseTUI keeps the progress view off when stdout is not a terminal
// or when output is machine-readable.
func shouldUseTUI(mode uiMode, machineOutput bool) bool {
	switch mode {
	case uiModeOn:
		return true
	case uiModeOff:
		return false
	default:
		return !machineOutput && isTerminal(os.Stdout)
	}
}

// applyColorMode sets the global colour switch from --color.
func applyColorMode(cmd *cobra.Command) error {
	value, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return fmt.Errorf("failed to get color flag: %w", err)
	}
	mode, err := readUIMode(value)
	if err != nil {
		return fmt.Errorf("invalid --color value %q (expected auto|on|off)", value)
	}
	switch mode {
	case uiModeOn:
		color.NoColor = false
	case uiModeOff:
		color.NoColor = true
	default:
		color.NoColor = !isTerminal(os.Stdout) || os.Getenv("NO_COLOR") != ""
	}
	return nil
}

func colorEnabled() bool {
	return !color.NoColor
}
