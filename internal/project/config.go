// Package project finds and loads nbcheck.toml.
package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"nbcheck/internal/checker"
	"nbcheck/internal/diagfmt"
	"nbcheck/internal/driver"
)

// FileName is the configuration file searched for.
const FileName = "nbcheck.toml"

// Config is the decoded configuration with defaults applied.
type Config struct {
	Checker  CheckerConfig  `toml:"checker"`
	Notebook NotebookConfig `toml:"notebook"`
	Run      RunConfig      `toml:"run"`
}

// CheckerConfig describes the external checker.
type CheckerConfig struct {
	Command []string `toml:"command"`
	Args    []string `toml:"args"`
}

// NotebookConfig covers discovery and presentation of notebooks.
type NotebookConfig struct {
	CellFormat string   `toml:"cell_format"`
	Exclude    []string `toml:"exclude"`
	KeepParsed bool     `toml:"keep_parsed"`
}

// RunConfig tunes the run.
type RunConfig struct {
	Jobs   int    `toml:"jobs"`
	Format string `toml:"format"`
}

// Manifest is a loaded configuration file.
type Manifest struct {
	Path   string
	Root   string
	Config Config
}

// Default returns the configuration used without a file.
func Default() Config {
	return Config{
		Checker: CheckerConfig{Command: append([]string(nil), checker.DefaultCommand...)},
		Notebook: NotebookConfig{
			CellFormat: diagfmt.DefaultCellFormat,
			Exclude:    append([]string(nil), driver.DefaultExclude...),
		},
		Run: RunConfig{Format: string(diagfmt.FormatDefault)},
	}
}

// Find walks up from startDir to locate nbcheck.toml.
func Find(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Discover finds and loads the configuration above startDir. Without a
// file it returns the defaults rooted at startDir and ok=false.
func Discover(startDir string) (manifest *Manifest, ok bool, err error) {
	path, ok, err := Find(startDir)
	if err != nil {
		return nil, false, err
	}
	if !ok {
		root, err := filepath.Abs(startDir)
		if err != nil {
			return nil, false, fmt.Errorf("failed to resolve start directory: %w", err)
		}
		return &Manifest{Root: root, Config: Default()}, false, nil
	}
	cfg, err := Load(path)
	if err != nil {
		return nil, true, err
	}
	return &Manifest{Path: path, Root: filepath.Dir(path), Config: cfg}, true, nil
}

// Load decodes path over the defaults and validates it. Keys that are not
// set keep their default values.
func Load(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if meta.IsDefined("checker", "command") && len(cfg.Checker.Command) == 0 {
		return Config{}, fmt.Errorf("%s: [checker].command must not be empty", path)
	}
	if meta.IsDefined("notebook", "cell_format") {
		if _, err := diagfmt.ParseCellFormat(cfg.Notebook.CellFormat); err != nil {
			return Config{}, fmt.Errorf("%s: [notebook].cell_format: %w", path, err)
		}
	}
	if cfg.Run.Jobs < 0 {
		return Config{}, fmt.Errorf("%s: [run].jobs must be >= 0", path)
	}
	if meta.IsDefined("run", "format") {
		if _, err := diagfmt.ParseFormat(cfg.Run.Format); err != nil {
			return Config{}, fmt.Errorf("%s: [run].format: %w", path, err)
		}
	}
	return cfg, nil
}
