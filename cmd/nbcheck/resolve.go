package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"nbcheck/internal/diagfmt"
	"nbcheck/internal/driver"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve [flags] <file:line>...",
	Short: "Map lines of converted files back to notebook cells",
	Long: `Look up lines of files written by "nbcheck convert" or a check run with
--keep-parsed-notebooks and print the notebook cell they came from.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runResolve,
}

func init() {
	resolveCmd.Flags().String("dir", "", "directory of the retained run (default: found from the file)")
	resolveCmd.Flags().String("notebook-cell-format", "", "cell location template")
}

// parseFileLine splits "path:line"; the path may itself contain colons.
func parseFileLine(arg string) (string, int, error) {
	i := strings.LastIndexByte(arg, ':')
	if i <= 0 || i == len(arg)-1 {
		return "", 0, fmt.Errorf("expected <file:line>, got %q", arg)
	}
	line, err := strconv.Atoi(arg[i+1:])
	if err != nil || line < 1 {
		return "", 0, fmt.Errorf("invalid line number in %q", arg)
	}
	return arg[:i], line, nil
}

func runResolve(cmd *cobra.Command, args []string) error {
	dir, err := cmd.Flags().GetString("dir")
	if err != nil {
		return fmt.Errorf("failed to get dir flag: %w", err)
	}
	tmpl, err := cmd.Flags().GetString("notebook-cell-format")
	if err != nil {
		return fmt.Errorf("failed to get notebook-cell-format flag: %w", err)
	}
	cellFormat, err := diagfmt.ParseCellFormat(tmpl)
	if err != nil {
		return err
	}

	manifests := make(map[string]*driver.Manifest)
	for _, arg := range args {
		path, line, err := parseFileLine(arg)
		if err != nil {
			return err
		}
		mdir := dir
		if mdir == "" {
			if mdir, err = driver.FindManifest(path); err != nil {
				return err
			}
		}
		m, ok := manifests[mdir]
		if !ok {
			if m, err = driver.ReadManifest(mdir); err != nil {
				return err
			}
			manifests[mdir] = m
		}

		loc, found, err := m.Resolve(path, line)
		if err != nil {
			return err
		}
		if !found {
			return fmt.Errorf("%s is not a converted notebook of %s", path, mdir)
		}
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s:%d -> %s:%d\n",
			path, line, cellFormat.Render(loc.NotebookPath, loc), loc.Line); err != nil {
			return err
		}
	}
	return nil
}
