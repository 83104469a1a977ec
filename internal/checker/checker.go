// Package checker runs the external line checker over intermediate files
// and parses what it reports.
package checker

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"regexp"
	"strconv"
	"strings"

	"fortio.org/safecast"
)

// DefaultCommand is used when no checker is configured.
var DefaultCommand = []string{"flake8"}

// Command describes how to invoke the checker.
type Command struct {
	Argv []string // executable and fixed leading arguments
	Args []string // extra arguments placed before the files
	Dir  string   // working directory, empty for the current one
}

// Argv0 returns the configured executable.
func (c Command) Argv0() string {
	if len(c.Argv) == 0 {
		return DefaultCommand[0]
	}
	return c.Argv[0]
}

// Line builds the full argument vector for files.
func (c Command) Line(files []string) []string {
	argv := c.Argv
	if len(argv) == 0 {
		argv = DefaultCommand
	}
	out := make([]string, 0, len(argv)+len(c.Args)+len(files))
	out = append(out, argv...)
	out = append(out, c.Args...)
	out = append(out, files...)
	return out
}

// Finding is one diagnostic line reported by the checker.
type Finding struct {
	Path string
	Row  int
	Col  int
	Code string
	Text string
}

// Output is what one checker invocation produced.
type Output struct {
	Findings []Finding
	Other    []string // stdout lines that are not findings
	Stderr   string
	ExitCode int
}

var findingRe = regexp.MustCompile(`^(.+?):(\d+):(\d+): (\S+) (.*)$`)

// ParseLine parses "path:row:col: CODE text".
func ParseLine(line string) (Finding, bool) {
	m := findingRe.FindStringSubmatch(strings.TrimRight(line, "\r"))
	if m == nil {
		return Finding{}, false
	}
	row, err := atoi(m[2])
	if err != nil {
		return Finding{}, false
	}
	col, err := atoi(m[3])
	if err != nil {
		return Finding{}, false
	}
	return Finding{Path: m[1], Row: row, Col: col, Code: m[4], Text: m[5]}, true
}

func atoi(s string) (int, error) {
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, err
	}
	return safecast.Conv[int](n)
}

// ParseOutput splits checker stdout into findings and other lines.
func ParseOutput(stdout []byte) (findings []Finding, other []string) {
	sc := bufio.NewScanner(bytes.NewReader(stdout))
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for sc.Scan() {
		line := sc.Text()
		if line == "" {
			continue
		}
		if f, ok := ParseLine(line); ok {
			findings = append(findings, f)
			continue
		}
		other = append(other, line)
	}
	return findings, other
}

// Run invokes the checker on files. A non-zero exit status is not an
// error: checkers exit 1 when they report findings. Failing to start the
// command is.
func Run(ctx context.Context, c Command, files []string) (Output, error) {
	argv := c.Line(files)
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = c.Dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	out := Output{}
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return out, fmt.Errorf("failed to run %s: %w", argv[0], err)
		}
		out.ExitCode = exitErr.ExitCode()
	}
	out.Findings, out.Other = ParseOutput(stdout.Bytes())
	out.Stderr = strings.TrimSpace(stderr.String())
	return out, nil
}
