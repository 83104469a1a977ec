// Package driver owns one nbcheck invocation: it converts notebooks into
// intermediate files, remembers where every cell landed, runs the checker
// and maps its findings back to notebook cells.
package driver

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"nbcheck/internal/diag"
	"nbcheck/internal/intermediate"
	"nbcheck/internal/magic"
	"nbcheck/internal/notebook"
	"nbcheck/internal/trace"
	"nbcheck/internal/transpile"
)

// TempPrefix names the private temp directory of a run.
const TempPrefix = "nbcheck_"

// Options configure a Run.
type Options struct {
	ProjectRoot string // notebooks below it keep their relative layout
	Keep        bool   // retain the temp directory on Close
	Jobs        int    // parallel notebooks, <= 0 for GOMAXPROCS
	TempBase    string // parent of the temp directory, empty for os.TempDir
	Transformer magic.Transformer
	Reporter    diag.Reporter
	Progress    ProgressSink
}

// Entry records one converted notebook.
type Entry struct {
	Index            int // position of the notebook in the Convert input
	NotebookPath     string
	IntermediatePath string
	Mapping          intermediate.Mapping
}

// Location is a position inside a notebook cell.
type Location struct {
	NotebookPath string
	Cell         notebook.CellID
	Line         int
}

// Run is the context of one invocation. Entries are only ever appended.
type Run struct {
	opts    Options
	tempDir string
	timings Timings

	mu      sync.Mutex
	entries []Entry
	byPath  map[string]int // intermediate path -> entries index
	claimed map[string]struct{}
	closed  bool
}

// NewRun creates the run's private temp directory.
func NewRun(opts Options) (*Run, error) {
	if opts.ProjectRoot == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		opts.ProjectRoot = wd
	}
	if opts.Transformer == nil {
		opts.Transformer = magic.IPython{}
	}
	if opts.Reporter == nil {
		opts.Reporter = diag.NopReporter{}
	}
	if opts.Progress == nil {
		opts.Progress = nopSink{}
	}
	dir, err := os.MkdirTemp(opts.TempBase, TempPrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to create temp directory: %w", err)
	}
	return &Run{
		opts:    opts,
		tempDir: dir,
		byPath:  make(map[string]int),
		claimed: make(map[string]struct{}),
	}, nil
}

// TempDir is the directory holding intermediate files.
func (r *Run) TempDir() string {
	return r.tempDir
}

// Timings returns the stage durations recorded so far.
func (r *Run) Timings() *Timings {
	return &r.timings
}

// Convert turns notebooks into intermediate files in parallel. Unreadable
// or empty notebooks produce warnings and no entry; write failures abort.
func (r *Run) Convert(ctx context.Context, notebooks []string) error {
	if len(notebooks) == 0 {
		return nil
	}
	ctx, span := trace.Start(ctx, trace.ScopeStage, "convert")
	defer span.End(strconv.Itoa(len(notebooks)) + " notebooks")

	for _, nb := range notebooks {
		r.opts.Progress.OnEvent(Event{File: nb, Stage: StageRead, Status: StatusQueued})
	}

	jobs := r.opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	reporter := diag.NewSyncReporter(r.opts.Reporter)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(notebooks)))
	for i, nb := range notebooks {
		i, nb := i, nb
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return r.convertOne(gctx, i, nb, reporter)
		})
	}
	return g.Wait()
}

func (r *Run) convertOne(ctx context.Context, index int, path string, reporter diag.Reporter) (err error) {
	ctx, span := trace.Start(ctx, trace.ScopeNotebook, "notebook:"+path)
	defer func() {
		if err != nil {
			trace.Error(trace.FromContext(ctx), trace.ScopeNotebook, "notebook:"+path, err, span.ID())
		}
		span.End("")
	}()

	began := time.Now()
	r.opts.Progress.OnEvent(Event{File: path, Stage: StageRead, Status: StatusWorking})
	cells := notebook.Load(path, reporter)
	r.timings.Add(StageRead, time.Since(began))
	if len(cells) == 0 {
		r.opts.Progress.OnEvent(Event{File: path, Stage: StageRead, Status: StatusSkipped, Elapsed: time.Since(began)})
		return nil
	}

	r.opts.Progress.OnEvent(Event{File: path, Stage: StageTranspile, Status: StatusWorking})
	stageStart := time.Now()
	blocks := make([]transpile.Block, 0, len(cells))
	for _, c := range cells {
		_, cellSpan := trace.Start(ctx, trace.ScopeCell, "cell:"+c.ID.String())
		b := transpile.Cell(path, c, r.opts.Transformer, reporter)
		cellSpan.WithExtra("lines", strconv.Itoa(b.Lines)).End("")
		blocks = append(blocks, b)
	}
	doc := intermediate.Assemble(blocks)
	if verr := doc.Mapping.Validate(doc.LineCount()); verr != nil {
		r.opts.Progress.OnEvent(Event{File: path, Stage: StageTranspile, Status: StatusError, Err: verr})
		return verr
	}
	r.timings.Add(StageTranspile, time.Since(stageStart))

	r.opts.Progress.OnEvent(Event{File: path, Stage: StageWrite, Status: StatusWorking})
	stageStart = time.Now()
	target, err := intermediate.TempPath(path, r.opts.ProjectRoot, r.tempDir)
	if err == nil {
		target = r.claim(target)
		_, err = intermediate.Write(doc, target)
	}
	if err != nil {
		r.opts.Progress.OnEvent(Event{File: path, Stage: StageWrite, Status: StatusError, Err: err})
		return err
	}
	r.timings.Add(StageWrite, time.Since(stageStart))

	r.register(Entry{Index: index, NotebookPath: path, IntermediatePath: target, Mapping: doc.Mapping})
	r.opts.Progress.OnEvent(Event{File: path, Stage: StageWrite, Status: StatusDone, Elapsed: time.Since(began)})
	return nil
}

// claim reserves target, suffixing the name when another notebook already
// maps to it.
func (r *Run) claim(target string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	base := target[:len(target)-len(intermediate.Ext)]
	for n := 2; ; n++ {
		if _, taken := r.claimed[target]; !taken {
			r.claimed[target] = struct{}{}
			return target
		}
		target = base + "_" + strconv.Itoa(n) + intermediate.Ext
	}
}

func (r *Run) register(e Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, e)
	r.byPath[pathKey(e.IntermediatePath)] = len(r.entries) - 1
}

// Entries returns the registry in notebook input order.
func (r *Run) Entries() []Entry {
	r.mu.Lock()
	out := append([]Entry(nil), r.entries...)
	r.mu.Unlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out
}

// IntermediatePaths lists the written files in notebook input order.
func (r *Run) IntermediatePaths() []string {
	entries := r.Entries()
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.IntermediatePath
	}
	return out
}

// Lookup finds the entry for an intermediate path as the checker printed it.
func (r *Run) Lookup(path string) (Entry, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if idx, ok := r.byPath[pathKey(path)]; ok {
		return r.entries[idx], true
	}
	if !intermediate.IsIntermediate(path) {
		return Entry{}, false
	}
	st, err := os.Stat(path)
	if err != nil {
		return Entry{}, false
	}
	for _, e := range r.entries {
		if est, err := os.Stat(e.IntermediatePath); err == nil && os.SameFile(st, est) {
			return e, true
		}
	}
	return Entry{}, false
}

// ResolveDiagnosticPosition maps line of an intermediate file to its cell.
// ok is false when path is not an intermediate file of this run. Mapping
// violations are returned as *intermediate.InvariantError.
func (r *Run) ResolveDiagnosticPosition(path string, line int) (loc Location, ok bool, err error) {
	e, found := r.Lookup(path)
	if !found {
		return Location{}, false, nil
	}
	id, inCell, err := e.Mapping.Resolve(line)
	if err != nil {
		return Location{}, true, err
	}
	return Location{NotebookPath: e.NotebookPath, Cell: id, Line: inCell}, true, nil
}

// Close removes the temp directory, or writes the manifest into it when the
// run is retained and returns its path.
func (r *Run) Close() (string, error) {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return "", nil
	}
	r.closed = true
	r.mu.Unlock()

	if r.opts.Keep {
		if err := WriteManifest(r.tempDir, NewManifest(r.opts.ProjectRoot, r.Entries())); err != nil {
			return r.tempDir, err
		}
		return r.tempDir, nil
	}
	if err := os.RemoveAll(r.tempDir); err != nil && !errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("failed to remove %s: %w", r.tempDir, err)
	}
	return "", nil
}

func pathKey(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return filepath.Clean(p)
}
