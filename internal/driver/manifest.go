package driver

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vmihailenco/msgpack/v5"

	"nbcheck/internal/intermediate"
	"nbcheck/internal/notebook"
)

// ManifestName is the file a retained run writes into its temp directory.
const ManifestName = "manifest.mp"

// bump when ManifestEntry changes shape
const manifestSchema uint16 = 1

// ErrNoManifest is returned when a directory holds no manifest.
var ErrNoManifest = errors.New("no manifest found")

// Manifest describes a retained run so its files can be mapped later.
type Manifest struct {
	Schema      uint16
	ProjectRoot string
	Entries     []ManifestEntry
}

// ManifestEntry is the stored form of Entry. IntermediatePath is relative
// to the manifest's directory.
type ManifestEntry struct {
	NotebookPath     string
	IntermediatePath string
	CellIDs          []notebook.CellID
	StartLines       []int
}

// NewManifest captures entries written under the run's temp directory.
func NewManifest(projectRoot string, entries []Entry) *Manifest {
	m := &Manifest{Schema: manifestSchema, ProjectRoot: projectRoot}
	for _, e := range entries {
		m.Entries = append(m.Entries, ManifestEntry{
			NotebookPath:     e.NotebookPath,
			IntermediatePath: e.IntermediatePath,
			CellIDs:          e.Mapping.CellIDs,
			StartLines:       e.Mapping.StartLines,
		})
	}
	return m
}

// WriteManifest stores m in dir, replacing any previous manifest atomically.
func WriteManifest(dir string, m *Manifest) error {
	stored := *m
	stored.Entries = make([]ManifestEntry, len(m.Entries))
	for i, e := range m.Entries {
		if rel, err := filepath.Rel(dir, e.IntermediatePath); err == nil {
			e.IntermediatePath = filepath.ToSlash(rel)
		}
		stored.Entries[i] = e
	}

	f, err := os.CreateTemp(dir, "manifest-*")
	if err != nil {
		return fmt.Errorf("failed to create manifest: %w", err)
	}
	tmp := f.Name()
	defer os.Remove(tmp) //nolint:errcheck

	if err := msgpack.NewEncoder(f).Encode(&stored); err != nil {
		f.Close() //nolint:errcheck
		return fmt.Errorf("failed to encode manifest: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	if err := os.Rename(tmp, filepath.Join(dir, ManifestName)); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}

// ReadManifest loads the manifest of a retained run. Intermediate paths are
// made absolute against dir.
func ReadManifest(dir string) (*Manifest, error) {
	f, err := os.Open(filepath.Join(dir, ManifestName))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w in %s", ErrNoManifest, dir)
		}
		return nil, fmt.Errorf("failed to open manifest: %w", err)
	}
	defer f.Close() //nolint:errcheck

	var m Manifest
	if err := msgpack.NewDecoder(f).Decode(&m); err != nil {
		return nil, fmt.Errorf("failed to decode manifest in %s: %w", dir, err)
	}
	if m.Schema != manifestSchema {
		return nil, fmt.Errorf("manifest in %s has schema %d, expected %d", dir, m.Schema, manifestSchema)
	}
	for i := range m.Entries {
		p := filepath.FromSlash(m.Entries[i].IntermediatePath)
		if !filepath.IsAbs(p) {
			p = filepath.Join(dir, p)
		}
		m.Entries[i].IntermediatePath = p
	}
	return &m, nil
}

// FindManifest walks up from path until it finds a directory with a manifest.
func FindManifest(path string) (string, error) {
	dir, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	if st, err := os.Stat(dir); err == nil && !st.IsDir() {
		dir = filepath.Dir(dir)
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, ManifestName)); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("%w above %s", ErrNoManifest, path)
		}
		dir = parent
	}
}

// Resolve maps line of the intermediate file at path. ok is false when the
// manifest does not know path.
func (m *Manifest) Resolve(path string, line int) (loc Location, ok bool, err error) {
	key := pathKey(path)
	for _, e := range m.Entries {
		if pathKey(e.IntermediatePath) != key {
			continue
		}
		mapping := intermediate.Mapping{CellIDs: e.CellIDs, StartLines: e.StartLines}
		id, inCell, err := mapping.Resolve(line)
		if err != nil {
			return Location{}, true, err
		}
		return Location{NotebookPath: e.NotebookPath, Cell: id, Line: inCell}, true, nil
	}
	return Location{}, false, nil
}
