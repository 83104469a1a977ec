package source

type (
	// FileID identifies a loaded file within a FileSet.
	FileID uint32
	// FileFlags records what ReadNormalized changed.
	FileFlags uint8
)

const (
	FileHadBOM FileFlags = 1 << iota
	FileNormalizedCRLF
)

// File is the normalized text of a converted notebook or checked file.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	LineIdx []uint32 // offsets of every '\n'
	Flags   FileFlags
}
