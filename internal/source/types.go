package source

type (
	// FileID uniquely identifies a source file within a FileSet.
	FileID uint32
	// FileFlags encodes metadata about a source file.
	FileFlags uint8
)

// NoFileID is never handed out by a FileSet; a zero Span points nowhere.
const NoFileID FileID = 0

const (
	// FileVirtual indicates the file was added from memory (test, editor buffer).
	FileVirtual FileFlags = 1 << iota
	FileHadBOM
	FileHasCRLF
)

// File captures metadata and content for a single source file.
// Content is replaced in place when the file is edited; the ID stays stable.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	LineIdx []uint32
	Hash    [32]byte
	Flags   FileFlags
	Version uint32
}

// LineCol represents a human-readable position in a source file.
type LineCol struct {
	Line uint32 // 1-based
	Col  uint32 // 1-based
}
