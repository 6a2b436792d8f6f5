package source

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"sync"

	"fortio.org/safecast"
)

// FileSet owns the text of every source file the project knows about.
// Files are registered concurrently by asset loaders, so access is guarded.
type FileSet struct {
	mu    sync.RWMutex
	files []*File
	index map[string]FileID // PathKey -> id
}

// NewFileSet creates a new empty FileSet.
func NewFileSet() *FileSet {
	return &FileSet{
		// slot 0 is NoFileID
		files: []*File{nil},
		index: make(map[string]FileID),
	}
}

// Add registers path with content. If the path is already known its content
// is replaced and the existing ID is returned; changed reports whether the
// text differs from what was stored.
func (fs *FileSet) Add(path string, content []byte, flags FileFlags) (id FileID, changed bool) {
	content, hadBOM := removeBOM(content)
	if hadBOM {
		flags |= FileHadBOM
	}
	if bytes.Contains(content, []byte("\r\n")) {
		flags |= FileHasCRLF
	}
	hash := sha256.Sum256(content)
	key := PathKey(path)

	fs.mu.Lock()
	defer fs.mu.Unlock()

	if id, ok := fs.index[key]; ok {
		f := fs.files[id]
		if f.Hash == hash {
			return id, false
		}
		f.Content = content
		f.LineIdx = buildLineIndex(content)
		f.Hash = hash
		f.Flags = flags
		f.Version++
		return id, true
	}

	next, err := safecast.Conv[uint32](len(fs.files))
	if err != nil {
		panic(fmt.Errorf("file set overflow: %w", err))
	}
	if _, err := safecast.Conv[uint32](len(content)); err != nil {
		panic(fmt.Errorf("file %s too large: %w", path, err))
	}
	id = FileID(next)
	fs.files = append(fs.files, &File{
		ID:      id,
		Path:    NormalizePath(path),
		Content: content,
		LineIdx: buildLineIndex(content),
		Hash:    hash,
		Flags:   flags,
	})
	fs.index[key] = id
	return id, true
}

// AddVirtual adds an in-memory file with the FileVirtual flag.
func (fs *FileSet) AddVirtual(name string, content []byte) FileID {
	id, _ := fs.Add(name, content, FileVirtual)
	return id
}

// Get returns the file for id, or nil if the id is unknown.
func (fs *FileSet) Get(id FileID) *File {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	if id == NoFileID || int(id) >= len(fs.files) {
		return nil
	}
	return fs.files[id]
}

// Lookup returns the ID registered for path.
func (fs *FileSet) Lookup(path string) (FileID, bool) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	id, ok := fs.index[PathKey(path)]
	return id, ok
}

// Forget drops the path mapping. The File record stays so spans that still
// point at it keep resolving; only lookups by path stop working.
func (fs *FileSet) Forget(path string) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	delete(fs.index, PathKey(path))
}

// Contains reports whether span lies inside a registered file.
func (fs *FileSet) Contains(span Span) bool {
	f := fs.Get(span.File)
	if f == nil || span.Start > span.End {
		return false
	}
	return int(span.End) <= len(f.Content)
}

// Resolve converts a span into line and column positions.
func (fs *FileSet) Resolve(span Span) (start, end LineCol) {
	f := fs.Get(span.File)
	if f == nil {
		return LineCol{}, LineCol{}
	}
	return toLineCol(f.LineIdx, span.Start), toLineCol(f.LineIdx, span.End)
}

// Len returns the length of the file content.
func (f *File) Len() uint32 {
	return uint32(len(f.Content)) // #nosec G115 -- checked in Add
}

// Text returns the text covered by span.
func (f *File) Text(span Span) string {
	if span.End > f.Len() || span.Start > span.End {
		return ""
	}
	return string(f.Content[span.Start:span.End])
}

// GetLine returns line lineNum (1-based) without its terminator.
func (f *File) GetLine(lineNum uint32) string {
	if lineNum == 0 {
		return ""
	}
	n := uint32(len(f.LineIdx)) // #nosec G115
	var start uint32
	switch {
	case lineNum == 1:
		start = 0
	case lineNum-2 < n:
		start = f.LineIdx[lineNum-2] + 1
	default:
		return ""
	}
	end := f.Len()
	if lineNum-1 < n {
		end = f.LineIdx[lineNum-1]
	}
	if start > end {
		return ""
	}
	return string(bytes.TrimSuffix(f.Content[start:end], []byte{'\r'}))
}
