package workspace

import (
	"go.lsp.dev/protocol"
)

// FileRef identifies a file tracked by the file-content store. The zero value
// references no file.
type FileRef uint32

// Exists reports whether the reference points at a tracked file.
func (r FileRef) Exists() bool {
	return r != 0
}

// Loc is a byte-offset span within a tracked file. A zero-width Loc with
// Begin == End stands in for a single position.
type Loc struct {
	File  FileRef
	Begin int
	End   int
}

// FileSource resolves file identity and content positions during translation.
// The file-content store implements it.
type FileSource interface {
	// FindFileByPath returns the reference tracking the given path, or the
	// zero FileRef when the path is not tracked.
	FindFileByPath(path string) FileRef

	// PathForRef returns the local path, or the canonical path for payload
	// files, of a tracked reference.
	PathForRef(ref FileRef) (string, bool)

	// IsPayload reports whether the reference names an engine-bundled file,
	// which never lives under the workspace root.
	IsPayload(ref FileRef) bool

	// OffsetForPosition resolves a 1-based line and byte column to a byte
	// offset into the referenced file's contents.
	OffsetForPosition(ref FileRef, line int, col int) (int, error)

	// RangeForLoc recovers the client-facing range spanned by a Loc.
	RangeForLoc(loc Loc) (*protocol.Range, error)
}
