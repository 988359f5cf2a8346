// Package entity contains domain entities representing core editor concepts.
// These entities are pure Go types with no infrastructure dependencies.
package entity

// FileRef identifies an openable file. Identity is the absolute path:
// two refs denote the same file iff their FullPath values are equal,
// regardless of object identity. Refs are supplied by the filesystem
// collaborator and are never created by this core.
type FileRef interface {
	// FullPath returns the absolute path of the file.
	FullPath() string
	// Untitled reports whether the file exists only in memory and
	// cannot be reopened from disk.
	Untitled() bool
}

// SameFile reports whether two refs identify the same file.
// Nil refs are never the same file.
func SameFile(a, b FileRef) bool {
	if a == nil || b == nil {
		return false
	}
	return a.FullPath() == b.FullPath()
}

// PathOf returns the full path of a ref, or "" for nil.
func PathOf(f FileRef) string {
	if f == nil {
		return ""
	}
	return f.FullPath()
}
