package domain

import "unique"

// PathKey is an interned path used as a set key.
// Equal paths share one handle, so a burst touching the same file many times
// stores the string once.
type PathKey struct {
	h unique.Handle[string]
}

// NewPathKey interns path.
func NewPathKey(path string) PathKey {
	return PathKey{h: unique.Make(path)}
}

// String returns the path. The zero PathKey is the empty path.
func (k PathKey) String() string {
	var zero unique.Handle[string]
	if k.h == zero {
		return ""
	}
	return k.h.Value()
}
