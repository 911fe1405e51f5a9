package domain

import "time"

// RawOp is the operation reported by a notification source before normalization.
type RawOp uint8

const (
	// RawCreate indicates a file or directory appeared.
	RawCreate RawOp = iota
	// RawWrite indicates a file was modified.
	RawWrite
	// RawRemove indicates a file or directory was removed.
	RawRemove
	// RawRename indicates a rename whose old and new paths are both known.
	RawRename
	// RawRenameFrom indicates the old half of a rename. The new name, if it stays
	// inside the watched tree, arrives later as a RawCreate.
	RawRenameFrom
)

// String returns the lower-case name of the operation.
func (o RawOp) String() string {
	switch o {
	case RawCreate:
		return "create"
	case RawWrite:
		return "write"
	case RawRemove:
		return "remove"
	case RawRename:
		return "rename"
	case RawRenameFrom:
		return "rename-from"
	default:
		return "unknown"
	}
}

// RawEvent is a single notification delivered by a notification source.
type RawEvent struct {
	// Op is the raw operation.
	Op RawOp
	// Path is the absolute path the notification refers to.
	Path string
	// OldPath is the previous path of a RawRename.
	OldPath string
}

// ChangeKind is the normalized kind of a change.
type ChangeKind uint8

const (
	// Created indicates a new entry.
	Created ChangeKind = iota
	// Modified indicates an existing entry changed.
	Modified
	// Deleted indicates an entry was removed.
	Deleted
	// RenamedTo indicates an entry now lives at Path and used to live at PreviousPath.
	RenamedTo
)

// String returns the display name of the kind.
func (k ChangeKind) String() string {
	switch k {
	case Created:
		return "Created"
	case Modified:
		return "Changed"
	case Deleted:
		return "Deleted"
	case RenamedTo:
		return "Renamed"
	default:
		return "Unknown"
	}
}

// ChangeEvent is one normalized notification.
type ChangeEvent struct {
	// Path is the absolute path of the entry (the new location for renames).
	Path string
	// Kind is the normalized kind.
	Kind ChangeKind
	// PreviousPath is set only when Kind is RenamedTo.
	PreviousPath string
	// At is when the event was normalized.
	At time.Time
}
