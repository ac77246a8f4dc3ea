package models

// Presence classifies where a relative path exists
type Presence string

const (
	// PresenceLeftOnly indicates the path exists only under the left root
	PresenceLeftOnly Presence = "left_only"
	// PresenceRightOnly indicates the path exists only under the right root
	PresenceRightOnly Presence = "right_only"
	// PresenceBoth indicates the path exists under both roots
	PresenceBoth Presence = "both"
)

// StructureEntry is the structure-stage record for one relative path
type StructureEntry struct {
	// RelativePath is the slash-separated path relative to the roots
	RelativePath string `json:"relative_path"`

	// Presence is the existence classification
	Presence Presence `json:"presence"`

	// TypeConflict is set when the path is a file on one side and a
	// directory on the other; presence stays "both" and later stages
	// skip the path
	TypeConflict bool `json:"type_conflict,omitempty"`

	// Error records a per-path access failure (permission denied while
	// scanning); empty means the entry was enumerated normally
	Error string `json:"error,omitempty"`
}

// ContentStatus is the outcome of a content-stage fingerprint comparison
type ContentStatus string

const (
	// ContentIdentical indicates matching fingerprints
	ContentIdentical ContentStatus = "identical"
	// ContentModified indicates differing content
	ContentModified ContentStatus = "modified"
	// ContentError indicates a side could not be read
	ContentError ContentStatus = "error"
)

// ContentEntry is the content-stage record for one relative path.
// Entries exist only for paths with presence "both" and no type conflict.
type ContentEntry struct {
	RelativePath string        `json:"relative_path"`
	Status       ContentStatus `json:"status"`

	// FingerprintLeft and FingerprintRight are hex digests of each side.
	// They are empty when the size precheck short-circuited or the side
	// was unreadable; status "identical" always carries equal, non-empty
	// fingerprints.
	FingerprintLeft  string `json:"fingerprint_left,omitempty"`
	FingerprintRight string `json:"fingerprint_right,omitempty"`

	// SizeLeft and SizeRight are the byte sizes of each side
	SizeLeft  int64 `json:"size_left"`
	SizeRight int64 `json:"size_right"`

	// Reason explains how the status was decided
	Reason string `json:"reason,omitempty"`

	// Error holds the read failure for status "error"
	Error string `json:"error,omitempty"`
}
