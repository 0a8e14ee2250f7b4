package storage

import "errors"

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// ChunkRecord is a persisted document section. Records are append-mostly:
// once inserted they are never structurally mutated, only soft-deleted.
type ChunkRecord struct {
	ID         int64  // Assigned by the store; dense, increasing, starts at 1
	SourceName string // Originating document identifier
	Heading    string // Section heading; "GENERAL" when none preceded the content
	Content    string // Space-joined body text under the heading
	LocStart   int    // First contributing source locator (page or paragraph)
	LocEnd     int    // Last contributing source locator
	VectorPos  int64  // 0-based position of this chunk's vector in the index
	Deleted    bool   // Tombstone; excluded from all reads when set
}

// SourceInfo summarizes the live chunks of one uploaded document.
type SourceInfo struct {
	SourceName string `json:"source"`
	Chunks     int    `json:"chunks"`
}
