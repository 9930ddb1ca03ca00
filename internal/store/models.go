// Package store persists the agent state that surrounds extractions: which
// uploads are on disk, what was extracted from them, and agent config. Every
// extraction itself is request-scoped and never read back from here.
package store

import (
	"crypto/rand"
	"fmt"
	"time"
)

// Upload is one project file stored under the uploads directory, awaiting
// extraction calls until the janitor reclaims it.
type Upload struct {
	ID            string    `json:"id"`
	Filename      string    `json:"filename"`
	Path          string    `json:"path"`
	Size          int64     `json:"size"`
	SequenceCount int       `json:"sequence_count"`
	CreatedAt     time.Time `json:"created_at"`
}

// Extraction is one history row recorded after a successful extraction.
type Extraction struct {
	ID            string    `json:"id"`
	UploadID      string    `json:"upload_id"`
	ProjectName   string    `json:"project_name"`
	SequenceName  string    `json:"sequence_name"`
	FPS           float64   `json:"fps"`
	ClipCount     int       `json:"clip_count"`
	InstanceCount int       `json:"instance_count"`
	WarningCount  int       `json:"warning_count"`
	CreatedAt     time.Time `json:"created_at"`
}

// NewID returns a random UUID-shaped identifier.
func NewID() string {
	b := make([]byte, 16)
	rand.Read(b)
	return fmt.Sprintf("%x-%x-%x-%x-%x", b[0:4], b[4:6], b[6:8], b[8:10], b[10:])
}
