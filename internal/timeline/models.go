// Package timeline walks a chosen sequence of a parsed project, resolves
// every clip placement (including clips inside nested sequences) onto the
// sequence's own timeline, and aggregates the result into the per-instance
// and grouped views.
package timeline

import (
	"errors"

	"github.com/clipsheet/clipsheet-agent/internal/source"
)

// ErrCyclicNesting marks a sequence that contains itself, directly or through
// other sequences. Fatal for the affected walk; never resolved silently.
var ErrCyclicNesting = errors.New("cyclic sequence nesting")

// Clip type labels.
const (
	TypeVideo   = "Video"
	TypeAudio   = "Audio"
	TypeImage   = "Image"
	TypeGraphic = "Graphic"
	TypeNested  = "Nested sequence"
	TypeUnknown = "Unknown"
)

// RawPlacement is one clip placement on the walked sequence's timeline, in
// native ticks, before timecode conversion. Placements from nested sequences
// arrive already translated into the top sequence's tick space.
type RawPlacement struct {
	Name           string
	StartTicks     int64
	EndTicks       int64
	SourceSequence string
	SourcePath     string
	SourceFilename string
	MediaKind      string
	TrackIndex     int
	IsAudio        bool
	IsContainer    bool
}

// ClipInstance is one resolved placement with real-world timing: the
// per-instance view row and the visualizer item. StartSec/EndSec keep
// sub-second precision; the TC strings are rounded to whole seconds.
type ClipInstance struct {
	Name           string          `json:"name"`
	Type           string          `json:"type"`
	StartSec       float64         `json:"start_sec"`
	EndSec         float64         `json:"end_sec"`
	StartTC        string          `json:"start_tc"`
	EndTC          string          `json:"end_tc"`
	SourceSequence string          `json:"source_sequence,omitempty"`
	TrackIndex     int             `json:"track"`
	IsAudio        bool            `json:"is_audio"`
	InstanceCount  int             `json:"instance_count"`
	Source         source.Provider `json:"source,omitempty"`
	MediaID        string          `json:"media_id,omitempty"`
	Title          string          `json:"title,omitempty"`
}

// Interval is one merged [start,end] span of a grouped clip.
type Interval struct {
	StartSec float64 `json:"start_sec"`
	EndSec   float64 `json:"end_sec"`
	StartTC  string  `json:"start_tc"`
	EndTC    string  `json:"end_tc"`
}

// AggregatedClip is one grouped-view row. Identity is the tuple
// (name, source sequence, type); intervals are sorted by start and pairwise
// non-overlapping.
type AggregatedClip struct {
	Name           string          `json:"name"`
	Type           string          `json:"type"`
	SourceSequence string          `json:"source_sequence,omitempty"`
	InstanceCount  int             `json:"instance_count"`
	Intervals      []Interval      `json:"intervals"`
	Source         source.Provider `json:"source,omitempty"`
	MediaID        string          `json:"media_id,omitempty"`
	Title          string          `json:"title,omitempty"`

	earliestStart float64
}

// Result is the full output of one extraction call.
type Result struct {
	SequenceName  string           `json:"sequence_name"`
	FPS           float64          `json:"fps"`
	TicksPerFrame int64            `json:"ticks_per_frame"`
	PerInstance   []ClipInstance   `json:"per_instance"`
	Grouped       []AggregatedClip `json:"grouped"`
	Warnings      []string         `json:"warnings,omitempty"`
}
