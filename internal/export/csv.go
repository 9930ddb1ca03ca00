// Package export renders extraction results into their outward shapes: CSV
// files for the two table views and the payload consumed by the timeline
// visualizer.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/clipsheet/clipsheet-agent/internal/timeline"
)

// Column orders match the "Clip information" fields of the table views.
var (
	PerInstanceHeaders = []string{
		"clip_name", "startTC", "endTC", "clip_type",
		"source_sequence", "source", "media_id", "source_title",
	}
	GroupedHeaders = []string{
		"clip_name", "instances_count", "instances(start-end pipe-separated)",
		"clip_type", "source", "media_id", "source_title",
	}
)

// WritePerInstanceCSV writes one row per distinct clip instance.
func WritePerInstanceCSV(w io.Writer, rows []timeline.ClipInstance) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(PerInstanceHeaders); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, r := range rows {
		record := []string{
			r.Name, r.StartTC, r.EndTC, r.Type,
			r.SourceSequence, string(r.Source), r.MediaID, r.Title,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteGroupedCSV writes one row per clip identity with its merged intervals.
func WriteGroupedCSV(w io.Writer, rows []timeline.AggregatedClip) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(GroupedHeaders); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, r := range rows {
		record := []string{
			r.Name, strconv.Itoa(r.InstanceCount), FormatIntervals(r.Intervals),
			r.Type, string(r.Source), r.MediaID, r.Title,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// FormatIntervals joins merged intervals as "start1-end1|start2-end2|...".
func FormatIntervals(intervals []timeline.Interval) string {
	parts := make([]string, len(intervals))
	for i, iv := range intervals {
		parts[i] = iv.StartTC + "-" + iv.EndTC
	}
	return strings.Join(parts, "|")
}
