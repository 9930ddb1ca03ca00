package timeline

import (
	"sort"

	"github.com/clipsheet/clipsheet-agent/internal/timecode"
)

// dedupeKey is the exact-duplicate identity: two placements of the same clip
// in the same parent sequence covering the same rounded timecodes are one
// instance. Rounded TC strings are used deliberately so identity matches
// what the viewer sees.
type dedupeKey struct {
	name      string
	parentSeq string
	startTC   string
	endTC     string
}

// groupKey is the grouped-view identity.
type groupKey struct {
	name      string
	parentSeq string
	clipType  string
}

// Dedupe collapses exact duplicates, preserving first-seen order. Collapsed
// rows accumulate instance counts, so deduplication is idempotent: running
// it over an already-deduplicated list returns the same rows and counts.
func Dedupe(instances []ClipInstance) []ClipInstance {
	index := make(map[dedupeKey]int)
	out := make([]ClipInstance, 0, len(instances))

	for _, inst := range instances {
		key := dedupeKey{inst.Name, inst.SourceSequence, inst.StartTC, inst.EndTC}
		count := inst.InstanceCount
		if count < 1 {
			count = 1
		}
		if i, ok := index[key]; ok {
			out[i].InstanceCount += count
			continue
		}
		inst.InstanceCount = count
		index[key] = len(out)
		out = append(out, inst)
	}
	return out
}

// MergeIntervals produces the minimal sorted, non-overlapping interval set
// covering the given instances. The merge decision uses unrounded seconds;
// exact adjacency (next start == current end) merges. Timecode strings are
// rendered only after merging.
func MergeIntervals(instances []ClipInstance) []Interval {
	if len(instances) == 0 {
		return nil
	}

	sorted := make([]ClipInstance, len(instances))
	copy(sorted, instances)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].StartSec < sorted[j].StartSec
	})

	var merged []Interval
	cur := Interval{StartSec: sorted[0].StartSec, EndSec: sorted[0].EndSec}
	for _, inst := range sorted[1:] {
		if inst.StartSec <= cur.EndSec {
			if inst.EndSec > cur.EndSec {
				cur.EndSec = inst.EndSec
			}
			continue
		}
		merged = append(merged, cur)
		cur = Interval{StartSec: inst.StartSec, EndSec: inst.EndSec}
	}
	merged = append(merged, cur)

	for i := range merged {
		merged[i].StartTC = timecode.FromSeconds(merged[i].StartSec)
		merged[i].EndTC = timecode.FromSeconds(merged[i].EndSec)
	}
	return merged
}

// Aggregate turns resolved instances into the two output views: the
// per-instance list (exact duplicates collapsed, chronological) and the
// grouped list (one row per clip identity with merged intervals, ordered by
// each clip's earliest appearance).
func Aggregate(instances []ClipInstance) ([]ClipInstance, []AggregatedClip) {
	deduped := Dedupe(instances)

	perInstance := make([]ClipInstance, len(deduped))
	copy(perInstance, deduped)
	sort.SliceStable(perInstance, func(i, j int) bool {
		return perInstance[i].StartSec < perInstance[j].StartSec
	})

	groups := make(map[groupKey][]ClipInstance)
	var order []groupKey
	for _, inst := range deduped {
		key := groupKey{inst.Name, inst.SourceSequence, inst.Type}
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], inst)
	}

	grouped := make([]AggregatedClip, 0, len(order))
	for _, key := range order {
		members := groups[key]
		first := members[0]
		row := AggregatedClip{
			Name:           key.name,
			Type:           key.clipType,
			SourceSequence: key.parentSeq,
			InstanceCount:  len(members),
			Intervals:      MergeIntervals(members),
			Source:         first.Source,
			MediaID:        first.MediaID,
			Title:          first.Title,
		}
		row.earliestStart = row.Intervals[0].StartSec
		grouped = append(grouped, row)
	}

	sort.SliceStable(grouped, func(i, j int) bool {
		if grouped[i].earliestStart != grouped[j].earliestStart {
			return grouped[i].earliestStart < grouped[j].earliestStart
		}
		return grouped[i].Name < grouped[j].Name
	})

	return perInstance, grouped
}
