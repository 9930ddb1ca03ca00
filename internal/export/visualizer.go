package export

import (
	"sort"

	"github.com/clipsheet/clipsheet-agent/internal/timecode"
	"github.com/clipsheet/clipsheet-agent/internal/timeline"
)

// minTimelineDuration keeps near-empty timelines renderable.
const minTimelineDuration = 10.0

// maxDisplayClamp bounds minimum-duration stretching for display: instances
// at absurd timecodes are rendered as-is.
const maxDisplayClamp = 359990.0

// TimelineItem is one block on the rendered timeline.
type TimelineItem struct {
	Name           string  `json:"name"`
	Type           string  `json:"type"`
	StartTC        string  `json:"start_tc"`
	EndTC          string  `json:"end_tc"`
	StartPercent   float64 `json:"start_percent"`
	WidthPercent   float64 `json:"width_percent"`
	Track          int     `json:"track"`
	IsAudio        bool    `json:"is_audio"`
	InstanceCount  int     `json:"instance_count"`
	SourceSequence string  `json:"source_sequence,omitempty"`
}

// VisualizerPayload is consumed verbatim by the rendering layer.
type VisualizerPayload struct {
	DurationSeconds float64        `json:"duration_seconds"`
	FPS             float64        `json:"fps"`
	VideoTracks     int            `json:"video_tracks"`
	Items           []TimelineItem `json:"items"`
}

// visualItem pairs an instance with the lane math done on unrounded seconds.
type visualItem struct {
	inst  timeline.ClipInstance
	track int
}

// BuildVisualizerPayload lays the per-instance rows out into display lanes.
// Nested sequences are synthesized back into single container blocks sized
// to their children, children stack in their own lanes above the container's
// lane, and audio items occupy a separate lane bank below the video lanes.
func BuildVisualizerPayload(res *timeline.Result) *VisualizerPayload {
	counts := make(map[string]int)
	for _, g := range res.Grouped {
		if _, ok := counts[g.Name]; !ok {
			counts[g.Name] = g.InstanceCount
		}
	}

	items := make([]timeline.ClipInstance, len(res.PerInstance))
	copy(items, res.PerInstance)

	// Rebuild one container block per nested sequence from its children.
	nestedNames := make(map[string]bool)
	for _, inst := range res.PerInstance {
		if inst.SourceSequence != "" {
			nestedNames[inst.SourceSequence] = true
		}
	}
	for _, name := range sortedKeys(nestedNames) {
		minStart, maxEnd := 0.0, 0.0
		first := true
		for _, inst := range res.PerInstance {
			if inst.SourceSequence != name {
				continue
			}
			if first || inst.StartSec < minStart {
				minStart = inst.StartSec
			}
			if first || inst.EndSec > maxEnd {
				maxEnd = inst.EndSec
			}
			first = false
		}
		if first {
			continue
		}
		items = append(items, timeline.ClipInstance{
			Name:     name,
			Type:     timeline.TypeNested,
			StartSec: minStart,
			EndSec:   maxEnd,
			StartTC:  timecode.FromSeconds(minStart),
			EndTC:    timecode.FromSeconds(maxEnd),
		})
	}

	duration := minTimelineDuration
	for _, inst := range items {
		if inst.EndSec+1 > duration {
			duration = inst.EndSec + 1
		}
	}

	// Lane assignment for top-level items: greedy first-fit over lane end
	// times, with independent banks for audio and non-audio.
	var videoLanes, audioLanes []float64
	containerTracks := make(map[string]int)
	var placed []visualItem

	for _, inst := range items {
		if inst.SourceSequence != "" {
			continue
		}
		lanes := &videoLanes
		if inst.IsAudio || inst.Type == timeline.TypeAudio {
			lanes = &audioLanes
		}
		track := placeInLanes(lanes, inst.StartSec, inst.EndSec)
		if inst.Type == timeline.TypeNested {
			containerTracks[inst.Name] = track
		}
		placed = append(placed, visualItem{inst: inst, track: track})
	}

	// Children of each nested sequence stack relative to their container.
	childrenByNest := make(map[string][]timeline.ClipInstance)
	for _, inst := range items {
		if inst.SourceSequence != "" {
			childrenByNest[inst.SourceSequence] = append(childrenByNest[inst.SourceSequence], inst)
		}
	}
	for _, nest := range sortedMapKeys(childrenByNest) {
		base := containerTracks[nest]
		var childLanes []float64
		for _, inst := range childrenByNest[nest] {
			track := placeInLanes(&childLanes, inst.StartSec, inst.EndSec)
			placed = append(placed, visualItem{inst: inst, track: base + track})
		}
	}

	out := make([]TimelineItem, 0, len(placed))
	for _, p := range placed {
		startSec, endSec := p.inst.StartSec, p.inst.EndSec
		endTC := p.inst.EndTC
		if endSec-startSec < 1 && startSec < maxDisplayClamp {
			endSec = startSec + 1
			endTC = timecode.FromSeconds(endSec)
		}
		count := counts[p.inst.Name]
		if count == 0 {
			count = 1
		}
		out = append(out, TimelineItem{
			Name:           p.inst.Name,
			Type:           p.inst.Type,
			StartTC:        p.inst.StartTC,
			EndTC:          endTC,
			StartPercent:   startSec / duration * 100,
			WidthPercent:   (endSec - startSec) / duration * 100,
			Track:          p.track,
			IsAudio:        p.inst.IsAudio || p.inst.Type == timeline.TypeAudio,
			InstanceCount:  count,
			SourceSequence: p.inst.SourceSequence,
		})
	}

	return &VisualizerPayload{
		DurationSeconds: duration,
		FPS:             res.FPS,
		VideoTracks:     len(videoLanes),
		Items:           out,
	}
}

// placeInLanes drops an interval into the first lane whose previous item has
// ended, extending the bank when none fits. Returns the lane index.
func placeInLanes(lanes *[]float64, start, end float64) int {
	for i := range *lanes {
		if (*lanes)[i] <= start {
			(*lanes)[i] = end
			return i
		}
	}
	*lanes = append(*lanes, end)
	return len(*lanes) - 1
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedMapKeys(m map[string][]timeline.ClipInstance) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
