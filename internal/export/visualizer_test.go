package export

import (
	"math"
	"testing"

	"github.com/clipsheet/clipsheet-agent/internal/timeline"
)

func visInstance(name string, start, end float64, opts ...func(*timeline.ClipInstance)) timeline.ClipInstance {
	inst := timeline.ClipInstance{
		Name:     name,
		Type:     timeline.TypeVideo,
		StartSec: start,
		EndSec:   end,
	}
	for _, o := range opts {
		o(&inst)
	}
	return inst
}

func audio(inst *timeline.ClipInstance) {
	inst.Type = timeline.TypeAudio
	inst.IsAudio = true
}

func fromSequence(name string) func(*timeline.ClipInstance) {
	return func(inst *timeline.ClipInstance) { inst.SourceSequence = name }
}

func findItem(t *testing.T, items []TimelineItem, name string) TimelineItem {
	t.Helper()
	for _, it := range items {
		if it.Name == name {
			return it
		}
	}
	t.Fatalf("item %q not found in %+v", name, items)
	return TimelineItem{}
}

func testResult() *timeline.Result {
	return &timeline.Result{
		SequenceName: "Main",
		FPS:          25,
		PerInstance: []timeline.ClipInstance{
			visInstance("a.mp4", 0, 5),
			visInstance("b.mp4", 2, 7),
			visInstance("vo.wav", 0, 4, audio),
			visInstance("short.mp4", 8, 8.2),
			visInstance("n1.mp4", 11, 12, fromSequence("Nest")),
			visInstance("n2.mp4", 11.5, 13, fromSequence("Nest")),
		},
		Grouped: []timeline.AggregatedClip{
			{Name: "a.mp4", InstanceCount: 2},
		},
	}
}

func TestBuildVisualizerPayload(t *testing.T) {
	p := BuildVisualizerPayload(testResult())

	// Longest item ends at 13s; the timeline adds one second of margin.
	if p.DurationSeconds != 14 {
		t.Errorf("DurationSeconds = %v, want 14", p.DurationSeconds)
	}
	if p.FPS != 25 {
		t.Errorf("FPS = %v, want 25", p.FPS)
	}

	// a.mp4 and b.mp4 overlap and must not share a lane.
	a := findItem(t, p.Items, "a.mp4")
	b := findItem(t, p.Items, "b.mp4")
	if a.Track == b.Track {
		t.Errorf("overlapping clips share track %d", a.Track)
	}
	if p.VideoTracks != 2 {
		t.Errorf("VideoTracks = %d, want 2", p.VideoTracks)
	}

	// The audio item lives in its own lane bank.
	vo := findItem(t, p.Items, "vo.wav")
	if !vo.IsAudio {
		t.Error("vo.wav IsAudio = false, want true")
	}
	if vo.Track != 0 {
		t.Errorf("vo.wav Track = %d, want 0 (own bank)", vo.Track)
	}

	// Grouped instance counts flow onto the blocks.
	if a.InstanceCount != 2 {
		t.Errorf("a.mp4 InstanceCount = %d, want 2", a.InstanceCount)
	}
	if b.InstanceCount != 1 {
		t.Errorf("b.mp4 InstanceCount = %d, want 1", b.InstanceCount)
	}
}

func TestBuildVisualizerPayload_NestedContainer(t *testing.T) {
	p := BuildVisualizerPayload(testResult())

	// One container block spans the nested children.
	nest := findItem(t, p.Items, "Nest")
	if nest.Type != timeline.TypeNested {
		t.Errorf("Nest Type = %q, want %q", nest.Type, timeline.TypeNested)
	}
	if nest.StartTC != "00:00:11" || nest.EndTC != "00:00:13" {
		t.Errorf("Nest TC = [%s, %s], want [00:00:11, 00:00:13]", nest.StartTC, nest.EndTC)
	}

	// Overlapping children stack in lanes above the container's lane.
	n1 := findItem(t, p.Items, "n1.mp4")
	n2 := findItem(t, p.Items, "n2.mp4")
	if n1.SourceSequence != "Nest" || n2.SourceSequence != "Nest" {
		t.Errorf("children SourceSequence = %q/%q, want Nest", n1.SourceSequence, n2.SourceSequence)
	}
	if n1.Track == n2.Track {
		t.Errorf("overlapping nested children share track %d", n1.Track)
	}
}

func TestBuildVisualizerPayload_ShortClipStretched(t *testing.T) {
	p := BuildVisualizerPayload(testResult())

	short := findItem(t, p.Items, "short.mp4")
	wantWidth := 1.0 / p.DurationSeconds * 100
	if math.Abs(short.WidthPercent-wantWidth) > 1e-9 {
		t.Errorf("short.mp4 WidthPercent = %v, want %v (one second display floor)",
			short.WidthPercent, wantWidth)
	}
}

func TestBuildVisualizerPayload_MinimumDuration(t *testing.T) {
	p := BuildVisualizerPayload(&timeline.Result{
		SequenceName: "Tiny",
		FPS:          25,
		PerInstance:  []timeline.ClipInstance{visInstance("only.mp4", 0, 2)},
	})
	if p.DurationSeconds != 10 {
		t.Errorf("DurationSeconds = %v, want minimum 10", p.DurationSeconds)
	}
}

func TestBuildVisualizerPayload_Empty(t *testing.T) {
	p := BuildVisualizerPayload(&timeline.Result{SequenceName: "Empty", FPS: 25})
	if p.DurationSeconds != 10 {
		t.Errorf("DurationSeconds = %v, want 10", p.DurationSeconds)
	}
	if len(p.Items) != 0 {
		t.Errorf("Items = %+v, want none", p.Items)
	}
	if p.VideoTracks != 0 {
		t.Errorf("VideoTracks = %d, want 0", p.VideoTracks)
	}
}
