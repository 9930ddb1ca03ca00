package timeline

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/clipsheet/clipsheet-agent/internal/source"
)

func findInstance(t *testing.T, instances []ClipInstance, name string) ClipInstance {
	t.Helper()
	for _, in := range instances {
		if in.Name == name {
			return in
		}
	}
	t.Fatalf("instance %q not found in %+v", name, instances)
	return ClipInstance{}
}

func TestExtract(t *testing.T) {
	g := loadFixture(t, timelineXML)

	res, err := NewExtractor(g, nil).Extract("Main", Options{})
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	if res.SequenceName != "Main" {
		t.Errorf("SequenceName = %q, want Main", res.SequenceName)
	}
	if res.FPS != 25 {
		t.Errorf("FPS = %v, want 25", res.FPS)
	}
	if res.TicksPerFrame != 10160640 {
		t.Errorf("TicksPerFrame = %d, want 10160640", res.TicksPerFrame)
	}
	if len(res.Warnings) != 0 {
		t.Errorf("Warnings = %v, want none", res.Warnings)
	}

	// Container placements never appear in the per-instance view.
	if len(res.PerInstance) != 4 {
		t.Fatalf("got %d instances, want 4: %+v", len(res.PerInstance), res.PerInstance)
	}
	for _, in := range res.PerInstance {
		if in.Name == "Nested Seq" {
			t.Error("container row leaked into per-instance view")
		}
	}

	img := findInstance(t, res.PerInstance, "IMG_12345")
	if img.StartTC != "00:00:00" || img.EndTC != "00:00:05" {
		t.Errorf("IMG_12345 TC = [%s, %s], want [00:00:00, 00:00:05]", img.StartTC, img.EndTC)
	}
	if img.Type != TypeVideo {
		t.Errorf("IMG_12345 Type = %q, want %q", img.Type, TypeVideo)
	}
	if img.Source != source.ProviderImago || img.MediaID != "12345" {
		t.Errorf("IMG_12345 source = %q/%q, want Imago/12345", img.Source, img.MediaID)
	}

	inner := findInstance(t, res.PerInstance, "inner.mp4")
	if math.Abs(inner.StartSec-1.0) > 1e-9 {
		t.Errorf("inner.mp4 StartSec = %v, want 1.0", inner.StartSec)
	}
	if inner.StartTC != "00:00:01" {
		t.Errorf("inner.mp4 StartTC = %q, want 00:00:01", inner.StartTC)
	}
	if inner.SourceSequence != "Nested Seq" {
		t.Errorf("inner.mp4 SourceSequence = %q, want Nested Seq", inner.SourceSequence)
	}

	voice := findInstance(t, res.PerInstance, "voiceover.wav")
	if voice.Type != TypeAudio || !voice.IsAudio {
		t.Errorf("voiceover.wav Type = %q IsAudio = %v, want Audio/true", voice.Type, voice.IsAudio)
	}

	// blip.mp4 lasts 0.04s and gets stretched to the one second minimum.
	blip := findInstance(t, res.PerInstance, "blip.mp4")
	if blip.StartTC != "00:00:08" || blip.EndTC != "00:00:09" {
		t.Errorf("blip.mp4 TC = [%s, %s], want [00:00:08, 00:00:09]", blip.StartTC, blip.EndTC)
	}
}

func TestExtract_UnknownSequence(t *testing.T) {
	g := loadFixture(t, timelineXML)

	_, err := NewExtractor(g, nil).Extract("Nope", Options{})
	if err == nil {
		t.Fatal("Extract() succeeded on unknown sequence")
	}
}

func TestExtract_CyclicNesting(t *testing.T) {
	g := loadFixture(t, cyclicXML)

	_, err := NewExtractor(g, nil).Extract("Loop", Options{})
	if !errors.Is(err, ErrCyclicNesting) {
		t.Errorf("Extract() error = %v, want ErrCyclicNesting", err)
	}
}

func TestExtract_CapSeconds(t *testing.T) {
	g := loadFixture(t, timelineXML)

	res, err := NewExtractor(g, nil).Extract("Main", Options{CapSeconds: 2})
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	if len(res.PerInstance) != 3 {
		t.Fatalf("got %d instances, want 3 (blip.mp4 starts past the cap): %+v",
			len(res.PerInstance), res.PerInstance)
	}
	for _, in := range res.PerInstance {
		if in.EndSec > 2 {
			t.Errorf("%s EndSec = %v, want clamped to 2", in.Name, in.EndSec)
		}
	}
}

func TestExtract_FPSOverride(t *testing.T) {
	g := loadFixture(t, timelineXML)

	res, err := NewExtractor(g, nil).Extract("Main", Options{FPSOverride: 50})
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if res.FPS != 50 {
		t.Errorf("FPS = %v, want 50", res.FPS)
	}

	// 125 frames at 50fps is 2.5 seconds.
	img := findInstance(t, res.PerInstance, "IMG_12345")
	if math.Abs(img.EndSec-2.5) > 1e-9 {
		t.Errorf("IMG_12345 EndSec = %v, want 2.5", img.EndSec)
	}
}

func TestExtract_MissingFrameRate(t *testing.T) {
	g := loadFixture(t, `<PremiereData Version="3">
		<Sequence ObjectID="s1">
			<Name>NoRate</Name>
			<TrackGroups><TrackGroup><Second ObjectRef="tg1"/></TrackGroup></TrackGroups>
		</Sequence>
		<VideoTrackGroup ObjectID="tg1">
			<Tracks><Track ObjectRef="t1"/></Tracks>
		</VideoTrackGroup>
		<VideoClipTrack ObjectID="t1">
			<ClipItems><Item ObjectRef="i1"/></ClipItems>
		</VideoClipTrack>
		<VideoClipTrackItem ObjectID="i1">
			<Name>clip.mp4</Name>
			<Start>0</Start>
			<End>1059458400</End>
		</VideoClipTrackItem>
	</PremiereData>`)

	res, err := NewExtractor(g, nil).Extract("NoRate", Options{})
	if err != nil {
		t.Fatalf("Extract() error = %v, want warning-only fallback", err)
	}
	if len(res.Warnings) != 1 || !strings.Contains(res.Warnings[0], "frame rate") {
		t.Errorf("Warnings = %v, want one frame rate warning", res.Warnings)
	}
	if res.TicksPerFrame != 10594584 {
		t.Errorf("TicksPerFrame = %d, want 10594584 fallback", res.TicksPerFrame)
	}
	if len(res.PerInstance) != 1 {
		t.Errorf("got %d instances, want 1", len(res.PerInstance))
	}
}

func TestExtract_SkipsUnnamedClips(t *testing.T) {
	g := loadFixture(t, `<PremiereData Version="3">
		<Sequence ObjectID="s1">
			<Name>Unnamed</Name>
			<TrackGroups><TrackGroup><Second ObjectRef="tg1"/></TrackGroup></TrackGroups>
		</Sequence>
		<VideoTrackGroup ObjectID="tg1">
			<TrackGroup><FrameRate>10160640</FrameRate></TrackGroup>
			<Tracks><Track ObjectRef="t1"/></Tracks>
		</VideoTrackGroup>
		<VideoClipTrack ObjectID="t1">
			<ClipItems>
				<Item ObjectRef="i1"/>
				<Item ObjectRef="i2"/>
				<Item ObjectRef="i3"/>
			</ClipItems>
		</VideoClipTrack>
		<VideoClipTrackItem ObjectID="i1">
			<Name>&lt;unnamed-3&gt;</Name>
			<Start>0</Start>
			<End>254016000</End>
		</VideoClipTrackItem>
		<VideoClipTrackItem ObjectID="i2">
			<Start>0</Start>
			<End>254016000</End>
		</VideoClipTrackItem>
		<VideoClipTrackItem ObjectID="i3">
			<Name>kept.mp4</Name>
			<Start>0</Start>
			<End>254016000</End>
		</VideoClipTrackItem>
	</PremiereData>`)

	res, err := NewExtractor(g, nil).Extract("Unnamed", Options{})
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if len(res.PerInstance) != 1 || res.PerInstance[0].Name != "kept.mp4" {
		t.Errorf("PerInstance = %+v, want only kept.mp4", res.PerInstance)
	}
}

func TestExtract_DedupesDuplicatePlacements(t *testing.T) {
	// The same item referenced from two tracks lands at identical timecodes
	// and collapses into one instance with a count of two.
	g := loadFixture(t, `<PremiereData Version="3">
		<Sequence ObjectID="s1">
			<Name>Doubled</Name>
			<TrackGroups><TrackGroup><Second ObjectRef="tg1"/></TrackGroup></TrackGroups>
		</Sequence>
		<VideoTrackGroup ObjectID="tg1">
			<TrackGroup><FrameRate>10160640</FrameRate></TrackGroup>
			<Tracks>
				<Track ObjectRef="t1"/>
				<Track ObjectRef="t2"/>
			</Tracks>
		</VideoTrackGroup>
		<VideoClipTrack ObjectID="t1">
			<ClipItems><Item ObjectRef="i1"/></ClipItems>
		</VideoClipTrack>
		<VideoClipTrack ObjectID="t2">
			<ClipItems><Item ObjectRef="i2"/></ClipItems>
		</VideoClipTrack>
		<VideoClipTrackItem ObjectID="i1">
			<Name>twice.mp4</Name>
			<Start>0</Start>
			<End>508032000</End>
		</VideoClipTrackItem>
		<VideoClipTrackItem ObjectID="i2">
			<Name>twice.mp4</Name>
			<Start>0</Start>
			<End>508032000</End>
		</VideoClipTrackItem>
	</PremiereData>`)

	res, err := NewExtractor(g, nil).Extract("Doubled", Options{})
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if len(res.PerInstance) != 1 {
		t.Fatalf("got %d instances, want 1: %+v", len(res.PerInstance), res.PerInstance)
	}
	if res.PerInstance[0].InstanceCount != 2 {
		t.Errorf("InstanceCount = %d, want 2", res.PerInstance[0].InstanceCount)
	}
}
