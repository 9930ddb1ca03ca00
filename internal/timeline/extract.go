package timeline

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/clipsheet/clipsheet-agent/internal/project"
	"github.com/clipsheet/clipsheet-agent/internal/source"
	"github.com/clipsheet/clipsheet-agent/internal/timecode"
)

// fallbackTicksPerFrame is used when a sequence declares no frame rate: the
// raw rate value Premiere writes for 23.976 fps material.
const fallbackTicksPerFrame = 10594584

// Options tune one extraction call.
type Options struct {
	// FPSOverride replaces the detected frame rate when > 0.
	FPSOverride float64
	// CapSeconds drops instances starting at or beyond the cap and clamps
	// ends to it. 0 disables the cap.
	CapSeconds float64
}

// Extractor runs the full pipeline for one parsed project: walk a sequence,
// convert ticks to timecodes, classify, and aggregate. It is request-scoped;
// construct one per loaded graph and discard it with the graph.
type Extractor struct {
	graph  *project.Graph
	logger *slog.Logger
}

func NewExtractor(g *project.Graph, logger *slog.Logger) *Extractor {
	return &Extractor{graph: g, logger: logger}
}

// Extract processes the named sequence into the per-instance and grouped
// views. Fatal conditions (unknown sequence, cyclic nesting) return an
// error; recoverable ones (dangling references, missing frame rate) are
// returned as warnings beside the result.
func (e *Extractor) Extract(sequenceName string, opts Options) (*Result, error) {
	seq, err := e.graph.SequenceByName(sequenceName)
	if err != nil {
		return nil, err
	}
	return e.extract(seq, opts)
}

// ExtractByID is Extract addressed by sequence object identifier.
func (e *Extractor) ExtractByID(sequenceID string, opts Options) (*Result, error) {
	seq, err := e.graph.SequenceByID(sequenceID)
	if err != nil {
		return nil, err
	}
	return e.extract(seq, opts)
}

func (e *Extractor) extract(seq *project.Node, opts Options) (*Result, error) {
	var warnings []string

	ticksPerFrame := e.graph.FrameRateForSequence(seq)
	fps := timecode.DefaultFPS
	if ticksPerFrame == 0 {
		ticksPerFrame = fallbackTicksPerFrame
		warnings = append(warnings, fmt.Sprintf(
			"sequence %q declares no frame rate; assuming %.3f fps", seq.Name(), timecode.DefaultFPS))
	} else {
		detected, familiar := timecode.FPSFromRate(ticksPerFrame)
		fps = detected
		if !familiar {
			warnings = append(warnings, fmt.Sprintf(
				"unrecognized frame rate value %d; assuming %.3f fps", ticksPerFrame, timecode.DefaultFPS))
		}
	}
	if opts.FPSOverride > 0 {
		fps = opts.FPSOverride
	}

	if e.logger != nil {
		e.logger.Info("extracting sequence",
			"sequence", seq.Name(), "fps", fps, "ticks_per_frame", ticksPerFrame)
	}

	walker := NewWalker(e.graph, e.logger)
	placements, walkWarnings, err := walker.Walk(seq)
	if err != nil {
		return nil, err
	}
	warnings = append(warnings, walkWarnings...)

	classifier := NewClassifier(e.graph)
	typeByName := make(map[string]string)
	matchByName := make(map[string]source.Match)

	var instances []ClipInstance
	for _, p := range placements {
		if p.IsContainer {
			// Containers are surfaced through their children; the block
			// itself only appears in the visualizer payload.
			continue
		}
		if p.Name == "" || strings.HasPrefix(p.Name, "<unnamed-") {
			continue
		}

		startSec := timecode.SecondsFromTicks(p.StartTicks, ticksPerFrame, fps)
		endSec := timecode.SecondsFromTicks(p.EndTicks, ticksPerFrame, fps)
		if opts.CapSeconds > 0 {
			if startSec >= opts.CapSeconds {
				continue
			}
			if endSec > opts.CapSeconds {
				endSec = opts.CapSeconds
			}
		}
		if endSec <= startSec {
			continue
		}
		startSec, endSec = timecode.ClampMinimumDuration(startSec, endSec)

		clipType, ok := typeByName[p.Name]
		if !ok {
			clipType = classifier.Detect(p)
			typeByName[p.Name] = clipType
		}
		match, ok := matchByName[p.Name]
		if !ok {
			match = source.Resolve(p.Name)
			matchByName[p.Name] = match
		}

		instances = append(instances, ClipInstance{
			Name:           p.Name,
			Type:           clipType,
			StartSec:       startSec,
			EndSec:         endSec,
			StartTC:        timecode.FromSeconds(startSec),
			EndTC:          timecode.FromSeconds(endSec),
			SourceSequence: p.SourceSequence,
			TrackIndex:     p.TrackIndex,
			IsAudio:        p.IsAudio,
			Source:         match.Provider,
			MediaID:        match.MediaID,
			Title:          match.Title,
		})
	}

	perInstance, grouped := Aggregate(instances)

	return &Result{
		SequenceName:  seq.Name(),
		FPS:           fps,
		TicksPerFrame: ticksPerFrame,
		PerInstance:   perInstance,
		Grouped:       grouped,
		Warnings:      warnings,
	}, nil
}
