package timeline

import (
	"fmt"
	"log/slog"
	"path"
	"strings"

	"github.com/clipsheet/clipsheet-agent/internal/project"
)

// Walker flattens one sequence of a project graph into raw clip placements.
// Each Walk call is independent; a Walker holds no per-walk state.
type Walker struct {
	graph  *project.Graph
	logger *slog.Logger
}

func NewWalker(g *project.Graph, logger *slog.Logger) *Walker {
	return &Walker{graph: g, logger: logger}
}

// walkState carries the mutable state of one Walk call: the collected
// placements, recoverable warnings, and the set of sequences currently on
// the recursion path (for cycle detection).
type walkState struct {
	placements []RawPlacement
	warnings   []string
	inProgress map[*project.Node]bool
}

func (s *walkState) warnf(format string, args ...any) {
	s.warnings = append(s.warnings, fmt.Sprintf(format, args...))
}

// trackItem holds the fields read off one TrackItem object.
type trackItem struct {
	node           *project.Node
	name           string
	start, end     int64
	hasStart       bool
	hasEnd         bool
	duration       int64
	hasDuration    bool
	sequenceRef    string
	sourcePath     string
	sourceFilename string
	mediaKind      string
}

// Walk flattens the sequence depth-first into placements on its own tick
// timeline. Nested sequences are expanded recursively: child ticks are
// shifted by the referencing item's start and clamped to its bound, and
// every descendant placement is stamped with the nested sequence's name.
// Dangling references are skipped and reported as warnings; cyclic nesting
// aborts the walk with ErrCyclicNesting.
func (w *Walker) Walk(seq *project.Node) ([]RawPlacement, []string, error) {
	state := &walkState{inProgress: make(map[*project.Node]bool)}
	if err := w.walkSequence(seq, state, 0, -1, ""); err != nil {
		return nil, state.warnings, err
	}
	if w.logger != nil {
		w.logger.Debug("sequence flattened",
			"sequence", seq.Name(),
			"placements", len(state.placements),
			"warnings", len(state.warnings),
		)
	}
	return state.placements, state.warnings, nil
}

// walkSequence appends the sequence's placements to state. offset shifts all
// ticks into the top-level timeline; bound (when >= 0) clamps children to the
// referencing item's extent.
func (w *Walker) walkSequence(seq *project.Node, state *walkState, offset, bound int64, sourceSeq string) error {
	if state.inProgress[seq] {
		return fmt.Errorf("%w: sequence %q references itself", ErrCyclicNesting, seq.Name())
	}
	state.inProgress[seq] = true
	defer delete(state.inProgress, seq)

	groups, missing := w.graph.TrackGroupsForSequence(seq)
	for _, ref := range missing {
		state.warnf("track group %q not found in sequence %q, skipped", ref, seq.Name())
	}

	for _, group := range groups {
		isAudio := group.IsAudio()
		trackIndex := 0
		for _, track := range w.tracksForGroup(group, state) {
			items := w.itemsForTrack(track, state)
			for _, item := range items {
				if err := w.placeItem(item, state, offset, bound, sourceSeq, trackIndex, isAudio); err != nil {
					return err
				}
			}
			trackIndex++
		}
	}
	return nil
}

// tracksForGroup resolves the group's ordered track references. Premiere
// lists video tracks bottom-up and audio tracks top-down, which matches the
// editor's visual stacking, so indices are assigned in declaration order.
func (w *Walker) tracksForGroup(group *project.Node, state *walkState) []*project.Node {
	var tracks []*project.Node
	seen := make(map[*project.Node]bool)

	group.Each(func(n *project.Node) {
		if !strings.EqualFold(n.Tag, "Tracks") {
			return
		}
		for _, tr := range n.Children {
			if !strings.EqualFold(tr.Tag, "Track") {
				continue
			}
			ref := tr.Ref()
			if ref == "" {
				continue
			}
			track, err := w.graph.Resolve(ref)
			if err != nil {
				state.warnf("track %q not found, skipped", ref)
				continue
			}
			if !seen[track] {
				seen[track] = true
				tracks = append(tracks, track)
			}
		}
	})
	return tracks
}

// itemsForTrack collects the track's TrackItem objects in placement order.
func (w *Walker) itemsForTrack(track *project.Node, state *walkState) []trackItem {
	var items []trackItem
	seen := make(map[*project.Node]bool)

	track.Each(func(n *project.Node) {
		if !strings.EqualFold(n.Tag, "TrackItems") && !strings.EqualFold(n.Tag, "ClipItems") {
			return
		}
		for _, entry := range n.Children {
			ref := entry.Ref()
			if ref == "" {
				continue
			}
			node, err := w.graph.Resolve(ref)
			if err != nil {
				state.warnf("track item %q not found, skipped", ref)
				continue
			}
			if seen[node] {
				continue
			}
			seen[node] = true
			items = append(items, w.readTrackItem(node))
		}
	})
	return items
}

// readTrackItem pulls timing, naming and reference fields off a TrackItem
// subtree. Field names vary across project versions, so several synonyms are
// accepted for each.
func (w *Walker) readTrackItem(node *project.Node) trackItem {
	item := trackItem{node: node}
	var subclipRef string

	node.Each(func(d *project.Node) {
		tag := strings.ToLower(d.Tag)
		text := strings.TrimSpace(d.Text)

		switch tag {
		case "name":
			if item.name == "" && text != "" {
				item.name = text
			}
		case "start", "in", "inpoint":
			if v, ok := project.ParseTicks(text); ok && !item.hasStart {
				item.start, item.hasStart = v, true
			}
		case "end", "outpoint":
			if v, ok := project.ParseTicks(text); ok && !item.hasEnd {
				item.end, item.hasEnd = v, true
			}
		case "duration", "length":
			if v, ok := project.ParseTicks(text); ok && !item.hasDuration {
				item.duration, item.hasDuration = v, true
			}
		case "mediatype":
			if item.mediaKind == "" {
				item.mediaKind = strings.ToLower(text)
			}
		case "subclip":
			if r := d.Ref(); r != "" && subclipRef == "" {
				subclipRef = r
			}
		case "sequencesource":
			for _, c := range d.Children {
				if strings.EqualFold(c.Tag, "Sequence") && c.ObjectURef != "" {
					item.sequenceRef = c.ObjectURef
				}
			}
		case "sequence":
			if d.ObjectURef != "" {
				item.sequenceRef = d.ObjectURef
			}
		default:
			if isPathTag(tag) && looksLikePath(text) {
				item.sourcePath = text
				item.sourceFilename = baseName(text)
			}
		}
	})

	// Structural track items often carry no name of their own; fall back to
	// the referenced SubClip, then its MasterClip.
	if item.name == "" && subclipRef != "" {
		if sc, err := w.graph.Resolve(subclipRef); err == nil {
			w.fillFromClip(sc, &item)
			if item.name == "" {
				masterRef := sc.ObjectURef
				for _, c := range sc.Children {
					if strings.EqualFold(c.Tag, "MasterClip") && c.ObjectURef != "" {
						masterRef = c.ObjectURef
					}
				}
				if masterRef != "" {
					if mc, err := w.graph.Resolve(masterRef); err == nil {
						w.fillFromClip(mc, &item)
					}
				}
			}
		}
	}

	return item
}

// fillFromClip copies name and path fields from a SubClip or MasterClip
// subtree into the item where still missing.
func (w *Walker) fillFromClip(clip *project.Node, item *trackItem) {
	clip.Each(func(d *project.Node) {
		tag := strings.ToLower(d.Tag)
		text := strings.TrimSpace(d.Text)
		if tag == "name" && item.name == "" && text != "" {
			item.name = text
		}
		if isPathTag(tag) && item.sourcePath == "" && looksLikePath(text) {
			item.sourcePath = text
			item.sourceFilename = baseName(text)
		}
	})
}

// placeItem translates one track item into the parent timeline, expanding
// nested sequences recursively.
func (w *Walker) placeItem(item trackItem, state *walkState, offset, bound int64, sourceSeq string, trackIndex int, isAudio bool) error {
	if !item.hasStart {
		// Structural entries without a start are not placements.
		return nil
	}
	end := item.end
	if !item.hasEnd {
		if !item.hasDuration {
			return nil
		}
		end = item.start + item.duration
	}

	absStart := offset + item.start
	absEnd := offset + end

	nested := w.nestedSequenceFor(item)
	if nested != nil {
		name := nested.Name()
		state.placements = append(state.placements, RawPlacement{
			Name:           name,
			StartTicks:     absStart,
			EndTicks:       absEnd,
			SourceSequence: sourceSeq,
			TrackIndex:     trackIndex,
			IsAudio:        isAudio,
			IsContainer:    true,
		})
		return w.walkSequence(nested, state, absStart, absEnd, name)
	}

	if bound >= 0 {
		if absStart >= bound {
			return nil
		}
		if absEnd > bound {
			absEnd = bound
		}
		if absEnd <= absStart {
			return nil
		}
	}

	state.placements = append(state.placements, RawPlacement{
		Name:           item.name,
		StartTicks:     absStart,
		EndTicks:       absEnd,
		SourceSequence: sourceSeq,
		SourcePath:     item.sourcePath,
		SourceFilename: item.sourceFilename,
		MediaKind:      item.mediaKind,
		TrackIndex:     trackIndex,
		IsAudio:        isAudio,
	})
	return nil
}

// nestedSequenceFor resolves the sequence a track item is a container for:
// by explicit reference first, then by the item's name matching a named
// sequence (older project versions drop the reference).
func (w *Walker) nestedSequenceFor(item trackItem) *project.Node {
	if item.sequenceRef != "" {
		if n, err := w.graph.Resolve(item.sequenceRef); err == nil && n.IsSequence() {
			return n
		}
	}
	if item.name != "" {
		if n, err := w.graph.SequenceByName(item.name); err == nil {
			return n
		}
	}
	return nil
}

var pathTags = map[string]bool{
	"pathurl": true, "path": true, "filepath": true, "mediaurl": true,
	"mediafile": true, "fullpath": true, "filename": true, "url": true,
	"title": true, "actualmediafilepath": true, "relativepath": true,
	"filekey": true,
}

func isPathTag(tag string) bool {
	return pathTags[tag]
}

func looksLikePath(s string) bool {
	return s != "" && (strings.ContainsAny(s, `/\`) || strings.Contains(s, "."))
}

func baseName(p string) string {
	p = strings.ReplaceAll(p, `\`, "/")
	return path.Base(p)
}
