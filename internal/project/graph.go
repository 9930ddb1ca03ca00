// Package project loads Adobe Premiere Pro project files (.prproj or plain
// XML) into an identifier-indexed object graph. The graph is built once per
// extraction, is read-only after construction, and is owned exclusively by
// the request that created it.
package project

import (
	"fmt"
	"strings"
)

// SequenceInfo identifies one named sequence in the project.
type SequenceInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Graph is the parsed project: the XML root plus lookup indexes over every
// object identifier. Resolution of any cross-reference is a single map
// lookup.
type Graph struct {
	Root *Node

	byID      map[string]*Node
	byUID     map[string]*Node
	seqByName map[string]*Node
	sequences []*Node
	nodeCount int
}

// newGraph indexes every node of the tree. O(n) in object count.
func newGraph(root *Node) *Graph {
	g := &Graph{
		Root:      root,
		byID:      make(map[string]*Node),
		byUID:     make(map[string]*Node),
		seqByName: make(map[string]*Node),
	}

	root.Each(func(n *Node) {
		g.nodeCount++
		if n.ObjectID != "" {
			g.byID[n.ObjectID] = n
		}
		if n.ObjectUID != "" {
			g.byUID[n.ObjectUID] = n
		}
		if n.IsSequence() {
			if name := n.Name(); name != "" {
				if _, ok := g.seqByName[name]; !ok {
					g.seqByName[name] = n
				}
				g.sequences = append(g.sequences, n)
			}
		}
	})

	return g
}

// NodeCount returns the number of indexed objects.
func (g *Graph) NodeCount() int {
	return g.nodeCount
}

// Resolve looks an identifier up in both the ObjectID and ObjectUID
// namespaces. A miss wraps ErrDanglingReference; callers treat that as
// recoverable and skip the referencing item.
func (g *Graph) Resolve(id string) (*Node, error) {
	if n, ok := g.byID[id]; ok {
		return n, nil
	}
	if n, ok := g.byUID[id]; ok {
		return n, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrDanglingReference, id)
}

// Sequences lists the project's named sequences in document order.
func (g *Graph) Sequences() []SequenceInfo {
	out := make([]SequenceInfo, 0, len(g.sequences))
	for _, s := range g.sequences {
		out = append(out, SequenceInfo{ID: s.Identifier(), Name: s.Name()})
	}
	return out
}

// SequenceByName returns the sequence node with the given display name.
func (g *Graph) SequenceByName(name string) (*Node, error) {
	if s, ok := g.seqByName[strings.TrimSpace(name)]; ok {
		return s, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrSequenceNotFound, name)
}

// SequenceByID resolves a sequence by its object identifier.
func (g *Graph) SequenceByID(id string) (*Node, error) {
	n, err := g.Resolve(id)
	if err != nil {
		return nil, fmt.Errorf("%w: sequence %q", ErrSequenceNotFound, id)
	}
	if !n.IsSequence() {
		return nil, fmt.Errorf("%w: object %q is a %s", ErrSequenceNotFound, id, n.Tag)
	}
	return n, nil
}

// FrameRateForSequence finds the sequence's declared frame rate value.
// Premiere stores it on the sequence's track group objects: each TrackGroup
// entry carries a Second child referencing the group, and the group holds a
// FrameRate element whose value is the number of ticks per frame. Falls back
// to any FrameRate element in the project, then to 0 when none exists.
func (g *Graph) FrameRateForSequence(seq *Node) int64 {
	var rate int64
	seq.Each(func(n *Node) {
		if rate != 0 || !strings.EqualFold(n.Tag, "TrackGroup") {
			return
		}
		for _, child := range n.Children {
			if !strings.EqualFold(child.Tag, "Second") {
				continue
			}
			group, err := g.Resolve(child.Ref())
			if err != nil {
				continue
			}
			if txt := group.FindText("FrameRate"); txt != "" {
				if v, ok := ParseTicks(txt); ok && v > 0 {
					rate = v
					return
				}
			}
		}
	})
	if rate != 0 {
		return rate
	}

	g.Root.Each(func(n *Node) {
		if rate == 0 && strings.EqualFold(n.Tag, "FrameRate") && n.Text != "" {
			if v, ok := ParseTicks(n.Text); ok && v > 0 {
				rate = v
			}
		}
	})
	return rate
}

// TrackGroupsForSequence returns the sequence's track group objects in
// declaration order, resolved through the index. Unresolvable group
// references are reported in the second return value.
func (g *Graph) TrackGroupsForSequence(seq *Node) ([]*Node, []string) {
	var groups []*Node
	var missing []string
	seen := make(map[*Node]bool)

	seq.Each(func(n *Node) {
		if !strings.EqualFold(n.Tag, "TrackGroup") {
			return
		}
		for _, child := range n.Children {
			if !strings.EqualFold(child.Tag, "Second") {
				continue
			}
			ref := child.Ref()
			if ref == "" {
				continue
			}
			group, err := g.Resolve(ref)
			if err != nil {
				missing = append(missing, ref)
				continue
			}
			if !seen[group] {
				seen[group] = true
				groups = append(groups, group)
			}
		}
	})
	return groups, missing
}
