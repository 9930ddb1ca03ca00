package project

import "strings"

// Node is one element decoded from a Premiere project's XML object graph.
// Premiere serializes its objects as a flat-ish element tree where identity
// lives in ObjectID/ObjectUID attributes and cross-references live in
// ObjectRef/ObjectURef attributes (or element text). Nodes never own the
// objects they point at; every reference is resolved through the Graph index.
type Node struct {
	Tag        string
	ObjectID   string
	ObjectUID  string
	ObjectRef  string
	ObjectURef string
	Text       string
	Attrs      map[string]string
	Children   []*Node
}

// Kind is the coarse classification of a node within the object graph.
type Kind int

const (
	KindOther Kind = iota
	KindSequence
	KindTrackGroup
	KindTrack
	KindTrackItem
	KindMedia
)

// Kind classifies the node by its element tag. Premiere tag names vary in
// case across project versions, so matching is case-insensitive.
func (n *Node) Kind() Kind {
	switch strings.ToLower(n.Tag) {
	case "sequence":
		return KindSequence
	case "trackgroup", "videotrackgroup", "audiotrackgroup":
		return KindTrackGroup
	case "track", "videocliptrack", "audiocliptrack":
		return KindTrack
	case "trackitem", "clipitem", "videocliptrackitem", "audiocliptrackitem":
		return KindTrackItem
	case "media", "videomediasource", "audiomediasource":
		return KindMedia
	default:
		return KindOther
	}
}

// IsSequence reports whether the node is a Sequence object.
func (n *Node) IsSequence() bool {
	return n.Kind() == KindSequence
}

// IsAudio reports whether the node's tag marks it as audio-side
// (AudioTrackGroup, AudioClipTrack and friends).
func (n *Node) IsAudio() bool {
	return strings.Contains(strings.ToLower(n.Tag), "audio")
}

// Identifier returns the node's primary identifier: the ObjectUID when the
// object is globally addressed, otherwise the ObjectID.
func (n *Node) Identifier() string {
	if n.ObjectUID != "" {
		return n.ObjectUID
	}
	return n.ObjectID
}

// Ref returns the node's outgoing reference: the ObjectRef or ObjectURef
// attribute when set, otherwise its trimmed text. Premiere uses either form
// depending on file version.
func (n *Node) Ref() string {
	if n.ObjectRef != "" {
		return n.ObjectRef
	}
	if n.ObjectURef != "" {
		return n.ObjectURef
	}
	return n.Text
}

// Each walks the subtree rooted at n in document order, including n itself.
func (n *Node) Each(fn func(*Node)) {
	fn(n)
	for _, c := range n.Children {
		c.Each(fn)
	}
}

// FindDescendant returns the first descendant (excluding n) whose tag matches
// the given local name, case-insensitively.
func (n *Node) FindDescendant(tag string) *Node {
	var found *Node
	for _, c := range n.Children {
		c.Each(func(d *Node) {
			if found == nil && strings.EqualFold(d.Tag, tag) {
				found = d
			}
		})
		if found != nil {
			return found
		}
	}
	return nil
}

// FindText returns the trimmed text of the first matching descendant, or "".
func (n *Node) FindText(tag string) string {
	if d := n.FindDescendant(tag); d != nil {
		return strings.TrimSpace(d.Text)
	}
	return ""
}

// Name returns the node's display name: the text of its first Name descendant.
func (n *Node) Name() string {
	return n.FindText("Name")
}
