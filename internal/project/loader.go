package project

import (
	"bytes"
	"compress/gzip"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// maxElementDepth bounds XML nesting. Real Premiere projects stay well below
// a hundred levels; anything deeper is treated as a hostile input.
const maxElementDepth = 256

// Load reads a .prproj (gzipped XML) or plain XML project file from disk and
// parses it into a Graph.
func Load(path string) (*Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read project file: %w", err)
	}
	return Parse(data)
}

// Parse decompresses and parses raw project bytes into a Graph. Inputs that
// are not gzip-compressed are assumed to be the XML payload itself.
func Parse(data []byte) (*Graph, error) {
	xmlData, err := decompress(data)
	if err != nil {
		return nil, err
	}

	root, err := parseXML(xmlData)
	if err != nil {
		return nil, err
	}

	if !strings.EqualFold(root.Tag, "PremiereData") {
		return nil, fmt.Errorf("%w: root element is <%s>, expected <PremiereData>", ErrUnsupportedFormat, root.Tag)
	}
	if root.Attrs["Version"] == "" {
		return nil, fmt.Errorf("%w: root element has no Version attribute", ErrUnsupportedFormat)
	}

	return newGraph(root), nil
}

// decompress unwraps the gzip container when present. Premiere saves .prproj
// files gzipped but exported XML copies of the same document are plain text.
func decompress(data []byte) ([]byte, error) {
	if len(data) < 2 || data[0] != 0x1f || data[1] != 0x8b {
		return data, nil
	}

	zr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: invalid gzip container: %v", ErrCorruptProject, err)
	}
	defer zr.Close()

	out, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("%w: gzip decompression failed: %v", ErrCorruptProject, err)
	}
	return out, nil
}

// parseXML builds the node tree from the XML payload. The decoder runs in
// strict mode, rejects DOCTYPE declarations (no entity expansion for
// user-uploaded input) and caps element depth.
func parseXML(data []byte) (*Node, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.Strict = true

	var root *Node
	var stack []*Node

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: malformed XML: %v", ErrCorruptProject, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if len(stack) >= maxElementDepth {
				return nil, fmt.Errorf("%w: element nesting exceeds %d levels", ErrCorruptProject, maxElementDepth)
			}
			node := newNode(t)
			if len(stack) == 0 {
				if root != nil {
					return nil, fmt.Errorf("%w: multiple root elements", ErrCorruptProject)
				}
				root = node
			} else {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, node)
			}
			stack = append(stack, node)

		case xml.EndElement:
			if len(stack) == 0 {
				return nil, fmt.Errorf("%w: unbalanced end element", ErrCorruptProject)
			}
			stack = stack[:len(stack)-1]

		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].Text += string(t)
			}

		case xml.Directive:
			if bytes.Contains(bytes.ToUpper(t), []byte("DOCTYPE")) {
				return nil, fmt.Errorf("%w: DOCTYPE declarations are not allowed", ErrCorruptProject)
			}
		}
	}

	if root == nil {
		return nil, fmt.Errorf("%w: empty document", ErrCorruptProject)
	}
	if len(stack) != 0 {
		return nil, fmt.Errorf("%w: unterminated element", ErrCorruptProject)
	}

	trimText(root)
	return root, nil
}

func newNode(se xml.StartElement) *Node {
	node := &Node{
		Tag:   se.Name.Local,
		Attrs: make(map[string]string, len(se.Attr)),
	}
	for _, a := range se.Attr {
		node.Attrs[a.Name.Local] = a.Value
		switch a.Name.Local {
		case "ObjectID":
			node.ObjectID = a.Value
		case "ObjectUID":
			node.ObjectUID = a.Value
		case "ObjectRef":
			node.ObjectRef = a.Value
		case "ObjectURef":
			node.ObjectURef = a.Value
		}
	}
	return node
}

func trimText(n *Node) {
	n.Text = strings.TrimSpace(n.Text)
	for _, c := range n.Children {
		trimText(c)
	}
}

// ParseTicks converts Premiere's textual tick values to int64. Some project
// versions serialize ticks as floats.
func ParseTicks(s string) (int64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return v, true
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int64(f), true
	}
	return 0, false
}
