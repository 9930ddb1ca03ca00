package timeline

import (
	"regexp"
	"strings"

	"github.com/clipsheet/clipsheet-agent/internal/project"
)

// Extension tables for clip type detection.
var (
	videoExts = extSet(".mp4", ".mov", ".mkv", ".avi", ".wmv", ".mxf", ".m2ts",
		".m2t", ".mts", ".mpeg", ".mpg", ".flv", ".webm", ".3gp", ".ogv")
	audioExts = extSet(".wav", ".mp3", ".aac", ".flac", ".aiff", ".m4a",
		".ogg", ".wma", ".alac")
	imageExts = extSet(".jpg", ".jpeg", ".png", ".tif", ".tiff", ".bmp",
		".gif", ".svg", ".heic", ".webp", ".psd", ".raw", ".exr")
	graphicExts = extSet(".aegraphic", ".mogrt", ".aep", ".aepx")
)

var graphicKeywords = []string{"graphic", "title", "caption", "overlay", "lowerthird", "grad"}
var graphicFolders = []string{"graphics", "templates", "motion graphics", "mogrt"}

var extPattern = regexp.MustCompile(`\.([a-z0-9]{2,20})(?:\b|$)`)
var spacePattern = regexp.MustCompile(`\s+`)

func extSet(exts ...string) map[string]bool {
	m := make(map[string]bool, len(exts))
	for _, e := range exts {
		m[e] = true
	}
	return m
}

// Classifier determines a clip's media type. Detection order: the explicit
// media kind from the project when present, then file extensions found in
// the clip's own filename/path/name, then name and folder heuristics, and
// finally a project-wide search for the clip name next to a recognizable
// extension.
type Classifier struct {
	graph *project.Graph
}

func NewClassifier(g *project.Graph) *Classifier {
	return &Classifier{graph: g}
}

// Detect classifies one clip. Container placements never reach here; they
// are typed TypeNested by the extraction pass.
func (c *Classifier) Detect(p RawPlacement) string {
	if t := typeFromMediaKind(p.MediaKind); t != TypeUnknown {
		return t
	}

	for _, candidate := range []string{p.SourceFilename, p.SourcePath, p.Name} {
		if candidate == "" {
			continue
		}
		if ext := findExtension(strings.ToLower(candidate)); ext != "" {
			if t := typeFromExtension(ext); t != TypeUnknown {
				return t
			}
		}
	}

	if p.Name != "" {
		lower := strings.ToLower(p.Name)
		for _, k := range graphicKeywords {
			if strings.Contains(lower, k) {
				return TypeGraphic
			}
		}
	}
	if p.SourcePath != "" {
		lower := strings.ToLower(p.SourcePath)
		for _, k := range graphicFolders {
			if strings.Contains(lower, k) {
				return TypeGraphic
			}
		}
	}

	if t := c.searchProject(p.Name); t != TypeUnknown {
		return t
	}
	return TypeUnknown
}

// searchProject scans every element's text for the clip name next to a file
// extension. Catches clips whose media reference lives elsewhere in the
// project than the track item subtree.
func (c *Classifier) searchProject(name string) string {
	if name == "" || c.graph == nil {
		return TypeUnknown
	}
	lname := strings.ToLower(name)

	found := TypeUnknown
	c.graph.Root.Each(func(n *project.Node) {
		if found != TypeUnknown || n.Text == "" {
			return
		}
		ltxt := spacePattern.ReplaceAllString(strings.ToLower(n.Text), " ")
		if !strings.Contains(ltxt, lname) || !strings.Contains(ltxt, ".") {
			return
		}
		if ext := findExtension(ltxt); ext != "" {
			if t := typeFromExtension(ext); t != TypeUnknown {
				found = t
			}
		}
	})
	return found
}

func typeFromMediaKind(kind string) string {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "video":
		return TypeVideo
	case "audio":
		return TypeAudio
	case "image", "still":
		return TypeImage
	default:
		return TypeUnknown
	}
}

func typeFromExtension(ext string) string {
	switch {
	case graphicExts[ext]:
		return TypeGraphic
	case audioExts[ext]:
		return TypeAudio
	case imageExts[ext]:
		return TypeImage
	case videoExts[ext]:
		return TypeVideo
	default:
		return TypeUnknown
	}
}

// findExtension pulls a dot-extension out of an arbitrary string, which may
// be a bare filename, a full path, or prose containing one.
func findExtension(s string) string {
	s = spacePattern.ReplaceAllString(s, " ")
	m := extPattern.FindStringSubmatch(s)
	if m == nil {
		return ""
	}
	return "." + m[1]
}
