// Package source recognizes stock-footage providers from clip names.
//
// Providers are a fixed, enumerable set, so recognition is an ordered
// registry of patterns tried first-match-wins rather than open-ended
// dispatch. The registry is compiled once at package init and never mutated.
package source

import (
	"regexp"
	"strings"
)

// Provider identifies a recognized stock-footage source.
type Provider string

const (
	ProviderNone      Provider = ""
	ProviderImago     Provider = "Imago"
	ProviderColourbox Provider = "Colourbox"
	ProviderArtlist   Provider = "Artlist"
)

// Match holds the result of provider recognition. The zero value means no
// provider matched; that is never an error.
type Match struct {
	Provider Provider `json:"source,omitempty"`
	MediaID  string   `json:"media_id,omitempty"`
	Title    string   `json:"title,omitempty"`
}

type rule struct {
	provider Provider
	re       *regexp.Regexp
}

// Recognition order is fixed: Imago, Colourbox, then the two Artlist naming
// conventions. Each pattern captures the media id in group 1 and an optional
// underscore-delimited title in group 2.
var registry = []rule{
	{ProviderImago, regexp.MustCompile(`(?i)(?:imago|img)[_-]?(\d+)(?:_([^.]+))?`)},
	{ProviderColourbox, regexp.MustCompile(`(?i)colourbox[_-]?(\d+[0-9a-z]*)(?:_([^.]+))?`)},
	{ProviderArtlist, regexp.MustCompile(`(?i)(\d+)_(.*?)_(?:by|from)_.*_artlist`)},
	{ProviderArtlist, regexp.MustCompile(`(?i)stockclip[_-]?(\d+)(?:_([^.]+))?`)},
}

// Resolve matches a clip name against the provider registry. The first
// matching pattern wins; no match returns the zero Match.
func Resolve(clipName string) Match {
	if clipName == "" {
		return Match{}
	}

	for _, r := range registry {
		m := r.re.FindStringSubmatch(clipName)
		if m == nil {
			continue
		}
		match := Match{Provider: r.provider, MediaID: m[1]}
		if len(m) > 2 && m[2] != "" {
			match.Title = cleanTitle(m[2])
		}
		return match
	}

	return Match{}
}

// cleanTitle turns an underscore-delimited name suffix into a readable title.
func cleanTitle(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, "_", " "))
}
