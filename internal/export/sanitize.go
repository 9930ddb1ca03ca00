package export

import (
	"strings"
	"unicode"
)

// SanitizeName strips control characters and replaces filesystem-hostile
// runes so a clip or sequence name is safe to embed in a filename.
func SanitizeName(s string, maxLen int) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsControl(r) {
			continue
		}
		if isAllowedNameRune(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}

	cleaned := strings.TrimSpace(b.String())
	if maxLen > 0 {
		runes := []rune(cleaned)
		if len(runes) > maxLen {
			cleaned = string(runes[:maxLen])
		}
	}
	return cleaned
}

func isAllowedNameRune(r rune) bool {
	if unicode.IsLetter(r) || unicode.IsDigit(r) {
		return true
	}
	switch r {
	case ' ', '-', '_', '.', ',', '(', ')':
		return true
	default:
		return false
	}
}

// TimelineCSVName builds the default export filename for a project and
// sequence: "<project>__<sequence>_timeline.csv".
func TimelineCSVName(projectBase, sequence string) string {
	seq := SanitizeName(sequence, 120)
	if seq == "" {
		seq = "sequence"
	}
	seq = strings.ReplaceAll(seq, " ", "_")
	return projectBase + "__" + seq + "_timeline.csv"
}
