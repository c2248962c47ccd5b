package llm

import (
	"strings"
)

// Markers the model sometimes emits despite instructions. Role labels are
// stripped from the front of the text; garbage markers are removed anywhere.
var roleLabels = []string{
	"점장:",
	"답안:",
	"assistant:",
	"Assistant:",
}

var garbageMarkers = []string{
	"[답안]",
	"답:",
	"*주의*",
	"Note:",
	"비고:",
	"시스템:",
	"user:",
	"assistant:",
}

// CleanPitch normalizes raw model output into the plain pitch returned to
// callers: leading role labels dropped, reserved markers removed, whitespace
// collapsed at the edges.
func CleanPitch(raw string) string {
	text := strings.TrimSpace(raw)

	for stripped := true; stripped; {
		stripped = false
		for _, label := range roleLabels {
			if strings.HasPrefix(text, label) {
				text = strings.TrimSpace(strings.TrimPrefix(text, label))
				stripped = true
			}
		}
	}

	for _, marker := range garbageMarkers {
		text = strings.ReplaceAll(text, marker, "")
	}

	return strings.TrimSpace(text)
}
