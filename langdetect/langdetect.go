// Package langdetect identifies the languages of extracted text.
package langdetect

import (
	"github.com/abadojack/whatlanggo"
)

// Detection is one language hypothesis.
type Detection struct {
	Language   string  `json:"language"` // ISO 639-1 code
	Confidence float64 `json:"confidence"`
}

// minConfidence filters out noise hypotheses on short or mixed text.
const minConfidence = 0.25

// Detect returns up to maxLanguages hypotheses, best first. The classifier
// emits one hypothesis per call, so secondary languages are found by
// re-running it with the already-detected languages masked out. Detection
// stops at the first hypothesis below minConfidence. Returns nil when the
// text is too short or ambiguous to classify.
func Detect(text string, maxLanguages int) []Detection {
	if maxLanguages <= 0 {
		maxLanguages = 1
	}
	found := make(map[whatlanggo.Lang]bool)
	var out []Detection
	for len(out) < maxLanguages {
		info := whatlanggo.DetectWithOptions(text, whatlanggo.Options{Blacklist: found})
		code := info.Lang.Iso6391()
		if code == "" || info.Confidence < minConfidence {
			break
		}
		out = append(out, Detection{Language: code, Confidence: info.Confidence})
		found[info.Lang] = true
	}
	return out
}

// Codes extracts just the language codes from detections.
func Codes(dets []Detection) []string {
	if len(dets) == 0 {
		return nil
	}
	codes := make([]string, len(dets))
	for i, d := range dets {
		codes[i] = d.Language
	}
	return codes
}
