// Package quality scores extraction output and decides whether a document
// needs an OCR pass, and normalizes extracted text.
package quality

import (
	"strings"
	"unicode"

	"github.com/hazyhaar/docintel/document"
)

// Report captures metrics about text extraction quality.
type Report struct {
	PageCount       int     `json:"page_count"`
	CharsPerPage    float64 `json:"chars_per_page"`
	PrintableRatio  float64 `json:"printable_ratio"`
	WordlikeRatio   float64 `json:"wordlike_ratio"`
	HasImageStreams bool    `json:"has_image_streams"`
}

// NeedsOCR reports whether the document likely needs OCR to recover text:
// either near-empty pages alongside embedded images, or a text body dominated
// by unprintable glyphs.
func (r *Report) NeedsOCR() bool {
	return (r.CharsPerPage < 50 && r.HasImageStreams) || r.PrintableRatio < 0.85
}

// Assess computes a quality report for decoded content.
func Assess(raw *document.Raw) *Report {
	pages := raw.PageCount
	if pages <= 0 {
		pages = 1
	}
	return &Report{
		PageCount:       pages,
		CharsPerPage:    float64(len([]rune(raw.Content))) / float64(pages),
		PrintableRatio:  printableRatio(raw.Content),
		WordlikeRatio:   wordlikeRatio(raw.Content),
		HasImageStreams: raw.HasImageStreams || len(raw.Images) > 0,
	}
}

// printableRatio returns the ratio of printable characters in text.
// Excludes PUA U+E000-U+F8FF, control chars < U+0020 (except \n\r\t), U+FFFD.
func printableRatio(text string) float64 {
	if len(text) == 0 {
		return 1.0
	}
	total := 0
	printable := 0
	for _, r := range text {
		total++
		if isGarbageRune(r) {
			continue
		}
		if unicode.IsPrint(r) || r == '\n' || r == '\r' || r == '\t' {
			printable++
		}
	}
	if total == 0 {
		return 1.0
	}
	return float64(printable) / float64(total)
}

func isGarbageRune(r rune) bool {
	// Private Use Area
	if r >= 0xE000 && r <= 0xF8FF {
		return true
	}
	// Replacement character
	if r == 0xFFFD {
		return true
	}
	// Control chars except whitespace
	if r < 0x0020 && r != '\n' && r != '\r' && r != '\t' {
		return true
	}
	return false
}

// wordlikeRatio returns the ratio of word-like tokens (length 2-15) to total
// tokens. Character-by-character extraction failures score near zero.
func wordlikeRatio(text string) float64 {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return 0
	}
	wordlike := 0
	for _, f := range fields {
		n := len([]rune(f))
		if n >= 2 && n <= 15 {
			wordlike++
		}
	}
	return float64(wordlike) / float64(len(fields))
}

// Normalize strips garbage runes and collapses whitespace runs while keeping
// paragraph breaks. Byte offsets of the result feed the chunker, so the output
// is stable for identical input.
func Normalize(text string) string {
	var sb strings.Builder
	sb.Grow(len(text))
	newlines := 0
	spacePending := false
	for _, r := range text {
		if isGarbageRune(r) {
			continue
		}
		switch {
		case r == '\n':
			newlines++
			spacePending = false
		case unicode.IsSpace(r):
			if newlines == 0 {
				spacePending = true
			}
		default:
			if sb.Len() > 0 {
				if newlines >= 2 {
					sb.WriteString("\n\n")
				} else if newlines == 1 {
					sb.WriteByte('\n')
				} else if spacePending {
					sb.WriteByte(' ')
				}
			}
			newlines = 0
			spacePending = false
			sb.WriteRune(r)
		}
	}
	return strings.TrimSpace(sb.String())
}
