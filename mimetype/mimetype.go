// Package mimetype resolves the content type of raw document bytes, combining
// magic-byte sniffing with extension overrides for formats that sniff as
// generic containers (zip-based office documents, CSV vs plain text).
package mimetype

import (
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// Canonical mime types used across the pipeline.
const (
	PDF      = "application/pdf"
	DOCX     = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	XLSX     = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	HTML     = "text/html"
	Markdown = "text/markdown"
	CSV      = "text/csv"
	TSV      = "text/tab-separated-values"
	Plain    = "text/plain"
)

// extOverrides maps extensions to mime types that byte sniffing cannot
// distinguish reliably.
var extOverrides = map[string]string{
	".md":       Markdown,
	".markdown": Markdown,
	".csv":      CSV,
	".tsv":      TSV,
	".docx":     DOCX,
	".xlsx":     XLSX,
}

// Detect returns the mime type for data. filename may be empty; when present
// its extension resolves ambiguous sniffs.
func Detect(data []byte, filename string) string {
	detected := mimetype.Detect(data)
	mime := strings.Split(detected.String(), ";")[0]

	ext := strings.ToLower(filepath.Ext(filename))
	if override, ok := extOverrides[ext]; ok {
		// Trust the extension only when the bytes are compatible with it:
		// zip container for office formats, text for the rest.
		switch override {
		case DOCX, XLSX:
			if mime == "application/zip" || mime == override {
				return override
			}
		default:
			if strings.HasPrefix(mime, "text/") {
				return override
			}
		}
	}
	return mime
}

// Normalize strips parameters and maps aliases onto the canonical constants.
func Normalize(mime string) string {
	mime = strings.TrimSpace(strings.ToLower(strings.Split(mime, ";")[0]))
	switch mime {
	case "application/x-pdf":
		return PDF
	case "text/x-markdown":
		return Markdown
	case "application/xhtml+xml":
		return HTML
	}
	return mime
}
