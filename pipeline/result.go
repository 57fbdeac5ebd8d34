package pipeline

import (
	"encoding/json"
	"fmt"

	"github.com/hazyhaar/docintel/chunk"
	"github.com/hazyhaar/docintel/document"
	"github.com/hazyhaar/docintel/keywords"
)

// ExtractionResult is the final output for one document.
type ExtractionResult struct {
	// Content is the full extracted text. In element_based output it is the
	// concatenation of element texts.
	Content  string            `json:"content"`
	MimeType string            `json:"mime_type"`
	Title    string            `json:"title,omitempty"`
	Metadata document.Metadata `json:"metadata,omitempty"`

	Tables []document.Table `json:"tables,omitempty"`
	Images []document.Image `json:"images,omitempty"`

	// Chunks is populated when chunking is enabled.
	Chunks []chunk.Chunk `json:"chunks,omitempty"`

	// Keywords is populated when keyword extraction is enabled.
	Keywords []keywords.Keyword `json:"keywords,omitempty"`

	// Pages carries per-page text for page-aware formats.
	Pages []document.PageContent `json:"pages,omitempty"`

	// Elements is populated for element_based output.
	Elements []document.Element `json:"elements,omitempty"`

	// DetectedLanguages holds ISO 639-1 codes, most confident first.
	DetectedLanguages []string `json:"detected_languages,omitempty"`
}

// setMeta initializes the metadata map on first use.
func (r *ExtractionResult) setMeta(key string, value any) {
	if r.Metadata == nil {
		r.Metadata = document.Metadata{}
	}
	r.Metadata[key] = value
}

// encodeResult serializes a result for the plugin boundary. Post-processors
// and validators see this JSON form, never the live struct.
func encodeResult(r *ExtractionResult) (string, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return "", fmt.Errorf("encode result: %w", err)
	}
	return string(data), nil
}

// decodeResult parses a result coming back from a post-processor.
func decodeResult(s string) (*ExtractionResult, error) {
	var r ExtractionResult
	if err := json.Unmarshal([]byte(s), &r); err != nil {
		return nil, fmt.Errorf("decode result: %w", err)
	}
	return &r, nil
}
