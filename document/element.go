package document

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// ElementType classifies a semantic element. The set is closed: downstream
// consumers switch over it exhaustively.
type ElementType string

const (
	ElementTitle         ElementType = "title"
	ElementNarrativeText ElementType = "narrative_text"
	ElementHeading       ElementType = "heading"
	ElementListItem      ElementType = "list_item"
	ElementTable         ElementType = "table"
	ElementImage         ElementType = "image"
	ElementPageBreak     ElementType = "page_break"
	ElementCodeBlock     ElementType = "code_block"
	ElementBlockQuote    ElementType = "block_quote"
	ElementHeader        ElementType = "header"
	ElementFooter        ElementType = "footer"
)

// BoundingBox holds element coordinates when the source format provides them.
type BoundingBox struct {
	X0 float64 `json:"x0"`
	Y0 float64 `json:"y0"`
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
}

// ElementMetadata carries position and origin information for an element.
type ElementMetadata struct {
	PageNumber   int               `json:"page_number,omitempty"` // 1-indexed, 0 when unknown
	Coordinates  *BoundingBox      `json:"coordinates,omitempty"`
	ElementIndex int               `json:"element_index"`
	Additional   map[string]string `json:"additional,omitempty"`
}

// Element is one semantic unit of a document in element-based output mode.
// Elements are built once during output assembly and immutable afterwards.
type Element struct {
	ElementID   string          `json:"element_id"`
	ElementType ElementType     `json:"element_type"`
	Text        string          `json:"text"`
	Metadata    ElementMetadata `json:"metadata"`
}

// NewElementID derives the deterministic identifier for an element from its type,
// text, and position. Identical input always yields the same ID, so element
// identity is stable across runs.
func NewElementID(typ ElementType, text string, page, index int) string {
	h := sha256.Sum256(fmt.Appendf(nil, "%s\x00%s\x00%d\x00%d", typ, text, page, index))
	return hex.EncodeToString(h[:16])
}
