// Package document defines the shared data model produced by format decoders
// and carried through the extraction pipeline.
package document

// Metadata is a free-form key-value map attached to extraction results.
// Values must be JSON-serializable: results cross the plugin boundary as JSON.
type Metadata map[string]any

// Table is a tabular region extracted from a document.
type Table struct {
	Cells      [][]string `json:"cells"`
	Markdown   string     `json:"markdown,omitempty"`
	PageNumber int        `json:"page_number,omitempty"` // 1-indexed, 0 when unknown
}

// Image is an embedded image extracted from a document. Data is base64-encoded
// so the image survives the JSON plugin boundary intact.
type Image struct {
	Data       string `json:"data"`
	Format     string `json:"format,omitempty"` // "png", "jpeg", ...
	ImageIndex int    `json:"image_index"`
	PageNumber int    `json:"page_number,omitempty"`
	Width      int    `json:"width,omitempty"`
	Height     int    `json:"height,omitempty"`
}

// PageBoundary marks the byte range a page occupies within the full content
// string. Offsets are UTF-8 byte offsets, ByteStart inclusive, ByteEnd exclusive.
type PageBoundary struct {
	PageNumber int `json:"page_number"` // 1-indexed
	ByteStart  int `json:"byte_start"`
	ByteEnd    int `json:"byte_end"`
}

// PageContent is the text of a single page, used for unified output with page
// tracking enabled.
type PageContent struct {
	PageNumber int    `json:"page_number"`
	Content    string `json:"content"`
}

// Raw is the output of a format decoder before the pipeline's later stages run.
type Raw struct {
	Content  string   `json:"content"`
	MimeType string   `json:"mime_type"`
	Title    string   `json:"title,omitempty"`
	Metadata Metadata `json:"metadata,omitempty"`
	Tables   []Table  `json:"tables,omitempty"`
	Images   []Image  `json:"images,omitempty"`

	// Pages carries per-page byte ranges into Content when the decoder is
	// page-aware (PDF). Nil for pageless formats.
	Pages []PageBoundary `json:"pages,omitempty"`

	// Quality signals the decoder can observe cheaply during decoding.
	PageCount       int  `json:"page_count,omitempty"`
	HasImageStreams bool `json:"has_image_streams,omitempty"`
}
