// Package chunk splits extracted text into overlapping spans for retrieval and
// embedding workloads.
//
// The splitter scans forward emitting spans of up to MaxChars characters, then
// rewinds MaxOverlap characters for the next span's start. Offsets are byte
// offsets into the UTF-8 source and always land on rune boundaries. The union
// of all spans covers the source text exactly.
package chunk

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/hazyhaar/docintel/document"
	"github.com/hazyhaar/docintel/embedding"
)

// Options controls the split.
type Options struct {
	// MaxChars is the maximum characters (runes) per chunk. Default 1000.
	MaxChars int `json:"max_chars,omitempty" yaml:"max_chars,omitempty"`

	// MaxOverlap is the number of characters consecutive chunks share.
	// Clamped below MaxChars so every chunk makes forward progress.
	MaxOverlap int `json:"max_overlap,omitempty" yaml:"max_overlap,omitempty"`

	// Embed requests one embedding vector per chunk from the configured
	// embedder.
	Embed bool `json:"embed,omitempty" yaml:"embed,omitempty"`

	// Pages maps byte ranges of the source text to page numbers. When set,
	// each chunk records the first and last page it intersects.
	Pages []document.PageBoundary `json:"-" yaml:"-"`
}

func (o *Options) defaults() {
	if o.MaxChars <= 0 {
		o.MaxChars = 1000
	}
	if o.MaxOverlap < 0 {
		o.MaxOverlap = 0
	}
	if o.MaxOverlap >= o.MaxChars {
		o.MaxOverlap = o.MaxChars - 1
	}
}

// Chunk is one contiguous span of the source text.
type Chunk struct {
	Content     string    `json:"content"`
	ByteStart   int       `json:"byte_start"`
	ByteEnd     int       `json:"byte_end"`
	ChunkIndex  int       `json:"chunk_index"`
	TotalChunks int       `json:"total_chunks"`
	FirstPage   int       `json:"first_page,omitempty"` // 1-indexed, 0 when untracked
	LastPage    int       `json:"last_page,omitempty"`
	TokenCount  int       `json:"token_count,omitempty"`
	Embedding   []float32 `json:"embedding,omitempty"`
}

// Split divides text into chunks. Returns nil for empty text.
func Split(text string, opts Options) []Chunk {
	if text == "" {
		return nil
	}
	opts.defaults()

	// Rune-index to byte-offset table, so offsets never land inside a
	// multi-byte code point.
	offsets := make([]int, 0, len(text)+1)
	for i := range text {
		offsets = append(offsets, i)
	}
	offsets = append(offsets, len(text))
	nRunes := len(offsets) - 1

	var chunks []Chunk
	for start := 0; ; {
		end := min(start+opts.MaxChars, nRunes)
		byteStart, byteEnd := offsets[start], offsets[end]
		content := text[byteStart:byteEnd]
		chunks = append(chunks, Chunk{
			Content:    content,
			ByteStart:  byteStart,
			ByteEnd:    byteEnd,
			ChunkIndex: len(chunks),
			TokenCount: EstimateTokens(content),
		})
		if end == nRunes {
			break
		}
		start = end - opts.MaxOverlap
	}

	for i := range chunks {
		chunks[i].TotalChunks = len(chunks)
		if len(opts.Pages) > 0 {
			chunks[i].FirstPage, chunks[i].LastPage = pageRange(opts.Pages, chunks[i].ByteStart, chunks[i].ByteEnd)
		}
	}
	return chunks
}

// pageRange returns the lowest and highest page numbers whose byte ranges
// intersect [byteStart, byteEnd).
func pageRange(pages []document.PageBoundary, byteStart, byteEnd int) (first, last int) {
	for _, p := range pages {
		if p.ByteStart >= byteEnd || p.ByteEnd <= byteStart {
			continue
		}
		if first == 0 || p.PageNumber < first {
			first = p.PageNumber
		}
		if p.PageNumber > last {
			last = p.PageNumber
		}
	}
	return first, last
}

// CountTokens counts whitespace-separated tokens.
func CountTokens(text string) int {
	return len(strings.Fields(text))
}

// EstimateTokens approximates the LLM token count of text. Rough heuristic:
// one token per four characters.
func EstimateTokens(text string) int {
	n := len([]rune(text))
	if n == 0 {
		return 0
	}
	return (n + 3) / 4
}

// Splitter chunks text and optionally embeds the result in a single batch
// request.
type Splitter struct {
	embedder embedding.Embedder
	logger   *slog.Logger
}

// NewSplitter creates a Splitter. embedder may be nil when embeddings are
// never requested; logger defaults to slog.Default().
func NewSplitter(embedder embedding.Embedder, logger *slog.Logger) *Splitter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Splitter{embedder: embedder, logger: logger}
}

// Chunk splits text and, when opts.Embed is set, issues one EmbedBatch call
// for all chunk texts. An embedding failure is recoverable: the chunks are
// returned without embeddings alongside the error, so callers can annotate
// and continue rather than fail the document.
func (s *Splitter) Chunk(ctx context.Context, text string, opts Options) ([]Chunk, error) {
	chunks := Split(text, opts)
	if len(chunks) == 0 || !opts.Embed {
		return chunks, nil
	}
	if s.embedder == nil {
		return chunks, fmt.Errorf("embeddings requested but no embedder configured")
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Content
	}
	vecs, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		s.logger.Warn("embedding batch failed, chunks returned without vectors",
			"chunks", len(chunks), "error", err)
		return chunks, fmt.Errorf("embed %d chunks: %w", len(chunks), err)
	}
	if len(vecs) != len(chunks) {
		s.logger.Warn("embedder returned wrong vector count, chunks returned without vectors",
			"chunks", len(chunks), "vectors", len(vecs))
		return chunks, fmt.Errorf("embedder returned %d vectors for %d chunks", len(vecs), len(chunks))
	}
	for i := range chunks {
		chunks[i].Embedding = vecs[i]
	}
	return chunks, nil
}
