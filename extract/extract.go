// Package extract decodes byte payloads of supported document formats into a
// normalized raw form (content plus tables, images and page boundaries). Each
// format has a Decoder; a Set routes a MIME type to the right one.
package extract

import (
	"context"
	"log/slog"
	"sort"

	"github.com/hazyhaar/docintel/document"
	"github.com/hazyhaar/docintel/mimetype"
)

// Decoder turns the bytes of one document format into a document.Raw.
type Decoder interface {
	// MimeTypes lists the canonical MIME types this decoder handles.
	MimeTypes() []string

	// Decode parses data. The filename is a hint only and may be empty.
	Decode(ctx context.Context, data []byte, filename string) (*document.Raw, error)
}

// Set routes MIME types to decoders.
type Set struct {
	byMime map[string]Decoder
	logger *slog.Logger
}

// NewSet returns a Set with all built-in decoders registered.
func NewSet(logger *slog.Logger) *Set {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Set{byMime: make(map[string]Decoder), logger: logger}
	s.Register(&PDFDecoder{logger: logger})
	s.Register(&DocxDecoder{})
	s.Register(&HTMLDecoder{})
	s.Register(&MarkdownDecoder{})
	s.Register(&CSVDecoder{})
	s.Register(&XLSXDecoder{})
	s.Register(&TextDecoder{})
	return s
}

// Register adds d for every MIME type it declares. Later registrations win,
// so callers can override built-ins.
func (s *Set) Register(d Decoder) {
	for _, mt := range d.MimeTypes() {
		s.byMime[mimetype.Normalize(mt)] = d
	}
}

// For returns the decoder for mime, if any.
func (s *Set) For(mime string) (Decoder, bool) {
	d, ok := s.byMime[mimetype.Normalize(mime)]
	return d, ok
}

// SupportedMimeTypes lists all routable MIME types, sorted.
func (s *Set) SupportedMimeTypes() []string {
	out := make([]string, 0, len(s.byMime))
	for mt := range s.byMime {
		out = append(out, mt)
	}
	sort.Strings(out)
	return out
}
