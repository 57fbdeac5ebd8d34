package extract

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/hazyhaar/docintel/document"
	"github.com/hazyhaar/docintel/mimetype"
)

// TextDecoder handles plain text. Invalid UTF-8 bytes are replaced with the
// replacement character instead of failing the document.
type TextDecoder struct{}

func (d *TextDecoder) MimeTypes() []string {
	return []string{mimetype.Plain}
}

func (d *TextDecoder) Decode(ctx context.Context, data []byte, filename string) (*document.Raw, error) {
	content := string(data)
	if !utf8.ValidString(content) {
		content = strings.ToValidUTF8(content, string(utf8.RuneError))
	}
	return &document.Raw{
		Content:  content,
		MimeType: mimetype.Plain,
		Title:    firstLine(content),
	}, nil
}
