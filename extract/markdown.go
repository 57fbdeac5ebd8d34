package extract

import (
	"context"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/hazyhaar/docintel/document"
	"github.com/hazyhaar/docintel/mimetype"
)

// MarkdownDecoder passes markdown through as-is and lifts the first heading
// as the document title via the goldmark AST.
type MarkdownDecoder struct{}

func (d *MarkdownDecoder) MimeTypes() []string {
	return []string{mimetype.Markdown}
}

func (d *MarkdownDecoder) Decode(ctx context.Context, data []byte, filename string) (*document.Raw, error) {
	md := goldmark.New()
	doc := md.Parser().Parse(text.NewReader(data))

	var title string
	headings := 0
	codeBlocks := 0
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *ast.Heading:
			headings++
			if title == "" {
				title = headingText(node, data)
			}
		case *ast.FencedCodeBlock, *ast.CodeBlock:
			codeBlocks++
		}
	}

	if title == "" {
		title = strings.TrimSuffix(strings.TrimSuffix(filename, ".md"), ".markdown")
	}

	return &document.Raw{
		Content:  string(data),
		MimeType: mimetype.Markdown,
		Title:    title,
		Metadata: document.Metadata{
			"heading_count":    headings,
			"code_block_count": codeBlocks,
		},
	}, nil
}

func headingText(h *ast.Heading, src []byte) string {
	var sb strings.Builder
	for c := h.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			sb.Write(t.Segment.Value(src))
		}
	}
	return strings.TrimSpace(sb.String())
}
