package extract

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/hazyhaar/docintel/document"
	"github.com/hazyhaar/docintel/mimetype"
)

// HTMLDecoder sanitizes HTML and converts it to markdown, lifting the page
// title and any tables along the way.
type HTMLDecoder struct{}

func (d *HTMLDecoder) MimeTypes() []string {
	return []string{mimetype.HTML}
}

func (d *HTMLDecoder) Decode(ctx context.Context, data []byte, filename string) (*document.Raw, error) {
	doc, err := html.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	title := htmlTitle(doc)
	tables := htmlTables(doc)

	sanitized := bluemonday.UGCPolicy().SanitizeBytes(data)

	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			table.NewTablePlugin(),
		),
	)
	md, err := conv.ConvertString(string(sanitized))
	if err != nil {
		return nil, fmt.Errorf("convert html: %w", err)
	}

	return &document.Raw{
		Content:  strings.TrimSpace(md),
		MimeType: mimetype.HTML,
		Title:    title,
		Tables:   tables,
	}, nil
}

func htmlTitle(doc *html.Node) string {
	var title string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if title != "" {
			return
		}
		if n.Type == html.ElementNode && n.DataAtom == atom.Title {
			if n.FirstChild != nil && n.FirstChild.Type == html.TextNode {
				title = strings.TrimSpace(n.FirstChild.Data)
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return title
}

// htmlTables extracts every <table> subtree as a cell grid.
func htmlTables(doc *html.Node) []document.Table {
	var tables []document.Table
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.DataAtom == atom.Table {
			cells := tableGrid(n)
			if len(cells) > 0 {
				tables = append(tables, document.Table{
					Cells:    cells,
					Markdown: tableMarkdown(cells),
				})
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return tables
}

func tableGrid(tbl *html.Node) [][]string {
	var cells [][]string
	var walkRows func(*html.Node)
	walkRows = func(n *html.Node) {
		if n.Type == html.ElementNode && n.DataAtom == atom.Tr {
			var row []string
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				if c.Type == html.ElementNode && (c.DataAtom == atom.Td || c.DataAtom == atom.Th) {
					row = append(row, nodeText(c))
				}
			}
			if len(row) > 0 {
				cells = append(cells, row)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walkRows(c)
		}
	}
	walkRows(tbl)
	return cells
}

func nodeText(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			text := strings.TrimSpace(n.Data)
			if text != "" {
				if sb.Len() > 0 {
					sb.WriteByte(' ')
				}
				sb.WriteString(text)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}
