package extract

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fumiama/go-docx"

	"github.com/hazyhaar/docintel/document"
	"github.com/hazyhaar/docintel/mimetype"
)

// DocxDecoder extracts paragraph text and tables from Word documents.
type DocxDecoder struct{}

func (d *DocxDecoder) MimeTypes() []string {
	return []string{mimetype.DOCX}
}

func (d *DocxDecoder) Decode(ctx context.Context, data []byte, filename string) (*document.Raw, error) {
	// go-docx needs a ReadSeeker plus size, so spill to a temp file.
	tmp, err := os.CreateTemp("", "docintel-docx-*.docx")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	size, err := io.Copy(tmp, bytes.NewReader(data))
	if err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("seek temp file: %w", err)
	}

	doc, err := docx.Parse(tmp, size)
	tmp.Close()
	if err != nil {
		return nil, fmt.Errorf("parse docx: %w", err)
	}

	var sb strings.Builder
	var tables []document.Table
	var title string

	for _, item := range doc.Document.Body.Items {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		switch node := item.(type) {
		case *docx.Paragraph:
			text := paragraphText(node)
			if text == "" {
				continue
			}
			if title == "" && headingLevel(node) > 0 {
				title = text
			}
			if sb.Len() > 0 {
				sb.WriteString("\n\n")
			}
			sb.WriteString(text)
		case *docx.Table:
			tbl := tableCells(node)
			if len(tbl.Cells) == 0 {
				continue
			}
			tables = append(tables, tbl)
			if sb.Len() > 0 {
				sb.WriteString("\n\n")
			}
			sb.WriteString(tbl.Markdown)
		}
	}

	if title == "" {
		title = strings.TrimSuffix(filename, ".docx")
	}

	return &document.Raw{
		Content:  sb.String(),
		MimeType: mimetype.DOCX,
		Title:    title,
		Tables:   tables,
	}, nil
}

func headingLevel(para *docx.Paragraph) int {
	if para.Properties == nil || para.Properties.Style == nil {
		return 0
	}
	style := strings.ToLower(strings.ReplaceAll(para.Properties.Style.Val, " ", ""))
	for level := 1; level <= 6; level++ {
		if style == fmt.Sprintf("heading%d", level) {
			return level
		}
	}
	return 0
}

func paragraphText(para *docx.Paragraph) string {
	var sb strings.Builder
	for _, child := range para.Children {
		run, ok := child.(*docx.Run)
		if !ok {
			continue
		}
		for _, rc := range run.Children {
			if t, ok := rc.(*docx.Text); ok {
				sb.WriteString(t.Text)
			}
		}
	}
	return strings.TrimSpace(sb.String())
}

func tableCells(tbl *docx.Table) document.Table {
	var cells [][]string
	for _, row := range tbl.TableRows {
		var cols []string
		for _, cell := range row.TableCells {
			var sb strings.Builder
			for _, para := range cell.Paragraphs {
				if text := paragraphText(para); text != "" {
					if sb.Len() > 0 {
						sb.WriteByte(' ')
					}
					sb.WriteString(text)
				}
			}
			cols = append(cols, sb.String())
		}
		if len(cols) > 0 {
			cells = append(cells, cols)
		}
	}
	return document.Table{Cells: cells, Markdown: tableMarkdown(cells)}
}

// tableMarkdown renders rows as a GitHub-style markdown table, treating the
// first row as the header.
func tableMarkdown(cells [][]string) string {
	if len(cells) == 0 {
		return ""
	}
	var sb strings.Builder
	writeRow := func(row []string) {
		sb.WriteString("|")
		for _, c := range row {
			sb.WriteByte(' ')
			sb.WriteString(strings.ReplaceAll(c, "|", "\\|"))
			sb.WriteString(" |")
		}
		sb.WriteByte('\n')
	}
	writeRow(cells[0])
	sb.WriteString("|")
	for range cells[0] {
		sb.WriteString(" --- |")
	}
	sb.WriteByte('\n')
	for _, row := range cells[1:] {
		writeRow(row)
	}
	return strings.TrimRight(sb.String(), "\n")
}
