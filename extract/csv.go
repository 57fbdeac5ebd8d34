package extract

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/hazyhaar/docintel/document"
	"github.com/hazyhaar/docintel/mimetype"
)

// CSVDecoder parses CSV and TSV payloads into a single table. The rendered
// markdown doubles as the text content so downstream chunking and keyword
// extraction see the cell values.
type CSVDecoder struct{}

func (d *CSVDecoder) MimeTypes() []string {
	return []string{mimetype.CSV, mimetype.TSV}
}

func (d *CSVDecoder) Decode(ctx context.Context, data []byte, filename string) (*document.Raw, error) {
	mime := mimetype.CSV
	r := csv.NewReader(bytes.NewReader(data))
	if strings.HasSuffix(strings.ToLower(filename), ".tsv") {
		r.Comma = '\t'
		mime = mimetype.TSV
	}
	r.FieldsPerRecord = -1 // ragged rows are common in the wild

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}

	var cells [][]string
	for _, row := range rows {
		empty := true
		for _, c := range row {
			if strings.TrimSpace(c) != "" {
				empty = false
				break
			}
		}
		if !empty {
			cells = append(cells, row)
		}
	}

	raw := &document.Raw{MimeType: mime}
	if len(cells) > 0 {
		tbl := document.Table{Cells: cells, Markdown: tableMarkdown(cells)}
		raw.Tables = []document.Table{tbl}
		raw.Content = tbl.Markdown
	}
	return raw, nil
}
