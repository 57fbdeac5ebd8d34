package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/hazyhaar/docintel/document"
	"github.com/hazyhaar/docintel/mimetype"
)

// XLSXDecoder reads Excel workbooks directly from the OOXML zip container:
// shared strings are resolved and each worksheet becomes one table.
type XLSXDecoder struct{}

func (d *XLSXDecoder) MimeTypes() []string {
	return []string{mimetype.XLSX}
}

func (d *XLSXDecoder) Decode(ctx context.Context, data []byte, filename string) (*document.Raw, error) {
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}

	shared, err := loadSharedStrings(reader)
	if err != nil {
		// Workbooks with only inline values have no sharedStrings.xml.
		shared = nil
	}

	var sheetFiles []*zip.File
	for _, f := range reader.File {
		if strings.HasPrefix(f.Name, "xl/worksheets/sheet") && strings.HasSuffix(f.Name, ".xml") {
			sheetFiles = append(sheetFiles, f)
		}
	}
	sort.Slice(sheetFiles, func(i, j int) bool { return sheetFiles[i].Name < sheetFiles[j].Name })

	var sb strings.Builder
	var tables []document.Table
	for _, f := range sheetFiles {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		cells, err := extractSheet(f, shared)
		if err != nil || len(cells) == 0 {
			continue
		}
		tbl := document.Table{Cells: cells, Markdown: tableMarkdown(cells)}
		tables = append(tables, tbl)
		if sb.Len() > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(tbl.Markdown)
	}

	if len(tables) == 0 {
		return nil, fmt.Errorf("no sheet data found in workbook")
	}

	return &document.Raw{
		Content:  sb.String(),
		MimeType: mimetype.XLSX,
		Tables:   tables,
		Metadata: document.Metadata{"sheet_count": len(tables)},
	}, nil
}

type xlsxSST struct {
	Strings []xlsxSI `xml:"si"`
}

type xlsxSI struct {
	T string    `xml:"t"`
	R []xlsxRun `xml:"r"`
}

type xlsxRun struct {
	T string `xml:"t"`
}

func loadSharedStrings(reader *zip.Reader) ([]string, error) {
	var ssFile *zip.File
	for _, f := range reader.File {
		if f.Name == "xl/sharedStrings.xml" {
			ssFile = f
			break
		}
	}
	if ssFile == nil {
		return nil, fmt.Errorf("sharedStrings.xml not found")
	}

	rc, err := ssFile.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	content, err := io.ReadAll(rc)
	if err != nil {
		return nil, err
	}

	var sst xlsxSST
	if err := xml.Unmarshal(content, &sst); err != nil {
		return nil, err
	}

	out := make([]string, 0, len(sst.Strings))
	for _, s := range sst.Strings {
		if s.T != "" {
			out = append(out, s.T)
			continue
		}
		var sb strings.Builder
		for _, run := range s.R {
			sb.WriteString(run.T)
		}
		out = append(out, sb.String())
	}
	return out, nil
}

type xlsxWorksheet struct {
	SheetData xlsxSheetData `xml:"sheetData"`
}

type xlsxSheetData struct {
	Rows []xlsxRow `xml:"row"`
}

type xlsxRow struct {
	R     int        `xml:"r,attr"`
	Cells []xlsxCell `xml:"c"`
}

type xlsxCell struct {
	R string `xml:"r,attr"`
	T string `xml:"t,attr"`
	V string `xml:"v"`
	S string `xml:"is>t"`
}

func extractSheet(f *zip.File, shared []string) ([][]string, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	content, err := io.ReadAll(rc)
	if err != nil {
		return nil, err
	}

	var ws xlsxWorksheet
	if err := xml.Unmarshal(content, &ws); err != nil {
		return nil, err
	}

	var cells [][]string
	for _, row := range ws.SheetData.Rows {
		var cols []string
		empty := true
		for _, c := range row.Cells {
			v := cellValue(&c, shared)
			if v != "" {
				empty = false
			}
			cols = append(cols, v)
		}
		if !empty {
			cells = append(cells, cols)
		}
	}
	return cells, nil
}

func cellValue(c *xlsxCell, shared []string) string {
	switch c.T {
	case "s":
		idx, err := strconv.Atoi(c.V)
		if err != nil || idx < 0 || idx >= len(shared) {
			return c.V
		}
		return shared[idx]
	case "b":
		if c.V == "1" {
			return "TRUE"
		}
		return "FALSE"
	case "inlineStr":
		return c.S
	default:
		return c.V
	}
}
