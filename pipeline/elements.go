package pipeline

import (
	"strings"
	"unicode"

	"github.com/hazyhaar/docintel/document"
)

// buildElements classifies the content into typed elements for element_based
// output. Classification is heuristic over double-newline separated blocks;
// page_break elements are inserted where page boundaries fall.
func buildElements(content string, pages []document.PageBoundary) []document.Element {
	if content == "" {
		return nil
	}

	var elements []document.Element
	index := 0
	add := func(typ document.ElementType, text string, page int) {
		elements = append(elements, document.Element{
			ElementID:   document.NewElementID(typ, text, page, index),
			ElementType: typ,
			Text:        text,
			Metadata: document.ElementMetadata{
				PageNumber:   page,
				ElementIndex: index,
			},
		})
		index++
	}

	offset := 0
	prevPage := 0
	inFence := false
	var fence []string

	for _, block := range strings.Split(content, "\n\n") {
		blockStart := offset
		offset += len(block) + 2

		page := pageAt(pages, blockStart)
		trimmed := strings.TrimSpace(block)
		if trimmed == "" {
			continue
		}

		if prevPage != 0 && page != 0 && page != prevPage {
			add(document.ElementPageBreak, "", page)
		}
		if page != 0 {
			prevPage = page
		}

		// Fenced code can span blocks when the code itself has blank lines.
		if inFence {
			fence = append(fence, trimmed)
			if strings.HasSuffix(trimmed, "```") {
				add(document.ElementCodeBlock, strings.Join(fence, "\n\n"), page)
				inFence = false
				fence = nil
			}
			continue
		}
		if strings.HasPrefix(trimmed, "```") {
			if strings.Count(trimmed, "```") >= 2 {
				add(document.ElementCodeBlock, trimmed, page)
			} else {
				inFence = true
				fence = []string{trimmed}
			}
			continue
		}

		add(classifyBlock(trimmed, index == 0), trimmed, page)
	}

	if inFence && len(fence) > 0 {
		add(document.ElementCodeBlock, strings.Join(fence, "\n\n"), prevPage)
	}

	return elements
}

// classifyBlock maps one text block to an element type.
func classifyBlock(block string, first bool) document.ElementType {
	lines := strings.Split(block, "\n")
	head := strings.TrimSpace(lines[0])

	switch {
	case strings.HasPrefix(head, "# "):
		return document.ElementTitle
	case strings.HasPrefix(head, "## "), strings.HasPrefix(head, "### "),
		strings.HasPrefix(head, "#### "), strings.HasPrefix(head, "##### "),
		strings.HasPrefix(head, "###### "):
		return document.ElementHeading
	case strings.HasPrefix(head, "> "):
		return document.ElementBlockQuote
	case strings.HasPrefix(head, "|") && strings.Count(head, "|") >= 2:
		return document.ElementTable
	case isListBlock(lines):
		return document.ElementListItem
	}

	if len(lines) == 1 && looksLikeHeading(head) {
		if first {
			return document.ElementTitle
		}
		return document.ElementHeading
	}
	if first && len(lines) == 1 && len([]rune(head)) <= 120 {
		return document.ElementTitle
	}
	return document.ElementNarrativeText
}

func isListBlock(lines []string) bool {
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if !isListLine(line) {
			return false
		}
	}
	return true
}

func isListLine(line string) bool {
	if strings.HasPrefix(line, "- ") || strings.HasPrefix(line, "* ") || strings.HasPrefix(line, "+ ") {
		return true
	}
	// Ordered item: digits followed by ". " or ") ".
	i := 0
	for i < len(line) && line[i] >= '0' && line[i] <= '9' {
		i++
	}
	if i == 0 || i+1 >= len(line) {
		return false
	}
	return (line[i] == '.' || line[i] == ')') && line[i+1] == ' '
}

// looksLikeHeading reports whether a single line reads as a section heading:
// short, no terminal punctuation, and title- or upper-cased.
func looksLikeHeading(line string) bool {
	runes := []rune(line)
	if len(runes) == 0 || len(runes) > 80 {
		return false
	}
	last := runes[len(runes)-1]
	if last == '.' || last == '!' || last == '?' || last == ',' || last == ';' || last == ':' {
		return false
	}
	letters, upper := 0, 0
	for _, r := range runes {
		if unicode.IsLetter(r) {
			letters++
			if unicode.IsUpper(r) {
				upper++
			}
		}
	}
	if letters == 0 {
		return false
	}
	if upper == letters {
		return true
	}
	// Title case: every word starts uppercase.
	words := strings.Fields(line)
	if len(words) > 8 {
		return false
	}
	for _, w := range words {
		r := []rune(w)[0]
		if unicode.IsLetter(r) && !unicode.IsUpper(r) {
			return false
		}
	}
	return true
}

// pageAt returns the page number covering byte offset, 0 when untracked.
func pageAt(pages []document.PageBoundary, offset int) int {
	for _, p := range pages {
		if offset >= p.ByteStart && offset < p.ByteEnd {
			return p.PageNumber
		}
	}
	return 0
}

// buildPages slices the content into per-page text using the decoder's
// boundaries.
func buildPages(content string, pages []document.PageBoundary) []document.PageContent {
	var out []document.PageContent
	for _, p := range pages {
		if p.ByteStart < 0 || p.ByteEnd > len(content) || p.ByteStart >= p.ByteEnd {
			continue
		}
		out = append(out, document.PageContent{
			PageNumber: p.PageNumber,
			Content:    content[p.ByteStart:p.ByteEnd],
		})
	}
	return out
}
