package types

import "strings"

// ParseMarkdownTable converts a Markdown table into rows of cells.
// Separator rows (dashes and colons) are dropped. Lines that contain no
// pipe characters are ignored. Returns nil for empty input.
func ParseMarkdownTable(md string) [][]Cell {
	var rows [][]Cell
	for _, line := range strings.Split(md, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || !strings.Contains(line, "|") {
			continue
		}
		line = strings.TrimPrefix(line, "|")
		line = strings.TrimSuffix(line, "|")

		parts := strings.Split(line, "|")
		cells := make([]Cell, 0, len(parts))
		for _, part := range parts {
			cells = append(cells, Cell{Content: strings.TrimSpace(part)})
		}
		if isSeparatorRow(cells) {
			continue
		}
		rows = append(rows, cells)
	}
	return rows
}

// isSeparatorRow reports whether every cell is a Markdown alignment marker
// like "---", ":--" or "--:".
func isSeparatorRow(cells []Cell) bool {
	for _, c := range cells {
		s := c.Content
		if s == "" {
			return false
		}
		for _, r := range s {
			if r != '-' && r != ':' {
				return false
			}
		}
	}
	return true
}

// RenderMarkdownTable converts rows of cells back into a Markdown table.
// The first row is treated as the header. Returns "" for empty input.
func RenderMarkdownTable(rows [][]Cell) string {
	if len(rows) == 0 {
		return ""
	}
	var b strings.Builder
	for i, row := range rows {
		b.WriteString("|")
		for _, cell := range row {
			b.WriteString(" ")
			b.WriteString(strings.ReplaceAll(cell.Content, "|", "\\|"))
			b.WriteString(" |")
		}
		b.WriteString("\n")
		if i == 0 {
			b.WriteString("|")
			for range row {
				b.WriteString(" --- |")
			}
			b.WriteString("\n")
		}
	}
	return strings.TrimSuffix(b.String(), "\n")
}
