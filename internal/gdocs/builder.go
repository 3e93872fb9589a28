// Package gdocs creates Google Docs from structured pages and lists or
// fetches source PDFs from Google Drive, acting on behalf of the user via
// a bearer token.
package gdocs

import (
	"strings"
	"unicode/utf8"

	"google.golang.org/api/docs/v1"

	"github.com/docrelay/docrelay/internal/types"
)

// spaceBelowPoints maps paragraph spacing hints to point values.
var spaceBelowPoints = map[string]float64{
	types.SpacingSmall:  8,
	types.SpacingMedium: 12,
	types.SpacingLarge:  16,
}

// BuildRequests converts structured pages into the batchUpdate request
// sequence that reconstructs them in a new document. Insertion indexes are
// tracked manually: every insert shifts subsequent content, so requests are
// generated front to back with a running cursor. Table cells are inserted
// in reverse so earlier cell inserts don't shift later cell indexes.
func BuildRequests(pages []types.Page) []*docs.Request {
	var requests []*docs.Request
	index := int64(1)

	for _, page := range pages {
		for _, el := range page.Structure {
			switch el.Kind {
			case types.ElementTable:
				reqs, advance := buildTableRequests(el, index)
				requests = append(requests, reqs...)
				index += advance

			case types.ElementHeading, types.ElementParagraph:
				if strings.TrimSpace(el.Content) == "" {
					continue
				}
				reqs, advance := buildTextRequests(el, index)
				requests = append(requests, reqs...)
				index += advance
			}
		}

		requests = append(requests, &docs.Request{
			InsertPageBreak: &docs.InsertPageBreakRequest{
				Location: &docs.Location{Index: index},
			},
		})
		index++
	}

	return requests
}

// buildTextRequests emits the insert and style requests for a heading or
// paragraph, returning how far the cursor advances.
func buildTextRequests(el types.Element, index int64) ([]*docs.Request, int64) {
	text := el.Content + "\n"
	length := int64(utf8.RuneCountInString(text))

	requests := []*docs.Request{{
		InsertText: &docs.InsertTextRequest{
			Text:     text,
			Location: &docs.Location{Index: index},
		},
	}}

	style := &docs.ParagraphStyle{}
	var fields []string

	if el.Kind == types.ElementHeading {
		level := el.Level
		if level < 1 || level > 6 {
			level = 1
		}
		style.NamedStyleType = headingStyle(level)
		fields = append(fields, "namedStyleType")
	}

	switch align := strings.ToUpper(el.Align); align {
	case "CENTER", "RIGHT", "JUSTIFIED":
		style.Alignment = align
		fields = append(fields, "alignment")
	}

	if pts, ok := spaceBelowPoints[el.SpacingAfter]; ok {
		style.SpaceBelow = &docs.Dimension{Magnitude: pts, Unit: "PT"}
		fields = append(fields, "spaceBelow")
	}

	if len(fields) > 0 {
		requests = append(requests, &docs.Request{
			UpdateParagraphStyle: &docs.UpdateParagraphStyleRequest{
				Range:          &docs.Range{StartIndex: index, EndIndex: index + length},
				ParagraphStyle: style,
				Fields:         strings.Join(fields, ","),
			},
		})
	}

	return requests, length
}

// buildTableRequests emits the table insert plus its cell text inserts.
// Cell location within a fresh table: the table occupies
// start+1..start+1+rows*(cols*2+1); each row adds cols*2+1 indexes and
// each cell two (cell marker + paragraph), giving
// start+4+r*(cols*2+1)+c*2 for the first text position of cell (r,c).
func buildTableRequests(el types.Element, index int64) ([]*docs.Request, int64) {
	rows := el.Rows
	numRows := int64(len(rows))
	if numRows == 0 {
		return nil, 0
	}
	var numCols int64
	for _, row := range rows {
		if int64(len(row)) > numCols {
			numCols = int64(len(row))
		}
	}
	if numCols == 0 {
		return nil, 0
	}

	requests := []*docs.Request{{
		InsertTable: &docs.InsertTableRequest{
			Rows:     numRows,
			Columns:  numCols,
			Location: &docs.Location{Index: index},
		},
	}}

	var cellRequests []*docs.Request
	for r, row := range rows {
		for c, cell := range row {
			if cell.Content == "" {
				continue
			}
			cellLocation := index + 4 + int64(r)*(numCols*2+1) + int64(c)*2
			cellRequests = append(cellRequests, &docs.Request{
				InsertText: &docs.InsertTextRequest{
					Text:     cell.Content,
					Location: &docs.Location{Index: cellLocation},
				},
			})
		}
	}
	for i := len(cellRequests) - 1; i >= 0; i-- {
		requests = append(requests, cellRequests[i])
	}

	advance := 2 + numRows*(numCols*2+1)
	return requests, advance
}

func headingStyle(level int) string {
	return [...]string{
		"HEADING_1", "HEADING_2", "HEADING_3",
		"HEADING_4", "HEADING_5", "HEADING_6",
	}[level-1]
}
