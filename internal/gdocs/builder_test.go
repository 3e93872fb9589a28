package gdocs

import (
	"testing"

	"github.com/docrelay/docrelay/internal/types"
)

func TestBuildRequests_TextAndPageBreak(t *testing.T) {
	pages := []types.Page{{
		PageNumber: 1,
		Structure: []types.Element{
			{Kind: types.ElementHeading, Level: 2, Content: "Intro", Align: "center"},
			{Kind: types.ElementParagraph, Content: "Hello.", SpacingAfter: types.SpacingMedium},
		},
	}}

	reqs := BuildRequests(pages)
	// insert+style for heading, insert+style for paragraph, page break.
	if len(reqs) != 5 {
		t.Fatalf("expected 5 requests, got %d", len(reqs))
	}

	ins := reqs[0].InsertText
	if ins == nil || ins.Text != "Intro\n" || ins.Location.Index != 1 {
		t.Fatalf("unexpected first insert: %+v", ins)
	}

	style := reqs[1].UpdateParagraphStyle
	if style == nil {
		t.Fatal("expected heading style request")
	}
	if style.ParagraphStyle.NamedStyleType != "HEADING_2" {
		t.Errorf("expected HEADING_2, got %s", style.ParagraphStyle.NamedStyleType)
	}
	if style.ParagraphStyle.Alignment != "CENTER" {
		t.Errorf("expected CENTER alignment, got %s", style.ParagraphStyle.Alignment)
	}
	if style.Range.StartIndex != 1 || style.Range.EndIndex != 7 {
		t.Errorf("unexpected style range: %d-%d", style.Range.StartIndex, style.Range.EndIndex)
	}

	// Paragraph starts after "Intro\n" (6 runes).
	if reqs[2].InsertText.Location.Index != 7 {
		t.Errorf("expected paragraph at index 7, got %d", reqs[2].InsertText.Location.Index)
	}
	pstyle := reqs[3].UpdateParagraphStyle
	if pstyle.ParagraphStyle.SpaceBelow == nil || pstyle.ParagraphStyle.SpaceBelow.Magnitude != 12 {
		t.Errorf("expected 12pt spaceBelow, got %+v", pstyle.ParagraphStyle.SpaceBelow)
	}

	// Page break after "Hello.\n" (7 runes): 7 + 7 = 14.
	pb := reqs[4].InsertPageBreak
	if pb == nil || pb.Location.Index != 14 {
		t.Fatalf("unexpected page break: %+v", pb)
	}
}

func TestBuildRequests_RuneIndexes(t *testing.T) {
	// Index arithmetic counts code points, not bytes.
	pages := []types.Page{{
		PageNumber: 1,
		Structure: []types.Element{
			{Kind: types.ElementParagraph, Content: "héllo"}, // 5 runes
			{Kind: types.ElementParagraph, Content: "next"},
		},
	}}

	reqs := BuildRequests(pages)
	if reqs[1].InsertText.Location.Index != 7 {
		t.Errorf("expected second paragraph at index 7, got %d", reqs[1].InsertText.Location.Index)
	}
}

func TestBuildRequests_Table(t *testing.T) {
	pages := []types.Page{{
		PageNumber: 1,
		Structure: []types.Element{{
			Kind: types.ElementTable,
			Rows: [][]types.Cell{
				{{Content: "a"}, {Content: "b"}},
				{{Content: "c"}, {Content: "d"}},
			},
		}},
	}}

	reqs := BuildRequests(pages)

	it := reqs[0].InsertTable
	if it == nil || it.Rows != 2 || it.Columns != 2 {
		t.Fatalf("unexpected table insert: %+v", it)
	}
	if it.Location.Index != 1 {
		t.Errorf("expected table at index 1, got %d", it.Location.Index)
	}

	// 4 cell inserts, emitted back to front so earlier ones keep their
	// precomputed indexes.
	cells := reqs[1:5]
	wantTexts := []string{"d", "c", "b", "a"}
	// start=1, cols=2: cell (r,c) at 1+4+r*5+c*2.
	wantIndexes := []int64{12, 10, 7, 5}
	for i, req := range cells {
		if req.InsertText == nil {
			t.Fatalf("request %d is not a text insert", i+1)
		}
		if req.InsertText.Text != wantTexts[i] {
			t.Errorf("cell %d: expected %q, got %q", i, wantTexts[i], req.InsertText.Text)
		}
		if req.InsertText.Location.Index != wantIndexes[i] {
			t.Errorf("cell %d: expected index %d, got %d", i, wantIndexes[i], req.InsertText.Location.Index)
		}
	}

	// Table advance: 2 + rows*(cols*2+1) = 2 + 2*5 = 12, so the page break
	// lands at 13.
	pb := reqs[len(reqs)-1].InsertPageBreak
	if pb == nil || pb.Location.Index != 13 {
		t.Fatalf("unexpected page break: %+v", pb)
	}
}

func TestBuildRequests_SkipsEmpty(t *testing.T) {
	pages := []types.Page{{
		PageNumber: 1,
		Structure: []types.Element{
			{Kind: types.ElementParagraph, Content: "   "},
			{Kind: types.ElementTable, Rows: nil},
		},
	}}

	reqs := BuildRequests(pages)
	// Only the page break remains.
	if len(reqs) != 1 || reqs[0].InsertPageBreak == nil {
		t.Fatalf("expected only a page break, got %d requests", len(reqs))
	}
	if reqs[0].InsertPageBreak.Location.Index != 1 {
		t.Errorf("expected page break at index 1, got %d", reqs[0].InsertPageBreak.Location.Index)
	}
}

func TestBuildRequests_ClampsHeadingLevel(t *testing.T) {
	pages := []types.Page{{
		PageNumber: 1,
		Structure:  []types.Element{{Kind: types.ElementHeading, Level: 9, Content: "Deep"}},
	}}

	reqs := BuildRequests(pages)
	style := reqs[1].UpdateParagraphStyle
	if style.ParagraphStyle.NamedStyleType != "HEADING_1" {
		t.Errorf("expected clamp to HEADING_1, got %s", style.ParagraphStyle.NamedStyleType)
	}
}
