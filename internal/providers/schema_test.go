package providers

import (
	"strings"
	"testing"

	"github.com/docrelay/docrelay/internal/types"
)

func TestParseStructure(t *testing.T) {
	t.Run("valid output", func(t *testing.T) {
		raw := `[
			{"type":"heading","level":1,"content":"Title","align":"center"},
			{"type":"paragraph","content":"Body.","spacingAfter":"medium"},
			{"type":"table","content":"| A | B |\n| --- | --- |\n| 1 | 2 |"}
		]`
		elements, err := ParseStructure(raw)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(elements) != 3 {
			t.Fatalf("expected 3 elements, got %d", len(elements))
		}
		if elements[0].Kind != types.ElementHeading || elements[0].Level != 1 {
			t.Errorf("unexpected heading: %+v", elements[0])
		}
		if len(elements[2].Rows) != 2 {
			t.Errorf("table markdown not parsed into rows: %+v", elements[2].Rows)
		}
	})

	t.Run("code fences stripped", func(t *testing.T) {
		raw := "```json\n[{\"type\":\"paragraph\",\"content\":\"hi\"}]\n```"
		elements, err := ParseStructure(raw)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(elements) != 1 || elements[0].Content != "hi" {
			t.Errorf("unexpected elements: %+v", elements)
		}
	})

	t.Run("invalid json", func(t *testing.T) {
		if _, err := ParseStructure("not json at all"); err == nil {
			t.Error("expected error")
		}
	})

	t.Run("schema violations", func(t *testing.T) {
		cases := []string{
			`[{"content":"missing type"}]`,
			`[{"type":"image"}]`,
			`[{"type":"heading","level":9}]`,
			`[{"type":"heading","align":"justify"}]`,
			`{"type":"paragraph"}`,
		}
		for _, raw := range cases {
			if _, err := ParseStructure(raw); err == nil {
				t.Errorf("expected validation error for %s", raw)
			}
		}
	})

	t.Run("empty", func(t *testing.T) {
		if _, err := ParseStructure("   "); err == nil {
			t.Error("expected error for empty output")
		}
	})
}

func TestStructureOrFallback(t *testing.T) {
	elements := structureOrFallback("garbage")
	if len(elements) != 1 || !strings.Contains(elements[0].Content, "failed") {
		t.Errorf("expected fallback paragraph, got %+v", elements)
	}

	good := structureOrFallback(`[{"type":"paragraph","content":"ok"}]`)
	if len(good) != 1 || good[0].Content != "ok" {
		t.Errorf("valid output should pass through: %+v", good)
	}
}

func TestStripCodeFences(t *testing.T) {
	cases := []struct{ in, want string }{
		{"plain", "plain"},
		{"```json\n[]\n```", "[]"},
		{"```\n[]\n```", "[]"},
		{"```", "```"},
	}
	for _, tc := range cases {
		if got := stripCodeFences(tc.in); got != tc.want {
			t.Errorf("stripCodeFences(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
