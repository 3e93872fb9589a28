// Package translate rewrites the text content of structured pages into a
// target language while preserving layout. All translatable fields of a
// page are batched into a single request using a reserved separator token,
// then spliced back positionally.
package translate

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/docrelay/docrelay/internal/types"
)

// Separator delimits text segments inside one translation request. Chosen
// to be vanishingly unlikely to appear in natural prose; a collision shows
// up as a segment-count mismatch and falls back to the original page.
const Separator = "<<<SEG>>>"

// TextTranslator translates a raw prompt into raw text.
type TextTranslator interface {
	Translate(ctx context.Context, prompt string) (string, error)
}

// Translator translates structured pages page by page. A failed page keeps
// its original content; failures never abort the remaining pages.
type Translator struct {
	tt  TextTranslator
	log *slog.Logger
}

// New creates a Translator backed by tt.
func New(tt TextTranslator, log *slog.Logger) *Translator {
	if log == nil {
		log = slog.Default()
	}
	return &Translator{tt: tt, log: log}
}

// TranslatePages returns a translated copy of pages. The input is never
// mutated; callers keep the originals for retry or fallback. Pages are
// translated sequentially in input order, one request per page.
func (t *Translator) TranslatePages(ctx context.Context, pages []types.Page, targetLanguage string) []types.Page {
	out := types.ClonePages(pages)
	for i := range out {
		if err := t.translatePage(ctx, &out[i], targetLanguage); err != nil {
			t.log.Warn("keeping original content for page",
				"page", out[i].PageNumber, "error", err)
			out[i] = pages[i].Clone()
		}
	}
	return out
}

// translatePage translates one page in place. Any error leaves the caller
// responsible for restoring the original.
func (t *Translator) translatePage(ctx context.Context, page *types.Page, targetLanguage string) error {
	segments := collectSegments(page.Structure)
	if len(segments) == 0 {
		return nil
	}

	prompt := buildPrompt(segments, targetLanguage)
	translated, err := t.tt.Translate(ctx, prompt)
	if err != nil {
		return fmt.Errorf("translation request failed: %w", err)
	}

	parts := splitSegments(translated)
	if len(parts) != len(segments) {
		return fmt.Errorf("segment count mismatch: sent %d, got %d", len(segments), len(parts))
	}

	applySegments(page.Structure, parts)
	return nil
}

// collectSegments gathers every translatable text field of the structure in
// traversal order: elements in sequence; table cells row-major, then by
// column. applySegments must walk in the identical order.
func collectSegments(structure []types.Element) []string {
	var segs []string
	for _, el := range structure {
		switch el.Kind {
		case types.ElementHeading, types.ElementParagraph:
			segs = append(segs, el.Content)
		case types.ElementTable:
			for _, row := range el.Rows {
				for _, cell := range row {
					segs = append(segs, cell.Content)
				}
			}
		}
	}
	return segs
}

// applySegments writes translated segments back over the structure's text
// fields, mirroring collectSegments exactly.
func applySegments(structure []types.Element, parts []string) {
	i := 0
	for ei := range structure {
		el := &structure[ei]
		switch el.Kind {
		case types.ElementHeading, types.ElementParagraph:
			el.Content = strings.TrimSpace(parts[i])
			i++
		case types.ElementTable:
			for ri := range el.Rows {
				for ci := range el.Rows[ri] {
					el.Rows[ri][ci].Content = strings.TrimSpace(parts[i])
					i++
				}
			}
		}
	}
}

// buildPrompt assembles the single-request translation prompt.
func buildPrompt(segments []string, targetLanguage string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Translate the following text segments into %s. ", targetLanguage)
	fmt.Fprintf(&b, "Segments are separated by the token %s. ", Separator)
	b.WriteString("Return ONLY the translated segments, in the same order, separated by the same token. ")
	b.WriteString("Preserve any Markdown formatting. Do not add commentary.\n\n")
	b.WriteString(strings.Join(segments, "\n"+Separator+"\n"))
	return b.String()
}

// splitSegments splits a translation response back into segments.
func splitSegments(text string) []string {
	return strings.Split(text, Separator)
}
