// Package providers contains the AI backends that perform OCR, structural
// extraction, and translation. The rest of the system treats these as
// opaque: a page goes in, structured elements come out.
package providers

import (
	"context"

	"github.com/docrelay/docrelay/internal/types"
)

// PageInput is one source page handed to a provider. PDF holds the
// single-page PDF; ImageDataURL is the rendered raster, when available.
// Providers use whichever representation their API accepts.
type PageInput struct {
	PageNumber   int
	PDF          []byte
	ImageDataURL string
}

// Provider performs OCR plus structural extraction on single pages and
// translates text prompts.
type Provider interface {
	// Name returns the provider identifier (e.g. "gemini", "openai").
	Name() string

	// StructurePage extracts the structured elements of one page.
	// An empty slice means no content was detected.
	StructurePage(ctx context.Context, page PageInput) ([]types.Element, error)

	// Translate sends a prepared translation prompt and returns the raw
	// translated text.
	Translate(ctx context.Context, prompt string) (string, error)
}

// fallbackStructure is the degraded result used when a provider returns
// output that cannot be parsed or validated. Processing continues; the page
// carries a visible marker instead of failing the whole document.
func fallbackStructure() []types.Element {
	return []types.Element{{
		Kind:    types.ElementParagraph,
		Content: "[Structuring failed]",
	}}
}

// structureOrFallback parses and validates raw model output, degrading to
// the fallback paragraph on any failure.
func structureOrFallback(raw string) []types.Element {
	elements, err := ParseStructure(raw)
	if err != nil {
		return fallbackStructure()
	}
	return elements
}
