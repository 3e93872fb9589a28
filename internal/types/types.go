// Package types defines the shared data model for processed documents:
// pages, structured elements, and the progress events streamed while a
// document is being processed.
package types

import (
	"encoding/json"
	"fmt"
)

// ElementKind discriminates the structured element variants.
type ElementKind string

const (
	ElementHeading   ElementKind = "heading"
	ElementParagraph ElementKind = "paragraph"
	ElementTable     ElementKind = "table"
)

// Spacing hints attached to paragraphs.
const (
	SpacingSmall  = "small"
	SpacingMedium = "medium"
	SpacingLarge  = "large"
)

// Cell is a single table cell.
type Cell struct {
	Content string `json:"content"`
}

// Element is one structured element extracted from a page. Kind determines
// which fields are meaningful:
//   - heading: Level, Content, Align
//   - paragraph: Content, SpacingAfter
//   - table: Rows
//
// On the wire tables are serialized as a Markdown table in the "content"
// field (the format the structuring model produces); Rows is the canonical
// in-memory representation.
type Element struct {
	Kind         ElementKind
	Level        int
	Content      string
	Align        string
	SpacingAfter string
	Rows         [][]Cell
}

// wireElement is the JSON shape shared with the browser client and the
// structuring model.
type wireElement struct {
	Type         string `json:"type"`
	Level        int    `json:"level,omitempty"`
	Content      string `json:"content,omitempty"`
	Align        string `json:"align,omitempty"`
	SpacingAfter string `json:"spacingAfter,omitempty"`
}

// MarshalJSON serializes the element in the wire format.
func (e Element) MarshalJSON() ([]byte, error) {
	w := wireElement{
		Type:         string(e.Kind),
		Level:        e.Level,
		Align:        e.Align,
		SpacingAfter: e.SpacingAfter,
	}
	switch e.Kind {
	case ElementTable:
		w.Content = RenderMarkdownTable(e.Rows)
	case ElementHeading, ElementParagraph:
		w.Content = e.Content
	default:
		return nil, fmt.Errorf("unknown element kind %q", e.Kind)
	}
	return json.Marshal(w)
}

// UnmarshalJSON parses the wire format, converting Markdown table content
// into rows of cells.
func (e *Element) UnmarshalJSON(data []byte) error {
	var w wireElement
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*e = Element{
		Kind:         ElementKind(w.Type),
		Level:        w.Level,
		Align:        w.Align,
		SpacingAfter: w.SpacingAfter,
	}
	switch e.Kind {
	case ElementTable:
		e.Rows = ParseMarkdownTable(w.Content)
	case ElementHeading, ElementParagraph:
		e.Content = w.Content
	default:
		return fmt.Errorf("unknown element kind %q", w.Type)
	}
	return nil
}

// Clone returns a deep copy of the element.
func (e Element) Clone() Element {
	out := e
	if e.Rows != nil {
		out.Rows = make([][]Cell, len(e.Rows))
		for i, row := range e.Rows {
			out.Rows[i] = make([]Cell, len(row))
			copy(out.Rows[i], row)
		}
	}
	return out
}

// Page is one processed page of a source document. Pages are created
// atomically when processing finishes and are never mutated afterwards;
// translation produces new Page values.
type Page struct {
	PageNumber   int       `json:"pageNumber"`
	Structure    []Element `json:"structure"`
	ImageDataURL string    `json:"imageDataUrl"`
}

// Clone returns a deep copy of the page.
func (p Page) Clone() Page {
	out := p
	if p.Structure != nil {
		out.Structure = make([]Element, len(p.Structure))
		for i, el := range p.Structure {
			out.Structure[i] = el.Clone()
		}
	}
	return out
}

// ClonePages deep-copies a page slice, preserving order.
func ClonePages(pages []Page) []Page {
	if pages == nil {
		return nil
	}
	out := make([]Page, len(pages))
	for i, p := range pages {
		out[i] = p.Clone()
	}
	return out
}

// EventStatus discriminates progress event variants.
type EventStatus string

const (
	StatusProcessing EventStatus = "processing"
	StatusComplete   EventStatus = "complete"
	StatusError      EventStatus = "error"
)

// ProgressEvent is one event from the processing stream. Exactly one
// complete or error event terminates a stream; zero or more processing
// events precede it.
type ProgressEvent struct {
	Status  EventStatus `json:"status"`
	Page    int         `json:"page,omitempty"`
	Total   int         `json:"total,omitempty"`
	Message string      `json:"message,omitempty"`
	Pages   []Page      `json:"data,omitempty"`
}

// Terminal reports whether the event ends its stream.
func (e ProgressEvent) Terminal() bool {
	return e.Status == StatusComplete || e.Status == StatusError
}
