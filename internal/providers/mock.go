package providers

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/docrelay/docrelay/internal/types"
)

const MockName = "mock"

// Mock is a Provider for testing.
type Mock struct {
	// Configurable behavior
	Latency       time.Duration
	StructureErr  error
	TranslateErr  error
	Structure     []types.Element
	TranslateText string

	// TranslateFunc overrides TranslateText when set.
	TranslateFunc func(ctx context.Context, prompt string) (string, error)

	// State
	structureCalls atomic.Int64
	translateCalls atomic.Int64
}

var _ Provider = (*Mock)(nil)

// NewMock creates a mock provider with sensible defaults.
func NewMock() *Mock {
	return &Mock{
		Structure: []types.Element{
			{Kind: types.ElementHeading, Level: 1, Content: "Mock Heading"},
			{Kind: types.ElementParagraph, Content: "Mock paragraph.", SpacingAfter: types.SpacingMedium},
		},
		TranslateText: "mock translation",
	}
}

// Name returns the provider identifier.
func (m *Mock) Name() string { return MockName }

// StructurePage returns the configured structure.
func (m *Mock) StructurePage(ctx context.Context, page PageInput) ([]types.Element, error) {
	m.structureCalls.Add(1)
	if m.Latency > 0 {
		select {
		case <-time.After(m.Latency):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if m.StructureErr != nil {
		return nil, m.StructureErr
	}
	out := make([]types.Element, len(m.Structure))
	for i, el := range m.Structure {
		out[i] = el.Clone()
	}
	return out, nil
}

// Translate returns the configured translation.
func (m *Mock) Translate(ctx context.Context, prompt string) (string, error) {
	m.translateCalls.Add(1)
	if m.TranslateErr != nil {
		return "", m.TranslateErr
	}
	if m.TranslateFunc != nil {
		return m.TranslateFunc(ctx, prompt)
	}
	return m.TranslateText, nil
}

// StructureCalls returns how many StructurePage calls were made.
func (m *Mock) StructureCalls() int64 { return m.structureCalls.Load() }

// TranslateCalls returns how many Translate calls were made.
func (m *Mock) TranslateCalls() int64 { return m.translateCalls.Load() }
