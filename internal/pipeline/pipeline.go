// Package pipeline turns an uploaded PDF into structured pages, emitting
// progress frames as batches of pages finish.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/docrelay/docrelay/internal/pdfpage"
	"github.com/docrelay/docrelay/internal/providers"
	"github.com/docrelay/docrelay/internal/stream"
	"github.com/docrelay/docrelay/internal/types"
)

// Config holds pipeline settings.
type Config struct {
	Provider  providers.Provider
	BatchSize int // pages processed concurrently per batch (default 4)
	RenderDPI int // raster resolution for page previews (default 150)
	Logger    *slog.Logger
}

// Pipeline processes PDFs page by page through an AI provider.
type Pipeline struct {
	provider  providers.Provider
	batchSize int
	renderDPI int
	log       *slog.Logger
}

// New creates a pipeline.
func New(cfg Config) *Pipeline {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 4
	}
	if cfg.RenderDPI <= 0 {
		cfg.RenderDPI = 150
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Pipeline{
		provider:  cfg.Provider,
		batchSize: cfg.BatchSize,
		renderDPI: cfg.RenderDPI,
		log:       cfg.Logger,
	}
}

// Run processes the PDF at pdfPath and writes progress frames to w: one
// processing frame per finished batch, then a single terminal frame.
// A page-level failure degrades that page; only document-level failures
// produce an error frame.
func (p *Pipeline) Run(ctx context.Context, pdfPath string, w *stream.Writer) error {
	f, err := os.Open(pdfPath)
	if err != nil {
		return p.fail(w, fmt.Errorf("failed to open PDF: %w", err))
	}
	defer f.Close()

	total, err := pdfpage.Count(f)
	if err != nil {
		return p.fail(w, err)
	}
	if total == 0 {
		return p.fail(w, fmt.Errorf("PDF has no pages"))
	}

	allPages := make([]types.Page, 0, total)
	for start := 1; start <= total; start += p.batchSize {
		end := start + p.batchSize - 1
		if end > total {
			end = total
		}

		batch, err := p.processBatch(ctx, f, pdfPath, start, end)
		if err != nil {
			return p.fail(w, err)
		}
		allPages = append(allPages, batch...)

		if err := w.SendProcessing(len(allPages), total, "Processing..."); err != nil {
			return fmt.Errorf("client went away: %w", err)
		}
	}

	if err := w.SendComplete(allPages); err != nil {
		return fmt.Errorf("client went away: %w", err)
	}
	return nil
}

// processBatch processes pages start..end concurrently, returning them in
// page order. Only context cancellation is a batch-level error.
func (p *Pipeline) processBatch(ctx context.Context, f *os.File, pdfPath string, start, end int) ([]types.Page, error) {
	n := end - start + 1
	pages := make([]types.Page, n)

	type extracted struct {
		pageNum int
		pdf     []byte
	}

	// Page extraction shares the file handle, so it stays sequential;
	// provider calls are the slow part and run concurrently.
	inputs := make([]extracted, 0, n)
	for pageNum := start; pageNum <= end; pageNum++ {
		pagePDF, err := pdfpage.ExtractPage(f, pageNum)
		if err != nil {
			p.log.Error("failed to extract page", "page", pageNum, "error", err)
			pagePDF = nil
		}
		inputs = append(inputs, extracted{pageNum: pageNum, pdf: pagePDF})
	}

	done := make(chan struct{}, n)
	for i, in := range inputs {
		go func(i int, in extracted) {
			defer func() { done <- struct{}{} }()
			pages[i] = p.processPage(ctx, pdfPath, in.pageNum, in.pdf)
		}(i, in)
	}
	for range inputs {
		select {
		case <-done:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	return pages, nil
}

// processPage builds one page. Failures degrade to an error paragraph so a
// single bad page never sinks the document.
func (p *Pipeline) processPage(ctx context.Context, pdfPath string, pageNum int, pagePDF []byte) types.Page {
	imageDataURL, err := pdfpage.RenderPageDataURL(pdfPath, pageNum, p.renderDPI)
	if err != nil {
		p.log.Warn("failed to render page preview", "page", pageNum, "error", err)
		imageDataURL = ""
	}

	structure, err := p.provider.StructurePage(ctx, providers.PageInput{
		PageNumber:   pageNum,
		PDF:          pagePDF,
		ImageDataURL: imageDataURL,
	})
	if err != nil {
		p.log.Error("failed to process page", "page", pageNum, "error", err)
		structure = []types.Element{{
			Kind:    types.ElementParagraph,
			Content: fmt.Sprintf("[Error processing this page: %v]", err),
		}}
	}

	return types.Page{
		PageNumber:   pageNum,
		Structure:    structure,
		ImageDataURL: imageDataURL,
	}
}

// fail emits the terminal error frame and returns the original error.
func (p *Pipeline) fail(w *stream.Writer, err error) error {
	p.log.Error("pipeline failed", "error", err)
	if sendErr := w.SendError(err.Error()); sendErr != nil {
		p.log.Error("failed to send error frame", "error", sendErr)
	}
	return err
}
