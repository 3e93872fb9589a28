package endpoints

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/docrelay/docrelay/internal/api"
	"github.com/docrelay/docrelay/internal/pipeline"
	"github.com/docrelay/docrelay/internal/stream"
	"github.com/docrelay/docrelay/internal/svcctx"
)

// ProcessPDFEndpoint handles POST /api/process_pdf_stream: a multipart PDF
// upload answered with a progress frame stream.
type ProcessPDFEndpoint struct{}

var _ api.Endpoint = (*ProcessPDFEndpoint)(nil)

func (e *ProcessPDFEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/process_pdf_stream", e.handler
}

func (e *ProcessPDFEndpoint) RequiresInit() bool { return true }

func (e *ProcessPDFEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	const maxMemory = 100 << 20 // 100MB
	if err := r.ParseMultipartForm(maxMemory); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("failed to parse form: %v", err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "no file uploaded")
		return
	}
	defer file.Close()

	if !strings.HasSuffix(strings.ToLower(header.Filename), ".pdf") {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("file %s is not a PDF", header.Filename))
		return
	}

	// The pipeline needs a file on disk for page rendering.
	pdfPath, cleanup, err := saveUpload(file, header.Filename)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	defer cleanup()

	streamPipeline(w, r, pdfPath)
}

func (e *ProcessPDFEndpoint) Command(_ func() string) *cobra.Command {
	// Driven by the convert command, which owns the full session flow.
	return nil
}

// saveUpload writes an uploaded file to a temp location, returning the path
// and a cleanup func.
func saveUpload(src io.Reader, filename string) (string, func(), error) {
	tmpDir, err := os.MkdirTemp("", "docrelay-upload-*")
	if err != nil {
		return "", nil, fmt.Errorf("failed to create temp dir: %w", err)
	}
	cleanup := func() { os.RemoveAll(tmpDir) }

	path := filepath.Join(tmpDir, filepath.Base(filename))
	dst, err := os.Create(path)
	if err != nil {
		cleanup()
		return "", nil, fmt.Errorf("failed to create file: %w", err)
	}
	_, err = io.Copy(dst, src)
	dst.Close()
	if err != nil {
		cleanup()
		return "", nil, fmt.Errorf("failed to save file: %w", err)
	}
	return path, cleanup, nil
}

// streamPipeline runs the page pipeline against pdfPath, writing progress
// frames to the response.
func streamPipeline(w http.ResponseWriter, r *http.Request, pdfPath string) {
	ctx := r.Context()
	logger := svcctx.LoggerFrom(ctx)
	registry := svcctx.RegistryFrom(ctx)
	cfg := svcctx.ConfigFrom(ctx)

	provider := registry.Active()
	p := pipeline.New(pipeline.Config{
		Provider:  provider,
		BatchSize: cfg.Pipeline.BatchSize,
		RenderDPI: cfg.Pipeline.RenderDPI,
		Logger:    logger,
	})

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)

	if err := p.Run(ctx, pdfPath, stream.NewWriter(w)); err != nil {
		// The terminal error frame has already been sent (or the client is
		// gone); either way the response is committed.
		logger.Error("processing stream failed", "file", filepath.Base(pdfPath), "error", err)
	}
}
