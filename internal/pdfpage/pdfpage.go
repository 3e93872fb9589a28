// Package pdfpage splits uploaded PDFs into per-page units for processing:
// a single-page PDF for the AI provider and an optional rendered raster for
// the UI preview.
package pdfpage

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// Count returns the number of pages in a PDF.
func Count(rs io.ReadSeeker) (int, error) {
	n, err := api.PageCount(rs, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to get page count: %w", err)
	}
	return n, nil
}

// ExtractPage returns page n (1-based) as a standalone single-page PDF.
func ExtractPage(rs io.ReadSeeker, n int) ([]byte, error) {
	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("failed to rewind PDF: %w", err)
	}
	var buf bytes.Buffer
	if err := api.Trim(rs, &buf, []string{strconv.Itoa(n)}, nil); err != nil {
		return nil, fmt.Errorf("failed to extract page %d: %w", n, err)
	}
	return buf.Bytes(), nil
}

// RenderPageDataURL renders page n of the PDF at pdfPath to a PNG data URL
// using pdftoppm (poppler-utils). Returns "" without error when pdftoppm is
// not installed; the preview image is optional.
func RenderPageDataURL(pdfPath string, n int, dpi int) (string, error) {
	if _, err := exec.LookPath("pdftoppm"); err != nil {
		return "", nil
	}
	if dpi <= 0 {
		dpi = 150
	}

	tmpDir, err := os.MkdirTemp("", "docrelay-page-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	outputPrefix := filepath.Join(tmpDir, "page")
	pageStr := strconv.Itoa(n)
	cmd := exec.Command("pdftoppm",
		"-png",
		"-f", pageStr,
		"-l", pageStr,
		"-r", strconv.Itoa(dpi),
		"-singlefile",
		pdfPath,
		outputPrefix,
	)

	output, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("pdftoppm failed: %w (output: %s)", err, string(output))
	}

	data, err := os.ReadFile(outputPrefix + ".png")
	if err != nil {
		return "", fmt.Errorf("pdftoppm did not create expected output: %w", err)
	}

	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(data), nil
}
