package endpoints

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/docrelay/docrelay/internal/api"
	"github.com/docrelay/docrelay/internal/gdocs"
	"github.com/docrelay/docrelay/internal/svcctx"
)

// ProcessDriveFileEndpoint handles POST /api/process_drive_file: downloads
// a PDF from the user's Drive and answers with a progress frame stream.
type ProcessDriveFileEndpoint struct{}

var _ api.Endpoint = (*ProcessDriveFileEndpoint)(nil)

func (e *ProcessDriveFileEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/process_drive_file", e.handler
}

func (e *ProcessDriveFileEndpoint) RequiresInit() bool { return true }

func (e *ProcessDriveFileEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	token, ok := bearerToken(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Missing or invalid authorization token.")
		return
	}

	var req struct {
		FileID   string `json:"fileId"`
		FileName string `json:"fileName"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.FileID == "" {
		writeError(w, http.StatusBadRequest, "fileId is required")
		return
	}
	if req.FileName == "" {
		req.FileName = req.FileID + ".pdf"
	}

	logger := svcctx.LoggerFrom(r.Context())

	drive, err := gdocs.NewDriveService(r.Context(), token)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	data, err := drive.Download(r.Context(), req.FileID)
	if err != nil {
		logger.Error("drive download failed", "file_id", req.FileID, "error", err)
		writeError(w, http.StatusBadGateway, fmt.Sprintf("failed to fetch Drive file: %v", err))
		return
	}

	tmpDir, err := os.MkdirTemp("", "docrelay-drive-*")
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	defer os.RemoveAll(tmpDir)

	pdfPath := filepath.Join(tmpDir, filepath.Base(req.FileName))
	if err := os.WriteFile(pdfPath, data, 0o644); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	streamPipeline(w, r, pdfPath)
}

func (e *ProcessDriveFileEndpoint) Command(_ func() string) *cobra.Command {
	// Driven by the convert command, which owns the full session flow.
	return nil
}
