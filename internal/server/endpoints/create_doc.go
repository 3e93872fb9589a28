package endpoints

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"
	"google.golang.org/api/googleapi"

	"github.com/docrelay/docrelay/internal/api"
	"github.com/docrelay/docrelay/internal/gdocs"
	"github.com/docrelay/docrelay/internal/svcctx"
	"github.com/docrelay/docrelay/internal/types"
)

// CreateDocEndpoint handles POST /api/create_google_doc.
type CreateDocEndpoint struct{}

var _ api.Endpoint = (*CreateDocEndpoint)(nil)

func (e *CreateDocEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/create_google_doc", e.handler
}

func (e *CreateDocEndpoint) RequiresInit() bool { return false }

func (e *CreateDocEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	token, ok := bearerToken(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Missing or invalid authorization token.")
		return
	}

	var req struct {
		Pages            []types.Page `json:"pages"`
		OriginalFileName string       `json:"originalFileName"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}
	if len(req.Pages) == 0 {
		writeError(w, http.StatusBadRequest, "pages are required")
		return
	}

	logger := svcctx.LoggerFrom(r.Context())

	docsSvc, err := gdocs.NewDocsService(r.Context(), token)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	url, err := docsSvc.CreateFromPages(r.Context(), req.Pages, req.OriginalFileName)
	if err != nil {
		logger.Error("document creation failed", "file", req.OriginalFileName, "error", err)

		// Pass Google's status and message through so the UI can show why
		// the user's own credential was rejected.
		var gerr *googleapi.Error
		if errors.As(err, &gerr) {
			writeError(w, gerr.Code, fmt.Sprintf("Google API Error: %s", gerr.Message))
			return
		}
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Unexpected error: %v", err))
		return
	}

	logger.Info("created Google Doc", "file", req.OriginalFileName, "url", url)
	writeJSON(w, http.StatusOK, map[string]string{"documentUrl": url})
}

func (e *CreateDocEndpoint) Command(_ func() string) *cobra.Command {
	// Driven by the convert command, which owns the full session flow.
	return nil
}
