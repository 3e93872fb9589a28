package endpoints

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/docrelay/docrelay/internal/api"
	"github.com/docrelay/docrelay/internal/svcctx"
)

// TranslateEndpoint handles POST /api/translate: a raw translation prompt
// answered with plain translated text.
type TranslateEndpoint struct{}

var _ api.Endpoint = (*TranslateEndpoint)(nil)

func (e *TranslateEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/translate", e.handler
}

func (e *TranslateEndpoint) RequiresInit() bool { return true }

func (e *TranslateEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Prompt string `json:"prompt"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Prompt == "" {
		writeError(w, http.StatusBadRequest, "prompt is required")
		return
	}

	provider := svcctx.RegistryFrom(r.Context()).Active()
	text, err := provider.Translate(r.Context(), req.Prompt)
	if err != nil {
		svcctx.LoggerFrom(r.Context()).Error("translation failed", "error", err)
		writeError(w, http.StatusBadGateway, fmt.Sprintf("translation failed: %v", err))
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, text)
}

func (e *TranslateEndpoint) Command(_ func() string) *cobra.Command {
	// Driven by the convert command, which owns the full session flow.
	return nil
}
