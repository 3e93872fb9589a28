package endpoints

import (
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/docrelay/docrelay/internal/api"
	"github.com/docrelay/docrelay/internal/client"
	"github.com/docrelay/docrelay/internal/gdocs"
	"github.com/docrelay/docrelay/internal/svcctx"
)

// ListDriveFilesEndpoint handles POST /api/list_drive_files.
type ListDriveFilesEndpoint struct{}

var _ api.Endpoint = (*ListDriveFilesEndpoint)(nil)

func (e *ListDriveFilesEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/list_drive_files", e.handler
}

func (e *ListDriveFilesEndpoint) RequiresInit() bool { return false }

func (e *ListDriveFilesEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	token, ok := bearerToken(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Missing or invalid authorization token.")
		return
	}

	drive, err := gdocs.NewDriveService(r.Context(), token)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	files, err := drive.ListPDFs(r.Context())
	if err != nil {
		svcctx.LoggerFrom(r.Context()).Error("drive listing failed", "error", err)
		writeError(w, http.StatusBadGateway, fmt.Sprintf("failed to list Drive files: %v", err))
		return
	}

	writeJSON(w, http.StatusOK, files)
}

func (e *ListDriveFilesEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "drive-files",
		Short: "List Drive PDFs visible to a bearer token",
		Long:  "Lists the user's Drive PDFs. Reads the token from GOOGLE_OAUTH_TOKEN.",
		RunE: func(cmd *cobra.Command, args []string) error {
			token := os.Getenv("GOOGLE_OAUTH_TOKEN")
			if token == "" {
				return fmt.Errorf("GOOGLE_OAUTH_TOKEN is not set")
			}
			files, err := client.New(getServerURL()).ListDriveFiles(cmd.Context(), token)
			if err != nil {
				return err
			}
			for _, f := range files {
				fmt.Printf("%s  %s\n", f.ID, f.Name)
			}
			return nil
		},
	}
}
