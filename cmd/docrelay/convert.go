package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/docrelay/docrelay/internal/client"
	"github.com/docrelay/docrelay/internal/session"
)

var (
	convertServer   string
	convertToken    string
	convertLanguage string
	convertDriveID  string
)

var convertCmd = &cobra.Command{
	Use:   "convert [pdf-file]",
	Short: "Convert a PDF into a structured Google Doc",
	Long: `Convert runs the full conversion session against a running server:
upload (or fetch from Drive), stream page-by-page progress, optionally
translate, and create a Google Doc.

Without --token the command stops after processing and prints the page
count. With --token it continues to document creation.

Examples:
  docrelay convert book.pdf
  docrelay convert book.pdf --token $GOOGLE_OAUTH_TOKEN
  docrelay convert book.pdf --token $GOOGLE_OAUTH_TOKEN --language French
  docrelay convert --drive-id 1AbC... --token $GOOGLE_OAUTH_TOKEN`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 && convertDriveID == "" {
			return fmt.Errorf("either a PDF path or --drive-id is required")
		}

		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelWarn,
		}))

		orch := session.NewOrchestrator(client.New(convertServer), logger)
		if convertToken != "" {
			orch.SetAuthToken(convertToken)
		}

		var (
			state    session.State
			fileName string
			err      error
		)
		if convertDriveID != "" {
			fileName = convertDriveID + ".pdf"
			fmt.Printf("Processing Drive file %s...\n", convertDriveID)
			state, err = orch.ProcessDriveFile(cmd.Context(), convertDriveID, fileName)
		} else {
			fileName = filepath.Base(args[0])
			f, openErr := os.Open(args[0])
			if openErr != nil {
				return openErr
			}
			defer f.Close()
			fmt.Printf("Processing %s...\n", fileName)
			state, err = orch.ProcessPDF(cmd.Context(), fileName, f)
		}
		if err != nil {
			return err
		}
		if state.Phase == session.PhaseError {
			return fmt.Errorf("processing failed: %s", state.Message)
		}
		fmt.Printf("Processed %d pages.\n", state.ProcessedPages)

		if convertToken == "" {
			fmt.Println("No --token given; skipping Google Doc creation.")
			return nil
		}

		if convertLanguage != "" {
			fmt.Printf("Translating to %s and creating Google Doc...\n", convertLanguage)
		} else {
			fmt.Println("Creating Google Doc...")
		}
		url, err := orch.CreateDocument(cmd.Context(), fileName, convertLanguage)
		if err != nil {
			return err
		}
		fmt.Printf("Created: %s\n", url)
		return nil
	},
}

func init() {
	convertCmd.Flags().StringVar(&convertServer, "server", "http://localhost:8080", "Server URL")
	convertCmd.Flags().StringVar(&convertToken, "token", "", "Google OAuth bearer token")
	convertCmd.Flags().StringVar(&convertLanguage, "language", "", "Target language for translation (optional)")
	convertCmd.Flags().StringVar(&convertDriveID, "drive-id", "", "Google Drive file ID to process instead of a local PDF")

	rootCmd.AddCommand(convertCmd)
}
