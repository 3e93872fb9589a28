package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/docrelay/docrelay/internal/config"
	"github.com/docrelay/docrelay/internal/server"
)

var (
	serveHost string
	servePort string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the DocRelay server",
	Long: `Start the DocRelay HTTP server.

The server provides:
  - /api/process_pdf_stream   - Upload a PDF, receive streamed progress
  - /api/process_drive_file   - Process a PDF from Google Drive
  - /api/list_drive_files     - List the user's Drive PDFs
  - /api/translate            - Translate text with the active provider
  - /api/create_google_doc    - Build a Google Doc from structured pages
  - /health                   - Server health check

Examples:
  docrelay serve                    # Start on default port 8080
  docrelay serve --port 3000        # Start on custom port
  docrelay serve --host 0.0.0.0     # Bind to all interfaces`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		// Set up logger
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))

		cfgMgr, err := config.NewManager(cfgFile)
		if err != nil {
			return err
		}
		cfgMgr.WatchConfig()

		host := serveHost
		if host == "" {
			host = cfgMgr.Get().Server.Host
		}
		port := servePort
		if port == "" {
			port = cfgMgr.Get().Server.Port
		}

		srv, err := server.New(server.Config{
			Host:          host,
			Port:          port,
			ConfigManager: cfgMgr,
			Logger:        logger,
		})
		if err != nil {
			return err
		}

		// Start server (blocks until shutdown)
		return srv.Start(ctx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "", "Host to bind to (default from config)")
	serveCmd.Flags().StringVar(&servePort, "port", "", "Port to listen on (default from config)")

	rootCmd.AddCommand(serveCmd)
}
