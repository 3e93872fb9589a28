package main

import (
	"github.com/spf13/cobra"

	"github.com/docrelay/docrelay/version"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "docrelay",
	Short: "Convert PDFs into structured, translatable Google Docs",
	Long: `DocRelay converts PDF documents into structured Google Docs using
LLM-powered OCR and layout analysis.

The pipeline includes:
  - Per-page OCR and structure extraction (headings, paragraphs, tables)
  - Streamed page-by-page progress
  - Optional translation before document creation
  - Google Doc generation with formatting preserved`,
	Version: version.GitRelease,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.docrelay/config.yaml)",
	)

	rootCmd.AddCommand(versionCmd)
}
