package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/hazyhaar/docintel/pipeline"
)

// version is set at build time via -ldflags.
var version = "dev"

var (
	flagConfig   string
	flagLogLevel string
)

var rootCmd = &cobra.Command{
	Use:   "docintel",
	Short: "Document intelligence: extraction, chunking, keywords",
	Long: "docintel extracts structured content from documents (PDF, DOCX, XLSX,\n" +
		"HTML, Markdown, CSV, plain text): text, tables, chunks, keywords and\n" +
		"detected languages, with a plugin registry for OCR backends,\n" +
		"post-processors and validators.",
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", "", "path to YAML config file")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(formatsCmd)
	rootCmd.Version = version
}

// setupLogger installs the process-wide slog handler. Logs go to stderr so
// stdout stays clean for JSON results.
func setupLogger() *slog.Logger {
	var lvl slog.Level
	switch flagLogLevel {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(logger)
	return logger
}

// loadPipelineConfig reads the config file when given, otherwise defaults.
func loadPipelineConfig(logger *slog.Logger) (pipeline.Config, error) {
	var cfg pipeline.Config
	if flagConfig != "" {
		loaded, err := pipeline.LoadConfig(flagConfig)
		if err != nil {
			return cfg, err
		}
		cfg = *loaded
	}
	cfg.Logger = logger
	return cfg, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
