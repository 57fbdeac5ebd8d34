package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/hazyhaar/docintel/pipeline"
	"github.com/hazyhaar/docintel/registry"
)

var (
	flagBatchGlob   string
	flagBatchOutDir string
)

var batchCmd = &cobra.Command{
	Use:   "batch [files...]",
	Short: "Extract many documents concurrently",
	Long: "Extracts every given file (or every file matching --glob) and writes\n" +
		"one JSON result per input. Failures are reported per document; the\n" +
		"batch always completes.",
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().StringVar(&flagBatchGlob, "glob", "", "glob pattern selecting input files")
	batchCmd.Flags().StringVarP(&flagBatchOutDir, "out", "o", "", "directory for per-document JSON results (default: stdout stream)")
	batchCmd.Flags().BoolVar(&flagChunk, "chunk", false, "chunk the extracted text")
	batchCmd.Flags().BoolVar(&flagKeywords, "keywords", false, "extract keywords")
}

func runBatch(cmd *cobra.Command, args []string) error {
	logger := setupLogger()

	paths := args
	if flagBatchGlob != "" {
		matches, err := filepath.Glob(flagBatchGlob)
		if err != nil {
			return fmt.Errorf("bad glob %q: %w", flagBatchGlob, err)
		}
		paths = append(paths, matches...)
	}
	if len(paths) == 0 {
		return fmt.Errorf("no input files")
	}

	cfg, err := loadPipelineConfig(logger)
	if err != nil {
		return err
	}
	applyExtractFlags(&cfg)

	p, err := pipeline.New(cfg, registry.New())
	if err != nil {
		return err
	}
	defer p.Close()

	inputs := make([]pipeline.BatchInput, len(paths))
	for i, path := range paths {
		inputs[i] = pipeline.BatchInput{Path: path}
	}

	items := p.ExtractBatch(cmd.Context(), inputs)

	failed := 0
	enc := json.NewEncoder(os.Stdout)
	for i, item := range items {
		if item.Err != nil {
			failed++
			logger.Error("extraction failed", "path", paths[i], "error", item.Err)
			continue
		}
		if flagBatchOutDir != "" {
			out := filepath.Join(flagBatchOutDir, filepath.Base(paths[i])+".json")
			data, err := json.MarshalIndent(item.Result, "", "  ")
			if err != nil {
				return err
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return err
			}
			continue
		}
		if err := enc.Encode(item.Result); err != nil {
			return err
		}
	}

	logger.Info("batch complete", "total", len(items), "failed", failed)
	if failed == len(items) {
		return fmt.Errorf("all %d documents failed", failed)
	}
	return nil
}
