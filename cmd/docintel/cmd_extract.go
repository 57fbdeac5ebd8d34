package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/hazyhaar/docintel/chunk"
	"github.com/hazyhaar/docintel/keywords"
	"github.com/hazyhaar/docintel/pipeline"
	"github.com/hazyhaar/docintel/registry"
)

var (
	flagOutputFormat string
	flagChunk        bool
	flagKeywords     bool
	flagLanguages    bool
)

var extractCmd = &cobra.Command{
	Use:   "extract <file>",
	Short: "Extract one document and print the result as JSON",
	Args:  cobra.ExactArgs(1),
	RunE:  runExtract,
}

func init() {
	extractCmd.Flags().StringVar(&flagOutputFormat, "output-format", "", "output format (unified, element_based)")
	extractCmd.Flags().BoolVar(&flagChunk, "chunk", false, "chunk the extracted text")
	extractCmd.Flags().BoolVar(&flagKeywords, "keywords", false, "extract keywords")
	extractCmd.Flags().BoolVar(&flagLanguages, "languages", false, "detect languages")
}

func runExtract(cmd *cobra.Command, args []string) error {
	logger := setupLogger()
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

	result, err := p.ExtractFile(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

// applyExtractFlags layers CLI flags over the loaded config. Flags only turn
// features on; a config file remains the way to tune them.
func applyExtractFlags(cfg *pipeline.Config) {
	if flagOutputFormat != "" {
		cfg.OutputFormat = pipeline.OutputFormat(flagOutputFormat)
	}
	if flagChunk && cfg.Chunking == nil {
		cfg.Chunking = &chunk.Options{}
	}
	if flagKeywords && cfg.Keywords == nil {
		cfg.Keywords = &keywords.Config{}
	}
	if flagLanguages {
		cfg.DetectLanguages = true
	}
}
