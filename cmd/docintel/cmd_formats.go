package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hazyhaar/docintel/pipeline"
	"github.com/hazyhaar/docintel/registry"
)

var formatsCmd = &cobra.Command{
	Use:   "formats",
	Short: "List supported MIME types",
	RunE: func(cmd *cobra.Command, _ []string) error {
		logger := setupLogger()
		cfg, err := loadPipelineConfig(logger)
		if err != nil {
			return err
		}
		p, err := pipeline.New(cfg, registry.New())
		if err != nil {
			return err
		}
		defer p.Close()

		for _, mt := range p.SupportedMimeTypes() {
			fmt.Println(mt)
		}
		return nil
	},
}
