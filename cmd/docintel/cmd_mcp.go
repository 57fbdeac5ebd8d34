package main

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/hazyhaar/docintel/pipeline"
	"github.com/hazyhaar/docintel/registry"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server over stdio",
	Long: "Starts a Model Context Protocol server on stdin/stdout exposing the\n" +
		"docintel_extract, docintel_detect and docintel_formats tools, so agent\n" +
		"hosts can drive extraction directly.",
	RunE: runMCP,
}

func runMCP(cmd *cobra.Command, _ []string) error {
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

	srv := mcp.NewServer(&mcp.Implementation{Name: "docintel", Version: version}, nil)
	p.RegisterMCP(srv)

	logger.Info("starting MCP server over stdio")
	return srv.Run(cmd.Context(), &mcp.StdioTransport{})
}
