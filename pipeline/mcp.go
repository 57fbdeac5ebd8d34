package pipeline

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hazyhaar/docintel/mimetype"
)

// RegisterMCP registers extraction tools on an MCP server, so agent hosts can
// drive the pipeline over the Model Context Protocol.
func (p *Pipeline) RegisterMCP(srv *mcp.Server) {
	mcp.AddTool(srv, &mcp.Tool{
		Name:        "docintel_extract",
		Description: "Extract structured content (text, tables, chunks, keywords) from a document. Pass a file path or base64 data.",
	}, p.handleExtractTool)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "docintel_detect",
		Description: "Detect the MIME type of a document from its bytes and filename.",
	}, p.handleDetectTool)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "docintel_formats",
		Description: "List the MIME types the extraction pipeline supports.",
	}, p.handleFormatsTool)
}

type extractToolInput struct {
	Path     string `json:"path,omitempty" jsonschema:"file path to extract"`
	Data     string `json:"data,omitempty" jsonschema:"base64-encoded document bytes"`
	Filename string `json:"filename,omitempty" jsonschema:"filename hint for format detection"`
}

type extractToolOutput struct {
	Result *ExtractionResult `json:"result"`
}

func (p *Pipeline) handleExtractTool(ctx context.Context, _ *mcp.CallToolRequest, input extractToolInput) (*mcp.CallToolResult, extractToolOutput, error) {
	switch {
	case input.Path != "":
		result, err := p.ExtractFile(ctx, input.Path)
		if err != nil {
			return nil, extractToolOutput{}, err
		}
		return nil, extractToolOutput{Result: result}, nil
	case input.Data != "":
		data, err := base64.StdEncoding.DecodeString(input.Data)
		if err != nil {
			return nil, extractToolOutput{}, fmt.Errorf("decode base64 data: %w", err)
		}
		result, err := p.ExtractBytes(ctx, data, input.Filename)
		if err != nil {
			return nil, extractToolOutput{}, err
		}
		return nil, extractToolOutput{Result: result}, nil
	default:
		return nil, extractToolOutput{}, fmt.Errorf("either path or data is required")
	}
}

type detectToolInput struct {
	Data     string `json:"data" jsonschema:"base64-encoded document bytes"`
	Filename string `json:"filename,omitempty" jsonschema:"filename hint"`
}

type detectToolOutput struct {
	MimeType  string `json:"mime_type"`
	Supported bool   `json:"supported"`
}

func (p *Pipeline) handleDetectTool(_ context.Context, _ *mcp.CallToolRequest, input detectToolInput) (*mcp.CallToolResult, detectToolOutput, error) {
	data, err := base64.StdEncoding.DecodeString(input.Data)
	if err != nil {
		return nil, detectToolOutput{}, fmt.Errorf("decode base64 data: %w", err)
	}
	mime := mimetype.Detect(data, input.Filename)
	_, supported := p.decoders.For(mime)
	return nil, detectToolOutput{MimeType: mime, Supported: supported}, nil
}

type formatsToolInput struct{}

type formatsToolOutput struct {
	MimeTypes []string `json:"mime_types"`
}

func (p *Pipeline) handleFormatsTool(_ context.Context, _ *mcp.CallToolRequest, _ formatsToolInput) (*mcp.CallToolResult, formatsToolOutput, error) {
	return nil, formatsToolOutput{MimeTypes: p.SupportedMimeTypes()}, nil
}
