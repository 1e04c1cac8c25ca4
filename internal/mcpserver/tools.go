package mcpserver

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	toon "github.com/toon-format/toon-go"

	"github.com/arbiterhq/arbiter/internal/output"
)

// ReviewFileInput is the input for the review_file tool.
type ReviewFileInput struct {
	Path   string `json:"path" jsonschema:"Path of the source file to review."`
	Format string `json:"format,omitempty" jsonschema:"Output format: toon (default), json, or markdown."`
}

// ReviewFolderInput is the input for the review_folder tool.
type ReviewFolderInput struct {
	Path   string `json:"path" jsonschema:"Path of the folder to review."`
	Format string `json:"format,omitempty" jsonschema:"Output format: toon (default), json, or markdown."`
}

func getFormat(s string) output.Format {
	switch s {
	case "json":
		return output.FormatJSON
	case "markdown", "md":
		return output.FormatMarkdown
	default:
		return output.FormatTOON
	}
}

func formatOutput(doc *output.Document, format output.Format) (string, error) {
	switch format {
	case output.FormatJSON:
		out, err := json.MarshalIndent(doc.RenderData(), "", "  ")
		if err != nil {
			return "", err
		}
		return string(out), nil
	case output.FormatMarkdown:
		var sb strings.Builder
		if err := doc.RenderMarkdown(&sb); err != nil {
			return "", err
		}
		return sb.String(), nil
	default:
		out, err := toon.Marshal(doc.RenderData(), toon.WithIndent(2))
		if err != nil {
			return "", err
		}
		return string(out), nil
	}
}

func toolResult(doc *output.Document, format output.Format) (*mcp.CallToolResult, any, error) {
	text, err := formatOutput(doc, format)
	if err != nil {
		return nil, nil, err
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}, nil, nil
}

func toolError(msg string) (*mcp.CallToolResult, any, error) {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: "Error: " + msg},
		},
		IsError: true,
	}, nil, nil
}

func (s *Server) handleReviewFile(ctx context.Context, req *mcp.CallToolRequest, input ReviewFileInput) (*mcp.CallToolResult, any, error) {
	if input.Path == "" {
		return toolError("path is required")
	}

	report, err := s.reviewer.ReviewFile(ctx, input.Path)
	if err != nil {
		return toolError(err.Error())
	}
	return toolResult(output.FileDocument(report), getFormat(input.Format))
}

func (s *Server) handleReviewFolder(ctx context.Context, req *mcp.CallToolRequest, input ReviewFolderInput) (*mcp.CallToolResult, any, error) {
	if input.Path == "" {
		return toolError("path is required")
	}

	report, err := s.reviewer.ReviewFolder(ctx, input.Path)
	if err != nil {
		return toolError(err.Error())
	}
	return toolResult(output.FolderDocument(report), getFormat(input.Format))
}
