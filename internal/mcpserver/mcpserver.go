// Package mcpserver exposes arbiter reviews as MCP tools over stdio.
package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/arbiterhq/arbiter/internal/reviewer"
)

// Server wraps the MCP server and registers the review tools.
type Server struct {
	server   *mcp.Server
	reviewer *reviewer.Reviewer
}

// NewServer creates an MCP server backed by the given reviewer.
func NewServer(version string, r *reviewer.Reviewer) *Server {
	if version == "" {
		version = "dev"
	}
	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    "arbiter",
			Version: version,
		},
		nil,
	)

	s := &Server{server: server, reviewer: r}
	s.registerTools()
	return s
}

// Run serves MCP over stdio until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name: "review_file",
		Description: "Run a multi-pass AI code review on a single file. " +
			"Two analysis agents (general and security) review the code " +
			"concurrently; low-confidence results trigger a verification " +
			"pass. Returns issues, severity counts, a 0-100 risk score, " +
			"and the final confidence.",
	}, s.handleReviewFile)

	mcp.AddTool(s.server, &mcp.Tool{
		Name: "review_folder",
		Description: "Review every source file under a folder. Each file " +
			"gets the two-agent analysis; results are aggregated into " +
			"per-file summaries, a folder risk score, a ranking of files " +
			"by issue weight, and remediation recommendations.",
	}, s.handleReviewFolder)
}
