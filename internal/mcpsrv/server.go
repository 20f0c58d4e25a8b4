// Package mcpsrv exposes grading and contest inspection over the Model
// Context Protocol, so an AI coding assistant can drive the judge core
// without shelling out to the CLI.
package mcpsrv

import (
	"context"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/nughm3/gojudge/internal/judge"
)

// Server wraps the MCP server instance and the judge configuration every
// tool call runs against.
type Server struct {
	mcpServer *server.MCPServer
	cfg       *judge.Config
}

// NewServer creates an MCP server with grade_submission and list_tasks
// registered, using cfg to resolve languages for every grade_submission
// call.
func NewServer(version string, cfg *judge.Config) *Server {
	s := server.NewMCPServer("gojudge", version, server.WithLogging())

	srv := &Server{mcpServer: s, cfg: cfg}
	srv.registerTools()

	return srv
}

// Start runs the server in stdio mode, blocking until ctx is canceled.
func (s *Server) Start(ctx context.Context) error {
	stdioServer := server.NewStdioServer(s.mcpServer)
	return stdioServer.Listen(ctx, os.Stdin, os.Stdout)
}

func (s *Server) registerTools() {
	gradeTool := mcp.NewTool("grade_submission",
		mcp.WithDescription("Build (if needed) and run a submission against every test in a task, then grade it. Returns the graded task as JSON."),
		mcp.WithString("contest_dir", mcp.Required(), mcp.Description("Path to the contest directory (containing contest.md)")),
		mcp.WithString("task", mcp.Required(), mcp.Description("Task name, as declared in its task.md front matter")),
		mcp.WithString("language", mcp.Required(), mcp.Description("Language name, as declared in the judge config")),
		mcp.WithString("source", mcp.Required(), mcp.Description("Submission source code")),
	)
	s.mcpServer.AddTool(gradeTool, s.handleGradeSubmission)

	listTool := mcp.NewTool("list_tasks",
		mcp.WithDescription("List every task in a contest with its difficulty and subtask/test counts."),
		mcp.WithString("contest_dir", mcp.Required(), mcp.Description("Path to the contest directory (containing contest.md)")),
	)
	s.mcpServer.AddTool(listTool, s.handleListTasks)
}
