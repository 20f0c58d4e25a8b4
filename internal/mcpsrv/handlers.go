package mcpsrv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/nughm3/gojudge/internal/contest"
	"github.com/nughm3/gojudge/internal/judge"
)

func (s *Server) handleGradeSubmission(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := getArgs(request)
	contestDir := stringArg(args, "contest_dir", "")
	taskName := stringArg(args, "task", "")
	language := stringArg(args, "language", "")
	source := stringArg(args, "source", "")

	c, err := contest.Load(contestDir)
	if err != nil {
		return errResult(fmt.Sprintf("load contest: %v", err)), nil
	}

	task, ok := c.Task(taskName)
	if !ok {
		return errResult(fmt.Sprintf("unknown task: %s", taskName)), nil
	}

	if !c.LanguageAllowed(language) {
		return errResult(fmt.Sprintf("language %s is not allowed by this contest", language)), nil
	}

	submission := judge.Submission{Source: source, Language: language}

	results, err := judge.Run(s.cfg, submission, task, c.ResourceLimits)
	if err != nil {
		var jerr *judge.Error
		if errors.As(err, &jerr) && jerr.Kind == judge.ErrCompileError {
			graded := judge.GradedTask{Verdict: judge.CompileError}
			return jsonResult(map[string]any{
				"graded": graded,
				"stderr": jerr.Stderr,
			})
		}
		return errResult(fmt.Sprintf("run submission: %v", err)), nil
	}

	graded := judge.Grade(task, results)
	return jsonResult(graded)
}

func (s *Server) handleListTasks(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := getArgs(request)
	contestDir := stringArg(args, "contest_dir", "")

	c, err := contest.Load(contestDir)
	if err != nil {
		return errResult(fmt.Sprintf("load contest: %v", err)), nil
	}

	type taskSummary struct {
		Name       string `json:"name"`
		Difficulty string `json:"difficulty,omitempty"`
		Subtasks   int    `json:"subtasks"`
		Tests      int    `json:"tests"`
	}

	summaries := make([]taskSummary, len(c.Tasks))
	for i, t := range c.Tasks {
		summary := taskSummary{Name: t.Name, Subtasks: len(t.Subtasks), Tests: len(t.Tests)}
		if t.Difficulty != nil {
			summary.Difficulty = t.Difficulty.String()
		}
		summaries[i] = summary
	}

	return jsonResult(summaries)
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errResult(fmt.Sprintf("json marshal failed: %v", err)), nil
	}
	return newTextResult(string(data)), nil
}

// getArgs safely extracts the arguments map from a CallToolRequest.
func getArgs(request mcp.CallToolRequest) map[string]any {
	if request.Params.Arguments == nil {
		return map[string]any{}
	}
	args, ok := request.Params.Arguments.(map[string]any)
	if !ok {
		return map[string]any{}
	}
	return args
}

// stringArg extracts a string argument with a default value.
func stringArg(args map[string]any, key, defaultVal string) string {
	val, ok := args[key]
	if !ok || val == nil {
		return defaultVal
	}
	s, ok := val.(string)
	if !ok || s == "" {
		return defaultVal
	}
	return s
}

// newTextResult creates a successful MCP tool result with text content.
func newTextResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

// errResult creates an MCP tool-level error result (IsError=true), not a
// transport-level JSON-RPC error.
func errResult(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: msg},
		},
	}
}
