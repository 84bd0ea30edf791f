// Package mcp exposes a loaded grammar over the Model Context Protocol:
// tools to start and advance validation sessions, inspect the current
// possibility set, and branch a session speculatively, so an editor or
// agent can drive guided editing (spec §1) without embedding the walker
// directly.
package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/raffazizzi/relaxwalk"
)

const serverInstructions = `relaxwalk MCP server — drives the streaming Relax NG validator from a schema tree and a stream of parse events, for guided-editing integrations.

Configuration: server defaults are configurable via RELAXWALK_* environment variables.

Key settings:
- RELAXWALK_SESSION_TTL (default: 30m) — idle timeout for a validation session
- RELAXWALK_SESSION_SWEEP_INTERVAL (default: 60s) — how often expired sessions are reclaimed
- RELAXWALK_MAX_SESSIONS (default: 256) — cap on concurrently live sessions (oldest evicted first)

Workflow: call relaxwalk_fire_event with a schema (file or inline content) and no session_id to start a
session; it returns a session_id to reuse on subsequent calls. Call relaxwalk_possible to inspect what
the session would accept next. Call relaxwalk_clone_session to branch a session before trying a
speculative edit, so the original can continue unaffected if the edit is rejected.`

// Run starts the MCP server over stdio and blocks until the client
// disconnects or the context is cancelled.
func Run(ctx context.Context) error {
	sessions.startSweeper(ctx, cfg.SessionSweepInterval)

	server := mcp.NewServer(
		&mcp.Implementation{Name: "relaxwalk", Version: relaxwalk.Version()},
		&mcp.ServerOptions{Instructions: serverInstructions},
	)
	registerAllTools(server)
	return server.Run(ctx, &mcp.StdioTransport{})
}

func registerAllTools(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "relaxwalk_fire_event",
		Description: "Advance a validation session by one parse event. Provide schema (file or inline content) with no session_id to start a new session; otherwise pass the session_id an earlier call returned. Returns the outcome (Ok, NoMatch, or Errors) and any validation diagnostics.",
	}, handleFireEvent)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "relaxwalk_possible",
		Description: "Return the set of events a validation session would currently accept, plus whether the document could legally end here. Use this to drive autocomplete or guided-editing suggestions.",
	}, handlePossible)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "relaxwalk_clone_session",
		Description: "Snapshot a validation session under a new session_id, so a speculative sequence of events can be tried on the clone without disturbing the original session.",
	}, handleCloneSession)
}

// errResult creates an MCP error result from an error.
func errResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: err.Error()}},
	}
}
