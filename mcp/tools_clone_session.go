package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type cloneSessionInput struct {
	SessionID string `json:"session_id" jsonschema:"Session id to branch from"`
}

type cloneSessionOutput struct {
	SessionID       string `json:"session_id"`
	ClonedSessionID string `json:"cloned_session_id"`
}

func handleCloneSession(_ context.Context, _ *mcp.CallToolRequest, input cloneSessionInput) (*mcp.CallToolResult, cloneSessionOutput, error) {
	v, ok := sessions.get(input.SessionID)
	if !ok {
		return errResult(unknownSessionError(input.SessionID)), cloneSessionOutput{}, nil
	}

	clone := v.Clone()
	cloneID, err := newSessionID()
	if err != nil {
		return errResult(err), cloneSessionOutput{}, nil
	}
	sessions.put(cloneID, clone)

	return nil, cloneSessionOutput{SessionID: input.SessionID, ClonedSessionID: cloneID}, nil
}
