package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type possibleInput struct {
	SessionID string `json:"session_id" jsonschema:"Session id to inspect"`
}

type possibleOutput struct {
	SessionID string                `json:"session_id"`
	CanEnd    bool                  `json:"can_end"`
	Events    []possibleEventOutput `json:"events"`
}

func handlePossible(_ context.Context, _ *mcp.CallToolRequest, input possibleInput) (*mcp.CallToolResult, possibleOutput, error) {
	v, ok := sessions.get(input.SessionID)
	if !ok {
		return errResult(unknownSessionError(input.SessionID)), possibleOutput{}, nil
	}

	set := v.Possible()
	slice := set.ToSlice()
	events := make([]possibleEventOutput, 0, len(slice))
	for _, e := range slice {
		events = append(events, describePossibleEvent(e))
	}

	return nil, possibleOutput{
		SessionID: input.SessionID,
		CanEnd:    v.CanEnd(false),
		Events:    events,
	}, nil
}
