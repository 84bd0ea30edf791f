package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/raffazizzi/relaxwalk/validator"
)

type fireEventInput struct {
	Schema    *schemaInput `json:"schema,omitempty"     jsonschema:"Schema to start a new session from; required when session_id is omitted"`
	SessionID string       `json:"session_id,omitempty" jsonschema:"Existing session id to advance; omit to start a new session"`
	Event     eventInput   `json:"event"                jsonschema:"The event to fire"`
}

type fireEventOutput struct {
	SessionID string                  `json:"session_id"`
	Status    string                  `json:"status"`
	Errors    []validationErrorOutput `json:"errors,omitempty"`
}

func handleFireEvent(_ context.Context, _ *mcp.CallToolRequest, input fireEventInput) (*mcp.CallToolResult, fireEventOutput, error) {
	v, sessionID, err := resolveSession(input.SessionID, input.Schema)
	if err != nil {
		return errResult(err), fireEventOutput{}, nil
	}

	e, err := input.Event.toEvent()
	if err != nil {
		return errResult(err), fireEventOutput{}, nil
	}

	outcome := v.FireEvent(e)
	status, errs := describeOutcome(outcome)
	return nil, fireEventOutput{SessionID: sessionID, Status: status, Errors: errs}, nil
}

// resolveSession looks up sessionID if non-empty, otherwise starts a fresh
// session from schema and registers it under a new id.
func resolveSession(sessionID string, schema *schemaInput) (*validator.Validator, string, error) {
	if sessionID != "" {
		v, ok := sessions.get(sessionID)
		if !ok {
			return nil, "", unknownSessionError(sessionID)
		}
		return v, sessionID, nil
	}
	if schema == nil {
		return nil, "", missingSchemaError()
	}
	g, err := schema.resolve()
	if err != nil {
		return nil, "", err
	}
	v, err := validator.New(g)
	if err != nil {
		return nil, "", err
	}
	id, err := sessions.create(v)
	if err != nil {
		return nil, "", err
	}
	return v, id, nil
}
