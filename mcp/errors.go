package mcp

import "fmt"

func unknownSessionError(id string) error {
	return fmt.Errorf("no live session %q (it may have expired or never existed)", id)
}

func missingSchemaError() error {
	return fmt.Errorf("schema is required when session_id is omitted")
}
