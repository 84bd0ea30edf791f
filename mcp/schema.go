package mcp

import (
	"fmt"

	"github.com/raffazizzi/relaxwalk/pattern"
)

// schemaInput represents the two ways a grammar can be provided to a tool
// that starts a new session. Exactly one of File or Content must be set.
type schemaInput struct {
	File    string `json:"file,omitempty"    jsonschema:"Path to a relaxwalk JSON schema tree on disk"`
	Content string `json:"content,omitempty" jsonschema:"Inline relaxwalk JSON schema tree (the writeTreeToJSON wire format)"`
}

// resolve loads and prepares the grammar named by in, ready for
// validator.New.
func (in schemaInput) resolve() (*pattern.Grammar, error) {
	count := 0
	if in.File != "" {
		count++
	}
	if in.Content != "" {
		count++
	}
	if count != 1 {
		return nil, fmt.Errorf("exactly one of schema.file or schema.content must be provided (got %d)", count)
	}

	var result *pattern.LoadResult
	var err error
	if in.File != "" {
		result, err = pattern.LoadFile(in.File)
	} else {
		result, err = pattern.Load(pattern.WithBytes([]byte(in.Content)))
	}
	if err != nil {
		return nil, err
	}
	return result.Grammar, nil
}
