// Package commands provides CLI command handlers for relaxwalk.
package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/raffazizzi/relaxwalk/event"
)

// Output format constants.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// ValidateOutputFormat validates an output format and returns an error if
// invalid.
func ValidateOutputFormat(format string) error {
	if format != FormatText && format != FormatJSON {
		return fmt.Errorf("invalid format %q; valid formats: %s, %s", format, FormatText, FormatJSON)
	}
	return nil
}

// OutputJSON marshals data as indented JSON to stdout.
func OutputJSON(data any) error {
	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling to json: %w", err)
	}
	fmt.Println(string(b))
	return nil
}

// eventSpec is the on-disk JSON shape of one event in an events file, per
// the spec's event kind table (§6.2). Only the fields relevant to kind
// need be set.
type eventSpec struct {
	Kind  string     `json:"kind"`
	URI   string     `json:"uri,omitempty"`
	Local string     `json:"local,omitempty"`
	Value string     `json:"value,omitempty"`
	Attrs []attrSpec `json:"attrs,omitempty"`
}

type attrSpec struct {
	URI   string `json:"uri,omitempty"`
	Local string `json:"local"`
	Value string `json:"value"`
}

func (s eventSpec) toEvent() (*event.Event, error) {
	switch s.Kind {
	case "enterStartTag":
		return event.NewEnterStartTag(s.URI, s.Local), nil
	case "leaveStartTag":
		return event.NewLeaveStartTag(), nil
	case "endTag":
		return event.NewEndTag(s.URI, s.Local), nil
	case "attributeName":
		return event.NewAttributeName(s.URI, s.Local), nil
	case "attributeValue":
		return event.NewAttributeValue(s.Value), nil
	case "text":
		if s.Value == "" {
			return nil, fmt.Errorf("text events must carry a non-empty value")
		}
		return event.NewText(s.Value), nil
	case "attributeNameAndValue":
		return event.NewAttributeNameAndValue(s.URI, s.Local, s.Value), nil
	case "startTagAndAttributes":
		attrs := make([]event.AttrKV, 0, len(s.Attrs))
		for _, a := range s.Attrs {
			attrs = append(attrs, event.AttrKV{URI: a.URI, Local: a.Local, Value: a.Value})
		}
		return event.NewStartTagAndAttributes(s.URI, s.Local, attrs), nil
	default:
		return nil, fmt.Errorf("unknown event kind %q", s.Kind)
	}
}

// LoadEvents reads a JSON array of event specs from path and converts each
// to an interned *event.Event, in file order.
func LoadEvents(path string) ([]*event.Event, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var specs []eventSpec
	if err := json.Unmarshal(data, &specs); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	events := make([]*event.Event, 0, len(specs))
	for i, s := range specs {
		e, err := s.toEvent()
		if err != nil {
			return nil, fmt.Errorf("event %d in %s: %w", i, path, err)
		}
		events = append(events, e)
	}
	return events, nil
}
