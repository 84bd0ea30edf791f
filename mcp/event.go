package mcp

import (
	"fmt"

	"github.com/raffazizzi/relaxwalk/event"
	"github.com/raffazizzi/relaxwalk/namepat"
	"github.com/raffazizzi/relaxwalk/walker"
)

// eventInput is the JSON shape of one input event, per the spec's event
// kind table (§6.2): only the fields relevant to kind need be set.
type eventInput struct {
	Kind  string           `json:"kind"            jsonschema:"enterStartTag, leaveStartTag, endTag, attributeName, attributeValue, text, attributeNameAndValue, or startTagAndAttributes"`
	URI   string           `json:"uri,omitempty"   jsonschema:"Namespace URI, for name-bearing kinds"`
	Local string           `json:"local,omitempty" jsonschema:"Local name, for name-bearing kinds"`
	Value string           `json:"value,omitempty" jsonschema:"Text or attribute value payload"`
	Attrs []eventAttrInput `json:"attrs,omitempty" jsonschema:"Attribute list, for startTagAndAttributes only"`
}

type eventAttrInput struct {
	URI   string `json:"uri,omitempty"`
	Local string `json:"local"`
	Value string `json:"value"`
}

// toEvent builds the interned *event.Event the input describes.
func (in eventInput) toEvent() (*event.Event, error) {
	switch in.Kind {
	case "enterStartTag":
		return event.NewEnterStartTag(in.URI, in.Local), nil
	case "leaveStartTag":
		return event.NewLeaveStartTag(), nil
	case "endTag":
		return event.NewEndTag(in.URI, in.Local), nil
	case "attributeName":
		return event.NewAttributeName(in.URI, in.Local), nil
	case "attributeValue":
		return event.NewAttributeValue(in.Value), nil
	case "text":
		if in.Value == "" {
			return nil, fmt.Errorf("text events must carry a non-empty value")
		}
		return event.NewText(in.Value), nil
	case "attributeNameAndValue":
		return event.NewAttributeNameAndValue(in.URI, in.Local, in.Value), nil
	case "startTagAndAttributes":
		attrs := make([]event.AttrKV, 0, len(in.Attrs))
		for _, a := range in.Attrs {
			attrs = append(attrs, event.AttrKV{URI: a.URI, Local: a.Local, Value: a.Value})
		}
		return event.NewStartTagAndAttributes(in.URI, in.Local, attrs), nil
	default:
		return nil, fmt.Errorf("unknown event kind %q", in.Kind)
	}
}

// namePatternOutput is a JSON-friendly rendering of a namepat.NamePattern:
// either a concrete (uri, local) pair or, for the non-enumerable NsName and
// AnyName classes, a wildcard marker with the namespace constraint (if
// any) preserved.
type namePatternOutput struct {
	URI   string `json:"uri"`
	Local string `json:"local"`
}

func describeNamePattern(p namepat.NamePattern) []namePatternOutput {
	if p == nil {
		return nil
	}
	if p.Simple() {
		names := p.ToArray()
		out := make([]namePatternOutput, 0, len(names))
		for _, n := range names {
			out = append(out, namePatternOutput{URI: n.NS, Local: n.Name})
		}
		return out
	}
	switch v := p.(type) {
	case namepat.NsName:
		return []namePatternOutput{{URI: v.NS, Local: "*"}}
	default:
		return []namePatternOutput{{URI: "*", Local: "*"}}
	}
}

// possibleEventOutput is the JSON shape of one event in a possibility set.
type possibleEventOutput struct {
	Kind  string              `json:"kind"`
	Names []namePatternOutput `json:"names,omitempty"`
	Value string              `json:"value,omitempty"`
}

func describePossibleEvent(e *event.Event) possibleEventOutput {
	out := possibleEventOutput{Kind: e.Kind().String()}
	if names := describeNamePattern(e.NamePattern()); names != nil {
		out.Names = names
	}
	if e.Kind() == event.Text {
		out.Value = e.Value()
	}
	return out
}

// validationErrorOutput is the JSON shape of one walker.ValidationError.
type validationErrorOutput struct {
	Kind    string              `json:"kind"`
	Message string              `json:"message"`
	Names   []namePatternOutput `json:"names,omitempty"`
}

func describeOutcome(o walker.Outcome) (status string, errs []validationErrorOutput) {
	errs = make([]validationErrorOutput, 0, len(o.Errors))
	for _, e := range o.Errors {
		errs = append(errs, validationErrorOutput{
			Kind:    e.Kind.String(),
			Message: e.Message,
			Names:   describeNamePattern(e.Name),
		})
	}
	return o.Status.String(), errs
}
