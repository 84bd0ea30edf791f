// Package event defines the small, value-typed parse event vocabulary that
// drives the walker automaton, plus an event set type used for possibility
// reporting.
//
// Two semantic domains share the same Kind space:
//
//   - Input events (fed to a walker): name-bearing kinds carry a concrete
//     (URI, LocalName) pair.
//   - Possibility events (returned by a walker): the three name-bearing
//     kinds carry a name pattern in NamePattern instead.
//
// Events are interned: two events built from equal parameters compare equal
// with == because construction funnels through a package-level intern
// table, keyed by a stringified parameter tuple. This lets Set use pointer
// identity for membership and keeps union/copy cheap.
package event

import (
	"fmt"
	"sync"

	"github.com/raffazizzi/relaxwalk/namepat"
)

// Kind identifies which of the eight Relax NG parse event shapes an Event
// carries.
type Kind uint8

const (
	// EnterStartTag marks the beginning of a start tag: "<tag".
	EnterStartTag Kind = iota
	// LeaveStartTag marks the ">" that closes a start tag.
	LeaveStartTag
	// EndTag marks "</tag>".
	EndTag
	// AttributeName is an attribute name token.
	AttributeName
	// AttributeValue is an attribute value, post entity-resolution.
	AttributeValue
	// Text is a maximal non-empty contiguous text run.
	Text
	// AttributeNameAndValue is the compact form of AttributeName followed
	// by AttributeValue. Input-only: never appears in a possibility set.
	AttributeNameAndValue
	// StartTagAndAttributes is the compact form of EnterStartTag, all
	// attribute events, and LeaveStartTag. Input-only: never appears in a
	// possibility set.
	StartTagAndAttributes
)

func (k Kind) String() string {
	switch k {
	case EnterStartTag:
		return "enterStartTag"
	case LeaveStartTag:
		return "leaveStartTag"
	case EndTag:
		return "endTag"
	case AttributeName:
		return "attributeName"
	case AttributeValue:
		return "attributeValue"
	case Text:
		return "text"
	case AttributeNameAndValue:
		return "attributeNameAndValue"
	case StartTagAndAttributes:
		return "startTagAndAttributes"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// IsCompact reports whether k is one of the two compact, input-only kinds.
func (k Kind) IsCompact() bool {
	return k == AttributeNameAndValue || k == StartTagAndAttributes
}

// IsNameBearing reports whether k carries a name (as a concrete pair on
// input, or as a NamePattern in a possibility set).
func (k Kind) IsNameBearing() bool {
	return k == EnterStartTag || k == EndTag || k == AttributeName
}

// AttrKV is one attribute in a compact StartTagAndAttributes event.
type AttrKV struct {
	URI, Local, Value string
}

// Event is a single parse event. The zero value is not meaningful; use the
// constructors below, which intern the result.
type Event struct {
	kind  Kind
	uri   string
	local string
	value string
	pat   namepat.NamePattern
	attrs []AttrKV
}

// Kind returns the event's kind.
func (e *Event) Kind() Kind { return e.kind }

// Name returns the concrete (uri, local) pair for an input name-bearing
// event. It panics if e carries a NamePattern instead (a possibility
// event) or is not name-bearing.
func (e *Event) Name() (uri, local string) {
	if e.pat != nil || !e.kind.IsNameBearing() {
		panic("event: Name called on non-concrete or non-name-bearing event")
	}
	return e.uri, e.local
}

// NamePattern returns the name pattern carried by a possibility event. It
// is nil for input events and for non-name-bearing kinds.
func (e *Event) NamePattern() namepat.NamePattern { return e.pat }

// Value returns the text payload of a Text or AttributeValue event.
func (e *Event) Value() string { return e.value }

// Attrs returns the attribute list of a StartTagAndAttributes event.
func (e *Event) Attrs() []AttrKV { return e.attrs }

var (
	internMu sync.Mutex
	intern   = make(map[string]*Event)
)

func internedKey(k Kind, uri, local, value string, pat namepat.NamePattern, attrs []AttrKV) string {
	key := fmt.Sprintf("%d|%s|%s|%s", k, uri, local, value)
	if pat != nil {
		key += fmt.Sprintf("|%v", pat)
	}
	for _, a := range attrs {
		key += fmt.Sprintf("|%s,%s,%s", a.URI, a.Local, a.Value)
	}
	return key
}

func lookupOrStore(k Kind, uri, local, value string, pat namepat.NamePattern, attrs []AttrKV) *Event {
	key := internedKey(k, uri, local, value, pat, attrs)
	internMu.Lock()
	defer internMu.Unlock()
	if ev, ok := intern[key]; ok {
		return ev
	}
	ev := &Event{kind: k, uri: uri, local: local, value: value, pat: pat, attrs: attrs}
	intern[key] = ev
	return ev
}

// NewEnterStartTag builds an input enterStartTag event.
func NewEnterStartTag(uri, local string) *Event {
	return lookupOrStore(EnterStartTag, uri, local, "", nil, nil)
}

// NewLeaveStartTag builds the singleton leaveStartTag event.
func NewLeaveStartTag() *Event {
	return lookupOrStore(LeaveStartTag, "", "", "", nil, nil)
}

// NewEndTag builds an input endTag event.
func NewEndTag(uri, local string) *Event {
	return lookupOrStore(EndTag, uri, local, "", nil, nil)
}

// NewAttributeName builds an input attributeName event.
func NewAttributeName(uri, local string) *Event {
	return lookupOrStore(AttributeName, uri, local, "", nil, nil)
}

// NewAttributeValue builds an input attributeValue event. Empty values are
// legal (unlike Text, which forbids the empty string at the boundary).
func NewAttributeValue(value string) *Event {
	return lookupOrStore(AttributeValue, "", "", value, nil, nil)
}

// NewText builds an input text event. Per the external contract, value
// must be non-empty; the walker layer (not this constructor) is
// responsible for enforcing that, since some internal callers
// (whitespace-only Empty matching) synthesize text events deliberately.
func NewText(value string) *Event {
	return lookupOrStore(Text, "", "", value, nil, nil)
}

// NewAttributeNameAndValue builds the compact input event.
func NewAttributeNameAndValue(uri, local, value string) *Event {
	return lookupOrStore(AttributeNameAndValue, uri, local, value, nil, nil)
}

// NewStartTagAndAttributes builds the compact input event.
func NewStartTagAndAttributes(uri, local string, attrs []AttrKV) *Event {
	return lookupOrStore(StartTagAndAttributes, uri, local, "", nil, attrs)
}

// NewPossibleEnterStartTag builds a possibility enterStartTag event
// carrying a name pattern rather than a concrete name.
func NewPossibleEnterStartTag(pat namepat.NamePattern) *Event {
	return lookupOrStore(EnterStartTag, "", "", "", pat, nil)
}

// NewPossibleEndTag builds a possibility endTag event carrying a name
// pattern.
func NewPossibleEndTag(pat namepat.NamePattern) *Event {
	return lookupOrStore(EndTag, "", "", "", pat, nil)
}

// NewPossibleAttributeName builds a possibility attributeName event
// carrying a name pattern.
func NewPossibleAttributeName(pat namepat.NamePattern) *Event {
	return lookupOrStore(AttributeName, "", "", "", pat, nil)
}

// NewPossibleText builds the singleton possibility text event,
// conventionally printed as text("*").
func NewPossibleText() *Event {
	return lookupOrStore(Text, "", "", "*", nil, nil)
}
