// Package datatype defines the Datatype interface consumed by the Value
// and Data pattern leaves, plus a small registry and a practical built-in
// subset (RNG "string"/"token" and an XSD-datatypes slice).
//
// Datatype implementations are external collaborators per the core's
// scope (spec §1): the core only depends on this interface, never on a
// concrete datatype library.
package datatype

import "fmt"

// Context is the minimal namespace-resolution capability a datatype needs
// to parse QName-like lexical forms. *nsresolve.Resolver satisfies this
// interface structurally; datatype does not import nsresolve directly so
// that datatype implementations stay free of any particular resolver
// representation.
type Context interface {
	ResolveName(qname string, forAttribute bool) (uri, local string, ok bool)
}

// Param is one named parameter facet attached to a Data pattern (e.g.
// minInclusive, pattern, length).
type Param struct {
	Name  string
	Value string
}

// Value is an opaque parsed representation of a datatype's lexical form.
// Two Values are only meaningfully compared via the Datatype that produced
// them.
type Value any

// Datatype is the interface the pattern tree and walkers consume for
// Value and Data leaves.
type Datatype interface {
	// LibraryURI returns the datatype library URI this type belongs to
	// (the empty string for RNG built-ins).
	LibraryURI() string

	// LocalName returns the type's local name (e.g. "string", "QName").
	LocalName() string

	// NeedsContext reports whether Parse requires a non-nil Context to
	// resolve a prefixed lexical form (true for QName and NOTATION).
	NeedsContext() bool

	// CheckParams validates parameter facets at pattern-construction time,
	// before any walker exists. An error here is a preparation-time
	// failure, not a per-event one.
	CheckParams(params []Param) error

	// Parse parses raw into a Value. ctx may be nil when NeedsContext is
	// false.
	Parse(raw string, ctx Context) (Value, error)

	// Equal reports whether a and b (both produced by Parse on this same
	// Datatype) are equal per the datatype's equality rules.
	Equal(a, b Value) bool

	// Allows reports whether raw satisfies params under ctx, returning a
	// nil error when allowed and a descriptive error otherwise. Used by
	// the Data pattern walker.
	Allows(raw string, params []Param, ctx Context) error
}

// Registry maps (libraryURI, localName) to a registered Datatype.
type Registry struct {
	types map[string]Datatype
}

// NewRegistry returns a Registry pre-populated with the built-in RNG and
// XSD datatype subset.
func NewRegistry() *Registry {
	r := &Registry{types: make(map[string]Datatype)}
	registerBuiltins(r)
	return r
}

func key(libraryURI, localName string) string {
	return libraryURI + "\x00" + localName
}

// Register adds or replaces the datatype for (libraryURI, localName).
func (r *Registry) Register(libraryURI string, dt Datatype) {
	r.types[key(libraryURI, dt.LocalName())] = dt
}

// Lookup returns the registered Datatype for (libraryURI, localName), or
// false if none is registered.
func (r *Registry) Lookup(libraryURI, localName string) (Datatype, bool) {
	dt, ok := r.types[key(libraryURI, localName)]
	return dt, ok
}

// ErrUnknown is returned (wrapped with details) by callers that fail a
// Registry lookup; datatype itself stays free of rngerrors to avoid an
// import cycle (rngerrors is a leaf consumed by pattern, not by datatype).
type ErrUnknown struct {
	LibraryURI string
	LocalName  string
}

func (e *ErrUnknown) Error() string {
	return fmt.Sprintf("datatype: unknown type %q in library %q", e.LocalName, e.LibraryURI)
}
