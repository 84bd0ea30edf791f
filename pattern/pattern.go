// Package pattern implements the immutable simplified Relax NG pattern
// tree: leaves, unary and binary composites, references, and the grammar
// root, plus the resolution and preparation passes that must run to
// completion before any walker is created.
//
// Patterns are stored in a flat arena rather than as pointers-into-a-tree.
// A Ref node carries the index (ID) of the Define it names; the resolution
// pass fills in that index once for the lifetime of the Grammar. This
// sidesteps modeling the grammar's inherent reference cycles as object
// cycles: the arena is a plain slice, and a Ref is just an integer that
// happens to point backward or forward within it.
package pattern

import (
	"fmt"

	"github.com/raffazizzi/relaxwalk/datatype"
	"github.com/raffazizzi/relaxwalk/namepat"
)

// Kind is the closed set of pattern node kinds.
type Kind uint8

const (
	KindEmpty Kind = iota
	KindNotAllowed
	KindText
	KindValue
	KindData
	KindOneOrMore
	KindList
	KindAttribute
	KindElement
	KindDefine
	KindGroup
	KindInterleave
	KindChoice
	KindRef
)

func (k Kind) String() string {
	switch k {
	case KindEmpty:
		return "Empty"
	case KindNotAllowed:
		return "NotAllowed"
	case KindText:
		return "Text"
	case KindValue:
		return "Value"
	case KindData:
		return "Data"
	case KindOneOrMore:
		return "OneOrMore"
	case KindList:
		return "List"
	case KindAttribute:
		return "Attribute"
	case KindElement:
		return "Element"
	case KindDefine:
		return "Define"
	case KindGroup:
		return "Group"
	case KindInterleave:
		return "Interleave"
	case KindChoice:
		return "Choice"
	case KindRef:
		return "Ref"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// ID is a stable index into a Grammar's arena. NoID means "absent" (e.g. a
// Data pattern with no except clause).
type ID int32

// NoID is the sentinel absent-ID value.
const NoID ID = -1

// Node is the single tagged-variant representation for every pattern kind.
// Only the fields relevant to Kind are meaningful; this mirrors the
// closed, known set of pattern kinds rather than an open interface
// hierarchy, per the one-dispatch-per-kind design used throughout.
type Node struct {
	ID     ID
	Kind   Kind
	Origin string // debugging path, e.g. "start/element[foo]/attribute[bar]"

	// Value leaf.
	ValueRaw             string
	ValueType            string
	ValueDatatypeLibrary string
	ValueNS              string
	valuePrecomputed     datatype.Value // set by prepare; unexported, immutable after

	// Data leaf.
	DataType             string
	DataDatatypeLibrary   string
	DataParams            []datatype.Param
	DataExceptID          ID // NoID if no except clause

	// Attribute / Element name class.
	NameClass namepat.NamePattern

	// Unary content: Attribute, Element, OneOrMore, List, Define.
	ContentID ID

	// Define.
	DefineName string

	// Group / Interleave / Choice.
	AID, BID ID

	// Ref.
	RefName    string
	ResolvedID ID // NoID until the resolution pass runs

	// Grammar-level fields. Nothing in this module sets them on a Node; the
	// start pattern and definition table live on Grammar.StartID and
	// Grammar.DefineByName.
	StartID    ID
	DefineByName map[string]ID

	// Preparation results.
	hasAttribute      bool
	hasAttributeKnown bool
}

// Arena owns the flat slice of pattern nodes for one Grammar. Nodes are
// appended once at construction time and never removed; the tree (really a
// DAG, since Ref nodes may point into shared Define subtrees) is immortal
// once built.
type Arena struct {
	nodes []Node
}

// NewArena returns an empty arena.
func NewArena() *Arena {
	return &Arena{}
}

// Node returns a pointer to the node at id. It panics if id is out of
// range; a walker must never be handed an ID it did not originate from
// (invariant shared with spec §3.4).
func (a *Arena) Node(id ID) *Node {
	return &a.nodes[id]
}

// Len returns the number of nodes allocated so far.
func (a *Arena) Len() int { return len(a.nodes) }

func (a *Arena) alloc(kind Kind, origin string) ID {
	id := ID(len(a.nodes))
	a.nodes = append(a.nodes, Node{
		ID:           id,
		Kind:         kind,
		Origin:       origin,
		ContentID:    NoID,
		AID:          NoID,
		BID:          NoID,
		DataExceptID: NoID,
		StartID:      NoID,
		ResolvedID:   NoID,
	})
	return id
}

// NewEmpty allocates an Empty leaf.
func (a *Arena) NewEmpty(origin string) ID { return a.alloc(KindEmpty, origin) }

// NewNotAllowed allocates a NotAllowed leaf.
func (a *Arena) NewNotAllowed(origin string) ID { return a.alloc(KindNotAllowed, origin) }

// NewText allocates a Text leaf.
func (a *Arena) NewText(origin string) ID { return a.alloc(KindText, origin) }

// NewValue allocates a Value leaf. The precomputed parsed value is filled
// in by Prepare, not here, since it requires a Datatype registry.
func (a *Arena) NewValue(origin, raw, typ, datatypeLibrary, ns string) ID {
	id := a.alloc(KindValue, origin)
	n := a.Node(id)
	n.ValueRaw = raw
	n.ValueType = typ
	n.ValueDatatypeLibrary = datatypeLibrary
	n.ValueNS = ns
	return id
}

// NewData allocates a Data leaf. exceptID is NoID if there is no except
// clause.
func (a *Arena) NewData(origin, typ, datatypeLibrary string, params []datatype.Param, exceptID ID) ID {
	id := a.alloc(KindData, origin)
	n := a.Node(id)
	n.DataType = typ
	n.DataDatatypeLibrary = datatypeLibrary
	n.DataParams = params
	n.DataExceptID = exceptID
	return id
}

// NewOneOrMore allocates a OneOrMore(content) node.
func (a *Arena) NewOneOrMore(origin string, content ID) ID {
	id := a.alloc(KindOneOrMore, origin)
	a.Node(id).ContentID = content
	return id
}

// NewList allocates a List(content) node.
func (a *Arena) NewList(origin string, content ID) ID {
	id := a.alloc(KindList, origin)
	a.Node(id).ContentID = content
	return id
}

// NewAttribute allocates an Attribute(nameClass, content) node.
func (a *Arena) NewAttribute(origin string, nc namepat.NamePattern, content ID) ID {
	id := a.alloc(KindAttribute, origin)
	n := a.Node(id)
	n.NameClass = nc
	n.ContentID = content
	return id
}

// NewElement allocates an Element(nameClass, content) node.
func (a *Arena) NewElement(origin string, nc namepat.NamePattern, content ID) ID {
	id := a.alloc(KindElement, origin)
	n := a.Node(id)
	n.NameClass = nc
	n.ContentID = content
	return id
}

// NewDefine allocates a Define(name, body) node.
func (a *Arena) NewDefine(origin, name string, body ID) ID {
	id := a.alloc(KindDefine, origin)
	n := a.Node(id)
	n.DefineName = name
	n.ContentID = body
	return id
}

// NewGroup allocates a Group(a, b) node.
func (a *Arena) NewGroup(origin string, x, y ID) ID {
	id := a.alloc(KindGroup, origin)
	n := a.Node(id)
	n.AID, n.BID = x, y
	return id
}

// NewInterleave allocates an Interleave(a, b) node.
func (a *Arena) NewInterleave(origin string, x, y ID) ID {
	id := a.alloc(KindInterleave, origin)
	n := a.Node(id)
	n.AID, n.BID = x, y
	return id
}

// NewChoice allocates a Choice(a, b) node.
func (a *Arena) NewChoice(origin string, x, y ID) ID {
	id := a.alloc(KindChoice, origin)
	n := a.Node(id)
	n.AID, n.BID = x, y
	return id
}

// NewRef allocates a Ref(name) node. Its ResolvedID is NoID until the
// resolution pass runs.
func (a *Arena) NewRef(origin, name string) ID {
	id := a.alloc(KindRef, origin)
	a.Node(id).RefName = name
	return id
}

// Grammar is the root of a prepared pattern tree: the start pattern plus
// the name→Define table. Only Grammar creates the top-level name resolver
// used by callers (via the validator façade).
type Grammar struct {
	Arena      *Arena
	StartID    ID
	DefineByName map[string]ID
	Datatypes  *datatype.Registry

	prepared   bool
	elementIDs []ID // every Element node, collected by Prepare; backs misplaced-element recovery
}

// Node is a convenience accessor: g.Node(id) is g.Arena.Node(id).
func (g *Grammar) Node(id ID) *Node { return g.Arena.Node(id) }
