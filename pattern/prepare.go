package pattern

import (
	"github.com/raffazizzi/relaxwalk/datatype"
	"github.com/raffazizzi/relaxwalk/namepat"
	"github.com/raffazizzi/relaxwalk/nsresolve"
	"github.com/raffazizzi/relaxwalk/rngerrors"
)

// Prepare runs the preparation pass described in spec §4.1: it collects
// the set of namespace URIs appearing in name classes (reported back to
// the caller so it can preconfigure resolvers) and computes, per
// composite pattern, whether its subtree contains an Attribute pattern,
// exposed through HasAttribute. The walkers do not consult this flag.
//
// Prepare also resolves and caches each Value leaf's precomputed parsed
// value (using a synthetic namespace resolver seeded with the leaf's
// declared namespace, for QName/NOTATION-backed datatypes) and validates
// each Data leaf's parameter facets against its datatype at construction
// time, per spec §7 ("these exceptions are reported before a walker is
// ever created").
//
// Prepare must run after Resolve. Like Resolve, it does not cross
// ref→define boundaries during the traversal from Start; it separately
// prepares every entry in the Define table so indirectly-reachable
// definitions are covered exactly once.
func (g *Grammar) Prepare() (namespaces map[string]bool, err error) {
	namespaces = make(map[string]bool)
	visited := make(map[ID]bool)

	if err := g.prepareFrom(g.StartID, visited, namespaces); err != nil {
		return nil, err
	}
	for _, defID := range g.DefineByName {
		if err := g.prepareFrom(defID, visited, namespaces); err != nil {
			return nil, err
		}
	}
	g.prepared = true
	return namespaces, nil
}

func (g *Grammar) prepareFrom(id ID, visited map[ID]bool, namespaces map[string]bool) error {
	if id == NoID || visited[id] {
		return nil
	}
	visited[id] = true
	n := g.Node(id)

	switch n.Kind {
	case KindEmpty, KindNotAllowed, KindText:
		return nil

	case KindValue:
		return g.prepareValue(n, namespaces)

	case KindData:
		if err := g.prepareData(n); err != nil {
			return err
		}
		if n.DataExceptID != NoID {
			return g.prepareFrom(n.DataExceptID, visited, namespaces)
		}
		return nil

	case KindOneOrMore, KindList:
		has, err := g.prepareContent(n.ContentID, visited, namespaces)
		if err != nil {
			return err
		}
		n.hasAttribute, n.hasAttributeKnown = has, true
		return nil

	case KindAttribute:
		collectNameClassNamespaces(n.NameClass, namespaces)
		if _, err := g.prepareContent(n.ContentID, visited, namespaces); err != nil {
			return err
		}
		n.hasAttribute, n.hasAttributeKnown = true, true
		return nil

	case KindElement:
		collectNameClassNamespaces(n.NameClass, namespaces)
		if _, err := g.prepareContent(n.ContentID, visited, namespaces); err != nil {
			return err
		}
		// An Element's own attribute-ness does not propagate to its
		// parent: attributes are scoped to one element's start tag.
		n.hasAttribute, n.hasAttributeKnown = false, true
		g.elementIDs = append(g.elementIDs, n.ID)
		return nil

	case KindDefine:
		has, err := g.prepareContent(n.ContentID, visited, namespaces)
		if err != nil {
			return err
		}
		n.hasAttribute, n.hasAttributeKnown = has, true
		return nil

	case KindGroup, KindInterleave, KindChoice:
		hasA, err := g.prepareContent(n.AID, visited, namespaces)
		if err != nil {
			return err
		}
		hasB, err := g.prepareContent(n.BID, visited, namespaces)
		if err != nil {
			return err
		}
		n.hasAttribute, n.hasAttributeKnown = hasA || hasB, true
		return nil

	case KindRef:
		// The flag for a Ref is resolved lazily by the walker (it asks
		// the Define's node directly); nothing to compute here beyond
		// making sure the referenced Define itself gets prepared, which
		// the outer loop over DefineByName guarantees.
		return nil

	default:
		return nil
	}
}

// prepareContent prepares id (if not already visited) and returns whether
// its subtree contains an Attribute pattern. For a Ref, this means
// resolving through to its Define's already-computed flag.
func (g *Grammar) prepareContent(id ID, visited map[ID]bool, namespaces map[string]bool) (bool, error) {
	if id == NoID {
		return false, nil
	}
	if err := g.prepareFrom(id, visited, namespaces); err != nil {
		return false, err
	}
	return g.HasAttribute(id), nil
}

// HasAttribute reports whether id's subtree contains an Attribute
// pattern, per the flag computed by Prepare. It follows Ref indirection
// through to the resolved Define. Grammar.Prepare must have already run.
func (g *Grammar) HasAttribute(id ID) bool {
	n := g.Node(id)
	if n.Kind == KindRef {
		if n.ResolvedID == NoID {
			return false
		}
		return g.HasAttribute(n.ResolvedID)
	}
	return n.hasAttribute
}

// collectNameClassNamespaces walks a name class structurally and records
// every namespace URI it mentions. The algebra (Name, NameChoice, NsName,
// AnyName) is closed, so a type switch covers every case without an extra
// visitor interface in namepat itself.
func collectNameClassNamespaces(nc namepat.NamePattern, out map[string]bool) {
	if nc == nil {
		return
	}
	switch v := nc.(type) {
	case namepat.Name:
		out[v.NS] = true
	case namepat.NameChoice:
		collectNameClassNamespaces(v.A, out)
		collectNameClassNamespaces(v.B, out)
	case namepat.NsName:
		out[v.NS] = true
		collectNameClassNamespaces(v.Except, out)
	case namepat.AnyName:
		collectNameClassNamespaces(v.Except, out)
	}
}

func (g *Grammar) prepareValue(n *Node, namespaces map[string]bool) error {
	if n.ValueNS != "" {
		namespaces[n.ValueNS] = true
	}
	dt, ok := g.Datatypes.Lookup(n.ValueDatatypeLibrary, n.ValueType)
	if !ok {
		return &rngerrors.DatatypeError{
			Library: n.ValueDatatypeLibrary,
			Type:    n.ValueType,
			Message: "not registered",
			Cause:   rngerrors.ErrUnknownDatatype,
		}
	}
	var ctx datatype.Context
	if dt.NeedsContext() {
		synthetic := nsresolve.New()
		synthetic.EnterContextWithMapping(map[string]string{"": n.ValueNS})
		ctx = synthetic
	}
	v, err := dt.Parse(n.ValueRaw, ctx)
	if err != nil {
		return &rngerrors.DatatypeError{
			Library: n.ValueDatatypeLibrary,
			Type:    n.ValueType,
			Message: "invalid Value lexical form " + n.ValueRaw,
			Cause:   err,
		}
	}
	n.valuePrecomputed = v
	return nil
}

func (g *Grammar) prepareData(n *Node) error {
	dt, ok := g.Datatypes.Lookup(n.DataDatatypeLibrary, n.DataType)
	if !ok {
		return &rngerrors.DatatypeError{
			Library: n.DataDatatypeLibrary,
			Type:    n.DataType,
			Message: "not registered",
			Cause:   rngerrors.ErrUnknownDatatype,
		}
	}
	if err := dt.CheckParams(n.DataParams); err != nil {
		return &rngerrors.DatatypeError{
			Library: n.DataDatatypeLibrary,
			Type:    n.DataType,
			Message: "invalid parameter facets",
			Cause:   err,
		}
	}
	return nil
}

// MatchingElements returns the ID of every Element pattern in the grammar
// whose name class accepts (uri, local). Grammar.Prepare must have already
// run. This backs misplaced-element recovery (§4.5): the caller does not
// know a misplaced element's candidate set ahead of time because
// non-simple name classes (NsName, AnyName) cannot be enumerated into a
// static uri/local-keyed table, so candidates are found by filtering the
// full element list at recovery time instead.
func (g *Grammar) MatchingElements(uri, local string) []ID {
	var out []ID
	for _, id := range g.elementIDs {
		if g.Node(id).NameClass.Match(uri, local) {
			out = append(out, id)
		}
	}
	return out
}

// Datatype returns the registered Datatype for a Value or Data leaf node.
// Grammar.Prepare must have already run (to have validated it exists).
func (g *Grammar) Datatype(n *Node) datatype.Datatype {
	var lib, typ string
	switch n.Kind {
	case KindValue:
		lib, typ = n.ValueDatatypeLibrary, n.ValueType
	case KindData:
		lib, typ = n.DataDatatypeLibrary, n.DataType
	default:
		return nil
	}
	dt, _ := g.Datatypes.Lookup(lib, typ)
	return dt
}

// PrecomputedValue returns the cached parsed value for a Value leaf,
// computed once by Prepare.
func (n *Node) PrecomputedValue() datatype.Value { return n.valuePrecomputed }
