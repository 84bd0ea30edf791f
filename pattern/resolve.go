package pattern

import (
	"github.com/raffazizzi/relaxwalk/rngerrors"
)

// Resolve runs the resolution pass from the start pattern: every Ref node
// reachable from Start is bound to the ID of the Define whose name matches;
// Refs that occur only inside Define bodies are bound by ResolveAll, not
// here. The traversal does not cross
// ref→define boundaries (definitions are resolved lazily by the walker,
// not inlined here), since the grammar graph is expected to be cyclic via
// that very indirection.
//
// Resolve must run exactly once, before Prepare and before any walker is
// created. It returns the first unresolved reference encountered, wrapped
// as a *rngerrors.PreparationError.
func (g *Grammar) Resolve() error {
	visited := make(map[ID]bool)
	return g.resolveFrom(g.StartID, visited)
}

func (g *Grammar) resolveFrom(id ID, visited map[ID]bool) error {
	if id == NoID || visited[id] {
		return nil
	}
	visited[id] = true
	n := g.Node(id)

	switch n.Kind {
	case KindEmpty, KindNotAllowed, KindText, KindValue:
		return nil

	case KindData:
		if n.DataExceptID != NoID {
			return g.resolveFrom(n.DataExceptID, visited)
		}
		return nil

	case KindOneOrMore, KindList, KindAttribute, KindElement, KindDefine:
		return g.resolveFrom(n.ContentID, visited)

	case KindGroup, KindInterleave, KindChoice:
		if err := g.resolveFrom(n.AID, visited); err != nil {
			return err
		}
		return g.resolveFrom(n.BID, visited)

	case KindRef:
		defID, ok := g.DefineByName[n.RefName]
		if !ok {
			return &rngerrors.PreparationError{
				Path:    n.Origin,
				Message: "dangling reference to \"" + n.RefName + "\"",
				Cause:   rngerrors.ErrUnresolvedRef,
			}
		}
		n.ResolvedID = defID
		// Deliberately does not recurse into defID: that traversal
		// happens when (and if) the grammar's Define table is itself
		// walked, e.g. from Grammar.ResolveAll's iteration below. Crossing
		// here would follow the very cycle Ref exists to short-circuit.
		return nil

	default:
		return nil
	}
}

// ResolveAll resolves every Ref reachable from the start pattern AND every
// Define in the table, so a Define that is only reachable from another
// Define's body (never from Start directly during the first pass) still
// gets its internal refs bound.
func (g *Grammar) ResolveAll() error {
	visited := make(map[ID]bool)
	if err := g.resolveFrom(g.StartID, visited); err != nil {
		return err
	}
	for _, defID := range g.DefineByName {
		if err := g.resolveFrom(defID, visited); err != nil {
			return err
		}
	}
	return nil
}
