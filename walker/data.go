package walker

import (
	"fmt"

	"github.com/raffazizzi/relaxwalk/datatype"
	"github.com/raffazizzi/relaxwalk/event"
	"github.com/raffazizzi/relaxwalk/pattern"
)

// dataWalker matches a single text run against a Data leaf's datatype and
// parameter facets, additionally rejecting any value accepted by the
// except sub-pattern (tried only after the base match already succeeded,
// per §4.3).
type dataWalker struct {
	env     *Env
	node    *pattern.Node
	matched bool
	cache   possibilityCache
}

func newDataWalker(env *Env, n *pattern.Node) *dataWalker {
	return &dataWalker{env: env, node: n}
}

func (w *dataWalker) Possible() event.Set {
	if w.matched {
		return event.NewSet()
	}
	if s, ok := w.cache.get(); ok {
		return s
	}
	s := event.NewSet(event.NewPossibleText())
	w.cache.store(s)
	return s
}

func (w *dataWalker) FireEvent(e *event.Event) Outcome {
	if w.matched || e.Kind() != event.Text {
		return NoMatch()
	}
	w.matched = true
	w.cache.invalidate()

	dt := w.env.Grammar.Datatype(w.node)
	var ctx datatype.Context
	if dt.NeedsContext() {
		ctx = w.env.Resolver
	}
	if err := dt.Allows(e.Value(), w.node.DataParams, ctx); err != nil {
		return Errs(ValidationError{
			Kind:    ErrBadValue,
			Message: fmt.Sprintf("invalid %s value %q", w.node.DataType, e.Value()),
			Cause:   err,
		})
	}

	if w.node.DataExceptID != pattern.NoID {
		except := New(w.env, w.node.DataExceptID)
		outcome := except.FireEvent(event.NewText(e.Value()))
		if outcome.Status != StatusNoMatch {
			return Errs(ValidationError{
				Kind:    ErrBadValue,
				Message: fmt.Sprintf("value %q is excluded by the except clause", e.Value()),
			})
		}
	}
	return Ok()
}

func (w *dataWalker) End(attribute bool) Outcome {
	if w.CanEnd(attribute) {
		return Ok()
	}
	return Errs(ValidationError{Kind: ErrBadValue, Message: "expected value not provided"})
}

// CanEnd defers to the later end-of-element check when attribute is true,
// same reasoning as valueWalker: Data content is never an attribute
// obligation in its own right.
func (w *dataWalker) CanEnd(attribute bool) bool { return attribute || w.matched }

func (w *dataWalker) Clone(memo *Memo) Walker {
	if cp, ok := memo.lookup(w); ok {
		return cp
	}
	cp := &dataWalker{env: memo.env(w.env), node: w.node, matched: w.matched, cache: w.cache}
	memo.register(w, cp)
	return cp
}

func (w *dataWalker) SuppressAttributes() {}
