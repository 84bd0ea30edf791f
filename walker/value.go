package walker

import (
	"fmt"

	"github.com/raffazizzi/relaxwalk/datatype"
	"github.com/raffazizzi/relaxwalk/event"
	"github.com/raffazizzi/relaxwalk/pattern"
)

// valueWalker matches a single text run against a precomputed Value leaf.
// It is single-shot: the first Text event it sees, matching or not,
// exhausts the pattern (Relax NG's Value content is exactly one text
// occurrence).
type valueWalker struct {
	env     *Env
	node    *pattern.Node
	matched bool
	cache   possibilityCache
}

func newValueWalker(env *Env, n *pattern.Node) *valueWalker {
	return &valueWalker{env: env, node: n}
}

func (w *valueWalker) Possible() event.Set {
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

func (w *valueWalker) FireEvent(e *event.Event) Outcome {
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
	v, err := dt.Parse(e.Value(), ctx)
	if err != nil {
		return Errs(ValidationError{
			Kind:    ErrBadValue,
			Message: fmt.Sprintf("invalid %s value %q", w.node.ValueType, e.Value()),
			Cause:   err,
		})
	}
	if !dt.Equal(v, w.node.PrecomputedValue()) {
		return Errs(ValidationError{
			Kind:    ErrBadValue,
			Message: fmt.Sprintf("value %q does not equal expected %q", e.Value(), w.node.ValueRaw),
		})
	}
	return Ok()
}

func (w *valueWalker) End(attribute bool) Outcome {
	if w.CanEnd(attribute) {
		return Ok()
	}
	return Errs(ValidationError{Kind: ErrBadValue, Message: "expected value not provided"})
}

// CanEnd ignores the matched state when attribute is true: Value content is
// never itself an attribute obligation, so a leaveStartTag-time check
// defers to the later end-of-element check.
func (w *valueWalker) CanEnd(attribute bool) bool {
	return attribute || w.matched || w.node.ValueRaw == ""
}

func (w *valueWalker) Clone(memo *Memo) Walker {
	if cp, ok := memo.lookup(w); ok {
		return cp
	}
	cp := &valueWalker{env: memo.env(w.env), node: w.node, matched: w.matched, cache: w.cache}
	memo.register(w, cp)
	return cp
}

func (w *valueWalker) SuppressAttributes() {}
