package walker

import (
	"github.com/raffazizzi/relaxwalk/event"
	"github.com/raffazizzi/relaxwalk/pattern"
)

// interleaveWalker matches Interleave(a, b): events may arrive from either
// side in any order. If only one side accepts an event, it is routed
// there. If both would accept, the tie-break alternates with the side not
// chosen last, to keep both branches live rather than starving one.
type interleaveWalker struct {
	env      *Env
	a, b     Walker
	lastWasA bool

	cache possibilityCache
}

func newInterleaveWalker(env *Env, n *pattern.Node) *interleaveWalker {
	return &interleaveWalker{env: env, a: New(env, n.AID), b: New(env, n.BID)}
}

func (w *interleaveWalker) Possible() event.Set {
	if s, ok := w.cache.get(); ok {
		return s
	}
	s := w.a.Possible()
	s.Union(w.b.Possible())
	w.cache.store(s)
	return s
}

func (w *interleaveWalker) FireEvent(e *event.Event) Outcome {
	acceptsA := tryAccepts(w.a, e)
	acceptsB := tryAccepts(w.b, e)

	var outcome Outcome
	switch {
	case acceptsA && acceptsB:
		if w.lastWasA {
			outcome = w.b.FireEvent(e)
			w.lastWasA = false
		} else {
			outcome = w.a.FireEvent(e)
			w.lastWasA = true
		}
	case acceptsA:
		outcome = w.a.FireEvent(e)
		w.lastWasA = true
	case acceptsB:
		outcome = w.b.FireEvent(e)
		w.lastWasA = false
	default:
		return NoMatch()
	}
	w.cache.invalidate()
	return outcome
}

func (w *interleaveWalker) End(attribute bool) Outcome {
	return mergeEnd(w.a.End(attribute), w.b.End(attribute))
}

func (w *interleaveWalker) CanEnd(attribute bool) bool {
	return w.a.CanEnd(attribute) && w.b.CanEnd(attribute)
}

func (w *interleaveWalker) Clone(memo *Memo) Walker {
	if cp, ok := memo.lookup(w); ok {
		return cp
	}
	cp := &interleaveWalker{env: memo.env(w.env), lastWasA: w.lastWasA, cache: w.cache}
	memo.register(w, cp)
	cp.a = w.a.Clone(memo)
	cp.b = w.b.Clone(memo)
	return cp
}

func (w *interleaveWalker) SuppressAttributes() {
	w.a.SuppressAttributes()
	w.b.SuppressAttributes()
}
