package walker

import (
	"github.com/raffazizzi/relaxwalk/event"
	"github.com/raffazizzi/relaxwalk/pattern"
)

// groupWalker matches Group(a, b): a then b in sequence. a takes
// precedence when both would accept an event; an event is routed to b
// only once a.CanEnd(false) holds (a has nothing left it must consume).
type groupWalker struct {
	env  *Env
	a, b Walker

	cache possibilityCache
}

func newGroupWalker(env *Env, n *pattern.Node) *groupWalker {
	return &groupWalker{env: env, a: New(env, n.AID), b: New(env, n.BID)}
}

func (w *groupWalker) Possible() event.Set {
	if s, ok := w.cache.get(); ok {
		return s
	}
	s := w.a.Possible()
	if w.a.CanEnd(false) {
		s.Union(w.b.Possible())
	}
	w.cache.store(s)
	return s
}

func (w *groupWalker) FireEvent(e *event.Event) Outcome {
	outcome := w.a.FireEvent(e)
	if outcome.Status != StatusNoMatch {
		w.cache.invalidate()
		return outcome
	}
	if w.a.CanEnd(false) {
		outcome = w.b.FireEvent(e)
		if outcome.Status != StatusNoMatch {
			w.cache.invalidate()
			return outcome
		}
	}
	return NoMatch()
}

func (w *groupWalker) End(attribute bool) Outcome {
	aOut := w.a.End(attribute)
	bOut := w.b.End(attribute)
	return mergeEnd(aOut, bOut)
}

func mergeEnd(outcomes ...Outcome) Outcome {
	var errs []ValidationError
	for _, o := range outcomes {
		if o.Status == StatusErrors {
			errs = append(errs, o.Errors...)
		}
	}
	if len(errs) == 0 {
		return Ok()
	}
	return Errs(errs...)
}

func (w *groupWalker) CanEnd(attribute bool) bool {
	return w.a.CanEnd(attribute) && w.b.CanEnd(attribute)
}

func (w *groupWalker) Clone(memo *Memo) Walker {
	if cp, ok := memo.lookup(w); ok {
		return cp
	}
	cp := &groupWalker{env: memo.env(w.env), cache: w.cache}
	memo.register(w, cp)
	cp.a = w.a.Clone(memo)
	cp.b = w.b.Clone(memo)
	return cp
}

func (w *groupWalker) SuppressAttributes() {
	w.a.SuppressAttributes()
	w.b.SuppressAttributes()
}
