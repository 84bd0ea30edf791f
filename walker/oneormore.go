package walker

import (
	"github.com/raffazizzi/relaxwalk/event"
	"github.com/raffazizzi/relaxwalk/pattern"
)

// oneOrMoreWalker matches OneOrMore(p): repeated applications of p. It is
// terminable exactly when its current iteration is (by the same
// derivative-style reasoning that makes OneOrMore(p) nullable iff p is
// nullable, regardless of how many prior iterations already completed).
type oneOrMoreWalker struct {
	env       *Env
	contentID pattern.ID
	current   Walker

	cache possibilityCache
}

func newOneOrMoreWalker(env *Env, n *pattern.Node) *oneOrMoreWalker {
	return &oneOrMoreWalker{env: env, contentID: n.ContentID, current: New(env, n.ContentID)}
}

func (w *oneOrMoreWalker) Possible() event.Set {
	if s, ok := w.cache.get(); ok {
		return s
	}
	s := w.current.Possible()
	if w.current.CanEnd(false) {
		s.Union(New(w.env, w.contentID).Possible())
	}
	w.cache.store(s)
	return s
}

func (w *oneOrMoreWalker) FireEvent(e *event.Event) Outcome {
	outcome := w.current.FireEvent(e)
	if outcome.Status != StatusNoMatch {
		w.cache.invalidate()
		return outcome
	}
	if w.current.CanEnd(false) {
		fresh := New(w.env, w.contentID)
		outcome = fresh.FireEvent(e)
		if outcome.Status != StatusNoMatch {
			w.current = fresh
			w.cache.invalidate()
			return outcome
		}
	}
	return NoMatch()
}

func (w *oneOrMoreWalker) End(attribute bool) Outcome {
	if w.CanEnd(attribute) {
		return Ok()
	}
	return Errs(ValidationError{Kind: ErrChoiceExhausted, Message: "required repetition not completed"})
}

func (w *oneOrMoreWalker) CanEnd(attribute bool) bool {
	return w.current.CanEnd(attribute)
}

func (w *oneOrMoreWalker) Clone(memo *Memo) Walker {
	if cp, ok := memo.lookup(w); ok {
		return cp
	}
	cp := &oneOrMoreWalker{env: memo.env(w.env), contentID: w.contentID, cache: w.cache}
	memo.register(w, cp)
	cp.current = w.current.Clone(memo)
	return cp
}

func (w *oneOrMoreWalker) SuppressAttributes() {
	w.current.SuppressAttributes()
}
