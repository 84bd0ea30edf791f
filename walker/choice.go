package walker

import (
	"github.com/raffazizzi/relaxwalk/event"
	"github.com/raffazizzi/relaxwalk/pattern"
)

// choiceWalker mirrors both branches speculatively: an incoming event is
// fired into a clone of every live branch, and only the branches that
// accepted survive. When a clean (error-free) branch survives, it wins
// outright — pruning the error branches, since a successful alternative
// is always preferable to a recovered one. When every surviving branch
// recorded errors, their errors are merged and reported once.
type choiceWalker struct {
	env      *Env
	branches []Walker

	cache possibilityCache
}

func newChoiceWalker(env *Env, n *pattern.Node) *choiceWalker {
	return &choiceWalker{env: env, branches: []Walker{New(env, n.AID), New(env, n.BID)}}
}

func (w *choiceWalker) Possible() event.Set {
	if s, ok := w.cache.get(); ok {
		return s
	}
	s := event.NewSet()
	for _, br := range w.branches {
		s.Union(br.Possible())
	}
	w.cache.store(s)
	return s
}

func (w *choiceWalker) FireEvent(e *event.Event) Outcome {
	var clean, recovered []Walker
	var errs []ValidationError

	for _, br := range w.branches {
		cp := br.Clone(&Memo{})
		outcome := cp.FireEvent(e)
		switch outcome.Status {
		case StatusOk:
			clean = append(clean, cp)
		case StatusErrors:
			recovered = append(recovered, cp)
			errs = append(errs, outcome.Errors...)
		}
	}

	switch {
	case len(clean) > 0:
		w.branches = clean
		w.cache.invalidate()
		return Ok()
	case len(recovered) > 0:
		w.branches = recovered
		w.cache.invalidate()
		return Errs(errs...)
	default:
		return NoMatch()
	}
}

func (w *choiceWalker) End(attribute bool) Outcome {
	if w.CanEnd(attribute) {
		return Ok()
	}
	return Errs(ValidationError{Kind: ErrChoiceExhausted, Message: "no remaining choice branch can complete here"})
}

func (w *choiceWalker) CanEnd(attribute bool) bool {
	for _, br := range w.branches {
		if br.CanEnd(attribute) {
			return true
		}
	}
	return false
}

func (w *choiceWalker) Clone(memo *Memo) Walker {
	if cp, ok := memo.lookup(w); ok {
		return cp
	}
	cp := &choiceWalker{env: memo.env(w.env), cache: w.cache}
	memo.register(w, cp)
	cp.branches = make([]Walker, len(w.branches))
	for i, br := range w.branches {
		cp.branches[i] = br.Clone(memo)
	}
	return cp
}

func (w *choiceWalker) SuppressAttributes() {
	for _, br := range w.branches {
		br.SuppressAttributes()
	}
}
