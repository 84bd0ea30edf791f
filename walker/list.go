package walker

import (
	"strings"

	"github.com/raffazizzi/relaxwalk/event"
	"github.com/raffazizzi/relaxwalk/pattern"
)

// listWalker treats one incoming text run as whitespace-separated tokens,
// validating each in order against a single shared content walker (so a
// list { integer, string } enforces token order, not just token
// membership). Like Value and Data, it is single-shot: exactly one Text
// event is expected.
type listWalker struct {
	env       *Env
	contentID pattern.ID
	matched   bool
	ok        bool
	cache     possibilityCache
}

func newListWalker(env *Env, n *pattern.Node) *listWalker {
	return &listWalker{env: env, contentID: n.ContentID}
}

func (w *listWalker) Possible() event.Set {
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

func (w *listWalker) FireEvent(e *event.Event) Outcome {
	if w.matched || e.Kind() != event.Text {
		return NoMatch()
	}
	w.matched = true
	w.cache.invalidate()

	content := New(w.env, w.contentID)
	tokens := strings.Fields(e.Value())
	for _, tok := range tokens {
		outcome := content.FireEvent(event.NewText(tok))
		switch outcome.Status {
		case StatusOk:
			continue
		case StatusErrors:
			w.ok = false
			return outcome
		default: // StatusNoMatch
			w.ok = false
			return Errs(ValidationError{
				Kind:    ErrBadValue,
				Message: "list token \"" + tok + "\" did not match the expected item pattern",
			})
		}
	}
	if !content.CanEnd(false) {
		w.ok = false
		return Errs(ValidationError{Kind: ErrBadValue, Message: "list is missing required items"})
	}
	w.ok = true
	return Ok()
}

func (w *listWalker) End(attribute bool) Outcome {
	if w.CanEnd(attribute) {
		return Ok()
	}
	return Errs(ValidationError{Kind: ErrBadValue, Message: "expected list value not provided"})
}

// CanEnd defers to the later end-of-element check when attribute is true,
// same reasoning as valueWalker and dataWalker.
func (w *listWalker) CanEnd(attribute bool) bool { return attribute || (w.matched && w.ok) }

func (w *listWalker) Clone(memo *Memo) Walker {
	if cp, ok := memo.lookup(w); ok {
		return cp
	}
	cp := &listWalker{env: memo.env(w.env), contentID: w.contentID, matched: w.matched, ok: w.ok, cache: w.cache}
	memo.register(w, cp)
	return cp
}

func (w *listWalker) SuppressAttributes() {}
