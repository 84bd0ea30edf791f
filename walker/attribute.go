package walker

import (
	"github.com/raffazizzi/relaxwalk/event"
	"github.com/raffazizzi/relaxwalk/namepat"
	"github.com/raffazizzi/relaxwalk/pattern"
)

// attribute walker phases.
const (
	attrAwaitingName = iota
	attrAwaitingValue
	attrDone
)

// attributeWalker is the two-phase state machine of §4.3: await a
// matching attributeName, then delegate the value to the content
// pattern's walker.
type attributeWalker struct {
	env       *Env
	nameClass namepat.NamePattern
	contentID pattern.ID

	phase      int
	content    Walker
	suppressed bool
	cache      possibilityCache
}

func newAttributeWalker(env *Env, n *pattern.Node) *attributeWalker {
	return &attributeWalker{env: env, nameClass: n.NameClass, contentID: n.ContentID}
}

func (w *attributeWalker) Possible() event.Set {
	if w.suppressed {
		return event.NewSet()
	}
	if s, ok := w.cache.get(); ok {
		return s
	}
	var s event.Set
	switch w.phase {
	case attrAwaitingName:
		s = event.NewSet(event.NewPossibleAttributeName(w.nameClass))
	case attrAwaitingValue:
		// Filtered: only text/value possibilities from the content walker
		// are legal here (Relax NG restricts attribute content
		// syntactically to text-bearing patterns).
		s = w.content.Possible().Filter(func(e *event.Event) bool {
			return e.Kind() == event.Text
		})
	default:
		s = event.NewSet()
	}
	w.cache.store(s)
	return s
}

func (w *attributeWalker) FireEvent(e *event.Event) Outcome {
	if w.suppressed {
		return NoMatch()
	}
	switch w.phase {
	case attrAwaitingName:
		if e.Kind() != event.AttributeName {
			return NoMatch()
		}
		uri, local := e.Name()
		if !w.nameClass.Match(uri, local) {
			return NoMatch()
		}
		w.phase = attrAwaitingValue
		w.content = New(w.env, w.contentID)
		w.cache.invalidate()
		return Ok()

	case attrAwaitingValue:
		if e.Kind() != event.AttributeValue {
			return NoMatch()
		}
		outcome := w.content.FireEvent(event.NewText(e.Value()))
		w.phase = attrDone
		w.cache.invalidate()
		if outcome.Status == StatusNoMatch {
			return Errs(ValidationError{Kind: ErrBadValue, Message: "attribute value rejected"})
		}
		return outcome

	default:
		return NoMatch()
	}
}

func (w *attributeWalker) End(attribute bool) Outcome {
	if w.CanEnd(attribute) {
		return Ok()
	}
	return Errs(ValidationError{Kind: ErrMissingAttribute, Message: "required attribute not provided", Name: w.nameClass})
}

func (w *attributeWalker) CanEnd(bool) bool {
	return w.phase == attrDone && w.content.CanEnd(false)
}

func (w *attributeWalker) Clone(memo *Memo) Walker {
	if cp, ok := memo.lookup(w); ok {
		return cp
	}
	cp := &attributeWalker{env: memo.env(w.env), nameClass: w.nameClass, contentID: w.contentID, phase: w.phase, suppressed: w.suppressed, cache: w.cache}
	memo.register(w, cp)
	if w.content != nil {
		cp.content = w.content.Clone(memo)
	}
	return cp
}

// SuppressAttributes permanently closes this walker to further input. Called
// once a containing element has left its start tag; without it, a wildcard
// attribute pattern wrapped in OneOrMore would keep offering and accepting
// new attribute names indefinitely, past the point where attributes are
// syntactically possible.
func (w *attributeWalker) SuppressAttributes() {
	w.suppressed = true
	w.cache.invalidate()
}
