package walker

import (
	"github.com/raffazizzi/relaxwalk/event"
	"github.com/raffazizzi/relaxwalk/namepat"
	"github.com/raffazizzi/relaxwalk/pattern"
)

// Element walker phases, per the four-state machine of §4.3.
const (
	elemBeforeStart = iota
	elemInStartTag
	elemInContent
	elemAfterEnd
)

// elementWalker matches a balanced start/end-tag region. Attribute and
// non-attribute content are not separated into distinct sub-walkers here;
// a single content walker (built from whatever Group/Interleave shape the
// simplifier produced) handles both, with SuppressAttributes called at
// leaveStartTag so attribute possibilities and further attribute events
// are rejected from then on — the "clean separation" the contract
// requires is observable behavior, not a distinct field.
type elementWalker struct {
	env       *Env
	nameClass namepat.NamePattern
	contentID pattern.ID

	phase   int
	content Walker
	cache   possibilityCache
}

func newElementWalker(env *Env, n *pattern.Node) *elementWalker {
	return &elementWalker{env: env, nameClass: n.NameClass, contentID: n.ContentID}
}

func (w *elementWalker) Possible() event.Set {
	if s, ok := w.cache.get(); ok {
		return s
	}
	var s event.Set
	switch w.phase {
	case elemBeforeStart:
		s = event.NewSet(event.NewPossibleEnterStartTag(w.nameClass))
	case elemInStartTag:
		// Only attribute events belong inside a start tag. A text
		// possibility stands for an attribute value, so it is kept only
		// while some attribute is awaiting its value.
		awaitingValue := tryAccepts(w.content, event.NewAttributeValue(""))
		s = w.content.Possible().Filter(func(e *event.Event) bool {
			return e.Kind() == event.AttributeName || (awaitingValue && e.Kind() == event.Text)
		})
		if w.content.CanEnd(true) {
			s.Add(event.NewLeaveStartTag())
		}
	case elemInContent:
		s = w.content.Possible()
		if w.content.CanEnd(false) {
			s.Add(event.NewPossibleEndTag(w.nameClass))
		}
	default:
		s = event.NewSet()
	}
	w.cache.store(s)
	return s
}

func (w *elementWalker) FireEvent(e *event.Event) Outcome {
	switch w.phase {
	case elemBeforeStart:
		if e.Kind() != event.EnterStartTag {
			return NoMatch()
		}
		uri, local := e.Name()
		if !w.nameClass.Match(uri, local) {
			return NoMatch()
		}
		w.phase = elemInStartTag
		w.content = New(w.env, w.contentID)
		w.cache.invalidate()
		return Ok()

	case elemInStartTag:
		if e.Kind() == event.LeaveStartTag {
			outcome := w.content.End(true)
			w.content.SuppressAttributes()
			w.phase = elemInContent
			w.cache.invalidate()
			return outcome
		}
		outcome := w.content.FireEvent(e)
		w.cache.invalidate()
		if outcome.Status == StatusNoMatch {
			if e.Kind() == event.AttributeValue {
				// No attribute is awaiting a value: this value belongs to
				// an attribute name already reported as unexpected.
				return Ok()
			}
			_, local := safeAttrName(e)
			return Errs(ValidationError{Kind: ErrUnexpectedAttribute, Message: "unexpected attribute " + local})
		}
		return outcome

	case elemInContent:
		if e.Kind() == event.EndTag {
			uri, local := e.Name()
			if !w.nameClass.Match(uri, local) {
				return NoMatch()
			}
			outcome := w.content.End(false)
			w.phase = elemAfterEnd
			w.cache.invalidate()
			return outcome
		}
		outcome := w.content.FireEvent(e)
		w.cache.invalidate()
		return outcome

	default:
		return NoMatch()
	}
}

func safeAttrName(e *event.Event) (uri, local string) {
	if e.Kind() == event.AttributeName {
		return e.Name()
	}
	return "", e.Kind().String()
}

func (w *elementWalker) End(attribute bool) Outcome {
	if w.CanEnd(attribute) {
		return Ok()
	}
	switch w.phase {
	case elemBeforeStart:
		return Errs(ValidationError{Kind: ErrUnexpectedElement, Message: "element never started", Name: w.nameClass})
	case elemInStartTag:
		return Errs(ValidationError{Kind: ErrMissingAttribute, Message: "required attribute not provided"})
	case elemInContent:
		return Errs(ValidationError{Kind: ErrChoiceExhausted, Message: "element content incomplete"})
	default:
		return Ok()
	}
}

func (w *elementWalker) CanEnd(attribute bool) bool {
	switch w.phase {
	case elemInStartTag:
		return attribute && w.content.CanEnd(true)
	case elemInContent:
		// The element is still open: only its matching endTag finishes it.
		return attribute
	case elemAfterEnd:
		return true
	default:
		// elemBeforeStart: this element is not itself an attribute
		// obligation, so a leaveStartTag-time (attribute=true) check always
		// passes; the final check correctly requires it to have appeared.
		return attribute
	}
}

func (w *elementWalker) Clone(memo *Memo) Walker {
	if cp, ok := memo.lookup(w); ok {
		return cp
	}
	cp := &elementWalker{env: memo.env(w.env), nameClass: w.nameClass, contentID: w.contentID, phase: w.phase, cache: w.cache}
	memo.register(w, cp)
	if w.content != nil {
		cp.content = w.content.Clone(memo)
	}
	return cp
}

func (w *elementWalker) SuppressAttributes() {
	if w.content != nil {
		w.content.SuppressAttributes()
	}
}
