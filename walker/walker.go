// Package walker implements the per-pattern-kind automaton that drives
// streaming validation. Each pattern.Kind has exactly one walker
// implementation; dispatch is a closed type switch in New, never an open
// interface hierarchy, since the set of pattern kinds never grows without
// a corresponding change to the pattern package itself.
//
// A walker is mutable and owned by its caller (typically the validator
// façade). It is not safe for concurrent use; concurrent branches are
// produced by Clone.
package walker

import (
	"github.com/raffazizzi/relaxwalk/event"
	"github.com/raffazizzi/relaxwalk/namepat"
	"github.com/raffazizzi/relaxwalk/nsresolve"
	"github.com/raffazizzi/relaxwalk/pattern"
)

// Env is the shared, externally-owned context every walker in one
// validation session consults: the grammar it was built from, the live
// namespace-resolver stack, and a logger. Env is never mutated by a
// walker; the resolver's own stack is mutated by the caller around
// enterStartTag/endTag, per nsresolve's contract.
type Env struct {
	Grammar  *pattern.Grammar
	Resolver *nsresolve.Resolver
	Logger   pattern.Logger
}

// Status is one of the three outcomes of an event dispatch.
type Status uint8

const (
	// StatusOk: the event was consumed without error.
	StatusOk Status = iota
	// StatusNoMatch: this walker cannot consume the event at all. Never
	// user-visible; composite walkers use it for routing, and the top of
	// the walker tree converts it into a validation error.
	StatusNoMatch
	// StatusErrors: the event was consumed, but the walker recorded one or
	// more validation errors and entered a recovery state.
	StatusErrors
)

func (s Status) String() string {
	switch s {
	case StatusOk:
		return "Ok"
	case StatusNoMatch:
		return "NoMatch"
	case StatusErrors:
		return "Errors"
	default:
		return "Status(?)"
	}
}

// ErrorKind classifies a ValidationError for programmatic handling.
type ErrorKind uint8

const (
	ErrUnexpectedElement ErrorKind = iota
	ErrUnexpectedAttribute
	ErrMissingAttribute
	ErrBadValue
	ErrChoiceExhausted
	ErrUnexpectedText
	ErrUnexpectedEndTag
)

func (k ErrorKind) String() string {
	switch k {
	case ErrUnexpectedElement:
		return "unexpected-element"
	case ErrUnexpectedAttribute:
		return "unexpected-attribute"
	case ErrMissingAttribute:
		return "missing-attribute"
	case ErrBadValue:
		return "bad-value"
	case ErrChoiceExhausted:
		return "choice-exhausted"
	case ErrUnexpectedText:
		return "unexpected-text"
	case ErrUnexpectedEndTag:
		return "unexpected-end-tag"
	default:
		return "ErrorKind(?)"
	}
}

// ValidationError is a single validation diagnostic. It is a plain value
// type, deliberately NOT a Go error (see rngerrors' package doc): the
// walker never fails an event dispatch the way a function call fails: it
// records diagnostics and keeps going. Name carries a namepat.NamePattern
// rather than a resolved string so the caller can render it with its own
// prefix policy.
type ValidationError struct {
	Kind    ErrorKind
	Message string
	Name    namepat.NamePattern
	Cause   error
}

// Outcome is the result of FireEvent or End.
type Outcome struct {
	Status Status
	Errors []ValidationError
}

// Ok builds a successful Outcome.
func Ok() Outcome { return Outcome{Status: StatusOk} }

// NoMatch builds the routing-only Outcome.
func NoMatch() Outcome { return Outcome{Status: StatusNoMatch} }

// Errs builds a recovered-with-errors Outcome.
func Errs(errs ...ValidationError) Outcome {
	return Outcome{Status: StatusErrors, Errors: errs}
}

// Walker is the common contract every pattern kind implements (§4.2).
type Walker interface {
	// Possible returns the set of events acceptable as the next input.
	// The return value is fresh and caller-owned; it never contains
	// compact events, and never contains attribute events once
	// SuppressAttributes has taken effect.
	Possible() event.Set

	// FireEvent advances state in response to e.
	FireEvent(e *event.Event) Outcome

	// End asserts terminality. attribute=true checks only attribute
	// obligations (at leaveStartTag); attribute=false is the final,
	// end-of-document check.
	End(attribute bool) Outcome

	// CanEnd is the non-destructive predicate End(attribute) would
	// succeed against.
	CanEnd(attribute bool) bool

	// Clone returns a deep, independent copy of the walker, reusing memo
	// so a sub-walker reached twice in one Clone call is copied once.
	Clone(memo *Memo) Walker

	// SuppressAttributes declares that no further attribute events will
	// be accepted; propagates to subwalkers that hold attribute content.
	SuppressAttributes()
}

// Memo threads identity-preserving cloning through a walker tree, mirroring
// nsresolve.Memo. Env is the already-cloned Env (new Resolver, same
// Grammar/Logger) every cloned walker should reference — set it once
// before cloning the root, so the whole cloned tree shares one Env.
type Memo struct {
	Env    *Env
	copies map[Walker]Walker
}

func (m *Memo) lookup(w Walker) (Walker, bool) {
	if m.copies == nil {
		return nil, false
	}
	cp, ok := m.copies[w]
	return cp, ok
}

func (m *Memo) register(orig, cp Walker) {
	if m.copies == nil {
		m.copies = make(map[Walker]Walker)
	}
	m.copies[orig] = cp
}

func (m *Memo) env(fallback *Env) *Env {
	if m.Env != nil {
		return m.Env
	}
	return fallback
}

// possibilityCache is embedded by every walker that caches Possible()
// results. Any state-mutating method must call invalidate(); Clone()
// carries the cache forward unchanged (it remains valid until the clone's
// first transition), per the "suppressed cache invalidation across
// clones" design note.
type possibilityCache struct {
	set   event.Set
	valid bool
}

func (c *possibilityCache) get() (event.Set, bool) {
	if !c.valid {
		return event.Set{}, false
	}
	return c.set.Copy(), true
}

func (c *possibilityCache) store(s event.Set) {
	c.set = s
	c.valid = true
}

func (c *possibilityCache) invalidate() {
	c.valid = false
	c.set = event.Set{}
}

// tryAccepts reports whether w would accept e, without mutating w: it
// fires e into a throwaway clone and discards the clone. Used by
// Interleave to decide routing non-destructively when both branches might
// otherwise accept the same event.
func tryAccepts(w Walker, e *event.Event) bool {
	cp := w.Clone(&Memo{})
	return cp.FireEvent(e).Status != StatusNoMatch
}

// New builds the walker for the pattern at id. Ref and Define never get a
// dedicated walker: Ref flattens straight through to its resolved Define's
// body, and Define flattens straight through to its own body, matching
// the "no ref/define walker layer at run time" design note.
func New(env *Env, id pattern.ID) Walker {
	n := env.Grammar.Node(id)
	switch n.Kind {
	case pattern.KindEmpty:
		return emptySingleton
	case pattern.KindNotAllowed:
		return notAllowedSingleton
	case pattern.KindText:
		return textSingleton
	case pattern.KindValue:
		return newValueWalker(env, n)
	case pattern.KindData:
		return newDataWalker(env, n)
	case pattern.KindOneOrMore:
		return newOneOrMoreWalker(env, n)
	case pattern.KindList:
		return newListWalker(env, n)
	case pattern.KindAttribute:
		return newAttributeWalker(env, n)
	case pattern.KindElement:
		return newElementWalker(env, n)
	case pattern.KindDefine:
		return New(env, n.ContentID)
	case pattern.KindGroup:
		return newGroupWalker(env, n)
	case pattern.KindInterleave:
		return newInterleaveWalker(env, n)
	case pattern.KindChoice:
		return newChoiceWalker(env, n)
	case pattern.KindRef:
		define := env.Grammar.Node(n.ResolvedID)
		return New(env, define.ContentID)
	default:
		return notAllowedSingleton
	}
}
