// Package validator is the façade a caller drives: it owns the root walker,
// the namespace-resolver stack, and the misplaced-element recovery policy
// that the walker package deliberately leaves out (NoMatch at the top of the
// walker tree is never user-visible; this is where it gets converted into a
// diagnostic).
package validator

import (
	"fmt"

	"github.com/raffazizzi/relaxwalk/event"
	"github.com/raffazizzi/relaxwalk/nsresolve"
	"github.com/raffazizzi/relaxwalk/pattern"
	"github.com/raffazizzi/relaxwalk/walker"
)

// Option configures a Validator at construction time.
type Option func(*config) error

type config struct {
	logger  pattern.Logger
	initial map[string]string
}

// WithLogger sets the logger consulted for recovery diagnostics.
func WithLogger(l pattern.Logger) Option {
	return func(c *config) error {
		c.logger = l
		return nil
	}
}

// WithInitialNamespaces pre-populates the outermost namespace context (for
// example, bindings inherited from an enclosing document fragment) before
// any event is fired.
func WithInitialNamespaces(bindings map[string]string) Option {
	return func(c *config) error {
		c.initial = bindings
		return nil
	}
}

func applyOptions(opts ...Option) (*config, error) {
	cfg := &config{logger: pattern.NopLogger{}}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// suspension tracks one misplaced-element recovery in progress: either
// "resume into this element's own walker" (ambiguous == false) or "ignore
// everything until the matching endTag" (ambiguous == true).
type suspension struct {
	walker    walker.Walker // nil when ambiguous
	ambiguous bool
	depth     int
}

// Validator is the top-level entry point for streaming validation: one
// instance tracks exactly one live document position. It is not safe for
// concurrent use; Clone produces an independent branch.
type Validator struct {
	grammar  *pattern.Grammar
	resolver *nsresolve.Resolver
	logger   pattern.Logger

	root    walker.Walker
	stack   []suspension // non-empty while a misplaced element is being recovered
}

// New builds a Validator ready to receive events at the grammar's start
// pattern.
func New(g *pattern.Grammar, opts ...Option) (*Validator, error) {
	cfg, err := applyOptions(opts...)
	if err != nil {
		return nil, err
	}
	resolver := nsresolve.New()
	if len(cfg.initial) > 0 {
		resolver.EnterContextWithMapping(cfg.initial)
	} else {
		resolver.EnterContext()
	}
	env := &walker.Env{Grammar: g, Resolver: resolver, Logger: cfg.logger}
	v := &Validator{
		grammar:  g,
		resolver: resolver,
		logger:   cfg.logger,
		root:     walker.New(env, g.StartID),
	}
	return v, nil
}

// env reconstructs the shared Env the root walker was built against. It is
// cheap and side-effect free; walkers never mutate it.
func (v *Validator) env() *walker.Env {
	return &walker.Env{Grammar: v.grammar, Resolver: v.resolver, Logger: v.logger}
}

// Possible returns the set of events the validator would currently accept.
// While a misplaced-element recovery is suspended and ambiguous, this is the
// empty set (all input is being ignored until the matching endTag).
func (v *Validator) Possible() event.Set {
	if top, ok := v.top(); ok {
		if top.ambiguous {
			return event.NewSet()
		}
		return top.walker.Possible()
	}
	return v.root.Possible()
}

func (v *Validator) top() (suspension, bool) {
	if len(v.stack) == 0 {
		return suspension{}, false
	}
	return v.stack[len(v.stack)-1], true
}

// FireEvent advances the validator by one event, applying namespace-context
// bookkeeping around element boundaries and misplaced-element recovery
// (spec §4.5) when the live walker set rejects an enterStartTag outright.
// Compact events (attributeNameAndValue, startTagAndAttributes) are expanded
// into their constituent events here, before any walker ever sees them: the
// walker package's own Walker contract promises its Possible() sets never
// contain a compact kind, and its FireEvent implementations only recognize
// the expanded forms.
func (v *Validator) FireEvent(e *event.Event) walker.Outcome {
	if e.Kind().IsCompact() {
		return v.fireExpanded(e)
	}
	if len(v.stack) > 0 {
		return v.fireSuspended(e)
	}

	outcome := v.root.FireEvent(e)
	if outcome.Status != walker.StatusNoMatch {
		return outcome
	}
	if e.Kind() != event.EnterStartTag {
		// A NoMatch for anything other than an element start has no defined
		// recovery; surface it as a generic diagnostic instead of silently
		// dropping it.
		return walker.Errs(walker.ValidationError{
			Kind:    walker.ErrUnexpectedElement,
			Message: "unexpected " + e.Kind().String(),
		})
	}
	return v.recoverMisplacedElement(e)
}

// fireExpanded expands a compact event into its constituent events and
// fires each in turn through the normal FireEvent path, so misplaced-element
// recovery and namespace bookkeeping apply exactly as if the caller had
// fired the expanded sequence itself. The combined outcome is Ok unless any
// constituent event recorded errors, in which case all of them are reported
// together.
func (v *Validator) fireExpanded(e *event.Event) walker.Outcome {
	var errs []walker.ValidationError
	for _, sub := range expandCompactEvent(e) {
		outcome := v.FireEvent(sub)
		if outcome.Status == walker.StatusErrors {
			errs = append(errs, outcome.Errors...)
		}
	}
	if len(errs) > 0 {
		return walker.Errs(errs...)
	}
	return walker.Ok()
}

// expandCompactEvent returns the sequence of ordinary events a compact event
// stands for (spec §4.2, §6.2).
func expandCompactEvent(e *event.Event) []*event.Event {
	switch e.Kind() {
	case event.AttributeNameAndValue:
		uri, local := e.Name()
		return []*event.Event{
			event.NewAttributeName(uri, local),
			event.NewAttributeValue(e.Value()),
		}
	case event.StartTagAndAttributes:
		uri, local := e.Name()
		events := make([]*event.Event, 0, 2+2*len(e.Attrs()))
		events = append(events, event.NewEnterStartTag(uri, local))
		for _, a := range e.Attrs() {
			events = append(events, event.NewAttributeName(a.URI, a.Local), event.NewAttributeValue(a.Value))
		}
		events = append(events, event.NewLeaveStartTag())
		return events
	default:
		return []*event.Event{e}
	}
}

func (v *Validator) recoverMisplacedElement(e *event.Event) walker.Outcome {
	uri, local := e.Name()
	candidates := v.grammar.MatchingElements(uri, local)

	switch len(candidates) {
	case 1:
		w := walker.New(v.env(), candidates[0])
		outcome := w.FireEvent(e)
		v.stack = append(v.stack, suspension{walker: w, depth: 1})
		v.logger.Warn("misplaced element recovered", "uri", uri, "local", local)
		errs := []walker.ValidationError{{
			Kind:    walker.ErrUnexpectedElement,
			Message: fmt.Sprintf("unexpected element %q here; matched its sole definition", local),
		}}
		if outcome.Status == walker.StatusErrors {
			errs = append(errs, outcome.Errors...)
		}
		return walker.Errs(errs...)

	default:
		v.stack = append(v.stack, suspension{ambiguous: true, depth: 1})
		msg := fmt.Sprintf("unexpected element %q here; no unique definition to recover into", local)
		if len(candidates) > 1 {
			msg = fmt.Sprintf("unexpected element %q here; %d candidate definitions, ignoring contents", local, len(candidates))
		}
		v.logger.Warn("misplaced element suspended", "uri", uri, "local", local, "candidates", len(candidates))
		return walker.Errs(walker.ValidationError{Kind: walker.ErrUnexpectedElement, Message: msg})
	}
}

// fireSuspended routes an event while a misplaced-element recovery is in
// progress, tracking nesting depth so an inner element of the same local
// name does not prematurely resume the enclosing walker.
func (v *Validator) fireSuspended(e *event.Event) walker.Outcome {
	top := v.stack[len(v.stack)-1]

	switch e.Kind() {
	case event.EnterStartTag:
		top.depth++
	case event.EndTag:
		top.depth--
	}
	v.stack[len(v.stack)-1] = top

	var outcome walker.Outcome
	if top.ambiguous {
		outcome = walker.Ok()
	} else {
		outcome = top.walker.FireEvent(e)
	}

	if top.depth == 0 {
		v.stack = v.stack[:len(v.stack)-1]
	}
	return outcome
}

// End asserts terminality, exactly as the root walker's End, except while a
// recovery is suspended (in which case ending mid-recovery is itself an
// error: the matching endTag never arrived).
func (v *Validator) End(attribute bool) walker.Outcome {
	if len(v.stack) > 0 {
		return walker.Errs(walker.ValidationError{
			Kind:    walker.ErrUnexpectedEndTag,
			Message: "document ended while recovering from a misplaced element",
		})
	}
	return v.root.End(attribute)
}

// CanEnd is the non-destructive predicate End(attribute) would succeed
// against.
func (v *Validator) CanEnd(attribute bool) bool {
	return len(v.stack) == 0 && v.root.CanEnd(attribute)
}

// EnterContext, EnterContextWithMapping, DefinePrefix and LeaveContext
// pass through to the validator's namespace-resolver stack, per spec §4.6:
// the caller must enter a context before firing the element's enterStartTag
// and leave it after the matching endTag.
func (v *Validator) EnterContext()                               { v.resolver.EnterContext() }
func (v *Validator) EnterContextWithMapping(m map[string]string)  { v.resolver.EnterContextWithMapping(m) }
func (v *Validator) DefinePrefix(prefix, uri string)              { v.resolver.DefinePrefix(prefix, uri) }
func (v *Validator) LeaveContext()                                { v.resolver.LeaveContext() }

// Clone returns an independent Validator that can diverge from this one: the
// resolver is deep-copied, and the root (or suspended) walker tree is
// cloned against a memo rewired to the new resolver, so the whole clone
// shares exactly one new Env.
func (v *Validator) Clone() *Validator {
	newResolver := v.resolver.Clone(&nsresolve.Memo{})
	newEnv := &walker.Env{Grammar: v.grammar, Resolver: newResolver, Logger: v.logger}
	memo := &walker.Memo{Env: newEnv}

	cp := &Validator{
		grammar:  v.grammar,
		resolver: newResolver,
		logger:   v.logger,
		root:     v.root.Clone(memo),
	}
	if len(v.stack) > 0 {
		cp.stack = make([]suspension, len(v.stack))
		for i, s := range v.stack {
			cp.stack[i] = s
			if s.walker != nil {
				cp.stack[i].walker = s.walker.Clone(memo)
			}
		}
	}
	return cp
}
