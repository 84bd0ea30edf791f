package walker

import (
	"strings"

	"github.com/raffazizzi/relaxwalk/event"
)

// emptyWalker, notAllowedWalker and textWalker carry no per-instance
// state, so each is a process-wide singleton; Clone returns the same
// singleton, per the design note for Empty (extended here to the other
// two stateless leaves).

type emptyWalker struct{}

var emptySingleton Walker = &emptyWalker{}

func (*emptyWalker) Possible() event.Set { return event.NewSet() }

// FireEvent tolerates a whitespace-only text event (the documented open
// question's resolution: lenient handling of empty/whitespace text around
// Empty content, to accommodate mixed-content whitespace). Anything else
// is NoMatch.
func (*emptyWalker) FireEvent(e *event.Event) Outcome {
	if e.Kind() == event.Text && strings.TrimSpace(e.Value()) == "" {
		return Ok()
	}
	return NoMatch()
}

func (*emptyWalker) End(bool) Outcome      { return Ok() }
func (*emptyWalker) CanEnd(bool) bool      { return true }
func (*emptyWalker) Clone(*Memo) Walker    { return emptySingleton }
func (*emptyWalker) SuppressAttributes()   {}

type notAllowedWalker struct{}

var notAllowedSingleton Walker = &notAllowedWalker{}

func (*notAllowedWalker) Possible() event.Set           { return event.NewSet() }
func (*notAllowedWalker) FireEvent(*event.Event) Outcome { return NoMatch() }
func (*notAllowedWalker) End(bool) Outcome              { return NoMatch() }
func (*notAllowedWalker) CanEnd(bool) bool              { return false }
func (*notAllowedWalker) Clone(*Memo) Walker            { return notAllowedSingleton }
func (*notAllowedWalker) SuppressAttributes()           {}

type textWalker struct{}

var textSingleton Walker = &textWalker{}

func (*textWalker) Possible() event.Set { return event.NewSet(event.NewPossibleText()) }

func (*textWalker) FireEvent(e *event.Event) Outcome {
	if e.Kind() == event.Text {
		return Ok()
	}
	return NoMatch()
}

func (*textWalker) End(bool) Outcome    { return Ok() }
func (*textWalker) CanEnd(bool) bool    { return true }
func (*textWalker) Clone(*Memo) Walker  { return textSingleton }
func (*textWalker) SuppressAttributes() {}
