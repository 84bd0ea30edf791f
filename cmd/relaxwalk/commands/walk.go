package commands

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/raffazizzi/relaxwalk/event"
	"github.com/raffazizzi/relaxwalk/internal/cliutil"
	"github.com/raffazizzi/relaxwalk/pattern"
	"github.com/raffazizzi/relaxwalk/validator"
)

// SetupWalkFlags creates and configures a FlagSet for the walk command.
func SetupWalkFlags() *flag.FlagSet {
	fs := flag.NewFlagSet("walk", flag.ContinueOnError)
	fs.Usage = func() {
		cliutil.Writef(fs.Output(), "Usage: relaxwalk walk <schema.json> <events.json>\n\n")
		cliutil.Writef(fs.Output(), "Fire each event from events.json against schema.json in turn, printing the\n")
		cliutil.Writef(fs.Output(), "possibility set after every event. Intended for guided-editing demos.\n\n")
		cliutil.Writef(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
	}
	return fs
}

// HandleWalk executes the walk command.
func HandleWalk(args []string) error {
	fs := SetupWalkFlags()
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}
	if fs.NArg() != 2 {
		fs.Usage()
		return fmt.Errorf("walk requires exactly a schema path and an events path")
	}
	schemaPath, eventsPath := fs.Arg(0), fs.Arg(1)

	result, err := pattern.LoadFile(schemaPath)
	if err != nil {
		return fmt.Errorf("loading schema: %w", err)
	}
	events, err := LoadEvents(eventsPath)
	if err != nil {
		return err
	}

	v, err := validator.New(result.Grammar)
	if err != nil {
		return fmt.Errorf("constructing validator: %w", err)
	}

	for i, e := range events {
		outcome := v.FireEvent(e)
		cliutil.Writef(os.Stdout, "%d: %s %s -> %s\n", i, e.Kind(), eventArgString(e), outcome.Status)
		for _, ve := range outcome.Errors {
			cliutil.Writef(os.Stdout, "     error: %s\n", ve.Message)
		}
		cliutil.Writef(os.Stdout, "     possible: %s\n", possibleString(v.Possible()))
	}
	cliutil.Writef(os.Stdout, "can end: %t\n", v.CanEnd(false))
	return nil
}

func eventArgString(e *event.Event) string {
	switch e.Kind() {
	case event.EnterStartTag, event.EndTag, event.AttributeName:
		uri, local := e.Name()
		return fmt.Sprintf("(%s, %s)", uri, local)
	case event.Text, event.AttributeValue:
		return fmt.Sprintf("%q", e.Value())
	default:
		return ""
	}
}

func possibleString(s event.Set) string {
	slice := s.ToSlice()
	labels := make([]string, 0, len(slice))
	for _, e := range slice {
		labels = append(labels, e.Kind().String())
	}
	sort.Strings(labels)
	out := "["
	for i, l := range labels {
		if i > 0 {
			out += ", "
		}
		out += l
	}
	return out + "]"
}
