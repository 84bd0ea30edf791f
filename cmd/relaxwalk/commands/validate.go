package commands

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/raffazizzi/relaxwalk/internal/cliutil"
	"github.com/raffazizzi/relaxwalk/pattern"
	"github.com/raffazizzi/relaxwalk/validator"
	"github.com/raffazizzi/relaxwalk/walker"
)

// ValidateFlags contains flags for the validate command.
type ValidateFlags struct {
	Quiet  bool
	Format string
}

// SetupValidateFlags creates and configures a FlagSet for the validate
// command.
func SetupValidateFlags() (*flag.FlagSet, *ValidateFlags) {
	fs := flag.NewFlagSet("validate", flag.ContinueOnError)
	flags := &ValidateFlags{}

	fs.BoolVar(&flags.Quiet, "q", false, "quiet mode: only print the pass/fail summary")
	fs.BoolVar(&flags.Quiet, "quiet", false, "quiet mode: only print the pass/fail summary")
	fs.StringVar(&flags.Format, "format", FormatText, "output format: text or json")

	fs.Usage = func() {
		cliutil.Writef(fs.Output(), "Usage: relaxwalk validate [flags] <schema.json> <events.json>\n\n")
		cliutil.Writef(fs.Output(), "Validate a stream of parse events (events.json) against a compiled schema tree (schema.json).\n\n")
		cliutil.Writef(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
		cliutil.Writef(fs.Output(), "\nExit Codes:\n")
		cliutil.Writef(fs.Output(), "  0    document is valid\n")
		cliutil.Writef(fs.Output(), "  1    document is invalid, or an error occurred\n")
	}

	return fs, flags
}

// HandleValidate executes the validate command.
func HandleValidate(args []string) error {
	fs, flags := SetupValidateFlags()
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}
	if fs.NArg() != 2 {
		fs.Usage()
		return fmt.Errorf("validate requires exactly a schema path and an events path")
	}
	if err := ValidateOutputFormat(flags.Format); err != nil {
		return err
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

	var diagnostics []string
	for i, e := range events {
		outcome := v.FireEvent(e)
		for _, ve := range outcome.Errors {
			diagnostics = append(diagnostics, fmt.Sprintf("event %d (%s): %s", i, e.Kind(), ve.Message))
		}
	}
	endOutcome := v.End(false)
	for _, ve := range endOutcome.Errors {
		diagnostics = append(diagnostics, fmt.Sprintf("at end of document: %s", ve.Message))
	}
	valid := endOutcome.Status == walker.StatusOk && len(diagnostics) == 0

	if flags.Format == FormatJSON {
		if err := OutputJSON(struct {
			Valid  bool     `json:"valid"`
			Errors []string `json:"errors,omitempty"`
		}{Valid: valid, Errors: diagnostics}); err != nil {
			return err
		}
	} else if !flags.Quiet {
		cliutil.Writef(os.Stderr, "relaxwalk validate\n")
		cliutil.Writef(os.Stderr, "schema: %s\n", schemaPath)
		cliutil.Writef(os.Stderr, "events: %s\n", eventsPath)
		cliutil.Writef(os.Stderr, "event count: %d\n\n", len(events))
		for _, d := range diagnostics {
			cliutil.Writef(os.Stderr, "  %s\n", d)
		}
		if valid {
			cliutil.Writef(os.Stderr, "\n✓ valid\n")
		} else {
			cliutil.Writef(os.Stderr, "\n✗ invalid: %d diagnostic(s)\n", len(diagnostics))
		}
	}

	if !valid {
		os.Exit(1)
	}
	return nil
}
