package commands

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/raffazizzi/relaxwalk/internal/cliutil"
	"github.com/raffazizzi/relaxwalk/pattern"
)

// ConvertFlags contains flags for the convert command.
type ConvertFlags struct {
	Output         string
	IncludeOrigins bool
}

// SetupConvertFlags creates and configures a FlagSet for the convert
// command.
func SetupConvertFlags() (*flag.FlagSet, *ConvertFlags) {
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)
	flags := &ConvertFlags{}

	fs.StringVar(&flags.Output, "o", "", "write the converted tree to this file instead of stdout")
	fs.BoolVar(&flags.IncludeOrigins, "include-origins", false, "round-trip each node's origin path (debugging aid)")

	fs.Usage = func() {
		cliutil.Writef(fs.Output(), "Usage: relaxwalk convert [flags] <schema.json>\n\n")
		cliutil.Writef(fs.Output(), "Decode a schema tree and re-encode it, exercising the JSON codec's\n")
		cliutil.Writef(fs.Output(), "round-trip (useful for normalizing a hand-edited tree or bumping it\n")
		cliutil.Writef(fs.Output(), "through the current wire format version).\n\n")
		cliutil.Writef(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
	}

	return fs, flags
}

// HandleConvert executes the convert command.
func HandleConvert(args []string) error {
	fs, flags := SetupConvertFlags()
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("convert requires exactly one schema path")
	}

	schemaPath := fs.Arg(0)
	// The decoder detects origin-path presence from the source tree's own
	// option bitfield; --include-origins only controls the re-encode.
	result, err := pattern.LoadFile(schemaPath)
	if err != nil {
		return fmt.Errorf("loading schema: %w", err)
	}

	out, err := pattern.WriteTreeToJSON(result.Grammar, flags.IncludeOrigins)
	if err != nil {
		return fmt.Errorf("encoding schema: %w", err)
	}

	if flags.Output == "" {
		fmt.Println(string(out))
		return nil
	}
	if err := os.WriteFile(flags.Output, out, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", flags.Output, err)
	}
	return nil
}
