// Package config parses command-line configuration using
// github.com/spf13/pflag, in the flag-then-validate style the example
// fleet's application entrypoints use (spec §6 "Configuration options").
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/pflag"

	"github.com/vegardh/han-decode/internal/decoerr"
	"github.com/vegardh/han-decode/internal/register"
)

// Config holds every option the pipeline needs, already validated.
type Config struct {
	Vendor         register.Vendor
	Compact        bool
	Debug          bool
	Quiet          bool
	IgnoreChecksum bool

	Source   string // serial device path, file path, or "-" for stdin
	BaudRate int

	Sinks []string // "stdout" or "file:<path>", as given to --sink
}

// Parse parses args (the command line without the program name, as main
// passes os.Args[1:]), validates the vendor/version selector, and
// returns a ready Config. A bad vendor selector is an UnsupportedVendor
// configuration-time failure (spec §7): it aborts before the pipeline
// starts, never surfacing as a per-frame error.
func Parse(args []string) (*Config, error) {
	fs := pflag.NewFlagSet("han-decode", pflag.ContinueOnError)

	vendorMap := fs.String("vendor-map", "", "register dictionary: AIDON_V0001 / Kamstrup_V0001 / KFM_001 (required)")
	compact := fs.Bool("compact", false, "emit one-line JSON per frame instead of pretty-printed")
	debug := fs.Bool("debug", false, "emit diagnostic trace to stderr")
	ignoreChecksum := fs.Bool("ignore-checksum", false, "continue on header/frame CRC mismatch instead of dropping the frame")
	quiet := fs.Bool("quiet", false, "suppress informational stderr output")

	source := fs.String("source", "-", "serial device path, capture file path, or \"-\" for stdin")
	baud := fs.Int("baud", 2400, "serial baud rate (HAN ports run at 2400 8E1)")
	sinks := fs.StringSlice("sink", []string{"stdout"}, "output sink, repeatable: stdout, file:<path>")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "han-decode - Norwegian HAN port telemetry decoder\n\n")
		fmt.Fprintf(os.Stderr, "Usage: han-decode --vendor-map=<AIDON_V0001|Kamstrup_V0001|KFM_001> [OPTIONS]\n\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	vendor := register.Vendor(*vendorMap)
	if _, err := register.Lookup(vendor); err != nil {
		return nil, decoerr.New(decoerr.CodeUnsupportedVendor, err.Error())
	}

	for _, sink := range *sinks {
		if sink == "stdout" || strings.HasPrefix(sink, "file:") {
			continue
		}
		return nil, fmt.Errorf("unknown --sink %q: must be \"stdout\" or \"file:<path>\"", sink)
	}

	return &Config{
		Vendor:         vendor,
		Compact:        *compact,
		Debug:          *debug,
		Quiet:          *quiet,
		IgnoreChecksum: *ignoreChecksum,
		Source:         *source,
		BaudRate:       *baud,
		Sinks:          *sinks,
	}, nil
}
