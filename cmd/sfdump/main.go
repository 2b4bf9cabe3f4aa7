// sfdump inspects, exports and rewrites shotfiles.
//
// Usage:
//
//	sfdump [global flags] <command> [flags] <file> [args]
//
// Commands:
//
//	list     print the object directory
//	show     print one object with its attributes and parameters
//	data     print the data of an array object, optionally a window
//	export   write the whole file as YAML or CBOR, optionally compressed
//	rewrite  write a copy of the file with a freshly computed layout
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/pflag"

	"github.com/robert-malhotra/go-shotfile/shotfile"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// env is what every command receives: output streams, the logger and the
// options for opening files.
type env struct {
	stdout io.Writer
	stderr io.Writer
	log    *slog.Logger
	opts   []shotfile.Option
}

type command struct {
	name    string
	summary string
	run     func(e *env, args []string) error
}

var commands = []command{
	{"list", "print the object directory", runList},
	{"show", "print one object", runShow},
	{"data", "print the data of an array object", runData},
	{"export", "write the whole file as YAML or CBOR", runExport},
	{"rewrite", "write a copy with a fresh layout", runRewrite},
}

func run(args []string, stdout, stderr io.Writer) error {
	var logLevel string
	var tolerant bool
	var maxSlots int

	flagSet := pflag.NewFlagSet("sfdump", pflag.ContinueOnError)
	flagSet.SetOutput(stderr)
	flagSet.SetInterspersed(false)
	flagSet.StringVar(&logLevel, "log-level", "warn", "log level: debug, info, warn or error")
	flagSet.BoolVar(&tolerant, "tolerant", false, "stop at a truncated header table instead of failing")
	flagSet.IntVar(&maxSlots, "max-slots", shotfile.DefaultMaxSlots, "directory size limit when the diagnostic header does not give one")
	flagSet.Usage = func() { printHelp(stderr, flagSet) }

	if err := flagSet.Parse(args); err != nil {
		return err
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(logLevel)); err != nil {
		return fmt.Errorf("--log-level: %w", err)
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	e := &env{
		stdout: stdout,
		stderr: stderr,
		log:    logger,
		opts: []shotfile.Option{
			shotfile.WithLogger(logger),
			shotfile.WithMaxSlots(maxSlots),
			shotfile.WithTolerantReads(tolerant),
		},
	}

	rest := flagSet.Args()
	if len(rest) == 0 {
		printHelp(stderr, flagSet)
		return errors.New("missing command")
	}
	for _, c := range commands {
		if c.name == rest[0] {
			return c.run(e, rest[1:])
		}
	}
	return fmt.Errorf("unknown command %q", rest[0])
}

func printHelp(w io.Writer, flagSet *pflag.FlagSet) {
	fmt.Fprintf(w, "Usage: sfdump [global flags] <command> [flags] <file> [args]\n\nCommands:\n")
	for _, c := range commands {
		fmt.Fprintf(w, "  %-8s %s\n", c.name, c.summary)
	}
	fmt.Fprintf(w, "\nGlobal flags:\n%s", flagSet.FlagUsages())
}

// open opens the file named by the first positional argument.
func (e *env) open(args []string, want int, usage string) (*shotfile.File, []string, error) {
	if len(args) != want {
		return nil, nil, fmt.Errorf("usage: sfdump %s", usage)
	}
	f, err := shotfile.Open(args[0], e.opts...)
	if err != nil {
		return nil, nil, err
	}
	return f, args[1:], nil
}
