package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/robert-malhotra/go-shotfile/shotfile"
)

func newFlagSet(e *env, name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet("sfdump "+name, pflag.ContinueOnError)
	fs.SetOutput(e.stderr)
	return fs
}

func runList(e *env, args []string) error {
	fs := newFlagSet(e, "list")
	format := fs.String("format", "text", "output format: text or yaml")
	if err := fs.Parse(args); err != nil {
		return err
	}
	f, _, err := e.open(fs.Args(), 1, "list [--format text|yaml] <file>")
	if err != nil {
		return err
	}
	defer f.Close()

	switch *format {
	case "yaml":
		return writeYAML(e, describeFile(f, false))
	case "text":
	default:
		return fmt.Errorf("unknown format %q", *format)
	}

	fmt.Fprintf(e.stdout, "%s  shot %d  %d objects  fingerprint %016x\n\n", f.Path(), f.Shot(), f.NumObjects(), f.Fingerprint())
	tw := tabwriter.NewWriter(e.stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tLABEL\tFORMAT\tSHAPE\tUNIT\tADDRESS\tLENGTH\tRELATIONS")
	for _, o := range f.Objects() {
		shape := ""
		if o.Label().IsArray() {
			if s, err := o.Shape(); err == nil {
				shape = fmt.Sprint(s)
			}
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%d\t%d\t%s\n",
			o.ID(), o.Name(), o.Label(), o.DataType(), shape, o.Unit(),
			o.Address(), o.Length(), strings.Join(o.Relations(), ","))
	}
	return tw.Flush()
}

func runShow(e *env, args []string) error {
	fs := newFlagSet(e, "show")
	withData := fs.Bool("data", false, "include the data of array objects")
	if err := fs.Parse(args); err != nil {
		return err
	}
	f, rest, err := e.open(fs.Args(), 2, "show [--data] <file> <object>")
	if err != nil {
		return err
	}
	defer f.Close()

	o, err := f.Object(rest[0])
	if err != nil {
		return err
	}
	return writeYAML(e, describe(o, *withData))
}

func runData(e *env, args []string) error {
	fs := newFlagSet(e, "data")
	begin := fs.Int("begin", 0, "first index along the time axis")
	end := fs.Int("end", -1, "end index along the time axis, -1 for the last")
	if err := fs.Parse(args); err != nil {
		return err
	}
	f, rest, err := e.open(fs.Args(), 2, "data [--begin n] [--end m] <file> <object>")
	if err != nil {
		return err
	}
	defer f.Close()

	o, err := f.Object(rest[0])
	if err != nil {
		return err
	}
	a, err := o.DataRange(*begin, *end)
	if err != nil {
		return err
	}
	return writeYAML(e, dataDoc{
		Name:   o.Name(),
		Format: a.Format.String(),
		Shape:  a.Shape,
		Values: a.Values,
	})
}

func runRewrite(e *env, args []string) error {
	fs := newFlagSet(e, "rewrite")
	if err := fs.Parse(args); err != nil {
		return err
	}
	src, rest, err := e.open(fs.Args(), 2, "rewrite <file> <output>")
	if err != nil {
		return err
	}
	defer src.Close()

	out, err := shotfile.Create(rest[0], src, e.opts...)
	if err != nil {
		return err
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("writing %s: %w", rest[0], err)
	}

	stats := out.AllocStats()
	e.log.Info("rewrote shotfile", "source", src.Path(), "output", rest[0],
		"regions", stats.TotalAllocations, "padding", stats.TotalPadding)
	info, err := os.Stat(rest[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(e.stdout, "%s: %d objects, %d bytes\n", rest[0], out.NumObjects(), info.Size())
	return nil
}

func writeYAML(e *env, v any) error {
	enc := yaml.NewEncoder(e.stdout)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
