package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fxamacker/cbor/v2"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"gopkg.in/yaml.v3"
)

// encMode produces Core Deterministic CBOR, so exporting the same file
// twice yields identical bytes.
var encMode cbor.EncMode

func init() {
	var err error
	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("sfdump: CBOR encoder initialization failed: " + err.Error())
	}
}

func runExport(e *env, args []string) error {
	fs := newFlagSet(e, "export")
	encoding := fs.String("encoding", "yaml", "document encoding: yaml or cbor")
	compress := fs.String("compress", "none", "compression: none, zstd or lz4")
	output := fs.StringP("output", "o", "", "output path (default stdout)")
	withData := fs.Bool("data", true, "include array data")
	if err := fs.Parse(args); err != nil {
		return err
	}
	f, _, err := e.open(fs.Args(), 1, "export [--encoding yaml|cbor] [--compress none|zstd|lz4] [-o path] <file>")
	if err != nil {
		return err
	}
	defer f.Close()

	var w io.Writer = e.stdout
	if *output != "" {
		out, err := os.Create(*output)
		if err != nil {
			return err
		}
		defer out.Close()
		w = out
	}

	doc := describeFile(f, *withData)
	n, err := export(w, doc, *encoding, *compress)
	if err != nil {
		return fmt.Errorf("exporting %s: %w", f.Path(), err)
	}
	e.log.Info("exported shotfile", "path", f.Path(), "encoding", *encoding, "compress", *compress, "bytes", n)
	return nil
}

// export encodes doc and writes it to w through the chosen compressor.
// It returns the uncompressed document size.
func export(w io.Writer, doc fileDoc, encoding, compress string) (int, error) {
	var data []byte
	var err error
	switch encoding {
	case "yaml":
		data, err = yaml.Marshal(doc)
	case "cbor":
		data, err = encMode.Marshal(doc)
	default:
		return 0, fmt.Errorf("unknown encoding %q", encoding)
	}
	if err != nil {
		return 0, err
	}

	cw, err := compressor(w, compress)
	if err != nil {
		return 0, err
	}
	if _, err := cw.Write(data); err != nil {
		cw.Close()
		return 0, err
	}
	if err := cw.Close(); err != nil {
		return 0, err
	}
	return len(data), nil
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

func compressor(w io.Writer, name string) (io.WriteCloser, error) {
	switch name {
	case "none":
		return nopCloser{w}, nil
	case "zstd":
		return zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
	case "lz4":
		return lz4.NewWriter(w), nil
	default:
		return nil, fmt.Errorf("unknown compression %q", name)
	}
}
