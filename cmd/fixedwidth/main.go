// Command fixedwidth converts between fixed-width record files and JSON
// lines using a layout file.
//
//	fixedwidth decode -layout person.toml people.txt.gz > people.jsonl
//	fixedwidth encode -layout person.toml people.jsonl people.txt
//
// Input and output default to stdin and stdout. Compression is chosen by
// file extension.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/sthagen/twking7-fixed-width/fwfile"
	"github.com/sthagen/twking7-fixed-width/internal/observability"
	"github.com/sthagen/twking7-fixed-width/layout"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var run func(cfg config, logger zerolog.Logger) error
	switch os.Args[1] {
	case "decode":
		run = decode
	case "encode":
		run = encode
	case "-h", "-help", "--help", "help":
		usage()
		return
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n", os.Args[1])
		usage()
		os.Exit(2)
	}

	fs := flag.NewFlagSet(os.Args[1], flag.ExitOnError)
	layoutPath := fs.String("layout", "", "path of the TOML layout file (required)")
	skipInvalid := fs.Bool("skip-invalid", false, "log and skip records that fail instead of stopping")
	verbose := fs.Bool("v", false, "enable debug logging")
	fs.Parse(os.Args[2:])

	logger := observability.InitLogger("fixedwidth", *verbose)
	if *layoutPath == "" {
		logger.Fatal().Msg("-layout is required")
	}

	l, err := layout.Load(*layoutPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("cannot load layout")
	}

	in, out := "-", "-"
	if fs.NArg() > 0 {
		in = fs.Arg(0)
	}
	if fs.NArg() > 1 {
		out = fs.Arg(1)
	}

	r, err := fwfile.Open(in)
	if err != nil {
		logger.Fatal().Err(err).Str("path", in).Msg("cannot open input")
	}
	defer r.Close()

	w, err := fwfile.Create(out)
	if err != nil {
		logger.Fatal().Err(err).Str("path", out).Msg("cannot create output")
	}

	cfg := config{layout: l, in: r, out: w, skipInvalid: *skipInvalid}
	if err := run(cfg, logger); err != nil {
		w.Close()
		logger.Fatal().Err(err).Msg(os.Args[1] + " failed")
	}
	if err := w.Close(); err != nil {
		logger.Fatal().Err(err).Str("path", out).Msg("cannot close output")
	}
}

type config struct {
	layout      *layout.Layout
	in          io.Reader
	out         io.Writer
	skipInvalid bool
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: fixedwidth decode|encode -layout <file.toml> [-skip-invalid] [-v] [in] [out]")
}
