// Command fixedwidth-gen writes FixedWidthFields methods for structs
// described by `fixed` tags, so their field trees are built without
// reflection on tags at run time.
//
//	//go:generate fixedwidth-gen -type Person,Address
package main

import (
	"flag"
	"os"
	"strings"

	"github.com/sthagen/twking7-fixed-width/internal/gen"
	"github.com/sthagen/twking7-fixed-width/internal/observability"
)

func main() {
	types := flag.String("type", "", "comma separated list of struct types; all tagged structs when empty")
	output := flag.String("output", "", "output file name; defaults to <package>_fixedwidth.go")
	dir := flag.String("dir", ".", "package directory")
	verbose := flag.Bool("v", false, "enable debug logging")
	flag.Parse()

	logger := observability.InitLogger("fixedwidth-gen", *verbose)

	cfg := gen.Config{Dir: *dir, Output: *output}
	if *types != "" {
		for _, t := range strings.Split(*types, ",") {
			if t = strings.TrimSpace(t); t != "" {
				cfg.Types = append(cfg.Types, t)
			}
		}
	}
	logger.Debug().Str("dir", cfg.Dir).Strs("types", cfg.Types).Msg("generating")

	path, err := gen.Run(cfg)
	if err != nil {
		logger.Error().Err(err).Msg("generation failed")
		os.Exit(1)
	}
	logger.Info().Str("file", path).Msg("generated")
}
