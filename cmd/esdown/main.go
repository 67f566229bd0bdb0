// Command esdown translates .esnext source files into the older dialect
// esdown.Translate produces, optionally memoizing results in a sqlite
// cache keyed by (source, options).
//
// A flat list of stdlib flag declarations, no CLI framework, one
// file-at-a-time loop writing to stdout or an explicit -o path.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/funvibe/esdown/internal/cache"
	"github.com/funvibe/esdown/internal/config"

	esdown "github.com/funvibe/esdown"
)

func main() {
	var (
		module         = flag.Bool("module", false, "parse input as a module")
		wrap           = flag.Bool("wrap", false, "wrap output in a loader shim")
		global         = flag.String("global", "", "global-object expression used by -wrap")
		runtimeImports = flag.Bool("runtime-imports", false, "use require() as the wrap loader instead of a global lookup")
		out            = flag.String("o", "", "output file (default: stdout)")
		cachePath      = flag.String("cache", "", "sqlite cache file for memoizing translations")
		runID          = flag.String("run-id", "", "run identifier stamped on cache rows (default: a fresh uuid v4)")
	)
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: esdown [flags] file"+config.SourceFileExtension+" [...]")
		os.Exit(2)
	}

	opts := esdown.TranslateOptions{
		Module:         *module,
		Wrap:           *wrap,
		Global:         *global,
		RuntimeImports: *runtimeImports,
	}

	var store *cache.Store
	var run string
	if *cachePath != "" {
		var err error
		store, err = cache.Open(*cachePath)
		if err != nil {
			fmt.Fprintln(os.Stderr, "esdown:", err)
			os.Exit(1)
		}
		defer store.Close()

		run = *runID
		if run == "" {
			run = uuid.NewString()
		}
		if err := store.BeginRun(run); err != nil {
			fmt.Fprintln(os.Stderr, "esdown:", err)
			os.Exit(1)
		}
	}

	var w io.Writer = os.Stdout
	if *out != "" {
		f, err := os.Create(*out)
		if err != nil {
			fmt.Fprintln(os.Stderr, "esdown:", err)
			os.Exit(1)
		}
		defer f.Close()
		w = f
	}

	for _, path := range flag.Args() {
		if err := translateFile(w, path, opts, store, run); err != nil {
			fmt.Fprintln(os.Stderr, "esdown:", err)
			os.Exit(1)
		}
	}
}

func translateFile(w io.Writer, path string, opts esdown.TranslateOptions, store *cache.Store, runID string) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if filepath.Ext(path) != config.SourceFileExtension {
		fmt.Fprintf(os.Stderr, "esdown: warning: %s does not have the %s extension\n", path, config.SourceFileExtension)
	}
	source := string(src)

	var digest string
	if store != nil {
		digest, err = cache.Digest(source, opts)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		if output, ok, err := store.Lookup(digest); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		} else if ok {
			_, err := io.WriteString(w, output)
			return err
		}
	}

	output, err := esdown.Translate(source, opts)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	if store != nil {
		if err := store.Store(digest, output, runID); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
	}

	_, err = io.WriteString(w, output)
	return err
}
