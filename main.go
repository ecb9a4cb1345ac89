// Command polymesh imports a polygonal mesh from Cell0Ds/Cell1Ds/Cell2Ds
// tables and validates it.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/chazu/polymesh/pkg/config"
	"golang.org/x/term"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("polymesh", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: polymesh [flags] <mesh-dir>")
		fs.PrintDefaults()
	}

	configPath := fs.String("config", "", "YAML config file (default <mesh-dir>/"+config.DefaultFilename+" if present)")
	logLevel := fs.String("log-level", "", "log level: debug, info, warn, error")
	tolerance := fs.Float64("tolerance", 0, "geometric tolerance")
	epsilon := fs.String("epsilon", "", "machine epsilon precision: float64 or float32")
	duplicates := fs.String("duplicates", "", "duplicate id policy: reject or overwrite")
	progress := fs.String("progress", "", "progress bar: auto, always, never")
	all := fs.Bool("all", false, "report every failing polygon instead of stopping at the first")
	eval := fs.String("eval", "", "Lisp query to evaluate against the imported mesh")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ExitOK
		}
		return ExitFailure
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return ExitFailure
	}
	dir := fs.Arg(0)

	var (
		cfg config.Config
		err error
	)
	if *configPath != "" {
		cfg, err = config.Load(*configPath)
	} else {
		cfg, err = config.LoadOptional(filepath.Join(dir, config.DefaultFilename))
	}
	if err != nil {
		fmt.Fprintln(stderr, "polymesh:", err)
		return ExitFailure
	}

	// Flags given on the command line win over the file.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "log-level":
			cfg.LogLevel = *logLevel
		case "tolerance":
			cfg.Tolerance = *tolerance
		case "epsilon":
			cfg.Epsilon = *epsilon
		case "duplicates":
			cfg.Duplicates = *duplicates
		case "progress":
			cfg.Progress = *progress
		}
	})
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(stderr, "polymesh:", err)
		return ExitFailure
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		fmt.Fprintln(stderr, "polymesh:", err)
		return ExitFailure
	}
	log := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	app := NewApp(cfg, log, stdout)
	if showProgress(cfg.Progress, stderr) {
		app.SetProgress(stderr)
	}

	m, err := app.Import(dir, *all)
	if err != nil {
		fmt.Fprintln(stderr, "polymesh:", err)
		return ExitCode(err)
	}

	if *eval != "" {
		if err := app.Query(m, *eval); err != nil {
			fmt.Fprintln(stderr, "polymesh:", err)
			return ExitFailure
		}
	}
	return ExitOK
}

func showProgress(mode string, w io.Writer) bool {
	switch mode {
	case config.ProgressAlways:
		return true
	case config.ProgressAuto:
		f, ok := w.(*os.File)
		return ok && term.IsTerminal(int(f.Fd()))
	default:
		return false
	}
}
