// purify strips metadata segments from JPEG and PNG files.
//
// Each input is copied to the output directory with APPn/COM segments (JPEG)
// or tEXt/zTXt/iTXt chunks (PNG) removed. Image data is never re-encoded.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/jdeng/gopurify/internal/batch"
	"github.com/jdeng/gopurify/internal/config"
	"github.com/jdeng/gopurify/internal/export"
	"github.com/jdeng/gopurify/internal/tui"
)

// errFailures signals that at least one file could not be purified; the
// per-file messages have already been printed.
var errFailures = errors.New("one or more files failed")

// errInterrupted is returned when the user stopped the run before every
// file finished.
var errInterrupted = errors.New("interrupted")

func main() {
	err := run(os.Args[1:])
	switch err {
	case nil, errFailures:
	case errInterrupted:
		fmt.Fprintln(os.Stderr, "interrupted")
	default:
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
	}
	os.Exit(exitCode(err))
}

// exitCode maps the result of run to the process exit status. An
// interrupted run exits with 130 like a shell job stopped by SIGINT.
func exitCode(err error) int {
	switch err {
	case nil:
		return 0
	case errInterrupted:
		return 130
	default:
		return 1
	}
}

type options struct {
	configPath  string
	outputDir   string
	workers     int
	naming      string
	report      string
	quarantine  bool
	compression string
	hexBytes    int
	logLevel    string
	plain       bool
}

func run(args []string) error {
	var opts options
	flagSet := pflag.NewFlagSet("purify", pflag.ContinueOnError)
	flagSet.StringVar(&opts.configPath, "config", "", "path to a YAML or TOML config file (default: $"+config.EnvVar+")")
	flagSet.StringVarP(&opts.outputDir, "out", "o", "", "directory for purified files")
	flagSet.IntVarP(&opts.workers, "workers", "j", 0, "number of files processed concurrently")
	flagSet.StringVar(&opts.naming, "naming", "", "output naming: timestamp or source")
	flagSet.StringVar(&opts.report, "report", "", "report sidecar: none, json or cbor")
	flagSet.BoolVar(&opts.quarantine, "quarantine", false, "keep stripped segments in a compressed sidecar")
	flagSet.StringVar(&opts.compression, "compression", "", "quarantine compression: zstd or lz4")
	flagSet.IntVar(&opts.hexBytes, "hex", 0, "print a hex view of the first N bytes of each input")
	flagSet.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error")
	flagSet.BoolVar(&opts.plain, "plain", false, "disable the interactive progress display")
	flagSet.BoolP("help", "h", false, "show help")

	if err := flagSet.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			printHelp(flagSet)
			return nil
		}
		return err
	}
	if help, _ := flagSet.GetBool("help"); help {
		printHelp(flagSet)
		return nil
	}

	paths := flagSet.Args()
	if len(paths) == 0 {
		printHelp(flagSet)
		return errors.New("no input files")
	}

	cfg, err := loadConfig(flagSet, &opts)
	if err != nil {
		return err
	}
	logger := newLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	runner := &batch.Runner{Workers: cfg.Workers, MaxFileSize: cfg.MaxFileSize, Logger: logger}
	events := make(chan batch.Event, 16)
	go runner.Run(ctx, paths, events)

	h := &handler{
		writer:   export.NewWriter(cfg),
		logger:   logger,
		maxSize:  cfg.MaxFileSize,
		hexBytes: cfg.HexPreviewBytes,
	}

	statuses := make(chan tui.Status, 16)
	go relay(ctx, h, events, statuses)

	interactive := !opts.plain && term.IsTerminal(int(os.Stdout.Fd()))
	if interactive {
		final, err := tea.NewProgram(tui.NewModel(paths, statuses)).Run()
		if err != nil {
			cancel()
			return errors.Wrap(err, "running progress display")
		}
		if m, ok := final.(tui.Model); ok && m.Interrupted() {
			cancel()
			// Drain so the relay and runner goroutines can exit.
			for range statuses {
			}
		}
	} else {
		for s := range statuses {
			if s.Done {
				fmt.Fprintf(os.Stdout, "%s: %s\n", paths[s.Index], s.Text)
			}
		}
	}

	for _, preview := range h.previews {
		fmt.Fprint(os.Stdout, preview)
	}
	if ctx.Err() != nil {
		return errInterrupted
	}
	if h.failed > 0 {
		return errFailures
	}
	return nil
}

// relay handles events until events is closed, then closes statuses.
// Events that arrive after ctx is cancelled are dropped, so nothing is
// written once the run has been interrupted.
func relay(ctx context.Context, h *handler, events <-chan batch.Event, statuses chan<- tui.Status) {
	defer close(statuses)
	for ev := range events {
		if ctx.Err() != nil {
			continue
		}
		statuses <- h.handle(ev)
	}
}

// loadConfig applies explicitly set flags over the config file.
func loadConfig(flagSet *pflag.FlagSet, opts *options) (*config.Config, error) {
	var cfg *config.Config
	var err error
	if opts.configPath != "" {
		cfg, err = config.Load(opts.configPath)
	} else {
		cfg, err = config.LoadFromEnv()
	}
	if err != nil {
		return nil, err
	}

	if flagSet.Changed("out") {
		cfg.OutputDir = opts.outputDir
	}
	if flagSet.Changed("workers") {
		cfg.Workers = opts.workers
	}
	if flagSet.Changed("naming") {
		cfg.Naming = opts.naming
	}
	if flagSet.Changed("report") {
		cfg.Report = opts.report
	}
	if flagSet.Changed("quarantine") {
		cfg.Quarantine = opts.quarantine
	}
	if flagSet.Changed("compression") {
		cfg.QuarantineCompression = opts.compression
	}
	if flagSet.Changed("hex") {
		cfg.HexPreviewBytes = opts.hexBytes
	}
	if flagSet.Changed("log-level") {
		cfg.LogLevel = opts.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid flags")
	}
	return cfg, nil
}

func newLogger(level string) *slog.Logger {
	var l slog.Level
	switch strings.ToLower(level) {
	case "debug":
		l = slog.LevelDebug
	case "info":
		l = slog.LevelInfo
	case "error":
		l = slog.LevelError
	default:
		l = slog.LevelWarn
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l}))
}

func printHelp(flagSet *pflag.FlagSet) {
	fmt.Fprintf(os.Stderr, `purify: strip metadata from JPEG and PNG files without re-encoding.

JPEG APPn and COM segments and PNG tEXt, zTXt and iTXt chunks are removed.
The format is taken from the file extension; the file signature must match.

Usage:
  purify [flags] FILE...

Flags:
%s`, flagSet.FlagUsages())
}
