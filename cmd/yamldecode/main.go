// Package main provides the CLI entrypoint for yamldecode.
//
// yamldecode runs YAML files through the default decoding pipeline and
// prints the resulting open values:
//   - as JSON (the default) or as a spew dump
//   - one document, or every document of the stream with -all
//   - again whenever the file changes with -watch
//
// Defaults come from YAMLDECODE_* environment variables.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/davecgh/go-spew/spew"
	"github.com/fsnotify/fsnotify"
	"github.com/joeshaw/envdecode"

	"yaml-decoder/decoder"
	"yaml-decoder/utils"
)

const (
	formatJSON = "json"
	formatDump = "dump"
)

type config struct {
	// Format is json or dump. ENV: YAMLDECODE_FORMAT
	Format string `env:"YAMLDECODE_FORMAT,default=json"`
	// LogLevel is a slog level name. ENV: YAMLDECODE_LOG_LEVEL
	LogLevel string `env:"YAMLDECODE_LOG_LEVEL,default=warn"`
	// MaxDepth bounds node nesting. ENV: YAMLDECODE_MAX_DEPTH
	MaxDepth int `env:"YAMLDECODE_MAX_DEPTH,default=512"`
	// Lenient accepts unknown tags. ENV: YAMLDECODE_LENIENT
	Lenient bool `env:"YAMLDECODE_LENIENT,default=false"`
}

var dumper = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	DisableMethods:          true,
	SortKeys:                true,
}

func main() {
	os.Exit(run())
}

func run() int {
	return runWithArgs(os.Args[1:], os.Stdout, os.Stderr)
}

func runWithArgs(args []string, stdout, stderr io.Writer) int {
	var cfg config
	if err := envdecode.Decode(&cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		_ = writef(stderr, "error reading environment: %v\n", err)
		return 2
	}

	fs := flag.NewFlagSet("yamldecode", flag.ContinueOnError)
	fs.SetOutput(stderr)
	format := fs.String("format", cfg.Format, "output format: json or dump")
	all := fs.Bool("all", false, "decode every document of the stream")
	watch := fs.Bool("watch", false, "decode again whenever the file changes")
	lenient := fs.Bool("lenient", cfg.Lenient, "decode nodes with unknown tags by their structure")
	maxDepth := fs.Int("max-depth", cfg.MaxDepth, "maximum node nesting")
	var usageErr error
	fs.Usage = func() {
		usageErr = errors.Join(
			usageErr,
			writef(stderr, "Usage: %s [options] <document.yaml>\n\n", fs.Name()),
			writeln(stderr, "Decodes a YAML document and prints the resulting value."),
			writeln(stderr),
			writeln(stderr, "Options:"),
		)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if fs.NArg() != 1 {
		if err := writeln(stderr, "error: exactly one YAML file argument is required"); err != nil {
			return 1
		}
		fs.Usage()
		if usageErr != nil {
			return 1
		}
		return 2
	}

	if !utils.IsOneOf(*format, formatJSON, formatDump) {
		if err := writef(stderr, "error: unknown format %q\n", *format); err != nil {
			return 1
		}
		return 2
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		if writeErr := writef(stderr, "error: %v\n", err); writeErr != nil {
			return 1
		}
		return 2
	}

	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	d, err := decoder.NewBuilder().
		WithLogger(logger).
		WithMaxDepth(*maxDepth).
		RejectUnknownTags(!*lenient).
		Build()
	if err != nil {
		if writeErr := writef(stderr, "error configuring decoder: %v\n", err); writeErr != nil {
			return 1
		}
		return 2
	}

	path := fs.Arg(0)
	render := func() error {
		return decodeFile(d, path, *format, *all, stdout)
	}

	if err := render(); err != nil {
		if writeErr := writef(stderr, "%s: %v\n", path, err); writeErr != nil {
			return 1
		}
		if !*watch {
			return 1
		}
	}

	if !*watch {
		return 0
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := watchFile(ctx, path, render, logger); err != nil {
		if writeErr := writef(stderr, "error watching %s: %v\n", path, err); writeErr != nil {
			return 1
		}
		return 1
	}

	return 0
}

func decodeFile(d *decoder.Deserializer, path, format string, all bool, out io.Writer) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	src, err := decoder.Parse(data)
	if err != nil {
		return err
	}

	var result any
	if all {
		if result, err = d.DeserializeAll(src); err != nil {
			return err
		}
	} else {
		if result, err = d.Deserialize(src); err != nil {
			return err
		}
	}

	if format == formatDump {
		dumper.Fdump(out, result)
		return nil
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")

	return enc.Encode(result)
}

// watchFile runs render after every write to path until ctx is done. The
// parent directory is watched, so a file replaced on save stays tracked.
func watchFile(ctx context.Context, path string, render func() error, logger *slog.Logger) error {
	target, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() {
		_ = w.Close()
	}()

	if err := w.Add(filepath.Dir(target)); err != nil {
		return err
	}

	logger.Info("watching", slog.String("path", target))

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if name, err := filepath.Abs(ev.Name); err != nil || name != target {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			logger.Debug("file changed", slog.String("path", ev.Name), slog.String("op", ev.Op.String()))
			if err := render(); err != nil {
				logger.Warn("decode failed", slog.String("path", target), slog.Any("error", err))
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", slog.Any("error", err))
		}
	}
}

func writef(w io.Writer, format string, args ...any) error {
	_, err := fmt.Fprintf(w, format, args...)
	return err
}

func writeln(w io.Writer, args ...any) error {
	_, err := fmt.Fprintln(w, args...)
	return err
}
