// Command svlex splits text into separator-delimited tokens and prints each
// token with the offset it started at.
//
// Usage:
//
//	svlex [flags] [source ...]
//
// A source is a file path, an http(s) URL or an s3://bucket/key URI. With no
// source the built-in demonstration line is tokenized.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/rs/xid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/bububa/svlex/config"
)

// demoText is tokenized when no source is given.
const demoText = "    34       35 +   .    asdajs"

type flags struct {
	config  string
	sep     string
	mode    string
	format  string
	chunk   int
	overlap int
	counter string
	workers int
	sim     bool
	loc     bool
	verbose bool
}

var errUsage = errors.New("usage")

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	var f flags
	fs := flag.NewFlagSet("svlex", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&f.config, "config", "", "path to a YAML config file")
	fs.StringVar(&f.sep, "sep", " ", "separator character")
	fs.StringVar(&f.mode, "mode", "delim", "delim, whitespace, words, graphemes, sentences or phrases")
	fs.StringVar(&f.format, "format", "text", "output format: text, yaml or json")
	fs.IntVar(&f.chunk, "chunk", 0, "group tokens into chunks of this size (0 disables)")
	fs.IntVar(&f.overlap, "overlap", 0, "chunk overlap")
	fs.StringVar(&f.counter, "counter", "tokens", "chunk size unit: tokens, runes, graphemes, words, phrases, sentences or tiktoken")
	fs.IntVar(&f.workers, "workers", 4, "sources lexed at once")
	fs.BoolVar(&f.sim, "sim", false, "simulate the tokens as a stack program")
	fs.BoolVar(&f.loc, "loc", false, "prefix tokens with path:row:col")
	fs.BoolVar(&f.verbose, "v", false, "verbose logging")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg, err := loadConfig(fs, &f)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}

	logger := newLogger(stderr, f.verbose).With(zap.String("run", xid.New().String()))
	defer logger.Sync()

	if err := execute(ctx, cfg, &f, fs.Args(), stdout, logger); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprintln(stderr, err)
			return 2
		}
		logger.Debug("run failed", zap.Error(err))
		fmt.Fprintln(stderr, err)
		return 1
	}
	return 0
}

// loadConfig starts from the config file, or the defaults, and applies the
// flags that were set explicitly.
func loadConfig(fs *flag.FlagSet, f *flags) (*config.Config, error) {
	cfg := config.Default()
	if f.config != "" {
		var err error
		if cfg, err = config.Load(f.config); err != nil {
			return nil, err
		}
	}
	fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "sep":
			cfg.Separator = f.sep
		case "mode":
			cfg.Mode = f.mode
		case "format":
			cfg.Format = f.format
		case "chunk":
			cfg.Chunk.Size = f.chunk
		case "overlap":
			cfg.Chunk.Overlap = f.overlap
		case "counter":
			cfg.Chunk.Counter = f.counter
		case "workers":
			cfg.Workers = f.workers
		}
	})
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(w io.Writer, verbose bool) *zap.Logger {
	level := zapcore.WarnLevel
	if verbose {
		level = zapcore.DebugLevel
	}
	encoder := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	return zap.New(zapcore.NewCore(encoder, zapcore.AddSync(w), level))
}
