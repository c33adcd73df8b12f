package lexer

import (
	"unicode"

	"go.uber.org/zap"
)

// DefaultSeparator is the separator used when none is configured.
const DefaultSeparator = ' '

// Options holds the configuration of a Lexer.
type Options struct {
	// sep is the single separator rune, used unless isSep is set
	sep rune
	// isSep overrides sep with a predicate
	isSep   func(rune) bool
	workers int
	stats   *Stats
	logger  *zap.Logger
}

// Option is a function type for configuring Lexer Options.
// This follows the functional options pattern for clean and flexible configuration.
type Option func(*Options)

// WithSeparator splits on a single rune.
func WithSeparator(sep rune) Option {
	return func(o *Options) {
		o.sep = sep
		o.isSep = nil
	}
}

// WithWhitespace splits on any Unicode white space.
func WithWhitespace() Option {
	return func(o *Options) {
		o.isSep = unicode.IsSpace
	}
}

// WithSeparatorFunc splits on every rune for which fn returns true.
func WithSeparatorFunc(fn func(rune) bool) Option {
	return func(o *Options) {
		o.isSep = fn
	}
}

// WithWorkers bounds the number of sources lexed at the same time.
func WithWorkers(n int) Option {
	return func(o *Options) {
		o.workers = n
	}
}

// WithStats makes the lexer accumulate into stats, which may be shared.
func WithStats(stats *Stats) Option {
	return func(o *Options) {
		o.stats = stats
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(o *Options) {
		o.logger = logger
	}
}

func (o Options) Separator() rune {
	return o.sep
}

func (o Options) Workers() int {
	return o.workers
}

func (o Options) separatorFunc() func(rune) bool {
	if o.isSep != nil {
		return o.isSep
	}
	sep := o.sep
	return func(r rune) bool { return r == sep }
}
