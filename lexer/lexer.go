// Package lexer chops text into separator-delimited tokens and reports where
// each token starts.
package lexer

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/bububa/svlex/sv"
)

// Tokenize returns every non-empty token of text split on sep.
func Tokenize(text string, sep rune) []Token {
	var tokens []Token
	for tok := range All(text, sep) {
		tokens = append(tokens, tok)
	}
	return tokens
}

// All yields every non-empty token of text split on sep, left to right.
// Ranging over the sequence again starts over from the beginning of text.
func All(text string, sep rune) iter.Seq[Token] {
	return all(text, func(r rune) bool { return r == sep })
}

func all(text string, isSep func(rune) bool) iter.Seq[Token] {
	return func(yield func(Token) bool) {
		source := sv.New(text).TrimLeadingFunc(isSep)
		for !source.Empty() {
			var token sv.View
			token, source = source.NextTokenFunc(isSep)
			if !yield(Token{Text: token.String(), Offset: token.Start()}) {
				return
			}
			source = source.TrimLeadingFunc(isSep)
		}
	}
}

// Report writes one "Token: <text> (<offset>)" line per token.
func Report(w io.Writer, tokens []Token) error {
	bw := bufio.NewWriter(w)
	for _, tok := range tokens {
		if _, err := fmt.Fprintln(bw, tok); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Lexer tokenizes text and named sources with a configured separator.
type Lexer struct {
	Options
}

// New creates a Lexer splitting on DefaultSeparator unless told otherwise.
func New(opts ...Option) *Lexer {
	ret := &Lexer{
		Options: Options{
			sep:     DefaultSeparator,
			workers: 1,
		},
	}
	for _, opt := range opts {
		opt(&ret.Options)
	}
	if ret.workers < 1 {
		ret.workers = 1
	}
	if ret.stats == nil {
		ret.stats = NewStats()
	}
	if ret.logger == nil {
		ret.logger = zap.NewNop()
	}
	return ret
}

func (l *Lexer) Stats() *Stats {
	return l.stats
}

// All yields the tokens of text.
func (l *Lexer) All(text string) iter.Seq[Token] {
	return all(text, l.separatorFunc())
}

// Tokenize returns the tokens of text.
func (l *Lexer) Tokenize(text string) []Token {
	var tokens []Token
	for tok := range l.All(text) {
		tokens = append(tokens, tok)
	}
	l.stats.bytes.Add(int64(len(text)))
	l.stats.tokens.Add(int64(len(tokens)))
	return tokens
}

// Report tokenizes text and writes the result to w.
func (l *Lexer) Report(w io.Writer, text string) error {
	return Report(w, l.Tokenize(text))
}

// LexReader tokenizes every line read from r. Offsets are measured from the
// beginning of r; line terminators never end up inside a token.
func (l *Lexer) LexReader(ctx context.Context, path string, r io.Reader) ([]Located, error) {
	var (
		ret    []Located
		offset int
		row    int
	)
	isSep := l.separatorFunc()
	br := bufio.NewReader(r)
	for {
		if err := ctx.Err(); err != nil {
			return ret, err
		}
		line, err := br.ReadString('\n')
		if len(line) > 0 {
			row++
			content := strings.TrimSuffix(strings.TrimSuffix(line, "\n"), "\r")
			for tok := range all(content, isSep) {
				ret = append(ret, Located{
					Token: Token{Text: tok.Text, Offset: offset + tok.Offset},
					Location: Location{
						Path: path,
						Row:  row,
						Col:  utf8.RuneCountInString(content[:tok.Offset]) + 1,
					},
				})
				l.stats.tokens.Inc()
			}
			offset += len(line)
			l.stats.lines.Inc()
			l.stats.bytes.Add(int64(len(line)))
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return ret, fmt.Errorf("failed to read %s: %w", path, err)
		}
	}
	l.stats.sources.Inc()
	l.logger.Debug("lexed source", zap.String("path", path), zap.Int("lines", row), zap.Int("tokens", len(ret)))
	return ret, nil
}

// Opener is a named input that can be opened for reading.
type Opener interface {
	Name() string
	Open(context.Context) (io.ReadCloser, error)
}

// LexSources lexes every source, at most Workers at a time. Results are
// returned in the order of sources. The first failure cancels the rest.
func (l *Lexer) LexSources(ctx context.Context, sources ...Opener) ([][]Located, error) {
	ret := make([][]Located, len(sources))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.workers)
	for idx, src := range sources {
		g.Go(func() error {
			rc, err := src.Open(gctx)
			if err != nil {
				return fmt.Errorf("failed to open %s: %w", src.Name(), err)
			}
			defer rc.Close()
			tokens, err := l.LexReader(gctx, src.Name(), rc)
			if err != nil {
				return err
			}
			ret[idx] = tokens
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return ret, nil
}
