package splitter

import (
	"bytes"
	"fmt"
	"unicode"

	"github.com/clipperhouse/uax29/graphemes"
	"github.com/clipperhouse/uax29/phrases"
	"github.com/clipperhouse/uax29/sentences"
	"github.com/clipperhouse/uax29/words"

	"github.com/bububa/svlex/lexer"
)

// Segmenter breaks text into tokens carrying their byte offset in text.
type Segmenter interface {
	Segment(text string) []lexer.Token
}

// Delim segments on the separator configured in the wrapped lexer.
type Delim struct {
	lexer *lexer.Lexer
}

var _ Segmenter = (*Delim)(nil)

func NewDelim(lx *lexer.Lexer) *Delim {
	if lx == nil {
		lx = lexer.New()
	}
	return &Delim{lexer: lx}
}

func (d *Delim) Segment(text string) []lexer.Token {
	return d.lexer.Tokenize(text)
}

// Words segments on Unicode word boundaries (UAX #29).
type Words struct{}

var _ Segmenter = (*Words)(nil)

func (Words) Segment(text string) []lexer.Token {
	return segment(text, words.SegmentAll)
}

// Graphemes segments into user-perceived characters.
type Graphemes struct{}

var _ Segmenter = (*Graphemes)(nil)

func (Graphemes) Segment(text string) []lexer.Token {
	return segment(text, graphemes.SegmentAll)
}

type Sentences struct{}

var _ Segmenter = (*Sentences)(nil)

func (Sentences) Segment(text string) []lexer.Token {
	return segment(text, sentences.SegmentAll)
}

type Phrases struct{}

var _ Segmenter = (*Phrases)(nil)

func (Phrases) Segment(text string) []lexer.Token {
	return segment(text, phrases.SegmentAll)
}

// segment walks the segments returned by all, which together cover the whole
// input, and keeps the trimmed non-space part of each one.
func segment(text string, all func([]byte) [][]byte) []lexer.Token {
	var (
		ret    []lexer.Token
		offset int
	)
	for _, seg := range all([]byte(text)) {
		lead := bytes.IndexFunc(seg, func(r rune) bool { return !unicode.IsSpace(r) })
		if lead >= 0 {
			n := len(bytes.TrimRightFunc(seg, unicode.IsSpace))
			start := offset + lead
			ret = append(ret, lexer.Token{Text: text[start : offset+n], Offset: start})
		}
		offset += len(seg)
	}
	return ret
}

// NewSegmenter resolves a segmenter by mode name. lx is used by the
// "delim" and "whitespace" modes.
func NewSegmenter(mode string, lx *lexer.Lexer) (Segmenter, error) {
	switch mode {
	case "", "delim", "whitespace":
		return NewDelim(lx), nil
	case "words":
		return Words{}, nil
	case "graphemes":
		return Graphemes{}, nil
	case "sentences":
		return Sentences{}, nil
	case "phrases":
		return Phrases{}, nil
	}
	return nil, fmt.Errorf("unknown segmenter mode: %s", mode)
}
