package splitter

import (
	"fmt"
	"unicode/utf8"

	"github.com/clipperhouse/uax29/graphemes"
	"github.com/clipperhouse/uax29/phrases"
	"github.com/clipperhouse/uax29/sentences"
	"github.com/clipperhouse/uax29/words"
	"github.com/pkoukk/tiktoken-go"
)

// TokenCounter defines the interface for measuring the size of a token.
// This abstraction allows chunks to be bounded by tokens, runes, words or
// model subwords.
type TokenCounter interface {
	// Count returns the size of p according to the implementation's
	// counting strategy.
	Count(p []byte) int
}

// TokenCounterFunc adapts a plain function to TokenCounter.
type TokenCounterFunc func(p []byte) int

func (fn TokenCounterFunc) Count(p []byte) int {
	return fn(p)
}

// UnitTokenCounter counts every non-empty token as one.
type UnitTokenCounter struct{}

func (c UnitTokenCounter) Count(p []byte) int {
	if len(p) == 0 {
		return 0
	}
	return 1
}

type RunesTokenCounter struct{}

func (c RunesTokenCounter) Count(p []byte) int {
	return utf8.RuneCount(p)
}

type GraphemesTokenCounter struct{}

func (c GraphemesTokenCounter) Count(p []byte) int {
	return len(graphemes.SegmentAll(p))
}

type WordsTokenCounter struct{}

func (c WordsTokenCounter) Count(p []byte) int {
	return len(words.SegmentAll(p))
}

type PhrasesTokenCounter struct{}

func (c PhrasesTokenCounter) Count(p []byte) int {
	return len(phrases.SegmentAll(p))
}

type SentencesTokenCounter struct{}

func (c SentencesTokenCounter) Count(p []byte) int {
	return len(sentences.SegmentAll(p))
}

// TikTokenCounter counts tokens with the tiktoken library, which implements
// the BPE encodings used by OpenAI models.
type TikTokenCounter struct {
	tke *tiktoken.Tiktoken
}

// NewTikTokenCounter creates a new TikTokenCounter using the specified encoding.
// Common encodings include:
// - "cl100k_base" (GPT-4, ChatGPT)
// - "p50k_base" (GPT-3)
// - "r50k_base" (Codex)
func NewTikTokenCounter(encoding string) (*TikTokenCounter, error) {
	tke, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		return nil, fmt.Errorf("failed to get encoding: %w", err)
	}
	return &TikTokenCounter{tke: tke}, nil
}

func (ttc *TikTokenCounter) Count(p []byte) int {
	return len(ttc.tke.Encode(string(p), nil, nil))
}

// NewTokenCounter resolves a counter by name. encoding is only used by
// "tiktoken".
func NewTokenCounter(name string, encoding string) (TokenCounter, error) {
	switch name {
	case "", "tokens":
		return UnitTokenCounter{}, nil
	case "runes":
		return RunesTokenCounter{}, nil
	case "graphemes":
		return GraphemesTokenCounter{}, nil
	case "words":
		return WordsTokenCounter{}, nil
	case "phrases":
		return PhrasesTokenCounter{}, nil
	case "sentences":
		return SentencesTokenCounter{}, nil
	case "tiktoken":
		if encoding == "" {
			encoding = "cl100k_base"
		}
		return NewTikTokenCounter(encoding)
	}
	return nil, fmt.Errorf("unknown token counter: %s", name)
}
