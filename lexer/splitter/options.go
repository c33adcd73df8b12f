package splitter

import (
	"errors"
	"strings"

	"github.com/bububa/svlex/lexer"
)

// TextSplitter is implemented by anything that can split text into chunks
// and measure text with the same counter.
type TextSplitter interface {
	SplitText(string) []string
	TokenCount(txt string) int
}

type Options struct {
	chunkSize    int
	overlap      int
	segmenter    Segmenter
	tokenCounter TokenCounter
}

// Option is a function type for configuring splitter Options.
// This follows the functional options pattern for clean and flexible configuration.
type Option func(*Options)

func WithChunkSize(size int) Option {
	return func(o *Options) {
		o.chunkSize = size
	}
}

func WithOverlap(overlap int) Option {
	return func(o *Options) {
		o.overlap = overlap
	}
}

func WithSegmenter(segmenter Segmenter) Option {
	return func(o *Options) {
		o.segmenter = segmenter
	}
}

func WithTokenCounter(counter TokenCounter) Option {
	return func(o *Options) {
		o.tokenCounter = counter
	}
}

func (o Options) ChunkSize() int {
	return o.chunkSize
}

func (o Options) Overlap() int {
	return o.overlap
}

// Splitter segments text and groups the segments into bounded chunks.
type Splitter struct {
	Options
}

var _ TextSplitter = (*Splitter)(nil)

var (
	ErrChunkSize = errors.New("chunk size must be positive")
	ErrOverlap   = errors.New("overlap must be in [0, chunk size)")
)

// New creates a Splitter. By default it splits on spaces and counts each
// token as one unit, with chunks of 200 and no overlap.
func New(opts ...Option) (*Splitter, error) {
	ret := &Splitter{
		Options: Options{
			chunkSize: 200,
		},
	}
	for _, opt := range opts {
		opt(&ret.Options)
	}
	if ret.chunkSize < 1 {
		return nil, ErrChunkSize
	}
	if ret.overlap < 0 || ret.overlap >= ret.chunkSize {
		return nil, ErrOverlap
	}
	if ret.segmenter == nil {
		ret.segmenter = NewDelim(nil)
	}
	if ret.tokenCounter == nil {
		ret.tokenCounter = UnitTokenCounter{}
	}
	return ret, nil
}

// Split segments text and returns the chunks.
func (s *Splitter) Split(text string) []Chunk {
	return s.Chunk(s.segmenter.Segment(text))
}

func (s *Splitter) SplitText(txt string) []string {
	chunks := s.Split(txt)
	ret := make([]string, len(chunks))
	for idx, c := range chunks {
		ret[idx] = c.Text
	}
	return ret
}

func (s *Splitter) TokenCount(txt string) int {
	return s.tokenCounter.Count([]byte(txt))
}

// Chunk groups tokens into chunks of at most ChunkSize counted units. A
// token larger than ChunkSize gets a chunk of its own. Consecutive chunks
// share trailing tokens worth about Overlap units, but a chunk never starts
// where the previous one did.
func (s *Splitter) Chunk(tokens []lexer.Token) []Chunk {
	var (
		chunks  []Chunk
		current Chunk
		count   int
	)
	for i, tok := range tokens {
		n := s.tokenCounter.Count([]byte(tok.Text))
		if count+n > s.chunkSize && count > 0 {
			chunks = append(chunks, seal(tokens, current))
			overlapStart := max(current.Start+1, current.End-s.estimateOverlapParts(tokens, current.End))
			count = 0
			for j := overlapStart; j <= i; j++ {
				count += s.tokenCounter.Count([]byte(tokens[j].Text))
			}
			// drop overlap until the current token fits
			for count > s.chunkSize && overlapStart < i {
				count -= s.tokenCounter.Count([]byte(tokens[overlapStart].Text))
				overlapStart++
			}
			current = Chunk{Start: overlapStart, End: i + 1}
		} else {
			if count == 0 {
				current.Start = i
			}
			current.End = i + 1
			count += n
		}
		current.TokenSize = count
	}
	if current.End > current.Start {
		chunks = append(chunks, seal(tokens, current))
	}
	return chunks
}

// estimateOverlapParts calculates how many tokens from the end of the
// previous chunk should be included in the next chunk to achieve the desired
// overlap.
func (s *Splitter) estimateOverlapParts(tokens []lexer.Token, end int) int {
	overlapUnits := 0
	overlapParts := 0
	for i := end - 1; i >= 0 && overlapUnits < s.overlap; i-- {
		overlapUnits += s.tokenCounter.Count([]byte(tokens[i].Text))
		overlapParts++
	}
	return overlapParts
}

func seal(tokens []lexer.Token, c Chunk) Chunk {
	parts := tokens[c.Start:c.End]
	texts := make([]string, len(parts))
	for idx, tok := range parts {
		texts[idx] = tok.Text
	}
	c.Tokens = parts
	c.Text = strings.Join(texts, " ")
	c.Offset = parts[0].Offset
	return c
}
