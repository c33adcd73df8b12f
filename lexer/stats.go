package lexer

import (
	"fmt"

	"go.uber.org/atomic"
)

// Stats counts what lexers have consumed. It is safe for concurrent use.
type Stats struct {
	tokens  *atomic.Int64
	lines   *atomic.Int64
	bytes   *atomic.Int64
	sources *atomic.Int64
}

func NewStats() *Stats {
	return &Stats{
		tokens:  atomic.NewInt64(0),
		lines:   atomic.NewInt64(0),
		bytes:   atomic.NewInt64(0),
		sources: atomic.NewInt64(0),
	}
}

func (s *Stats) Tokens() int64 {
	return s.tokens.Load()
}

func (s *Stats) Lines() int64 {
	return s.lines.Load()
}

func (s *Stats) Bytes() int64 {
	return s.bytes.Load()
}

func (s *Stats) Sources() int64 {
	return s.sources.Load()
}

func (s *Stats) String() string {
	return fmt.Sprintf("sources=%d lines=%d bytes=%d tokens=%d", s.Sources(), s.Lines(), s.Bytes(), s.Tokens())
}
