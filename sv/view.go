// Package sv provides non-owning views over text.
//
// A View never copies the text it looks at. Narrowing a view only moves its
// start forward and shrinks its count, so every view taken from the same
// string can report where it begins relative to that string.
package sv

import (
	"strings"
	"unicode/utf8"
)

// View is a window over a backing string, described by a start index and a
// count of remaining bytes.
type View struct {
	src   string
	start int
	count int
}

// New returns a view over the whole of s.
func New(s string) View {
	return View{src: s, count: len(s)}
}

// Count returns the number of bytes left in the view.
func (v View) Count() int {
	return v.count
}

// Empty reports whether the view has nothing left.
func (v View) Empty() bool {
	return v.count == 0
}

// Start returns the distance in bytes from the beginning of the backing text
// to the beginning of the view.
func (v View) Start() int {
	return v.start
}

// String returns the text inside the view. No copy is made.
func (v View) String() string {
	return v.src[v.start : v.start+v.count]
}

// TrimLeading advances the view past every leading sep.
func (v View) TrimLeading(sep rune) View {
	return v.TrimLeadingFunc(func(r rune) bool { return r == sep })
}

// TrimLeadingFunc advances the view past every leading rune matching fn.
func (v View) TrimLeadingFunc(fn func(rune) bool) View {
	s := v.String()
	rest := strings.TrimLeftFunc(s, fn)
	return v.advance(len(s) - len(rest))
}

// NextToken splits the view at the first sep. The token runs from the start
// of the view up to, not including, sep; rest begins right after sep, or is
// empty when sep is not found.
//
// A view that begins with sep yields an empty token. Callers wanting only
// non-empty tokens trim before each call.
func (v View) NextToken(sep rune) (token, rest View) {
	s := v.String()
	i := strings.IndexRune(s, sep)
	if i < 0 {
		return v, v.advance(v.count)
	}
	// RuneError also matches a single invalid byte
	_, width := utf8.DecodeRuneInString(s[i:])
	return v.prefix(i), v.advance(i + width)
}

// NextTokenFunc is NextToken with the separator chosen by fn.
func (v View) NextTokenFunc(fn func(rune) bool) (token, rest View) {
	s := v.String()
	i := strings.IndexFunc(s, fn)
	if i < 0 {
		return v, v.advance(v.count)
	}
	_, width := utf8.DecodeRuneInString(s[i:])
	return v.prefix(i), v.advance(i + width)
}

func (v View) prefix(n int) View {
	return View{src: v.src, start: v.start, count: n}
}

func (v View) advance(n int) View {
	return View{src: v.src, start: v.start + n, count: v.count - n}
}
