package lexer

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Token is one maximal run of non-separator text.
type Token struct {
	// Text is the token content; it shares memory with the input
	Text string `json:"text" yaml:"text"`
	// Offset is the distance in bytes from the start of the input to the token
	Offset int `json:"offset" yaml:"offset"`
}

// String renders the token the way Report prints it.
func (t Token) String() string {
	return fmt.Sprintf("Token: %s (%d)", t.Text, t.Offset)
}

// Location points at a token inside a named, multi-line source.
type Location struct {
	Path string `json:"path" yaml:"path"`
	// Row is the 1-based line number
	Row int `json:"row" yaml:"row"`
	// Col is the 1-based column, counted in runes
	Col int `json:"col" yaml:"col"`
}

// String formats the location as path:row:col.
func (l Location) String() string {
	return l.Path + ":" + strconv.Itoa(l.Row) + ":" + strconv.Itoa(l.Col)
}

// Locate converts a byte offset into text to a Location in path.
func Locate(path string, text string, offset int) Location {
	head := text[:offset]
	lineStart := strings.LastIndexByte(head, '\n') + 1
	return Location{
		Path: path,
		Row:  strings.Count(head, "\n") + 1,
		Col:  utf8.RuneCountInString(head[lineStart:]) + 1,
	}
}

// Located is a token together with the place it was found.
type Located struct {
	Token    `yaml:",inline"`
	Location Location `json:"location" yaml:"location"`
}

// ID returns a stable identifier for the token, derived from its location
// and content.
func (l Located) ID() string {
	sb := new(strings.Builder)
	sb.WriteString(l.Location.String())
	sb.WriteByte('\n')
	sb.WriteString(l.Text)
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(sb.String())).String()
}

func (l Located) String() string {
	return l.Location.String() + ": " + l.Token.String()
}
