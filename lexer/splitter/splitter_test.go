package splitter

import (
	"strings"
	"testing"

	"github.com/bububa/svlex/lexer"
)

func TestSegmenters(t *testing.T) {
	tests := []struct {
		name      string
		segmenter Segmenter
		input     string
		want      []lexer.Token
	}{
		{
			name:      "delim",
			segmenter: NewDelim(nil),
			input:     "    34       35 +   .    asdajs",
			want: []lexer.Token{
				{Text: "34", Offset: 4},
				{Text: "35", Offset: 11},
				{Text: "+", Offset: 20},
				{Text: ".", Offset: 25},
				{Text: "asdajs", Offset: 30},
			},
		},
		{
			name:      "words",
			segmenter: Words{},
			input:     "Hello, world! 34 35",
			want: []lexer.Token{
				{Text: "Hello", Offset: 0},
				{Text: ",", Offset: 5},
				{Text: "world", Offset: 7},
				{Text: "!", Offset: 12},
				{Text: "34", Offset: 14},
				{Text: "35", Offset: 17},
			},
		},
		{
			name:      "sentences",
			segmenter: Sentences{},
			input:     "Basic chunking one. Chunking two? Chunking three!",
			want: []lexer.Token{
				{Text: "Basic chunking one.", Offset: 0},
				{Text: "Chunking two?", Offset: 20},
				{Text: "Chunking three!", Offset: 34},
			},
		},
		{
			name:      "graphemes",
			segmenter: Graphemes{},
			input:     "e\u0301 x",
			want: []lexer.Token{
				{Text: "e\u0301", Offset: 0},
				{Text: "x", Offset: 4},
			},
		},
		{
			name:      "empty",
			segmenter: Words{},
			input:     "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.segmenter.Segment(tt.input)
			if len(got) != len(tt.want) {
				t.Fatalf("invalid tokens, want %d, got %d: %v", len(tt.want), len(got), got)
			}
			for i, want := range tt.want {
				if got[i] != want {
					t.Errorf("invalid token:%d, want %+v, got %+v", i, want, got[i])
				}
				if tt.input[got[i].Offset:got[i].Offset+len(got[i].Text)] != got[i].Text {
					t.Errorf("offset of token:%d does not point at its text", i)
				}
			}
		})
	}
}

func TestSplitter(t *testing.T) {
	input := "one two three four five six seven eight nine ten"
	tests := []struct {
		name        string
		chunkSize   int
		overlap     int
		wantChunks  []string
		wantOffsets []int
	}{
		{
			name:        "basic chunking",
			chunkSize:   3,
			overlap:     0,
			wantChunks:  []string{"one two three", "four five six", "seven eight nine", "ten"},
			wantOffsets: []int{0, 14, 28, 45},
		},
		{
			name:      "with overlap",
			chunkSize: 3,
			overlap:   1,
			wantChunks: []string{
				"one two three",
				"three four five",
				"five six seven",
				"seven eight nine",
				"nine ten",
			},
			wantOffsets: []int{0, 8, 19, 28, 40},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			splitter, err := New(
				WithChunkSize(tt.chunkSize),
				WithOverlap(tt.overlap),
			)
			if err != nil {
				t.Fatal(err)
			}
			chunks := splitter.Split(input)
			t.Log(strings.Join(splitter.SplitText(input), "\", \""))
			if len(chunks) != len(tt.wantChunks) {
				t.Fatalf("invalid chunks, want %d, got %d", len(tt.wantChunks), len(chunks))
			}
			for i, want := range tt.wantChunks {
				if chunks[i].Text != want {
					t.Errorf("invalid chunk:%d, want %s, got %s", i, want, chunks[i].Text)
				}
				if chunks[i].Offset != tt.wantOffsets[i] {
					t.Errorf("invalid chunk offset:%d, want %d, got %d", i, tt.wantOffsets[i], chunks[i].Offset)
				}
				if chunks[i].TokenSize > tt.chunkSize {
					t.Errorf("chunk:%d exceeds size: %d", i, chunks[i].TokenSize)
				}
			}
		})
	}
}

func TestSplitterOversizedToken(t *testing.T) {
	splitter, err := New(
		WithChunkSize(4),
		WithTokenCounter(RunesTokenCounter{}),
	)
	if err != nil {
		t.Fatal(err)
	}
	got := splitter.SplitText("ab abcdefgh c")
	want := []string{"ab", "abcdefgh", "c"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("invalid chunks, want %v, got %v", want, got)
	}
	if n := splitter.TokenCount("abc"); n != 3 {
		t.Errorf("invalid token count, want 3, got %d", n)
	}
}

func TestSplitterOverlapFits(t *testing.T) {
	splitter, err := New(
		WithChunkSize(4),
		WithOverlap(2),
		WithTokenCounter(RunesTokenCounter{}),
	)
	if err != nil {
		t.Fatal(err)
	}
	chunks := splitter.Split("ab cd efgh ij")
	want := []string{"ab cd", "efgh", "ij"}
	wantOffsets := []int{0, 6, 11}
	if len(chunks) != len(want) {
		t.Fatalf("invalid chunks, want %v, got %d", want, len(chunks))
	}
	for i, c := range chunks {
		if c.Text != want[i] {
			t.Errorf("invalid chunk:%d, want %s, got %s", i, want[i], c.Text)
		}
		if c.Offset != wantOffsets[i] {
			t.Errorf("invalid chunk offset:%d, want %d, got %d", i, wantOffsets[i], c.Offset)
		}
		if c.TokenSize > 4 {
			t.Errorf("chunk:%d exceeds size: %d", i, c.TokenSize)
		}
	}
}

func TestSplitterOptions(t *testing.T) {
	if _, err := New(WithChunkSize(0)); err != ErrChunkSize {
		t.Errorf("want ErrChunkSize, got %v", err)
	}
	if _, err := New(WithChunkSize(2), WithOverlap(2)); err != ErrOverlap {
		t.Errorf("want ErrOverlap, got %v", err)
	}
	if _, err := NewSegmenter("bogus", nil); err == nil {
		t.Error("want error for unknown mode")
	}
	if _, err := NewTokenCounter("bogus", ""); err == nil {
		t.Error("want error for unknown counter")
	}
	counter, err := NewTokenCounter("words", "")
	if err != nil {
		t.Fatal(err)
	}
	if n := counter.Count([]byte("hello world")); n != 3 {
		t.Errorf("invalid word segments, want 3, got %d", n)
	}
}
