package splitter

import "github.com/bububa/svlex/lexer"

// Chunk represents a run of consecutive tokens with associated metadata for
// tracking its position and size within the original text.
type Chunk struct {
	// Text is the chunk's tokens joined by single spaces
	Text string `json:"text" yaml:"text"`
	// Tokens are the tokens in this chunk
	Tokens []lexer.Token `json:"tokens" yaml:"tokens"`
	// TokenSize is the counted size of this chunk
	TokenSize int `json:"token_size" yaml:"token_size"`
	// Offset is the byte offset of the first token in the original text
	Offset int `json:"offset" yaml:"offset"`
	// Start is the index of the first token in this chunk
	Start int `json:"start" yaml:"start"`
	// End is the index of the last token in this chunk (exclusive)
	End int `json:"end" yaml:"end"`
}
