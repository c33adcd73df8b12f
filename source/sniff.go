package source

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/gabriel-vasile/mimetype"
)

// sniffLen is how much of a source is inspected before lexing starts.
const sniffLen = 3072

type readCloser struct {
	io.Reader
	io.Closer
}

// Sniff checks that r starts with text. The returned reader yields the whole
// of r, including the inspected prefix.
func Sniff(r io.Reader) (io.Reader, error) {
	br := bufio.NewReaderSize(r, sniffLen)
	head, err := br.Peek(sniffLen)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return nil, err
	}
	if len(head) == 0 {
		return br, nil
	}
	mtype := mimetype.Detect(head)
	for m := mtype; m != nil; m = m.Parent() {
		if m.Is("text/plain") {
			return br, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNotText, mtype.String())
}

// Checked wraps src so that opening it fails with ErrNotText unless the
// content looks like text.
func Checked(src Source) Source {
	return checked{src}
}

type checked struct {
	Source
}

func (c checked) Open(ctx context.Context) (io.ReadCloser, error) {
	rc, err := c.Source.Open(ctx)
	if err != nil {
		return nil, err
	}
	r, err := Sniff(rc)
	if err != nil {
		rc.Close()
		return nil, fmt.Errorf("%s: %w", c.Name(), err)
	}
	return readCloser{Reader: r, Closer: rc}, nil
}
