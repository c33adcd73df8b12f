// Package source opens the inputs that get tokenized: files, HTTP resources,
// S3 objects and in-memory text.
package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

var (
	ErrReading  = errors.New("source is reading")
	ErrNotText  = errors.New("source is not text")
	ErrNoClient = errors.New("no s3 client configured")
)

// Source is a named input that can be opened for reading.
type Source interface {
	Name() string
	Open(context.Context) (io.ReadCloser, error)
	Meta() map[string]string
}

// Text is an in-memory source.
type Text struct {
	name string
	text string
}

var _ Source = (*Text)(nil)

func NewText(name string, text string) *Text {
	return &Text{name: name, text: text}
}

func (t *Text) Name() string {
	return t.name
}

func (t *Text) Open(context.Context) (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader(t.text)), nil
}

func (t *Text) Meta() map[string]string {
	return map[string]string{
		"source": "text",
		"name":   t.name,
	}
}

// Resolver turns a URI into a Source.
type Resolver struct {
	s3Client   S3API
	httpClient *http.Client
}

type ResolverOption func(*Resolver)

func WithResolverS3Client(clt S3API) ResolverOption {
	return func(r *Resolver) {
		r.s3Client = clt
	}
}

func WithResolverHttpClient(clt *http.Client) ResolverOption {
	return func(r *Resolver) {
		r.httpClient = clt
	}
}

func NewResolver(opts ...ResolverOption) *Resolver {
	ret := new(Resolver)
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

// Resolve picks a loader from the shape of uri: s3://bucket/key,
// http(s)://..., or a local file path.
func (r *Resolver) Resolve(uri string) (Source, error) {
	u, err := url.Parse(uri)
	if err != nil || u.Scheme == "" || len(u.Scheme) == 1 {
		// no scheme, or a windows drive letter
		return NewFile(uri), nil
	}
	switch u.Scheme {
	case "s3":
		if r.s3Client == nil {
			return nil, ErrNoClient
		}
		key := strings.TrimPrefix(u.Path, "/")
		if u.Host == "" || key == "" {
			return nil, fmt.Errorf("invalid s3 uri: %s", uri)
		}
		return NewS3(WithS3Client(r.s3Client), WithS3Bucket(u.Host), WithS3Key(key)), nil
	case "http", "https":
		return NewHttp(WithHttpURL(uri), WithHttpClient(r.httpClient))
	case "file":
		return NewFile(u.Path), nil
	}
	return nil, fmt.Errorf("unsupported source scheme: %s", u.Scheme)
}
