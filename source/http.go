package source

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/atomic"
)

type ReadStatus = int32

const (
	Unread ReadStatus = iota
	Reading
	ReadCompleted
)

// Http is a source fetched over HTTP. The body is read once and served from
// memory on later opens.
type Http struct {
	status *atomic.Int32
	client *http.Client
	link   string
	method string
	buffer *bytes.Buffer
}

var _ Source = (*Http)(nil)

type HttpConfig struct {
	client *http.Client
	link   string
	method string
}

type HttpOption func(*HttpConfig)

func WithHttpMethod(method string) HttpOption {
	return func(h *HttpConfig) {
		h.method = method
	}
}

func WithHttpURL(link string) HttpOption {
	return func(h *HttpConfig) {
		h.link = link
	}
}

func WithHttpClient(client *http.Client) HttpOption {
	return func(h *HttpConfig) {
		h.client = client
	}
}

func NewHttp(opts ...HttpOption) (*Http, error) {
	var cfg HttpConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.method == "" {
		cfg.method = http.MethodGet
	}
	if cfg.client == nil {
		cfg.client = http.DefaultClient
	}
	if cfg.link == "" {
		return nil, fmt.Errorf("http source needs a url")
	}
	return &Http{
		status: atomic.NewInt32(Unread),
		client: cfg.client,
		link:   cfg.link,
		method: cfg.method,
		buffer: new(bytes.Buffer),
	}, nil
}

func (h *Http) Name() string {
	return h.link
}

func (h *Http) ReadStatus() ReadStatus {
	return h.status.Load()
}

func (h *Http) Open(ctx context.Context) (io.ReadCloser, error) {
	if h.ReadStatus() == ReadCompleted {
		return io.NopCloser(bytes.NewReader(h.buffer.Bytes())), nil
	}
	if !h.status.CompareAndSwap(Unread, Reading) {
		return nil, ErrReading
	}
	if err := h.fetch(ctx); err != nil {
		h.buffer.Reset()
		h.status.Store(Unread)
		return nil, err
	}
	h.status.Store(ReadCompleted)
	return io.NopCloser(bytes.NewReader(h.buffer.Bytes())), nil
}

func (h *Http) fetch(ctx context.Context) error {
	httpReq, err := http.NewRequestWithContext(ctx, h.method, h.link, nil)
	if err != nil {
		return err
	}
	httpResp, err := h.client.Do(httpReq)
	if err != nil {
		return err
	}
	defer httpResp.Body.Close()
	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		return fmt.Errorf("failed to fetch %s: %s", h.link, httpResp.Status)
	}
	if _, err := io.Copy(h.buffer, httpResp.Body); err != nil {
		return fmt.Errorf("failed to read %s: %w", h.link, err)
	}
	return nil
}

func (h *Http) Meta() map[string]string {
	return map[string]string{
		"source": "http",
		"url":    h.link,
		"method": h.method,
	}
}
