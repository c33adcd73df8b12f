package source

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"
)

func readAll(t *testing.T, src Source) string {
	t.Helper()
	rc, err := src.Open(context.Background())
	require.NoError(t, err)
	defer rc.Close()
	bs, err := io.ReadAll(rc)
	require.NoError(t, err)
	return string(bs)
}

func TestFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prog.porth")
	require.NoError(t, os.WriteFile(path, []byte("34 35 + ."), 0o600))

	src := NewFile(path)
	assert.Equal(t, "34 35 + .", readAll(t, src))
	assert.Equal(t, "prog.porth", src.Meta()["filename"])

	_, err := NewFile(dir).Open(context.Background())
	assert.Error(t, err)
	_, err = NewFile(filepath.Join(dir, "missing")).Open(context.Background())
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestHttp(t *testing.T) {
	hits := atomic.NewInt32(0)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Inc()
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		io.WriteString(w, "1 2 +")
	}))
	defer srv.Close()

	src, err := NewHttp(WithHttpURL(srv.URL+"/prog"), WithHttpClient(srv.Client()))
	require.NoError(t, err)
	assert.Equal(t, "1 2 +", readAll(t, src))
	assert.Equal(t, "1 2 +", readAll(t, src))
	assert.EqualValues(t, 1, hits.Load(), "body is cached after the first read")
	assert.Equal(t, ReadCompleted, src.ReadStatus())

	missing, err := NewHttp(WithHttpURL(srv.URL+"/missing"), WithHttpClient(srv.Client()))
	require.NoError(t, err)
	_, err = missing.Open(context.Background())
	assert.Error(t, err)
	assert.Equal(t, Unread, missing.ReadStatus())

	_, err = NewHttp()
	assert.Error(t, err)
}

type fakeS3 struct {
	objects map[string]string
}

func (f fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	body, ok := f.objects[*in.Bucket+"/"+*in.Key]
	if !ok {
		return nil, errors.New("NoSuchKey")
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(body))}, nil
}

func TestS3(t *testing.T) {
	clt := fakeS3{objects: map[string]string{"bucket/dir/prog.porth": "4 5 -"}}
	src := NewS3(WithS3Client(clt), WithS3Bucket("bucket"), WithS3Key("dir/prog.porth"))
	assert.Equal(t, "s3://bucket/dir/prog.porth", src.Name())
	assert.Equal(t, "4 5 -", readAll(t, src))

	_, err := NewS3(WithS3Client(clt), WithS3Bucket("bucket"), WithS3Key("nope")).Open(context.Background())
	assert.Error(t, err)
	_, err = NewS3().Open(context.Background())
	assert.ErrorIs(t, err, ErrNoClient)
}

func TestResolve(t *testing.T) {
	r := NewResolver(WithResolverS3Client(fakeS3{}))
	tests := []struct {
		uri     string
		want    string
		wantErr bool
	}{
		{uri: "prog.porth", want: "*source.File"},
		{uri: "/tmp/prog.porth", want: "*source.File"},
		{uri: "file:///tmp/prog.porth", want: "*source.File"},
		{uri: "https://example.com/prog.porth", want: "*source.Http"},
		{uri: "s3://bucket/key.porth", want: "*source.S3"},
		{uri: "s3://bucket", wantErr: true},
		{uri: "ftp://example.com/x", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.uri, func(t *testing.T) {
			src, err := r.Resolve(tt.uri)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, typeName(src))
		})
	}

	_, err := NewResolver().Resolve("s3://bucket/key")
	assert.ErrorIs(t, err, ErrNoClient)
}

func typeName(src Source) string {
	switch src.(type) {
	case *File:
		return "*source.File"
	case *Http:
		return "*source.Http"
	case *S3:
		return "*source.S3"
	}
	return ""
}

func TestChecked(t *testing.T) {
	text := strings.Repeat("34 35 + . ", 1000)
	assert.Equal(t, text, readAll(t, Checked(NewText("big", text))))
	assert.Equal(t, "", readAll(t, Checked(NewText("empty", ""))))

	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	_, err := Sniff(bytes.NewReader(png))
	assert.ErrorIs(t, err, ErrNotText)

	_, err = Checked(NewText("img", string(png))).Open(context.Background())
	assert.ErrorIs(t, err, ErrNotText)
	assert.Contains(t, err.Error(), "img")
}
