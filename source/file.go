package source

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
)

type File struct {
	path string
}

var _ Source = (*File)(nil)

func NewFile(path string) *File {
	return &File{path: path}
}

func (f *File) Name() string {
	return f.path
}

func (f *File) Open(context.Context) (io.ReadCloser, error) {
	fp, err := os.Open(f.path)
	if err != nil {
		return nil, err
	}
	fileInfo, err := fp.Stat()
	if err != nil {
		fp.Close()
		return nil, err
	}
	if fileInfo.IsDir() {
		fp.Close()
		return nil, errors.New("file source could not be a directory")
	}
	return fp, nil
}

func (f *File) Meta() map[string]string {
	return map[string]string{
		"source":   "file",
		"filename": filepath.Base(f.path),
	}
}
