package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "svlex.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, ' ', cfg.SeparatorRune())
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
separator: ","
mode: words
format: json
chunk:
  size: 10
  overlap: 2
  counter: runes
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ',', cfg.SeparatorRune())
	assert.Equal(t, "words", cfg.Mode)
	assert.Equal(t, "json", cfg.Format)
	assert.Equal(t, 4, cfg.Workers, "unset fields keep defaults")
	assert.Equal(t, 10, cfg.Chunk.Size)
	assert.Equal(t, "cl100k_base", cfg.Chunk.Encoding)
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantMsg string
	}{
		{name: "multi char separator", body: "separator: ab", wantMsg: "Config.Separator failed on singlechar"},
		{name: "unknown mode", body: "mode: regex", wantMsg: "Config.Mode failed on oneof"},
		{name: "too many workers", body: "workers: 100", wantMsg: "Config.Workers failed on max"},
		{name: "overlap not below size", body: "chunk: {size: 2, overlap: 2}", wantMsg: "Config.Chunk.Overlap failed on ltsize"},
		{name: "bad yaml", body: "mode: [", wantMsg: "failed to parse config"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
