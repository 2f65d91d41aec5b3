package utils

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckInputFile(t *testing.T) {
	dir := t.TempDir()
	small := filepath.Join(dir, "small.json")
	require.NoError(t, os.WriteFile(small, []byte(`{"role":"x"}`), 0o600))

	tests := []struct {
		name    string
		file    string
		maxSize int64
		wantErr error
	}{
		{name: "ok", file: small, maxSize: 1024},
		{name: "no limit", file: small},
		{name: "empty name", file: " ", wantErr: ErrNoFileName},
		{name: "directory", file: dir, wantErr: ErrNotRegular},
		{name: "too large", file: small, maxSize: 4, wantErr: ErrFileTooBig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			size, err := CheckInputFile(tt.file, tt.maxSize)
			if tt.wantErr == nil {
				require.NoError(t, err)
				assert.Equal(t, int64(12), size)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	_, err := CheckInputFile(filepath.Join(dir, "nope.json"), 0)
	assert.True(t, IsNotExist(err))

	_, err = CheckInputFile(small, 4)
	assert.ErrorContains(t, err, "limit is 4 B")
}

func TestPrepareOutputFile(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, PrepareOutputFile(""))
	require.NoError(t, PrepareOutputFile(filepath.Join(dir, "a", "b", "out.json")))
	assert.DirExists(t, filepath.Join(dir, "a", "b"))

	err := PrepareOutputFile(dir)
	assert.True(t, errors.Is(err, ErrOutputIsDir))
}

func TestIsJSONFile(t *testing.T) {
	assert.True(t, IsJSONFile("roles.JSON"))
	assert.True(t, IsJSONFile("batch.jsonl"))
	assert.False(t, IsJSONFile("roles.txt"))
	assert.False(t, IsJSONFile("json"))
}

func TestFormatFileSize(t *testing.T) {
	cases := map[int64]string{
		512:         "512 B",
		2048:        "2.0 KB",
		1536:        "1.5 KB",
		5 * 1 << 20: "5.0 MB",
	}
	for in, want := range cases {
		assert.Equal(t, want, FormatFileSize(in), "size %d", in)
	}
}
