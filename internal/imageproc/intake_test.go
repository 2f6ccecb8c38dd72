package imageproc

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testMaxSize = 5 << 20

func TestIntake_Validate(t *testing.T) {
	intake := NewIntake(testMaxSize, t.TempDir())

	tests := []struct {
		name        string
		filename    string
		contentType string
		size        int64
		wantErr     error
	}{
		{"png accepted", "photo.png", "image/png", 2 << 20, nil},
		{"jpeg accepted", "photo.jpg", "image/jpeg", 100, nil},
		{"jpeg alias accepted", "photo.jpeg", "image/jpg", 100, nil},
		{"webp accepted", "photo.webp", "image/webp", 100, nil},
		{"zero-byte accepted when type matches", "empty.png", "image/png", 0, nil},
		{"exactly at limit accepted", "big.png", "image/png", testMaxSize, nil},
		{"pdf rejected", "doc.pdf", "application/pdf", 100, ErrUnsupportedType},
		{"gif rejected", "anim.gif", "image/gif", 100, ErrUnsupportedType},
		{"garbage content type rejected", "photo.png", ";;", 100, ErrUnsupportedType},
		{"extension mismatch rejected", "photo.png", "image/jpeg", 100, ErrUnsupportedType},
		{"over limit rejected", "big.jpg", "image/jpeg", 6 << 20, ErrTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := intake.Validate(tt.filename, tt.contentType, tt.size)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestIntake_StageWritesLocalPreview(t *testing.T) {
	dir := t.TempDir()
	intake := NewIntake(testMaxSize, dir)

	data := []byte("not really a png but close enough")
	staged, err := intake.Stage("photo.png", "image/png", int64(len(data)), bytes.NewReader(data), nil)
	require.NoError(t, err)
	defer staged.Discard()

	assert.Equal(t, "photo.png", staged.Filename)
	assert.Equal(t, int64(len(data)), staged.SizeBytes)
	assert.True(t, strings.HasPrefix(staged.PreviewRef, dir))

	// The preview resolves locally.
	onDisk, err := os.ReadFile(staged.PreviewRef)
	require.NoError(t, err)
	assert.Equal(t, data, onDisk)
}

func TestIntake_RestagingDiscardsPrevious(t *testing.T) {
	intake := NewIntake(testMaxSize, t.TempDir())

	first, err := intake.Stage("a.png", "image/png", 1, bytes.NewReader([]byte("a")), nil)
	require.NoError(t, err)

	second, err := intake.Stage("b.png", "image/png", 1, bytes.NewReader([]byte("b")), first)
	require.NoError(t, err)
	defer second.Discard()

	_, err = os.Stat(first.PreviewRef)
	assert.True(t, os.IsNotExist(err))
}

func TestIntake_StageRejectionLeavesNothingBehind(t *testing.T) {
	dir := t.TempDir()
	intake := NewIntake(testMaxSize, dir)

	_, err := intake.Stage("doc.pdf", "application/pdf", 10, bytes.NewReader([]byte("0123456789")), nil)
	require.ErrorIs(t, err, ErrUnsupportedType)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestIntake_StageRejectsOversizedStream(t *testing.T) {
	intake := NewIntake(16, t.TempDir())

	// Declared size lies; the stream itself is over the ceiling.
	_, err := intake.Stage("photo.png", "image/png", 10, bytes.NewReader(bytes.Repeat([]byte("x"), 64)), nil)
	assert.ErrorIs(t, err, ErrTooLarge)
}
