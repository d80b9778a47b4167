package staging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDir(t *testing.T) *Dir {
	t.Helper()
	d, err := New(filepath.Join(t.TempDir(), "uploads"), zerolog.Nop())
	require.NoError(t, err)
	return d
}

func TestAcquireWritesBytes(t *testing.T) {
	tests := []struct {
		name         string
		originalName string
		content      []byte
		wantExt      string
	}{
		{
			name:         "png upload",
			originalName: "photo.png",
			content:      []byte("fake image bytes"),
			wantExt:      ".png",
		},
		{
			name:         "uppercase extension lowered",
			originalName: "PHOTO.JPG",
			content:      []byte("x"),
			wantExt:      ".jpg",
		},
		{
			name:         "empty content",
			originalName: "empty.gif",
			content:      []byte{},
			wantExt:      ".gif",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			d := newTestDir(t)

			staged, err := d.Acquire(tc.originalName, tc.content)
			require.NoError(t, err)
			defer staged.Release()

			assert.True(t, strings.HasPrefix(filepath.Base(staged.Path()), "tmp_"))
			assert.Equal(t, tc.wantExt, filepath.Ext(staged.Path()))

			got, err := os.ReadFile(staged.Path())
			require.NoError(t, err)
			assert.Equal(t, tc.content, got)
		})
	}
}

func TestAcquireUniqueNames(t *testing.T) {
	d := newTestDir(t)

	a, err := d.Acquire("same.png", []byte("a"))
	require.NoError(t, err)
	defer a.Release()

	b, err := d.Acquire("same.png", []byte("b"))
	require.NoError(t, err)
	defer b.Release()

	assert.NotEqual(t, a.Path(), b.Path())
}

func TestReleaseRemovesFile(t *testing.T) {
	d := newTestDir(t)

	staged, err := d.Acquire("photo.png", []byte("data"))
	require.NoError(t, err)

	staged.Release()

	_, err = os.Stat(staged.Path())
	assert.True(t, os.IsNotExist(err))

	// Second release is a no-op.
	staged.Release()
}

func TestNewCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "uploads")
	_, err := New(path, zerolog.Nop())
	require.NoError(t, err)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
