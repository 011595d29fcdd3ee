package files

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "cover.jpg", "cover.jpg"},
		{"path stripped", "../../etc/passwd", "passwd"},
		{"spaces replaced", "my book.pdf", "my_book.pdf"},
		{"unsafe chars replaced", "a;b|c.png", "a_b_c.png"},
		{"dot only", "..", "file"},
		{"empty", "", "file"},
		{"hidden file loses leading dot", ".env", "env"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Sanitize(tt.in))
		})
	}
}

func TestStore_Save(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(filepath.Join(dir, "uploads"))
	require.NoError(t, err)

	name, err := store.Save("the cover.jpg", strings.NewReader("image-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "the_cover.jpg", name)

	data, err := os.ReadFile(store.Path(name))
	require.NoError(t, err)
	assert.Equal(t, "image-bytes", string(data))
}

func TestStore_Save_SuffixesOnCollision(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	// Both originals sanitize to "a_b.pdf".
	first, err := store.Save("a b.pdf", strings.NewReader("first"))
	require.NoError(t, err)
	assert.Equal(t, "a_b.pdf", first)

	second, err := store.Save("a;b.pdf", strings.NewReader("second"))
	require.NoError(t, err)
	assert.Equal(t, "a_b_1.pdf", second)

	data, err := os.ReadFile(store.Path(first))
	require.NoError(t, err)
	assert.Equal(t, "first", string(data), "the earlier file is not truncated")

	data, err = os.ReadFile(store.Path(second))
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))
}

func TestStore_PathStaysInsideDir(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	require.NoError(t, err)

	p := store.Path("../escape.txt")
	assert.Equal(t, filepath.Join(dir, "escape.txt"), p)
}
