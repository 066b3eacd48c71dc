package storage

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorageRoundTrip(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	n, err := store.SaveStream("novedades/abc/photo.jpg", strings.NewReader("jpeg-bytes"), 1024)
	require.NoError(t, err)
	assert.Equal(t, int64(10), n)

	f, err := store.Open("novedades/abc/photo.jpg")
	require.NoError(t, err)
	body, err := io.ReadAll(f)
	require.NoError(t, f.Close())
	require.NoError(t, err)
	assert.Equal(t, "jpeg-bytes", string(body))

	require.NoError(t, store.Delete("novedades/abc/photo.jpg"))
	require.NoError(t, store.Delete("novedades/abc/photo.jpg"))
	_, err = store.Open("novedades/abc/photo.jpg")
	assert.Error(t, err)
}

func TestLocalStorageEnforcesLimit(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	_, err = store.SaveStream("big.bin", strings.NewReader(strings.Repeat("a", 20)), 10)
	require.Error(t, err)
	_, err = store.Open("big.bin")
	assert.Error(t, err)
}

func TestLocalStorageRejectsEscapes(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	for _, name := range []string{"../outside.txt", "/etc/passwd", "", "a/../../b"} {
		_, err := store.SaveStream(name, strings.NewReader("x"), 0)
		assert.ErrorIs(t, err, ErrInvalidPath, name)
	}
}
