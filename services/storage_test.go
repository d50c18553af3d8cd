package services

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiskStore(t *testing.T) {
	dir := t.TempDir()
	store := NewDiskStore(dir)
	ctx := context.Background()
	content := "hello storage"
	key := "offices/o1/cases/c1/events/e1/report.pdf"

	t.Run("Put creates file", func(t *testing.T) {
		obj, err := store.Put(ctx, key, strings.NewReader(content), "application/pdf", int64(len(content)))
		require.NoError(t, err)
		assert.Equal(t, key, obj.Key)
		assert.Equal(t, int64(len(content)), obj.Size)

		_, err = os.Stat(filepath.Join(dir, filepath.FromSlash(key)))
		assert.NoError(t, err)
	})

	t.Run("Open returns content and type", func(t *testing.T) {
		r, ct, err := store.Open(ctx, key)
		require.NoError(t, err)
		defer r.Close()

		got, _ := io.ReadAll(r)
		assert.Equal(t, content, string(got))
		assert.Equal(t, "application/pdf", ct)
	})

	t.Run("Remove is idempotent", func(t *testing.T) {
		require.NoError(t, store.Remove(ctx, key))
		require.NoError(t, store.Remove(ctx, key))

		_, _, err := store.Open(ctx, key)
		assert.ErrorIs(t, err, ErrObjectNotFound)
	})

	t.Run("rejects escaping keys", func(t *testing.T) {
		_, err := store.Put(ctx, "../outside.txt", strings.NewReader("x"), "text/plain", 1)
		assert.Error(t, err)
	})
}

func TestEventFileKey(t *testing.T) {
	key := EventFileKey("o1", "c1", "e1", "Scan.PDF")
	assert.True(t, strings.HasPrefix(key, "offices/o1/cases/c1/events/e1/"))
	assert.True(t, strings.HasSuffix(key, ".pdf"))
	assert.NotEqual(t, key, EventFileKey("o1", "c1", "e1", "Scan.PDF"))
}

func TestContentTypeFor(t *testing.T) {
	assert.Equal(t, "application/pdf", ContentTypeFor("a.pdf"))
	assert.Equal(t, "application/octet-stream", ContentTypeFor("noext"))
}
