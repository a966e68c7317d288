package fsutil_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/markbridge/pkg/fsutil"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestReadFile(t *testing.T) {
	t.Parallel()

	t.Run("returns content and snapshot", func(t *testing.T) {
		t.Parallel()

		path := writeFile(t, t.TempDir(), "doc.md", "# hi\n")

		content, info, err := fsutil.ReadFile(context.Background(), path)
		require.NoError(t, err)
		assert.Equal(t, "# hi\n", string(content))
		assert.Equal(t, path, info.Path)
		assert.Equal(t, int64(5), info.Size)
		assert.Equal(t, os.FileMode(0o600), info.Mode.Perm())
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		_, _, err := fsutil.ReadFile(context.Background(), filepath.Join(t.TempDir(), "nope.md"))
		require.ErrorIs(t, err, fsutil.ErrNotFound)
	})

	t.Run("directory", func(t *testing.T) {
		t.Parallel()

		_, _, err := fsutil.ReadFile(context.Background(), t.TempDir())
		require.ErrorIs(t, err, fsutil.ErrIsDirectory)
	})

	t.Run("cancelled context", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, _, err := fsutil.ReadFile(ctx, "whatever.md")
		require.ErrorIs(t, err, context.Canceled)
	})
}

func TestCheckModified(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("unchanged", func(t *testing.T) {
		t.Parallel()

		path := writeFile(t, t.TempDir(), "a.md", "same")
		_, info, err := fsutil.ReadFile(ctx, path)
		require.NoError(t, err)

		for _, strict := range []bool{false, true} {
			modified, err := fsutil.CheckModified(ctx, info, strict)
			require.NoError(t, err)
			assert.False(t, modified)
		}
	})

	t.Run("size change", func(t *testing.T) {
		t.Parallel()

		path := writeFile(t, t.TempDir(), "a.md", "short")
		_, info, err := fsutil.ReadFile(ctx, path)
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(path, []byte("much longer"), 0o600))

		modified, err := fsutil.CheckModified(ctx, info, false)
		require.NoError(t, err)
		assert.True(t, modified)
	})

	t.Run("same size and time only caught by strict", func(t *testing.T) {
		t.Parallel()

		path := writeFile(t, t.TempDir(), "a.md", "aaaa")
		_, info, err := fsutil.ReadFile(ctx, path)
		require.NoError(t, err)

		require.NoError(t, os.WriteFile(path, []byte("bbbb"), 0o600))
		require.NoError(t, os.Chtimes(path, time.Now(), info.ModTime))

		modified, err := fsutil.CheckModified(ctx, info, false)
		require.NoError(t, err)
		assert.False(t, modified)

		modified, err = fsutil.CheckModified(ctx, info, true)
		require.NoError(t, err)
		assert.True(t, modified)
	})

	t.Run("deleted", func(t *testing.T) {
		t.Parallel()

		path := writeFile(t, t.TempDir(), "a.md", "x")
		_, info, err := fsutil.ReadFile(ctx, path)
		require.NoError(t, err)
		require.NoError(t, os.Remove(path))

		modified, err := fsutil.CheckModified(ctx, info, false)
		require.NoError(t, err)
		assert.True(t, modified)
	})

	t.Run("nil info", func(t *testing.T) {
		t.Parallel()

		_, err := fsutil.CheckModified(ctx, nil, false)
		require.ErrorIs(t, err, fsutil.ErrNilFileInfo)
	})
}
