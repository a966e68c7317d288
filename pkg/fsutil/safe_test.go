package fsutil_test

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/markbridge/pkg/fsutil"
)

func TestSafeWrite(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("backs up and writes", func(t *testing.T) {
		t.Parallel()

		path := writeFile(t, t.TempDir(), "doc.md", "before")
		_, info, err := fsutil.ReadFile(ctx, path)
		require.NoError(t, err)

		result, err := fsutil.SafeWrite(ctx, info, []byte("after"), fsutil.SafeWriteOptions{
			Backup: fsutil.BackupConfig{Enabled: true, Mode: fsutil.BackupModeSidecar},
		})
		require.NoError(t, err)
		assert.True(t, result.Written)
		assert.True(t, result.BackupCreated)

		got, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "after", string(got))

		stat, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o600), stat.Mode().Perm())
	})

	t.Run("refuses concurrent modification", func(t *testing.T) {
		t.Parallel()

		path := writeFile(t, t.TempDir(), "doc.md", "before")
		_, info, err := fsutil.ReadFile(ctx, path)
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(path, []byte("someone else"), 0o600))

		result, err := fsutil.SafeWrite(ctx, info, []byte("after"), fsutil.SafeWriteOptions{})
		require.ErrorIs(t, err, fsutil.ErrModified)
		assert.False(t, result.Written)

		got, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "someone else", string(got))
	})
}
