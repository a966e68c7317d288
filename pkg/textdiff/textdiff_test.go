package textdiff_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/markbridge/pkg/textdiff"
)

func TestCompute_NoChanges(t *testing.T) {
	t.Parallel()

	assert.Nil(t, textdiff.Compute("a.md", "", ""))
	assert.Nil(t, textdiff.Compute("a.md", "x\ny\n", "x\ny\n"))
	assert.Empty(t, textdiff.Unified("a.md", "x", "x"))

	var d *textdiff.Diff
	assert.False(t, d.HasChanges())
	assert.Empty(t, d.FullString())
}

func TestUnified(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		original string
		modified string
		want     string
	}{
		{
			name:     "inserted blank line",
			original: "text\n- item\n",
			modified: "text\n\n- item\n",
			want:     "--- a/doc.md\n+++ b/doc.md\n@@ -1,2 +1,3 @@\n text\n+\n - item\n",
		},
		{
			name:     "changed line",
			original: "# T\n\n* a\n",
			modified: "# T\n\n- a\n",
			want:     "--- a/doc.md\n+++ b/doc.md\n@@ -1,3 +1,3 @@\n # T\n \n-* a\n+- a\n",
		},
		{
			name:     "new file",
			original: "",
			modified: "a\n",
			want:     "--- a/doc.md\n+++ b/doc.md\n@@ -0,0 +1,1 @@\n+a\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, textdiff.Unified("doc.md", tt.original, tt.modified))
		})
	}
}

func TestCompute_SeparateHunks(t *testing.T) {
	t.Parallel()

	var orig, mod []string
	for i := 1; i <= 20; i++ {
		line := fmt.Sprintf("l%d", i)
		orig = append(orig, line)
		if i == 2 || i == 18 {
			line = strings.ToUpper(line)
		}
		mod = append(mod, line)
	}

	d := textdiff.Compute("/docs/a.md", strings.Join(orig, "\n")+"\n", strings.Join(mod, "\n")+"\n")
	require.NotNil(t, d)
	require.Len(t, d.Hunks, 2)

	assert.Equal(t, "@@ -1,5 +1,5 @@", d.Hunks[0].Header())
	assert.Equal(t, "@@ -15,6 +15,6 @@", d.Hunks[1].Header())
	assert.Equal(t, 2, d.Additions)
	assert.Equal(t, 2, d.Deletions)
	assert.Equal(t, "diff --git a/docs/a.md b/docs/a.md", d.GitHeader())
	assert.True(t, strings.HasPrefix(d.FullString(), "diff --git a/docs/a.md b/docs/a.md\n--- a/docs/a.md\n"))
}

func TestCompute_NearbyChangesShareHunk(t *testing.T) {
	t.Parallel()

	d := textdiff.Compute("a.md", "a\nb\nc\nd\ne\n", "A\nb\nc\nd\nE\n")
	require.NotNil(t, d)
	assert.Len(t, d.Hunks, 1)
}
