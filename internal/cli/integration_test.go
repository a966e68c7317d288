package cli_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/markbridge/internal/cli"
	"github.com/yaklabco/markbridge/pkg/fsutil"
	"github.com/yaklabco/markbridge/pkg/rtree"
)

const (
	canonicalDoc = "# Title\n\ntext\n\n- item\n"
	dirtyDoc     = "Title\n=====\ntext\n* item\n"
)

// execute runs the root command with args and returns stdout and the
// command error. Output is never colorized.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	cmd := cli.NewRootCommand(cli.BuildInfo{Version: "test-version", Commit: "test-commit", Date: "test-date"})

	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--color", "never"}, args...))

	err := cmd.Execute()
	return stdout.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(content)
}

func TestIntegration_FmtReportsWithoutWriting(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	dirty := writeFile(t, dir, "dirty.md", dirtyDoc)
	writeFile(t, dir, "clean.md", canonicalDoc)

	out, err := execute(t, "", "fmt", dir)

	require.NoError(t, err)
	assert.Contains(t, out, "dirty.md: needs formatting")
	assert.NotContains(t, out, "clean.md")
	assert.Contains(t, out, "1 of 2 files need formatting")
	assert.Equal(t, dirtyDoc, readFile(t, dirty))
}

func TestIntegration_FmtCheck(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "dirty.md", dirtyDoc)

	_, err := execute(t, "", "fmt", "--check", dir)

	require.ErrorIs(t, err, cli.ErrNeedsFormatting)
	assert.Equal(t, cli.ExitNeedsFormatting, cli.ExitCode(err))
}

func TestIntegration_FmtCheckClean(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "clean.md", canonicalDoc)

	out, err := execute(t, "", "fmt", "--check", "--verbose", dir)

	require.NoError(t, err)
	assert.Contains(t, out, "clean.md: unchanged")
	assert.Contains(t, out, "All files formatted (1 checked)")
}

func TestIntegration_FmtWrite(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	dirty := writeFile(t, dir, "docs/dirty.md", dirtyDoc)

	out, err := execute(t, "", "fmt", "--write", dir)

	require.NoError(t, err)
	assert.Contains(t, out, "formatted (backup created)")
	assert.Equal(t, canonicalDoc, readFile(t, dirty))
	assert.Equal(t, dirtyDoc, readFile(t, fsutil.BackupPath(dirty, fsutil.BackupModeSidecar)))

	// A second pass has nothing to do.
	out, err = execute(t, "", "fmt", "--check", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "All files formatted")
}

func TestIntegration_FmtWriteNoBackups(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	dirty := writeFile(t, dir, "dirty.md", "* a\n* b\n")

	_, err := execute(t, "", "fmt", "-w", "--no-backups", "--bullet", "+", dir)

	require.NoError(t, err)
	assert.Equal(t, "+ a\n+ b\n", readFile(t, dirty))
	assert.NoFileExists(t, fsutil.BackupPath(dirty, fsutil.BackupModeSidecar))
}

func TestIntegration_FmtDiff(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "list.md", "* one\n")

	out, err := execute(t, "", "fmt", "--diff", dir)

	require.NoError(t, err)
	assert.Contains(t, out, "-* one")
	assert.Contains(t, out, "+- one")
	assert.Contains(t, out, "1 file changed, 1 insertion(+), 1 deletion(-)")
}

func TestIntegration_FmtJSON(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "dirty.md", dirtyDoc)

	out, err := execute(t, "", "fmt", "--format", "json", dir)
	require.NoError(t, err)

	var decoded struct {
		Files []struct {
			Status  string `json:"status"`
			Changed bool   `json:"changed"`
		} `json:"files"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	require.Len(t, decoded.Files, 1)
	assert.True(t, decoded.Files[0].Changed)
}

func TestIntegration_FmtExplicitConfig(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfgPath := writeFile(t, dir, "custom.yml", "serialize:\n  bullet_marker: \"*\"\n")
	doc := writeFile(t, dir, "list.md", "- a\n")

	_, err := execute(t, "", "--config", cfgPath, "fmt", "--write", "--no-backups", doc)

	require.NoError(t, err)
	assert.Equal(t, "* a\n", readFile(t, doc))
}

func TestIntegration_ExitCodes(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	badCfg := writeFile(t, dir, "bad.yml", "serialize:\n  bullet_marker: \"x\"\n")
	writeFile(t, dir, "a.md", canonicalDoc)

	tests := []struct {
		name string
		args []string
		want int
	}{
		{"unknown flag", []string{"fmt", "--nope"}, cli.ExitInvalidUsage},
		{"bad format", []string{"fmt", "--format", "xml", dir}, cli.ExitInvalidUsage},
		{"diff with json", []string{"fmt", "--diff", "--format", "json", dir}, cli.ExitInvalidUsage},
		{"check and write", []string{"fmt", "--check", "--write", dir}, cli.ExitInvalidUsage},
		{"too many args", []string{"render", "a", "b"}, cli.ExitInvalidUsage},
		{"invalid config", []string{"--config", badCfg, "fmt", dir}, cli.ExitConfigError},
		{"missing path", []string{"fmt", filepath.Join(dir, "missing")}, cli.ExitIOError},
		{"missing render input", []string{"render", filepath.Join(dir, "missing.md")}, cli.ExitIOError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := execute(t, "", tt.args...)
			require.Error(t, err)
			assert.Equal(t, tt.want, cli.ExitCode(err), "error: %v", err)
		})
	}
}

func TestIntegration_RenderStdin(t *testing.T) {
	t.Parallel()

	out, err := execute(t, "# Hi\n\n<script>steal()</script> [x](javascript:alert(1))\n", "render")

	require.NoError(t, err)
	assert.Contains(t, out, "<h1>Hi</h1>")
	assert.NotContains(t, out, "<script")
	assert.NotContains(t, out, "javascript:")
	assert.True(t, strings.HasSuffix(out, "\n"))
}

func TestIntegration_RenderFile(t *testing.T) {
	t.Parallel()

	doc := writeFile(t, t.TempDir(), "doc.md", "<p align=\"center\">*c*</p>\n")

	out, err := execute(t, "", "render", doc)

	require.NoError(t, err)
	assert.Contains(t, out, `<p align="center">`)
	assert.Contains(t, out, "<em>c</em>")
}

func TestIntegration_Tree(t *testing.T) {
	t.Parallel()

	out, err := execute(t, "# Hi\n\n```\npackage main\n\nfunc main() {}\n```\n", "tree", "--langs", "-")

	require.NoError(t, err)
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "Document", lines[0])
	assert.Equal(t, `├ Heading level=1`, lines[1])
	assert.Equal(t, `│ ├ Text "Hi"`, lines[2])
	assert.True(t, strings.HasPrefix(lines[3], "├ CodeBlock"), lines[3])
	assert.True(t, strings.HasSuffix(lines[3], "# looks like go"), lines[3])
}

func TestIntegration_TreeJSON(t *testing.T) {
	t.Parallel()

	out, err := execute(t, "## Sub\n", "tree", "--json")
	require.NoError(t, err)

	var root rtree.JSONNode
	require.NoError(t, json.Unmarshal([]byte(out), &root))
	assert.Equal(t, "Document", root.Kind)
	require.Len(t, root.Children, 1)
	assert.Equal(t, "Heading", root.Children[0].Kind)
	assert.Equal(t, 2, root.Children[0].Level)
}

func TestIntegration_Init(t *testing.T) {
	t.Parallel()

	target := filepath.Join(t.TempDir(), ".markbridge.yml")

	_, err := execute(t, "", "init", "--output", target)
	require.NoError(t, err)
	assert.FileExists(t, target)

	_, err = execute(t, "", "init", "--output", target)
	require.Error(t, err)
	assert.Equal(t, cli.ExitInvalidUsage, cli.ExitCode(err))

	_, err = execute(t, "", "init", "--output", target, "--force", "--full")
	require.NoError(t, err)
	assert.Contains(t, readFile(t, target), "bullet_marker")
}

func TestIntegration_InitJSON(t *testing.T) {
	t.Parallel()

	target := filepath.Join(t.TempDir(), "config.json")

	_, err := execute(t, "", "init", "--format", "json", "--output", target)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(readFile(t, target)), &decoded))
	assert.Contains(t, decoded, "serialize")

	_, err = execute(t, "", "init", "--format", "toml", "--output", target)
	assert.Equal(t, cli.ExitInvalidUsage, cli.ExitCode(err))
}

func TestIntegration_Version(t *testing.T) {
	t.Parallel()

	out, err := execute(t, "", "version")

	require.NoError(t, err)
	assert.Contains(t, out, "markbridge")
	assert.Contains(t, out, "test-version")
	assert.Contains(t, out, "test-commit")
}

func TestIntegration_Help(t *testing.T) {
	t.Parallel()

	out, err := execute(t, "", "fmt", "--help")

	require.NoError(t, err)
	assert.Contains(t, out, "Usage:")
	assert.Contains(t, out, "markbridge fmt [paths...]")
	assert.Contains(t, out, "--check")
	assert.Contains(t, out, "Global Flags:")
}
