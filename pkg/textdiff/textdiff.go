// Package textdiff produces unified diffs between a Markup file and its
// canonical form.
package textdiff

import (
	"fmt"
	"strings"
)

// contextLines is the number of unchanged lines shown around each change.
const contextLines = 3

// LineKind marks a diff line as context, added or removed.
type LineKind int

const (
	LineContext LineKind = iota
	LineAdd
	LineRemove
)

// Prefix returns the unified diff prefix for the kind.
func (k LineKind) Prefix() string {
	switch k {
	case LineAdd:
		return "+"
	case LineRemove:
		return "-"
	default:
		return " "
	}
}

// Line is one line of a hunk, without its prefix or newline.
type Line struct {
	Kind    LineKind
	Content string
}

// Hunk is a run of changes with surrounding context. Starts are 1-based.
type Hunk struct {
	OriginalStart int
	OriginalCount int
	ModifiedStart int
	ModifiedCount int
	Lines         []Line
}

// Header returns the "@@ -a,b +c,d @@" line of the hunk.
func (h Hunk) Header() string {
	return fmt.Sprintf("@@ -%d,%d +%d,%d @@", h.OriginalStart, h.OriginalCount, h.ModifiedStart, h.ModifiedCount)
}

// Diff is a line diff between two versions of a file.
type Diff struct {
	Path      string
	Hunks     []Hunk
	Additions int
	Deletions int
}

// Compute diffs original against modified. It returns nil when the two
// have the same lines.
func Compute(path, original, modified string) *Diff {
	ops := diffLines(splitLines(original), splitLines(modified))

	diff := &Diff{Path: path}
	for _, op := range ops {
		switch op.kind {
		case LineAdd:
			diff.Additions++
		case LineRemove:
			diff.Deletions++
		}
	}
	if diff.Additions == 0 && diff.Deletions == 0 {
		return nil
	}
	diff.Hunks = hunks(ops)
	return diff
}

// HasChanges reports whether the diff contains any hunk.
func (d *Diff) HasChanges() bool {
	return d != nil && len(d.Hunks) > 0
}

// GitHeader returns the "diff --git" header line.
func (d *Diff) GitHeader() string {
	if d == nil {
		return ""
	}
	path := strings.TrimPrefix(d.Path, "/")
	return fmt.Sprintf("diff --git a/%s b/%s", path, path)
}

// String renders the diff in unified format without the git header.
func (d *Diff) String() string {
	if !d.HasChanges() {
		return ""
	}
	path := strings.TrimPrefix(d.Path, "/")

	var sb strings.Builder
	fmt.Fprintf(&sb, "--- a/%s\n+++ b/%s\n", path, path)
	for _, hunk := range d.Hunks {
		sb.WriteString(hunk.Header())
		sb.WriteByte('\n')
		for _, line := range hunk.Lines {
			sb.WriteString(line.Kind.Prefix())
			sb.WriteString(line.Content)
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// FullString renders the git header followed by the unified diff.
func (d *Diff) FullString() string {
	if !d.HasChanges() {
		return ""
	}
	return d.GitHeader() + "\n" + d.String()
}

// Unified returns the unified diff between original and modified, or ""
// when they have the same lines.
func Unified(path, original, modified string) string {
	return Compute(path, original, modified).String()
}

// splitLines splits content into lines, dropping the empty string after a
// final newline.
func splitLines(content string) []string {
	if content == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(content, "\n"), "\n")
}

type op struct {
	kind    LineKind
	content string
}

// diffLines walks a longest-common-subsequence table and emits one op per
// line of either input, removals before additions within a change.
func diffLines(orig, mod []string) []op {
	rows, cols := len(orig), len(mod)
	lcs := make([][]int, rows+1)
	for i := range lcs {
		lcs[i] = make([]int, cols+1)
	}
	for i := rows - 1; i >= 0; i-- {
		for j := cols - 1; j >= 0; j-- {
			if orig[i] == mod[j] {
				lcs[i][j] = lcs[i+1][j+1] + 1
			} else {
				lcs[i][j] = max(lcs[i+1][j], lcs[i][j+1])
			}
		}
	}

	ops := make([]op, 0, rows+cols)
	i, j := 0, 0
	for i < rows || j < cols {
		switch {
		case i < rows && j < cols && orig[i] == mod[j]:
			ops = append(ops, op{LineContext, orig[i]})
			i++
			j++
		case j >= cols || (i < rows && lcs[i+1][j] >= lcs[i][j+1]):
			ops = append(ops, op{LineRemove, orig[i]})
			i++
		default:
			ops = append(ops, op{LineAdd, mod[j]})
			j++
		}
	}
	return ops
}

// hunks groups ops into hunks. Changes separated by no more than twice
// the context size share a hunk.
func hunks(ops []op) []Hunk {
	var out []Hunk
	for start := 0; start < len(ops); {
		first := nextChange(ops, start)
		if first < 0 {
			break
		}

		last := first
		for {
			end := last + 1
			for end < len(ops) && ops[end].kind != LineContext {
				end++
			}
			next := nextChange(ops, end)
			if next < 0 || next-end > 2*contextLines {
				last = end - 1
				break
			}
			last = next
		}

		lo := max(first-contextLines, 0)
		hi := min(last+1+contextLines, len(ops))
		out = append(out, buildHunk(ops, lo, hi))
		start = hi
	}
	return out
}

func nextChange(ops []op, from int) int {
	for i := from; i < len(ops); i++ {
		if ops[i].kind != LineContext {
			return i
		}
	}
	return -1
}

func buildHunk(ops []op, lo, hi int) Hunk {
	hunk := Hunk{OriginalStart: 1, ModifiedStart: 1}
	for _, o := range ops[:lo] {
		if o.kind != LineAdd {
			hunk.OriginalStart++
		}
		if o.kind != LineRemove {
			hunk.ModifiedStart++
		}
	}

	for _, o := range ops[lo:hi] {
		hunk.Lines = append(hunk.Lines, Line{Kind: o.kind, Content: o.content})
		if o.kind != LineAdd {
			hunk.OriginalCount++
		}
		if o.kind != LineRemove {
			hunk.ModifiedCount++
		}
	}

	// An empty side starts at the line before, per unified diff convention.
	if hunk.OriginalCount == 0 {
		hunk.OriginalStart--
	}
	if hunk.ModifiedCount == 0 {
		hunk.ModifiedStart--
	}
	return hunk
}
