package runner

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"
)

// Discover finds Markup files under opts.Paths. Hidden files and
// directories are skipped unless named explicitly. The result is a sorted,
// de-duplicated list of absolute paths.
func Discover(ctx context.Context, opts Options) ([]string, error) {
	workDir, err := resolveWorkDir(opts.WorkingDir)
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}

	d := &discoverer{
		ctx:     ctx,
		workDir: workDir,
		opts:    opts,
		exts:    opts.effectiveExtensions(),
		seen:    make(map[string]struct{}),
	}

	for _, input := range opts.effectivePaths() {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("discovery cancelled: %w", err)
		}

		abs := input
		if !filepath.IsAbs(abs) {
			abs = filepath.Join(workDir, abs)
		}
		abs = filepath.Clean(abs)

		info, err := os.Stat(abs)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", input, err)
		}
		if !info.IsDir() {
			if d.matches(abs) {
				d.add(abs)
			}
			continue
		}
		if err := d.walk(abs); err != nil {
			return nil, err
		}
	}

	slices.Sort(d.files)
	return d.files, nil
}

type discoverer struct {
	ctx     context.Context
	workDir string
	opts    Options
	exts    []string
	seen    map[string]struct{}
	files   []string
}

func (d *discoverer) add(file string) {
	if _, ok := d.seen[file]; ok {
		return
	}
	d.seen[file] = struct{}{}
	d.files = append(d.files, file)
}

func (d *discoverer) walk(root string) error {
	err := filepath.WalkDir(root, func(p string, entry fs.DirEntry, walkErr error) error {
		if err := d.ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			if errors.Is(walkErr, fs.ErrPermission) {
				return nil
			}
			return walkErr
		}

		hidden := p != root && strings.HasPrefix(entry.Name(), ".")
		if entry.IsDir() {
			if hidden || matchesAny(d.rel(p), d.opts.ExcludeGlobs) {
				return filepath.SkipDir
			}
			return nil
		}
		if hidden {
			return nil
		}

		if entry.Type()&fs.ModeSymlink != 0 {
			return d.symlink(p)
		}
		if d.matches(p) {
			d.add(p)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("walk directory %s: %w", root, err)
	}
	return nil
}

// symlink handles a link found while walking. Broken links are skipped;
// directory links are walked at their target only with FollowSymlinks.
func (d *discoverer) symlink(p string) error {
	target, err := filepath.EvalSymlinks(p)
	if err != nil {
		return nil //nolint:nilerr // broken symlinks are skipped
	}
	info, err := os.Stat(target)
	if err != nil {
		return nil //nolint:nilerr // unreadable targets are skipped
	}
	if info.IsDir() {
		if d.opts.FollowSymlinks {
			return d.walk(target)
		}
		return nil
	}
	if d.matches(p) {
		d.add(p)
	}
	return nil
}

func (d *discoverer) rel(p string) string {
	rel, err := filepath.Rel(d.workDir, p)
	if err != nil {
		return p
	}
	return rel
}

func (d *discoverer) matches(file string) bool {
	ext := strings.ToLower(filepath.Ext(file))
	if !slices.ContainsFunc(d.exts, func(e string) bool { return strings.ToLower(e) == ext }) {
		return false
	}

	rel := d.rel(file)
	if matchesAny(rel, d.opts.ExcludeGlobs) {
		return false
	}
	return len(d.opts.IncludeGlobs) == 0 || matchesAny(rel, d.opts.IncludeGlobs)
}

func resolveWorkDir(workDir string) (string, error) {
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("get working directory: %w", err)
		}
		return wd, nil
	}
	abs, err := filepath.Abs(workDir)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path: %w", err)
	}
	return abs, nil
}

func matchesAny(rel string, patterns []string) bool {
	return slices.ContainsFunc(patterns, func(pattern string) bool {
		return matchGlob(rel, pattern)
	})
}

// matchGlob matches a slash-separated relative path against a glob. A "**"
// segment matches any number of path segments. Patterns without a slash
// also match the base name, so "*.tmp.md" works at any depth.
func matchGlob(rel, pattern string) bool {
	rel = filepath.ToSlash(rel)
	pattern = filepath.ToSlash(pattern)

	if !strings.Contains(pattern, "/") {
		if ok, _ := path.Match(pattern, path.Base(rel)); ok {
			return true
		}
	}
	return matchSegments(strings.Split(rel, "/"), strings.Split(pattern, "/"))
}

func matchSegments(parts, pattern []string) bool {
	for len(pattern) > 0 {
		if pattern[0] == "**" {
			rest := pattern[1:]
			for i := 0; i <= len(parts); i++ {
				if matchSegments(parts[i:], rest) {
					return true
				}
			}
			return false
		}
		if len(parts) == 0 {
			return false
		}
		if ok, err := path.Match(pattern[0], parts[0]); err != nil || !ok {
			return false
		}
		parts, pattern = parts[1:], pattern[1:]
	}
	return len(parts) == 0
}
