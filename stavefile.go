//go:build stave

package main

import (
	"cmp"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/yaklabco/stave/pkg/sh"
	"github.com/yaklabco/stave/pkg/st"
	"github.com/yaklabco/stave/pkg/target"
)

// Default target runs build.
var Default = Build

// Aliases for common targets.
var Aliases = map[string]any{
	"b":       Build,
	"t":       Test.Default,
	"l":       Lint.Default,
	"c":       Check,
	"fmt":     Lint.Fmt,
	"fuzz":    Test.Fuzz,
	"dogfood": Test.Dogfood,
}

// Namespace types group related targets.
type (
	Test st.Namespace
	Lint st.Namespace
	CI   st.Namespace
)

const binary = "markbridge"

// Build compiles bin/markbridge with version info when sources changed.
func Build() error {
	out := filepath.Join("bin", binary)
	rebuild, err := target.Dir(out, "cmd/", "pkg/", "internal/", "go.mod", "go.sum")
	if err != nil {
		return err
	}
	if !rebuild {
		fmt.Printf("%s is up to date\n", out)
		return nil
	}
	fmt.Printf("Building %s...\n", binary)
	return sh.RunV("go", "build", "-ldflags", ldflags(), "-o", out, "./cmd/"+binary)
}

// Install installs markbridge to $GOBIN or $GOPATH/bin.
func Install() error {
	fmt.Printf("Installing %s...\n", binary)
	return sh.RunV("go", "install", "-ldflags", ldflags(), "./cmd/"+binary)
}

// Check formats, lints, tests and then runs markbridge over its own docs.
func Check() {
	st.SerialDeps(Lint.Fmt, Lint.Default, Test.Default, Test.Dogfood)
}

// Clean removes build and coverage artifacts.
func Clean() error {
	fmt.Println("Cleaning build artifacts...")
	for _, path := range []string{"bin", "coverage.out"} {
		if err := sh.Rm(path); err != nil {
			return err
		}
	}
	return nil
}

// Default runs all tests with race detection and coverage.
func (Test) Default() error {
	fmt.Println("Running tests...")
	return gotestsum("pkgname-and-test-fails")
}

// Verbose runs all tests with standard-verbose output.
func (Test) Verbose() error {
	fmt.Println("Running tests (verbose)...")
	return gotestsum("standard-verbose")
}

// fuzzTargets maps each package to its fuzz test.
var fuzzTargets = map[string]string{
	"./pkg/markup":    "FuzzParse",
	"./pkg/convert":   "FuzzIdempotence",
	"./pkg/serialize": "FuzzConvergence",
	"./pkg/fsutil":    "FuzzWriteAtomic",
}

// Fuzz runs each fuzz target for FUZZTIME (default 30s).
func (Test) Fuzz() error {
	fuzzTime := cmp.Or(os.Getenv("FUZZTIME"), "30s")
	for _, pkg := range slices.Sorted(maps.Keys(fuzzTargets)) {
		name := fuzzTargets[pkg]
		fmt.Printf("Fuzzing %s %s for %s...\n", pkg, name, fuzzTime)
		if err := sh.RunV("go", "test", "-run", "^$", "-fuzz", "^"+name+"$", "-fuzztime", fuzzTime, pkg); err != nil {
			return fmt.Errorf("fuzz %s: %w", name, err)
		}
	}
	return nil
}

// Dogfood checks that the repository's own Markup files are canonical.
func (Test) Dogfood() error {
	st.Deps(Build)
	fmt.Println("Checking repository Markup files...")
	return sh.RunV(filepath.Join("bin", binary), "fmt", "--check", "--format", "summary",
		"--ignore", "_examples/**", ".")
}

// Default runs golangci-lint with auto-fix.
func (Lint) Default() error {
	fmt.Println("Running linters...")
	return sh.RunV("golangci-lint", "run", "--fix", "./...")
}

// Fmt formats all Go code.
func (Lint) Fmt() error {
	return sh.RunV("gofmt", "-w", ".")
}

// Gate runs the checks CI requires, without modifying any file.
func (CI) Gate() error {
	st.SerialDeps(CI.Fmt, CI.Lint, Build, Test.Default, CI.ModTidy)
	fmt.Println("✓ All CI gate checks passed")
	return nil
}

// Fmt fails when any Go file needs gofmt.
func (CI) Fmt() error {
	out, err := sh.Output("gofmt", "-l", ".")
	if err != nil {
		return fmt.Errorf("gofmt check failed: %w", err)
	}
	if out != "" {
		return fmt.Errorf("unformatted files:\n%s\nRun 'stave fmt' to fix", out)
	}
	return nil
}

// Lint runs go vet and golangci-lint without auto-fix.
func (CI) Lint() error {
	if err := sh.RunV("go", "vet", "./..."); err != nil {
		return err
	}
	return sh.RunV("golangci-lint", "run", "./...")
}

// ModTidy fails when go mod tidy would change go.mod or go.sum.
func (CI) ModTidy() error {
	if err := sh.RunV("go", "mod", "tidy", "-diff"); err != nil {
		return fmt.Errorf("go.mod or go.sum is not tidy: %w", err)
	}
	return nil
}

func gotestsum(format string) error {
	nCores := cmp.Or(os.Getenv("STAVE_NUM_PROCESSORS"), "4")
	return sh.RunV("go",
		"tool", "gotestsum",
		"-f", format,
		"--",
		"-race",
		"-p", nCores,
		"-parallel", nCores,
		"./...",
		"-coverprofile=coverage.out",
		"-covermode=atomic",
	)
}

// gitOutput runs a git command and returns trimmed stdout, or empty on error.
func gitOutput(args ...string) string {
	out, err := sh.Output("git", args...)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(out)
}

// ldflags returns the linker flags for version injection.
func ldflags() string {
	version := cmp.Or(gitOutput("describe", "--tags", "--always", "--dirty"), "dev")
	commit := cmp.Or(gitOutput("rev-parse", "--short", "HEAD"), "none")
	date := time.Now().UTC().Format(time.RFC3339)
	return fmt.Sprintf("-X main.version=%s -X main.commit=%s -X main.date=%s", version, commit, date)
}
