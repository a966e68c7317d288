package sanitize

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

// Sentinel errors returned by CheckTarget.
var (
	// ErrEmptyTarget indicates a link or image target with no content.
	ErrEmptyTarget = errors.New("empty target")

	// ErrUnsafeScheme indicates a target whose URL scheme is not allowed.
	ErrUnsafeScheme = errors.New("unsafe URL scheme")
)

//nolint:gochecknoglobals // Compiled pattern is read-only.
var schemePattern = regexp.MustCompile(`^([a-z][a-z0-9+.\-]*):`)

// DefaultSchemes lists the URL schemes allowed in link and image targets.
// Relative and fragment targets carry no scheme and are always allowed.
func DefaultSchemes() []string {
	return []string{"http", "https", "mailto", "tel"}
}

// CheckTarget validates a link or image target against the default scheme
// allow-list. It is the check applied before inserting a link or image.
func CheckTarget(target string) error {
	return checkTarget(target, DefaultSchemes())
}

func checkTarget(target string, schemes []string) error {
	// Browsers ignore whitespace and control characters inside a scheme.
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || unicode.IsControl(r) {
			return -1
		}
		return r
	}, target)
	if cleaned == "" {
		return ErrEmptyTarget
	}

	match := schemePattern.FindStringSubmatch(strings.ToLower(cleaned))
	if match == nil {
		return nil
	}
	for _, scheme := range schemes {
		if match[1] == scheme {
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrUnsafeScheme, match[1])
}
