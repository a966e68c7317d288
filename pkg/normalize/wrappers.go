package normalize

import (
	"regexp"
	"strings"

	"github.com/yaklabco/markbridge/pkg/rtree"
)

//nolint:gochecknoglobals // Compiled patterns are read-only.
var (
	wrapperOpenPattern = regexp.MustCompile(`(?i)^<(div|p|h[1-6])\s+align\s*=\s*["']?([a-z]+)["']?\s*>`)
	tagOpenPattern     = regexp.MustCompile(`(?i)<(p|h[1-6])\s+align\s*=\s*["']?([a-z]+)["']?\s*>`)
	divTagPattern      = regexp.MustCompile(`(?i)<(/?)div\b[^>]*>`)
	pClosePattern      = regexp.MustCompile(`(?i)</p\s*>`)
	hClosePattern      = regexp.MustCompile(`(?i)</h[1-6]\s*>`)
	emptyPatterns      = []*regexp.Regexp{
		regexp.MustCompile(`(?i)<div\s+align\s*=\s*["']?[a-z]+["']?\s*>\s*</div\s*>`),
		regexp.MustCompile(`(?i)<p\s+align\s*=\s*["']?[a-z]+["']?\s*>\s*</p\s*>`),
		regexp.MustCompile(`(?i)<h[1-6]\s+align\s*=\s*["']?[a-z]+["']?\s*>\s*</h[1-6]\s*>`),
	}
)

// CollapseWrappers rewrites alignment wrappers until nothing changes:
// wrappers around empty content are removed, and a wrapper whose whole
// content is another wrapper of the same alignment is merged into it.
// Every rewrite removes at least one tag, so the loop terminates.
func CollapseWrappers(markup string) string {
	for {
		next := collapseOnce(markup)
		if next == markup {
			return markup
		}
		markup = next
	}
}

func collapseOnce(s string) string {
	masked := maskCode(s)

	for _, pattern := range emptyPatterns {
		if loc := pattern.FindStringIndex(masked); loc != nil {
			return splice(s, loc[0], loc[1])
		}
	}

	for _, open := range divTagPattern.FindAllStringSubmatchIndex(masked, -1) {
		if masked[open[2]:open[3]] == "/" {
			continue
		}
		outer := wrapperOpenPattern.FindStringSubmatch(masked[open[0]:open[1]])
		if outer == nil {
			continue
		}
		closeStart, closeEnd := matchingDivClose(masked, open[1])
		if closeStart < 0 {
			continue
		}

		innerStart := open[1] + len(masked[open[1]:closeStart]) - len(strings.TrimLeft(masked[open[1]:closeStart], " \t\n"))
		innerEnd := open[1] + len(strings.TrimRight(masked[open[1]:closeStart], " \t\n"))
		inner := wrapperOpenPattern.FindStringSubmatch(masked[innerStart:innerEnd])
		align := rtree.ParseAlignment(outer[2])
		if inner == nil || !align.Explicit() || rtree.ParseAlignment(inner[2]) != align {
			continue
		}
		innerOpenEnd := innerStart + len(inner[0])

		if strings.EqualFold(inner[1], "div") {
			cs, ce := matchingDivClose(masked, innerOpenEnd)
			if ce != innerEnd {
				continue
			}
			return splice(splice(s, cs, ce), innerStart, innerOpenEnd)
		}

		// A <p> or <hN> wrapper keeps the innermost tag.
		closer := hClosePattern
		if strings.EqualFold(inner[1], "p") {
			closer = pClosePattern
		}
		loc := closer.FindStringIndex(masked[innerOpenEnd:innerEnd])
		if loc == nil || innerOpenEnd+loc[1] != innerEnd {
			continue
		}
		return splice(splice(s, closeStart, closeEnd), open[0], open[1])
	}

	if out, ok := collapseNestedTag(s, masked); ok {
		return out
	}
	return s
}

// collapseNestedTag merges a <p> or <hN> wrapper whose whole content is the
// same tag with the same alignment into the inner tag.
func collapseNestedTag(s, masked string) (string, bool) {
	for _, open := range tagOpenPattern.FindAllStringSubmatchIndex(masked, -1) {
		tag := masked[open[2]:open[3]]
		align := rtree.ParseAlignment(masked[open[4]:open[5]])
		if !align.Explicit() {
			continue
		}

		innerStart := open[1] + leadingSpace(masked[open[1]:])
		inner := wrapperOpenPattern.FindStringSubmatch(masked[innerStart:])
		if inner == nil || !strings.EqualFold(inner[1], tag) || rtree.ParseAlignment(inner[2]) != align {
			continue
		}

		closer := hClosePattern
		if strings.EqualFold(tag, "p") {
			closer = pClosePattern
		}
		innerOpenEnd := innerStart + len(inner[0])
		innerClose := closer.FindStringIndex(masked[innerOpenEnd:])
		if innerClose == nil {
			continue
		}
		outerStart := innerOpenEnd + innerClose[1]
		outerStart += leadingSpace(masked[outerStart:])
		outerClose := closer.FindStringIndex(masked[outerStart:])
		if outerClose == nil || outerClose[0] != 0 {
			continue
		}

		return splice(splice(s, outerStart, outerStart+outerClose[1]), open[0], open[1]), true
	}
	return s, false
}

func leadingSpace(s string) int {
	return len(s) - len(strings.TrimLeft(s, " \t\n"))
}

// matchingDivClose returns the span of the </div> closing a div whose
// opening tag ends at from, or -1, -1.
func matchingDivClose(masked string, from int) (int, int) {
	depth := 0
	for _, tag := range divTagPattern.FindAllStringSubmatchIndex(masked[from:], -1) {
		if masked[from+tag[2]:from+tag[3]] != "/" {
			depth++
			continue
		}
		if depth == 0 {
			return from + tag[0], from + tag[1]
		}
		depth--
	}
	return -1, -1
}

// splice removes s[start:end] together with the newlines that followed
// it, so that the surrounding blocks keep a single blank line between
// them.
func splice(s string, start, end int) string {
	left, right := s[:start], s[end:]
	if left == "" || strings.HasSuffix(left, "\n") {
		right = strings.TrimLeft(right, "\n")
		if right == "" && left != "" {
			return strings.TrimRight(left, "\n") + "\n"
		}
	}
	return left + right
}

// maskCode returns s with fenced code blocks and inline code spans
// overwritten, byte for byte, so that patterns never match inside code.
func maskCode(s string) string {
	buf := []byte(s)

	lines := strings.SplitAfter(s, "\n")
	offset := 0
	var fence string
	for _, line := range lines {
		body := strings.TrimRight(line, "\n")
		switch {
		case fence != "":
			maskRange(buf, offset, offset+len(body))
			if isFenceClose(body, fence) {
				fence = ""
			}
		default:
			if match := fencePattern.FindStringSubmatch(body); match != nil {
				fence = match[1]
				maskRange(buf, offset, offset+len(body))
			}
		}
		offset += len(line)
	}

	maskCodeSpans(buf)
	return string(buf)
}

func maskRange(buf []byte, start, end int) {
	for i := start; i < end; i++ {
		buf[i] = 'x'
	}
}

// maskCodeSpans masks backtick code spans: a run of backticks up to the
// next run of the same length.
func maskCodeSpans(buf []byte) {
	for i := 0; i < len(buf); {
		if buf[i] != '`' || (i > 0 && buf[i-1] == '\\') {
			i++
			continue
		}
		size := runLength(buf, i)
		closer := -1
		for j := i + size; j < len(buf); {
			if buf[j] != '`' {
				j++
				continue
			}
			n := runLength(buf, j)
			if n == size {
				closer = j
				break
			}
			j += n
		}
		if closer < 0 {
			i += size
			continue
		}
		maskRange(buf, i, closer+size)
		i = closer + size
	}
}

func runLength(buf []byte, i int) int {
	n := 0
	for i+n < len(buf) && buf[i+n] == '`' {
		n++
	}
	return n
}
