// Package langdetect guesses the language of code blocks that carry no
// info string. It combines go-enry's shebang and classifier heuristics
// with a few cheap textual signatures.
package langdetect

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/go-enry/go-enry/v2"

	"github.com/yaklabco/markbridge/pkg/rtree"
)

// Unknown is returned when no language could be determined.
const Unknown = "text"

// signature recognizes a language from a textual pattern.
type signature struct {
	lang  string
	match func(src []byte) bool
}

//nolint:gochecknoglobals // Read-only lookup tables.
var (
	sqlStatement = regexp.MustCompile(`(?i)^\s*(select|insert|update|delete|create)\s`)
	yamlKey      = regexp.MustCompile(`^\s*(- )?[A-Za-z_][\w.-]*:(\s|$)`)

	// signatures are tried in order; the first match wins.
	signatures = []signature{
		{"go", func(src []byte) bool { return bytes.HasPrefix(bytes.TrimSpace(src), []byte("package ")) }},
		{"python", looksLikePython},
		{"html", containsAny(true, "<!doctype html", "<html", "<head>", "<body>")},
		{"json", looksLikeJSON},
		{"dockerfile", looksLikeDockerfile},
		{"sql", sqlStatement.Match},
		{"rust", containsAny(false, "fn main()", "println!", "let mut ")},
		{"javascript", containsAny(false, "=>", "const ", "let ", "console.log")},
		{"yaml", looksLikeYAML},
	}

	classifierCandidates = []string{
		"Go", "Python", "Shell", "JavaScript", "TypeScript",
		"Ruby", "Rust", "Java", "C", "C++", "SQL", "JSON",
		"YAML", "HTML", "CSS", "Markdown", "Dockerfile",
	}
)

// Detect returns a fence tag for content, or Unknown.
func Detect(content []byte) string {
	if len(bytes.TrimSpace(content)) == 0 {
		return Unknown
	}

	if lang, safe := enry.GetLanguageByShebang(content); safe {
		return fenceTag(lang)
	}
	for _, sig := range signatures {
		if sig.match(content) {
			return sig.lang
		}
	}
	if lang, safe := enry.GetLanguageByClassifier(content, classifierCandidates); safe && lang != "" {
		return fenceTag(lang)
	}
	return Unknown
}

// Guess is a detected language for one unlabeled code block.
type Guess struct {
	Node     *rtree.Node
	Language string
}

// Unlabeled detects languages for every code block under root that has no
// info string. Blocks whose language cannot be determined are omitted.
func Unlabeled(root *rtree.Node) []Guess {
	var guesses []Guess
	for _, block := range rtree.FindByKind(root, rtree.NodeCodeBlock) {
		if block.Code != nil && strings.TrimSpace(block.Code.Info) != "" {
			continue
		}
		if lang := Detect([]byte(block.Text)); lang != Unknown {
			guesses = append(guesses, Guess{Node: block, Language: lang})
		}
	}
	return guesses
}

func looksLikePython(src []byte) bool {
	s := string(src)
	switch {
	case strings.Contains(s, "def ") && strings.Contains(s, "):"):
		return true
	case strings.Contains(s, "__name__"), strings.Contains(s, "__main__"):
		return true
	case strings.Contains(s, "import (") || !strings.Contains(s, "import "):
		return false
	default:
		return strings.Contains(s, "from ") || strings.HasPrefix(strings.TrimSpace(s), "import ")
	}
}

func looksLikeJSON(src []byte) bool {
	trimmed := bytes.TrimSpace(src)
	return len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') && bytes.ContainsRune(trimmed, '"')
}

func looksLikeDockerfile(src []byte) bool {
	has := func(s string) bool { return bytes.Contains(src, []byte(s)) }
	return bytes.HasPrefix(bytes.TrimSpace(src), []byte("FROM ")) ||
		(has("\nFROM ") && has("\nRUN ")) ||
		(has("WORKDIR ") && has("COPY "))
}

// looksLikeYAML requires at least two key or list lines that do not look
// like code.
func looksLikeYAML(src []byte) bool {
	hits := 0
	for line := range bytes.SplitSeq(src, []byte("\n")) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 || line[0] == '#' || bytes.ContainsAny(line, "({") {
			continue
		}
		if yamlKey.Match(line) || bytes.HasPrefix(line, []byte("- ")) {
			hits++
		}
	}
	return hits >= 2
}

func containsAny(fold bool, needles ...string) func([]byte) bool {
	return func(src []byte) bool {
		s := string(src)
		if fold {
			s = strings.ToLower(s)
		}
		for _, needle := range needles {
			if strings.Contains(s, needle) {
				return true
			}
		}
		return false
	}
}

// fenceTag converts a go-enry language name to a fence info string.
func fenceTag(lang string) string {
	if lang == "Shell" {
		return "bash"
	}
	return strings.ToLower(lang)
}
