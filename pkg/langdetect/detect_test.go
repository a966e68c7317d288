package langdetect_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/markbridge/pkg/langdetect"
	"github.com/yaklabco/markbridge/pkg/markup"
)

func TestDetect(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"shebang bash", "#!/bin/bash\necho hello", "bash"},
		{"shebang sh", "#!/bin/sh\necho hello", "bash"},
		{"shebang python", "#!/usr/bin/env python3\nprint('hello')", "python"},
		{"shebang wins over patterns", "#!/bin/bash\ndef foo():\n    pass", "bash"},
		{"go", "package main\n\nfunc main() {\n\tfmt.Println(\"hello\")\n}", "go"},
		{"python", "def foo():\n    pass\n\nif __name__ == '__main__':\n    foo()", "python"},
		{"python import", "from os import path\n", "python"},
		{"javascript", "const x = () => { return 42; };\nconsole.log(x());", "javascript"},
		{"json", `{"key": "value", "number": 123}`, "json"},
		{"yaml", "key: value\nother: 123\nlist:\n  - item1\n  - item2", "yaml"},
		{"rust", "fn main() {\n    println!(\"Hello, world!\");\n}", "rust"},
		{"sql", "SELECT * FROM users WHERE id = 1;", "sql"},
		{"html", "<!DOCTYPE html>\n<html>\n<head><title>Test</title></head>\n<body></body>\n</html>", "html"},
		{"dockerfile", "FROM golang:1.21\nWORKDIR /app\nCOPY . .\nRUN go build", "dockerfile"},
		{"plain text", "just some text without any code patterns", langdetect.Unknown},
		{"empty", "", langdetect.Unknown},
		{"whitespace", " \n\t\n", langdetect.Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, langdetect.Detect([]byte(tt.content)))
		})
	}
}

func TestUnlabeled(t *testing.T) {
	t.Parallel()

	doc := markup.Parse("```\npackage main\n```\n\n```go\npackage labelled\n```\n\n" +
		"```\njust words here\n```\n\n    SELECT 1 FROM t;\n")

	guesses := langdetect.Unlabeled(doc)

	require.Len(t, guesses, 2)
	assert.Equal(t, "go", guesses[0].Language)
	assert.Equal(t, "package main\n", guesses[0].Node.Text)
	assert.Equal(t, "sql", guesses[1].Language)
}

func TestUnlabeled_NilTree(t *testing.T) {
	t.Parallel()

	assert.Empty(t, langdetect.Unlabeled(nil))
}

func BenchmarkDetect(b *testing.B) {
	code := []byte("def hello():\n    print(\"Hello, World!\")\n\nif __name__ == \"__main__\":\n    hello()")
	for b.Loop() {
		langdetect.Detect(code)
	}
}
