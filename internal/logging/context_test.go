package logging_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/yaklabco/markbridge/internal/logging"
)

func TestFromContext(t *testing.T) {
	t.Parallel()

	if logging.FromContext(context.Background()) == nil {
		t.Fatal("FromContext returned nil for a bare context")
	}

	logger := log.New(&bytes.Buffer{})
	ctx := logging.WithLogger(context.Background(), logger)
	if logging.FromContext(ctx) != logger {
		t.Error("FromContext did not return the attached logger")
	}
}

func TestWithFields(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := log.New(&buf)
	logger.SetLevel(log.DebugLevel)

	ctx := logging.WithFields(logging.WithLogger(context.Background(), logger), logging.FieldPath, "docs/a.md")
	logging.FromContext(ctx).Debug("file written", logging.FieldBytes, 12)

	out := buf.String()
	for _, want := range []string{"file written", "path=docs/a.md", "bytes=12"} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q does not contain %q", out, want)
		}
	}
}
