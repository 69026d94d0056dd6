package log

import (
	"bytes"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestNew(t *testing.T) {
	var buf bytes.Buffer
	l, err := New("info", &buf)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	l.Debug("debug-only")
	l.Info("message hidden", zap.Int("bytes", 5))

	out := buf.String()
	if strings.Contains(out, "debug-only") {
		t.Errorf("debug entry written at info level: %q", out)
	}
	if !strings.Contains(out, "message hidden") || !strings.Contains(out, "bytes") {
		t.Errorf("missing info entry: %q", out)
	}
}

func TestNewInvalidLevel(t *testing.T) {
	if _, err := New("loud", &bytes.Buffer{}); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestPackageHelpers(t *testing.T) {
	var buf bytes.Buffer
	l, err := New("debug", &buf)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	prev := L()
	SetLogger(l)
	defer SetLogger(prev)

	Debug("d")
	Warn("w", zap.String("path", "cover.png"))
	Sync()

	out := buf.String()
	if !strings.Contains(out, "DEBUG") || !strings.Contains(out, "WARN") || !strings.Contains(out, "cover.png") {
		t.Errorf("unexpected output: %q", out)
	}
}
