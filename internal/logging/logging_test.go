package logging

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNewLevels(t *testing.T) {
	cases := []struct {
		level string
		want  zapcore.Level
	}{
		{"debug", zap.DebugLevel},
		{"info", zap.InfoLevel},
		{"warn", zap.WarnLevel},
		{"error", zap.ErrorLevel},
	}

	for _, tc := range cases {
		t.Run(tc.level, func(t *testing.T) {
			l, err := New("json", tc.level)
			if err != nil {
				t.Fatalf("New returned error: %v", err)
			}
			if !l.Core().Enabled(tc.want) {
				t.Fatalf("expected level %s to be enabled", tc.want)
			}
			if tc.want > zap.DebugLevel && l.Core().Enabled(tc.want-1) {
				t.Fatalf("expected level %s to be disabled", tc.want-1)
			}
		})
	}
}

func TestNewNone(t *testing.T) {
	l, err := New("text", "none")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if l.Core().Enabled(zap.ErrorLevel) {
		t.Fatal("expected no-op logger")
	}
}

func TestNewRejectsUnknownValues(t *testing.T) {
	if _, err := New("text", "verbose"); err == nil {
		t.Fatal("expected error for unknown level")
	}
	if _, err := New("xml", "info"); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestOrNop(t *testing.T) {
	if OrNop(nil) == nil {
		t.Fatal("expected non-nil logger")
	}
	l := zap.NewExample()
	if OrNop(l) != l {
		t.Fatal("expected logger to be returned unchanged")
	}
}
