package logger

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestTruncateForLog(t *testing.T) {
	cases := []struct {
		name  string
		in    string
		limit int
		want  string
	}{
		{"short", "  hello  ", 10, "hello"},
		{"exact", "hello", 5, "hello"},
		{"long", "hello world", 5, "hello..."},
		{"runes", "привет мир", 6, "привет..."},
		{"zero", "hello", 0, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := TruncateForLog(tc.in, tc.limit); got != tc.want {
				t.Fatalf("TruncateForLog(%q, %d) = %q, want %q", tc.in, tc.limit, got, tc.want)
			}
		})
	}
}

func TestWithCommonFieldsSkipsEmpty(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := WithCommonFields(zap.New(core), "gemini", " ")
	l = WithSession(l, "s-1")
	l.Info("scored")

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected one entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields[FieldProvider] != "gemini" {
		t.Fatalf("expected provider field, got %+v", fields)
	}
	if _, ok := fields[FieldModel]; ok {
		t.Fatalf("empty model should be skipped, got %+v", fields)
	}
	if fields[FieldSession] != "s-1" {
		t.Fatalf("expected session field, got %+v", fields)
	}
}

func TestNilLoggerIsSafe(t *testing.T) {
	WithSession(nil, "s-1").Info("ok")
	WithCommonFields(nil, "", "").Info("ok")
}
