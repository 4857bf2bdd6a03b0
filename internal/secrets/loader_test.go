package secrets

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadPrefersFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "key")
	if err := os.WriteFile(path, []byte("  from-file\n"), 0o600); err != nil {
		t.Fatalf("write key: %v", err)
	}

	got, err := Load(Source{Name: "gemini api key", Value: "inline", File: path})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got != "from-file" {
		t.Fatalf("expected file value, got %q", got)
	}
}

func TestLoadInlineValue(t *testing.T) {
	got, err := Load(Source{Value: " inline "})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got != "inline" {
		t.Fatalf("expected trimmed inline value, got %q", got)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(Source{Name: "openai api key"}); err == nil || !strings.Contains(err.Error(), "openai api key is not configured") {
		t.Fatalf("expected not configured error, got %v", err)
	}

	empty := filepath.Join(t.TempDir(), "empty")
	if err := os.WriteFile(empty, []byte("\n"), 0o600); err != nil {
		t.Fatalf("write key: %v", err)
	}
	if _, err := Load(Source{File: empty}); err == nil || !strings.Contains(err.Error(), "is empty") {
		t.Fatalf("expected empty file error, got %v", err)
	}

	if _, err := Load(Source{File: filepath.Join(t.TempDir(), "missing")}); err == nil {
		t.Fatalf("expected read error")
	}
}
