package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mock-interview-service/internal/domain"
)

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("INTERVIEW_TEST_KEY=from-dotenv\n"), 0o600); err != nil {
		t.Fatalf("write env: %v", err)
	}
	t.Setenv("INTERVIEW_TEST_KEY", "")
	os.Unsetenv("INTERVIEW_TEST_KEY")

	if err := loadEnvFile(path); err != nil {
		t.Fatalf("load env: %v", err)
	}
	if got := os.Getenv("INTERVIEW_TEST_KEY"); got != "from-dotenv" {
		t.Fatalf("expected value from dotenv, got %q", got)
	}

	if err := loadEnvFile(filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Fatalf("missing env file should be ignored, got %v", err)
	}
}

func TestVersionCommand(t *testing.T) {
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"version", "--env-file", ""})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.Contains(out.String(), "interview-service version: unknown") {
		t.Fatalf("unexpected output %q", out.String())
	}
}

func TestPrintResults(t *testing.T) {
	var out bytes.Buffer
	printResults(&out, domain.Results{
		TotalScore:       7,
		MaxPossibleScore: 10,
		Percentage:       70,
		Band:             domain.BandGood,
		Verdict:          "Good effort.",
		Questions: []domain.QuestionResult{{
			Question: domain.Question{ID: 1, Text: "Tell me about yourself.", MaxScore: 10},
			Response: domain.Response{QuestionID: 1, Text: "I build things.", Score: 7, Feedback: "Clear."},
			Rating:   domain.RatingStrong,
		}},
	})
	for _, want := range []string{"Total: 7/10 (70%, good)", "Tell me about yourself.", "Score: 7/10 (strong)", "Clear."} {
		if !strings.Contains(out.String(), want) {
			t.Fatalf("expected %q in output:\n%s", want, out.String())
		}
	}
}
