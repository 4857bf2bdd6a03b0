package app_test

import (
	"testing"

	"mock-interview-service/internal/app"
	"mock-interview-service/internal/domain"
)

func TestSummarize(t *testing.T) {
	questions := []domain.Question{
		{ID: 1, Text: "q1", MaxScore: 10},
		{ID: 2, Text: "q2", MaxScore: 10},
		{ID: 3, Text: "q3", MaxScore: 10},
	}
	snap := domain.Snapshot{
		SessionID:  "s-1",
		State:      domain.StateCompleted,
		Complete:   true,
		Questions:  questions,
		TotalScore: 23,
		Responses: []domain.Response{
			{QuestionID: 1, Score: 9},
			{QuestionID: 2, Score: 5},
			{QuestionID: 3, Score: 9},
		},
	}

	results := app.Summarize(snap)
	if results.MaxPossibleScore != 30 {
		t.Fatalf("expected max 30, got %d", results.MaxPossibleScore)
	}
	if results.Percentage != 77 {
		t.Fatalf("expected 77%%, got %d", results.Percentage)
	}
	if results.Band != domain.BandGood {
		t.Fatalf("expected good band, got %s", results.Band)
	}
	if results.Verdict != "Very good! You show strong capabilities with some room for improvement." {
		t.Fatalf("unexpected verdict %q", results.Verdict)
	}
	if len(results.Questions) != 3 {
		t.Fatalf("expected 3 question results, got %d", len(results.Questions))
	}
	wantRatings := []domain.Rating{domain.RatingStrong, domain.RatingFair, domain.RatingStrong}
	for i, want := range wantRatings {
		if got := results.Questions[i].Rating; got != want {
			t.Fatalf("question %d: expected %s, got %s", i, want, got)
		}
		if results.Questions[i].Question.ID != snap.Responses[i].QuestionID {
			t.Fatalf("question %d not paired with its response", i)
		}
	}
}

func TestSummarizeBands(t *testing.T) {
	cases := []struct {
		total int
		band  domain.Band
	}{
		{total: 50, band: domain.BandExcellent},
		{total: 40, band: domain.BandExcellent},
		{total: 30, band: domain.BandGood},
		{total: 20, band: domain.BandFair},
		{total: 19, band: domain.BandPoor},
		{total: 0, band: domain.BandPoor},
	}
	questions := make([]domain.Question, 5)
	for i := range questions {
		questions[i] = domain.Question{ID: i + 1, MaxScore: 10}
	}
	for _, tc := range cases {
		results := app.Summarize(domain.Snapshot{Questions: questions, TotalScore: tc.total})
		if results.Band != tc.band {
			t.Fatalf("total %d: expected %s, got %s", tc.total, tc.band, results.Band)
		}
	}
}

func TestSummarizeEmptySession(t *testing.T) {
	results := app.Summarize(domain.Snapshot{})
	if results.Percentage != 0 || results.MaxPossibleScore != 0 || len(results.Questions) != 0 {
		t.Fatalf("unexpected results for empty session: %+v", results)
	}
	if results.Band != domain.BandPoor {
		t.Fatalf("expected poor band, got %s", results.Band)
	}
}
