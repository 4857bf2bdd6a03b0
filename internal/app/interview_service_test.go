package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"mock-interview-service/internal/app"
	"mock-interview-service/internal/bank"
	"mock-interview-service/internal/countdown"
	"mock-interview-service/internal/domain"
	"mock-interview-service/internal/infra/memory"
	"mock-interview-service/internal/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCreateAndAnswer(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService(&stubScorer{score: 8, feedback: "Clear"})

	snap, err := service.Create(ctx, "")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if snap.SessionID == "" || snap.State != domain.StateInProgress {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}

	current, ok := snap.CurrentQuestion()
	if !ok {
		t.Fatalf("expected a current question")
	}
	resp, after, err := service.Submit(ctx, snap.SessionID, domain.AnswerSubmission{QuestionID: current.ID, Text: "An answer"})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if resp.Score != 8 || after.CurrentIndex != 1 || after.TotalScore != 8 {
		t.Fatalf("unexpected submit result: %+v %+v", resp, after)
	}

	results, err := service.Results(ctx, snap.SessionID)
	if err != nil {
		t.Fatalf("results failed: %v", err)
	}
	if results.TotalScore != 8 || results.MaxPossibleScore != 50 {
		t.Fatalf("unexpected results: %+v", results)
	}
}

func TestSubscribeReceivesServiceUpdates(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService(&stubScorer{score: 6})

	snap, err := service.Create(ctx, bank.DefaultCatalogID)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	ch, cancel, err := service.Subscribe(ctx, snap.SessionID)
	if err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}
	defer cancel()

	<-ch // initial snapshot

	if _, err := service.SetPresence(ctx, snap.SessionID, false); err != nil {
		t.Fatalf("presence failed: %v", err)
	}

	select {
	case update := <-ch:
		if update.Visible {
			t.Fatalf("expected hidden candidate, got %+v", update)
		}
	case <-time.After(time.Second):
		t.Fatalf("no update received")
	}
}

func TestUnknownSessionAndCatalog(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService(&stubScorer{score: 6})

	if _, _, err := service.Submit(ctx, "nope", domain.AnswerSubmission{Text: "x"}); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected session error, got %v", err)
	}
	if _, err := service.Restart(ctx, "nope"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected session error, got %v", err)
	}
	if _, err := service.Create(ctx, "unknown-catalog"); !errors.Is(err, domain.ErrCatalogNotFound) {
		t.Fatalf("expected catalog error, got %v", err)
	}
}

func TestTimerControlsAndEnd(t *testing.T) {
	ctx := context.Background()
	service, m := newTestService(&stubScorer{score: 6})

	snap, err := service.Create(ctx, "")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	started, err := service.StartTimer(ctx, snap.SessionID)
	if err != nil {
		t.Fatalf("start timer failed: %v", err)
	}
	if !started.Countdown.Running {
		t.Fatalf("expected running countdown")
	}
	reset, err := service.ResetTimer(ctx, snap.SessionID)
	if err != nil {
		t.Fatalf("reset timer failed: %v", err)
	}
	if reset.Countdown.Running || reset.Countdown.Remaining != reset.Countdown.Limit {
		t.Fatalf("expected idle full countdown, got %+v", reset.Countdown)
	}

	if err := service.End(ctx, snap.SessionID); err != nil {
		t.Fatalf("end failed: %v", err)
	}
	if _, err := service.Get(ctx, snap.SessionID); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected ended session to be gone, got %v", err)
	}
	if testutil.ToFloat64(m.SessionsEnded) != 1 {
		t.Fatalf("expected ended metric")
	}
}

func newTestService(scorer app.Scorer) (*app.InterviewService, *metrics.Metrics) {
	m := metrics.NewMetrics()
	catalogs := memory.NewCatalogRepository(memory.NewStaticCatalogLoader(bank.DefaultCatalog()), 5*time.Minute)
	return app.NewInterviewService(memory.NewSessionStore(), catalogs, scorer, app.SessionConfig{
		Tickers: countdown.NewManualSource().Factory,
		Metrics: m,
	}), m
}
