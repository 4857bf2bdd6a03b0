package http

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"mock-interview-service/internal/app"
	"mock-interview-service/internal/bank"
	"mock-interview-service/internal/countdown"
	"mock-interview-service/internal/domain"
	"mock-interview-service/internal/infra/memory"
	"mock-interview-service/internal/metrics"
)

type fixedScorer struct {
	score int
}

func (s fixedScorer) Evaluate(context.Context, string, string) (domain.Evaluation, error) {
	return domain.Evaluation{Score: s.score, Feedback: "Solid answer."}, nil
}

func newTestServer(t *testing.T) (*httptest.Server, *app.InterviewService, *metrics.Metrics) {
	t.Helper()
	m := metrics.NewMetrics()
	catalogs := memory.NewCatalogRepository(memory.NewStaticCatalogLoader(bank.DefaultCatalog()), time.Minute)
	service := app.NewInterviewService(memory.NewSessionStore(), catalogs, fixedScorer{score: 7}, app.SessionConfig{
		Tickers: countdown.NewManualSource().Factory,
		Metrics: m,
	})
	server := httptest.NewServer(NewRouter(service, m, nil))
	t.Cleanup(server.Close)
	return server, service, m
}
