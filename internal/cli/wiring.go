package cli

import (
	"context"
	"fmt"
	"time"

	"mock-interview-service/internal/app"
	"mock-interview-service/internal/bank"
	"mock-interview-service/internal/config"
	"mock-interview-service/internal/infra/memory"
	pgloader "mock-interview-service/internal/infra/postgres"
	redisinfra "mock-interview-service/internal/infra/redis"
	"mock-interview-service/internal/metrics"
	"mock-interview-service/internal/scoring"
	"mock-interview-service/internal/scoring/gemini"
	"mock-interview-service/internal/scoring/openai"
	"mock-interview-service/internal/secrets"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// backends holds the optional external connections; nil fields mean "not configured".
type backends struct {
	redis *redis.Client
	pool  *pgxpool.Pool
}

func (b backends) Close() {
	if b.redis != nil {
		_ = b.redis.Close()
	}
	if b.pool != nil {
		b.pool.Close()
	}
}

func connectBackends(ctx context.Context, cfg config.Config) (backends, error) {
	var b backends
	if cfg.Redis.Addr != "" {
		b.redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}
	if cfg.Postgres.URL != "" {
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			b.Close()
			return backends{}, fmt.Errorf("connect postgres: %w", err)
		}
		b.pool = pool
	}
	return b, nil
}

func buildCatalogs(cfg config.Config, b backends) app.CatalogRepository {
	var loader memory.CatalogLoader = memory.NewStaticCatalogLoader(bank.DefaultCatalog())
	if b.pool != nil {
		loader = pgloader.NewCatalogLoader(b.pool)
	}

	ttl := config.TTLDuration(cfg.Catalog.TTL, 10*time.Minute)
	if b.redis != nil {
		return redisinfra.NewCatalogRepository(b.redis, loader, ttl)
	}
	return memory.NewCatalogRepository(loader, ttl)
}

func buildSessionStore(cfg config.Config, b backends) app.SessionRepository {
	if b.redis != nil {
		return redisinfra.NewSessionStore(b.redis, config.TTLDuration(cfg.Redis.TTL, 10*time.Minute))
	}
	return memory.NewSessionStore()
}

// buildScorer picks the scoring backend. Without a usable key the service
// still runs and every answer gets the fallback score.
func buildScorer(ctx context.Context, cfg config.Config, l *zap.Logger) (app.Scorer, error) {
	provider := cfg.Scorer.Provider
	if provider == config.ProviderNone {
		l.Warn("scorer disabled, every answer gets the fallback score")
		return scoring.Disabled{}, nil
	}

	key, err := secrets.Load(secrets.Source{
		Name:  provider + " api key",
		Value: cfg.Scorer.APIKey,
		File:  cfg.Scorer.APIKeyFile,
	})
	if err != nil {
		l.Warn("scorer disabled, every answer gets the fallback score", zap.Error(err))
		return scoring.Disabled{}, nil
	}

	var generator scoring.Generator
	switch provider {
	case config.ProviderGemini:
		g, err := gemini.NewGenerator(ctx, key, cfg.Scorer.Model, cfg.Scorer.MaxRetries, l)
		if err != nil {
			return nil, err
		}
		generator = g
	case config.ProviderOpenAI:
		generator = openai.NewClient(key, cfg.Scorer.Model, cfg.Scorer.BaseURL, config.TTLDuration(cfg.Scorer.Timeout, 30*time.Second))
	default:
		return nil, fmt.Errorf("unknown scorer provider %q", provider)
	}
	return scoring.NewLLMScorer(generator, l, cfg.Scorer.MaxLogLength), nil
}

func sessionConfig(cfg config.Config, m *metrics.Metrics, l *zap.Logger) app.SessionConfig {
	return app.SessionConfig{
		Questions: cfg.Interview.Questions,
		TimeLimit: cfg.Interview.TimeLimit,
		Tick:      config.TTLDuration(cfg.Interview.Tick, time.Second),
		Logger:    l,
		Metrics:   m,
	}
}
