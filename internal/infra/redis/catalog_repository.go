package redis

import (
	"context"
	"math/rand"
	"sort"
	"strconv"
	"sync"
	"time"

	"mock-interview-service/internal/domain"
	"mock-interview-service/internal/infra/memory"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// CatalogRepository caches catalog questions in Redis (hash per catalog) and falls back to a loader on cache miss.
// Question texts are stored as: HSET catalog:{catalogID}:questions  {questionID} {text}
// Max scores are stored as:     HSET catalog:{catalogID}:max_scores {questionID} {maxScore}
type CatalogRepository struct {
	client *redis.Client
	loader memory.CatalogLoader
	ttl    time.Duration
	sf     singleflight.Group

	rndMu sync.Mutex
	rnd   *rand.Rand
}

func NewCatalogRepository(client *redis.Client, loader memory.CatalogLoader, ttl time.Duration) *CatalogRepository {
	return &CatalogRepository{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *CatalogRepository) GetCatalog(ctx context.Context, catalogID string) (domain.Catalog, error) {
	if catalog, ok := r.fromCache(ctx, catalogID); ok {
		return catalog, nil
	}

	result, err, _ := r.sf.Do(catalogID, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if catalog, ok := r.fromCache(ctx, catalogID); ok {
			return catalog, nil
		}

		catalog, err := r.loader.LoadCatalog(ctx, catalogID)
		if err != nil {
			return domain.Catalog{}, err
		}
		if len(catalog.Questions) == 0 {
			return domain.Catalog{}, domain.ErrCatalogEmpty
		}

		questionsKey := r.questionsKey(catalogID)
		scoresKey := r.scoresKey(catalogID)
		ttl := r.ttlWithJitter()
		pipe := r.client.Pipeline()
		for _, q := range catalog.Questions {
			maxScore := q.MaxScore
			if maxScore <= 0 {
				maxScore = domain.DefaultMaxScore
			}
			field := strconv.Itoa(q.ID)
			pipe.HSet(ctx, questionsKey, field, q.Text)
			pipe.HSet(ctx, scoresKey, field, maxScore)
		}
		if ttl > 0 {
			pipe.Expire(ctx, questionsKey, ttl)
			pipe.Expire(ctx, scoresKey, ttl)
		}
		// the cache is best-effort; a failed write only costs a reload
		_, _ = pipe.Exec(ctx)

		return catalog, nil
	})
	if err != nil {
		return domain.Catalog{}, err
	}
	return result.(domain.Catalog), nil
}

func (r *CatalogRepository) fromCache(ctx context.Context, catalogID string) (domain.Catalog, bool) {
	texts, err := r.client.HGetAll(ctx, r.questionsKey(catalogID)).Result()
	if err != nil || len(texts) == 0 {
		return domain.Catalog{}, false
	}
	scores, _ := r.client.HGetAll(ctx, r.scoresKey(catalogID)).Result()
	return buildCatalogFromCache(catalogID, texts, scores), true
}

func (r *CatalogRepository) questionsKey(catalogID string) string {
	return "catalog:" + catalogID + ":questions"
}

func (r *CatalogRepository) scoresKey(catalogID string) string {
	return "catalog:" + catalogID + ":max_scores"
}

func buildCatalogFromCache(catalogID string, texts map[string]string, scores map[string]string) domain.Catalog {
	questions := make([]domain.Question, 0, len(texts))
	for field, text := range texts {
		id, err := strconv.Atoi(field)
		if err != nil {
			continue
		}
		maxScore := domain.DefaultMaxScore
		if s, ok := scores[field]; ok {
			if v, err := strconv.Atoi(s); err == nil && v > 0 {
				maxScore = v
			}
		}
		questions = append(questions, domain.Question{ID: id, Text: text, MaxScore: maxScore})
	}
	// hashes are unordered; keep catalog order stable by id
	sort.Slice(questions, func(i, j int) bool { return questions[i].ID < questions[j].ID })
	return domain.Catalog{ID: catalogID, Questions: questions}
}

func (r *CatalogRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	jitterMax := int64(r.ttl) / 10
	r.rndMu.Lock()
	defer r.rndMu.Unlock()
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
