// Package bank holds the fixed question catalog and draws per-session samples from it.
package bank

import (
	"math/rand"
	"sync"
	"time"

	"mock-interview-service/internal/domain"
)

// Bank is an immutable question catalog with a uniform sampler.
type Bank struct {
	catalog []domain.Question

	mu  sync.Mutex
	rnd *rand.Rand
}

// New copies the given questions into a bank. Zero MaxScore entries get domain.DefaultMaxScore.
func New(questions []domain.Question) *Bank {
	return NewWithRand(questions, rand.New(rand.NewSource(time.Now().UnixNano())))
}

// NewWithRand is like New but uses the provided source, for deterministic tests.
func NewWithRand(questions []domain.Question, rnd *rand.Rand) *Bank {
	catalog := make([]domain.Question, len(questions))
	for i, q := range questions {
		if q.MaxScore <= 0 {
			q.MaxScore = domain.DefaultMaxScore
		}
		catalog[i] = q
	}
	return &Bank{catalog: catalog, rnd: rnd}
}

// Size reports how many questions the catalog holds.
func (b *Bank) Size() int {
	return len(b.catalog)
}

// Questions returns a copy of the whole catalog in catalog order.
func (b *Bank) Questions() []domain.Question {
	out := make([]domain.Question, len(b.catalog))
	copy(out, b.catalog)
	return out
}

// Sample draws count distinct questions uniformly without replacement, in random order.
// count is clamped to the catalog size.
func (b *Bank) Sample(count int) ([]domain.Question, error) {
	if len(b.catalog) == 0 {
		return nil, domain.ErrCatalogEmpty
	}
	if count <= 0 {
		return []domain.Question{}, nil
	}
	if count > len(b.catalog) {
		count = len(b.catalog)
	}

	idx := make([]int, len(b.catalog))
	for i := range idx {
		idx[i] = i
	}

	// partial Fisher-Yates: only the first count slots are settled
	b.mu.Lock()
	for i := 0; i < count; i++ {
		j := i + b.rnd.Intn(len(idx)-i)
		idx[i], idx[j] = idx[j], idx[i]
	}
	b.mu.Unlock()

	out := make([]domain.Question, count)
	for i := 0; i < count; i++ {
		out[i] = b.catalog[idx[i]]
	}
	return out, nil
}
