package countdown

import (
	"sync"
	"time"
)

// ManualSource hands out tickers that only fire when Tick is called.
// Only the most recently created ticker receives ticks.
type ManualSource struct {
	mu      sync.Mutex
	current *manualTicker
	created int
}

type manualTicker struct {
	ch chan time.Time
}

func (m *manualTicker) C() <-chan time.Time { return m.ch }
func (m *manualTicker) Stop()               {}

// NewManualSource returns an empty source.
func NewManualSource() *ManualSource {
	return &ManualSource{}
}

// Factory satisfies TickerFactory.
func (m *ManualSource) Factory(time.Duration) Ticker {
	t := &manualTicker{ch: make(chan time.Time)}
	m.mu.Lock()
	m.current = t
	m.created++
	m.mu.Unlock()
	return t
}

// Created reports how many tickers were handed out.
func (m *ManualSource) Created() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.created
}

// Tick delivers one tick to the current ticker. It returns false when nothing
// picked the tick up within a second.
func (m *ManualSource) Tick() bool {
	m.mu.Lock()
	t := m.current
	m.mu.Unlock()
	if t == nil {
		return false
	}
	select {
	case t.ch <- time.Time{}:
		return true
	case <-time.After(time.Second):
		return false
	}
}

// TickN delivers n ticks, stopping early on the first undelivered one.
func (m *ManualSource) TickN(n int) int {
	for i := 0; i < n; i++ {
		if !m.Tick() {
			return i
		}
	}
	return n
}
