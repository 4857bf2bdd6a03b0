// Package countdown implements the per-question timer as a cancellable handle.
package countdown

import (
	"sync"
	"time"
)

// Ticker delivers ticks until stopped.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// TickerFactory builds a Ticker firing every d.
type TickerFactory func(d time.Duration) Ticker

type stdTicker struct {
	t *time.Ticker
}

func (s stdTicker) C() <-chan time.Time { return s.t.C }
func (s stdTicker) Stop()               { s.t.Stop() }

// RealTicker wraps time.NewTicker.
func RealTicker(d time.Duration) Ticker {
	return stdTicker{t: time.NewTicker(d)}
}

// Countdown counts down from limit once per tick. Each Start supersedes the
// previous run, so a stopped countdown never fires its expiry callback.
type Countdown struct {
	limit     int
	interval  time.Duration
	newTicker TickerFactory
	onTick    func(remaining int)

	mu        sync.Mutex
	remaining int
	stop      chan struct{}
}

// New builds a stopped countdown. onTick may be nil; it runs outside the
// countdown's lock after every tick.
func New(limit int, interval time.Duration, factory TickerFactory, onTick func(remaining int)) *Countdown {
	if limit <= 0 {
		limit = 1
	}
	if interval <= 0 {
		interval = time.Second
	}
	if factory == nil {
		factory = RealTicker
	}
	return &Countdown{
		limit:     limit,
		interval:  interval,
		newTicker: factory,
		onTick:    onTick,
		remaining: limit,
	}
}

// Start resets to the full limit and begins ticking. When the count reaches
// zero the countdown resets itself to the limit, stops, and calls onExpire.
func (c *Countdown) Start(onExpire func()) {
	c.mu.Lock()
	c.stopLocked()
	c.remaining = c.limit
	stop := make(chan struct{})
	c.stop = stop
	ticker := c.newTicker(c.interval)
	c.mu.Unlock()

	go c.run(ticker, stop, onExpire)
}

// Stop halts ticking and keeps the remaining value.
func (c *Countdown) Stop() {
	c.mu.Lock()
	c.stopLocked()
	c.mu.Unlock()
}

// Reset halts ticking and restores the full limit.
func (c *Countdown) Reset() {
	c.mu.Lock()
	c.stopLocked()
	c.remaining = c.limit
	c.mu.Unlock()
}

// Remaining reports the units left on the clock.
func (c *Countdown) Remaining() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remaining
}

// Running reports whether the countdown is ticking.
func (c *Countdown) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stop != nil
}

// Limit is the value every run starts from.
func (c *Countdown) Limit() int {
	return c.limit
}

func (c *Countdown) stopLocked() {
	if c.stop != nil {
		close(c.stop)
		c.stop = nil
	}
}

func (c *Countdown) run(ticker Ticker, stop chan struct{}, onExpire func()) {
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C():
			c.mu.Lock()
			if c.stop != stop {
				c.mu.Unlock()
				return
			}
			c.remaining--
			remaining := c.remaining
			expired := remaining <= 0
			if expired {
				c.remaining = c.limit
				c.stop = nil
			}
			c.mu.Unlock()

			if c.onTick != nil {
				c.onTick(remaining)
			}
			if expired {
				if onExpire != nil {
					onExpire()
				}
				return
			}
		}
	}
}
