// Package host runs the game headless: a fixed-step clock drives the
// simulation and an autopilot plays it.
package host

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/udisondev/matchday/internal/config"
)

// Ticker advances the simulation by dt simulated seconds.
type Ticker interface {
	Tick(dt float64)
}

// Observer runs after every step, on the clock goroutine.
type Observer interface {
	AfterTick()
}

// Clock steps the simulation at a fixed rate. Speed scales real time: at
// speed 4 one real second advances four simulated seconds.
type Clock struct {
	target    Ticker
	observers []Observer

	step     float64       // simulated seconds per tick
	interval time.Duration // real time between ticks

	ticks atomic.Uint64
}

// NewClock creates a clock for target using cfg.
func NewClock(target Ticker, cfg config.ClockConfig, observers ...Observer) *Clock {
	interval := time.Duration(float64(time.Second) / (float64(cfg.TickRate) * cfg.Speed))
	return &Clock{
		target:    target,
		observers: observers,
		step:      cfg.Step(),
		interval:  max(interval, time.Millisecond),
	}
}

// Step returns the simulated length of one tick.
func (c *Clock) Step() float64 { return c.step }

// Interval returns the real time between ticks.
func (c *Clock) Interval() time.Duration { return c.interval }

// Ticks returns the number of steps taken so far.
func (c *Clock) Ticks() uint64 { return c.ticks.Load() }

// Advance takes n steps immediately. Use from one goroutine only, and not
// while Run is active.
func (c *Clock) Advance(n int) {
	for range n {
		c.tick()
	}
}

func (c *Clock) tick() {
	c.target.Tick(c.step)
	for _, o := range c.observers {
		o.AfterTick()
	}
	c.ticks.Add(1)
}

// Run steps the simulation until ctx is canceled.
func (c *Clock) Run(ctx context.Context) error {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	slog.Info("clock started", "step", c.step, "interval", c.interval)

	for {
		select {
		case <-ctx.Done():
			slog.Info("clock stopped", "ticks", c.ticks.Load())
			return nil
		case <-ticker.C:
			c.tick()
		}
	}
}
