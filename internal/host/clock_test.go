package host

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/matchday/internal/config"
)

type countingTicker struct {
	ticks int
	total float64
}

func (c *countingTicker) Tick(dt float64) {
	c.ticks++
	c.total += dt
}

type countingObserver struct{ calls int }

func (o *countingObserver) AfterTick() { o.calls++ }

func TestNewClock_Interval(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		cfg      config.ClockConfig
		step     float64
		interval time.Duration
	}{
		{"real time", config.ClockConfig{TickRate: 50, Speed: 1}, 0.02, 20 * time.Millisecond},
		{"double speed", config.ClockConfig{TickRate: 50, Speed: 2}, 0.02, 10 * time.Millisecond},
		{"floored", config.ClockConfig{TickRate: 60, Speed: 1000}, 1.0 / 60, time.Millisecond},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewClock(&countingTicker{}, tt.cfg)
			assert.InDelta(t, tt.step, c.Step(), 1e-12)
			assert.Equal(t, tt.interval, c.Interval())
		})
	}
}

func TestClock_Advance(t *testing.T) {
	t.Parallel()

	tk := &countingTicker{}
	obs := &countingObserver{}
	c := NewClock(tk, config.ClockConfig{TickRate: 60, Speed: 1}, obs)

	c.Advance(120)

	assert.Equal(t, 120, tk.ticks)
	assert.InDelta(t, 2.0, tk.total, 1e-9)
	assert.Equal(t, 120, obs.calls)
	assert.Equal(t, uint64(120), c.Ticks())
}

func TestClock_RunStopsOnCancel(t *testing.T) {
	t.Parallel()

	tk := &countingTicker{}
	c := NewClock(tk, config.ClockConfig{TickRate: 500, Speed: 1})

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- c.Run(ctx) }()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("clock did not stop")
	}

	assert.Positive(t, tk.ticks)
	assert.Equal(t, uint64(tk.ticks), c.Ticks())
}
