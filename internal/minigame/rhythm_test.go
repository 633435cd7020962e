package minigame

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/matchday/internal/stat"
)

func TestClassifyHit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		pos  float64
		want HitResult
	}{
		{0.45, HitIdeal},
		{0.5, HitIdeal},
		{0.55, HitIdeal},
		{0.30, HitNormal},
		{0.44, HitNormal},
		{0.56, HitNormal},
		{0.70, HitNormal},
		{0.29, HitMiss},
		{0.71, HitMiss},
		{0, HitMiss},
		{1, HitMiss},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifyHit(tt.pos), "pos %v", tt.pos)
	}
}

func TestRhythm_MarkerPingPong(t *testing.T) {
	t.Parallel()

	f := newFixture(t, KindRhythm, fixedRand{})
	f.s.Start()
	g := f.s.rules.(*rhythm)

	f.s.Tick(1)
	assert.InDelta(t, MarkerRate, g.marker, 1e-9)

	f.s.Tick(1)
	assert.Equal(t, 1.0, g.marker, "clamped at the far end")
	assert.Equal(t, -1.0, g.dir)

	f.s.Tick(1)
	assert.InDelta(t, 1-MarkerRate, g.marker, 1e-9)

	f.s.Tick(1)
	assert.Equal(t, 0.0, g.marker, "clamped at the near end")
	assert.Equal(t, 1.0, g.dir)
}

func TestRhythm_TapScoresAndLabels(t *testing.T) {
	t.Parallel()

	f := newFixture(t, KindRhythm, fixedRand{})
	f.s.Start()
	g := f.s.rules.(*rhythm)

	g.marker = 0.5
	f.s.HandleInput(TapAnywhere())

	score := f.s.Score()
	assert.Equal(t, 1, score.Ideal)
	assert.Equal(t, 1, score.Rounds)
	assert.Equal(t, 1, f.feedback.plays)
	assert.Equal(t, HitIdeal, f.s.Snapshot().LastHit)

	f.run(0.6)
	assert.Equal(t, HitNone, f.s.Snapshot().LastHit)

	// Signal presses mean nothing here.
	f.s.HandleInput(Press(SignalSpeak))
	assert.Equal(t, 1, f.s.Score().Rounds)
}

func TestRhythm_RewardTier(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		ideal    int
		normal   int
		wantTier Tier
	}{
		{"all misses", 0, 0, TierSmall},
		{"one ideal", 1, 0, TierLarge},
		{"two normals", 0, 2, TierSmall},
		{"three normals", 0, 3, TierLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, KindRhythm, fixedRand{})
			f.s.Start()
			g := f.s.rules.(*rhythm)

			for i := range RhythmRounds {
				switch {
				case i < tt.ideal:
					g.marker = 0.5
				case i < tt.ideal+tt.normal:
					g.marker = 0.35
				default:
					g.marker = 0.9
				}
				f.s.HandleInput(TapAnywhere())
			}

			require.True(t, f.s.IsComplete())
			res, _ := f.s.Result()
			assert.Equal(t, tt.wantTier, res.Tier)
			assert.Equal(t, RhythmRounds, res.Score.Rounds)
			assert.Equal(t, RhythmRounds-tt.ideal-tt.normal, res.Score.Miss)
			assert.Equal(t, RhythmRounds, f.feedback.plays)

			gain := SmallGain
			if tt.wantTier == TierLarge {
				gain = LargeGain
			}
			assert.Equal(t, gain, f.store.Get(stat.Strength))
			assert.Equal(t, gain, f.store.Get(stat.TeamSpirit))
			assert.Equal(t, 0, f.store.Get(stat.Fatigue))
		})
	}
}

func TestRhythm_NoTimeLimit(t *testing.T) {
	t.Parallel()

	f := newFixture(t, KindRhythm, fixedRand{})
	f.s.Start()
	f.run(60)

	assert.True(t, f.s.IsActive())
	assert.Zero(t, f.s.Score().Rounds)
}
