package minigame

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/matchday/internal/stat"
)

func TestNew_UnknownKind(t *testing.T) {
	t.Parallel()

	s, err := New(Kind(42), stat.NewStore(), Options{Rand: fixedRand{}})
	assert.ErrorIs(t, err, ErrUnknownKind)
	assert.Nil(t, s)
}

func TestNew_Defaults(t *testing.T) {
	t.Parallel()

	s, err := New(KindTapTest, stat.NewStore(), Options{Rand: fixedRand{f: 1}})
	require.NoError(t, err)
	assert.NotEmpty(t, s.ID())
	assert.Equal(t, PhaseIdle, s.Phase())

	// No collaborators wired: finishing must not panic.
	s.Start()
	s.HandleInput(Tap(s.Targets()[0].ID))
	for range 1000 {
		s.Tick(frame)
	}
	assert.True(t, s.IsComplete())
}

func TestNew_DefaultLayout(t *testing.T) {
	t.Parallel()

	s, err := New(KindTapTest, stat.NewStore(), Options{Rand: fixedRand{f: 1}})
	require.NoError(t, err)
	s.Start()

	area := DefaultLayout().TapArea
	for _, b := range s.Targets() {
		assert.Equal(t, area.MaxX, b.X)
		assert.Equal(t, area.MaxY, b.Y)
	}
}

func TestSession_DoubleStartIsNoop(t *testing.T) {
	t.Parallel()

	f := newFixture(t, KindTapTest, fixedRand{f: 0.5})
	f.s.Start()
	before := f.s.Targets()

	f.s.Start()
	assert.Equal(t, before, f.s.Targets())
	assert.Equal(t, PhaseRunning, f.s.Phase())
}

func TestSession_InputBeforeStartIgnored(t *testing.T) {
	t.Parallel()

	f := newFixture(t, KindRhythm, fixedRand{})
	f.s.HandleInput(TapAnywhere())
	f.s.Tick(1)

	assert.Zero(t, f.s.Score().Rounds)
	assert.Zero(t, f.s.Snapshot().Elapsed)
}

func TestSession_AbortGivesNoReward(t *testing.T) {
	t.Parallel()

	f := newFixture(t, KindTapTest, fixedRand{f: 0.5})
	f.s.Start()
	for range 6 {
		f.s.HandleInput(Tap(f.s.Targets()[0].ID))
	}
	f.s.Abort()

	assert.Equal(t, PhaseAborted, f.s.Phase())
	assert.False(t, f.s.IsComplete())
	_, ok := f.s.Result()
	assert.False(t, ok)
	assert.Equal(t, stat.Values{}, f.store.Values())
	assert.Zero(t, f.recorder.completed)
	assert.Empty(t, f.listener.results)

	f.s.Start()
	assert.Equal(t, PhaseAborted, f.s.Phase(), "sessions are single-use")
}

func TestSession_ResultCarriesChanges(t *testing.T) {
	t.Parallel()

	f := newFixture(t, KindRhythm, fixedRand{})
	f.store.Apply(stat.Fatigue, 2)
	f.s.Start()
	g := f.s.rules.(*rhythm)
	g.marker = 0.5
	for range RhythmRounds {
		f.s.HandleInput(TapAnywhere())
	}

	res, ok := f.s.Result()
	require.True(t, ok)
	assert.Equal(t, f.s.ID(), res.SessionID)
	assert.Equal(t, KindRhythm, res.Kind)
	assert.Equal(t, []Change{
		{Stat: stat.Strength, Delta: LargeGain, Value: 45},
		{Stat: stat.TeamSpirit, Delta: LargeGain, Value: 45},
		{Stat: stat.Fatigue, Delta: Penalty, Value: 0},
	}, res.Changes)

	require.Len(t, f.listener.results, 1)
	assert.Equal(t, res, f.listener.results[0])
	assert.Equal(t, &res, f.s.Snapshot().Result)
}

func TestSession_TimerEndingSessionSkipsRest(t *testing.T) {
	t.Parallel()

	f := newFixture(t, KindRhythm, fixedRand{})
	f.s.Start()

	var late bool
	f.s.after(1, 0.1, func() { f.s.finish() })
	f.s.after(2, 0.1, func() { late = true })
	f.s.Tick(0.2)

	assert.True(t, f.s.IsComplete())
	assert.False(t, late)
	assert.Empty(t, f.s.timers)
}

func TestSession_TimerReplacedByKey(t *testing.T) {
	t.Parallel()

	f := newFixture(t, KindRhythm, fixedRand{})
	f.s.Start()

	var calls []int
	f.s.after(7, 0.1, func() { calls = append(calls, 1) })
	f.s.after(7, 0.3, func() { calls = append(calls, 2) })
	f.s.Tick(0.2)
	assert.Empty(t, calls)
	f.s.Tick(0.2)
	assert.Equal(t, []int{2}, calls)
}

func TestSession_TimeLimitEndsOnDueFrame(t *testing.T) {
	t.Parallel()

	tests := []struct {
		kind     Kind
		duration float64
	}{
		{KindTapTest, TapTestDuration},
		{KindAntistress, AntistressDuration},
	}
	for _, tt := range tests {
		t.Run(tt.kind.Key(), func(t *testing.T) {
			t.Parallel()

			f := newFixture(t, tt.kind, fixedRand{f: 0.5})
			f.s.Start()

			frames := int(tt.duration * 60)
			for range frames - 1 {
				f.s.Tick(frame)
			}
			require.True(t, f.s.IsActive(), "one frame left")

			f.s.Tick(frame)
			assert.True(t, f.s.IsComplete())
			assert.Zero(t, f.s.Snapshot().Remaining)
			assert.InDelta(t, tt.duration, f.s.Snapshot().Elapsed, 1e-6)
		})
	}
}

func TestSession_TimerFiresOnDueFrame(t *testing.T) {
	t.Parallel()

	f := newFixture(t, KindRhythm, fixedRand{})
	f.s.Start()

	var fired bool
	f.s.after(1, 0.3, func() { fired = true })
	for range 17 {
		f.s.Tick(frame)
	}
	require.False(t, fired)
	f.s.Tick(frame)
	assert.True(t, fired, "18 frames of 1/60 s are 0.3 s")
}

func TestRewardFor(t *testing.T) {
	t.Parallel()

	for _, k := range Kinds {
		r := RewardFor(k)
		assert.NotEqual(t, r.Raised[0], r.Raised[1], k.String())
		assert.NotEqual(t, r.Lowered, r.Raised[0], k.String())
		assert.NotEqual(t, r.Lowered, r.Raised[1], k.String())
	}

	assert.Equal(t, []Change{
		{Stat: stat.Popularity, Delta: 45},
		{Stat: stat.Fatigue, Delta: 45},
		{Stat: stat.TeamSpirit, Delta: -5},
	}, RewardFor(KindTapTest).Deltas(TierLarge))
}

func TestParseKind(t *testing.T) {
	t.Parallel()

	for _, k := range Kinds {
		got, ok := ParseKind(k.Key())
		require.True(t, ok)
		assert.Equal(t, k, got)
	}
	_, ok := ParseKind("chess")
	assert.False(t, ok)
}
