package minigame

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/udisondev/matchday/internal/stat"
)

const frame = 1.0 / 60

// fixedRand always returns the same draws so spawn spots and cue timing are
// predictable.
type fixedRand struct {
	f float64
	n int
}

func (r fixedRand) Float64() float64 { return r.f }
func (r fixedRand) IntN(int) int     { return r.n }

type countingRecorder struct{ completed int }

func (r *countingRecorder) IncrementActivityCompleted() { r.completed++ }

type countingFeedback struct{ plays int }

func (f *countingFeedback) PlayTapFeedback() { f.plays++ }

type captureListener struct{ results []Result }

func (l *captureListener) OnSessionEnd(res Result) { l.results = append(l.results, res) }

type fixture struct {
	s        *Session
	store    *stat.Store
	recorder *countingRecorder
	feedback *countingFeedback
	listener *captureListener
}

func newFixture(t *testing.T, k Kind, rng Rand) *fixture {
	t.Helper()
	f := &fixture{
		store:    stat.NewStore(),
		recorder: &countingRecorder{},
		feedback: &countingFeedback{},
		listener: &captureListener{},
	}
	s, err := New(k, f.store, Options{
		Rand:     rng,
		Recorder: f.recorder,
		Feedback: f.feedback,
		Listener: f.listener,
	})
	require.NoError(t, err)
	f.s = s
	return f
}

// run ticks the session at 60 Hz for the given number of seconds.
func (f *fixture) run(seconds float64) {
	for range int(seconds*60 + 0.5) {
		f.s.Tick(frame)
	}
}
