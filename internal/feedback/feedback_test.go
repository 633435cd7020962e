package feedback

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type failingOutput struct{ calls int }

func (f *failingOutput) Play() error {
	f.calls++
	return errors.New("asset missing")
}

func TestSink_PlaysEnabledOutputs(t *testing.T) {
	t.Parallel()

	sound := NewCounter("sound")
	haptics := NewCounter("haptics")
	s := NewSink(DefaultSettings(), sound, haptics)

	s.PlayTapFeedback()
	assert.Equal(t, int64(1), sound.Plays())
	assert.Equal(t, int64(1), haptics.Plays())

	s.SetSound(false)
	s.PlayTapFeedback()
	assert.Equal(t, int64(1), sound.Plays())
	assert.Equal(t, int64(2), haptics.Plays())

	s.SetHaptics(false)
	s.PlayTapFeedback()
	assert.Equal(t, int64(2), haptics.Plays())
	assert.Equal(t, Settings{}, s.Settings())
}

func TestSink_IgnoresFailuresAndMissingOutputs(t *testing.T) {
	t.Parallel()

	broken := &failingOutput{}
	s := NewSink(DefaultSettings(), broken, nil)

	assert.NotPanics(t, s.PlayTapFeedback)
	assert.Equal(t, 1, broken.calls)
}
