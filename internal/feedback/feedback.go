// Package feedback dispatches the tap sound and haptic to the outputs the
// player has enabled.
package feedback

import (
	"log/slog"
	"sync"
	"sync/atomic"
)

// Settings are the player's toggles.
type Settings struct {
	Sound   bool `yaml:"sound" json:"sound"`
	Haptics bool `yaml:"haptics" json:"haptics"`
}

// DefaultSettings has both outputs on.
func DefaultSettings() Settings { return Settings{Sound: true, Haptics: true} }

// Output plays one feedback effect.
type Output interface {
	Play() error
}

// Sink implements minigame.Feedback. Output errors are logged and
// swallowed; a nil output is skipped.
type Sink struct {
	mu       sync.RWMutex
	settings Settings

	sound   Output
	haptics Output
}

// NewSink returns a sink playing through sound and haptics.
func NewSink(settings Settings, sound, haptics Output) *Sink {
	return &Sink{settings: settings, sound: sound, haptics: haptics}
}

// Settings returns the current toggles.
func (s *Sink) Settings() Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

// SetSound toggles the tap sound.
func (s *Sink) SetSound(on bool) {
	s.mu.Lock()
	s.settings.Sound = on
	s.mu.Unlock()
}

// SetHaptics toggles the tap haptic.
func (s *Sink) SetHaptics(on bool) {
	s.mu.Lock()
	s.settings.Haptics = on
	s.mu.Unlock()
}

// PlayTapFeedback plays every enabled output.
func (s *Sink) PlayTapFeedback() {
	st := s.Settings()
	if st.Sound {
		play("sound", s.sound)
	}
	if st.Haptics {
		play("haptics", s.haptics)
	}
}

func play(name string, out Output) {
	if out == nil {
		return
	}
	if err := out.Play(); err != nil {
		slog.Debug("feedback output failed", "output", name, "error", err)
	}
}

// Counter is a headless output: it logs each play at debug level and
// counts them.
type Counter struct {
	name  string
	plays atomic.Int64
}

// NewCounter returns a headless output called name.
func NewCounter(name string) *Counter {
	return &Counter{name: name}
}

// Play records one play.
func (c *Counter) Play() error {
	n := c.plays.Add(1)
	slog.Debug("feedback played", "output", c.name, "total", n)
	return nil
}

// Plays returns how many times Play was called.
func (c *Counter) Plays() int64 { return c.plays.Load() }
