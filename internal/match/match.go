// Package match simulates the end-of-cycle match.
// Lifecycle: not started → running (commentary beats) → resolved.
package match

import (
	"log/slog"

	"github.com/google/uuid"

	"github.com/udisondev/matchday/internal/stat"
)

// State is the lifecycle position of a match.
type State uint8

const (
	StateNotStarted State = iota
	StateRunning
	StateResolved
)

var stateNames = [...]string{"not_started", "running", "resolved"}

func (s State) String() string { return stateNames[s] }

// MarshalText encodes the state by name.
func (s State) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// Outcome of a resolved match.
type Outcome uint8

const (
	OutcomeWin Outcome = iota
	OutcomeLose
)

func (o Outcome) String() string {
	if o == OutcomeLose {
		return "lose"
	}
	return "win"
}

// MarshalText encodes the outcome by name.
func (o Outcome) MarshalText() ([]byte, error) { return []byte(o.String()), nil }

// Match timing and thresholds.
const (
	Duration     = 10.0 // seconds
	BeatInterval = 2.0
	FadeDuration = 0.3
	BeatVisible  = BeatInterval - FadeDuration

	// PassThreshold is the minimum every stat needs to win.
	PassThreshold = 40

	beatPadX      = 60.0
	beatMinHeight = 0.3
	beatMaxHeight = 0.7
)

// Commentary is the fixed list of beats in play order.
var Commentary = [...]string{
	"Kick-off!",
	"Player takes the ball...",
	"Dribbling towards goal...",
	"A powerful shot!",
	"What a save!",
	"Goal!",
	"It's a foul!",
	"Corner kick...",
	"Half time...",
	"Full time!",
}

// Economy is credited with the prize of a won match.
type Economy interface {
	Credit(amount int)
}

// PrizeProvider decides the prize from the squad composition.
type PrizeProvider interface {
	MatchPrize() int
}

// Recorder receives the played/won/lost counters.
type Recorder interface {
	IncrementMatchStats(won bool)
}

// Rand places the commentary beats. *rand.Rand satisfies it.
type Rand interface {
	Float64() float64
}

// Field is the pitch area commentary is drawn on.
type Field struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// DefaultField matches a phone screen minus the header.
func DefaultField() Field { return Field{Width: 390, Height: 694} }

// Options carries the collaborators of a match.
type Options struct {
	Rand     Rand
	Economy  Economy
	Prizes   PrizeProvider
	Recorder Recorder
	Field    Field
}

// Beat is one commentary line on the pitch.
type Beat struct {
	Seq     int     `json:"seq"`
	Text    string  `json:"text"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Opacity float64 `json:"opacity"`

	age float64
}

// Result is what the results screen shows.
type Result struct {
	ID      string      `json:"id"`
	Outcome Outcome     `json:"outcome"`
	Prize   int         `json:"prize"`
	Reason  *stat.Stat  `json:"reason,omitempty"`
	Values  stat.Values `json:"values"`
}

// Won reports whether the match was won.
func (r Result) Won() bool { return r.Outcome == OutcomeWin }

// Simulator plays one match attempt. Not safe for concurrent use.
type Simulator struct {
	store *stat.Store
	opts  Options

	state   State
	elapsed float64
	emitted int
	beats   []Beat
	result  *Result
}

// New creates a match that reads and updates store.
func New(store *stat.Store, opts Options) *Simulator {
	if opts.Field == (Field{}) {
		opts.Field = DefaultField()
	}
	return &Simulator{store: store, opts: opts}
}

// State returns the lifecycle state.
func (m *Simulator) State() State { return m.state }

// Start begins the commentary. Only a match that has not started can start.
func (m *Simulator) Start() {
	if m.state != StateNotStarted {
		return
	}
	m.state = StateRunning
	m.emit()
	slog.Debug("match started")
}

// Tick advances the match by dt seconds and resolves it once Duration has
// elapsed.
func (m *Simulator) Tick(dt float64) {
	if m.state != StateRunning || dt <= 0 {
		return
	}
	m.elapsed += dt
	if m.elapsed >= Duration {
		m.End()
		return
	}

	kept := m.beats[:0]
	for _, b := range m.beats {
		b.age += dt
		if b.age >= BeatInterval {
			continue
		}
		if b.age > BeatVisible {
			b.Opacity = max(0, 1-(b.age-BeatVisible)/FadeDuration)
		}
		kept = append(kept, b)
	}
	m.beats = kept

	for m.emitted < len(Commentary) && m.elapsed >= float64(m.emitted)*BeatInterval {
		m.emit()
	}
}

func (m *Simulator) emit() {
	f := m.opts.Field
	m.beats = append(m.beats, Beat{
		Seq:     m.emitted,
		Text:    Commentary[m.emitted],
		X:       m.between(beatPadX, f.Width-beatPadX),
		Y:       m.between(f.Height*beatMinHeight, f.Height*beatMaxHeight),
		Opacity: 1,
	})
	m.emitted++
}

func (m *Simulator) between(lo, hi float64) float64 {
	if m.opts.Rand == nil {
		return lo
	}
	return lo + m.opts.Rand.Float64()*(hi-lo)
}

// End resolves a running match. A resolved match is terminal: calling End
// again returns the same result and pays nothing. A match that has not
// started cannot end and reports false.
func (m *Simulator) End() (Result, bool) {
	if m.result != nil {
		return *m.result, true
	}
	if m.state != StateRunning {
		return Result{}, false
	}
	m.state = StateResolved
	m.beats = nil

	values := m.store.Values()
	res := Result{
		ID:      uuid.NewString(),
		Outcome: OutcomeWin,
		Values:  values,
	}

	if lost(values) {
		res.Outcome = OutcomeLose
		reason := stat.FailureReason(values)
		res.Reason = &reason
		m.store.SetGameOverReason(reason)
	} else {
		m.store.ClearGameOverReason()
		if m.opts.Prizes != nil {
			res.Prize = m.opts.Prizes.MatchPrize()
		}
		if m.opts.Economy != nil && res.Prize > 0 {
			m.opts.Economy.Credit(res.Prize)
		}
	}
	if m.opts.Recorder != nil {
		m.opts.Recorder.IncrementMatchStats(res.Won())
	}

	m.result = &res
	slog.Info("match resolved",
		"outcome", res.Outcome,
		"prize", res.Prize,
		"elapsed", m.elapsed)
	return res, true
}

// Result returns the outcome once the match is resolved.
func (m *Simulator) Result() (Result, bool) {
	if m.result == nil {
		return Result{}, false
	}
	return *m.result, true
}

func lost(v stat.Values) bool {
	for _, s := range stat.All {
		if v.Get(s) < PassThreshold {
			return true
		}
	}
	return false
}

// Snapshot is a render-ready copy of the match.
type Snapshot struct {
	State     State   `json:"state"`
	Elapsed   float64 `json:"elapsed"`
	Remaining float64 `json:"remaining"`
	Beats     []Beat  `json:"beats,omitempty"`
	Result    *Result `json:"result,omitempty"`
}

// Snapshot returns the current state for rendering.
func (m *Simulator) Snapshot() Snapshot {
	snap := Snapshot{
		State:     m.state,
		Elapsed:   m.elapsed,
		Remaining: max(0, Duration-m.elapsed),
	}
	if len(m.beats) > 0 {
		snap.Beats = make([]Beat, len(m.beats))
		copy(snap.Beats, m.beats)
	}
	if m.result != nil {
		res := *m.result
		snap.Result = &res
	}
	return snap
}
