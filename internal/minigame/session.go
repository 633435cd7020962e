package minigame

import (
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/udisondev/matchday/internal/stat"
)

// ErrUnknownKind is returned by New for a Kind outside Kinds.
var ErrUnknownKind = errors.New("minigame: unknown kind")

// MaxTargets caps the number of live targets in any bubble game.
const MaxTargets = 4

// timeEpsilon absorbs the drift of summing fixed float steps, so a time
// limit or timer ends on the frame it is due.
const timeEpsilon = 1e-9

// Phase is the lifecycle position of a session.
type Phase uint8

const (
	PhaseIdle Phase = iota
	PhaseRunning
	PhaseFinished
	PhaseAborted
)

var phaseNames = [...]string{"idle", "running", "finished", "aborted"}

func (p Phase) String() string { return phaseNames[p] }

// MarshalText encodes the phase by name.
func (p Phase) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

// Target is a tap target (a bubble) in the play area.
type Target struct {
	ID        int32   `json:"id"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Size      float64 `json:"size,omitempty"`
	Scale     float64 `json:"scale"`
	OffsetY   float64 `json:"offset_y,omitempty"`
	VX        float64 `json:"vx,omitempty"`
	Appearing bool    `json:"appearing,omitempty"`
	Popping   bool    `json:"popping,omitempty"`
}

// Options carries the collaborators of a session. Nil fields get no-op
// implementations; Rand is required.
type Options struct {
	Rand     Rand
	Recorder Recorder
	Feedback Feedback
	Listener Listener
	Layout   Layout
}

// rules is the activity-specific strategy plugged into a Session.
type rules interface {
	start(s *Session)
	tick(s *Session, dt float64)
	input(s *Session, in Input)
	tier(s *Session) Tier
	snapshot(snap *Snapshot)
}

// timer is a one-shot callback advanced by Tick. Keyed so a target can
// replace or cancel its own pending action.
type timer struct {
	key  int32
	left float64
	fn   func()
}

// Session is one play-through of a mini-game. Not safe for concurrent use;
// the owner serialises Tick and HandleInput.
type Session struct {
	id    string
	kind  Kind
	rules rules
	store *stat.Store

	rng      Rand
	recorder Recorder
	feedback Feedback
	listener Listener

	phase     Phase
	elapsed   float64
	remaining float64

	targets    []Target
	nextTarget int32
	timers     []timer

	score  Score
	result *Result
}

// New creates an idle session of kind k that will reward into store.
func New(k Kind, store *stat.Store, opts Options) (*Session, error) {
	layout := opts.Layout
	if layout == (Layout{}) {
		layout = DefaultLayout()
	}

	s := &Session{
		id:       uuid.NewString(),
		kind:     k,
		store:    store,
		rng:      opts.Rand,
		recorder: opts.Recorder,
		feedback: opts.Feedback,
		listener: opts.Listener,
	}
	if s.recorder == nil {
		s.recorder = nopRecorder{}
	}
	if s.feedback == nil {
		s.feedback = nopFeedback{}
	}

	switch k {
	case KindTapTest:
		s.rules = &tapTest{area: layout.TapArea}
	case KindRhythm:
		s.rules = &rhythm{}
	case KindAntistress:
		s.rules = &antistress{area: layout.BubbleArea}
	case KindMatchTiming:
		s.rules = &matchTiming{}
	default:
		return nil, ErrUnknownKind
	}
	return s, nil
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Kind returns the mini-game kind.
func (s *Session) Kind() Kind { return s.kind }

// Phase returns the lifecycle phase.
func (s *Session) Phase() Phase { return s.phase }

// IsComplete reports whether the session finished with a reward.
func (s *Session) IsComplete() bool { return s.phase == PhaseFinished }

// IsActive reports whether the session is running.
func (s *Session) IsActive() bool { return s.phase == PhaseRunning }

// Result returns the final result once the session has finished.
func (s *Session) Result() (Result, bool) {
	if s.result == nil {
		return Result{}, false
	}
	return *s.result, true
}

// Score returns the current counters.
func (s *Session) Score() Score { return s.score }

// Start initialises the session state. Starting a session that is not idle
// does nothing.
func (s *Session) Start() {
	if s.phase != PhaseIdle {
		slog.Debug("minigame start ignored", "kind", s.kind, "phase", s.phase)
		return
	}
	s.phase = PhaseRunning
	s.rules.start(s)
	slog.Debug("minigame started", "kind", s.kind, "session", s.id)
}

// Tick advances the simulation by dt seconds.
func (s *Session) Tick(dt float64) {
	if s.phase != PhaseRunning || dt <= 0 {
		return
	}
	s.elapsed += dt
	s.advanceTimers(dt)
	if s.phase != PhaseRunning {
		return
	}
	s.rules.tick(s, dt)
}

// countdown takes dt off the time limit and reports whether it ran out.
func (s *Session) countdown(dt float64) bool {
	s.remaining -= dt
	if s.remaining > timeEpsilon {
		return false
	}
	s.remaining = 0
	return true
}

// HandleInput processes a player action. Input outside a running session
// is ignored.
func (s *Session) HandleInput(in Input) {
	if s.phase != PhaseRunning {
		return
	}
	s.rules.input(s, in)
}

// Abort tears the session down without a reward.
func (s *Session) Abort() {
	if s.phase != PhaseRunning && s.phase != PhaseIdle {
		return
	}
	s.phase = PhaseAborted
	s.teardown()
	slog.Debug("minigame aborted", "kind", s.kind, "session", s.id)
}

// finish computes and applies the reward. Runs at most once.
func (s *Session) finish() {
	if s.phase != PhaseRunning {
		return
	}
	s.phase = PhaseFinished
	s.teardown()

	tier := s.rules.tier(s)
	changes := RewardFor(s.kind).Deltas(tier)
	for i := range changes {
		changes[i].Value = s.store.Apply(changes[i].Stat, changes[i].Delta)
	}
	s.recorder.IncrementActivityCompleted()

	res := Result{
		SessionID: s.id,
		Kind:      s.kind,
		Tier:      tier,
		Changes:   changes,
		Score:     s.score,
	}
	s.result = &res

	slog.Info("minigame finished",
		"kind", s.kind,
		"tier", tier,
		"elapsed", s.elapsed)

	if s.listener != nil {
		s.listener.OnSessionEnd(res)
	}
}

// teardown drops every target and pending timer.
func (s *Session) teardown() {
	s.targets = nil
	s.timers = nil
}

// after schedules fn to run once, delay seconds from now. A pending timer
// with the same key is replaced.
func (s *Session) after(key int32, delay float64, fn func()) {
	s.cancel(key)
	s.timers = append(s.timers, timer{key: key, left: delay, fn: fn})
}

// cancel drops the pending timer with key, if any.
func (s *Session) cancel(key int32) {
	for i := range s.timers {
		if s.timers[i].key == key {
			s.timers = append(s.timers[:i], s.timers[i+1:]...)
			return
		}
	}
}

func (s *Session) advanceTimers(dt float64) {
	if len(s.timers) == 0 {
		return
	}
	var due []timer
	pending := s.timers[:0]
	for _, t := range s.timers {
		t.left -= dt
		if t.left <= timeEpsilon {
			due = append(due, t)
			continue
		}
		pending = append(pending, t)
	}
	s.timers = pending

	for _, t := range due {
		// A callback may end the session; the rest become no-ops.
		if s.phase != PhaseRunning {
			return
		}
		t.fn()
	}
}

// spawn adds t to the arena with a fresh id. Refuses above MaxTargets.
func (s *Session) spawn(t Target) (int32, bool) {
	if len(s.targets) >= MaxTargets {
		return 0, false
	}
	s.nextTarget++
	t.ID = s.nextTarget
	s.targets = append(s.targets, t)
	return t.ID, true
}

// target returns the live target with id, or nil.
func (s *Session) target(id int32) *Target {
	for i := range s.targets {
		if s.targets[i].ID == id {
			return &s.targets[i]
		}
	}
	return nil
}

// remove deletes the target with id. Reports whether it existed.
func (s *Session) remove(id int32) bool {
	for i := range s.targets {
		if s.targets[i].ID == id {
			s.targets = append(s.targets[:i], s.targets[i+1:]...)
			return true
		}
	}
	return false
}

// Targets returns a copy of the live targets.
func (s *Session) Targets() []Target {
	out := make([]Target, len(s.targets))
	copy(out, s.targets)
	return out
}

func (s *Session) between(lo, hi float64) float64 {
	return lo + s.rng.Float64()*(hi-lo)
}

type nopRecorder struct{}

func (nopRecorder) IncrementActivityCompleted() {}

type nopFeedback struct{}

func (nopFeedback) PlayTapFeedback() {}
