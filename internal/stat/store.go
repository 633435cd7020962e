package stat

import "sync"

// MatchCountdown is the number of seconds between a reset and match readiness.
const MatchCountdown = 300.0

// State is a copy of everything the Store holds. Used for persistence and
// for read-only observers.
type State struct {
	Values     Values  `json:"values"`
	Countdown  float64 `json:"countdown"` // seconds left until the match is ready
	MatchReady bool    `json:"match_ready"`

	// Reason is meaningful only when HasReason is true.
	Reason    Stat `json:"reason"`
	HasReason bool `json:"has_reason"`
}

// Store is the single owner of the team stats for a play session.
//
// Only the active session writes. Observers may read between ticks; the
// lock makes those reads safe when the host runs them from another goroutine.
type Store struct {
	mu sync.RWMutex

	values    Values
	countdown float64
	ready     bool
	reason    Stat
	hasReason bool
}

// NewStore returns a store in its initial state.
func NewStore() *Store {
	return &Store{countdown: MatchCountdown}
}

// Get returns the value of s in [0,100].
func (st *Store) Get(s Stat) int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.values[s]
}

// Fraction returns the value of s scaled to [0,1] for display.
func (st *Store) Fraction(s Stat) float64 {
	return float64(st.Get(s)) / MaxValue
}

// Values returns all four values.
func (st *Store) Values() Values {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.values
}

// Apply adds delta to s and clamps the result into [0,100].
// Returns the new value.
func (st *Store) Apply(s Stat, delta int) int {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.values[s] = Clamp(st.values[s] + delta)
	return st.values[s]
}

// TickCountdown advances the match countdown by dt seconds. Once the
// countdown hits zero the store is match-ready and further ticks do nothing.
func (st *Store) TickCountdown(dt float64) {
	st.mu.Lock()
	defer st.mu.Unlock()

	if st.ready {
		return
	}
	st.countdown -= dt
	if st.countdown <= 0 {
		st.countdown = 0
		st.ready = true
	}
}

// ForceReady marks the match as available regardless of the countdown.
func (st *Store) ForceReady() {
	st.mu.Lock()
	st.countdown = 0
	st.ready = true
	st.mu.Unlock()
}

// Countdown returns the seconds left before the match is ready.
func (st *Store) Countdown() float64 {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.countdown
}

// IsMatchReady reports whether the countdown has finished.
func (st *Store) IsMatchReady() bool {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.ready
}

// CanStartMatch reports whether the match is ready and no stat is below
// MatchEntryMin.
func (st *Store) CanStartMatch() bool {
	st.mu.RLock()
	defer st.mu.RUnlock()

	if !st.ready {
		return false
	}
	for _, v := range st.values {
		if v < MatchEntryMin {
			return false
		}
	}
	return true
}

// GameOverReason returns the stat that caused the last match loss.
func (st *Store) GameOverReason() (Stat, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.reason, st.hasReason
}

// SetGameOverReason records the stat that lost the match.
func (st *Store) SetGameOverReason(s Stat) {
	st.mu.Lock()
	st.reason, st.hasReason = s, true
	st.mu.Unlock()
}

// ClearGameOverReason forgets the last failure reason (after a won match).
func (st *Store) ClearGameOverReason() {
	st.mu.Lock()
	st.reason, st.hasReason = 0, false
	st.mu.Unlock()
}

// Reset restores the initial state: all stats 0, full countdown, not ready,
// no failure reason.
func (st *Store) Reset() {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.values = Values{}
	st.countdown = MatchCountdown
	st.ready = false
	st.reason, st.hasReason = 0, false
}

// Snapshot returns a copy of the full state.
func (st *Store) Snapshot() State {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return State{
		Values:     st.values,
		Countdown:  st.countdown,
		MatchReady: st.ready,
		Reason:     st.reason,
		HasReason:  st.hasReason,
	}
}

// Restore replaces the state with s, clamping anything out of range.
func (st *Store) Restore(s State) {
	st.mu.Lock()
	defer st.mu.Unlock()
	for i, v := range s.Values {
		st.values[i] = Clamp(v)
	}
	st.countdown = max(s.Countdown, 0)
	st.ready = s.MatchReady || st.countdown == 0
	st.reason, st.hasReason = s.Reason, s.HasReason && int(s.Reason) < Count
}
