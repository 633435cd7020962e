package minigame

// Snapshot is a render-ready copy of a session. Fields that belong to other
// kinds stay zero.
type Snapshot struct {
	SessionID string   `json:"session_id"`
	Kind      Kind     `json:"kind"`
	Phase     Phase    `json:"phase"`
	Elapsed   float64  `json:"elapsed"`
	Remaining float64  `json:"remaining,omitempty"`
	Targets   []Target `json:"targets,omitempty"`
	Score     Score    `json:"score"`

	// Rhythm
	Marker      float64   `json:"marker,omitempty"`
	LastHit     HitResult `json:"last_hit,omitempty"`
	TotalRounds int       `json:"total_rounds,omitempty"`

	// Antistress
	Escaped int `json:"escaped,omitempty"`

	// MatchTiming
	Signal    *Signal                   `json:"signal,omitempty"`
	Buttons   *[signalCount]ButtonState `json:"buttons,omitempty"`
	TotalCues int                       `json:"total_cues,omitempty"`

	Result *Result `json:"result,omitempty"`
}

// Snapshot returns the current state for rendering.
func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		SessionID: s.id,
		Kind:      s.kind,
		Phase:     s.phase,
		Elapsed:   s.elapsed,
		Remaining: s.remaining,
		Targets:   s.Targets(),
		Score:     s.score,
	}
	if s.result != nil {
		res := *s.result
		snap.Result = &res
	}
	s.rules.snapshot(&snap)
	return snap
}
