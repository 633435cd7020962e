package minigame

// Signal is a coaching cue shown during MatchTiming.
type Signal uint8

const (
	SignalSpeak Signal = iota
	SignalSilence
	SignalGesture
)

const signalCount = 3

// Signals lists every cue.
var Signals = [signalCount]Signal{SignalSpeak, SignalSilence, SignalGesture}

var signalNames = [signalCount]string{"speak", "silence", "gesture"}

func (sig Signal) String() string {
	if int(sig) < signalCount {
		return signalNames[sig]
	}
	return "unknown"
}

// MarshalText encodes the signal by name.
func (sig Signal) MarshalText() ([]byte, error) { return []byte(sig.String()), nil }

// ButtonState is what a signal button shows after a press.
type ButtonState uint8

const (
	ButtonIdle ButtonState = iota
	// ButtonNeutral: pressed while no cue was showing.
	ButtonNeutral
	ButtonCorrect
	ButtonWrong
)

var buttonNames = [...]string{"idle", "neutral", "correct", "wrong"}

func (b ButtonState) String() string { return buttonNames[b] }

// MarshalText encodes the state by name.
func (b ButtonState) MarshalText() ([]byte, error) { return []byte(b.String()), nil }

// MatchTiming tuning.
const (
	MatchTimingCues = 15
	CueDuration     = 2.0
	CueMinDelay     = 1.0
	CueMaxDelay     = 3.0
	// MatchTimingLargeTierCorrect is the number of correct answers that earns
	// the large reward.
	MatchTimingLargeTierCorrect = 5

	neutralPressDuration = 0.3
	buttonKeyBase        = -10
)

// matchTiming: a cue appears after a random pause; press the matching button
// before it disappears.
type matchTiming struct {
	waiting bool    // counting down to the next cue
	wait    float64 // seconds until the next cue
	showing bool
	cueLeft float64
	current Signal
	buttons [signalCount]ButtonState
}

func (g *matchTiming) start(s *Session) {
	g.buttons = [signalCount]ButtonState{}
	g.scheduleNext(s)
}

// scheduleNext queues the next cue or finishes once every cue was shown.
func (g *matchTiming) scheduleNext(s *Session) {
	g.showing = false
	if s.score.Cues >= MatchTimingCues {
		g.waiting = false
		s.finish()
		return
	}
	g.waiting = true
	g.wait = s.between(CueMinDelay, CueMaxDelay)
}

func (g *matchTiming) tick(s *Session, dt float64) {
	switch {
	case g.waiting:
		g.wait -= dt
		if g.wait <= timeEpsilon {
			g.show(s)
		}
	case g.showing:
		g.cueLeft -= dt
		if g.cueLeft <= timeEpsilon {
			s.score.Missed++
			g.scheduleNext(s)
		}
	}
}

func (g *matchTiming) show(s *Session) {
	for _, sig := range Signals {
		s.cancel(buttonKey(sig))
	}
	g.buttons = [signalCount]ButtonState{}
	g.current = Signals[s.rng.IntN(signalCount)]
	g.waiting = false
	g.showing = true
	g.cueLeft = CueDuration
	s.score.Cues++
}

func (g *matchTiming) input(s *Session, in Input) {
	if in.Kind != InputSignal || int(in.Signal) >= signalCount {
		return
	}
	sig := in.Signal

	if !g.showing {
		g.buttons[sig] = ButtonNeutral
		s.after(buttonKey(sig), neutralPressDuration, func() { g.buttons[sig] = ButtonIdle })
		return
	}

	if sig == g.current {
		g.buttons[sig] = ButtonCorrect
		s.score.Correct++
	} else {
		g.buttons[sig] = ButtonWrong
		s.score.Incorrect++
	}
	s.feedback.PlayTapFeedback()
	g.scheduleNext(s)
}

func (g *matchTiming) tier(s *Session) Tier {
	if s.score.Correct >= MatchTimingLargeTierCorrect {
		return TierLarge
	}
	return TierSmall
}

func (g *matchTiming) snapshot(snap *Snapshot) {
	if g.showing {
		sig := g.current
		snap.Signal = &sig
	}
	buttons := g.buttons
	snap.Buttons = &buttons
	snap.TotalCues = MatchTimingCues
}

func buttonKey(sig Signal) int32 { return buttonKeyBase - int32(sig) }
