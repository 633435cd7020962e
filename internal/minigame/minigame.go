// Package minigame implements the four timed training activities.
//
// Every activity runs as a Session driven by a fixed-step clock: the host
// calls Tick with the step length and forwards player input through
// HandleInput on the same goroutine. A Session is single-use. When it
// completes it applies its stat reward to the stat.Store, bumps the
// activities counter on the Recorder and reports a Result to the Listener.
//
// The activity-specific behaviour (spawning, motion, scoring, reward tier)
// lives in a rules strategy per Kind; the Session owns everything they
// share: the target arena, the one-shot timers, the score counters and the
// finish sequence.
package minigame

import (
	"fmt"

	"github.com/udisondev/matchday/internal/stat"
)

// Kind identifies a mini-game.
type Kind uint8

const (
	KindTapTest Kind = iota
	KindRhythm
	KindAntistress
	KindMatchTiming
)

// Kinds lists every mini-game in menu order.
var Kinds = []Kind{KindTapTest, KindRhythm, KindAntistress, KindMatchTiming}

var kindNames = [...]string{"Tap Test", "Rhythm Game", "Antistress", "Match Timing"}
var kindKeys = [...]string{"tap_test", "rhythm", "antistress", "match_timing"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// Key returns the stable identifier used in config and JSON.
func (k Kind) Key() string {
	if int(k) < len(kindKeys) {
		return kindKeys[k]
	}
	return "unknown"
}

// MarshalText encodes the kind as its key.
func (k Kind) MarshalText() ([]byte, error) { return []byte(k.Key()), nil }

// ParseKind resolves a key back to a Kind.
func ParseKind(key string) (Kind, bool) {
	for _, k := range Kinds {
		if k.Key() == key {
			return k, true
		}
	}
	return 0, false
}

// InputKind is the category of a player action.
type InputKind uint8

const (
	// InputTap is a tap on a target, or anywhere for the rhythm game.
	InputTap InputKind = iota
	// InputSignal is a press of one of the MatchTiming signal buttons.
	InputSignal
)

// Input is a single discrete player action.
type Input struct {
	Kind   InputKind
	Target int32
	Signal Signal
}

// Tap returns a tap on the target with the given id.
func Tap(target int32) Input { return Input{Kind: InputTap, Target: target} }

// TapAnywhere returns a tap that is not aimed at a target.
func TapAnywhere() Input { return Input{Kind: InputTap} }

// Press returns a press of the signal button sig.
func Press(sig Signal) Input { return Input{Kind: InputSignal, Signal: sig} }

// Rand is the random source used for spawn positions, drift and cue timing.
// *rand.Rand from math/rand/v2 satisfies it.
type Rand interface {
	Float64() float64
	IntN(n int) int
}

// Recorder receives the lifetime counter for finished activities.
// Implementations must not block; persistence is best-effort.
type Recorder interface {
	IncrementActivityCompleted()
}

// Feedback plays the tap sound and haptic. Failures are the sink's problem.
type Feedback interface {
	PlayTapFeedback()
}

// Listener is told when a session completes so a results panel can be shown.
type Listener interface {
	OnSessionEnd(res Result)
}

// Tier is the reward bucket a finished session falls into.
type Tier uint8

const (
	TierSmall Tier = iota
	TierLarge
)

func (t Tier) String() string {
	if t == TierLarge {
		return "large"
	}
	return "small"
}

// MarshalText encodes the tier by name.
func (t Tier) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

// Reward magnitudes, on the 0..100 stat scale.
const (
	LargeGain = 45
	SmallGain = 10
	Penalty   = -5
)

// Reward names the stats an activity raises and the one it lowers.
type Reward struct {
	Raised  [2]stat.Stat
	Lowered stat.Stat
}

var rewards = [...]Reward{
	KindTapTest:     {Raised: [2]stat.Stat{stat.Popularity, stat.Fatigue}, Lowered: stat.TeamSpirit},
	KindRhythm:      {Raised: [2]stat.Stat{stat.Strength, stat.TeamSpirit}, Lowered: stat.Fatigue},
	KindAntistress:  {Raised: [2]stat.Stat{stat.Fatigue, stat.Strength}, Lowered: stat.Popularity},
	KindMatchTiming: {Raised: [2]stat.Stat{stat.TeamSpirit, stat.Popularity}, Lowered: stat.Strength},
}

// RewardFor returns the reward table entry of k.
func RewardFor(k Kind) Reward { return rewards[k] }

// Change is one stat adjustment applied at the end of a session.
type Change struct {
	Stat  stat.Stat `json:"stat"`
	Delta int       `json:"delta"`
	Value int       `json:"value"` // value after clamping
}

// Deltas returns the adjustments for tier t, raised stats first.
func (r Reward) Deltas(t Tier) []Change {
	gain := SmallGain
	if t == TierLarge {
		gain = LargeGain
	}
	return []Change{
		{Stat: r.Raised[0], Delta: gain},
		{Stat: r.Raised[1], Delta: gain},
		{Stat: r.Lowered, Delta: Penalty},
	}
}

// Score holds the per-activity counters. Only the fields of the running
// kind move.
type Score struct {
	Taps int `json:"taps,omitempty"` // TapTest

	Ideal  int `json:"ideal,omitempty"` // Rhythm
	Normal int `json:"normal,omitempty"`
	Miss   int `json:"miss,omitempty"`
	Rounds int `json:"rounds,omitempty"`

	Popped int `json:"popped,omitempty"` // Antistress

	Cues      int `json:"cues,omitempty"` // MatchTiming
	Correct   int `json:"correct,omitempty"`
	Incorrect int `json:"incorrect,omitempty"`
	Missed    int `json:"missed,omitempty"`
}

// Result is what a completed session reports.
type Result struct {
	SessionID string   `json:"session_id"`
	Kind      Kind     `json:"kind"`
	Tier      Tier     `json:"tier"`
	Changes   []Change `json:"changes"`
	Score     Score    `json:"score"`
}
