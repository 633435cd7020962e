// Package stat holds the four team wellbeing stats and the countdown that
// gates the next match.
//
// Values live on the 0..100 scale. Fraction converts to 0..1 for display
// and is the only place that scale is used.
package stat

import (
	"fmt"
	"strings"
)

// Stat identifies one of the four wellbeing stats.
type Stat uint8

const (
	TeamSpirit Stat = iota
	Fatigue
	Popularity
	Strength
)

// Count is the number of stats.
const Count = 4

// All lists the stats in evaluation order (used for game-over tie breaks).
var All = [Count]Stat{TeamSpirit, Fatigue, Popularity, Strength}

// Bounds and match gating constants.
const (
	MinValue = 0
	MaxValue = 100

	// MatchEntryMin is the value every stat needs before a match may start.
	MatchEntryMin = 10
)

var names = [Count]string{"Team Spirit", "Fatigue", "Popularity", "Strength"}

// String returns the display name of the stat.
func (s Stat) String() string {
	if int(s) < Count {
		return names[s]
	}
	return "Unknown"
}

// Key returns a stable snake_case identifier used in storage.
func (s Stat) Key() string {
	return strings.ReplaceAll(strings.ToLower(s.String()), " ", "_")
}

// MarshalText encodes the stat as its key.
func (s Stat) MarshalText() ([]byte, error) { return []byte(s.Key()), nil }

// UnmarshalText accepts anything Parse does.
func (s *Stat) UnmarshalText(b []byte) error {
	v, ok := Parse(string(b))
	if !ok {
		return fmt.Errorf("unknown stat %q", b)
	}
	*s = v
	return nil
}

// Parse resolves a storage key or display name back to a Stat.
func Parse(v string) (Stat, bool) {
	for _, s := range All {
		if v == s.Key() || v == s.String() {
			return s, true
		}
	}
	return 0, false
}

// Values holds one value per stat, indexed by Stat.
type Values [Count]int

// Get returns the value of s.
func (v Values) Get(s Stat) int { return v[s] }

// Clamp limits value to [MinValue, MaxValue].
func Clamp(value int) int {
	if value < MinValue {
		return MinValue
	}
	if value > MaxValue {
		return MaxValue
	}
	return value
}
