package minigame

// HitResult grades a rhythm tap.
type HitResult uint8

const (
	HitNone HitResult = iota
	HitIdeal
	HitNormal
	HitMiss
)

var hitNames = [...]string{"", "ideal", "normal", "miss"}

func (h HitResult) String() string { return hitNames[h] }

// MarshalText encodes the result by name.
func (h HitResult) MarshalText() ([]byte, error) { return []byte(h.String()), nil }

// Zone is a closed interval on the marker track.
type Zone struct {
	Lo, Hi float64
}

// Contains reports whether pos lies in [Lo, Hi].
func (z Zone) Contains(pos float64) bool {
	return pos >= z.Lo && pos <= z.Hi
}

// Rhythm tuning.
var (
	IdealZone  = Zone{Lo: 0.45, Hi: 0.55}
	NormalZone = Zone{Lo: 0.30, Hi: 0.70}
)

const (
	RhythmRounds = 20
	// MarkerRate is the marker speed in track lengths per second
	// (0.016 per 30ms step).
	MarkerRate = 0.016 / 0.03

	// Large reward needs this many ideal hits, or RhythmNormalHits normal ones.
	RhythmIdealHits  = 1
	RhythmNormalHits = 3

	hitLabelDuration = 0.5
	hitLabelKey      = -1
)

// ClassifyHit grades a tap at marker position pos.
func ClassifyHit(pos float64) HitResult {
	switch {
	case IdealZone.Contains(pos):
		return HitIdeal
	case NormalZone.Contains(pos):
		return HitNormal
	default:
		return HitMiss
	}
}

// rhythm: a marker sweeps back and forth; tap while it crosses the centre.
type rhythm struct {
	marker  float64
	dir     float64
	lastHit HitResult
}

func (g *rhythm) start(*Session) {
	g.marker = 0
	g.dir = 1
	g.lastHit = HitNone
}

func (g *rhythm) tick(_ *Session, dt float64) {
	g.marker += MarkerRate * dt * g.dir
	if g.marker >= 1 {
		g.marker = 1
		g.dir = -1
	} else if g.marker <= 0 {
		g.marker = 0
		g.dir = 1
	}
}

func (g *rhythm) input(s *Session, in Input) {
	if in.Kind != InputTap {
		return
	}

	g.lastHit = ClassifyHit(g.marker)
	switch g.lastHit {
	case HitIdeal:
		s.score.Ideal++
	case HitNormal:
		s.score.Normal++
	default:
		s.score.Miss++
	}
	s.after(hitLabelKey, hitLabelDuration, func() { g.lastHit = HitNone })

	s.score.Rounds++
	s.feedback.PlayTapFeedback()

	if s.score.Rounds >= RhythmRounds {
		s.finish()
	}
}

func (g *rhythm) tier(s *Session) Tier {
	if s.score.Ideal >= RhythmIdealHits || s.score.Normal >= RhythmNormalHits {
		return TierLarge
	}
	return TierSmall
}

func (g *rhythm) snapshot(snap *Snapshot) {
	snap.Marker = g.marker
	snap.LastHit = g.lastHit
	snap.TotalRounds = RhythmRounds
}
