package host

import (
	"log/slog"

	"github.com/udisondev/matchday/internal/economy"
	"github.com/udisondev/matchday/internal/game"
	"github.com/udisondev/matchday/internal/match"
	"github.com/udisondev/matchday/internal/minigame"
	"github.com/udisondev/matchday/internal/roster"
	"github.com/udisondev/matchday/internal/stat"
)

// ReactionTicks is how many steps the autopilot waits between two inputs.
const ReactionTicks = 15

// Game is the part of game.Service the autopilot plays through.
type Game interface {
	Snapshot() game.Snapshot
	StartActivity(k minigame.Kind) error
	Input(in minigame.Input) error
	StartMatch() error
	AcknowledgeMatch() error
	BuyBooster(key string) (bool, error)
	BuyPlayer(p roster.Player) bool
	SelectPlayer(p roster.Player) bool
}

// Rand is the autopilot's own random source.
type Rand interface {
	Float64() float64
	IntN(n int) int
}

// Autopilot plays the game on its own. Skill is the chance that a single
// input is a good one: a tap in the ideal zone, the right signal.
type Autopilot struct {
	game  Game
	rng   Rand
	skill float64

	session  string // id of the activity being played
	cooldown int
}

// NewAutopilot creates an autopilot with skill in [0,1].
func NewAutopilot(g Game, rng Rand, skill float64) *Autopilot {
	return &Autopilot{game: g, rng: rng, skill: min(max(skill, 0), 1)}
}

// AfterTick makes at most one decision per step.
func (a *Autopilot) AfterTick() {
	snap := a.game.Snapshot()

	switch {
	case snap.Match != nil:
		if snap.Match.State == match.StateResolved {
			a.acknowledge(snap.Match)
		}
	case snap.Activity != nil:
		a.play(snap.Activity)
	case snap.CanStartMatch:
		if err := a.game.StartMatch(); err != nil {
			slog.Debug("autopilot: start match", "error", err)
		}
	default:
		a.shop(snap)
		a.startActivity(snap.Stats.Values)
	}
}

func (a *Autopilot) acknowledge(m *match.Snapshot) {
	if err := a.game.AcknowledgeMatch(); err != nil {
		slog.Debug("autopilot: acknowledge match", "error", err)
		return
	}
	if m.Result != nil {
		slog.Info("autopilot: match over", "outcome", m.Result.Outcome, "prize", m.Result.Prize)
	}
}

// startActivity picks the game that raises the weakest stat, preferring the
// one whose penalty hits the strongest stat.
func (a *Autopilot) startActivity(v stat.Values) {
	low := weakest(v)

	best, found := minigame.Kind(0), false
	for _, k := range minigame.Kinds {
		r := minigame.RewardFor(k)
		if r.Raised[0] != low && r.Raised[1] != low {
			continue
		}
		if !found || v.Get(r.Lowered) > v.Get(minigame.RewardFor(best).Lowered) {
			best, found = k, true
		}
	}
	if !found {
		return
	}
	if err := a.game.StartActivity(best); err != nil {
		slog.Debug("autopilot: start activity", "kind", best, "error", err)
	}
}

func (a *Autopilot) play(s *minigame.Snapshot) {
	if s.SessionID != a.session {
		a.session = s.SessionID
		a.cooldown = 0
	}
	if a.cooldown > 0 {
		a.cooldown--
		return
	}

	var in minigame.Input
	switch s.Kind {
	case minigame.KindTapTest, minigame.KindAntistress:
		t, ok := firstTappable(s.Targets)
		if !ok {
			return
		}
		a.cooldown = ReactionTicks
		if !a.lucky() {
			return
		}
		in = minigame.Tap(t.ID)
	case minigame.KindRhythm:
		if minigame.ClassifyHit(s.Marker) != minigame.HitIdeal {
			return
		}
		a.cooldown = ReactionTicks
		if !a.lucky() {
			return
		}
		in = minigame.TapAnywhere()
	case minigame.KindMatchTiming:
		if s.Signal == nil {
			return
		}
		a.cooldown = ReactionTicks
		sig := *s.Signal
		if !a.lucky() {
			sig = minigame.Signals[(int(sig)+1+a.rng.IntN(2))%len(minigame.Signals)]
		}
		in = minigame.Press(sig)
	default:
		return
	}

	if err := a.game.Input(in); err != nil {
		slog.Debug("autopilot: input", "error", err)
	}
}

func (a *Autopilot) lucky() bool { return a.rng.Float64() < a.skill }

// shop tops up a failing stat once the match is ready, otherwise upgrades
// the squad one position at a time.
func (a *Autopilot) shop(snap game.Snapshot) {
	if snap.Stats.MatchReady {
		low := weakest(snap.Stats.Values)
		if snap.Stats.Values.Get(low) >= match.PassThreshold {
			return
		}
		for _, b := range economy.Boosters {
			if b.Price > snap.Balance || !raises(b, low) {
				continue
			}
			if _, err := a.game.BuyBooster(b.Key); err != nil {
				slog.Debug("autopilot: buy booster", "booster", b.Key, "error", err)
			}
			return
		}
		return
	}

	for _, cur := range snap.Roster.Selected {
		if cur.Tier == roster.TierLegend {
			continue
		}
		next := roster.Player{Position: cur.Position, Tier: cur.Tier + 1}
		if next.Tier.Price() > snap.Balance {
			return
		}
		// An owned but benched player is selected without paying again.
		a.game.BuyPlayer(next)
		a.game.SelectPlayer(next)
		return
	}
}

func weakest(v stat.Values) stat.Stat {
	low := stat.All[0]
	for _, s := range stat.All[1:] {
		if v.Get(s) < v.Get(low) {
			low = s
		}
	}
	return low
}

func raises(b economy.Booster, s stat.Stat) bool {
	for _, e := range b.Effects {
		if e.Stat == s {
			return true
		}
	}
	return false
}

func firstTappable(targets []minigame.Target) (minigame.Target, bool) {
	for _, t := range targets {
		if !t.Popping {
			return t, true
		}
	}
	return minigame.Target{}, false
}
