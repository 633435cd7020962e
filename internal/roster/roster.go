// Package roster tracks the purchased and selected players of the squad.
// The squad tier decides the match prize.
package roster

import (
	"fmt"
	"log/slog"
	"sync"
)

// Position is a slot in the six-player squad.
type Position uint8

const (
	Goalkeeper Position = iota
	DefenderLeft
	DefenderCenter
	DefenderRight
	ForwardLeft
	ForwardRight
)

const positionCount = 6

// Positions lists every slot in formation order.
var Positions = [positionCount]Position{
	Goalkeeper, DefenderLeft, DefenderCenter, DefenderRight, ForwardLeft, ForwardRight,
}

var positionNames = [positionCount]string{
	"Goalkeeper", "Defender Left", "Defender Center", "Defender Right", "Forward Left", "Forward Right",
}

var positionKeys = [positionCount]string{
	"goalkeeper", "defender_left", "defender_center", "defender_right", "forward_left", "forward_right",
}

func (p Position) String() string {
	if int(p) < positionCount {
		return positionNames[p]
	}
	return fmt.Sprintf("Position(%d)", p)
}

// Key returns the stable identifier of the slot.
func (p Position) Key() string {
	if int(p) < positionCount {
		return positionKeys[p]
	}
	return "unknown"
}

// MarshalText encodes the position as its key.
func (p Position) MarshalText() ([]byte, error) { return []byte(p.Key()), nil }

// UnmarshalText decodes a position key.
func (p *Position) UnmarshalText(b []byte) error {
	v, ok := ParsePosition(string(b))
	if !ok {
		return fmt.Errorf("unknown position %q", b)
	}
	*p = v
	return nil
}

// ParsePosition resolves a key back to a Position.
func ParsePosition(key string) (Position, bool) {
	for _, p := range Positions {
		if p.Key() == key {
			return p, true
		}
	}
	return 0, false
}

// Tier is the quality of a player.
type Tier uint8

const (
	TierAmateur Tier = iota
	TierPro
	TierLegend
)

const tierCount = 3

var tierNames = [tierCount]string{"Amateur", "Pro", "Legend"}
var tierKeys = [tierCount]string{"amateur", "pro", "legend"}

// Player prices and match prizes per tier.
var (
	tierPrices = [tierCount]int{0, 20, 40}
	tierPrizes = [tierCount]int{20, 40, 60}
)

func (t Tier) String() string {
	if int(t) < tierCount {
		return tierNames[t]
	}
	return fmt.Sprintf("Tier(%d)", t)
}

// Key returns the stable identifier of the tier.
func (t Tier) Key() string {
	if int(t) < tierCount {
		return tierKeys[t]
	}
	return "unknown"
}

// MarshalText encodes the tier as its key.
func (t Tier) MarshalText() ([]byte, error) { return []byte(t.Key()), nil }

// UnmarshalText decodes a tier key.
func (t *Tier) UnmarshalText(b []byte) error {
	v, ok := ParseTier(string(b))
	if !ok {
		return fmt.Errorf("unknown tier %q", b)
	}
	*t = v
	return nil
}

// ParseTier resolves a key back to a Tier.
func ParseTier(key string) (Tier, bool) {
	for i, k := range tierKeys {
		if k == key {
			return Tier(i), true
		}
	}
	return 0, false
}

// Price is the shop price of a player of tier t. Amateurs are free.
func (t Tier) Price() int { return tierPrices[t] }

// Prize is the match prize of a squad of tier t.
func (t Tier) Prize() int { return tierPrizes[t] }

// Player identifies one card in the shop.
type Player struct {
	Position Position `json:"position"`
	Tier     Tier     `json:"tier"`
}

// Name returns the display name, e.g. "Pro Goalkeeper".
func (p Player) Name() string { return p.Tier.String() + " " + p.Position.String() }

func (p Player) valid() bool {
	return int(p.Position) < positionCount && int(p.Tier) < tierCount
}

// Debiter pays for a player.
type Debiter interface {
	Debit(amount int) bool
}

// Recorder receives the bought-players counters.
type Recorder interface {
	IncrementPlayerBought(isLegend bool)
}

// Roster is the squad. Safe for concurrent use.
type Roster struct {
	mu        sync.RWMutex
	purchased [positionCount][tierCount]bool
	selected  [positionCount]Tier
	recorder  Recorder
}

// New returns a squad of six selected amateurs.
func New(rec Recorder) *Roster {
	return &Roster{recorder: rec}
}

// IsPurchased reports whether p can be selected. Amateurs always can.
func (r *Roster) IsPurchased(p Player) bool {
	if !p.valid() {
		return false
	}
	if p.Tier == TierAmateur {
		return true
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.purchased[p.Position][p.Tier]
}

// Selected returns the tier playing at pos.
func (r *Roster) Selected(pos Position) Tier {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.selected[pos]
}

// Buy pays for p from w. Returns false if p is free, already owned, or
// the wallet is short; nothing changes then. Buying does not select.
func (r *Roster) Buy(p Player, w Debiter) bool {
	if !p.valid() || p.Tier == TierAmateur {
		return false
	}

	r.mu.Lock()
	if r.purchased[p.Position][p.Tier] || !w.Debit(p.Tier.Price()) {
		r.mu.Unlock()
		return false
	}
	r.purchased[p.Position][p.Tier] = true
	r.mu.Unlock()

	if r.recorder != nil {
		r.recorder.IncrementPlayerBought(p.Tier == TierLegend)
	}
	slog.Info("player bought", "player", p.Name(), "price", p.Tier.Price())
	return true
}

// Select puts p in its slot. Returns false if p was not purchased.
func (r *Roster) Select(p Player) bool {
	if !r.IsPurchased(p) {
		return false
	}
	r.mu.Lock()
	r.selected[p.Position] = p.Tier
	r.mu.Unlock()
	return true
}

// TeamTier returns the tier shared by the whole starting six, or Amateur
// for a mixed squad.
func (r *Roster) TeamTier() Tier {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tier := r.selected[0]
	for _, t := range r.selected[1:] {
		if t != tier {
			return TierAmateur
		}
	}
	return tier
}

// MatchPrize returns the prize for winning with the current squad.
func (r *Roster) MatchPrize() int { return r.TeamTier().Prize() }

// State is the persisted form of the squad.
type State struct {
	Purchased []Player `json:"purchased"`
	Selected  []Player `json:"selected"`
}

// Snapshot returns the purchased cards and the starting six.
func (r *Roster) Snapshot() State {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var s State
	for _, pos := range Positions {
		for t := TierPro; t < tierCount; t++ {
			if r.purchased[pos][t] {
				s.Purchased = append(s.Purchased, Player{Position: pos, Tier: t})
			}
		}
		s.Selected = append(s.Selected, Player{Position: pos, Tier: r.selected[pos]})
	}
	return s
}

// Restore replaces the squad with s. Invalid entries and selections of
// players that were never bought are dropped.
func (r *Roster) Restore(s State) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.purchased = [positionCount][tierCount]bool{}
	r.selected = [positionCount]Tier{}
	for _, p := range s.Purchased {
		if p.valid() && p.Tier != TierAmateur {
			r.purchased[p.Position][p.Tier] = true
		}
	}
	for _, p := range s.Selected {
		if !p.valid() {
			continue
		}
		if p.Tier == TierAmateur || r.purchased[p.Position][p.Tier] {
			r.selected[p.Position] = p.Tier
		}
	}
}
