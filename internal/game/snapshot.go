package game

import (
	"github.com/udisondev/matchday/internal/feedback"
	"github.com/udisondev/matchday/internal/match"
	"github.com/udisondev/matchday/internal/minigame"
	"github.com/udisondev/matchday/internal/roster"
	"github.com/udisondev/matchday/internal/stat"
)

// Snapshot is a read-only view of the whole game for renderers.
type Snapshot struct {
	Stats         stat.State        `json:"stats"`
	Balance       int               `json:"balance"`
	TeamTier      roster.Tier       `json:"team_tier"`
	MatchPrize    int               `json:"match_prize"`
	CanStartMatch bool              `json:"can_start_match"`
	Roster        roster.State      `json:"roster"`
	Feedback      feedback.Settings `json:"feedback"`

	Activity   *minigame.Snapshot `json:"activity,omitempty"`
	LastResult *minigame.Result   `json:"last_result,omitempty"`
	Match      *match.Snapshot    `json:"match,omitempty"`
}

// Snapshot copies the current state.
func (s *Service) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		Stats:         s.store.Snapshot(),
		Balance:       s.wallet.Balance(),
		TeamTier:      s.roster.TeamTier(),
		MatchPrize:    s.roster.MatchPrize(),
		CanStartMatch: !s.busy() && s.store.CanStartMatch(),
		Roster:        s.roster.Snapshot(),
		Feedback:      s.feedback.Settings(),
	}
	if s.session != nil {
		a := s.session.Snapshot()
		snap.Activity = &a
	}
	if s.lastResult != nil {
		res := *s.lastResult
		snap.LastResult = &res
	}
	if s.match != nil {
		m := s.match.Snapshot()
		snap.Match = &m
	}
	return snap
}
