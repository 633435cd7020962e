package db

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/udisondev/matchday/internal/feedback"
	"github.com/udisondev/matchday/internal/roster"
	"github.com/udisondev/matchday/internal/stat"
)

// Counter names stored in the counters table.
const (
	CounterMatchesPlayed       = "matches_played"
	CounterMatchesWon          = "matches_won"
	CounterMatchesLost         = "matches_lost"
	CounterActivitiesCompleted = "activities_completed"
	CounterProBought           = "pro_players_bought"
	CounterLegendBought        = "legend_players_bought"

	maxStatPrefix = "max_"
)

// MaxStatCounter returns the counter holding the highest value s reached.
func MaxStatCounter(s stat.Stat) string { return maxStatPrefix + s.Key() }

// Repository persists the team and the lifetime statistics.
type Repository interface {
	// Increment adds by to the named counter, creating it at zero.
	Increment(ctx context.Context, name string, by int64) error
	// RaiseMax stores value in the named counter if it is higher.
	RaiseMax(ctx context.Context, name string, value int64) error
	Counters(ctx context.Context) (Counters, error)

	// LoadTeam returns the saved team. ok is false when nothing was saved yet.
	LoadTeam(ctx context.Context) (rec TeamRecord, ok bool, err error)
	SaveTeam(ctx context.Context, rec TeamRecord) error

	AppendMatch(ctx context.Context, rec MatchRecord) error
	// RecentMatches returns up to limit matches, newest first.
	RecentMatches(ctx context.Context, limit int) ([]MatchRecord, error)

	Close() error
}

// Counters are the lifetime statistics shown on the settings screen.
type Counters struct {
	MatchesPlayed       int64       `json:"matches_played"`
	MatchesWon          int64       `json:"matches_won"`
	MatchesLost         int64       `json:"matches_lost"`
	ActivitiesCompleted int64       `json:"activities_completed"`
	ProBought           int64       `json:"pro_players_bought"`
	LegendBought        int64       `json:"legend_players_bought"`
	MaxStats            stat.Values `json:"max_stats"`
}

// set assigns a raw counter row. Unknown names are ignored.
func (c *Counters) set(name string, value int64) {
	switch name {
	case CounterMatchesPlayed:
		c.MatchesPlayed = value
	case CounterMatchesWon:
		c.MatchesWon = value
	case CounterMatchesLost:
		c.MatchesLost = value
	case CounterActivitiesCompleted:
		c.ActivitiesCompleted = value
	case CounterProBought:
		c.ProBought = value
	case CounterLegendBought:
		c.LegendBought = value
	default:
		for _, s := range stat.All {
			if name == MaxStatCounter(s) {
				c.MaxStats[s] = int(value)
			}
		}
	}
}

// TeamRecord is everything needed to resume a play session.
type TeamRecord struct {
	Stats    stat.State        `json:"stats"`
	Balance  int               `json:"balance"`
	Roster   roster.State      `json:"roster"`
	Feedback feedback.Settings `json:"feedback"`
	SavedAt  time.Time         `json:"saved_at"`
}

func encodeTeam(rec TeamRecord) (string, error) {
	b, err := json.Marshal(rec)
	if err != nil {
		return "", fmt.Errorf("encoding team state: %w", err)
	}
	return string(b), nil
}

func decodeTeam(state string) (TeamRecord, error) {
	var rec TeamRecord
	if err := json.Unmarshal([]byte(state), &rec); err != nil {
		return TeamRecord{}, fmt.Errorf("decoding team state: %w", err)
	}
	return rec, nil
}

// MatchRecord is one row of the match history.
type MatchRecord struct {
	ID       string      `json:"id"`
	PlayedAt time.Time   `json:"played_at"`
	Won      bool        `json:"won"`
	Prize    int         `json:"prize"`
	Reason   *stat.Stat  `json:"reason,omitempty"`
	Values   stat.Values `json:"values"`
}

const (
	outcomeWin  = "win"
	outcomeLose = "lose"
)

func (r MatchRecord) outcome() string {
	if r.Won {
		return outcomeWin
	}
	return outcomeLose
}

func (r MatchRecord) reason() *string {
	if r.Reason == nil {
		return nil
	}
	k := r.Reason.Key()
	return &k
}

// scanMatch fills the fields that need converting after a row scan.
func (r *MatchRecord) scanMatch(outcome string, reason *string) {
	r.Won = outcome == outcomeWin
	r.PlayedAt = r.PlayedAt.UTC()
	if reason == nil {
		return
	}
	if s, ok := stat.Parse(*reason); ok {
		r.Reason = &s
	}
}

const teamRowID = 1
