package db_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"

	"github.com/udisondev/matchday/internal/db"
	"github.com/udisondev/matchday/internal/feedback"
	"github.com/udisondev/matchday/internal/roster"
	"github.com/udisondev/matchday/internal/stat"
	"github.com/udisondev/matchday/internal/testutil"
)

func TestSQLite_Repository(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo, err := db.NewSQLite(ctx, filepath.Join(t.TempDir(), "data", "matchday.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })

	exerciseRepository(t, repo)
}

func TestSQLite_ReopenKeepsData(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "matchday.db")

	repo, err := db.NewSQLite(ctx, path)
	require.NoError(t, err)
	require.NoError(t, repo.Increment(ctx, db.CounterMatchesPlayed, 3))
	require.NoError(t, repo.Close())

	repo, err = db.NewSQLite(ctx, path)
	require.NoError(t, err, "migrations are idempotent")
	defer repo.Close()

	c, err := repo.Counters(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), c.MatchesPlayed)
}

func TestOpen_UnknownDriver(t *testing.T) {
	t.Parallel()

	_, err := db.Open(context.Background(), "mongo", "")
	assert.Error(t, err)
}

func TestPostgres_Repository(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping postgres container test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	repo := db.NewPostgresFromPool(testutil.SetupTestDB(t))
	exerciseRepository(t, repo)

	// Stored columns are readable without the repository.
	ctx := context.Background()
	var outcome string
	var reason *string
	err := repo.Pool().QueryRow(ctx,
		`SELECT outcome, reason FROM match_history WHERE id = $1`,
		"7d1f9a52-3c1e-4a7e-9c55-0b7c1f2e9a01",
	).Scan(&outcome, &reason)
	require.NoError(t, err)
	assert.Equal(t, "lose", outcome)
	require.NotNil(t, reason)
	assert.Equal(t, "fatigue", *reason)

	var teams int
	require.NoError(t, repo.Pool().QueryRow(ctx, `SELECT count(*) FROM team_state`).Scan(&teams))
	assert.Equal(t, 1, teams, "a single team row is upserted")
}

// exerciseRepository runs the same checks against any backend.
func exerciseRepository(t *testing.T, repo db.Repository) {
	t.Helper()
	ctx := context.Background()

	t.Run("counters", func(t *testing.T) {
		require.NoError(t, repo.Increment(ctx, db.CounterActivitiesCompleted, 1))
		require.NoError(t, repo.Increment(ctx, db.CounterActivitiesCompleted, 1))
		require.NoError(t, repo.Increment(ctx, db.CounterMatchesWon, 1))
		require.NoError(t, repo.Increment(ctx, db.CounterLegendBought, 2))

		maxFatigue := db.MaxStatCounter(stat.Fatigue)
		require.NoError(t, repo.RaiseMax(ctx, maxFatigue, 30))
		require.NoError(t, repo.RaiseMax(ctx, maxFatigue, 20))
		require.NoError(t, repo.RaiseMax(ctx, db.MaxStatCounter(stat.Strength), 55))
		require.NoError(t, repo.RaiseMax(ctx, db.MaxStatCounter(stat.Strength), 70))

		c, err := repo.Counters(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(2), c.ActivitiesCompleted)
		assert.Equal(t, int64(1), c.MatchesWon)
		assert.Equal(t, int64(2), c.LegendBought)
		assert.Zero(t, c.MatchesLost)
		assert.Equal(t, 30, c.MaxStats.Get(stat.Fatigue))
		assert.Equal(t, 70, c.MaxStats.Get(stat.Strength))
	})

	t.Run("team state", func(t *testing.T) {
		_, ok, err := repo.LoadTeam(ctx)
		require.NoError(t, err)
		require.False(t, ok)

		rec := db.TeamRecord{
			Stats: stat.State{
				Values:    stat.Values{12, 50, 0, 100},
				Countdown: 42.5,
				Reason:    stat.Popularity,
				HasReason: true,
			},
			Balance: 80,
			Roster: roster.State{
				Purchased: []roster.Player{{Position: roster.Goalkeeper, Tier: roster.TierPro}},
			},
			Feedback: feedback.Settings{Sound: true},
			SavedAt:  time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		}
		require.NoError(t, repo.SaveTeam(ctx, rec))

		got, ok, err := repo.LoadTeam(ctx)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, rec.Stats, got.Stats)
		assert.Equal(t, rec.Balance, got.Balance)
		assert.Equal(t, rec.Roster, got.Roster)
		assert.Equal(t, rec.Feedback, got.Feedback)
		assert.True(t, rec.SavedAt.Equal(got.SavedAt))

		rec.Balance = 5
		require.NoError(t, repo.SaveTeam(ctx, rec))
		got, _, err = repo.LoadTeam(ctx)
		require.NoError(t, err)
		assert.Equal(t, 5, got.Balance, "save overwrites")
	})

	t.Run("match history", func(t *testing.T) {
		base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
		reason := stat.Fatigue
		lost := db.MatchRecord{
			ID:       "7d1f9a52-3c1e-4a7e-9c55-0b7c1f2e9a01",
			PlayedAt: base,
			Reason:   &reason,
			Values:   stat.Values{45, 12, 50, 60},
		}
		won := db.MatchRecord{
			ID:       "7d1f9a52-3c1e-4a7e-9c55-0b7c1f2e9a02",
			PlayedAt: base.Add(time.Minute),
			Won:      true,
			Prize:    60,
			Values:   stat.Values{45, 41, 50, 60},
		}
		require.NoError(t, repo.AppendMatch(ctx, lost))
		require.NoError(t, repo.AppendMatch(ctx, won))

		got, err := repo.RecentMatches(ctx, 10)
		require.NoError(t, err)
		require.Len(t, got, 2)

		assert.Equal(t, won.ID, got[0].ID, "newest first")
		assert.True(t, got[0].Won)
		assert.Equal(t, 60, got[0].Prize)
		assert.Nil(t, got[0].Reason)
		assert.True(t, won.PlayedAt.Equal(got[0].PlayedAt))

		assert.False(t, got[1].Won)
		require.NotNil(t, got[1].Reason)
		assert.Equal(t, stat.Fatigue, *got[1].Reason)
		assert.Equal(t, lost.Values, got[1].Values)

		got, err = repo.RecentMatches(ctx, 1)
		require.NoError(t, err)
		assert.Len(t, got, 1)
	})
}
