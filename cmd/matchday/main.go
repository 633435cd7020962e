package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/udisondev/matchday/internal/config"
	"github.com/udisondev/matchday/internal/db"
	"github.com/udisondev/matchday/internal/economy"
	"github.com/udisondev/matchday/internal/feedback"
	"github.com/udisondev/matchday/internal/game"
	"github.com/udisondev/matchday/internal/host"
	"github.com/udisondev/matchday/internal/spectator"
)

const recentMatches = 5

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("shutting down", "signal", sig)
		cancel()
	}()

	if err := run(ctx); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// The log level lives in the config, so nothing logs before it loads.
	cfgPath := config.Path()
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	})))

	slog.Info("matchday starting",
		"config", cfgPath,
		"log_level", cfg.LogLevel,
		"driver", cfg.Database.Driver,
		"tick_rate", cfg.Clock.TickRate,
		"speed", cfg.Clock.Speed)

	repo, err := db.Open(ctx, cfg.Database.Driver, cfg.Database.Target())
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer repo.Close()
	slog.Info("database ready")

	writer := db.NewWriter(repo, cfg.Database.WriteQueue)

	seed := cfg.Clock.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	sound := feedback.NewCounter("sound")
	haptics := feedback.NewCounter("haptics")

	svc := game.New(game.Options{
		Rand:      rand.New(rand.NewPCG(seed, 1)),
		Recorder:  writer,
		Persister: writer,
		Feedback:  feedback.NewSink(cfg.Feedback, sound, haptics),
		Layout:    cfg.Arena.Layout,
		Field:     cfg.Arena.MatchField,
		Balance:   economy.StartingBalance,
	})

	rec, ok, err := repo.LoadTeam(ctx)
	if err != nil {
		return fmt.Errorf("loading team: %w", err)
	}
	if ok {
		svc.Restore(rec)
	} else {
		slog.Info("no saved team, starting fresh", "balance", economy.StartingBalance)
	}

	if err := logHistory(ctx, repo); err != nil {
		return err
	}

	var observers []host.Observer
	if cfg.Autopilot.Enabled {
		observers = append(observers, host.NewAutopilot(svc, rand.New(rand.NewPCG(seed, 2)), cfg.Autopilot.Skill))
		slog.Info("autopilot enabled", "skill", cfg.Autopilot.Skill)
	}
	clock := host.NewClock(svc, cfg.Clock, observers...)

	// The writer outlives the clock so the last writes of the session land.
	writerCtx, stopWriter := context.WithCancel(context.WithoutCancel(ctx))
	writerDone := make(chan error, 1)
	go func() { writerDone <- writer.Run(writerCtx) }()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := clock.Run(gctx); err != nil {
			return fmt.Errorf("clock: %w", err)
		}
		return nil
	})

	if cfg.Spectator.Enabled {
		srv := spectator.NewServer(svc, cfg.Spectator)
		g.Go(func() error {
			if err := srv.Run(gctx); err != nil {
				return fmt.Errorf("spectator: %w", err)
			}
			return nil
		})
	}

	runErr := g.Wait()

	stopWriter()
	if err := <-writerDone; err != nil {
		slog.Warn("writer stopped with error", "error", err)
	}

	saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := repo.SaveTeam(saveCtx, svc.Record()); err != nil {
		return errors.Join(runErr, fmt.Errorf("saving team: %w", err))
	}

	slog.Info("matchday stopped",
		"ticks", clock.Ticks(),
		"sound_plays", sound.Plays(),
		"haptic_plays", haptics.Plays())

	if runErr != nil {
		return fmt.Errorf("matchday error: %w", runErr)
	}
	return nil
}

// logHistory prints the lifetime counters and the last few matches.
func logHistory(ctx context.Context, repo db.Repository) error {
	c, err := repo.Counters(ctx)
	if err != nil {
		return fmt.Errorf("loading counters: %w", err)
	}
	slog.Info("lifetime stats",
		"matches_played", c.MatchesPlayed,
		"matches_won", c.MatchesWon,
		"activities", c.ActivitiesCompleted,
		"max_stats", c.MaxStats)

	matches, err := repo.RecentMatches(ctx, recentMatches)
	if err != nil {
		return fmt.Errorf("loading match history: %w", err)
	}
	for _, m := range matches {
		slog.Debug("recent match",
			"played_at", m.PlayedAt,
			"won", m.Won,
			"prize", m.Prize)
	}
	return nil
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
