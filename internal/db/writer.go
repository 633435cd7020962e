package db

import (
	"context"
	"log/slog"
	"time"

	"github.com/udisondev/matchday/internal/stat"
)

// DefaultQueueSize — размер очереди, если он не задан.
const DefaultQueueSize = 256

const writeTimeout = 5 * time.Second

type job struct {
	name string
	fn   func(ctx context.Context, repo Repository) error
}

// Writer выполняет записи в репозиторий в отдельной горутине, игра никогда
// не ждёт хранилище. Записи best-effort: ошибки логируются, при полной
// очереди запись отбрасывается.
//
// Writer реализует интерфейсы Recorder из minigame, match и roster.
type Writer struct {
	repo Repository
	jobs chan job
}

// NewWriter создаёт Writer поверх repo с очередью на size задач.
func NewWriter(repo Repository, size int) *Writer {
	if size <= 0 {
		size = DefaultQueueSize
	}
	return &Writer{repo: repo, jobs: make(chan job, size)}
}

// Run обрабатывает записи до отмены ctx, затем дописывает остаток очереди.
func (w *Writer) Run(ctx context.Context) error {
	for {
		select {
		case j := <-w.jobs:
			w.exec(ctx, j)
		case <-ctx.Done():
			w.drain(context.WithoutCancel(ctx))
			return nil
		}
	}
}

func (w *Writer) drain(ctx context.Context) {
	for {
		select {
		case j := <-w.jobs:
			w.exec(ctx, j)
		default:
			return
		}
	}
}

func (w *Writer) exec(ctx context.Context, j job) {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	if err := j.fn(ctx, w.repo); err != nil {
		slog.Error("persistence write failed", "job", j.name, "error", err)
	}
}

func (w *Writer) enqueue(name string, fn func(ctx context.Context, repo Repository) error) {
	select {
	case w.jobs <- job{name: name, fn: fn}:
	default:
		slog.Warn("persistence queue full, dropping write", "job", name)
	}
}

func (w *Writer) increment(name string) {
	w.enqueue(name, func(ctx context.Context, repo Repository) error {
		return repo.Increment(ctx, name, 1)
	})
}

// IncrementActivityCompleted учитывает завершённую мини-игру.
func (w *Writer) IncrementActivityCompleted() {
	w.increment(CounterActivitiesCompleted)
}

// IncrementMatchStats учитывает сыгранный матч.
func (w *Writer) IncrementMatchStats(won bool) {
	w.increment(CounterMatchesPlayed)
	if won {
		w.increment(CounterMatchesWon)
	} else {
		w.increment(CounterMatchesLost)
	}
}

// IncrementPlayerBought учитывает купленного игрока Pro или Legend.
func (w *Writer) IncrementPlayerBought(isLegend bool) {
	if isLegend {
		w.increment(CounterLegendBought)
	} else {
		w.increment(CounterProBought)
	}
}

// RecordMaxStats поднимает максимумы статов до v.
func (w *Writer) RecordMaxStats(v stat.Values) {
	w.enqueue("max_stats", func(ctx context.Context, repo Repository) error {
		for _, s := range stat.All {
			if err := repo.RaiseMax(ctx, MaxStatCounter(s), int64(v.Get(s))); err != nil {
				return err
			}
		}
		return nil
	})
}

// SaveTeam сохраняет состояние команды.
func (w *Writer) SaveTeam(rec TeamRecord) {
	w.enqueue("team_state", func(ctx context.Context, repo Repository) error {
		return repo.SaveTeam(ctx, rec)
	})
}

// AppendMatch добавляет строку в историю матчей.
func (w *Writer) AppendMatch(rec MatchRecord) {
	w.enqueue("match_history", func(ctx context.Context, repo Repository) error {
		return repo.AppendMatch(ctx, rec)
	})
}
