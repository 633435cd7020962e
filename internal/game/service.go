// Package game ties the stat store, the economy, the squad and the active
// activity together behind one lock.
//
// Service is the only writer of game state. The fixed-step host calls Tick,
// the player (or the autopilot) calls the action methods, and observers
// read Snapshot, all from any goroutine.
package game

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/udisondev/matchday/internal/db"
	"github.com/udisondev/matchday/internal/economy"
	"github.com/udisondev/matchday/internal/feedback"
	"github.com/udisondev/matchday/internal/match"
	"github.com/udisondev/matchday/internal/minigame"
	"github.com/udisondev/matchday/internal/roster"
	"github.com/udisondev/matchday/internal/stat"
)

var (
	// ErrSessionActive is returned when an activity or a match is already running.
	ErrSessionActive = errors.New("game: a session is already active")
	// ErrNoSession is returned for actions that need a running activity or match.
	ErrNoSession = errors.New("game: no active session")
	// ErrMatchNotReady is returned by StartMatch before the countdown is over
	// or while a stat is below the entry minimum.
	ErrMatchNotReady = errors.New("game: match is not ready")
	// ErrUnknownBooster is returned by BuyBooster for a key not in the catalog.
	ErrUnknownBooster = errors.New("game: unknown booster")
)

// Recorder receives the lifetime counters.
type Recorder interface {
	minigame.Recorder
	match.Recorder
	roster.Recorder
}

// Persister stores what should survive a restart. Calls must not block.
type Persister interface {
	SaveTeam(rec db.TeamRecord)
	AppendMatch(rec db.MatchRecord)
	RecordMaxStats(v stat.Values)
}

// Options configures a Service. Rand is required.
type Options struct {
	Rand      minigame.Rand
	Recorder  Recorder
	Persister Persister
	Feedback  *feedback.Sink
	Layout    minigame.Layout
	Field     match.Field
	Balance   int // starting coins
}

// Service owns the whole game state. Safe for concurrent use.
type Service struct {
	mu sync.Mutex

	store    *stat.Store
	wallet   *economy.Wallet
	roster   *roster.Roster
	feedback *feedback.Sink

	rng       minigame.Rand
	recorder  Recorder
	persister Persister
	layout    minigame.Layout
	field     match.Field

	session    *minigame.Session
	lastResult *minigame.Result

	match         *match.Simulator
	matchReported bool
}

// New creates a fresh game: empty stats, a full countdown and amateurs.
func New(opts Options) *Service {
	s := &Service{
		store:     stat.NewStore(),
		wallet:    economy.NewWallet(opts.Balance),
		roster:    roster.New(opts.Recorder),
		feedback:  opts.Feedback,
		rng:       opts.Rand,
		recorder:  opts.Recorder,
		persister: opts.Persister,
		layout:    opts.Layout,
		field:     opts.Field,
	}
	if s.feedback == nil {
		s.feedback = feedback.NewSink(feedback.Settings{}, nil, nil)
	}
	if s.persister == nil {
		s.persister = nopPersister{}
	}
	return s
}

// Restore loads a saved team. Call before the host starts ticking.
func (s *Service) Restore(rec db.TeamRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.store.Restore(rec.Stats)
	s.wallet = economy.NewWallet(rec.Balance)
	s.roster.Restore(rec.Roster)
	s.feedback.SetSound(rec.Feedback.Sound)
	s.feedback.SetHaptics(rec.Feedback.Haptics)
	slog.Info("team restored",
		"balance", rec.Balance,
		"countdown", rec.Stats.Countdown,
		"saved_at", rec.SavedAt)
}

// Record returns the current team for saving.
func (s *Service) Record() db.TeamRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.record()
}

func (s *Service) record() db.TeamRecord {
	return db.TeamRecord{
		Stats:    s.store.Snapshot(),
		Balance:  s.wallet.Balance(),
		Roster:   s.roster.Snapshot(),
		Feedback: s.feedback.Settings(),
		SavedAt:  time.Now().UTC(),
	}
}

func (s *Service) save() {
	s.persister.SaveTeam(s.record())
}

// busy reports whether an activity runs or a match waits to be acknowledged.
func (s *Service) busy() bool {
	return s.session != nil || s.match != nil
}

// StartActivity starts mini-game k.
func (s *Service) StartActivity(k minigame.Kind) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.busy() {
		return ErrSessionActive
	}
	sess, err := minigame.New(k, s.store, minigame.Options{
		Rand:     s.rng,
		Recorder: s.recorder,
		Feedback: s.feedback,
		Listener: sessionListener{s},
		Layout:   s.layout,
	})
	if err != nil {
		return err
	}
	s.session = sess
	s.lastResult = nil
	sess.Start()
	slog.Info("activity started", "kind", k, "session", sess.ID())
	return nil
}

// Input forwards a player action to the running activity.
func (s *Service) Input(in minigame.Input) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session == nil {
		return ErrNoSession
	}
	s.session.HandleInput(in)
	s.reap()
	return nil
}

// Abort stops the running activity without a reward.
func (s *Service) Abort() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session == nil {
		return ErrNoSession
	}
	s.session.Abort()
	s.session = nil
	return nil
}

// Tick advances the countdown and whatever is running by dt seconds.
func (s *Service) Tick(dt float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.store.TickCountdown(dt)
	if s.session != nil {
		s.session.Tick(dt)
		s.reap()
	}
	if s.match != nil {
		s.match.Tick(dt)
		s.reportMatch()
	}
}

// reap drops a session that has ended.
func (s *Service) reap() {
	if s.session != nil && !s.session.IsActive() {
		s.session = nil
	}
}

// onSessionEnd runs inside Tick or Input with the lock held.
func (s *Service) onSessionEnd(res minigame.Result) {
	s.lastResult = &res
	s.persister.RecordMaxStats(s.store.Values())
	s.save()
}

type sessionListener struct{ s *Service }

func (l sessionListener) OnSessionEnd(res minigame.Result) { l.s.onSessionEnd(res) }

// CanStartMatch reports whether StartMatch would succeed.
func (s *Service) CanStartMatch() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.busy() && s.store.CanStartMatch()
}

// ForceMatchReady ends the countdown early.
func (s *Service) ForceMatchReady() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.store.ForceReady()
}

// StartMatch kicks off a match.
func (s *Service) StartMatch() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.busy() {
		return ErrSessionActive
	}
	if !s.store.CanStartMatch() {
		return ErrMatchNotReady
	}
	s.match = match.New(s.store, match.Options{
		Rand:     s.rng,
		Economy:  s.wallet,
		Prizes:   s.roster,
		Recorder: s.recorder,
		Field:    s.field,
	})
	s.matchReported = false
	s.match.Start()
	return nil
}

// EndMatch resolves the running match early and returns the outcome.
func (s *Service) EndMatch() (match.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.match == nil {
		return match.Result{}, ErrNoSession
	}
	res, _ := s.match.End()
	s.reportMatch()
	return res, nil
}

// reportMatch persists a resolved match once.
func (s *Service) reportMatch() {
	res, ok := s.match.Result()
	if !ok || s.matchReported {
		return
	}
	s.matchReported = true

	s.persister.AppendMatch(db.MatchRecord{
		ID:       res.ID,
		PlayedAt: time.Now().UTC(),
		Won:      res.Won(),
		Prize:    res.Prize,
		Reason:   res.Reason,
		Values:   res.Values,
	})
	s.persister.RecordMaxStats(res.Values)
	s.save()
}

// AcknowledgeMatch closes the results screen of a resolved match and
// starts the next cycle: stats, countdown and failure reason are reset.
func (s *Service) AcknowledgeMatch() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.match == nil || s.match.State() != match.StateResolved {
		return ErrNoSession
	}
	s.match = nil
	s.store.Reset()
	s.save()
	slog.Info("new cycle started")
	return nil
}

// BuyBooster buys the booster with key. ok is false when the wallet is short.
func (s *Service) BuyBooster(key string) (ok bool, err error) {
	b, found := economy.FindBooster(key)
	if !found {
		return false, ErrUnknownBooster
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !economy.BuyBooster(b, s.wallet, s.store) {
		return false, nil
	}
	s.persister.RecordMaxStats(s.store.Values())
	s.save()
	return true, nil
}

// BuyPlayer buys p. Returns false when p is free, owned, or unaffordable.
func (s *Service) BuyPlayer(p roster.Player) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.roster.Buy(p, s.wallet) {
		return false
	}
	s.save()
	return true
}

// SelectPlayer puts an owned player in the starting six.
func (s *Service) SelectPlayer(p roster.Player) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.roster.Select(p) {
		return false
	}
	s.save()
	return true
}

// SetSound toggles the tap sound.
func (s *Service) SetSound(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.feedback.SetSound(on)
	s.save()
}

// SetHaptics toggles the tap haptic.
func (s *Service) SetHaptics(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.feedback.SetHaptics(on)
	s.save()
}

type nopPersister struct{}

func (nopPersister) SaveTeam(db.TeamRecord)     {}
func (nopPersister) AppendMatch(db.MatchRecord) {}
func (nopPersister) RecordMaxStats(stat.Values) {}
