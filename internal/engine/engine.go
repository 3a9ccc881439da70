// Package engine is the stateful core of checkclock. It records a sample per
// tick of active work, follows pause and idle state, rolls over at midnight
// and compacts finished days into the backlog.
//
// The engine starts no goroutines. A host calls GetValue(true) on a timer and
// the other methods on user input; every method is safe for concurrent use.
package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/sadopc/checkclock/internal/calendar"
	"github.com/sadopc/checkclock/internal/compactor"
	"github.com/sadopc/checkclock/internal/idle"
	"github.com/sadopc/checkclock/internal/logger"
	"github.com/sadopc/checkclock/internal/store"
)

// ErrInvalidArgument is returned for out-of-range query arguments.
var ErrInvalidArgument = errors.New("invalid argument")

// Config is the engine's tuning. Durations are in seconds.
type Config struct {
	TickLength     int64
	AvgWorkingTime int64
	WorkingDays    string
	// MergeGap and MinDuration are passed to the merger during compaction.
	MergeGap    int64
	MinDuration int64
	// ResyncInterval is how much tracked time may accumulate before the
	// cached duration is re-read from the ledger. Zero disables it.
	ResyncInterval int64
	// BackupDir, when set, receives a copy of the ledger before each day is
	// compacted.
	BackupDir string
}

type Option func(*Engine)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithIdleSignal sets the idle source. Without one the user is never idle.
func WithIdleSignal(s idle.Signal) Option {
	return func(e *Engine) { e.idle = s }
}

func WithHooks(h Hooks) Option {
	return func(e *Engine) { e.hooks = h }
}

func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.log = l }
}

type Engine struct {
	mu sync.RWMutex

	store     *store.Store
	ownsStore bool
	compactor *compactor.Compactor
	cfg       Config
	days      calendar.Weekdays
	now       func() time.Time
	idle      idle.Signal
	hooks     Hooks
	log       *slog.Logger
	observers []Observer

	today     string
	duration  int64
	paused    bool
	workToday bool
	sinceSync int64
	// pending is set at startup and on rollover and cleared once every
	// earlier day has been compacted.
	pending bool
}

// Open opens the ledger at path and builds an engine that closes it on Close.
func Open(path string, cfg Config, opts ...Option) (*Engine, error) {
	s, err := store.New(path)
	if err != nil {
		return nil, err
	}
	e, err := New(s, cfg, opts...)
	if err != nil {
		s.Close()
		return nil, err
	}
	e.ownsStore = true
	return e, nil
}

// New builds an engine on an open store and loads today's state from it.
func New(s *store.Store, cfg Config, opts ...Option) (*Engine, error) {
	days, err := calendar.Parse(cfg.WorkingDays)
	if err != nil {
		return nil, err
	}
	if cfg.TickLength <= 0 {
		return nil, fmt.Errorf("%w: tick length %d", ErrInvalidArgument, cfg.TickLength)
	}

	e := &Engine{
		store:     s,
		compactor: compactor.New(s, cfg.MergeGap, cfg.MinDuration),
		cfg:       cfg,
		days:      days,
		now:       time.Now,
		idle:      idle.Never{},
		log:       logger.Discard(),
		pending:   true,
	}
	for _, opt := range opts {
		opt(e)
	}

	if e.paused, err = s.Paused(); err != nil {
		return nil, err
	}
	now := e.now()
	e.today = store.DateOf(now)
	if e.duration, err = s.SumSamples(e.today); err != nil {
		return nil, err
	}
	e.workToday = e.days.IsWorkingDay(now)
	return e, nil
}

// Close releases the store if the engine opened it.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.ownsStore {
		return nil
	}
	return e.store.Close()
}

// Snapshot returns a copy of the in-memory state.
func (e *Engine) Snapshot() Snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return Snapshot{
		Today:     e.today,
		Duration:  e.duration,
		Paused:    e.paused,
		WorkToday: e.workToday,
	}
}

// Store exposes the ledger for read-only reporting.
func (e *Engine) Store() *store.Store {
	return e.store
}

// AvgWorkingTime is the daily target in seconds.
func (e *Engine) AvgWorkingTime() int64 {
	return e.cfg.AvgWorkingTime
}

// TogglePaused flips the paused flag the engine holds, persists the new
// value and returns it.
func (e *Engine) TogglePaused() (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	paused := !e.paused
	if err := e.store.SetPaused(paused); err != nil {
		return e.paused, err
	}
	e.applyPaused(paused)
	if v, err := e.value(false); err == nil {
		e.publish(v)
	}
	return paused, nil
}

// syncPaused picks up a paused flag written by another process sharing the
// ledger. A failed read keeps the flag in memory.
func (e *Engine) syncPaused() {
	paused, err := e.store.Paused()
	if err != nil {
		e.log.Warn("paused flag not read, keeping the cached one", "error", err)
		return
	}
	if paused != e.paused {
		e.log.Info("paused flag changed in the ledger", "paused", paused)
		e.applyPaused(paused)
	}
}

func (e *Engine) applyPaused(paused bool) {
	e.paused = paused
	if paused {
		e.log.Info("paused", "duration", e.duration)
		e.fire("on_pause", e.hooks.OnPause, e.duration)
	} else {
		e.log.Info("resumed", "duration", e.duration)
		e.fire("on_resume", e.hooks.OnResume, e.duration)
	}
}

func (e *Engine) isIdle() bool {
	idle, err := e.idle.IsIdle()
	if err != nil {
		e.log.Debug("idle query failed, assuming active", "error", err)
		return false
	}
	return idle
}
