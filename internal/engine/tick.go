package engine

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/sadopc/checkclock/internal/store"
)

// GetValue reports the current state. With advance set and the user active
// on a working day it records one tick first. The paused flag is re-read
// from the ledger on every call.
func (e *Engine) GetValue(advance bool) (TrackedValue, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	v, err := e.value(advance)
	if err != nil {
		return v, err
	}
	e.publish(v)
	return v, nil
}

func (e *Engine) value(advance bool) (TrackedValue, error) {
	e.syncPaused()
	now := e.now()
	if !e.days.IsWorkingDay(now) {
		return TrackedValue{State: NotWorking}, nil
	}
	if err := e.rollover(now); err != nil {
		return TrackedValue{State: Working, Seconds: e.duration}, err
	}
	if e.paused {
		return TrackedValue{State: Paused}, nil
	}
	if e.isIdle() {
		return TrackedValue{State: Working, Seconds: e.duration}, nil
	}
	if advance {
		if err := e.tick(now); err != nil {
			return TrackedValue{State: Working, Seconds: e.duration}, err
		}
	}
	return TrackedValue{State: Working, Seconds: e.duration}, nil
}

// Tick records one sample of TickLength seconds unconditionally, ignoring
// the pause and idle state.
func (e *Engine) Tick() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.tick(e.now())
}

func (e *Engine) tick(now time.Time) error {
	if err := e.store.AppendSample(now, e.cfg.TickLength); err != nil {
		e.log.Warn("tick not recorded", "error", err)
		return err
	}
	e.fire("on_tick", e.hooks.OnTick, e.duration)
	// Only the part of a tick before midnight belongs to now's date.
	recorded := store.SplitSample(now, e.cfg.TickLength)[0].Duration

	if date := store.DateOf(now); date != e.today {
		old := e.duration
		e.fire("on_rollover", e.hooks.OnRollover, old)
		e.today = date
		e.workToday = e.days.IsWorkingDay(now)
		e.duration = 0
		if e.workToday {
			e.duration = recorded
		}
		e.sinceSync = 0
		e.pending = true
		e.log.Info("day rolled over", "today", date, "previous_duration", old)
	} else {
		e.duration += recorded
		e.sinceSync += recorded
		if e.cfg.ResyncInterval > 0 && e.sinceSync >= e.cfg.ResyncInterval {
			if err := e.reconcile(); err != nil {
				e.log.Warn("reconcile failed", "error", err)
			}
		}
	}
	e.fire("on_duration_update", e.hooks.OnDurationUpdate, e.duration)

	if e.pending {
		if err := e.compactPending(); err != nil {
			e.log.Error("compaction failed, samples kept for retry", "error", err)
		}
	}
	return nil
}

// rollover moves the cursor to now's date without recording anything. The
// duration is reloaded from the ledger since the new day may already have
// samples.
func (e *Engine) rollover(now time.Time) error {
	date := store.DateOf(now)
	if date == e.today {
		return nil
	}
	duration, err := e.store.SumSamples(date)
	if err != nil {
		return err
	}
	old := e.duration
	e.fire("on_rollover", e.hooks.OnRollover, old)
	e.today = date
	e.workToday = e.days.IsWorkingDay(now)
	e.duration = duration
	e.sinceSync = 0
	e.pending = true
	e.log.Info("day rolled over", "today", date, "previous_duration", old)
	return nil
}

// Reconcile replaces the cached duration with the ledger's sum for today.
func (e *Engine) Reconcile() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.reconcile()
}

func (e *Engine) reconcile() error {
	sum, err := e.store.SumSamples(e.today)
	if err != nil {
		return err
	}
	if sum != e.duration {
		e.log.Info("duration drift corrected", "cached", e.duration, "stored", sum)
	}
	e.duration = sum
	e.sinceSync = 0
	return nil
}

// Compact folds every day before today that still has samples into the
// backlog. Each day is independent: a failure leaves that day's samples in
// place and moves on to the next.
func (e *Engine) Compact() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.rollover(e.now()); err != nil {
		return err
	}
	return e.compactPending()
}

func (e *Engine) compactPending() error {
	dates, err := e.store.SampleDatesBefore(e.today)
	if err != nil {
		return err
	}

	var errs []error
	for _, date := range dates {
		if err := e.backup(date); err != nil {
			errs = append(errs, err)
			continue
		}
		res, err := e.compactor.Compact(date, e.today)
		if err != nil {
			errs = append(errs, fmt.Errorf("compact %s: %w", date, err))
			continue
		}
		e.log.Info("day compacted",
			"date", res.Date,
			"samples", res.Samples,
			"intervals", len(res.Intervals),
			"worked", res.Total,
		)
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	e.pending = false
	return nil
}

func (e *Engine) backup(date string) error {
	if e.cfg.BackupDir == "" {
		return nil
	}
	path := filepath.Join(e.cfg.BackupDir, "checkclock.copy-"+date+".sqlite")
	if err := e.store.Backup(path); err != nil {
		return fmt.Errorf("backup before compacting %s: %w", date, err)
	}
	return nil
}
