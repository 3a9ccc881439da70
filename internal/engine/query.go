package engine

import (
	"fmt"

	"github.com/sadopc/checkclock/internal/compactor"
	"github.com/sadopc/checkclock/internal/merge"
	"github.com/sadopc/checkclock/internal/store"
)

// Date returns the ledger date daysBack days before the clock's current date.
func (e *Engine) Date(daysBack int) string {
	return store.DateOf(e.now().AddDate(0, 0, -daysBack))
}

// GetBalance returns seconds worked minus the daily target for the day
// daysBack days ago. For today the samples are summed and a total below
// minDuration counts as zero. A past day that was never compacted, or had
// nothing worth keeping, is zero as well.
func (e *Engine) GetBalance(daysBack int, minDuration int64) (int64, error) {
	if daysBack < 0 {
		return 0, fmt.Errorf("%w: days back %d", ErrInvalidArgument, daysBack)
	}
	e.mu.RLock()
	defer e.mu.RUnlock()

	date := e.Date(daysBack)
	if daysBack == 0 {
		worked, err := e.store.SumSamples(date)
		if err != nil {
			return 0, err
		}
		if worked < minDuration {
			return 0, nil
		}
		return worked - e.cfg.AvgWorkingTime, nil
	}

	worked, ok, err := e.store.Balance(date)
	if err != nil || !ok {
		return 0, err
	}
	return worked - e.cfg.AvgWorkingTime, nil
}

// GetBacklog returns the compacted intervals of the day daysBack days ago.
// Today has no backlog, so daysBack must be positive.
func (e *Engine) GetBacklog(daysBack int) ([]store.BacklogInterval, error) {
	if daysBack <= 0 {
		return nil, fmt.Errorf("%w: days back %d", ErrInvalidArgument, daysBack)
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.store.Backlog(e.Date(daysBack))
}

// TodayIntervals merges today's samples the way compaction will, for a live
// view of the current day.
func (e *Engine) TodayIntervals() ([]store.BacklogInterval, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	now := e.now()
	date := store.DateOf(now)
	samples, err := e.store.Samples(date)
	if err != nil {
		return nil, err
	}
	merged := merge.Merge(samples, e.cfg.MergeGap, e.cfg.MinDuration)
	day, err := store.ParseDate(date)
	if err != nil {
		return nil, err
	}
	return compactor.Intervals(date, merged, day), nil
}

// TotalBalance sums GetBalance over the last days days, today included.
func (e *Engine) TotalBalance(days int, minDuration int64) (int64, error) {
	if days < 0 {
		return 0, fmt.Errorf("%w: days %d", ErrInvalidArgument, days)
	}
	var total int64
	for back := 0; back < days; back++ {
		b, err := e.GetBalance(back, minDuration)
		if err != nil {
			return 0, err
		}
		total += b
	}
	return total, nil
}
