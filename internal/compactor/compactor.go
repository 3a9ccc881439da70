// Package compactor folds a past day's raw samples into backlog intervals and
// a balance row.
package compactor

import (
	"errors"
	"fmt"
	"time"

	"github.com/sadopc/checkclock/internal/merge"
	"github.com/sadopc/checkclock/internal/store"
)

// ErrInvalidTarget is returned when asked to compact today or a later date.
var ErrInvalidTarget = errors.New("invalid compaction target")

// Ledger is the part of the store the compactor needs.
type Ledger interface {
	Samples(date string) ([]store.Sample, error)
	CommitCompaction(date string, intervals []store.BacklogInterval, total int64) error
}

// Result describes one finished compaction.
type Result struct {
	Date      string
	Samples   int
	Intervals []store.BacklogInterval
	Total     int64
}

type Compactor struct {
	ledger      Ledger
	mergeGap    int64
	minDuration int64
}

func New(ledger Ledger, mergeGap, minDuration int64) *Compactor {
	return &Compactor{ledger: ledger, mergeGap: mergeGap, minDuration: minDuration}
}

// Compact merges the samples of date and commits the resulting intervals and
// total while deleting the samples, in one transaction. date must be strictly
// before today. A date without samples is left alone, so compacting an
// already compacted day is a no-op.
func (c *Compactor) Compact(date, today string) (Result, error) {
	if date >= today {
		return Result{}, fmt.Errorf("%w: %s is not before %s", ErrInvalidTarget, date, today)
	}
	samples, err := c.ledger.Samples(date)
	if err != nil {
		return Result{}, fmt.Errorf("compact %s: %w", date, err)
	}
	res := Result{Date: date, Samples: len(samples)}
	if len(samples) == 0 {
		return res, nil
	}

	day, err := store.ParseDate(date)
	if err != nil {
		return Result{}, fmt.Errorf("compact %s: %w", date, err)
	}
	res.Intervals = Intervals(date, merge.Merge(samples, c.mergeGap, c.minDuration), day)
	for _, iv := range res.Intervals {
		res.Total += iv.Duration
	}

	if err := c.ledger.CommitCompaction(date, res.Intervals, res.Total); err != nil {
		return Result{}, fmt.Errorf("compact %s: %w", date, err)
	}
	return res, nil
}

// Intervals converts merged intervals into backlog rows of date. Time past
// midnight is not counted. Since a backlog row stores clock times, an
// interval reaching midnight shows 23:59:59 as its end while its duration
// still counts up to midnight.
func Intervals(date string, merged []merge.Interval, day time.Time) []store.BacklogInterval {
	midnight := day.AddDate(0, 0, 1)
	var out []store.BacklogInterval
	for _, iv := range merged {
		if iv.End.After(midnight) {
			iv.End = midnight
		}
		if !iv.End.After(iv.Start) {
			continue
		}
		end := iv.End
		if end.Equal(midnight) {
			end = midnight.Add(-time.Second)
		}
		out = append(out, store.BacklogInterval{
			Date:     date,
			Start:    iv.Start,
			End:      end,
			Duration: iv.Seconds(),
		})
	}
	return out
}
