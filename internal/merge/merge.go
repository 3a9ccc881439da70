// Package merge coalesces raw tick samples into contiguous work intervals.
package merge

import (
	"time"

	"github.com/sadopc/checkclock/internal/store"
)

// Interval is a half-open work period [Start, End).
type Interval struct {
	Start time.Time
	End   time.Time
}

// Seconds returns the length of the interval in whole seconds.
func (i Interval) Seconds() int64 {
	return int64(i.End.Sub(i.Start) / time.Second)
}

// Merge sweeps samples, which must be ordered by start time, once from left
// to right. A sample starting no later than mergeGap after the open
// interval's end extends it; otherwise the open interval is closed and kept
// only if it is longer than minDuration.
func Merge(samples []store.Sample, mergeGap, minDuration int64) []Interval {
	if len(samples) == 0 {
		return nil
	}
	gap := time.Duration(mergeGap) * time.Second
	minLen := time.Duration(minDuration) * time.Second

	var out []Interval
	emit := func(iv Interval) {
		if iv.End.Sub(iv.Start) > minLen {
			out = append(out, iv)
		}
	}

	open := Interval{Start: samples[0].Start, End: samples[0].End()}
	for _, s := range samples[1:] {
		if !s.Start.After(open.End.Add(gap)) {
			if end := s.End(); end.After(open.End) {
				open.End = end
			}
			continue
		}
		emit(open)
		open = Interval{Start: s.Start, End: s.End()}
	}
	emit(open)
	return out
}

// Total sums the lengths of intervals in seconds.
func Total(intervals []Interval) int64 {
	var total int64
	for _, iv := range intervals {
		total += iv.Seconds()
	}
	return total
}
