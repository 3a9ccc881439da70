// Package report builds the balance report of the last few days: each
// day's balance with its work intervals, and the running total.
package report

import (
	"fmt"
	"strings"

	"github.com/sadopc/checkclock/internal/durfmt"
	"github.com/sadopc/checkclock/internal/store"
)

// Source is the part of the engine a report reads.
type Source interface {
	Compact() error
	Date(daysBack int) string
	GetBalance(daysBack int, minDuration int64) (int64, error)
	GetBacklog(daysBack int) ([]store.BacklogInterval, error)
	TodayIntervals() ([]store.BacklogInterval, error)
	TotalBalance(days int, minDuration int64) (int64, error)
}

// Day is one reported day.
type Day struct {
	Date      string
	DaysBack  int
	Balance   int64
	Worked    int64
	Intervals []store.BacklogInterval
}

type Report struct {
	Days      []Day // oldest first
	Total     int64
	TotalDays int
	// CompactErr is set when folding past days failed; the report then shows
	// whatever was already compacted.
	CompactErr error
}

// Options select what goes into a report.
type Options struct {
	Days        int // past days besides today
	TotalDays   int
	MinDuration int64
}

// Build compacts pending days and reads the last opts.Days days plus today.
// Days with a zero balance are left out.
func Build(src Source, opts Options) (*Report, error) {
	r := &Report{TotalDays: opts.TotalDays}
	r.CompactErr = src.Compact()

	for back := opts.Days; back >= 0; back-- {
		balance, err := src.GetBalance(back, opts.MinDuration)
		if err != nil {
			return nil, err
		}
		if balance == 0 {
			continue
		}

		var intervals []store.BacklogInterval
		if back == 0 {
			intervals, err = src.TodayIntervals()
		} else {
			intervals, err = src.GetBacklog(back)
		}
		if err != nil {
			return nil, err
		}

		day := Day{Date: src.Date(back), DaysBack: back, Balance: balance, Intervals: intervals}
		for _, iv := range intervals {
			day.Worked += iv.Duration
		}
		r.Days = append(r.Days, day)
	}

	total, err := src.TotalBalance(opts.TotalDays, opts.MinDuration)
	if err != nil {
		return nil, err
	}
	r.Total = total
	return r, nil
}

// Span renders an interval as "08:00 - 12:30: 4:30".
func Span(iv store.BacklogInterval) string {
	return fmt.Sprintf("%s - %s: %s", iv.Start.Format("15:04"), iv.End.Format("15:04"), durfmt.HoursMinutes(iv.Duration))
}

// String renders the report as plain text.
func (r *Report) String() string {
	var b strings.Builder
	for i, d := range r.Days {
		fmt.Fprintf(&b, "%s: %s\n", d.Date, durfmt.HoursMinutes(d.Balance))
		for _, iv := range d.Intervals {
			b.WriteString(" " + Span(iv) + "\n")
		}
		if i < len(r.Days)-1 {
			b.WriteString(strings.Repeat("-", 5) + "\n")
		}
	}
	b.WriteString(strings.Repeat("=", 24) + "\n")
	fmt.Fprintf(&b, "total balance: %s\n", durfmt.HoursMinutes(r.Total))
	return b.String()
}
