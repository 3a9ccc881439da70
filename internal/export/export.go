// Package export writes compacted days to CSV or JSON files.
package export

import (
	"sort"
	"strings"

	"github.com/sadopc/checkclock/internal/store"
)

// Day is one compacted day ready for export.
type Day struct {
	Date      string
	Worked    int64 // seconds
	Balance   int64 // seconds, worked minus the daily target
	Intervals []store.BacklogInterval
}

// Ledger is the part of the store an export reads.
type Ledger interface {
	Balances(from, to string) ([]store.DayBalance, error)
	BacklogRange(from, to string) ([]store.BacklogInterval, error)
}

// Load reads the compacted days with from <= date < to.
func Load(l Ledger, from, to string, avgWorkingTime int64) ([]Day, error) {
	balances, err := l.Balances(from, to)
	if err != nil {
		return nil, err
	}
	intervals, err := l.BacklogRange(from, to)
	if err != nil {
		return nil, err
	}
	return Days(balances, intervals, avgWorkingTime), nil
}

// Days groups balance rows and backlog intervals by date, ascending. A day
// without a balance row has zero worked time and zero balance.
func Days(balances []store.DayBalance, intervals []store.BacklogInterval, avgWorkingTime int64) []Day {
	byDate := make(map[string]*Day)
	get := func(date string) *Day {
		d, ok := byDate[date]
		if !ok {
			d = &Day{Date: date}
			byDate[date] = d
		}
		return d
	}
	for _, b := range balances {
		d := get(b.Date)
		d.Worked = b.SecondsWorked
		d.Balance = b.SecondsWorked - avgWorkingTime
	}
	for _, iv := range intervals {
		d := get(iv.Date)
		d.Intervals = append(d.Intervals, iv)
	}

	days := make([]Day, 0, len(byDate))
	for _, d := range byDate {
		days = append(days, *d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Date < days[j].Date })
	return days
}

// TotalBalance sums the balances of days.
func TotalBalance(days []Day) int64 {
	var total int64
	for _, d := range days {
		total += d.Balance
	}
	return total
}

// Spans formats the intervals of d as "09:00:00-12:30:00 13:00:00-17:00:00".
func (d Day) Spans() string {
	parts := make([]string, 0, len(d.Intervals))
	for _, iv := range d.Intervals {
		parts = append(parts, iv.Start.Format(store.TimeLayout)+"-"+iv.End.Format(store.TimeLayout))
	}
	return strings.Join(parts, " ")
}
