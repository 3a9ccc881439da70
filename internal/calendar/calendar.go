// Package calendar parses working-day expressions such as "Mon-Fri" or
// "Tue,Wed-Sat" and answers whether a date falls on one of those days.
package calendar

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidSchedule is returned when a working-days expression is empty or
// contains a token that does not name a weekday.
var ErrInvalidSchedule = errors.New("invalid working days")

// Monday-first order; ranges expand in this order and never wrap.
var order = [7]time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
	time.Friday, time.Saturday, time.Sunday,
}

// Weekdays is a set of weekdays stored as a bitmask indexed by time.Weekday.
type Weekdays uint8

// Of builds a set from individual weekdays.
func Of(days ...time.Weekday) Weekdays {
	var w Weekdays
	for _, d := range days {
		w |= 1 << uint(d)
	}
	return w
}

// Contains reports whether d is in the set.
func (w Weekdays) Contains(d time.Weekday) bool {
	return w&(1<<uint(d)) != 0
}

// IsWorkingDay reports whether date falls on a day in the set.
func (w Weekdays) IsWorkingDay(date time.Time) bool {
	return w.Contains(date.Weekday())
}

// String renders the set in canonical form: Monday-first, consecutive runs of
// three or more days collapsed into ranges, e.g. "Mon-Wed,Fri,Sun".
func (w Weekdays) String() string {
	var parts []string
	for i := 0; i < len(order); {
		if !w.Contains(order[i]) {
			i++
			continue
		}
		j := i
		for j+1 < len(order) && w.Contains(order[j+1]) {
			j++
		}
		switch j - i {
		case 0:
			parts = append(parts, abbrev(order[i]))
		case 1:
			parts = append(parts, abbrev(order[i]), abbrev(order[j]))
		default:
			parts = append(parts, abbrev(order[i])+"-"+abbrev(order[j]))
		}
		i = j + 1
	}
	return strings.Join(parts, ",")
}

// Parse turns an expression like "Mon-Fri" or "tue, Wed-Sat" into a set of
// weekdays. Tokens are case-insensitive and may be any prefix of a weekday
// name that is at least three letters long.
func Parse(expr string) (Weekdays, error) {
	var w Weekdays
	for _, token := range strings.Split(expr, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		from, to, isRange := strings.Cut(token, "-")
		start, err := lookup(from)
		if err != nil {
			return 0, err
		}
		end := start
		if isRange {
			if end, err = lookup(to); err != nil {
				return 0, err
			}
		}
		if end < start {
			return 0, fmt.Errorf("%w: range %q runs backwards", ErrInvalidSchedule, token)
		}
		for i := start; i <= end; i++ {
			w |= Of(order[i])
		}
	}
	if w == 0 {
		return 0, fmt.Errorf("%w: %q selects no days", ErrInvalidSchedule, expr)
	}
	return w, nil
}

func lookup(name string) (int, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if len(name) >= 3 {
		for i, d := range order {
			if strings.HasPrefix(strings.ToLower(d.String()), name) {
				return i, nil
			}
		}
	}
	return 0, fmt.Errorf("%w: unknown weekday %q", ErrInvalidSchedule, name)
}

func abbrev(d time.Weekday) string {
	return d.String()[:3]
}
