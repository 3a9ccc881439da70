// Package durfmt formats tracked seconds for people.
package durfmt

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrNegative is returned by Split for negative durations.
var ErrNegative = errors.New("negative duration")

// Split breaks seconds into hours, minutes and seconds. Hours are not
// wrapped at 24.
func Split(seconds int64) (h, m, s int64, err error) {
	if seconds < 0 {
		return 0, 0, 0, fmt.Errorf("%w: %d", ErrNegative, seconds)
	}
	return seconds / 3600, seconds / 60 % 60, seconds % 60, nil
}

// Join is the inverse of Split.
func Join(h, m, s int64) int64 {
	return h*3600 + m*60 + s
}

// Clock renders seconds as HH:MM:SS. Negative values get a leading minus.
func Clock(seconds int64) string {
	sign := ""
	if seconds < 0 {
		sign, seconds = "-", -seconds
	}
	h, m, s, _ := Split(seconds)
	return fmt.Sprintf("%s%02d:%02d:%02d", sign, h, m, s)
}

// ParseClock parses the output of Clock back into seconds.
func ParseClock(v string) (int64, error) {
	neg := strings.HasPrefix(v, "-")
	parts := strings.Split(strings.TrimPrefix(v, "-"), ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("parse clock %q: want HH:MM:SS", v)
	}
	var n [3]int64
	for i, p := range parts {
		x, err := strconv.ParseInt(p, 10, 64)
		if err != nil || x < 0 || (i > 0 && x > 59) {
			return 0, fmt.Errorf("parse clock %q: bad field %q", v, p)
		}
		n[i] = x
	}
	total := Join(n[0], n[1], n[2])
	if neg {
		total = -total
	}
	return total, nil
}

// HoursMinutes renders a signed balance as H:MM, truncating seconds,
// e.g. "1:10" or "-37:10".
func HoursMinutes(seconds int64) string {
	sign := ""
	if seconds < 0 {
		sign, seconds = "-", -seconds
	}
	h, m, _, _ := Split(seconds)
	return fmt.Sprintf("%s%d:%02d", sign, h, m)
}
