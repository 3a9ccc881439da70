package store

import "time"

// Layouts of the date and time columns. Both are host local time.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04:05"
)

// Sample is one raw tick of work.
type Sample struct {
	Date     string
	Start    time.Time
	Duration int64 // seconds
}

// End returns the instant the sample's tick ended.
func (s Sample) End() time.Time {
	return s.Start.Add(time.Duration(s.Duration) * time.Second)
}

// BacklogInterval is a compacted, contiguous work period of a past day.
type BacklogInterval struct {
	Date     string
	Start    time.Time
	End      time.Time
	Duration int64 // seconds
}

// DayBalance is the total worked on a compacted day.
type DayBalance struct {
	Date          string
	SecondsWorked int64
}

// DateOf formats t as a ledger date.
func DateOf(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDate parses a ledger date in the local time zone.
func ParseDate(date string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, date, time.Local)
}

func parseStamp(date, clock string) (time.Time, error) {
	return time.ParseInLocation(DateLayout+" "+TimeLayout, date+" "+clock, time.Local)
}
