package calendar

import (
	"errors"
	"testing"
	"time"
)

const allDays Weekdays = 0x7f

func TestParse(t *testing.T) {
	tests := []struct {
		expr string
		want Weekdays
	}{
		{"Mon-Fri", Of(time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday)},
		{"Tue,Wed-Sat", Of(time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday)},
		{"MON", Of(time.Monday)},
		{"sun", Of(time.Sunday)},
		{"Mon-Sun", allDays},
		{"Sat-Sun", Of(time.Saturday, time.Sunday)},
		{" mon , fri ", Of(time.Monday, time.Friday)},
		{"Monday-Wednesday", Of(time.Monday, time.Tuesday, time.Wednesday)},
		{"Mon,Mon-Tue", Of(time.Monday, time.Tuesday)},
	}
	for _, tt := range tests {
		got, err := Parse(tt.expr)
		if err != nil {
			t.Fatalf("Parse(%q): %v", tt.expr, err)
		}
		if got != tt.want {
			t.Fatalf("Parse(%q) = %s, want %s", tt.expr, got, tt.want)
		}
	}
}

func TestParseInvalid(t *testing.T) {
	for _, expr := range []string{"", " , ", "Mo", "Foo", "Fri-Mon", "Sun-Sat", "Mon-", "Mon-Xyz"} {
		_, err := Parse(expr)
		if !errors.Is(err, ErrInvalidSchedule) {
			t.Fatalf("Parse(%q): expected ErrInvalidSchedule, got %v", expr, err)
		}
	}
}

func TestStringCanonical(t *testing.T) {
	tests := []struct {
		days Weekdays
		want string
	}{
		{Of(time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday), "Mon-Fri"},
		{Of(time.Monday, time.Tuesday), "Mon,Tue"},
		{Of(time.Monday, time.Wednesday, time.Sunday), "Mon,Wed,Sun"},
		{allDays, "Mon-Sun"},
		{0, ""},
	}
	for _, tt := range tests {
		if got := tt.days.String(); got != tt.want {
			t.Fatalf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestParseIdempotent(t *testing.T) {
	// Every non-empty subset of the week survives a render/parse cycle.
	for mask := Weekdays(1); mask <= allDays; mask++ {
		again, err := Parse(mask.String())
		if err != nil {
			t.Fatalf("Parse(%q): %v", mask.String(), err)
		}
		if again != mask {
			t.Fatalf("round trip of %q gave %q", mask.String(), again.String())
		}
	}
}

func TestIsWorkingDay(t *testing.T) {
	days, err := Parse("Mon-Fri")
	if err != nil {
		t.Fatal(err)
	}
	monday := time.Date(2021, 1, 18, 12, 0, 0, 0, time.Local)
	saturday := time.Date(2021, 1, 23, 12, 0, 0, 0, time.Local)
	if !days.IsWorkingDay(monday) {
		t.Fatal("monday should be a working day")
	}
	if days.IsWorkingDay(saturday) {
		t.Fatal("saturday should not be a working day")
	}
	if days != Of(time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday) {
		t.Fatalf("unexpected set %s", days)
	}
}
