package report

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sadopc/checkclock/internal/engine"
	"github.com/sadopc/checkclock/internal/store"
)

func at(t *testing.T, stamp string) time.Time {
	t.Helper()
	v, err := time.ParseInLocation("2006-01-02 15:04:05", stamp, time.Local)
	require.NoError(t, err)
	return v
}

// newEngine returns an engine whose clock reads *now. Samples are added
// straight to the store.
func newEngine(t *testing.T, now *time.Time) (*engine.Engine, *store.Store) {
	t.Helper()
	s, err := store.NewMemory()
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	e, err := engine.New(s, engine.Config{
		TickLength:     60,
		AvgWorkingTime: 2 * 3600,
		WorkingDays:    "Mon-Fri",
		MergeGap:       300,
		MinDuration:    60,
	}, engine.WithClock(func() time.Time { return *now }))
	require.NoError(t, err)
	return e, s
}

func work(t *testing.T, s *store.Store, from string, minutes int) {
	t.Helper()
	start := at(t, from)
	for i := 0; i < minutes; i++ {
		require.NoError(t, s.AppendSample(start.Add(time.Duration(i)*time.Minute), 60))
	}
}

func TestBuild(t *testing.T) {
	now := at(t, "2026-10-14 12:00:00")
	e, s := newEngine(t, &now)

	// Monday: 3h in two blocks, Tuesday: nothing, Wednesday: 1h so far.
	work(t, s, "2026-10-12 08:00:00", 120)
	work(t, s, "2026-10-12 13:00:00", 60)
	work(t, s, "2026-10-14 09:00:00", 60)

	r, err := Build(e, Options{Days: 5, TotalDays: 30})
	require.NoError(t, err)
	require.NoError(t, r.CompactErr)

	require.Len(t, r.Days, 2)
	mon, today := r.Days[0], r.Days[1]

	assert.Equal(t, "2026-10-12", mon.Date)
	assert.Equal(t, 2, mon.DaysBack)
	assert.Equal(t, int64(3600), mon.Balance)
	assert.Equal(t, int64(3*3600), mon.Worked)
	require.Len(t, mon.Intervals, 2)

	assert.Equal(t, "2026-10-14", today.Date)
	assert.Equal(t, int64(-3600), today.Balance)
	require.Len(t, today.Intervals, 1)

	assert.Equal(t, int64(0), r.Total)

	samples, err := s.Samples("2026-10-12")
	require.NoError(t, err)
	assert.Empty(t, samples, "building a report compacts past days")
}

func TestBuildMinDuration(t *testing.T) {
	now := at(t, "2026-10-14 12:00:00")
	e, s := newEngine(t, &now)
	work(t, s, "2026-10-14 09:00:00", 10)

	r, err := Build(e, Options{Days: 1, TotalDays: 1, MinDuration: 3600})
	require.NoError(t, err)
	assert.Empty(t, r.Days, "today is below the minimum")
	assert.Equal(t, int64(0), r.Total)
}

func TestString(t *testing.T) {
	day := at(t, "2021-01-19 00:00:00")
	r := &Report{
		Days: []Day{
			{
				Date:    "2021-01-19",
				Balance: 90 * 60,
				Intervals: []store.BacklogInterval{
					{Start: day.Add(8 * time.Hour), End: day.Add(12*time.Hour + 30*time.Minute), Duration: 4*3600 + 30*60},
				},
			},
			{Date: "2021-01-20", Balance: -3600},
		},
		Total: 30 * 60,
	}

	want := strings.Join([]string{
		"2021-01-19: 1:30",
		" 08:00 - 12:30: 4:30",
		"-----",
		"2021-01-20: -1:00",
		"========================",
		"total balance: 0:30",
		"",
	}, "\n")
	assert.Equal(t, want, r.String())
}

type failingSource struct {
	*engine.Engine
}

func (failingSource) Compact() error { return errors.New("disk full") }

func TestBuildKeepsCompactionError(t *testing.T) {
	now := at(t, "2026-10-14 12:00:00")
	e, _ := newEngine(t, &now)

	r, err := Build(failingSource{e}, Options{Days: 2, TotalDays: 2})
	require.NoError(t, err)
	assert.EqualError(t, r.CompactErr, "disk full")
}
