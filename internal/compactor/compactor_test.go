package compactor

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sadopc/checkclock/internal/merge"
	"github.com/sadopc/checkclock/internal/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.NewMemory()
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func stamp(t *testing.T, v string) time.Time {
	t.Helper()
	ts, err := time.ParseInLocation("2006-01-02 15:04:05", v, time.Local)
	require.NoError(t, err)
	return ts
}

func TestCompact(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.AppendSample(stamp(t, "2021-01-19 10:00:00"), 60))
	require.NoError(t, s.AppendSample(stamp(t, "2021-01-19 10:00:50"), 60))
	require.NoError(t, s.AppendSample(stamp(t, "2021-01-19 14:00:00"), 60))
	require.NoError(t, s.AppendSample(stamp(t, "2021-01-20 09:00:00"), 60))

	res, err := New(s, 60, 0).Compact("2021-01-19", "2021-01-20")
	require.NoError(t, err)
	assert.Equal(t, 3, res.Samples)
	require.Len(t, res.Intervals, 2)
	assert.Equal(t, stamp(t, "2021-01-19 10:01:50"), res.Intervals[0].End)
	assert.Equal(t, int64(110+60), res.Total)

	secs, ok, err := s.Balance("2021-01-19")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(170), secs)

	left, err := s.SumSamples("2021-01-19")
	require.NoError(t, err)
	assert.Zero(t, left)

	today, err := s.SumSamples("2021-01-20")
	require.NoError(t, err)
	assert.Equal(t, int64(60), today, "today's samples must not be touched")
}

func TestCompactRejectsTodayAndFuture(t *testing.T) {
	s := newTestStore(t)
	c := New(s, 60, 0)
	_, err := c.Compact("2021-01-20", "2021-01-20")
	assert.True(t, errors.Is(err, ErrInvalidTarget))
	_, err = c.Compact("2021-01-21", "2021-01-20")
	assert.True(t, errors.Is(err, ErrInvalidTarget))
}

func TestCompactTwiceIsNoop(t *testing.T) {
	s := newTestStore(t)
	for i := 0; i < 5; i++ {
		require.NoError(t, s.AppendSample(stamp(t, "2021-01-19 10:00:00").Add(time.Duration(i)*time.Second), 1))
	}
	c := New(s, 0, 0)
	_, err := c.Compact("2021-01-19", "2021-01-20")
	require.NoError(t, err)

	res, err := c.Compact("2021-01-19", "2021-01-20")
	require.NoError(t, err)
	assert.Zero(t, res.Samples)

	backlog, err := s.Backlog("2021-01-19")
	require.NoError(t, err)
	assert.Len(t, backlog, 1)
	balances, err := s.Balances("2021-01-19", "2021-01-20")
	require.NoError(t, err)
	assert.Len(t, balances, 1)
}

func TestCompactShortDayLeavesNoBalance(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.AppendSample(stamp(t, "2021-01-19 10:00:00"), 30))

	res, err := New(s, 60, 60).Compact("2021-01-19", "2021-01-20")
	require.NoError(t, err)
	assert.Empty(t, res.Intervals)

	_, ok, err := s.Balance("2021-01-19")
	require.NoError(t, err)
	assert.False(t, ok)
	left, _ := s.SumSamples("2021-01-19")
	assert.Zero(t, left)
}

type failingLedger struct {
	samples []store.Sample
	err     error
}

func (f failingLedger) Samples(string) ([]store.Sample, error) { return f.samples, nil }

func (f failingLedger) CommitCompaction(string, []store.BacklogInterval, int64) error {
	return f.err
}

func TestCompactSurfacesStoreError(t *testing.T) {
	boom := &store.Error{Op: "commit compaction", Err: errors.New("disk full")}
	ledger := failingLedger{
		samples: []store.Sample{{Date: "2021-01-19", Start: stamp(t, "2021-01-19 10:00:00"), Duration: 60}},
		err:     boom,
	}
	_, err := New(ledger, 60, 0).Compact("2021-01-19", "2021-01-20")
	var storeErr *store.Error
	assert.True(t, errors.As(err, &storeErr))
}

func TestIntervalsClampAtMidnight(t *testing.T) {
	day := stamp(t, "2021-01-19 00:00:00")
	merged := []merge.Interval{
		{Start: stamp(t, "2021-01-19 23:59:00"), End: stamp(t, "2021-01-20 00:00:30")},
	}
	got := Intervals("2021-01-19", merged, day)
	require.Len(t, got, 1)
	assert.Equal(t, stamp(t, "2021-01-19 23:59:59"), got[0].End)
	assert.Equal(t, int64(60), got[0].Duration, "counted up to midnight")
}

func TestCompactKeepsTickAcrossMidnight(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.AppendSample(stamp(t, "2026-10-12 23:59:30"), 60))

	res, err := New(s, 60, 0).Compact("2026-10-12", "2026-10-13")
	require.NoError(t, err)
	require.Len(t, res.Intervals, 1)
	assert.Equal(t, stamp(t, "2026-10-12 23:59:59"), res.Intervals[0].End)

	worked, ok, err := s.Balance("2026-10-12")
	require.NoError(t, err)
	require.True(t, ok)
	next, err := s.SumSamples("2026-10-13")
	require.NoError(t, err)
	assert.Equal(t, int64(30), worked)
	assert.Equal(t, int64(60), worked+next, "no recorded second is lost")
}
