package store

import (
	"database/sql"
	"fmt"
	"time"
)

// AppendSample records a tick of duration seconds that started at at. A tick
// running past midnight is stored as one sample per date.
func (s *Store) AppendSample(at time.Time, duration int64) error {
	parts := SplitSample(at, duration)
	if len(parts) == 1 {
		return wrap("append sample", insertSample(s.db, parts[0]))
	}
	return wrap("append sample", s.withTx(func(tx *sql.Tx) error {
		for _, p := range parts {
			if err := insertSample(tx, p); err != nil {
				return err
			}
		}
		return nil
	}))
}

// SplitSample cuts a tick starting at at into pieces that each stay within
// one date. The first piece always starts at at.
func SplitSample(at time.Time, duration int64) []Sample {
	var parts []Sample
	for {
		next := time.Date(at.Year(), at.Month(), at.Day()+1, 0, 0, 0, 0, at.Location())
		left := int64(next.Sub(at) / time.Second)
		if duration <= left {
			return append(parts, Sample{Date: DateOf(at), Start: at, Duration: duration})
		}
		parts = append(parts, Sample{Date: DateOf(at), Start: at, Duration: left})
		at, duration = next, duration-left
	}
}

type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

func insertSample(db execer, sm Sample) error {
	_, err := db.Exec(
		`INSERT INTO samples (date, time, duration) VALUES (?, ?, ?)`,
		sm.Date, sm.Start.Format(TimeLayout), sm.Duration,
	)
	return err
}

// SumSamples returns the seconds recorded for date, 0 when there are none.
func (s *Store) SumSamples(date string) (int64, error) {
	var total sql.NullInt64
	err := s.db.QueryRow(
		`SELECT COALESCE(SUM(duration), 0) FROM samples WHERE date = ?`, date,
	).Scan(&total)
	if err != nil {
		return 0, wrap("sum samples", err)
	}
	return total.Int64, nil
}

// SampleDatesBefore lists, ascending, every date earlier than before that
// still holds raw samples.
func (s *Store) SampleDatesBefore(before string) ([]string, error) {
	rows, err := s.db.Query(
		`SELECT DISTINCT date FROM samples WHERE date < ? ORDER BY date`, before,
	)
	if err != nil {
		return nil, wrap("list sample dates", err)
	}
	defer rows.Close()

	var dates []string
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, wrap("scan sample date", err)
		}
		dates = append(dates, d)
	}
	return dates, wrap("list sample dates", rows.Err())
}

// Samples returns the raw samples of date ordered by time. Every call
// re-runs the query.
func (s *Store) Samples(date string) ([]Sample, error) {
	rows, err := s.db.Query(
		`SELECT date, time, duration FROM samples WHERE date = ? ORDER BY time, rowid`, date,
	)
	if err != nil {
		return nil, wrap("list samples", err)
	}
	defer rows.Close()

	var samples []Sample
	for rows.Next() {
		var sm Sample
		var clock string
		if err := rows.Scan(&sm.Date, &clock, &sm.Duration); err != nil {
			return nil, wrap("scan sample", err)
		}
		if sm.Start, err = parseStamp(sm.Date, clock); err != nil {
			return nil, wrap("parse sample time", fmt.Errorf("%s %s: %w", sm.Date, clock, err))
		}
		samples = append(samples, sm)
	}
	return samples, wrap("list samples", rows.Err())
}

// DeleteSamples removes every raw sample of date.
func (s *Store) DeleteSamples(date string) error {
	return wrap("delete samples", s.withTx(func(tx *sql.Tx) error {
		return deleteSamples(tx, date)
	}))
}

func deleteSamples(tx *sql.Tx, date string) error {
	if _, err := tx.Exec(`DELETE FROM samples WHERE date = ?`, date); err != nil {
		return fmt.Errorf("delete samples of %s: %w", date, err)
	}
	return nil
}
