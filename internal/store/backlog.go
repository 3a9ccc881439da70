package store

import (
	"database/sql"
	"fmt"
)

// InsertBacklogAndBalance stores the compacted intervals of date together
// with its balance row in one transaction. A day with nothing worked gets no
// balance row.
func (s *Store) InsertBacklogAndBalance(date string, intervals []BacklogInterval, total int64) error {
	return wrap("insert backlog", s.withTx(func(tx *sql.Tx) error {
		return insertBacklogAndBalance(tx, date, intervals, total)
	}))
}

// CommitCompaction folds date into the ledger: backlog rows and the balance
// row are inserted and the raw samples deleted, all or nothing.
func (s *Store) CommitCompaction(date string, intervals []BacklogInterval, total int64) error {
	return wrap("commit compaction", s.withTx(func(tx *sql.Tx) error {
		if err := insertBacklogAndBalance(tx, date, intervals, total); err != nil {
			return err
		}
		return deleteSamples(tx, date)
	}))
}

func insertBacklogAndBalance(tx *sql.Tx, date string, intervals []BacklogInterval, total int64) error {
	var existing int
	if err := tx.QueryRow(`SELECT COUNT(*) FROM balance WHERE date = ?`, date).Scan(&existing); err != nil {
		return fmt.Errorf("check balance of %s: %w", date, err)
	}
	if existing > 0 {
		return fmt.Errorf("%s: %w", date, ErrAlreadyCompacted)
	}

	for _, iv := range intervals {
		if !iv.End.After(iv.Start) {
			return fmt.Errorf("interval %s-%s of %s is empty", iv.Start.Format(TimeLayout), iv.End.Format(TimeLayout), date)
		}
		_, err := tx.Exec(
			`INSERT INTO backlog (date, start, "end", duration) VALUES (?, ?, ?, ?)`,
			date, iv.Start.Format(TimeLayout), iv.End.Format(TimeLayout), iv.Duration,
		)
		if err != nil {
			return fmt.Errorf("insert backlog interval: %w", err)
		}
	}

	if total <= 0 {
		return nil
	}
	if _, err := tx.Exec(`INSERT INTO balance (date, seconds_worked) VALUES (?, ?)`, date, total); err != nil {
		return fmt.Errorf("insert balance: %w", err)
	}
	return nil
}

// Balance returns the seconds worked on a compacted date. ok is false when
// the date was never compacted or had no qualifying work.
func (s *Store) Balance(date string) (seconds int64, ok bool, err error) {
	err = s.db.QueryRow(`SELECT seconds_worked FROM balance WHERE date = ?`, date).Scan(&seconds)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, wrap("read balance", err)
	}
	return seconds, true, nil
}

// Balances lists the balance rows with from <= date < to, ascending.
func (s *Store) Balances(from, to string) ([]DayBalance, error) {
	rows, err := s.db.Query(
		`SELECT date, seconds_worked FROM balance WHERE date >= ? AND date < ? ORDER BY date`,
		from, to,
	)
	if err != nil {
		return nil, wrap("list balances", err)
	}
	defer rows.Close()

	var balances []DayBalance
	for rows.Next() {
		var b DayBalance
		if err := rows.Scan(&b.Date, &b.SecondsWorked); err != nil {
			return nil, wrap("scan balance", err)
		}
		balances = append(balances, b)
	}
	return balances, wrap("list balances", rows.Err())
}

// Backlog returns the compacted intervals of date ordered by start.
func (s *Store) Backlog(date string) ([]BacklogInterval, error) {
	// date+"\x00" is the smallest string sorting after date.
	return s.BacklogRange(date, date+"\x00")
}

// BacklogRange returns the compacted intervals with from <= date < to,
// ordered by date and start.
func (s *Store) BacklogRange(from, to string) ([]BacklogInterval, error) {
	rows, err := s.db.Query(
		`SELECT date, start, "end", duration FROM backlog
		 WHERE date >= ? AND date < ?
		 ORDER BY date, start, rowid`,
		from, to,
	)
	if err != nil {
		return nil, wrap("list backlog", err)
	}
	defer rows.Close()

	var intervals []BacklogInterval
	for rows.Next() {
		var iv BacklogInterval
		var start, end string
		if err := rows.Scan(&iv.Date, &start, &end, &iv.Duration); err != nil {
			return nil, wrap("scan backlog", err)
		}
		if iv.Start, err = parseStamp(iv.Date, start); err != nil {
			return nil, wrap("parse backlog start", err)
		}
		if iv.End, err = parseStamp(iv.Date, end); err != nil {
			return nil, wrap("parse backlog end", err)
		}
		intervals = append(intervals, iv)
	}
	return intervals, wrap("list backlog", rows.Err())
}
