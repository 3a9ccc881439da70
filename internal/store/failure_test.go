package store

import (
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return &Store{db: db}, mock
}

func TestCommitCompaction_DeleteFailureRollsBack(t *testing.T) {
	s, mock := newMockStore(t)
	start := time.Date(2021, 1, 19, 10, 0, 0, 0, time.Local)
	iv := []BacklogInterval{{Date: "2021-01-19", Start: start, End: start.Add(time.Minute), Duration: 60}}

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM balance`).
		WithArgs("2021-01-19").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec(`INSERT INTO backlog`).
		WithArgs("2021-01-19", "10:00:00", "10:01:00", int64(60)).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`INSERT INTO balance`).
		WithArgs("2021-01-19", int64(60)).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`DELETE FROM samples`).
		WithArgs("2021-01-19").
		WillReturnError(errors.New("disk I/O error"))
	mock.ExpectRollback()

	err := s.CommitCompaction("2021-01-19", iv, 60)
	if err == nil {
		t.Fatal("expected error")
	}
	var storeErr *Error
	if !errors.As(err, &storeErr) {
		t.Fatalf("expected *store.Error, got %T", err)
	}
	if storeErr.Op != "commit compaction" {
		t.Errorf("got op %q", storeErr.Op)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestCommitCompaction_CommitFailure(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM balance`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec(`DELETE FROM samples`).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectCommit().WillReturnError(errors.New("database is locked"))

	if err := s.CommitCompaction("2021-01-19", nil, 0); err == nil {
		t.Fatal("expected commit error to surface")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestAppendSample_Failure(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectExec(`INSERT INTO samples`).
		WithArgs("2021-01-19", "10:00:00", int64(60)).
		WillReturnError(errors.New("readonly database"))

	err := s.AppendSample(time.Date(2021, 1, 19, 10, 0, 0, 0, time.Local), 60)
	var storeErr *Error
	if !errors.As(err, &storeErr) {
		t.Fatalf("expected *store.Error, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestSetPaused_Failure(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectExec(`UPDATE paused SET state = \?`).
		WithArgs(false).
		WillReturnError(errors.New("readonly database"))

	err := s.SetPaused(false)
	var storeErr *Error
	if !errors.As(err, &storeErr) || storeErr.Op != "set paused" {
		t.Fatalf("expected *store.Error for set paused, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}
