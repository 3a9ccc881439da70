package store

import "errors"

// ErrAlreadyCompacted is returned when a day already has a balance row.
var ErrAlreadyCompacted = errors.New("day already compacted")

// Error wraps every failure surfaced by the store. Callers that only care
// whether the ledger failed can test with errors.As.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	return "store: " + e.Op + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Err: err}
}
