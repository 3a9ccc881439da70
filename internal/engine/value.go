package engine

import "github.com/sadopc/checkclock/internal/durfmt"

// State is what the tracker is doing right now.
type State int

const (
	Working State = iota
	Paused
	NotWorking
)

func (s State) String() string {
	switch s {
	case Working:
		return "working"
	case Paused:
		return "paused"
	case NotWorking:
		return "not working"
	}
	return "unknown"
}

// TrackedValue is the result of GetValue. Seconds is only meaningful when
// State is Working.
type TrackedValue struct {
	State   State
	Seconds int64
}

func (v TrackedValue) String() string {
	if v.State != Working {
		return v.State.String()
	}
	return durfmt.Clock(v.Seconds)
}

// Snapshot is a copy of the engine's in-memory state.
type Snapshot struct {
	Today     string
	Duration  int64
	Paused    bool
	WorkToday bool
}
