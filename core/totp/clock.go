package totp

import "time"

const (
	// Period is the fixed code validity window.
	Period = 30 * time.Second
	// Digits is the fixed length of a generated code.
	Digits = 6

	periodSeconds = int64(Period / time.Second)
)

// CurrentStep returns the time-step counter for the current wall-clock time.
func CurrentStep() uint64 {
	return StepAt(time.Now())
}

// StepAt returns the time-step counter for t: elapsed 30-second windows
// since the Unix epoch. Two instants inside the same window yield the same
// step.
func StepAt(t time.Time) uint64 {
	return uint64(t.Unix() / periodSeconds)
}

// RemainingSeconds returns the seconds left in the current window.
func RemainingSeconds() int {
	return RemainingAt(time.Now())
}

// RemainingAt returns the seconds left in the window containing t, always in
// (0, 30]. The boundary instant itself belongs to the fresh window, so a
// full 30 is reported rather than 0.
func RemainingAt(t time.Time) int {
	return int(periodSeconds - t.Unix()%periodSeconds)
}
