// Package clock provides the wall clock used outside tests.
package clock

import "time"

// SystemClock implements ports.Clock. Times are always UTC so stored
// deadlines compare the same on every instance.
type SystemClock struct{}

func NewSystemClock() SystemClock {
	return SystemClock{}
}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}
