package jwt

import (
	"math"
	"time"
)

// Clock supplies the current time for issuance and verification.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock reads the wall clock.
var SystemClock Clock = systemClock{}

// FixedClock returns a Clock frozen at the given epoch second.
func FixedClock(epochSeconds int64) Clock {
	t := time.Unix(epochSeconds, 0)
	return ClockFunc(func() time.Time { return t })
}

func clockOrSystem(c Clock) Clock {
	if c == nil {
		return SystemClock
	}
	return c
}

// epochSeconds floors the clock reading to whole seconds.
func epochSeconds(c Clock) int64 {
	ms := clockOrSystem(c).Now().UnixMilli()
	return int64(math.Floor(float64(ms) / 1000))
}
