package workload

import "time"

// Clock returns the current instant. Every today/past/future decision in this
// package goes through a Clock so tests can pin time.
type Clock func() time.Time

func SystemClock() Clock {
	return time.Now
}

func FixedClock(t time.Time) Clock {
	return func() time.Time { return t }
}
