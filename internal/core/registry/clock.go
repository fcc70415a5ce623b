package registry

import "time"

// Clock supplies publish timestamps. The hosting environment owns time; the
// registry only records what the clock reports at the moment of a publish.
type Clock interface {
	// Now returns the current time as Unix seconds.
	Now() uint64
}

type systemClock struct{}

func (systemClock) Now() uint64 {
	return uint64(time.Now().Unix())
}

// SystemClock returns a Clock backed by wall-clock time.
func SystemClock() Clock {
	return systemClock{}
}

// FakeClock is a manually advanced clock for tests.
type FakeClock struct {
	now uint64
}

// NewFakeClock creates a FakeClock starting at the given Unix second.
func NewFakeClock(start uint64) *FakeClock {
	return &FakeClock{now: start}
}

// Now returns the current fake time.
func (c *FakeClock) Now() uint64 {
	return c.now
}

// Advance moves the fake time forward by d seconds.
func (c *FakeClock) Advance(d uint64) {
	c.now += d
}
