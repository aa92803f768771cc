package ratelimit

import "time"

// Gate is a fixed-delay throttle placed between consecutive remote calls.
// It is a politeness measure, not a correctness one; a zero interval (or a
// stubbed sleep) disables it, which is what the tests do.
type Gate struct {
	interval time.Duration
	sleep    func(time.Duration)
}

func NewGate(interval time.Duration) *Gate {
	return &Gate{interval: interval, sleep: time.Sleep}
}

// NewStubGate returns a gate that records the waits it would have performed
// instead of sleeping.
func NewStubGate(interval time.Duration, sleep func(time.Duration)) *Gate {
	return &Gate{interval: interval, sleep: sleep}
}

// Wait blocks for the configured interval.
func (g *Gate) Wait() {
	if g == nil || g.interval <= 0 {
		return
	}
	g.sleep(g.interval)
}
