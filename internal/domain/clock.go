package domain

import "github.com/jonboulle/clockwork"

// clock is the package time source. Risk-record dates, mesoscale expiry
// checks, and the response timestamp all read from it, so tests can freeze
// time via SetClock and the merge output stays byte-identical across runs.
var clock = clockwork.NewRealClock()

// SetClock swaps the time source. Pass nil to restore the real clock.
func SetClock(c clockwork.Clock) {
	if c == nil {
		clock = clockwork.NewRealClock()
		return
	}
	clock = c
}
