package pulse

import "time"

// DefaultPARIS is the default speed in words per minute.
const DefaultPARIS = 20

// IntervalFromPARIS returns the tick interval for a speed given in PARIS
// words per minute. "PARIS " is 50 units long.
func IntervalFromPARIS(paris int) time.Duration {
	if paris <= 0 {
		return DefaultInterval
	}

	return 60 * time.Second / time.Duration(50*paris)
}
