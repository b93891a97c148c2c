package worker

import "time"

// RetryPolicy controls exponential backoff for failed sync tasks.
type RetryPolicy struct {
	MaxRetries    int
	InitialDelay  time.Duration
	MaxDelay      time.Duration
	BackoffFactor float64
}

// NextDelay returns the backoff delay for the given attempt (1-based).
func (p RetryPolicy) NextDelay(attempt int) time.Duration {
	if attempt <= 1 {
		return p.InitialDelay
	}

	delay := float64(p.InitialDelay)
	for i := 1; i < attempt; i++ {
		delay *= p.BackoffFactor
		if time.Duration(delay) >= p.MaxDelay {
			return p.MaxDelay
		}
	}

	d := time.Duration(delay)
	if d > p.MaxDelay {
		return p.MaxDelay
	}
	return d
}
