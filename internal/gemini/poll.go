package gemini

import "time"

// PollPolicy bounds how a long-running operation is polled.
type PollPolicy struct {
	Interval    time.Duration
	MaxAttempts int
	MaxDuration time.Duration
}

// DefaultPollPolicy polls every 10s, giving up after 60 polls or 15 minutes.
var DefaultPollPolicy = PollPolicy{
	Interval:    10 * time.Second,
	MaxAttempts: 60,
	MaxDuration: 15 * time.Minute,
}

func (p PollPolicy) withDefaults() PollPolicy {
	if p.Interval <= 0 {
		p.Interval = DefaultPollPolicy.Interval
	}
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = DefaultPollPolicy.MaxAttempts
	}
	if p.MaxDuration <= 0 {
		p.MaxDuration = DefaultPollPolicy.MaxDuration
	}
	return p
}
