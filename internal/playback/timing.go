package playback

import "time"

// Timing holds the delays of the snippet playback protocol
type Timing struct {
	MinPlayDelay    time.Duration // shortest wait before the first play attempt
	TargetLoadDelay time.Duration // wait measured from the last load
	RetryDelay      time.Duration // retry offset after the first attempt
	PlayTimeout     time.Duration // bound from request to confirmed playback
	StopRetryDelay  time.Duration // grace before pausing a second time
	InitTimeout     time.Duration // readiness window of the player
	TickInterval    time.Duration // countdown progress interval
	DefaultOffset   time.Duration // seek offset for tracks without safe offsets
}

// DefaultTiming returns the standard protocol delays
func DefaultTiming() Timing {
	return Timing{
		MinPlayDelay:    300 * time.Millisecond,
		TargetLoadDelay: 1000 * time.Millisecond,
		RetryDelay:      2000 * time.Millisecond,
		PlayTimeout:     6000 * time.Millisecond,
		StopRetryDelay:  300 * time.Millisecond,
		InitTimeout:     6000 * time.Millisecond,
		TickInterval:    50 * time.Millisecond,
		DefaultOffset:   20 * time.Second,
	}
}

// withDefaults fills zero fields from DefaultTiming
func (t Timing) withDefaults() Timing {
	d := DefaultTiming()
	if t.MinPlayDelay <= 0 {
		t.MinPlayDelay = d.MinPlayDelay
	}
	if t.TargetLoadDelay <= 0 {
		t.TargetLoadDelay = d.TargetLoadDelay
	}
	if t.RetryDelay <= 0 {
		t.RetryDelay = d.RetryDelay
	}
	if t.PlayTimeout <= 0 {
		t.PlayTimeout = d.PlayTimeout
	}
	if t.StopRetryDelay <= 0 {
		t.StopRetryDelay = d.StopRetryDelay
	}
	if t.InitTimeout <= 0 {
		t.InitTimeout = d.InitTimeout
	}
	if t.TickInterval <= 0 {
		t.TickInterval = d.TickInterval
	}
	if t.DefaultOffset <= 0 {
		t.DefaultOffset = d.DefaultOffset
	}
	return t
}
