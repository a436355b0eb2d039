package loop

import "time"

// Ensure Manual implements Scheduler at compile time
var _ Scheduler = (*Manual)(nil)

// Manual is a virtual-time scheduler. Callbacks only run inside Advance,
// on the calling goroutine, in due-time order.
type Manual struct {
	now    time.Time
	seq    uint64
	timers []*manualTimer
}

type manualTimer struct {
	m       *Manual
	at      time.Time
	seq     uint64
	fn      func()
	stopped bool
	fired   bool
}

// NewManual creates a manual scheduler starting at the given time
func NewManual(start time.Time) *Manual {
	return &Manual{now: start}
}

// Now returns the virtual time
func (m *Manual) Now() time.Time {
	return m.now
}

// AfterFunc schedules fn at Now()+d
func (m *Manual) AfterFunc(d time.Duration, fn func()) Timer {
	if d < 0 {
		d = 0
	}
	m.seq++
	t := &manualTimer{m: m, at: m.now.Add(d), seq: m.seq, fn: fn}
	m.timers = append(m.timers, t)
	return t
}

// Advance moves virtual time forward by d, firing every timer due on the way,
// including timers scheduled by callbacks that fall inside the window.
func (m *Manual) Advance(d time.Duration) {
	target := m.now.Add(d)
	for {
		next := m.next(target)
		if next == nil {
			break
		}
		m.remove(next)
		next.fired = true
		m.now = next.at
		next.fn()
	}
	m.now = target
}

// Pending returns the number of timers that have not fired or been stopped
func (m *Manual) Pending() int {
	return len(m.timers)
}

func (m *Manual) next(limit time.Time) *manualTimer {
	var best *manualTimer
	for _, t := range m.timers {
		if t.at.After(limit) {
			continue
		}
		if best == nil || t.at.Before(best.at) || (t.at.Equal(best.at) && t.seq < best.seq) {
			best = t
		}
	}
	return best
}

func (m *Manual) remove(t *manualTimer) {
	for i, other := range m.timers {
		if other == t {
			m.timers = append(m.timers[:i], m.timers[i+1:]...)
			return
		}
	}
}

func (t *manualTimer) Stop() bool {
	if t.fired || t.stopped {
		return false
	}
	t.stopped = true
	t.m.remove(t)
	return true
}
