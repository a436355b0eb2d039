package loop

import (
	"context"
	"testing"
	"time"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func TestManual_FiresInOrder(t *testing.T) {
	m := NewManual(epoch)
	var order []string

	m.AfterFunc(300*time.Millisecond, func() { order = append(order, "c") })
	m.AfterFunc(100*time.Millisecond, func() { order = append(order, "a") })
	m.AfterFunc(200*time.Millisecond, func() { order = append(order, "b") })

	m.Advance(250 * time.Millisecond)
	if len(order) != 2 || order[0] != "a" || order[1] != "b" {
		t.Fatalf("after 250ms order = %v, want [a b]", order)
	}
	if got := m.Now().Sub(epoch); got != 250*time.Millisecond {
		t.Errorf("Now() advanced by %v, want 250ms", got)
	}

	m.Advance(time.Second)
	if len(order) != 3 || order[2] != "c" {
		t.Errorf("order = %v, want [a b c]", order)
	}
}

func TestManual_CallbackSeesDueTime(t *testing.T) {
	m := NewManual(epoch)
	var at time.Time
	m.AfterFunc(400*time.Millisecond, func() { at = m.Now() })

	m.Advance(time.Second)
	if want := epoch.Add(400 * time.Millisecond); !at.Equal(want) {
		t.Errorf("callback saw %v, want %v", at, want)
	}
}

func TestManual_NestedScheduling(t *testing.T) {
	m := NewManual(epoch)
	fired := 0
	m.AfterFunc(100*time.Millisecond, func() {
		m.AfterFunc(100*time.Millisecond, func() { fired++ })
	})

	m.Advance(150 * time.Millisecond)
	if fired != 0 {
		t.Fatalf("nested timer fired early")
	}
	m.Advance(50 * time.Millisecond)
	if fired != 1 {
		t.Errorf("nested timer fired %d times, want 1", fired)
	}
}

func TestManual_Stop(t *testing.T) {
	m := NewManual(epoch)
	fired := false
	timer := m.AfterFunc(time.Second, func() { fired = true })

	if !timer.Stop() {
		t.Error("Stop() on pending timer = false, want true")
	}
	if timer.Stop() {
		t.Error("second Stop() = true, want false")
	}
	m.Advance(2 * time.Second)
	if fired {
		t.Error("stopped timer fired")
	}
	if m.Pending() != 0 {
		t.Errorf("Pending() = %d, want 0", m.Pending())
	}
}

func TestTaskGroup_ScheduleReplaces(t *testing.T) {
	m := NewManual(epoch)
	g := NewTaskGroup(m)
	var got []string

	g.Schedule("play", 100*time.Millisecond, func() { got = append(got, "first") })
	g.Schedule("play", 200*time.Millisecond, func() { got = append(got, "second") })

	if g.Len() != 1 {
		t.Errorf("Len() = %d, want 1", g.Len())
	}
	m.Advance(time.Second)
	if len(got) != 1 || got[0] != "second" {
		t.Errorf("fired %v, want [second]", got)
	}
	if g.Pending("play") {
		t.Error("task still pending after firing")
	}
}

func TestTaskGroup_CancelAll(t *testing.T) {
	m := NewManual(epoch)
	g := NewTaskGroup(m)
	fired := 0

	g.Schedule("a", 100*time.Millisecond, func() { fired++ })
	g.Schedule("b", 200*time.Millisecond, func() { fired++ })
	gen := g.Generation()

	g.CancelAll()
	if g.Generation() != gen+1 {
		t.Errorf("Generation() = %d, want %d", g.Generation(), gen+1)
	}
	m.Advance(time.Second)
	if fired != 0 {
		t.Errorf("%d cancelled tasks fired", fired)
	}
}

// staleScheduler hands out timers that never stop, mimicking a real timer whose callback was
// already queued when Stop was called.
type staleScheduler struct {
	*Manual
}

type unstoppable struct{}

func (unstoppable) Stop() bool { return false }

func (s staleScheduler) AfterFunc(d time.Duration, fn func()) Timer {
	s.Manual.AfterFunc(d, fn)
	return unstoppable{}
}

func TestTaskGroup_StaleCallbackIgnored(t *testing.T) {
	m := NewManual(epoch)
	g := NewTaskGroup(staleScheduler{m})
	var got []string

	g.Schedule("retry", 100*time.Millisecond, func() { got = append(got, "old") })
	g.CancelAll()
	g.Schedule("retry", 100*time.Millisecond, func() { got = append(got, "new") })

	m.Advance(time.Second)
	if len(got) != 1 || got[0] != "new" {
		t.Errorf("fired %v, want [new]", got)
	}
}

func TestLoop_RunsPostedAndTimers(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	l := New(8)
	go l.Run(ctx)

	ran := make(chan string, 2)
	l.Post(func() { ran <- "posted" })
	l.AfterFunc(10*time.Millisecond, func() { ran <- "timer" })

	for _, want := range []string{"posted", "timer"} {
		select {
		case got := <-ran:
			if got != want {
				t.Errorf("got %q, want %q", got, want)
			}
		case <-time.After(time.Second):
			t.Fatalf("timed out waiting for %q", want)
		}
	}

	value := 0
	if !l.Do(func() { value = 42 }) {
		t.Fatal("Do() = false on running loop")
	}
	if value != 42 {
		t.Errorf("value = %d, want 42", value)
	}

	cancel()
	<-l.Done()
	if l.Post(func() {}) {
		t.Error("Post() after stop = true, want false")
	}
}
