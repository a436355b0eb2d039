package loop

import "time"

// TaskGroup tracks named scheduled tasks belonging to one context.
// Scheduling a name replaces the pending task of that name. CancelAll moves
// the group to a new generation, so callbacks captured by an older
// generation do nothing even if the scheduler already queued them.
type TaskGroup struct {
	sched Scheduler
	gen   uint64
	tasks map[string]*task
}

type task struct {
	timer Timer
	gen   uint64
}

// NewTaskGroup creates an empty task group on the scheduler
func NewTaskGroup(sched Scheduler) *TaskGroup {
	return &TaskGroup{
		sched: sched,
		tasks: make(map[string]*task),
	}
}

// Schedule runs fn after d unless the task is cancelled or replaced first
func (g *TaskGroup) Schedule(name string, d time.Duration, fn func()) {
	g.Cancel(name)

	t := &task{gen: g.gen}
	g.tasks[name] = t
	t.timer = g.sched.AfterFunc(d, func() {
		if t.gen != g.gen || g.tasks[name] != t {
			return
		}
		delete(g.tasks, name)
		fn()
	})
}

// Cancel stops the named task, reporting whether one was pending
func (g *TaskGroup) Cancel(name string) bool {
	t, ok := g.tasks[name]
	if !ok {
		return false
	}
	delete(g.tasks, name)
	if t.timer != nil {
		t.timer.Stop()
	}
	return true
}

// CancelAll stops every pending task and starts a new generation
func (g *TaskGroup) CancelAll() {
	for name, t := range g.tasks {
		if t.timer != nil {
			t.timer.Stop()
		}
		delete(g.tasks, name)
	}
	g.gen++
}

// Pending reports whether the named task is scheduled
func (g *TaskGroup) Pending(name string) bool {
	_, ok := g.tasks[name]
	return ok
}

// Len returns the number of pending tasks
func (g *TaskGroup) Len() int {
	return len(g.tasks)
}

// Generation returns the current generation counter
func (g *TaskGroup) Generation() uint64 {
	return g.gen
}
