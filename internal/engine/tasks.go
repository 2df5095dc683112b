package engine

import (
	"sort"
	"sync/atomic"
	"time"

	"github.com/puzpuzpuz/xsync/v3"
)

// Task describes one in-flight effect.
type Task struct {
	ID      uint64
	Flow    string
	Effect  string
	Started time.Time
}

// taskRegistry tracks effect tasks from hand-off until the handler returns.
// Written from the owner goroutine, cleared from task goroutines.
type taskRegistry struct {
	seq   atomic.Uint64
	tasks *xsync.MapOf[uint64, Task]
}

func newTaskRegistry() *taskRegistry {
	return &taskRegistry{tasks: xsync.NewMapOf[uint64, Task]()}
}

func (r *taskRegistry) start(flow, effect string) Task {
	t := Task{
		ID:      r.seq.Add(1),
		Flow:    flow,
		Effect:  effect,
		Started: time.Now(),
	}
	r.tasks.Store(t.ID, t)
	return t
}

func (r *taskRegistry) finish(id uint64) {
	r.tasks.Delete(id)
}

func (r *taskRegistry) size() int {
	return r.tasks.Size()
}

// snapshot returns in-flight tasks in hand-off order.
func (r *taskRegistry) snapshot() []Task {
	out := make([]Task, 0, r.tasks.Size())
	r.tasks.Range(func(_ uint64, t Task) bool {
		out = append(out, t)
		return true
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
