// Package sched provides one-shot timers that fire on the game loop
// goroutine. Cast delays, challenge timeouts and duel countdowns are all
// scheduled here instead of on time.AfterFunc, so every callback runs
// serialized with the pulse and all game-state mutation — no locking in
// the callbacks, and no callback can observe a half-updated tick.
package sched

import (
	"container/heap"
	"time"
)

// Timer is a cancellable handle to one scheduled callback. The owning
// entity retains it and calls Cancel on every terminal transition so a
// stale callback can never fire after the entity is gone.
type Timer struct {
	at        time.Time
	seq       uint64
	fn        func(now time.Time)
	cancelled bool
	fired     bool
}

// Cancel prevents the callback from firing. Idempotent; cancelling a
// timer that already fired is a no-op.
func (t *Timer) Cancel() {
	if t == nil {
		return
	}
	t.cancelled = true
}

// Active reports whether the timer is still pending.
func (t *Timer) Active() bool {
	return t != nil && !t.cancelled && !t.fired
}

// Queue is a time-ordered timer queue drained by the game loop.
// Accessed only from the loop goroutine.
type Queue struct {
	h   timerHeap
	seq uint64
}

func NewQueue() *Queue {
	return &Queue{}
}

// Schedule registers fn to run once now reaches at. Equal deadlines fire
// in scheduling order.
func (q *Queue) Schedule(at time.Time, fn func(now time.Time)) *Timer {
	q.seq++
	t := &Timer{at: at, seq: q.seq, fn: fn}
	heap.Push(&q.h, t)
	return t
}

// After is shorthand for Schedule(now.Add(d), fn).
func (q *Queue) After(now time.Time, d time.Duration, fn func(now time.Time)) *Timer {
	return q.Schedule(now.Add(d), fn)
}

// RunDue fires every non-cancelled timer whose deadline has passed and
// returns the number fired. Callbacks may schedule or cancel further
// timers; a timer scheduled for a due instant during RunDue fires in the
// same drain.
func (q *Queue) RunDue(now time.Time) int {
	fired := 0
	for q.h.Len() > 0 {
		next := q.h[0]
		if next.at.After(now) {
			break
		}
		heap.Pop(&q.h)
		if next.cancelled {
			continue
		}
		next.fired = true
		next.fn(now)
		fired++
	}
	return fired
}

// Pending returns the number of timers still queued, counting cancelled
// entries that have not been drained yet.
func (q *Queue) Pending() int {
	return q.h.Len()
}

type timerHeap []*Timer

func (h timerHeap) Len() int { return len(h) }

func (h timerHeap) Less(i, j int) bool {
	if h[i].at.Equal(h[j].at) {
		return h[i].seq < h[j].seq
	}
	return h[i].at.Before(h[j].at)
}

func (h timerHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
}

func (h *timerHeap) Push(x any) {
	*h = append(*h, x.(*Timer))
}

func (h *timerHeap) Pop() any {
	old := *h
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return t
}
