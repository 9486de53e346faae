package sched

import (
	"testing"
	"time"
)

func TestRunDueFiresInDeadlineOrder(t *testing.T) {
	q := NewQueue()
	base := time.Unix(0, 0)
	var fired []string

	q.Schedule(base.Add(3*time.Second), func(time.Time) { fired = append(fired, "c") })
	q.Schedule(base.Add(1*time.Second), func(time.Time) { fired = append(fired, "a") })
	q.Schedule(base.Add(2*time.Second), func(time.Time) { fired = append(fired, "b") })

	if n := q.RunDue(base); n != 0 {
		t.Fatalf("RunDue before any deadline fired %d", n)
	}
	if n := q.RunDue(base.Add(2 * time.Second)); n != 2 {
		t.Fatalf("RunDue at 2s fired %d, want 2", n)
	}
	if len(fired) != 2 || fired[0] != "a" || fired[1] != "b" {
		t.Fatalf("fired = %v, want [a b]", fired)
	}
	if n := q.RunDue(base.Add(time.Hour)); n != 1 {
		t.Fatalf("final RunDue fired %d, want 1", n)
	}
}

func TestEqualDeadlinesFireInScheduleOrder(t *testing.T) {
	q := NewQueue()
	base := time.Unix(0, 0)
	var fired []int
	for i := 0; i < 5; i++ {
		i := i
		q.Schedule(base.Add(time.Second), func(time.Time) { fired = append(fired, i) })
	}
	q.RunDue(base.Add(time.Second))
	for i, got := range fired {
		if got != i {
			t.Fatalf("fired = %v, want ascending schedule order", fired)
		}
	}
}

func TestCancelPreventsFiring(t *testing.T) {
	q := NewQueue()
	base := time.Unix(0, 0)
	ran := false
	tm := q.After(base, time.Second, func(time.Time) { ran = true })

	if !tm.Active() {
		t.Fatal("fresh timer not active")
	}
	tm.Cancel()
	tm.Cancel() // idempotent
	if tm.Active() {
		t.Fatal("cancelled timer still active")
	}
	if n := q.RunDue(base.Add(time.Minute)); n != 0 {
		t.Fatalf("cancelled timer fired, RunDue = %d", n)
	}
	if ran {
		t.Fatal("cancelled callback executed")
	}

	// nil handles are safe
	var nilTimer *Timer
	nilTimer.Cancel()
	if nilTimer.Active() {
		t.Fatal("nil timer reads active")
	}
}

func TestCallbackMaySchedule(t *testing.T) {
	q := NewQueue()
	base := time.Unix(0, 0)
	var fired []string

	q.After(base, time.Second, func(now time.Time) {
		fired = append(fired, "first")
		// due immediately: fires in the same drain
		q.Schedule(now, func(time.Time) { fired = append(fired, "chained") })
		// future: must wait
		q.After(now, time.Hour, func(time.Time) { fired = append(fired, "later") })
	})

	q.RunDue(base.Add(2 * time.Second))
	if len(fired) != 2 || fired[0] != "first" || fired[1] != "chained" {
		t.Fatalf("fired = %v, want [first chained]", fired)
	}
	if q.Pending() != 1 {
		t.Fatalf("Pending = %d, want the future timer", q.Pending())
	}
}

func TestCallbackMayCancelPeer(t *testing.T) {
	q := NewQueue()
	base := time.Unix(0, 0)
	var fired []string
	var second *Timer

	q.Schedule(base.Add(time.Second), func(time.Time) {
		fired = append(fired, "first")
		second.Cancel()
	})
	second = q.Schedule(base.Add(time.Second), func(time.Time) {
		fired = append(fired, "second")
	})

	q.RunDue(base.Add(time.Second))
	if len(fired) != 1 || fired[0] != "first" {
		t.Fatalf("fired = %v, want [first] — peer cancelled mid-drain", fired)
	}
}

func TestTimerFiresExactlyOnce(t *testing.T) {
	q := NewQueue()
	base := time.Unix(0, 0)
	count := 0
	tm := q.After(base, time.Second, func(time.Time) { count++ })

	q.RunDue(base.Add(time.Second))
	q.RunDue(base.Add(2 * time.Second))
	if count != 1 {
		t.Fatalf("callback ran %d times, want 1", count)
	}
	if tm.Active() {
		t.Fatal("fired timer still active")
	}
	tm.Cancel() // cancelling after firing is a harmless no-op
}
