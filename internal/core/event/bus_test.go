package event

import "testing"

type pingEvent struct{ n int }
type pongEvent struct{ n int }

func TestEventsDispatchOneTickLater(t *testing.T) {
	b := NewBus()
	var got []int
	Subscribe(b, func(ev pingEvent) { got = append(got, ev.n) })

	b.Publish(pingEvent{1})
	b.Publish(pingEvent{2})
	b.DispatchAll() // nothing promoted yet
	if len(got) != 0 {
		t.Fatalf("events delivered before swap: %v", got)
	}

	b.SwapBuffers()
	b.DispatchAll()
	if len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Fatalf("got = %v, want [1 2] in publish order", got)
	}

	// a second dispatch of the same front buffer delivers nothing
	b.DispatchAll()
	if len(got) != 2 {
		t.Fatalf("events delivered twice: %v", got)
	}
}

func TestSubscribersAreTypeScoped(t *testing.T) {
	b := NewBus()
	var pings, pongs int
	Subscribe(b, func(pingEvent) { pings++ })
	Subscribe(b, func(pongEvent) { pongs++ })

	b.Publish(pingEvent{})
	b.Publish(pongEvent{})
	b.Publish(pingEvent{})
	b.SwapBuffers()
	b.DispatchAll()

	if pings != 2 || pongs != 1 {
		t.Fatalf("pings = %d, pongs = %d, want 2 and 1", pings, pongs)
	}
}

func TestMultipleSubscribersAllDelivered(t *testing.T) {
	b := NewBus()
	var a, c int
	Subscribe(b, func(pingEvent) { a++ })
	Subscribe(b, func(pingEvent) { c++ })

	b.Publish(pingEvent{})
	b.SwapBuffers()
	b.DispatchAll()
	if a != 1 || c != 1 {
		t.Fatalf("deliveries = %d/%d, want 1/1", a, c)
	}
}

func TestPublishDuringDispatchLandsNextTick(t *testing.T) {
	b := NewBus()
	var pongs int
	Subscribe(b, func(pingEvent) { b.Publish(pongEvent{}) })
	Subscribe(b, func(pongEvent) { pongs++ })

	b.Publish(pingEvent{})
	b.SwapBuffers()
	b.DispatchAll()
	if pongs != 0 {
		t.Fatal("handler-published event delivered in the same tick")
	}

	b.SwapBuffers()
	b.DispatchAll()
	if pongs != 1 {
		t.Fatalf("pongs = %d on the next tick, want 1", pongs)
	}
}

func TestEventWithoutSubscribersIsDropped(t *testing.T) {
	b := NewBus()
	b.Publish(pingEvent{})
	b.SwapBuffers()
	b.DispatchAll() // must not panic
}
