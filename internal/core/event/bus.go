package event

import "reflect"

// Bus is a double-buffered event bus. Publish appends to the back buffer;
// SwapBuffers promotes it at the start of the next tick and DispatchAll
// delivers to subscribers. Events emitted during tick N are therefore
// visible to subscribers at the start of tick N+1, which keeps system
// ordering independent of who emitted what.
//
// Accessed only from the game loop goroutine — no locks.
type Bus struct {
	subs map[reflect.Type][]func(any)
	back []any
	front []any
}

func NewBus() *Bus {
	return &Bus{subs: make(map[reflect.Type][]func(any))}
}

// Subscribe registers a typed handler on the bus.
func Subscribe[T any](b *Bus, fn func(T)) {
	t := reflect.TypeOf((*T)(nil)).Elem()
	b.subs[t] = append(b.subs[t], func(ev any) {
		fn(ev.(T))
	})
}

// Publish queues an event for dispatch on the next tick.
func (b *Bus) Publish(ev any) {
	b.back = append(b.back, ev)
}

// SwapBuffers promotes the back buffer to the front buffer.
func (b *Bus) SwapBuffers() {
	b.front = append(b.front[:0], b.back...)
	b.back = b.back[:0]
}

// DispatchAll delivers every front-buffer event to its subscribers.
// Handlers may Publish further events; those land in the back buffer and
// dispatch next tick.
func (b *Bus) DispatchAll() {
	for _, ev := range b.front {
		for _, fn := range b.subs[reflect.TypeOf(ev)] {
			fn(ev)
		}
	}
	b.front = b.front[:0]
}
