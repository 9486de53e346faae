package system

import "time"

// Phase orders system execution within a single tick.
// PreUpdate swaps event buffers and fires due one-shot timers, Update runs
// game logic, PostUpdate runs lifecycle bookkeeping, Output flushes
// notifications to the presentation layer.
type Phase int

const (
	PhasePreUpdate Phase = iota
	PhaseUpdate
	PhasePostUpdate
	PhaseOutput
)

// System is one unit of per-tick work. Update is always called from the
// game loop goroutine, serialized with every other system and timer
// callback — systems never need internal locking.
type System interface {
	Phase() Phase
	Update(dt time.Duration)
}
