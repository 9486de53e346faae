package combat

import (
	"sort"
	"time"
)

// tickStats keeps a bounded window of recent tick durations plus
// lifetime counters. The window is a ring buffer so memory stays fixed
// no matter how long the server runs.
type tickStats struct {
	samples   []time.Duration
	next      int
	filled    int
	ticks     uint64
	throttles uint64
	faults    uint64
}

func newTickStats(window int) *tickStats {
	return &tickStats{samples: make([]time.Duration, window)}
}

func (s *tickStats) record(d time.Duration) {
	s.samples[s.next] = d
	s.next = (s.next + 1) % len(s.samples)
	if s.filled < len(s.samples) {
		s.filled++
	}
	s.ticks++
}

// Metrics is a read-only, point-in-time snapshot of scheduler health.
type Metrics struct {
	AvgTick    time.Duration
	MaxTick    time.Duration
	P99Tick    time.Duration
	Ticks      uint64
	Throttles  uint64
	Faults     uint64
	Combatants int
}

func (s *tickStats) snapshot(combatants int) Metrics {
	m := Metrics{
		Ticks:      s.ticks,
		Throttles:  s.throttles,
		Faults:     s.faults,
		Combatants: combatants,
	}
	if s.filled == 0 {
		return m
	}
	window := make([]time.Duration, s.filled)
	copy(window, s.samples[:s.filled])
	var sum time.Duration
	for _, d := range window {
		sum += d
		if d > m.MaxTick {
			m.MaxTick = d
		}
	}
	m.AvgTick = sum / time.Duration(s.filled)
	sort.Slice(window, func(i, j int) bool { return window[i] < window[j] })
	idx := s.filled * 99 / 100
	if idx >= s.filled {
		idx = s.filled - 1
	}
	m.P99Tick = window[idx]
	return m
}
