package system

import (
	"time"

	"github.com/uogo/server/internal/combat"
	coresys "github.com/uogo/server/internal/core/system"
)

// PulseSystem advances the global swing scheduler once per tick.
// Phase 2 (Update).
type PulseSystem struct {
	pulse *combat.Pulse
}

func NewPulseSystem(p *combat.Pulse) *PulseSystem {
	return &PulseSystem{pulse: p}
}

func (s *PulseSystem) Phase() coresys.Phase { return coresys.PhaseUpdate }

func (s *PulseSystem) Update(_ time.Duration) {
	s.pulse.Tick(time.Now())
}
