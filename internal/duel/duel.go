package duel

import (
	"time"

	"github.com/google/uuid"

	"github.com/uogo/server/internal/core/sched"
	"github.com/uogo/server/internal/world"
)

// State is the duel lifecycle position.
type State int

const (
	StatePending State = iota // challenge outstanding
	StateWaiting              // accepted, pre-countdown
	StateCountdown
	StateInProgress
	StateEnding
	StateCompleted
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateWaiting:
		return "waiting"
	case StateCountdown:
		return "countdown"
	case StateInProgress:
		return "in_progress"
	case StateEnding:
		return "ending"
	case StateCompleted:
		return "completed"
	}
	return "unknown"
}

// Type distinguishes solo duels from team variants.
type Type int

const (
	TypeSolo Type = iota
	TypeTeam2v2
)

func (t Type) String() string {
	switch t {
	case TypeSolo:
		return "solo"
	case TypeTeam2v2:
		return "team_2v2"
	}
	return "unknown"
}

// Participant is one combatant inside a duel context. Mutated only by
// the lifecycle manager in response to death and kill events.
type Participant struct {
	MobileID   int32
	Team       int
	Kills      int
	Deaths     int
	Eliminated bool

	// Scoring anchors taken when the fight starts; restored on every
	// consensual-duel death so duels never move fame or karma.
	fameAnchor  int
	karmaAnchor int
}

// Context is one arena duel. Exactly one context may be active per
// arena; a participant belongs to at most one active context.
type Context struct {
	ID           uuid.UUID
	Arena        string
	Type         Type
	Participants []*Participant
	State        State
	Wager        int64
	LootOnly     bool
	StartedAt    time.Time

	ruleset        Ruleset
	countdownTimer *sched.Timer
}

// Participant returns the entry for a mobile ID, nil when not a member.
func (c *Context) Participant(id int32) *Participant {
	for _, p := range c.Participants {
		if p.MobileID == id {
			return p
		}
	}
	return nil
}

// aliveByTeam counts non-eliminated, alive, non-deleted participants
// per team. Participants whose mobile has vanished count as gone.
func (c *Context) aliveByTeam(ws *world.State) map[int]int {
	alive := make(map[int]int)
	for _, p := range c.Participants {
		if p.Eliminated {
			continue
		}
		if !ws.Get(p.MobileID).Alive() {
			continue
		}
		alive[p.Team]++
	}
	return alive
}

// teamMembers returns the IDs on one team.
func (c *Context) teamMembers(team int) []int32 {
	var out []int32
	for _, p := range c.Participants {
		if p.Team == team {
			out = append(out, p.MobileID)
		}
	}
	return out
}

// PendingChallenge is an outstanding duel invitation, keyed by the
// challenged actor. Lifetime is bounded by the challenge timeout; the
// timer token is retained so accept, decline and disconnect can all
// cancel it before it fires.
type PendingChallenge struct {
	InitiatorID int32
	TargetID    int32
	Wager       int64
	LootOnly    bool
	Arena       string
	StoneID     int32 // originating duel stone, 0 when issued directly
	CreatedAt   time.Time

	timer *sched.Timer
}
