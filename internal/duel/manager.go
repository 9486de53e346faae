package duel

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/uogo/server/internal/config"
	"github.com/uogo/server/internal/core/event"
	"github.com/uogo/server/internal/core/sched"
	"github.com/uogo/server/internal/world"
)

var (
	// ErrNoChallenge rejects accept/decline with nothing outstanding.
	ErrNoChallenge = errors.New("no pending challenge")
	// ErrBusy rejects a challenge when either party already has a
	// pending challenge or an active duel.
	ErrBusy = errors.New("participant busy")
	// ErrArenaBusy rejects a duel in an arena with an active context.
	ErrArenaBusy = errors.New("arena in use")
	// ErrWagerTooHigh rejects a wager above the configured cap.
	ErrWagerTooHigh = errors.New("wager above maximum")
	// ErrBadParticipants rejects team setup with missing or dead actors.
	ErrBadParticipants = errors.New("invalid participants")
)

// Record is the archived outcome of one completed duel.
type Record struct {
	DuelID     uuid.UUID
	Arena      string
	Type       string
	Ruleset    string
	Wager      int64
	LootOnly   bool
	WinnerTeam int // -1 for a draw
	Duration   time.Duration
	Players    []PlayerRecord
}

// PlayerRecord is one participant's line in the archive.
type PlayerRecord struct {
	MobileID int32
	Team     int
	Kills    int
	Deaths   int
	Winner   bool
}

// Archiver stores completed duel statistics. Optional; a nil archiver
// skips archiving.
type Archiver interface {
	ArchiveDuel(rec Record)
}

// Manager drives the duel lifecycle: challenge → countdown → fight →
// settlement. All methods run on the game loop goroutine; concurrent
// disconnects therefore appear as ordinary calls between ticks, and any
// missing or deleted entity resolves to a silent no-op rather than an
// error.
type Manager struct {
	log    *zap.Logger
	bus    *event.Bus
	ws     *world.State
	q      *sched.Queue
	escrow Escrow
	arch   Archiver
	cfg    config.DuelConfig

	rulesets map[string]Ruleset
	defaults Ruleset

	pending  map[int32]*PendingChallenge // keyed by the challenged actor
	byArena  map[string]*Context
	byMember map[int32]*Context
}

func NewManager(log *zap.Logger, bus *event.Bus, ws *world.State, q *sched.Queue, escrow Escrow, arch Archiver, cfg config.DuelConfig) *Manager {
	std := StandardRules{}
	return &Manager{
		log:    log,
		bus:    bus,
		ws:     ws,
		q:      q,
		escrow: escrow,
		arch:   arch,
		cfg:    cfg,
		rulesets: map[string]Ruleset{
			std.Name():          std,
			SphereRules{}.Name(): SphereRules{},
		},
		defaults: std,
		pending:  make(map[int32]*PendingChallenge),
		byArena:  make(map[string]*Context),
		byMember: make(map[int32]*Context),
	}
}

// Active returns the duel a mobile is fighting in, nil when none.
func (m *Manager) Active(id int32) *Context {
	return m.byMember[id]
}

// PendingFor returns the challenge outstanding against a mobile.
func (m *Manager) PendingFor(id int32) *PendingChallenge {
	return m.pending[id]
}

// IssueChallenge escrows the initiator's wager and posts a challenge
// against the target, bounded by the configured timeout. On expiry the
// wager is refunded and the challenge cleared.
func (m *Manager) IssueChallenge(initiator, target *world.Mobile, wager int64, lootOnly bool, arena string, stoneID int32, now time.Time) error {
	if !initiator.Alive() || !target.Alive() || initiator.ID == target.ID {
		return ErrBadParticipants
	}
	if m.cfg.MaxWager > 0 && wager > m.cfg.MaxWager {
		return ErrWagerTooHigh
	}
	if m.pending[target.ID] != nil || m.byMember[initiator.ID] != nil || m.byMember[target.ID] != nil {
		return ErrBusy
	}
	if m.initiatorHasPending(initiator.ID) {
		return ErrBusy
	}
	ref := uuid.New()
	if !lootOnly {
		if err := m.escrow.Debit(initiator, wager, ref); err != nil {
			return err
		}
	}
	pc := &PendingChallenge{
		InitiatorID: initiator.ID,
		TargetID:    target.ID,
		Wager:       wager,
		LootOnly:    lootOnly,
		Arena:       arena,
		StoneID:     stoneID,
		CreatedAt:   now,
	}
	targetID := target.ID
	pc.timer = m.q.After(now, m.cfg.ChallengeTimeout, func(fireNow time.Time) {
		m.expireChallenge(targetID, fireNow)
	})
	m.pending[target.ID] = pc
	m.bus.Publish(event.ChallengeIssued{
		InitiatorID: initiator.ID,
		TargetID:    target.ID,
		Wager:       wager,
		LootOnly:    lootOnly,
	})
	return nil
}

func (m *Manager) initiatorHasPending(id int32) bool {
	for _, pc := range m.pending {
		if pc.InitiatorID == id {
			return true
		}
	}
	return false
}

// expireChallenge fires on the timeout timer. The initiator is refunded
// exactly once; the challenge is no longer retrievable afterwards.
func (m *Manager) expireChallenge(targetID int32, now time.Time) {
	pc := m.pending[targetID]
	if pc == nil {
		return
	}
	delete(m.pending, targetID)
	m.refundInitiator(pc)
	m.bus.Publish(event.ChallengeExpired{
		InitiatorID: pc.InitiatorID,
		TargetID:    pc.TargetID,
	})
}

func (m *Manager) refundInitiator(pc *PendingChallenge) {
	if pc.LootOnly {
		return
	}
	// Initiator may have disconnected; a vanished mobile forfeits.
	if init := m.ws.Get(pc.InitiatorID); init != nil {
		m.escrow.Refund(init, pc.Wager, uuid.Nil)
	}
}

// DeclineChallenge clears the challenge against target and refunds the
// initiator. Declining with nothing outstanding is an error the caller
// reports to the actor.
func (m *Manager) DeclineChallenge(targetID int32, now time.Time) error {
	pc := m.pending[targetID]
	if pc == nil {
		return ErrNoChallenge
	}
	pc.timer.Cancel()
	delete(m.pending, targetID)
	m.refundInitiator(pc)
	return nil
}

// AcceptChallenge escrows the target's matching wager and creates the
// duel context, entering the countdown.
func (m *Manager) AcceptChallenge(targetID int32, now time.Time) (*Context, error) {
	pc := m.pending[targetID]
	if pc == nil {
		return nil, ErrNoChallenge
	}
	pc.timer.Cancel()
	delete(m.pending, targetID)

	initiator := m.ws.Get(pc.InitiatorID)
	target := m.ws.Get(pc.TargetID)
	if !initiator.Alive() || !target.Alive() {
		m.refundInitiator(pc)
		return nil, ErrBadParticipants
	}
	if m.byArena[pc.Arena] != nil {
		m.refundInitiator(pc)
		return nil, ErrArenaBusy
	}
	if !pc.LootOnly {
		if err := m.escrow.Debit(target, pc.Wager, uuid.Nil); err != nil {
			m.refundInitiator(pc)
			return nil, err
		}
	}
	teams := [][]int32{{initiator.ID}, {target.ID}}
	return m.startDuel(TypeSolo, teams, pc.Wager, pc.LootOnly, pc.Arena, m.defaults, now)
}

// CreateTeamDuel assembles a team duel directly (duel stones gather the
// parties before calling this). Every participant escrows the wager.
func (m *Manager) CreateTeamDuel(t Type, teams [][]int32, wager int64, lootOnly bool, arena string, rulesetName string, now time.Time) (*Context, error) {
	if m.byArena[arena] != nil {
		return nil, ErrArenaBusy
	}
	rs := m.rulesets[rulesetName]
	if rs == nil {
		rs = m.defaults
	}
	var debited []*world.Mobile
	rollback := func() {
		for _, mb := range debited {
			m.escrow.Refund(mb, wager, uuid.Nil)
		}
	}
	for _, team := range teams {
		for _, id := range team {
			mb := m.ws.Get(id)
			if !mb.Alive() || m.byMember[id] != nil {
				rollback()
				return nil, ErrBadParticipants
			}
			if !lootOnly {
				if err := m.escrow.Debit(mb, wager, uuid.Nil); err != nil {
					rollback()
					return nil, err
				}
				debited = append(debited, mb)
			}
		}
	}
	return m.startDuel(t, teams, wager, lootOnly, arena, rs, now)
}

// startDuel builds the context in Waiting and schedules the countdown.
// Escrow for all participants has already been taken.
func (m *Manager) startDuel(t Type, teams [][]int32, wager int64, lootOnly bool, arena string, rs Ruleset, now time.Time) (*Context, error) {
	ctx := &Context{
		ID:       uuid.New(),
		Arena:    arena,
		Type:     t,
		State:    StateWaiting,
		Wager:    wager,
		LootOnly: lootOnly,
		ruleset:  rs,
	}
	for team, ids := range teams {
		for _, id := range ids {
			ctx.Participants = append(ctx.Participants, &Participant{
				MobileID: id,
				Team:     team,
			})
			m.byMember[id] = ctx
		}
	}
	m.byArena[arena] = ctx
	m.transition(ctx, StateCountdown)
	m.countdownStep(ctx, m.cfg.CountdownSeconds, now)
	return ctx, nil
}

// countdownStep emits one countdown tick per second; remaining 0 starts
// the fight. The context retains the timer so teardown can cancel it.
func (m *Manager) countdownStep(ctx *Context, remaining int, now time.Time) {
	if ctx.State != StateCountdown {
		return
	}
	if remaining <= 0 {
		m.BeginDuel(ctx, now)
		return
	}
	var members []int32
	for _, p := range ctx.Participants {
		members = append(members, p.MobileID)
	}
	m.bus.Publish(event.DuelCountdownTick{DuelID: ctx.ID, Remaining: remaining, ParticipantIDs: members})
	ctx.countdownTimer = m.q.After(now, time.Second, func(fireNow time.Time) {
		m.countdownStep(ctx, remaining-1, fireNow)
	})
}

// BeginDuel prepares all participants and starts the fight clock.
func (m *Manager) BeginDuel(ctx *Context, now time.Time) {
	if ctx == nil || ctx.State != StateCountdown && ctx.State != StateWaiting {
		return
	}
	for _, p := range ctx.Participants {
		mb := m.ws.Get(p.MobileID)
		if !mb.Alive() {
			// Died or vanished during the countdown: eliminated before
			// the first blow, so the win check below can settle.
			p.Eliminated = true
			p.Deaths++
			continue
		}
		ctx.ruleset.Prepare(mb)
		p.fameAnchor = mb.Fame
		p.karmaAnchor = mb.Karma
	}
	ctx.StartedAt = now
	m.transition(ctx, StateInProgress)
	m.checkWin(ctx, now)
}

// OnDeath handles one participant death. Idempotent per participant: a
// second death event for an already-eliminated participant is a no-op.
// Non-participants and unknown IDs are silent no-ops.
func (m *Manager) OnDeath(victimID, killerID int32, now time.Time) {
	ctx := m.byMember[victimID]
	if ctx == nil || ctx.State != StateInProgress {
		return
	}
	victim := ctx.Participant(victimID)
	if victim == nil || victim.Eliminated {
		return
	}
	victim.Deaths++
	victim.Eliminated = true
	if killer := ctx.Participant(killerID); killer != nil {
		killer.Kills++
	}
	m.restoreScoring(ctx, victimID, killerID)
	m.checkWin(ctx, now)
}

// restoreScoring zeroes the fame/karma movement between the two
// combatants: both are put back on their fight-start anchors, so a
// consensual-duel kill never leaks into the broader game state.
func (m *Manager) restoreScoring(ctx *Context, victimID, killerID int32) {
	for _, id := range []int32{victimID, killerID} {
		p := ctx.Participant(id)
		if p == nil {
			continue
		}
		if mb := m.ws.Get(id); mb != nil {
			mb.Fame = p.fameAnchor
			mb.Karma = p.karmaAnchor
		}
	}
}

// checkWin partitions alive participants by team and settles when a win
// condition holds. Solo: one alive wins, zero alive is a draw. Team: a
// team wins when the opposition is empty while it is not.
func (m *Manager) checkWin(ctx *Context, now time.Time) {
	alive := ctx.aliveByTeam(m.ws)
	total := 0
	for _, n := range alive {
		total += n
	}
	switch {
	case total == 0:
		m.EndDuel(ctx, -1, now)
	case len(alive) == 1:
		for team := range alive {
			m.EndDuel(ctx, team, now)
		}
	}
}

// EndDuel settles the duel exactly once: wager payout or loot transfer
// per duel type, arena release, statistics archive. winnerTeam -1 is a
// draw (all wagers refunded). Ending a nil or already-settled context
// is a no-op.
func (m *Manager) EndDuel(ctx *Context, winnerTeam int, now time.Time) {
	if ctx == nil || ctx.State == StateEnding || ctx.State == StateCompleted {
		return
	}
	m.transition(ctx, StateEnding)
	if ctx.countdownTimer != nil {
		ctx.countdownTimer.Cancel()
		ctx.countdownTimer = nil
	}

	duration := time.Duration(0)
	if !ctx.StartedAt.IsZero() {
		duration = now.Sub(ctx.StartedAt)
	}
	m.settle(ctx, winnerTeam)

	var winnerIDs []int32
	if winnerTeam >= 0 {
		winnerIDs = ctx.teamMembers(winnerTeam)
	}
	members := make([]int32, 0, len(ctx.Participants))
	for _, p := range ctx.Participants {
		members = append(members, p.MobileID)
		delete(m.byMember, p.MobileID)
	}
	delete(m.byArena, ctx.Arena)
	m.transition(ctx, StateCompleted)

	m.bus.Publish(event.DuelEnded{
		DuelID:         ctx.ID,
		WinnerTeam:     winnerTeam,
		WinnerIDs:      winnerIDs,
		ParticipantIDs: members,
		Wager:          ctx.Wager,
		Duration:       duration,
	})
	if m.arch != nil {
		m.arch.ArchiveDuel(m.record(ctx, winnerTeam, duration))
	}
	m.log.Info("duel completed",
		zap.String("duel", ctx.ID.String()),
		zap.String("arena", ctx.Arena),
		zap.Int("winner_team", winnerTeam),
		zap.Duration("duration", duration),
	)
}

// settle moves the pot. Loot-only duels carry no gold: the loot
// transfer itself is the death system's concern, signalled by the
// DuelEnded event.
func (m *Manager) settle(ctx *Context, winnerTeam int) {
	if ctx.LootOnly || ctx.Wager <= 0 {
		return
	}
	pot := ctx.Wager * int64(len(ctx.Participants))
	if winnerTeam < 0 {
		// Draw: everyone gets their stake back.
		for _, p := range ctx.Participants {
			m.escrow.Refund(m.ws.Get(p.MobileID), ctx.Wager, ctx.ID)
		}
		return
	}
	winners := ctx.teamMembers(winnerTeam)
	if len(winners) == 0 {
		return
	}
	share := pot / int64(len(winners))
	for _, id := range winners {
		m.escrow.Payout(m.ws.Get(id), share, ctx.ID)
	}
}

func (m *Manager) record(ctx *Context, winnerTeam int, duration time.Duration) Record {
	rec := Record{
		DuelID:     ctx.ID,
		Arena:      ctx.Arena,
		Type:       ctx.Type.String(),
		Ruleset:    ctx.ruleset.Name(),
		Wager:      ctx.Wager,
		LootOnly:   ctx.LootOnly,
		WinnerTeam: winnerTeam,
		Duration:   duration,
	}
	for _, p := range ctx.Participants {
		rec.Players = append(rec.Players, PlayerRecord{
			MobileID: p.MobileID,
			Team:     p.Team,
			Kills:    p.Kills,
			Deaths:   p.Deaths,
			Winner:   winnerTeam >= 0 && p.Team == winnerTeam,
		})
	}
	return rec
}

// OnRemoved handles an actor deletion (disconnect, logout): pending
// challenges involving the actor are cleared with refunds, and an
// active duel treats the departure as an elimination.
func (m *Manager) OnRemoved(id int32, now time.Time) {
	if pc := m.pending[id]; pc != nil {
		pc.timer.Cancel()
		delete(m.pending, id)
		m.refundInitiator(pc)
	}
	for targetID, pc := range m.pending {
		if pc.InitiatorID == id {
			pc.timer.Cancel()
			delete(m.pending, targetID)
			// Initiator is gone; the escrowed wager has no owner to
			// refund and is forfeit.
		}
	}

	ctx := m.byMember[id]
	if ctx == nil {
		return
	}
	switch ctx.State {
	case StateWaiting, StateCountdown:
		// Fight never started: refund everyone and tear down.
		m.EndDuel(ctx, -1, now)
	case StateInProgress:
		if p := ctx.Participant(id); p != nil && !p.Eliminated {
			p.Eliminated = true
			p.Deaths++
			m.checkWin(ctx, now)
		}
	}
}

func (m *Manager) transition(ctx *Context, s State) {
	ctx.State = s
	m.bus.Publish(event.DuelStateChanged{DuelID: ctx.ID, State: s.String()})
}
