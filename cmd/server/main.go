package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/uogo/server/internal/combat"
	"github.com/uogo/server/internal/config"
	"github.com/uogo/server/internal/core/event"
	"github.com/uogo/server/internal/core/sched"
	coresys "github.com/uogo/server/internal/core/system"
	"github.com/uogo/server/internal/data"
	"github.com/uogo/server/internal/duel"
	"github.com/uogo/server/internal/persist"
	"github.com/uogo/server/internal/system"
	"github.com/uogo/server/internal/world"
)

func main() {
	configPath := flag.String("config", "config.toml", "path to config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintln(os.Stderr, "fatal:", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	log, err := buildLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer log.Sync()

	weapons, err := data.LoadWeaponTable(cfg.Data.WeaponsPath)
	if err != nil {
		return err
	}
	spells, err := data.LoadSpellTable(cfg.Data.SpellsPath)
	if err != nil {
		return err
	}
	log.Info("data tables loaded",
		zap.Int("weapons", weapons.Count()),
		zap.Int("spells", spells.Count()),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Empty DSN disables persistence: escrow runs unledgered and
	// completed duels are not archived. Useful for soak tooling.
	var ledger duel.Ledger
	var archiver duel.Archiver
	if cfg.Database.DSN != "" {
		db, err := persist.Open(ctx, cfg.Database)
		if err != nil {
			return fmt.Errorf("database: %w", err)
		}
		defer db.Close()
		wal := persist.NewWagerWAL(db, log)
		if stale, err := wal.Unreconciled(ctx); err != nil {
			return fmt.Errorf("wager wal recovery: %w", err)
		} else if len(stale) > 0 {
			log.Warn("unreconciled wager escrows found", zap.Int("count", len(stale)))
		}
		ledger = wal
		archiver = persist.NewDuelRepo(db, log)
	}

	ws := world.NewState()
	bus := event.NewBus()
	q := sched.NewQueue()

	policy := combat.PolicyFromConfig(cfg.Combat)
	var timing combat.TimingProvider
	switch cfg.Combat.TimingProvider {
	case "legacy":
		timing = combat.NewLegacyTiming(weapons, cfg.Combat.DefaultAttackIntervalMs)
	default:
		timing = combat.NewTableTiming(weapons, cfg.Combat.DefaultAttackIntervalMs)
	}

	pulse := combat.NewPulse(log, bus, q, timing, policy,
		cfg.Pulse.Tick, cfg.Pulse.IdleTimeout, cfg.Pulse.StatWindow)
	pipeline := combat.NewPipeline(log, bus, ws, q, combat.NewBaselineEffects(ws), policy)
	pulse.SetResolver(combat.NewMeleeResolver(ws, bus, weapons, pulse, pipeline))

	escrow := duel.NewGoldEscrow(ledger)
	duels := duel.NewManager(log, bus, ws, q, escrow, archiver, cfg.Duel)

	system.WireDuelLifecycle(bus, duels)
	system.WireNotifications(bus, system.ZapNotifier{Log: log})

	if err := pulse.Start(); err != nil {
		return err
	}

	loop := coresys.NewLoop(cfg.Pulse.Tick, log)
	loop.Register(system.NewEventDispatchSystem(bus))
	loop.Register(system.NewTimerSystem(q))
	loop.Register(system.NewPulseSystem(pulse))

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		log.Info("shutting down")
		cancel()
	}()

	log.Info("server started",
		zap.String("name", cfg.Server.Name),
		zap.Duration("tick", cfg.Pulse.Tick),
	)
	loop.Run(ctx)
	pulse.Stop(time.Now())
	return nil
}

func buildLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("parse log level %q: %w", cfg.Level, err)
	}
	var zc zap.Config
	if cfg.Format == "json" {
		zc = zap.NewProductionConfig()
	} else {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	return zc.Build()
}
