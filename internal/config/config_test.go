package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadMergesOverDefaults(t *testing.T) {
	path := writeConfig(t, `
[server]
name = "test-shard"

[pulse]
tick = "25ms"

[combat]
timing_provider = "legacy"
partial_mana_pct = 25

[duel]
max_wager = 10000
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Name != "test-shard" {
		t.Fatalf("server name = %q", cfg.Server.Name)
	}
	if cfg.Pulse.Tick != 25*time.Millisecond {
		t.Fatalf("tick = %v, want 25ms", cfg.Pulse.Tick)
	}
	if cfg.Combat.TimingProvider != "legacy" || cfg.Combat.PartialManaPct != 25 {
		t.Fatalf("combat = %+v", cfg.Combat)
	}
	if cfg.Duel.MaxWager != 10000 {
		t.Fatalf("max wager = %d", cfg.Duel.MaxWager)
	}

	// untouched sections keep their defaults
	if cfg.Pulse.IdleTimeout != 5*time.Second {
		t.Fatalf("idle timeout = %v, want default 5s", cfg.Pulse.IdleTimeout)
	}
	if !cfg.Combat.IndependentTimers {
		t.Fatal("independent_timers lost its default")
	}
	if cfg.Duel.CountdownSeconds != 3 {
		t.Fatalf("countdown = %d, want default 3", cfg.Duel.CountdownSeconds)
	}
	if cfg.Server.StartTime == 0 {
		t.Fatal("StartTime not stamped at load")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Fatal("Load of a missing file succeeded")
	}
}

func TestLoadRejectsBadSyntax(t *testing.T) {
	path := writeConfig(t, "pulse = {{{")
	if _, err := Load(path); err == nil {
		t.Fatal("Load of malformed TOML succeeded")
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults pass", func(*Config) {}, ""},
		{"zero tick", func(c *Config) { c.Pulse.Tick = 0 }, "pulse.tick"},
		{"idle shorter than tick", func(c *Config) { c.Pulse.IdleTimeout = time.Millisecond }, "idle_timeout"},
		{"zero stat window", func(c *Config) { c.Pulse.StatWindow = 0 }, "stat_window"},
		{"unknown timing provider", func(c *Config) { c.Combat.TimingProvider = "dice" }, "timing_provider"},
		{"zero default interval", func(c *Config) { c.Combat.DefaultAttackIntervalMs = 0 }, "default_attack_interval_ms"},
		{"zero bandage base", func(c *Config) { c.Combat.BandageBaseMs = 0 }, "bandage_base_ms"},
		{"mana pct above 100", func(c *Config) { c.Combat.PartialManaPct = 101 }, "partial_mana_pct"},
		{"negative mana pct", func(c *Config) { c.Combat.PartialManaPct = -1 }, "partial_mana_pct"},
		{"zero challenge timeout", func(c *Config) { c.Duel.ChallengeTimeout = 0 }, "challenge_timeout"},
		{"zero countdown", func(c *Config) { c.Duel.CountdownSeconds = 0 }, "countdown_seconds"},
		{"negative max wager", func(c *Config) { c.Duel.MaxWager = -1 }, "max_wager"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			err := cfg.Validate()
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("Validate = %v, want error mentioning %q", err, tc.wantErr)
			}
		})
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	path := writeConfig(t, `
[combat]
timing_provider = "coinflip"
`)
	if _, err := Load(path); err == nil {
		t.Fatal("Load accepted an unknown timing provider")
	}
}
