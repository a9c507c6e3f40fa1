package filter

import (
	"context"
	"math"
	"strings"
	"testing"
	"time"

	"solana-launch-watch/internal/domain"
)

func strPtr(s string) *string   { return &s }
func f64Ptr(f float64) *float64 { return &f }

func snapshotFor(snapshots map[string]*domain.MarketSnapshot) SnapshotProvider {
	return func(mint string) *domain.MarketSnapshot {
		return snapshots[mint]
	}
}

func TestSecurityStage_NameHygiene(t *testing.T) {
	stage := NewSecurityStage(SecurityConfig{}, nil)
	ctx := context.Background()

	pass := []string{"Moon Cat", "ab", "0123456789abcdef", ""}
	for _, name := range pass {
		outcome := stage.Check(ctx, &domain.TokenRecord{Mint: "m-" + name, Name: name})
		if !outcome.Passed {
			t.Errorf("name %q should pass, got %q", name, outcome.Reason)
		}
	}

	fail := []string{"x", "0123456789abcdefg", "bad\x0bname", "bad\x0cname", "émoji", "nul\x00"}
	for _, name := range fail {
		outcome := stage.Check(ctx, &domain.TokenRecord{Mint: "m-" + name, Name: name})
		if outcome.Passed {
			t.Errorf("name %q should fail", name)
		}
	}
}

func TestSecurityStage_Blacklist(t *testing.T) {
	stage := NewSecurityStage(SecurityConfig{NameBlacklist: []string{"rug", "SCAM"}}, nil)
	ctx := context.Background()

	outcome := stage.Check(ctx, &domain.TokenRecord{Mint: "m1", Name: "TotallyRugFree"})
	if outcome.Passed {
		t.Error("blacklisted substring should fail regardless of case")
	}
	if !strings.Contains(outcome.Reason, "blacklisted") {
		t.Errorf("unexpected reason %q", outcome.Reason)
	}

	outcome = stage.Check(ctx, &domain.TokenRecord{Mint: "m2", Name: "Honest Token"})
	if !outcome.Passed {
		t.Errorf("clean name should pass, got %q", outcome.Reason)
	}
}

func TestSecurityStage_AuthorityPresent(t *testing.T) {
	snapshots := map[string]*domain.MarketSnapshot{
		"mint-auth":   {MintAuthority: strPtr("SomeAuthority")},
		"freeze-auth": {FreezeAuthority: strPtr("SomeAuthority")},
		"clean":       {},
	}
	stage := NewSecurityStage(SecurityConfig{}, snapshotFor(snapshots))
	ctx := context.Background()

	for _, mint := range []string{"mint-auth", "freeze-auth"} {
		outcome := stage.Check(ctx, &domain.TokenRecord{Mint: mint, Name: "OK name"})
		if outcome.Passed {
			t.Errorf("%s should fail", mint)
		}
		if !strings.Contains(outcome.Reason, "authority") {
			t.Errorf("%s: unexpected reason %q", mint, outcome.Reason)
		}
	}

	if outcome := stage.Check(ctx, &domain.TokenRecord{Mint: "clean", Name: "OK name"}); !outcome.Passed {
		t.Errorf("clean snapshot should pass, got %q", outcome.Reason)
	}
}

func TestSecurityStage_NonFiniteNumbers(t *testing.T) {
	snapshots := map[string]*domain.MarketSnapshot{
		"nan": {PriceUSD: f64Ptr(math.NaN())},
		"inf": {LiquidityUSD: f64Ptr(math.Inf(1))},
		"ok":  {PriceUSD: f64Ptr(0.0001), Volume5mUSD: f64Ptr(12.5)},
	}
	stage := NewSecurityStage(SecurityConfig{}, snapshotFor(snapshots))
	ctx := context.Background()

	for _, mint := range []string{"nan", "inf"} {
		if outcome := stage.Check(ctx, &domain.TokenRecord{Mint: mint, Name: "OK name"}); outcome.Passed {
			t.Errorf("%s should fail on non-finite value", mint)
		}
	}
	if outcome := stage.Check(ctx, &domain.TokenRecord{Mint: "ok", Name: "OK name"}); !outcome.Passed {
		t.Errorf("finite values should pass, got %q", outcome.Reason)
	}
}

func TestSecurityStage_PassCooldown(t *testing.T) {
	clock := newFakeClock()
	stage := NewSecurityStage(SecurityConfig{
		PassCooldown: 10 * time.Minute,
		Clock:        clock.Now,
	}, nil)
	ctx := context.Background()
	record := &domain.TokenRecord{Mint: "m1", Name: "OK name"}

	if outcome := stage.Check(ctx, record); !outcome.Passed {
		t.Fatalf("first pass should succeed, got %q", outcome.Reason)
	}

	if outcome := stage.Check(ctx, record); outcome.Passed {
		t.Fatal("second pass within cooldown should fail")
	}

	clock.Advance(10*time.Minute + time.Second)
	if outcome := stage.Check(ctx, record); !outcome.Passed {
		t.Fatalf("pass after cooldown expiry should succeed, got %q", outcome.Reason)
	}
}

func TestSecurityStage_CooldownCapacity(t *testing.T) {
	clock := newFakeClock()
	stage := NewSecurityStage(SecurityConfig{
		PassCooldown:     time.Hour,
		CooldownCapacity: 2,
		Clock:            clock.Now,
	}, nil)
	ctx := context.Background()

	for _, mint := range []string{"m1", "m2", "m3"} {
		stage.Check(ctx, &domain.TokenRecord{Mint: mint, Name: "OK name"})
		clock.Advance(time.Second)
	}

	// m1 had the earliest expiry and was evicted, so it may pass again.
	if outcome := stage.Check(ctx, &domain.TokenRecord{Mint: "m1", Name: "OK name"}); !outcome.Passed {
		t.Errorf("evicted mint should pass again, got %q", outcome.Reason)
	}
}
