package alert

import (
	"fmt"
	"testing"
	"time"

	"solana-launch-watch/internal/stats"
)

type gateClock struct {
	now time.Time
}

func (c *gateClock) Now() time.Time          { return c.now }
func (c *gateClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestGate(clock *gateClock) *Gate {
	return NewGate(Config{Clock: clock.Now})
}

func snap(netBuy float64, buyers int) stats.Snapshot {
	return stats.Snapshot{NetBuyUSD: netBuy, UniqueBuyers: buyers}
}

func TestGate_FirstAlertAllowed(t *testing.T) {
	clock := &gateClock{now: time.Unix(1_700_000_000, 0)}
	gate := newTestGate(clock)

	ok, reason := gate.Allow("mint1", snap(100, 10))
	if !ok || reason != ReasonOK {
		t.Fatalf("first alert: got (%v, %q), want (true, %q)", ok, reason, ReasonOK)
	}
}

func TestGate_CooldownSuppresses(t *testing.T) {
	clock := &gateClock{now: time.Unix(1_700_000_000, 0)}
	gate := newTestGate(clock)

	gate.Commit("mint1", snap(100, 10))

	clock.Advance(500 * time.Second)
	ok, reason := gate.Allow("mint1", snap(150, 11))
	if ok || reason != ReasonCooldown {
		t.Fatalf("within cooldown without escalation: got (%v, %q), want (false, %q)",
			ok, reason, ReasonCooldown)
	}
}

func TestGate_EscalationByNetBuy(t *testing.T) {
	clock := &gateClock{now: time.Unix(1_700_000_000, 0)}
	gate := newTestGate(clock)

	gate.Commit("mint1", snap(100, 10))

	clock.Advance(500 * time.Second)
	ok, reason := gate.Allow("mint1", snap(250, 10))
	if !ok || reason != ReasonEscalation {
		t.Fatalf("net buy 250 vs last 100: got (%v, %q), want (true, %q)",
			ok, reason, ReasonEscalation)
	}

	// Exactly 2x is still an escalation.
	ok, reason = gate.Allow("mint1", snap(200, 10))
	if !ok || reason != ReasonEscalation {
		t.Fatalf("net buy exactly 2x: got (%v, %q), want (true, %q)",
			ok, reason, ReasonEscalation)
	}
}

func TestGate_EscalationByBuyers(t *testing.T) {
	clock := &gateClock{now: time.Unix(1_700_000_000, 0)}
	gate := newTestGate(clock)

	gate.Commit("mint1", snap(100, 5))

	clock.Advance(100 * time.Second)

	// 7 buyers = 1.4x of 5, the threshold is inclusive.
	ok, reason := gate.Allow("mint1", snap(100, 7))
	if !ok || reason != ReasonEscalation {
		t.Fatalf("buyers 7 vs last 5: got (%v, %q), want (true, %q)",
			ok, reason, ReasonEscalation)
	}

	ok, reason = gate.Allow("mint1", snap(100, 6))
	if ok || reason != ReasonCooldown {
		t.Fatalf("buyers 6 vs last 5: got (%v, %q), want (false, %q)",
			ok, reason, ReasonCooldown)
	}
}

func TestGate_CooldownExpires(t *testing.T) {
	clock := &gateClock{now: time.Unix(1_700_000_000, 0)}
	gate := newTestGate(clock)

	gate.Commit("mint1", snap(100, 10))

	clock.Advance(901 * time.Second)
	ok, reason := gate.Allow("mint1", snap(50, 2))
	if !ok || reason != ReasonOK {
		t.Fatalf("after cooldown: got (%v, %q), want (true, %q)", ok, reason, ReasonOK)
	}
}

func TestGate_CommitOverwritesRecord(t *testing.T) {
	clock := &gateClock{now: time.Unix(1_700_000_000, 0)}
	gate := newTestGate(clock)

	gate.Commit("mint1", snap(100, 10))
	clock.Advance(300 * time.Second)
	gate.Commit("mint1", snap(200, 14))

	// Escalation baselines are the second commit, not the first.
	clock.Advance(100 * time.Second)
	ok, reason := gate.Allow("mint1", snap(250, 15))
	if ok || reason != ReasonCooldown {
		t.Fatalf("250 vs new baseline 200: got (%v, %q), want (false, %q)",
			ok, reason, ReasonCooldown)
	}
	ok, _ = gate.Allow("mint1", snap(400, 15))
	if !ok {
		t.Fatal("400 vs new baseline 200 should escalate")
	}
}

func TestGate_GlobalBudget(t *testing.T) {
	clock := &gateClock{now: time.Unix(1_700_000_000, 0)}
	gate := newTestGate(clock)

	for i := 0; i < DefaultBudgetCapacity; i++ {
		mint := fmt.Sprintf("mint%d", i)
		ok, _ := gate.Allow(mint, snap(100, 10))
		if !ok {
			t.Fatalf("alert %d should be within budget", i+1)
		}
		gate.Commit(mint, snap(100, 10))
	}

	clock.Advance(599 * time.Second)
	ok, reason := gate.Allow("mint7", snap(100, 10))
	if ok || reason != ReasonRateLimited {
		t.Fatalf("7th alert at t=599s: got (%v, %q), want (false, %q)",
			ok, reason, ReasonRateLimited)
	}

	clock.Advance(2 * time.Second)
	ok, reason = gate.Allow("mint7", snap(100, 10))
	if !ok || reason != ReasonOK {
		t.Fatalf("7th alert at t=601s: got (%v, %q), want (true, %q)", ok, reason, ReasonOK)
	}
}

func TestGate_BudgetCountsEscalations(t *testing.T) {
	clock := &gateClock{now: time.Unix(1_700_000_000, 0)}
	gate := newTestGate(clock)

	for i := 0; i < DefaultBudgetCapacity; i++ {
		gate.Commit(fmt.Sprintf("mint%d", i), snap(100, 10))
	}

	// Even a valid escalation is blocked when the global budget is spent.
	clock.Advance(10 * time.Second)
	ok, reason := gate.Allow("mint0", snap(500, 10))
	if ok || reason != ReasonRateLimited {
		t.Fatalf("escalation over budget: got (%v, %q), want (false, %q)",
			ok, reason, ReasonRateLimited)
	}
}

func TestGate_MintsIndependent(t *testing.T) {
	clock := &gateClock{now: time.Unix(1_700_000_000, 0)}
	gate := newTestGate(clock)

	gate.Commit("mint1", snap(100, 10))
	clock.Advance(10 * time.Second)

	ok, reason := gate.Allow("mint2", snap(100, 10))
	if !ok || reason != ReasonOK {
		t.Fatalf("unrelated mint during mint1 cooldown: got (%v, %q)", ok, reason)
	}
}
