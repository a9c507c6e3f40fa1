package stats

import (
	"strings"
	"testing"
)

func healthySnapshot() Snapshot {
	return Snapshot{
		UniqueBuyers:   12,
		TxPerMin:       6,
		MedianTradeUSD: 80,
		NetBuyUSD:      900,
		LPAddUSD:       400,
		BotShare:       0.1,
	}
}

func TestHardBounds_Pass(t *testing.T) {
	ok, reasons := HardBounds(healthySnapshot())
	if !ok {
		t.Errorf("healthy snapshot should pass, got %v", reasons)
	}
}

func TestHardBounds_Violations(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Snapshot)
		want   string
	}{
		{"few buyers", func(s *Snapshot) { s.UniqueBuyers = 2 }, "unique buyers"},
		{"slow", func(s *Snapshot) { s.TxPerMin = 0.5 }, "tx/min"},
		{"dust trades", func(s *Snapshot) { s.MedianTradeUSD = 1 }, "median trade"},
		{"whale trades", func(s *Snapshot) { s.MedianTradeUSD = 10_000 }, "median trade"},
		{"no pressure", func(s *Snapshot) { s.NetBuyUSD = 10 }, "net buy"},
		{"bot heavy", func(s *Snapshot) { s.BotShare = 0.8 }, "bot share"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := healthySnapshot()
			tt.mutate(&s)
			ok, reasons := HardBounds(s)
			if ok {
				t.Fatal("expected violation")
			}
			if !strings.Contains(strings.Join(reasons, "; "), tt.want) {
				t.Errorf("expected reason containing %q, got %v", tt.want, reasons)
			}
		})
	}
}

func TestHardBounds_CollectsAllViolations(t *testing.T) {
	ok, reasons := HardBounds(Snapshot{BotShare: 0.9})
	if ok {
		t.Fatal("expected violations")
	}
	// buyers, rate, dust median, net buy, bot share
	if len(reasons) != 5 {
		t.Errorf("expected 5 violations, got %v", reasons)
	}
}

func TestLaunchScore_Bounds(t *testing.T) {
	if got := LaunchScore(Snapshot{}); got != 0 {
		t.Errorf("empty snapshot should score 0, got %d", got)
	}

	max := Snapshot{
		UniqueBuyers:   50,
		TxPerMin:       20,
		MedianTradeUSD: 100,
		NetBuyUSD:      5_000,
		LPAddUSD:       2_000,
	}
	if got := LaunchScore(max); got != 100 {
		t.Errorf("saturated snapshot should score 100, got %d", got)
	}
}

func TestLaunchScore_HealthyClearsThreshold(t *testing.T) {
	// 20 + 15 + 15 + 20 + 10 - 0 = 80
	if got := LaunchScore(healthySnapshot()); got < DefaultLaunchThreshold {
		t.Errorf("healthy launch should clear %d, got %d", DefaultLaunchThreshold, got)
	}
}

func TestLaunchScore_BotPenalty(t *testing.T) {
	clean := healthySnapshot()
	dirty := healthySnapshot()
	dirty.BotShare = 0.55

	if LaunchScore(dirty) >= LaunchScore(clean) {
		t.Error("bot-dominated launch must score lower")
	}
}

func TestLaunchScore_Monotonic(t *testing.T) {
	weak := Snapshot{UniqueBuyers: 3, TxPerMin: 1, MedianTradeUSD: 10, NetBuyUSD: 60}
	strong := healthySnapshot()

	if LaunchScore(weak) >= LaunchScore(strong) {
		t.Error("stronger activity must not score lower")
	}
	if LaunchScore(weak) >= DefaultLaunchThreshold {
		t.Errorf("bare-minimum launch should stay under threshold, got %d", LaunchScore(weak))
	}
}
