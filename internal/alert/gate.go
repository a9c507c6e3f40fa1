// Package alert decides whether an approved token may actually page anyone.
package alert

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"solana-launch-watch/internal/observability"
	"solana-launch-watch/internal/stats"
)

// Gate verdict reasons.
const (
	ReasonOK          = "ok"
	ReasonEscalation  = "escalation"
	ReasonCooldown    = "cooldown"
	ReasonRateLimited = "rate_limited"
)

// Gate defaults.
const (
	DefaultCooldown        = 900 * time.Second
	DefaultBudgetWindow    = 600 * time.Second
	DefaultBudgetCapacity  = 6
	NetBuyEscalationFactor = 2.0
	BuyersEscalationFactor = 1.4
)

// Config tunes the gate.
type Config struct {
	Cooldown       time.Duration
	BudgetWindow   time.Duration
	BudgetCapacity int
	// Clock defaults to time.Now.
	Clock func() time.Time
}

// mintRecord is the last accepted alert for a mint.
type mintRecord struct {
	NetBuyUSD    float64
	UniqueBuyers int
	SentAt       time.Time
}

// Gate enforces per-mint cooldown-with-escalation plus a global rolling
// alert budget. Allow answers eligibility; Commit records a sent alert.
type Gate struct {
	config Config
	now    func() time.Time

	mu     sync.Mutex
	mints  map[string]mintRecord
	bucket []time.Time
}

// NewGate creates a gate with defaults filled in.
func NewGate(config Config) *Gate {
	if config.Cooldown <= 0 {
		config.Cooldown = DefaultCooldown
	}
	if config.BudgetWindow <= 0 {
		config.BudgetWindow = DefaultBudgetWindow
	}
	if config.BudgetCapacity <= 0 {
		config.BudgetCapacity = DefaultBudgetCapacity
	}
	now := config.Clock
	if now == nil {
		now = time.Now
	}
	return &Gate{
		config: config,
		now:    now,
		mints:  make(map[string]mintRecord),
	}
}

// Allow reports whether an alert for the mint may be sent right now given
// its current window snapshot. Suppressions are logged with the specific
// reason; they are expected behavior, not errors.
func (g *Gate) Allow(mint string, snapshot stats.Snapshot) (bool, string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	reason := ReasonOK

	if last, ok := g.mints[mint]; ok && now.Sub(last.SentAt) < g.config.Cooldown {
		escalated := snapshot.NetBuyUSD >= last.NetBuyUSD*NetBuyEscalationFactor ||
			float64(snapshot.UniqueBuyers) >= float64(last.UniqueBuyers)*BuyersEscalationFactor
		if !escalated {
			log.Info().Str("mint", mint).Str("reason", ReasonCooldown).
				Msg("alert suppressed")
			observability.RecordAlertDecision(false, ReasonCooldown)
			return false, ReasonCooldown
		}
		reason = ReasonEscalation
	}

	g.pruneBucket(now)
	if len(g.bucket) >= g.config.BudgetCapacity {
		log.Info().Str("mint", mint).Str("reason", ReasonRateLimited).
			Msg("alert suppressed")
		observability.RecordAlertDecision(false, ReasonRateLimited)
		return false, ReasonRateLimited
	}

	observability.RecordAlertDecision(true, reason)
	return true, reason
}

// Commit records a sent alert: the mint record is overwritten with the
// current metrics and a timestamp is appended to the global bucket.
func (g *Gate) Commit(mint string, snapshot stats.Snapshot) {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	g.mints[mint] = mintRecord{
		NetBuyUSD:    snapshot.NetBuyUSD,
		UniqueBuyers: snapshot.UniqueBuyers,
		SentAt:       now,
	}
	g.pruneBucket(now)
	g.bucket = append(g.bucket, now)
}

// pruneBucket drops timestamps strictly older than the budget window.
// A timestamp exactly at the window edge still counts against the budget.
func (g *Gate) pruneBucket(now time.Time) {
	i := 0
	for i < len(g.bucket) && now.Sub(g.bucket[i]) > g.config.BudgetWindow {
		i++
	}
	if i > 0 {
		g.bucket = append(g.bucket[:0], g.bucket[i:]...)
	}
}
