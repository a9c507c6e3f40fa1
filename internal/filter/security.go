package filter

import (
	"context"
	"math"
	"strings"
	"sync"
	"time"
	"unicode"

	"solana-launch-watch/internal/domain"
)

// SnapshotProvider returns the optional market annotations for a mint.
// Nil means no snapshot is available, which is not a rejection by itself.
type SnapshotProvider func(mint string) *domain.MarketSnapshot

// SecurityConfig tunes the hygiene gate.
type SecurityConfig struct {
	// NameBlacklist entries are matched as case-insensitive substrings.
	NameBlacklist []string
	// PassCooldown is how long a mint is blocked from passing again.
	PassCooldown time.Duration
	// CooldownCapacity bounds the cooldown map.
	CooldownCapacity int
	// Clock defaults to time.Now.
	Clock Clock
}

// SecurityStage enforces name hygiene, authority absence, numeric sanity
// and a per-mint pass cooldown.
type SecurityStage struct {
	config    SecurityConfig
	snapshots SnapshotProvider
	now       Clock

	mu       sync.Mutex
	cooldown map[string]time.Time // mint -> expiry
}

// NewSecurityStage creates the gate. snapshots may be nil when no market
// annotations are fetched.
func NewSecurityStage(config SecurityConfig, snapshots SnapshotProvider) *SecurityStage {
	if config.CooldownCapacity <= 0 {
		config.CooldownCapacity = 1000
	}
	now := config.Clock
	if now == nil {
		now = time.Now
	}
	return &SecurityStage{
		config:    config,
		snapshots: snapshots,
		now:       now,
		cooldown:  make(map[string]time.Time),
	}
}

func (s *SecurityStage) Name() string { return "security" }

func (s *SecurityStage) Check(ctx context.Context, record *domain.TokenRecord) domain.Outcome {
	if record.Name != "" {
		if !isNameASCII216(record.Name) {
			return domain.Fail("name invalid: must be 2-16 printable ASCII characters")
		}
		lower := strings.ToLower(record.Name)
		for _, term := range s.config.NameBlacklist {
			if term != "" && strings.Contains(lower, strings.ToLower(term)) {
				return domain.Fail("name invalid: blacklisted term")
			}
		}
	}

	var snapshot *domain.MarketSnapshot
	if s.snapshots != nil {
		snapshot = s.snapshots(record.Mint)
	}
	if snapshot != nil {
		if snapshot.MintAuthority != nil && *snapshot.MintAuthority != "" {
			return domain.Fail("mint authority still present")
		}
		if snapshot.FreezeAuthority != nil && *snapshot.FreezeAuthority != "" {
			return domain.Fail("freeze authority still present")
		}
		for name, v := range map[string]*float64{
			"price":      snapshot.PriceUSD,
			"liq_usd":    snapshot.LiquidityUSD,
			"vol_5m_usd": snapshot.Volume5mUSD,
		} {
			if v != nil && (math.IsNaN(*v) || math.IsInf(*v, 0)) {
				return domain.Fail("bad " + name)
			}
		}
	}

	if s.config.PassCooldown > 0 {
		if !s.tryPass(record.Mint) {
			return domain.Fail("mint in cooldown")
		}
	}

	return domain.Pass()
}

// tryPass registers a pass for the mint unless it is still cooling down.
func (s *SecurityStage) tryPass(mint string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for m, expiry := range s.cooldown {
		if !expiry.After(now) {
			delete(s.cooldown, m)
		}
	}

	if expiry, ok := s.cooldown[mint]; ok && expiry.After(now) {
		return false
	}

	if len(s.cooldown) >= s.config.CooldownCapacity {
		var oldestMint string
		var oldestExpiry time.Time
		first := true
		for m, e := range s.cooldown {
			if first || e.Before(oldestExpiry) {
				oldestMint = m
				oldestExpiry = e
				first = false
			}
		}
		delete(s.cooldown, oldestMint)
	}

	s.cooldown[mint] = now.Add(s.config.PassCooldown)
	return true
}

// isNameASCII216 checks the 2-16 printable ASCII rule. Vertical tab and
// form feed count as printable in the source charset but are banned.
func isNameASCII216(name string) bool {
	if len(name) < 2 || len(name) > 16 {
		return false
	}
	for _, r := range name {
		if r > unicode.MaxASCII {
			return false
		}
		switch r {
		case '\x0b', '\x0c':
			return false
		}
		if !isPrintableASCII(byte(r)) {
			return false
		}
	}
	return true
}

// isPrintableASCII accepts digits, letters, punctuation and the whitespace
// characters space \t \n \r \x0b \x0c.
func isPrintableASCII(b byte) bool {
	if b >= 0x20 && b < 0x7f {
		return true
	}
	switch b {
	case '\t', '\n', '\r', '\x0b', '\x0c':
		return true
	}
	return false
}
