package filter

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"solana-launch-watch/internal/domain"
	"solana-launch-watch/internal/solana"
)

// Wallet analysis defaults.
const (
	WalletSignatureLimit = 10
	DefaultMinTxCount    = 3
	DefaultMinWalletAge  = 15 * time.Minute
	WalletCacheTTL       = 5 * time.Minute
	WalletCacheCapacity  = 100
)

// WalletConfig tunes the creator reputation stage.
type WalletConfig struct {
	MinTxCount int
	MinAge     time.Duration
	// Clock defaults to time.Now.
	Clock Clock
}

// walletVerdict is the cached per-address analysis result.
type walletVerdict struct {
	Suspicious bool
	Reason     string
	Age        time.Duration
	TxCount    int
}

// WalletStage screens creator wallets by transaction history. Any query
// failure counts as suspicious.
type WalletStage struct {
	rpc     solana.RPCClient
	config  WalletConfig
	cache   *Cache[walletVerdict]
	limiter *rate.Limiter
	now     Clock
}

// NewWalletStage creates the stage with a bounded five minute verdict cache.
func NewWalletStage(rpc solana.RPCClient, config WalletConfig) *WalletStage {
	if config.MinTxCount <= 0 {
		config.MinTxCount = DefaultMinTxCount
	}
	if config.MinAge <= 0 {
		config.MinAge = DefaultMinWalletAge
	}
	now := config.Clock
	if now == nil {
		now = time.Now
	}
	return &WalletStage{
		rpc:    rpc,
		config: config,
		cache:  NewCache[walletVerdict](WalletCacheTTL, WalletCacheCapacity, now),
		// 300ms between history lookups keeps RPC usage bounded.
		limiter: rate.NewLimiter(rate.Every(300*time.Millisecond), 1),
		now:     now,
	}
}

func (s *WalletStage) Name() string { return "wallet" }

func (s *WalletStage) Check(ctx context.Context, record *domain.TokenRecord) domain.Outcome {
	verdict, ok := s.cache.Get(record.Creator)
	if !ok {
		verdict = s.analyze(ctx, record.Creator)
		s.cache.Put(record.Creator, verdict)
	}

	outcome := domain.Outcome{Passed: !verdict.Suspicious}
	if verdict.Suspicious {
		outcome.Reason = "suspicious wallet: " + verdict.Reason
	}
	if verdict.TxCount > 0 {
		count := verdict.TxCount
		outcome.TxCount = &count
	}
	if verdict.Age > 0 {
		age := verdict.Age
		outcome.WalletAge = &age
	}
	return outcome
}

func (s *WalletStage) analyze(ctx context.Context, creator string) walletVerdict {
	if err := s.limiter.Wait(ctx); err != nil {
		return walletVerdict{Suspicious: true, Reason: fmt.Sprintf("analysis error: %v", err)}
	}

	sigs, err := s.rpc.GetSignaturesForAddress(ctx, creator, WalletSignatureLimit)
	if err != nil {
		return walletVerdict{Suspicious: true, Reason: fmt.Sprintf("analysis error: %v", err)}
	}

	if len(sigs) == 0 {
		return walletVerdict{Suspicious: true, Reason: "no transactions found"}
	}

	verdict := walletVerdict{TxCount: len(sigs)}

	if len(sigs) < s.config.MinTxCount {
		verdict.Suspicious = true
		verdict.Reason = fmt.Sprintf("only %d transactions (minimum: %d)", len(sigs), s.config.MinTxCount)
		return verdict
	}

	// Signatures are ordered newest to oldest.
	oldest := sigs[len(sigs)-1]
	if oldest.BlockTime == nil {
		verdict.Suspicious = true
		verdict.Reason = "missing block time on oldest transaction"
		return verdict
	}

	age := s.now().Sub(time.Unix(*oldest.BlockTime, 0))
	verdict.Age = age
	if age < s.config.MinAge {
		verdict.Suspicious = true
		verdict.Reason = fmt.Sprintf("wallet too new: %.1f minutes old (minimum: %.0f)",
			age.Minutes(), s.config.MinAge.Minutes())
	}
	return verdict
}
