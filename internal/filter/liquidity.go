package filter

import (
	"context"
	"fmt"
	"time"

	"solana-launch-watch/internal/domain"
	"solana-launch-watch/internal/liquidity"
)

// Liquidity bounds and cache sizing.
const (
	DefaultMinLiquiditySOL = 0.5
	DefaultMaxLiquiditySOL = 100.0
	LiquidityCacheTTL      = 3 * time.Minute
	LiquidityCacheCapacity = 50
)

// LiquidityConfig tunes the liquidity stage.
type LiquidityConfig struct {
	MinSOL float64
	MaxSOL float64
	// Clock defaults to time.Now.
	Clock Clock
}

type liquidityResult struct {
	SOL    float64
	Source string
}

// LiquidityStage bounds the bonding pool size of the token. Resolved
// values, including zeros, are cached so repeated launches from one mint
// do not hammer the sources.
type LiquidityStage struct {
	resolver *liquidity.Resolver
	config   LiquidityConfig
	cache    *Cache[liquidityResult]
}

// NewLiquidityStage wraps a resolver chain with bounds and a cache.
func NewLiquidityStage(resolver *liquidity.Resolver, config LiquidityConfig) *LiquidityStage {
	if config.MinSOL <= 0 {
		config.MinSOL = DefaultMinLiquiditySOL
	}
	if config.MaxSOL <= 0 {
		config.MaxSOL = DefaultMaxLiquiditySOL
	}
	return &LiquidityStage{
		resolver: resolver,
		config:   config,
		cache:    NewCache[liquidityResult](LiquidityCacheTTL, LiquidityCacheCapacity, config.Clock),
	}
}

func (s *LiquidityStage) Name() string { return "liquidity" }

func (s *LiquidityStage) Check(ctx context.Context, record *domain.TokenRecord) domain.Outcome {
	result, ok := s.cache.Get(record.Mint)
	if !ok {
		sol, source := s.resolver.Resolve(ctx, record.Mint)
		result = liquidityResult{SOL: sol, Source: source}
		s.cache.Put(record.Mint, result)
	}

	sol := result.SOL
	outcome := domain.Outcome{LiquiditySOL: &sol, DataSource: result.Source}

	switch {
	case sol < s.config.MinSOL:
		outcome.Reason = fmt.Sprintf("low liquidity: %.4f SOL < %.2f SOL minimum", sol, s.config.MinSOL)
	case sol > s.config.MaxSOL:
		outcome.Reason = fmt.Sprintf("high liquidity: %.4f SOL > %.2f SOL maximum", sol, s.config.MaxSOL)
	default:
		outcome.Passed = true
	}
	return outcome
}
