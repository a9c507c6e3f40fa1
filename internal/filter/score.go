package filter

import (
	"solana-launch-watch/internal/domain"
)

// QualityScore combines symbol, wallet and liquidity signals for an
// approved token into a 0-10 score. Higher is better.
func QualityScore(record *domain.TokenRecord, stages []domain.StageResult) float64 {
	score := symbolScore(record.Symbol)

	for _, s := range stages {
		if !s.Outcome.Passed {
			continue
		}
		switch s.Stage {
		case "wallet":
			if s.Outcome.WalletAge != nil {
				score += walletAgeScore(s.Outcome.WalletAge.Hours())
			}
			if s.Outcome.TxCount != nil {
				score += txCountScore(*s.Outcome.TxCount)
			}
		case "liquidity":
			if s.Outcome.LiquiditySOL != nil {
				score += liquidityScore(*s.Outcome.LiquiditySOL)
			}
		}
	}

	if score > 10.0 {
		score = 10.0
	}
	return score
}

func symbolScore(symbol string) float64 {
	if !IsSymbolValid(symbol) {
		return 0
	}
	switch n := len(symbol); {
	case n >= 3 && n <= 5:
		return 2.0
	case n == 2 || n == 6:
		return 1.5
	default:
		return 1.0
	}
}

func walletAgeScore(ageHours float64) float64 {
	switch {
	case ageHours >= 24:
		return 2.0
	case ageHours >= 1:
		return 1.5
	case ageHours >= 0.5:
		return 1.0
	default:
		return 0.5
	}
}

func txCountScore(count int) float64 {
	switch {
	case count >= 20:
		return 2.0
	case count >= 10:
		return 1.5
	case count >= 5:
		return 1.0
	default:
		return 0.5
	}
}

func liquidityScore(sol float64) float64 {
	switch {
	case sol >= 5.0 && sol <= 20.0:
		return 4.0
	case sol >= 2.0 && sol <= 50.0:
		return 3.0
	case sol >= 1.0 && sol <= 100.0:
		return 2.0
	case sol >= 0.5 && sol < 1.0:
		return 1.0
	default:
		return 0.5
	}
}
