package stats

import "fmt"

// DefaultLaunchThreshold is the minimum launch score an alert needs.
const DefaultLaunchThreshold = 70

// Hard sanity bounds on the window metrics. A launch outside any of these
// never alerts, whatever the composite score says.
const (
	minUniqueBuyers = 3
	minTxPerMin     = 1.0
	minMedianTrade  = 5.0
	maxMedianTrade  = 5_000.0
	minNetBuyUSD    = 50.0
	maxBotShare     = 0.6
)

// HardBounds checks each metric against its sanity bound and returns all
// violations.
func HardBounds(s Snapshot) (bool, []string) {
	var reasons []string

	if s.UniqueBuyers < minUniqueBuyers {
		reasons = append(reasons, fmt.Sprintf("unique buyers %d < %d", s.UniqueBuyers, minUniqueBuyers))
	}
	if s.TxPerMin < minTxPerMin {
		reasons = append(reasons, fmt.Sprintf("tx/min %.2f < %.1f", s.TxPerMin, minTxPerMin))
	}
	if s.MedianTradeUSD < minMedianTrade {
		reasons = append(reasons, fmt.Sprintf("median trade $%.2f < $%.0f", s.MedianTradeUSD, minMedianTrade))
	}
	if s.MedianTradeUSD > maxMedianTrade {
		reasons = append(reasons, fmt.Sprintf("median trade $%.2f > $%.0f", s.MedianTradeUSD, maxMedianTrade))
	}
	if s.NetBuyUSD < minNetBuyUSD {
		reasons = append(reasons, fmt.Sprintf("net buy $%.2f < $%.0f", s.NetBuyUSD, minNetBuyUSD))
	}
	if s.BotShare > maxBotShare {
		reasons = append(reasons, fmt.Sprintf("bot share %.3f > %.1f", s.BotShare, maxBotShare))
	}

	return len(reasons) == 0, reasons
}

// LaunchScore folds the window metrics into a 0-100 composite. Each metric
// contributes a banded sub-score; bot share subtracts.
func LaunchScore(s Snapshot) int {
	score := 0

	// Unique buyers, up to 25.
	switch {
	case s.UniqueBuyers >= 25:
		score += 25
	case s.UniqueBuyers >= 10:
		score += 20
	case s.UniqueBuyers >= 5:
		score += 12
	case s.UniqueBuyers >= 3:
		score += 6
	}

	// Transaction rate, up to 20.
	switch {
	case s.TxPerMin >= 10:
		score += 20
	case s.TxPerMin >= 5:
		score += 15
	case s.TxPerMin >= 2:
		score += 10
	case s.TxPerMin >= 1:
		score += 5
	}

	// Median trade size, up to 15. Mid-range trades look most organic.
	switch {
	case s.MedianTradeUSD >= 20 && s.MedianTradeUSD <= 500:
		score += 15
	case s.MedianTradeUSD >= 5 && s.MedianTradeUSD <= 2_000:
		score += 10
	case s.MedianTradeUSD > 0:
		score += 3
	}

	// Net buy pressure, up to 25.
	switch {
	case s.NetBuyUSD >= 2_000:
		score += 25
	case s.NetBuyUSD >= 500:
		score += 20
	case s.NetBuyUSD >= 100:
		score += 12
	case s.NetBuyUSD >= 50:
		score += 6
	}

	// LP inflow, up to 15.
	switch {
	case s.LPAddUSD >= 1_000:
		score += 15
	case s.LPAddUSD >= 100:
		score += 10
	case s.LPAddUSD > 0:
		score += 5
	}

	// Bot dominance penalty, up to -30.
	switch {
	case s.BotShare > 0.5:
		score -= 30
	case s.BotShare > 0.3:
		score -= 15
	case s.BotShare > 0.15:
		score -= 5
	}

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score
}
