package stats

// TradeEvent is one market observation for a mint, produced by an
// external trade feed.
type TradeEvent struct {
	Mint   string
	Wallet string
	USD    float64
	IsBuy  bool
	IsBot  bool
	// Liquidity marks an LP add rather than a swap.
	Liquidity bool
	// Ms is the event time in Unix milliseconds. Zero means now.
	Ms int64
}

// Record feeds one trade event into the aggregator.
func (r *Rolling) Record(event TradeEvent) {
	ms := event.Ms
	if ms == 0 {
		ms = r.now()
	}
	if event.Liquidity {
		r.RecordLiquidity(event.Mint, event.USD, ms)
		return
	}
	r.RecordSwap(event.Mint, event.Wallet, event.USD, event.IsBuy, ms, event.IsBot)
}
