// Package stats aggregates per-mint trading activity over a sliding
// time window.
package stats

import (
	"math"
	"sort"
	"sync"
	"time"

	"solana-launch-watch/internal/observability"
)

// DefaultWindowMs is the rolling window length, ten minutes.
const DefaultWindowMs = 600_000

// NowMs returns the current wall time in milliseconds.
type NowMs func() int64

type swap struct {
	Wallet string
	USD    float64
	IsBuy  bool
	Ms     int64
	IsBot  bool
}

type lpAdd struct {
	USD float64
	Ms  int64
}

type mintWindow struct {
	swaps []swap
	lp    []lpAdd
}

// Snapshot is the aggregate view of one mint's rolling window.
type Snapshot struct {
	UniqueBuyers   int
	TxPerMin       float64
	MedianTradeUSD float64
	NetBuyUSD      float64
	LPAddUSD       float64
	BotShare       float64
}

// Rolling tracks swaps and liquidity additions per mint, pruning entries
// older than the window before every read and write.
type Rolling struct {
	mu       sync.Mutex
	windowMs int64
	mints    map[string]*mintWindow
	now      NowMs
}

// NewRolling creates an aggregator. windowMs <= 0 selects the default ten
// minute window; a nil clock uses wall time.
func NewRolling(windowMs int64, now NowMs) *Rolling {
	if windowMs <= 0 {
		windowMs = DefaultWindowMs
	}
	if now == nil {
		now = func() int64 { return time.Now().UnixMilli() }
	}
	return &Rolling{
		windowMs: windowMs,
		mints:    make(map[string]*mintWindow),
		now:      now,
	}
}

// RecordSwap adds a swap observation for the mint.
func (r *Rolling) RecordSwap(mint, wallet string, usd float64, isBuy bool, ms int64, isBot bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	w := r.window(mint)
	r.prune(w)
	w.swaps = append(w.swaps, swap{Wallet: wallet, USD: usd, IsBuy: isBuy, Ms: ms, IsBot: isBot})

	observability.DefaultMetrics.SwapsRecorded.Inc()
}

// RecordLiquidity adds a liquidity provision observation for the mint.
func (r *Rolling) RecordLiquidity(mint string, usd float64, ms int64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	w := r.window(mint)
	r.prune(w)
	w.lp = append(w.lp, lpAdd{USD: usd, Ms: ms})
}

// Stats computes the aggregate snapshot for a mint over the current window.
func (r *Rolling) Stats(mint string) Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	w, ok := r.mints[mint]
	if !ok {
		return Snapshot{}
	}
	r.prune(w)

	if len(w.swaps) == 0 && len(w.lp) == 0 {
		return Snapshot{}
	}

	buyers := make(map[string]struct{})
	var buyUSD, sellUSD, totalUSD, botUSD float64
	amounts := make([]float64, 0, len(w.swaps))

	for _, s := range w.swaps {
		amounts = append(amounts, s.USD)
		totalUSD += s.USD
		if s.IsBuy {
			buyers[s.Wallet] = struct{}{}
			buyUSD += s.USD
		} else {
			sellUSD += s.USD
		}
		if s.IsBot {
			botUSD += s.USD
		}
	}

	var lpUSD float64
	for _, lp := range w.lp {
		lpUSD += lp.USD
	}

	windowMinutes := float64(r.windowMs) / 60_000
	snapshot := Snapshot{
		UniqueBuyers:   len(buyers),
		TxPerMin:       round2(float64(len(w.swaps)+len(w.lp)) / windowMinutes),
		MedianTradeUSD: round2(median(amounts)),
		NetBuyUSD:      round2(buyUSD - sellUSD),
		LPAddUSD:       round2(lpUSD),
	}
	if totalUSD > 0 {
		snapshot.BotShare = round3(botUSD / totalUSD)
	}
	return snapshot
}

// Sweep drops mints whose windows have gone empty and reports how many
// were evicted. Meant to run periodically from the orchestrator.
func (r *Rolling) Sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	evicted := 0
	for mint, w := range r.mints {
		r.prune(w)
		if len(w.swaps) == 0 && len(w.lp) == 0 {
			delete(r.mints, mint)
			evicted++
		}
	}
	observability.DefaultMetrics.TrackedMints.Set(float64(len(r.mints)))
	return evicted
}

// TrackedMints reports how many mints currently hold window data.
func (r *Rolling) TrackedMints() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.mints)
}

func (r *Rolling) window(mint string) *mintWindow {
	w, ok := r.mints[mint]
	if !ok {
		w = &mintWindow{}
		r.mints[mint] = w
	}
	return w
}

// prune drops entries older than the window. Entries arrive roughly in
// time order, so the cut point is found from the front.
func (r *Rolling) prune(w *mintWindow) {
	cutoff := r.now() - r.windowMs

	i := 0
	for i < len(w.swaps) && w.swaps[i].Ms < cutoff {
		i++
	}
	if i > 0 {
		w.swaps = append(w.swaps[:0], w.swaps[i:]...)
	}

	j := 0
	for j < len(w.lp) && w.lp[j].Ms < cutoff {
		j++
	}
	if j > 0 {
		w.lp = append(w.lp[:0], w.lp[j:]...)
	}
}

func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
func round3(v float64) float64 { return math.Round(v*1000) / 1000 }
