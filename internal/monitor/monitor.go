// Package monitor wires the launch watcher together: creation events flow
// through the filter pipeline, trade events feed the rolling aggregator,
// and qualifying mints pass the launch-score and alert gates before
// delivery.
package monitor

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"solana-launch-watch/internal/alert"
	"solana-launch-watch/internal/delivery"
	"solana-launch-watch/internal/domain"
	"solana-launch-watch/internal/filter"
	"solana-launch-watch/internal/history"
	"solana-launch-watch/internal/intel"
	"solana-launch-watch/internal/listener"
	"solana-launch-watch/internal/observability"
	"solana-launch-watch/internal/stats"
)

const DefaultSweepInterval = time.Minute

// Options configures the monitor. Listener, Pipeline, Rolling and Gate
// are required; Intel and History may be nil, which disables them.
type Options struct {
	Listener *listener.Listener
	Pipeline *filter.Pipeline
	Rolling  *stats.Rolling
	Gate     *alert.Gate
	Sinks    []delivery.Sink
	Intel    *intel.Reporter
	History  *history.Store

	// Trades is an externally produced market feed. A nil channel means
	// no trade activity and therefore no alerts.
	Trades <-chan stats.TradeEvent

	LaunchThreshold int
	SweepInterval   time.Duration
}

// trackedMint is an approved token awaiting enough market activity to alert.
type trackedMint struct {
	record       *domain.TokenRecord
	qualityScore float64
}

// Monitor is the processing coordinator. All state mutation happens on
// the single Run goroutine, so the tracked map, the aggregator and the
// gate never see concurrent writers.
type Monitor struct {
	opts    Options
	tracked map[string]trackedMint
}

// New creates a monitor.
func New(opts Options) *Monitor {
	if opts.LaunchThreshold <= 0 {
		opts.LaunchThreshold = stats.DefaultLaunchThreshold
	}
	if opts.SweepInterval <= 0 {
		opts.SweepInterval = DefaultSweepInterval
	}
	return &Monitor{
		opts:    opts,
		tracked: make(map[string]trackedMint),
	}
}

// Run blocks until the context is cancelled. The listener runs on its
// own goroutine and feeds creations into the processing loop.
func (m *Monitor) Run(ctx context.Context) error {
	creations := make(chan *domain.TokenRecord, 100)

	listenerDone := make(chan error, 1)
	go func() {
		listenerDone <- m.opts.Listener.Run(ctx, func(ctx context.Context, record *domain.TokenRecord) {
			select {
			case creations <- record:
			case <-ctx.Done():
			}
		})
	}()

	sweep := time.NewTicker(m.opts.SweepInterval)
	defer sweep.Stop()

	log.Info().Int("launch_threshold", m.opts.LaunchThreshold).Msg("monitor started")

	for {
		select {
		case <-ctx.Done():
			<-listenerDone
			return ctx.Err()

		case err := <-listenerDone:
			return err

		case record := <-creations:
			m.handleCreation(ctx, record)

		case event, ok := <-m.opts.Trades:
			if !ok {
				m.opts.Trades = nil
				continue
			}
			m.handleTrade(ctx, event)

		case <-sweep.C:
			evicted := m.opts.Rolling.Sweep()
			if evicted > 0 {
				log.Debug().Int("evicted", evicted).Msg("swept idle mints")
			}
		}
	}
}

func (m *Monitor) handleCreation(ctx context.Context, record *domain.TokenRecord) {
	decision := m.opts.Pipeline.Evaluate(ctx, record)

	if !decision.Approved {
		log.Info().
			Str("mint", record.Mint).
			Str("symbol", record.Symbol).
			Strs("reasons", decision.RejectionReasons).
			Msg("token rejected")
		m.reportDecision(record, decision)
		return
	}

	m.tracked[record.Mint] = trackedMint{
		record:       record,
		qualityScore: decision.QualityScore,
	}
	log.Info().
		Str("mint", record.Mint).
		Str("symbol", record.Symbol).
		Float64("quality_score", decision.QualityScore).
		Msg("token approved, tracking")
	m.reportDecision(record, decision)
}

func (m *Monitor) handleTrade(ctx context.Context, event stats.TradeEvent) {
	m.opts.Rolling.Record(event)

	tracked, ok := m.tracked[event.Mint]
	if !ok {
		return
	}

	snapshot := m.opts.Rolling.Stats(event.Mint)
	healthy, violations := stats.HardBounds(snapshot)
	if !healthy {
		log.Debug().
			Str("mint", event.Mint).
			Strs("violations", violations).
			Msg("launch bounds not met")
		return
	}

	score := stats.LaunchScore(snapshot)
	observability.DefaultMetrics.LaunchScores.Observe(float64(score))
	if score < m.opts.LaunchThreshold {
		log.Debug().
			Str("mint", event.Mint).
			Int("score", score).
			Msg("launch score below threshold")
		return
	}

	allowed, reason := m.opts.Gate.Allow(event.Mint, snapshot)
	if !allowed {
		return
	}

	m.sendAlert(ctx, tracked, snapshot, score, reason)
}

func (m *Monitor) sendAlert(ctx context.Context, tracked trackedMint, snapshot stats.Snapshot, score int, reason string) {
	record := tracked.record
	payload := domain.AlertPayload{
		ID:            delivery.NewAlertID(),
		Name:          record.Name,
		Symbol:        record.Symbol,
		Mint:          record.Mint,
		Creator:       record.Creator,
		BondingCurve:  record.BondingCurve,
		Signature:     record.Signature,
		Timestamp:     time.Now().UnixMilli(),
		QualityScore:  tracked.qualityScore,
		LaunchScore:   score,
		TriggerReason: reason,
	}

	delivered := false
	for _, sink := range m.opts.Sinks {
		if err := sink.Deliver(ctx, payload); err != nil {
			log.Error().Err(err).
				Str("sink", sink.Name()).
				Str("mint", record.Mint).
				Msg("alert delivery failed")
			continue
		}
		delivered = true
	}
	if !delivered {
		return
	}

	m.opts.Gate.Commit(record.Mint, snapshot)

	log.Info().
		Str("mint", record.Mint).
		Str("symbol", record.Symbol).
		Int("launch_score", score).
		Str("trigger", reason).
		Msg("alert sent")

	if m.opts.History != nil {
		if err := m.opts.History.Append(domain.TrackedToken{
			Mint:      record.Mint,
			Creator:   record.Creator,
			Symbol:    record.Symbol,
			Name:      record.Name,
			AlertedAt: payload.Timestamp,
			Status:    domain.StatusUntracked,
		}); err != nil {
			log.Error().Err(err).Str("mint", record.Mint).Msg("history append failed")
		}
	}
}

// reportDecision shares the filter verdict with the intel service.
func (m *Monitor) reportDecision(record *domain.TokenRecord, decision domain.Decision) {
	if m.opts.Intel == nil {
		return
	}

	status := "rejected"
	if decision.Approved {
		status = "approved"
	}

	var liquiditySOL float64
	for _, stage := range decision.Stages {
		if stage.Outcome.LiquiditySOL != nil {
			liquiditySOL = *stage.Outcome.LiquiditySOL
		}
	}

	m.opts.Intel.ReportToken(domain.TokenReport{
		Mint:             record.Mint,
		Symbol:           record.Symbol,
		Creator:          record.Creator,
		Status:           status,
		LiquiditySOL:     liquiditySOL,
		QualityScore:     decision.QualityScore,
		RejectionReasons: decision.RejectionReasons,
	})

	for _, reason := range decision.RejectionReasons {
		if strings.Contains(strings.ToLower(reason), "suspicious wallet") {
			m.opts.Intel.ReportWallet(domain.WalletReputation{
				Address:    record.Creator,
				Reputation: domain.ReputationSuspicious,
				Reason:     "created filtered token " + record.Symbol + ": " + reason,
			})
			break
		}
	}
}
