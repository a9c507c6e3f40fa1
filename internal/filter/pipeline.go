package filter

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"solana-launch-watch/internal/domain"
	"solana-launch-watch/internal/observability"
)

// Pipeline runs stages in order, cheapest first.
type Pipeline struct {
	stages []Stage
}

// NewPipeline creates a pipeline over the given stages.
func NewPipeline(stages ...Stage) *Pipeline {
	return &Pipeline{stages: stages}
}

// Evaluate runs stages until the first failure. Approved decisions carry a
// quality score.
func (p *Pipeline) Evaluate(ctx context.Context, record *domain.TokenRecord) domain.Decision {
	return p.run(ctx, record, true)
}

// EvaluateAll runs every stage regardless of failures and collects all
// rejection reasons. Used for diagnostics, not the hot path.
func (p *Pipeline) EvaluateAll(ctx context.Context, record *domain.TokenRecord) domain.Decision {
	return p.run(ctx, record, false)
}

func (p *Pipeline) run(ctx context.Context, record *domain.TokenRecord, shortCircuit bool) domain.Decision {
	decision := domain.Decision{Approved: true}

	for _, stage := range p.stages {
		start := time.Now()
		outcome := stage.Check(ctx, record)
		observability.DefaultMetrics.FilterDuration.
			WithLabelValues(stage.Name()).Observe(time.Since(start).Seconds())
		observability.RecordStageResult(stage.Name(), outcome.Passed)

		decision.Stages = append(decision.Stages, domain.StageResult{
			Stage:   stage.Name(),
			Outcome: outcome,
		})

		if !outcome.Passed {
			if decision.Approved {
				observability.RecordRejection(stage.Name())
			}
			decision.Approved = false
			decision.RejectionReasons = append(decision.RejectionReasons, outcome.Reason)

			log.Debug().
				Str("mint", record.Mint).
				Str("stage", stage.Name()).
				Str("reason", outcome.Reason).
				Msg("stage rejected token")

			if shortCircuit {
				return decision
			}
		}
	}

	if decision.Approved {
		decision.QualityScore = QualityScore(record, decision.Stages)
		observability.RecordQualityScore(decision.QualityScore)
	}
	return decision
}
