package delivery

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"solana-launch-watch/internal/domain"
	"solana-launch-watch/internal/observability"
)

// ConsoleSink logs alerts through zerolog. Used in dry-run mode and as
// a fallback when no webhook is configured.
type ConsoleSink struct {
	logger zerolog.Logger
}

// NewConsoleSink creates a console sink writing to the global logger.
func NewConsoleSink() *ConsoleSink {
	return &ConsoleSink{logger: log.Logger}
}

// NewConsoleSinkWithLogger creates a console sink with a custom logger,
// mainly for tests.
func NewConsoleSinkWithLogger(logger zerolog.Logger) *ConsoleSink {
	return &ConsoleSink{logger: logger}
}

func (s *ConsoleSink) Name() string { return "console" }

func (s *ConsoleSink) Deliver(_ context.Context, payload domain.AlertPayload) error {
	s.logger.Info().
		Str("id", payload.ID).
		Str("mint", payload.Mint).
		Str("symbol", payload.Symbol).
		Str("name", payload.Name).
		Str("creator", payload.Creator).
		Float64("quality_score", payload.QualityScore).
		Int("launch_score", payload.LaunchScore).
		Str("trigger", payload.TriggerReason).
		Msg("token launch alert")
	observability.RecordDelivery(s.Name(), nil)
	return nil
}
