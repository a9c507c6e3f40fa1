// Package delivery fans alerts out to configured sinks.
package delivery

import (
	"context"

	"github.com/google/uuid"

	"solana-launch-watch/internal/domain"
)

// Sink delivers one alert. Implementations must be safe for concurrent
// use and should respect the context deadline.
type Sink interface {
	Name() string
	Deliver(ctx context.Context, payload domain.AlertPayload) error
}

// NewAlertID returns a fresh identifier for an alert payload.
func NewAlertID() string {
	return uuid.NewString()
}
