// Package listener detects pump.fun token launches on a Solana log stream.
package listener

import (
	"context"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"solana-launch-watch/internal/domain"
	"solana-launch-watch/internal/observability"
	"solana-launch-watch/internal/solana"
)

// Handler receives each newly detected token exactly once.
type Handler func(ctx context.Context, record *domain.TokenRecord)

// Config holds optional convenience filters applied before the handler.
type Config struct {
	// MatchString, when non-empty, requires a case-insensitive substring
	// match against the token name or symbol.
	MatchString string
	// CreatorAddress, when non-empty, requires an exact creator match.
	CreatorAddress string
}

// Listener subscribes to pump.fun program logs and emits parsed launches.
type Listener struct {
	ws     solana.WSClient
	config Config

	seenMu sync.Mutex
	seen   map[string]struct{}
}

// New creates a listener over an established WebSocket client.
func New(ws solana.WSClient, config Config) *Listener {
	return &Listener{
		ws:     ws,
		config: config,
		seen:   make(map[string]struct{}),
	}
}

// Run subscribes to logs mentioning the pump.fun program and invokes the
// handler for every new token until the context is cancelled or the
// subscription channel closes.
func (l *Listener) Run(ctx context.Context, handler Handler) error {
	ch, err := l.ws.SubscribeLogs(ctx, solana.LogsFilter{
		Mentions: []string{solana.PumpProgram},
	})
	if err != nil {
		return err
	}

	log.Info().Str("program", solana.PumpProgram).Msg("listening for token creations")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case notif, ok := <-ch:
			if !ok {
				return nil
			}
			l.handleNotification(ctx, notif, handler)
		}
	}
}

func (l *Listener) handleNotification(ctx context.Context, notif solana.LogNotification, handler Handler) {
	if notif.Err != nil {
		return
	}

	record, ok := ParseCreateEvent(notif.Logs, notif.Signature)
	if !ok {
		return
	}

	if !l.markSeen(record.Mint) {
		observability.TokensDiscarded.WithLabelValues("duplicate").Inc()
		return
	}

	if !l.matches(record) {
		observability.TokensDiscarded.WithLabelValues("filter").Inc()
		return
	}

	observability.TokensDetected.Inc()
	log.Info().
		Str("mint", record.Mint).
		Str("symbol", record.Symbol).
		Str("creator", record.Creator).
		Msg("token created")

	handler(ctx, record)
}

// markSeen records the mint and reports whether it was new.
func (l *Listener) markSeen(mint string) bool {
	l.seenMu.Lock()
	defer l.seenMu.Unlock()
	if _, dup := l.seen[mint]; dup {
		return false
	}
	l.seen[mint] = struct{}{}
	return true
}

func (l *Listener) matches(record *domain.TokenRecord) bool {
	if l.config.MatchString != "" {
		needle := strings.ToLower(l.config.MatchString)
		if !strings.Contains(strings.ToLower(record.Name), needle) &&
			!strings.Contains(strings.ToLower(record.Symbol), needle) {
			return false
		}
	}
	if l.config.CreatorAddress != "" && record.Creator != l.config.CreatorAddress {
		return false
	}
	return true
}
