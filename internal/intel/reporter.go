// Package intel shares filter verdicts and wallet reputations with an
// external intelligence service. Delivery is best effort: reports go
// through a bounded queue and failures never reach the caller.
package intel

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"solana-launch-watch/internal/domain"
	"solana-launch-watch/internal/observability"
)

const (
	tokenEndpoint  = "/memory/append_token"
	walletEndpoint = "/memory/update_wallet"
	healthEndpoint = "/health"

	DefaultQueueSize   = 256
	DefaultHTTPTimeout = 5 * time.Second
)

// Config tunes the reporter.
type Config struct {
	// BaseURL of the intelligence service. Empty disables reporting.
	BaseURL   string
	QueueSize int
	Timeout   time.Duration
	// HTTPClient overrides the default client, mainly for tests.
	HTTPClient *http.Client
}

// report is one queued delivery.
type report struct {
	endpoint string
	payload  any
}

// Reporter posts token and wallet reports to the intelligence service
// from a single worker goroutine. Enqueue methods never block: when the
// queue is full the newest report is dropped and counted.
type Reporter struct {
	baseURL    string
	httpClient *http.Client
	queue      chan report

	startOnce sync.Once
	stopOnce  sync.Once
	started   bool
	done      chan struct{}
	stopped   chan struct{}
}

// NewReporter creates a reporter. Call Start to begin draining the queue.
func NewReporter(config Config) *Reporter {
	queueSize := config.QueueSize
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = DefaultHTTPTimeout
	}
	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Reporter{
		baseURL:    strings.TrimRight(config.BaseURL, "/"),
		httpClient: httpClient,
		queue:      make(chan report, queueSize),
		done:       make(chan struct{}),
		stopped:    make(chan struct{}),
	}
}

// Enabled reports whether a base URL is configured.
func (r *Reporter) Enabled() bool {
	return r.baseURL != ""
}

// Start launches the worker goroutine. Safe to call once.
func (r *Reporter) Start() {
	r.startOnce.Do(func() {
		r.started = true
		go r.run()
	})
}

// Stop signals the worker and waits for it to exit.
func (r *Reporter) Stop() {
	r.stopOnce.Do(func() {
		close(r.done)
	})
	if r.started {
		<-r.stopped
	}
}

// ReportToken enqueues a token verdict.
func (r *Reporter) ReportToken(tokenReport domain.TokenReport) {
	r.enqueue(tokenEndpoint, tokenReport)
}

// ReportWallet enqueues a wallet reputation update.
func (r *Reporter) ReportWallet(reputation domain.WalletReputation) {
	r.enqueue(walletEndpoint, reputation)
}

func (r *Reporter) enqueue(endpoint string, payload any) {
	if !r.Enabled() {
		return
	}
	select {
	case r.queue <- report{endpoint: endpoint, payload: payload}:
	default:
		observability.DefaultMetrics.IntelReportsDropped.Inc()
		log.Warn().Str("endpoint", endpoint).Msg("intel queue full, report dropped")
	}
}

// Ping checks connectivity to the intelligence service.
func (r *Reporter) Ping(ctx context.Context) error {
	if !r.Enabled() {
		return fmt.Errorf("intel reporting disabled")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL+healthEndpoint, nil)
	if err != nil {
		return err
	}
	resp, err := r.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("intel health check: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("intel health check: status %d", resp.StatusCode)
	}
	return nil
}

func (r *Reporter) run() {
	defer close(r.stopped)
	for {
		select {
		case <-r.done:
			return
		case item := <-r.queue:
			r.post(item)
		}
	}
}

func (r *Reporter) post(item report) {
	body, err := json.Marshal(item.payload)
	if err != nil {
		observability.DefaultMetrics.IntelReportErrors.Inc()
		log.Error().Err(err).Str("endpoint", item.endpoint).Msg("intel report marshal failed")
		return
	}

	req, err := http.NewRequest(http.MethodPost, r.baseURL+item.endpoint, bytes.NewReader(body))
	if err != nil {
		observability.DefaultMetrics.IntelReportErrors.Inc()
		log.Error().Err(err).Str("endpoint", item.endpoint).Msg("intel report request failed")
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		observability.DefaultMetrics.IntelReportErrors.Inc()
		log.Warn().Err(err).Str("endpoint", item.endpoint).Msg("intel report post failed")
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		observability.DefaultMetrics.IntelReportErrors.Inc()
		log.Warn().Int("status", resp.StatusCode).Str("endpoint", item.endpoint).
			Msg("intel report rejected")
		return
	}

	observability.DefaultMetrics.IntelReportsSent.Inc()
	log.Debug().Str("endpoint", item.endpoint).Msg("intel report sent")
}
