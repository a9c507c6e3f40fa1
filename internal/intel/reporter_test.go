package intel

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"solana-launch-watch/internal/domain"
)

// collectServer records JSON bodies posted to it, keyed by path.
type collectServer struct {
	mu     sync.Mutex
	bodies map[string][]map[string]any
	status int
}

func newCollectServer(status int) (*collectServer, *httptest.Server) {
	cs := &collectServer{bodies: make(map[string][]map[string]any), status: status}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == healthEndpoint {
			w.WriteHeader(http.StatusOK)
			return
		}
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		cs.mu.Lock()
		cs.bodies[r.URL.Path] = append(cs.bodies[r.URL.Path], body)
		cs.mu.Unlock()
		w.WriteHeader(cs.status)
	}))
	return cs, server
}

func (cs *collectServer) count(path string) int {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	return len(cs.bodies[path])
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before timeout")
}

func TestReporter_PostsTokenReport(t *testing.T) {
	cs, server := newCollectServer(http.StatusOK)
	defer server.Close()

	reporter := NewReporter(Config{BaseURL: server.URL})
	reporter.Start()
	defer reporter.Stop()

	reporter.ReportToken(domain.TokenReport{
		Mint:         "mint1",
		Symbol:       "MCAT",
		Creator:      "creator1",
		Status:       "approved",
		QualityScore: 8.5,
	})

	waitFor(t, time.Second, func() bool { return cs.count(tokenEndpoint) == 1 })

	cs.mu.Lock()
	body := cs.bodies[tokenEndpoint][0]
	cs.mu.Unlock()
	if body["mint"] != "mint1" || body["symbol"] != "MCAT" {
		t.Errorf("unexpected body: %v", body)
	}
}

func TestReporter_PostsWalletReputation(t *testing.T) {
	cs, server := newCollectServer(http.StatusOK)
	defer server.Close()

	reporter := NewReporter(Config{BaseURL: server.URL})
	reporter.Start()
	defer reporter.Stop()

	reporter.ReportWallet(domain.WalletReputation{
		Address:    "creator1",
		Reputation: domain.ReputationSuspicious,
		Reason:     "created filtered token MCAT",
	})

	waitFor(t, time.Second, func() bool { return cs.count(walletEndpoint) == 1 })

	cs.mu.Lock()
	body := cs.bodies[walletEndpoint][0]
	cs.mu.Unlock()
	if body["reputation"] != domain.ReputationSuspicious {
		t.Errorf("reputation = %v, want %q", body["reputation"], domain.ReputationSuspicious)
	}
}

func TestReporter_DropsNewestWhenQueueFull(t *testing.T) {
	cs, server := newCollectServer(http.StatusOK)
	defer server.Close()

	// Worker never started: the queue fills and stays full.
	reporter := NewReporter(Config{BaseURL: server.URL, QueueSize: 2})

	for i := 0; i < 5; i++ {
		reporter.ReportToken(domain.TokenReport{Mint: "mint", Symbol: "SYM", Creator: "c"})
	}
	if got := len(reporter.queue); got != 2 {
		t.Fatalf("queued = %d, want 2", got)
	}

	// Draining now delivers exactly the two oldest reports.
	reporter.Start()
	defer reporter.Stop()
	waitFor(t, time.Second, func() bool { return cs.count(tokenEndpoint) == 2 })
}

func TestReporter_DisabledWithoutBaseURL(t *testing.T) {
	reporter := NewReporter(Config{})
	if reporter.Enabled() {
		t.Fatal("reporter without base URL should be disabled")
	}

	// Enqueue is a no-op, nothing accumulates.
	reporter.ReportToken(domain.TokenReport{Mint: "mint"})
	if len(reporter.queue) != 0 {
		t.Fatalf("queue length = %d, want 0", len(reporter.queue))
	}

	if err := reporter.Ping(context.Background()); err == nil {
		t.Error("Ping on disabled reporter should error")
	}
}

func TestReporter_ServerErrorsNeverSurface(t *testing.T) {
	cs, server := newCollectServer(http.StatusInternalServerError)
	defer server.Close()

	reporter := NewReporter(Config{BaseURL: server.URL})
	reporter.Start()

	reporter.ReportToken(domain.TokenReport{Mint: "mint1", Symbol: "SYM", Creator: "c"})
	waitFor(t, time.Second, func() bool { return cs.count(tokenEndpoint) == 1 })

	// Stop returns cleanly even though every delivery failed.
	reporter.Stop()
}

func TestReporter_Ping(t *testing.T) {
	_, server := newCollectServer(http.StatusOK)
	defer server.Close()

	reporter := NewReporter(Config{BaseURL: server.URL})
	if err := reporter.Ping(context.Background()); err != nil {
		t.Fatalf("Ping: %v", err)
	}

	down := NewReporter(Config{BaseURL: "http://127.0.0.1:1"})
	if err := down.Ping(context.Background()); err == nil {
		t.Error("Ping against unreachable server should error")
	}
}
