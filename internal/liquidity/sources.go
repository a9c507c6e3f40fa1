// Package liquidity estimates bonding-pool liquidity for new tokens.
package liquidity

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"solana-launch-watch/internal/solana"
)

// Source names recorded alongside resolved values.
const (
	SourceAPI       = "pumpfun_api"
	SourceCurve     = "bonding_curve"
	SourceEstimator = "estimator"
	SourceNone      = "none"
)

// Source estimates liquidity in SOL for a token mint.
type Source interface {
	Name() string
	Estimate(ctx context.Context, mint string) (float64, error)
}

// APISource reads virtual SOL reserves from the pump.fun frontend API.
type APISource struct {
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
}

// NewAPISource creates an APISource against the given base URL
// (e.g. https://frontend-api.pump.fun).
func NewAPISource(baseURL string) *APISource {
	return &APISource{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 3 * time.Second},
		// 200ms between calls keeps the undocumented API happy.
		limiter: rate.NewLimiter(rate.Every(200*time.Millisecond), 1),
	}
}

func (s *APISource) Name() string { return SourceAPI }

// Estimate fetches coin data and converts virtual_sol_reserves to SOL.
// A missing token yields (0, nil). Status 530 means the API is overloaded
// and is retried with backoff.
func (s *APISource) Estimate(ctx context.Context, mint string) (float64, error) {
	for attempt := 0; ; attempt++ {
		if err := s.limiter.Wait(ctx); err != nil {
			return 0, err
		}

		value, retry, err := s.fetch(ctx, mint)
		if err != nil {
			return 0, err
		}
		if !retry {
			return value, nil
		}
		if attempt >= 2 {
			return 0, fmt.Errorf("pump.fun API overloaded")
		}

		backoff := time.Duration(1<<attempt) * time.Second
		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		case <-time.After(backoff):
		}
	}
}

func (s *APISource) fetch(ctx context.Context, mint string) (value float64, retry bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/coins/"+mint, nil)
	if err != nil {
		return 0, false, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return 0, false, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return 0, false, nil
	case 530:
		return 0, true, nil
	default:
		return 0, false, fmt.Errorf("pump.fun API status %d", resp.StatusCode)
	}

	var body struct {
		VirtualSolReserves float64 `json:"virtual_sol_reserves"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, false, err
	}

	return body.VirtualSolReserves / 1e9, false, nil
}

// CurveSource estimates liquidity from the bonding curve account balance.
type CurveSource struct {
	rpc solana.RPCClient
}

// NewCurveSource creates a CurveSource over an RPC client.
func NewCurveSource(rpc solana.RPCClient) *CurveSource {
	return &CurveSource{rpc: rpc}
}

func (s *CurveSource) Name() string { return SourceCurve }

// Estimate derives the bonding curve PDA for the mint and reads its
// lamport balance. Accounts with less than the full curve layout are
// treated as not initialized yet.
func (s *CurveSource) Estimate(ctx context.Context, mint string) (float64, error) {
	curve, err := solana.DeriveBondingCurve(mint)
	if err != nil {
		return 0, err
	}

	info, err := s.rpc.GetAccountInfo(ctx, curve)
	if err != nil {
		return 0, err
	}
	if info == nil {
		return 0, nil
	}

	data, err := base64.StdEncoding.DecodeString(info.Data)
	if err != nil || len(data) < 64 {
		return 0, nil
	}

	return float64(info.Lamports) / 1e9, nil
}

// EstimatorSource queries a secondary asset API. It only confirms that the
// token exists with live supply and then reports the typical initial
// pump.fun pool size.
type EstimatorSource struct {
	url    string
	client *http.Client
}

// DefaultEstimate is the standard initial pump.fun pool size in SOL.
const DefaultEstimate = 2.0

// NewEstimatorSource creates an EstimatorSource against an RPC-style URL.
func NewEstimatorSource(url string) *EstimatorSource {
	return &EstimatorSource{
		url:    url,
		client: &http.Client{Timeout: 5 * time.Second},
	}
}

func (s *EstimatorSource) Name() string { return SourceEstimator }

func (s *EstimatorSource) Estimate(ctx context.Context, mint string) (float64, error) {
	if s.url == "" {
		return 0, nil
	}

	payload := map[string]interface{}{
		"jsonrpc": "2.0",
		"id":      "1",
		"method":  "getAsset",
		"params":  map[string]string{"id": mint},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("estimator status %d", resp.StatusCode)
	}

	var result struct {
		Result *struct {
			Supply struct {
				PrintCurrentSupply float64 `json:"print_current_supply"`
			} `json:"supply"`
		} `json:"result"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return 0, err
	}

	if result.Result == nil || result.Result.Supply.PrintCurrentSupply <= 0 {
		return 0, nil
	}
	return DefaultEstimate, nil
}

// Resolver walks the source chain in order. The first positive estimate
// wins; source errors fall through to the next source.
type Resolver struct {
	sources []Source
}

// NewResolver creates a resolver over an ordered source chain.
func NewResolver(sources ...Source) *Resolver {
	return &Resolver{sources: sources}
}

// Resolve returns the liquidity in SOL and the name of the source that
// produced it. Exhausting the chain yields (0, "none").
func (r *Resolver) Resolve(ctx context.Context, mint string) (float64, string) {
	for _, src := range r.sources {
		value, err := src.Estimate(ctx, mint)
		if err != nil {
			log.Debug().Str("mint", mint).Str("source", src.Name()).Err(err).
				Msg("liquidity source failed")
			continue
		}
		if value > 0 {
			return value, src.Name()
		}
	}
	return 0, SourceNone
}
