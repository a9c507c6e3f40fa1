package domain

// Token tracking status values persisted in the alert history.
const (
	StatusUntracked = "untracked"
	StatusTracking  = "tracking"
	StatusCompleted = "completed"
)

// Wallet reputation labels reported to the intel service.
const (
	ReputationTrusted    = "trusted"
	ReputationBlocked    = "blocked"
	ReputationSuspicious = "suspicious"
)

// AlertPayload is the stable wire format delivered to alert sinks.
type AlertPayload struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Symbol        string  `json:"symbol"`
	Mint          string  `json:"mint"`
	Creator       string  `json:"creator"`
	BondingCurve  string  `json:"bonding_curve"`
	Signature     string  `json:"signature"`
	Timestamp     int64   `json:"timestamp"`
	QualityScore  float64 `json:"quality_score"`
	LaunchScore   int     `json:"launch_score"`
	TriggerReason string  `json:"trigger_reason"`
}

// TokenReport is a filter verdict shared with the intel service.
type TokenReport struct {
	Mint             string   `json:"mint"`
	Symbol           string   `json:"symbol"`
	Creator          string   `json:"creator"`
	Status           string   `json:"status"` // approved | rejected
	LiquiditySOL     float64  `json:"liquidity_sol"`
	QualityScore     float64  `json:"quality_score"`
	RejectionReasons []string `json:"rejection_reasons,omitempty"`
}

// WalletReputation is a wallet verdict shared with the intel service.
type WalletReputation struct {
	Address    string `json:"address"`
	Reputation string `json:"reputation"`
	Reason     string `json:"reason,omitempty"`
}

// TrackedToken is one entry in the persisted alert history.
type TrackedToken struct {
	Mint      string `json:"mint"`
	Creator   string `json:"creator"`
	Symbol    string `json:"symbol"`
	Name      string `json:"name"`
	AlertedAt int64  `json:"alerted_at"` // Unix timestamp (ms)
	Status    string `json:"status"`
}
