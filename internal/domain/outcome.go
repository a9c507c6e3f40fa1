package domain

import "time"

// Outcome is the result of a single filter stage.
type Outcome struct {
	Passed bool
	Reason string // empty when passed

	// Optional measurements collected by the stage, reused by scoring.
	WalletAge    *time.Duration
	TxCount      *int
	LiquiditySOL *float64
	DataSource   string // which source produced LiquiditySOL
}

// Pass returns a passing outcome.
func Pass() Outcome {
	return Outcome{Passed: true}
}

// Fail returns a failing outcome with a reason.
func Fail(reason string) Outcome {
	return Outcome{Passed: false, Reason: reason}
}

// StageResult pairs a stage name with its outcome.
type StageResult struct {
	Stage   string
	Outcome Outcome
}

// Decision is the aggregate verdict of the filter pipeline for one token.
type Decision struct {
	Approved         bool
	RejectionReasons []string // in stage order
	QualityScore     float64  // 0..10, meaningful only when approved
	Stages           []StageResult
}
