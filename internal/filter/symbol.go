// Package filter implements the staged token screening pipeline.
package filter

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"solana-launch-watch/internal/domain"
)

// Stage is one screening step. Stages are ordered cheapest first and a
// failed stage stops the hot-path evaluation.
type Stage interface {
	Name() string
	Check(ctx context.Context, record *domain.TokenRecord) domain.Outcome
}

// Symbol validity bounds.
const (
	MinSymbolLen = 2
	MaxSymbolLen = 6
)

// SymbolStage validates ticker symbols: 2 to 6 uppercase ASCII letters,
// nothing else.
type SymbolStage struct{}

func (SymbolStage) Name() string { return "symbol" }

func (SymbolStage) Check(ctx context.Context, record *domain.TokenRecord) domain.Outcome {
	issues := SymbolIssues(record.Symbol)
	if len(issues) == 0 {
		return domain.Pass()
	}
	return domain.Fail("invalid symbol: " + strings.Join(issues, "; "))
}

// IsSymbolValid reports whether s matches ^[A-Z]{2,6}$ exactly.
func IsSymbolValid(s string) bool {
	if len(s) < MinSymbolLen || len(s) > MaxSymbolLen {
		return false
	}
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

// SymbolIssues itemizes why a symbol is invalid. An empty result means the
// symbol is valid.
func SymbolIssues(s string) []string {
	if s == "" {
		return []string{"symbol is empty"}
	}

	var issues []string
	runes := []rune(s)

	if len(runes) < MinSymbolLen {
		issues = append(issues, fmt.Sprintf("too short: %d characters (minimum: %d)", len(runes), MinSymbolLen))
	} else if len(runes) > MaxSymbolLen {
		issues = append(issues, fmt.Sprintf("too long: %d characters (maximum: %d)", len(runes), MaxSymbolLen))
	}

	var nonLetters, lowercase []rune
	for _, r := range runes {
		switch {
		case r >= 'A' && r <= 'Z':
		case unicode.IsLower(r):
			lowercase = append(lowercase, r)
		default:
			nonLetters = append(nonLetters, r)
		}
	}
	if len(nonLetters) > 0 {
		issues = append(issues, "contains non-letters: "+string(nonLetters))
	}
	if len(lowercase) > 0 {
		issues = append(issues, "contains lowercase: "+string(lowercase))
	}

	return issues
}
