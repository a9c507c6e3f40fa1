// Package history persists alerted tokens to a JSON file so a separate
// rescanning process can pick them up later.
package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"solana-launch-watch/internal/domain"
)

// DefaultRescanAge is how long a token must sit untracked before
// LoadUntracked considers it ready.
const DefaultRescanAge = 15 * time.Minute

// Store is a file-backed alert history. All methods are safe for
// concurrent use; every mutation rewrites the file atomically.
type Store struct {
	path string
	now  func() time.Time

	mu sync.Mutex
}

// NewStore creates a store over the given file path. The file does not
// need to exist yet.
func NewStore(path string) *Store {
	return &Store{path: path, now: time.Now}
}

// NewStoreWithClock is NewStore with an injected clock for tests.
func NewStoreWithClock(path string, now func() time.Time) *Store {
	return &Store{path: path, now: now}
}

// Append adds a token to the history with status untracked. A token
// already present by mint is left untouched.
func (s *Store) Append(token domain.TrackedToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tokens, err := s.load()
	if err != nil {
		return err
	}

	for _, existing := range tokens {
		if existing.Mint == token.Mint {
			log.Debug().Str("mint", token.Mint).Msg("token already in history")
			return nil
		}
	}

	if token.AlertedAt == 0 {
		token.AlertedAt = s.now().UnixMilli()
	}
	if token.Status == "" {
		token.Status = domain.StatusUntracked
	}
	tokens = append(tokens, token)

	return s.save(tokens)
}

// LoadUntracked returns tokens with status untracked whose alert is at
// least minAge old. minAge <= 0 uses DefaultRescanAge. A missing file
// yields an empty result.
func (s *Store) LoadUntracked(minAge time.Duration) ([]domain.TrackedToken, error) {
	if minAge <= 0 {
		minAge = DefaultRescanAge
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tokens, err := s.load()
	if err != nil {
		return nil, err
	}

	cutoff := s.now().Add(-minAge).UnixMilli()
	var ready []domain.TrackedToken
	for _, token := range tokens {
		if token.Status != domain.StatusUntracked {
			continue
		}
		if token.AlertedAt > cutoff {
			continue
		}
		ready = append(ready, token)
	}
	return ready, nil
}

// UpdateStatus sets the status of the token with the given mint.
func (s *Store) UpdateStatus(mint, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tokens, err := s.load()
	if err != nil {
		return err
	}

	for i := range tokens {
		if tokens[i].Mint == mint {
			tokens[i].Status = status
			return s.save(tokens)
		}
	}
	return fmt.Errorf("token %s not found in history", mint)
}

// Len returns the number of history entries.
func (s *Store) Len() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tokens, err := s.load()
	if err != nil {
		return 0, err
	}
	return len(tokens), nil
}

func (s *Store) load() ([]domain.TrackedToken, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read history %s: %w", s.path, err)
	}
	if len(data) == 0 {
		return nil, nil
	}

	var tokens []domain.TrackedToken
	if err := json.Unmarshal(data, &tokens); err != nil {
		return nil, fmt.Errorf("parse history %s: %w", s.path, err)
	}
	return tokens, nil
}

// save writes to a temp file in the same directory and renames it over
// the target so readers never observe a partial file.
func (s *Store) save(tokens []domain.TrackedToken) error {
	data, err := json.MarshalIndent(tokens, "", "  ")
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".history-*.json")
	if err != nil {
		return fmt.Errorf("create temp history file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write history: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close history: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace history %s: %w", s.path, err)
	}
	return nil
}
