package filter

import (
	"context"

	"solana-launch-watch/internal/domain"
)

// Denylist holds known-bad creators and mints.
type Denylist struct {
	Creators []string `yaml:"creators"`
	Mints    []string `yaml:"mints"`
}

// DenylistStage rejects tokens whose creator or mint is listed.
type DenylistStage struct {
	creators map[string]struct{}
	mints    map[string]struct{}
}

// NewDenylistStage builds membership sets from the configured lists.
func NewDenylistStage(list Denylist) *DenylistStage {
	s := &DenylistStage{
		creators: make(map[string]struct{}, len(list.Creators)),
		mints:    make(map[string]struct{}, len(list.Mints)),
	}
	for _, c := range list.Creators {
		s.creators[c] = struct{}{}
	}
	for _, m := range list.Mints {
		s.mints[m] = struct{}{}
	}
	return s
}

func (s *DenylistStage) Name() string { return "denylist" }

func (s *DenylistStage) Check(ctx context.Context, record *domain.TokenRecord) domain.Outcome {
	if _, bad := s.creators[record.Creator]; bad {
		return domain.Fail("creator is denylisted")
	}
	if _, bad := s.mints[record.Mint]; bad {
		return domain.Fail("mint is denylisted")
	}
	return domain.Pass()
}
