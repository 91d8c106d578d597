// Package consideration implements fund shortlist management: marking
// companies for consideration, unmarking them, and listing the marks.
package consideration

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/qamqor-cloud/sponsorscope/internal/domain"
	"github.com/qamqor-cloud/sponsorscope/internal/domain/company"
)

// Service handles fund shortlists.
type Service struct {
	repo Repository
}

// New creates a consideration service.
func New(repo Repository) *Service {
	return &Service{repo: repo}
}

// Consider marks a company for a fund. Idempotent: marking twice is
// fine. Unknown BINs fail with ErrNotFound.
func (s *Service) Consider(ctx context.Context, fundID uuid.UUID, bin string) error {
	if !company.ValidBIN(bin) {
		return domain.NewCriteriaError("bin", "must be exactly 12 digits")
	}
	if err := s.repo.Add(ctx, fundID, bin); err != nil {
		return fmt.Errorf("consider company: %w", err)
	}
	return nil
}

// Unconsider removes the mark. Idempotent: unmarking a company that
// was never marked succeeds.
func (s *Service) Unconsider(ctx context.Context, fundID uuid.UUID, bin string) error {
	if !company.ValidBIN(bin) {
		return domain.NewCriteriaError("bin", "must be exactly 12 digits")
	}
	if err := s.repo.Remove(ctx, fundID, bin); err != nil {
		return fmt.Errorf("unconsider company: %w", err)
	}
	return nil
}

// List returns the fund's considered companies, most recently marked
// first. A fund with no marks gets an empty list, not an error.
func (s *Service) List(ctx context.Context, fundID uuid.UUID) ([]company.Record, error) {
	records, err := s.repo.List(ctx, fundID)
	if err != nil {
		return nil, fmt.Errorf("list considerations: %w", err)
	}
	if records == nil {
		records = []company.Record{}
	}
	return records, nil
}
