// Package company implements company record reads outside of search:
// point lookups by BIN and the locality listing.
package company

import (
	"context"
	"fmt"

	"github.com/qamqor-cloud/sponsorscope/internal/domain"
	domcompany "github.com/qamqor-cloud/sponsorscope/internal/domain/company"
	"github.com/qamqor-cloud/sponsorscope/internal/domain/locality"
)

// Service handles company reads.
type Service struct {
	repo Repository
}

// New creates a company service.
func New(repo Repository) *Service {
	return &Service{repo: repo}
}

// GetByBIN returns one company record. A malformed BIN is rejected
// before the store is asked; a well-formed unknown BIN is ErrNotFound.
func (s *Service) GetByBIN(ctx context.Context, bin string) (domcompany.Record, error) {
	if !domcompany.ValidBIN(bin) {
		return domcompany.Record{}, domain.NewCriteriaError("bin", "must be exactly 12 digits")
	}
	rec, err := s.repo.GetByBIN(ctx, bin)
	if err != nil {
		return domcompany.Record{}, fmt.Errorf("get company: %w", err)
	}
	return rec, nil
}

// Locations lists stored localities with company counts.
func (s *Service) Locations(ctx context.Context) ([]locality.Count, error) {
	counts, err := s.repo.Locations(ctx)
	if err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	return counts, nil
}
