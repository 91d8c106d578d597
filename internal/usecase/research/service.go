// Package research implements on-demand web research for a company:
// it builds a provider query from the stored record and distills the
// hits into a website, contacts, and a confidence score.
package research

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/qamqor-cloud/sponsorscope/internal/domain"
	"github.com/qamqor-cloud/sponsorscope/internal/domain/company"
	"github.com/qamqor-cloud/sponsorscope/internal/domain/research"
)

// Service handles company web research.
type Service struct {
	web       WebSearcher
	companies CompanyReader
	timeout   time.Duration
	log       *zap.Logger
}

// New creates a research service. timeout bounds the provider round
// trip; zero disables the bound.
func New(web WebSearcher, companies CompanyReader, timeout time.Duration, log *zap.Logger) *Service {
	return &Service{web: web, companies: companies, timeout: timeout, log: log}
}

// Research looks the company up on the web. The record comes from the
// store first: research always runs against the stored name and
// locality, never caller-supplied ones. Provider failures surface as
// ErrResearchUnavailable; the stored record is returned untouched.
func (s *Service) Research(ctx context.Context, bin string) (research.WebInfo, error) {
	if !company.ValidBIN(bin) {
		return research.WebInfo{}, domain.NewCriteriaError("bin", "must be exactly 12 digits")
	}

	rec, err := s.companies.GetByBIN(ctx, bin)
	if err != nil {
		return research.WebInfo{}, fmt.Errorf("load company: %w", err)
	}

	query := buildQuery(rec.Name, rec.BIN, rec.Locality)

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	hits, err := s.web.Search(ctx, query)
	if err != nil {
		s.log.Warn("web research failed",
			zap.String("bin", bin), zap.Error(err))
		return research.WebInfo{}, fmt.Errorf("%w: %w", domain.ErrResearchUnavailable, err)
	}

	info := extractWebInfo(hits, rec.Name)
	info.Query = query

	s.log.Info("company researched",
		zap.String("bin", bin),
		zap.Bool("website_found", info.Website != nil),
		zap.Bool("contacts_found", info.Contacts != nil),
		zap.Float64("confidence", info.Confidence))
	return info, nil
}
