// Package search implements the company search use case: validated
// criteria in, one ranked page with pagination metadata out.
package search

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/qamqor-cloud/sponsorscope/internal/domain/company"
	"github.com/qamqor-cloud/sponsorscope/internal/domain/search/criteria"
	"github.com/qamqor-cloud/sponsorscope/internal/domain/search/page"
)

// Params are the raw, unvalidated search parameters as the caller sent
// them. FundID, when present, asks for consideration decoration.
type Params struct {
	Location string
	FreeText string
	Page     int
	PageSize int
	FundID   *uuid.UUID
}

// Item is one search hit. UnderConsideration is only meaningful when
// the caller identified a fund.
type Item struct {
	Record             company.Record
	UnderConsideration bool
}

// Result is one ranked page plus its metadata.
type Result struct {
	Items []Item
	Meta  page.Meta
}

// Service handles company search.
type Service struct {
	store          Searcher
	considerations ConsiderationReader
	queryTimeout   time.Duration
	limits         criteria.Limits
}

// New creates a search service. queryTimeout bounds the store round
// trip; zero disables the bound. Zero limits fields take the criteria
// package defaults.
func New(store Searcher, considerations ConsiderationReader, queryTimeout time.Duration, limits criteria.Limits) *Service {
	return &Service{
		store:          store,
		considerations: considerations,
		queryTimeout:   queryTimeout,
		limits:         limits,
	}
}

// Search validates the parameters, fetches one ranked page, and
// computes pagination metadata from the exact total. Identical
// parameters against an unchanged store return identical pages.
func (s *Service) Search(ctx context.Context, p Params) (Result, error) {
	c, err := criteria.New(p.Location, p.FreeText, p.Page, p.PageSize, s.limits)
	if err != nil {
		return Result{}, err
	}

	if s.queryTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.queryTimeout)
		defer cancel()
	}

	records, total, err := s.store.Search(ctx, c)
	if err != nil {
		return Result{}, fmt.Errorf("search companies: %w", err)
	}

	items := make([]Item, len(records))
	for i, rec := range records {
		items[i] = Item{Record: rec}
	}

	if p.FundID != nil && len(items) > 0 {
		if err := s.decorate(ctx, *p.FundID, items); err != nil {
			return Result{}, err
		}
	}

	return Result{
		Items: items,
		Meta:  page.NewMeta(total, c.Page(), c.PageSize()),
	}, nil
}

// decorate flags the items the fund is already considering. One batch
// lookup per page, never one per record.
func (s *Service) decorate(ctx context.Context, fundID uuid.UUID, items []Item) error {
	bins := make([]string, len(items))
	for i := range items {
		bins[i] = items[i].Record.BIN
	}

	marked, err := s.considerations.ContainsAll(ctx, fundID, bins)
	if err != nil {
		return fmt.Errorf("decorate considerations: %w", err)
	}
	for i := range items {
		items[i].UnderConsideration = marked[items[i].Record.BIN]
	}
	return nil
}
