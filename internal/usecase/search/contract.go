package search

import (
	"context"

	"github.com/google/uuid"

	"github.com/qamqor-cloud/sponsorscope/internal/domain/company"
	"github.com/qamqor-cloud/sponsorscope/internal/domain/search/criteria"
)

// Searcher defines the storage contract for ranked company search.
// Satisfied by the record store directly or by its cache decorator.
type Searcher interface {
	Search(ctx context.Context, c criteria.Criteria) ([]company.Record, int, error)
}

// ConsiderationReader reads a fund's shortlist for result decoration.
type ConsiderationReader interface {
	ContainsAll(ctx context.Context, fundID uuid.UUID, bins []string) (map[string]bool, error)
}
