package research

import (
	"context"

	"github.com/qamqor-cloud/sponsorscope/internal/domain/company"
	"github.com/qamqor-cloud/sponsorscope/internal/domain/research"
)

// WebSearcher is the outbound web search provider.
type WebSearcher interface {
	Search(ctx context.Context, query string) ([]research.Hit, error)
}

// CompanyReader fetches the record being researched.
type CompanyReader interface {
	GetByBIN(ctx context.Context, bin string) (company.Record, error)
}
