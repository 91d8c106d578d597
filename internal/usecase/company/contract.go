package company

import (
	"context"

	domcompany "github.com/qamqor-cloud/sponsorscope/internal/domain/company"
	"github.com/qamqor-cloud/sponsorscope/internal/domain/locality"
)

// Repository defines the storage contract for company reads.
type Repository interface {
	GetByBIN(ctx context.Context, bin string) (domcompany.Record, error)
	Locations(ctx context.Context) ([]locality.Count, error)
}
