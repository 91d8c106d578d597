package consideration

import (
	"context"

	"github.com/google/uuid"

	"github.com/qamqor-cloud/sponsorscope/internal/domain/company"
)

// Repository defines the storage contract for fund shortlists.
type Repository interface {
	Add(ctx context.Context, fundID uuid.UUID, bin string) error
	Remove(ctx context.Context, fundID uuid.UUID, bin string) error
	List(ctx context.Context, fundID uuid.UUID) ([]company.Record, error)
}
