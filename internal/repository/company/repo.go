// Package company implements the record-store repository: it compiles
// search criteria into indexed SQL and hydrates typed records.
package company

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"golang.org/x/sync/errgroup"

	"github.com/qamqor-cloud/sponsorscope/internal/domain"
	domcompany "github.com/qamqor-cloud/sponsorscope/internal/domain/company"
	"github.com/qamqor-cloud/sponsorscope/internal/domain/locality"
	"github.com/qamqor-cloud/sponsorscope/internal/domain/search/criteria"
	"github.com/qamqor-cloud/sponsorscope/internal/metrics"
)

// querier is the consumer interface over the pgx pool (ISP).
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repo reads company records. Strictly read-only: writes happen in the
// out-of-process import pipeline.
type Repo struct {
	db querier
}

// New creates a company repository.
func New(db querier) *Repo { return &Repo{db: db} }

// Search returns one ranked page of records plus the total match
// count. The count and page statements share a WHERE clause and are
// issued concurrently — they are independent reads, so total latency
// is bounded by the slower of the two.
func (r *Repo) Search(ctx context.Context, c criteria.Criteria) ([]domcompany.Record, int, error) {
	pageQ, countQ := BuildSearch(c)

	start := time.Now()
	g, gctx := errgroup.WithContext(ctx)

	var records []domcompany.Record
	g.Go(func() error {
		rows, err := r.db.Query(gctx, pageQ.SQL, pageQ.Args...)
		if err != nil {
			return storeErr("fetch page", err)
		}
		defer rows.Close()

		records = make([]domcompany.Record, 0, c.PageSize())
		for rows.Next() {
			rec, err := scanRecord(rows)
			if err != nil {
				return storeErr("scan row", err)
			}
			records = append(records, rec)
		}
		if err := rows.Err(); err != nil {
			return storeErr("fetch page", err)
		}
		return nil
	})

	var total int
	g.Go(func() error {
		if err := r.db.QueryRow(gctx, countQ.SQL, countQ.Args...).Scan(&total); err != nil {
			return storeErr("count", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, 0, err
	}
	metrics.SearchDuration.Observe(time.Since(start).Seconds())

	return records, total, nil
}

// GetByBIN fetches a single record by primary key.
func (r *Repo) GetByBIN(ctx context.Context, bin string) (domcompany.Record, error) {
	q := BuildGetByBIN(bin)
	rec, err := scanRecord(r.db.QueryRow(ctx, q.SQL, q.Args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domcompany.Record{}, fmt.Errorf("company %s: %w", bin, domain.ErrNotFound)
		}
		return domcompany.Record{}, storeErr("get by bin", err)
	}
	return rec, nil
}

// Locations lists localities with company counts, most companies first.
func (r *Repo) Locations(ctx context.Context) ([]locality.Count, error) {
	q := BuildLocations()
	rows, err := r.db.Query(ctx, q.SQL, q.Args...)
	if err != nil {
		return nil, storeErr("locations", err)
	}
	defer rows.Close()

	var out []locality.Count
	for rows.Next() {
		var lc locality.Count
		if err := rows.Scan(&lc.Locality, &lc.Companies); err != nil {
			return nil, storeErr("scan location", err)
		}
		out = append(out, lc)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("locations", err)
	}
	return out, nil
}

// storeErr classifies a store failure. Everything that is not a missing
// row — timeouts, broken connections, cancelled contexts — surfaces as
// ErrStoreUnavailable so callers can tell "no results" from "couldn't ask".
func storeErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, domain.ErrStoreUnavailable, err)
}
