// Package consideration persists per-fund shortlists of companies.
package consideration

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/qamqor-cloud/sponsorscope/internal/domain"
	"github.com/qamqor-cloud/sponsorscope/internal/domain/company"
)

type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repo stores which companies a fund has marked for consideration.
type Repo struct {
	db querier
}

// New creates a consideration repository.
func New(db querier) *Repo { return &Repo{db: db} }

const fkViolation = "23503"

// Add marks a company as under consideration by a fund. Adding the same
// pair twice is a no-op; adding an unknown BIN fails with ErrNotFound.
func (r *Repo) Add(ctx context.Context, fundID uuid.UUID, bin string) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO considerations (fund_id, bin) VALUES ($1, $2)
		 ON CONFLICT (fund_id, bin) DO NOTHING`,
		fundID, bin)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == fkViolation {
			return fmt.Errorf("company %s: %w", bin, domain.ErrNotFound)
		}
		return storeErr("add consideration", err)
	}
	return nil
}

// Remove unmarks a company. Removing a pair that was never added is a
// no-op, same as Add in reverse.
func (r *Repo) Remove(ctx context.Context, fundID uuid.UUID, bin string) error {
	_, err := r.db.Exec(ctx,
		"DELETE FROM considerations WHERE fund_id = $1 AND bin = $2",
		fundID, bin)
	if err != nil {
		return storeErr("remove consideration", err)
	}
	return nil
}

// Contains reports whether the fund is considering the company.
func (r *Repo) Contains(ctx context.Context, fundID uuid.UUID, bin string) (bool, error) {
	var found bool
	err := r.db.QueryRow(ctx,
		"SELECT EXISTS (SELECT 1 FROM considerations WHERE fund_id = $1 AND bin = $2)",
		fundID, bin).Scan(&found)
	if err != nil {
		return false, storeErr("check consideration", err)
	}
	return found, nil
}

// ContainsAll returns the subset of bins the fund is considering. One
// round trip regardless of page size; the service layer decorates a
// whole result page with this.
func (r *Repo) ContainsAll(ctx context.Context, fundID uuid.UUID, bins []string) (map[string]bool, error) {
	marked := make(map[string]bool, len(bins))
	if len(bins) == 0 {
		return marked, nil
	}

	rows, err := r.db.Query(ctx,
		"SELECT bin FROM considerations WHERE fund_id = $1 AND bin = ANY($2)",
		fundID, bins)
	if err != nil {
		return nil, storeErr("check considerations", err)
	}
	defer rows.Close()

	for rows.Next() {
		var bin string
		if err := rows.Scan(&bin); err != nil {
			return nil, storeErr("scan consideration", err)
		}
		marked[bin] = true
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("check considerations", err)
	}
	return marked, nil
}

// List returns the fund's considered companies, most recently added
// first.
func (r *Repo) List(ctx context.Context, fundID uuid.UUID) ([]company.Record, error) {
	rows, err := r.db.Query(ctx,
		`SELECT c.bin, c.name, c.oked, c.activity, c.kato, c.locality, c.krp, c.size,
		        c.contacts, c.website,
		        c.tax_2020, c.tax_2021, c.tax_2022, c.tax_2023, c.tax_2024, c.tax_2025,
		        c.last_tax_update
		 FROM considerations k
		 JOIN companies c ON c.bin = k.bin
		 WHERE k.fund_id = $1
		 ORDER BY k.added_at DESC, c.bin ASC`,
		fundID)
	if err != nil {
		return nil, storeErr("list considerations", err)
	}
	defer rows.Close()

	var out []company.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, storeErr("scan considered company", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("list considerations", err)
	}
	return out, nil
}

func storeErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, domain.ErrStoreUnavailable, err)
}
