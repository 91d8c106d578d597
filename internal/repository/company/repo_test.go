package company

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qamqor-cloud/sponsorscope/internal/domain"
	domcompany "github.com/qamqor-cloud/sponsorscope/internal/domain/company"
)

// --- pgx fakes ---

// scanFn assigns column values into the scan destinations the way a
// live pgx row would.
type scanFn func(dest ...any) error

type fakeRow struct{ scan scanFn }

func (r fakeRow) Scan(dest ...any) error { return r.scan(dest...) }

type fakeRows struct {
	rows []scanFn
	idx  int
	err  error
}

func (r *fakeRows) Close()                                       {}
func (r *fakeRows) Err() error                                   { return r.err }
func (r *fakeRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *fakeRows) Values() ([]any, error)                       { return nil, nil }
func (r *fakeRows) RawValues() [][]byte                          { return nil }
func (r *fakeRows) Conn() *pgx.Conn                              { return nil }

func (r *fakeRows) Next() bool {
	if r.idx >= len(r.rows) {
		return false
	}
	r.idx++
	return true
}

func (r *fakeRows) Scan(dest ...any) error { return r.rows[r.idx-1](dest...) }

// stubQuerier dispatches on the statement text: the count statement
// goes through QueryRow, the page and locations statements through
// Query.
type stubQuerier struct {
	rows     pgx.Rows
	queryErr error
	row      pgx.Row
}

func (s *stubQuerier) Query(_ context.Context, _ string, _ ...any) (pgx.Rows, error) {
	return s.rows, s.queryErr
}

func (s *stubQuerier) QueryRow(_ context.Context, _ string, _ ...any) pgx.Row {
	return s.row
}

// companyRow builds a scanFn for one companies row. taxes keys outside
// the covered fiscal years are ignored.
func companyRow(bin, name string, taxes map[int]float64, last *time.Time) scanFn {
	return func(dest ...any) error {
		*(dest[0].(*string)) = bin
		*(dest[1].(*string)) = name
		for i := 0; i < domcompany.LastTaxYear-domcompany.FirstTaxYear+1; i++ {
			if v, ok := taxes[domcompany.FirstTaxYear+i]; ok {
				f := v
				*(dest[10+i].(**float64)) = &f
			}
		}
		*(dest[16].(**time.Time)) = last
		return nil
	}
}

func countRow(total int) fakeRow {
	return fakeRow{scan: func(dest ...any) error {
		*(dest[0].(*int)) = total
		return nil
	}}
}

func errRow(err error) fakeRow {
	return fakeRow{scan: func(_ ...any) error { return err }}
}

// --- Tests ---

func TestSearchReturnsPageAndTotal(t *testing.T) {
	last := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	db := &stubQuerier{
		rows: &fakeRows{rows: []scanFn{
			companyRow("111111111111", "Alpha", map[int]float64{2025: 500, 2023: 120}, &last),
			companyRow("222222222222", "Beta", nil, nil),
		}},
		row: countRow(45),
	}
	repo := New(db)

	records, total, err := repo.Search(context.Background(), mustCriteria(t, "almaty", "", 1, 20))
	require.NoError(t, err)

	assert.Equal(t, 45, total)
	require.Len(t, records, 2)
	assert.Equal(t, "Alpha", records[0].Name)
	assert.Equal(t, map[int]float64{2025: 500, 2023: 120}, records[0].Taxes)
	require.NotNil(t, records[0].LastTaxUpdate)
	assert.True(t, records[0].LastTaxUpdate.Equal(last))

	// No tax data hydrates to an empty map, never to zero entries.
	assert.Empty(t, records[1].Taxes)
	assert.Nil(t, records[1].LastTaxUpdate)
}

func TestSearchPreservesStoreOrder(t *testing.T) {
	// The store returns rows already ranked (tax descending, nulls
	// last, name ascending); hydration must not reorder them.
	db := &stubQuerier{
		rows: &fakeRows{rows: []scanFn{
			companyRow("333333333333", "Alpha", map[int]float64{2025: 500}, nil),
			companyRow("111111111111", "Beta", map[int]float64{2025: 500}, nil),
			companyRow("222222222222", "Gamma", nil, nil),
		}},
		row: countRow(3),
	}
	repo := New(db)

	records, _, err := repo.Search(context.Background(), mustCriteria(t, "almaty", "", 1, 10))
	require.NoError(t, err)

	names := make([]string, len(records))
	for i, r := range records {
		names[i] = r.Name
	}
	assert.Equal(t, []string{"Alpha", "Beta", "Gamma"}, names)
}

func TestSearchPageQueryFailure(t *testing.T) {
	db := &stubQuerier{
		queryErr: errors.New("connection reset"),
		row:      countRow(0),
	}
	repo := New(db)

	_, _, err := repo.Search(context.Background(), mustCriteria(t, "", "", 1, 20))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
}

func TestSearchCountFailure(t *testing.T) {
	db := &stubQuerier{
		rows: &fakeRows{},
		row:  errRow(errors.New("statement timeout")),
	}
	repo := New(db)

	_, _, err := repo.Search(context.Background(), mustCriteria(t, "", "", 1, 20))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
}

func TestSearchRowsErrSurfaces(t *testing.T) {
	db := &stubQuerier{
		rows: &fakeRows{err: errors.New("broken stream")},
		row:  countRow(0),
	}
	repo := New(db)

	_, _, err := repo.Search(context.Background(), mustCriteria(t, "", "", 1, 20))
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
}

func TestGetByBINHydratesRecord(t *testing.T) {
	db := &stubQuerier{
		row: fakeRow{scan: companyRow("123456789012", "Alpha", map[int]float64{2024: 900}, nil)},
	}
	repo := New(db)

	rec, err := repo.GetByBIN(context.Background(), "123456789012")
	require.NoError(t, err)
	assert.Equal(t, "123456789012", rec.BIN)
	assert.Equal(t, map[int]float64{2024: 900}, rec.Taxes)
}

func TestGetByBINNoRows(t *testing.T) {
	db := &stubQuerier{row: errRow(pgx.ErrNoRows)}
	repo := New(db)

	_, err := repo.GetByBIN(context.Background(), "123456789012")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.NotErrorIs(t, err, domain.ErrStoreUnavailable)
}

func TestGetByBINStoreFailure(t *testing.T) {
	db := &stubQuerier{row: errRow(errors.New("conn refused"))}
	repo := New(db)

	_, err := repo.GetByBIN(context.Background(), "123456789012")
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
	assert.True(t, strings.Contains(err.Error(), "conn refused"))
}

func TestLocations(t *testing.T) {
	db := &stubQuerier{
		rows: &fakeRows{rows: []scanFn{
			func(dest ...any) error {
				*(dest[0].(*string)) = "Алматы"
				*(dest[1].(*int)) = 42
				return nil
			},
		}},
	}
	repo := New(db)

	counts, err := repo.Locations(context.Background())
	require.NoError(t, err)
	require.Len(t, counts, 1)
	assert.Equal(t, "Алматы", counts[0].Locality)
	assert.Equal(t, 42, counts[0].Companies)
}
