package search

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/qamqor-cloud/sponsorscope/internal/domain"
	"github.com/qamqor-cloud/sponsorscope/internal/domain/company"
	"github.com/qamqor-cloud/sponsorscope/internal/domain/search/criteria"
)

// --- Mocks ---

type mockStore struct {
	records     []company.Record
	total       int
	err         error
	called      bool
	lastCrit    criteria.Criteria
	hadDeadline bool
}

func (m *mockStore) Search(ctx context.Context, c criteria.Criteria) ([]company.Record, int, error) {
	m.called = true
	m.lastCrit = c
	_, m.hadDeadline = ctx.Deadline()
	return m.records, m.total, m.err
}

type mockConsiderations struct {
	marked   map[string]bool
	err      error
	called   bool
	lastBins []string
}

func (m *mockConsiderations) ContainsAll(_ context.Context, _ uuid.UUID, bins []string) (map[string]bool, error) {
	m.called = true
	m.lastBins = bins
	return m.marked, m.err
}

func records(bins ...string) []company.Record {
	out := make([]company.Record, len(bins))
	for i, b := range bins {
		out[i] = company.Record{BIN: b, Name: "Company " + b}
	}
	return out
}

// --- Tests ---

func TestSearchInvalidCriteriaRejectedBeforeStore(t *testing.T) {
	store := &mockStore{}
	svc := New(store, &mockConsiderations{}, 0, criteria.Limits{})

	cases := []Params{
		{Page: -1},
		{PageSize: 101},
		{Location: "Atlantis"},
	}
	for _, p := range cases {
		_, err := svc.Search(context.Background(), p)
		if !errors.Is(err, domain.ErrInvalidCriteria) {
			t.Fatalf("params %+v: want ErrInvalidCriteria, got %v", p, err)
		}
	}
	if store.called {
		t.Fatal("store must not be queried for invalid criteria")
	}
}

func TestSearchBrowseDefaults(t *testing.T) {
	store := &mockStore{records: records("111111111111"), total: 1}
	svc := New(store, &mockConsiderations{}, 0, criteria.Limits{})

	res, err := svc.Search(context.Background(), Params{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := store.lastCrit.Page(); got != 1 {
		t.Errorf("default page = %d, want 1", got)
	}
	if got := store.lastCrit.PageSize(); got != criteria.DefaultPageSize {
		t.Errorf("default page size = %d, want %d", got, criteria.DefaultPageSize)
	}
	if res.Meta.Total != 1 {
		t.Errorf("total = %d, want 1", res.Meta.Total)
	}
}

func TestSearchMetadata(t *testing.T) {
	store := &mockStore{records: records("111111111111"), total: 45}
	svc := New(store, &mockConsiderations{}, 0, criteria.Limits{})

	res, err := svc.Search(context.Background(), Params{Page: 2, PageSize: 20})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	m := res.Meta
	if m.TotalPages != 3 {
		t.Errorf("total_pages = %d, want 3", m.TotalPages)
	}
	if !m.HasNext || !m.HasPrev {
		t.Errorf("has_next=%v has_prev=%v, want both true", m.HasNext, m.HasPrev)
	}
}

func TestSearchEmptyMatch(t *testing.T) {
	store := &mockStore{total: 0}
	svc := New(store, &mockConsiderations{}, 0, criteria.Limits{})

	res, err := svc.Search(context.Background(), Params{FreeText: "nothing matches this"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Items) != 0 {
		t.Errorf("items = %d, want 0", len(res.Items))
	}
	if res.Meta.TotalPages != 0 || res.Meta.HasNext || res.Meta.HasPrev {
		t.Errorf("empty match meta = %+v, want zero pages and no nav flags", res.Meta)
	}
}

func TestSearchStoreErrorPropagates(t *testing.T) {
	store := &mockStore{err: domain.ErrStoreUnavailable}
	svc := New(store, &mockConsiderations{}, 0, criteria.Limits{})

	_, err := svc.Search(context.Background(), Params{})
	if !errors.Is(err, domain.ErrStoreUnavailable) {
		t.Fatalf("want ErrStoreUnavailable, got %v", err)
	}
}

func TestSearchDecoratesConsiderations(t *testing.T) {
	store := &mockStore{records: records("111111111111", "222222222222"), total: 2}
	cons := &mockConsiderations{marked: map[string]bool{"222222222222": true}}
	svc := New(store, cons, 0, criteria.Limits{})

	fundID := uuid.New()
	res, err := svc.Search(context.Background(), Params{FundID: &fundID})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cons.called {
		t.Fatal("considerations must be consulted when fund id is present")
	}
	if len(cons.lastBins) != 2 {
		t.Fatalf("batch lookup got %d bins, want 2", len(cons.lastBins))
	}
	if res.Items[0].UnderConsideration {
		t.Error("first item must not be marked")
	}
	if !res.Items[1].UnderConsideration {
		t.Error("second item must be marked")
	}
}

func TestSearchAnonymousSkipsConsiderations(t *testing.T) {
	store := &mockStore{records: records("111111111111"), total: 1}
	cons := &mockConsiderations{}
	svc := New(store, cons, 0, criteria.Limits{})

	if _, err := svc.Search(context.Background(), Params{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cons.called {
		t.Fatal("considerations must not be consulted without a fund id")
	}
}

func TestSearchConsiderationErrorPropagates(t *testing.T) {
	store := &mockStore{records: records("111111111111"), total: 1}
	cons := &mockConsiderations{err: domain.ErrStoreUnavailable}
	svc := New(store, cons, 0, criteria.Limits{})

	fundID := uuid.New()
	_, err := svc.Search(context.Background(), Params{FundID: &fundID})
	if !errors.Is(err, domain.ErrStoreUnavailable) {
		t.Fatalf("want ErrStoreUnavailable, got %v", err)
	}
}

func TestSearchAppliesQueryTimeout(t *testing.T) {
	store := &mockStore{}
	svc := New(store, &mockConsiderations{}, 5*time.Second, criteria.Limits{})

	if _, err := svc.Search(context.Background(), Params{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !store.hadDeadline {
		t.Fatal("store context must carry the query deadline")
	}
}

func TestSearchUsesConfiguredPageLimits(t *testing.T) {
	store := &mockStore{}
	limits := criteria.Limits{DefaultPageSize: 10, MaxPageSize: 50}
	svc := New(store, &mockConsiderations{}, 0, limits)

	if _, err := svc.Search(context.Background(), Params{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := store.lastCrit.PageSize(); got != 10 {
		t.Errorf("configured default page size = %d, want 10", got)
	}

	_, err := svc.Search(context.Background(), Params{PageSize: 51})
	if !errors.Is(err, domain.ErrInvalidCriteria) {
		t.Fatalf("51 exceeds the configured max, want ErrInvalidCriteria, got %v", err)
	}
}
