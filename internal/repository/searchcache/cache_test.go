package searchcache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/qamqor-cloud/sponsorscope/internal/db/redis"
	"github.com/qamqor-cloud/sponsorscope/internal/domain/company"
	"github.com/qamqor-cloud/sponsorscope/internal/domain/search/criteria"
)

type fakeKV struct {
	data    map[string][]byte
	getErr  error
	setErr  error
	lastTTL time.Duration
}

func newFakeKV() *fakeKV { return &fakeKV{data: make(map[string][]byte)} }

func (f *fakeKV) Get(_ context.Context, key string) ([]byte, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	v, ok := f.data[key]
	if !ok {
		return nil, redis.ErrKeyNotFound
	}
	return v, nil
}

func (f *fakeKV) SetWithTTL(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.data[key] = value
	f.lastTTL = ttl
	return nil
}

type fakeSearcher struct {
	records []company.Record
	total   int
	err     error
	calls   int
}

func (f *fakeSearcher) Search(context.Context, criteria.Criteria) ([]company.Record, int, error) {
	f.calls++
	return f.records, f.total, f.err
}

func testCriteria(t *testing.T, location, freeText string, page int) criteria.Criteria {
	t.Helper()
	c, err := criteria.New(location, freeText, page, 20, criteria.Limits{})
	require.NoError(t, err)
	return c
}

func TestCacheMissThenHit(t *testing.T) {
	store := &fakeSearcher{
		records: []company.Record{{BIN: "111111111111", Name: "Alpha", Taxes: map[int]float64{2025: 100}}},
		total:   1,
	}
	kv := newFakeKV()
	cache := New(store, kv, time.Minute, zap.NewNop())
	crit := testCriteria(t, "Almaty", "", 1)

	records, total, err := cache.Search(context.Background(), crit)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, 1, store.calls)
	assert.Equal(t, time.Minute, kv.lastTTL)

	again, total, err := cache.Search(context.Background(), crit)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, records, again)
	assert.Equal(t, 1, store.calls, "second call must be served from cache")
}

func TestCacheDistinctCriteriaDistinctEntries(t *testing.T) {
	store := &fakeSearcher{total: 0}
	kv := newFakeKV()
	cache := New(store, kv, time.Minute, zap.NewNop())

	_, _, err := cache.Search(context.Background(), testCriteria(t, "Almaty", "", 1))
	require.NoError(t, err)
	_, _, err = cache.Search(context.Background(), testCriteria(t, "Almaty", "", 2))
	require.NoError(t, err)

	assert.Equal(t, 2, store.calls)
	assert.Len(t, kv.data, 2)
}

func TestCacheReadFailureFallsThrough(t *testing.T) {
	store := &fakeSearcher{total: 7}
	kv := newFakeKV()
	kv.getErr = errors.New("connection refused")
	cache := New(store, kv, time.Minute, zap.NewNop())

	_, total, err := cache.Search(context.Background(), testCriteria(t, "", "mining", 1))
	require.NoError(t, err)
	assert.Equal(t, 7, total)
	assert.Equal(t, 1, store.calls)
}

func TestCacheStoreErrorNotCached(t *testing.T) {
	store := &fakeSearcher{err: errors.New("store down")}
	kv := newFakeKV()
	cache := New(store, kv, time.Minute, zap.NewNop())

	_, _, err := cache.Search(context.Background(), testCriteria(t, "", "", 1))
	require.Error(t, err)
	assert.Empty(t, kv.data)
}

func TestCacheUndecodableEntryDiscarded(t *testing.T) {
	store := &fakeSearcher{total: 3}
	kv := newFakeKV()
	cache := New(store, kv, time.Minute, zap.NewNop())
	crit := testCriteria(t, "", "", 1)

	kv.data[cacheKey(crit)] = []byte("{not json")

	_, total, err := cache.Search(context.Background(), crit)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Equal(t, 1, store.calls)
}
