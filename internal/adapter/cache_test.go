package adapter

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-course-sync/internal/store"
	"github.com/MKhiriev/go-course-sync/models"
)

// stubWebService answers every call with answer or err and counts calls.
type stubWebService struct {
	answer string
	err    error
	calls  int
}

func (s *stubWebService) Call(_ context.Context, _ models.Site, _ string, _ map[string]any, result any) error {
	s.calls++
	if s.err != nil {
		return s.err
	}
	if result == nil {
		return nil
	}
	return json.Unmarshal([]byte(s.answer), result)
}

func newTestCache(t *testing.T, ws WebService) (*cachedWebService, *time.Time) {
	t.Helper()

	st, err := store.NewMemoryStore(":memory:")
	require.NoError(t, err)
	require.NoError(t, st.CreateTable(context.Background(), "site-1", CacheSchema()))

	now := time.Unix(10_000, 0)
	c := NewCachedWebService(ws, st).(*cachedWebService)
	c.now = func() time.Time { return now }
	return c, &now
}

func TestCachedCall_AnswersFromFreshEntry(t *testing.T) {
	ws := &stubWebService{answer: `{"n":1}`}
	c, _ := newTestCache(t, ws)
	site := models.Site{ID: "site-1"}

	var out struct{ N int }
	require.NoError(t, c.CachedCall(context.Background(), site, "f", map[string]any{"a": 1}, &out, DefaultPreSets()))
	ws.answer = `{"n":2}`
	require.NoError(t, c.CachedCall(context.Background(), site, "f", map[string]any{"a": 1}, &out, DefaultPreSets()))

	assert.Equal(t, 1, out.N)
	assert.Equal(t, 1, ws.calls)
}

func TestCachedCall_DifferentParamsAreDifferentEntries(t *testing.T) {
	ws := &stubWebService{answer: `{}`}
	c, _ := newTestCache(t, ws)
	site := models.Site{ID: "site-1"}

	require.NoError(t, c.CachedCall(context.Background(), site, "f", map[string]any{"a": 1}, nil, DefaultPreSets()))
	require.NoError(t, c.CachedCall(context.Background(), site, "f", map[string]any{"a": 2}, nil, DefaultPreSets()))
	assert.Equal(t, 2, ws.calls)
}

func TestCachedCall_ExpiredEntryIsRefreshed(t *testing.T) {
	ws := &stubWebService{answer: `{"n":1}`}
	c, now := newTestCache(t, ws)
	site := models.Site{ID: "site-1"}

	var out struct{ N int }
	require.NoError(t, c.CachedCall(context.Background(), site, "f", nil, &out, DefaultPreSets()))
	*now = now.Add(DefaultUpdateFrequency + time.Second)
	ws.answer = `{"n":2}`
	require.NoError(t, c.CachedCall(context.Background(), site, "f", nil, &out, DefaultPreSets()))

	assert.Equal(t, 2, out.N)
	assert.Equal(t, 2, ws.calls)
}

func TestCachedCall_TransientFailureFallsBackToExpiredEntry(t *testing.T) {
	ws := &stubWebService{answer: `{"n":1}`}
	c, now := newTestCache(t, ws)
	site := models.Site{ID: "site-1"}

	var out struct{ N int }
	require.NoError(t, c.CachedCall(context.Background(), site, "f", nil, &out, DefaultPreSets()))
	*now = now.Add(time.Hour)
	ws.err = ErrNetwork

	out.N = 0
	require.NoError(t, c.CachedCall(context.Background(), site, "f", nil, &out, DefaultPreSets()))
	assert.Equal(t, 1, out.N)
}

func TestCachedCall_TransientFailureWithoutEntry(t *testing.T) {
	c, _ := newTestCache(t, &stubWebService{err: ErrTimeout})

	err := c.CachedCall(context.Background(), models.Site{ID: "site-1"}, "f", nil, nil, DefaultPreSets())
	assert.ErrorIs(t, err, ErrTransient)
}

func TestCachedCall_CachesListedErrors(t *testing.T) {
	ws := &stubWebService{err: &WSError{ErrorCode: "invalidrecord", Message: "gone"}}
	c, _ := newTestCache(t, ws)
	site := models.Site{ID: "site-1"}
	preSets := DefaultPreSets()
	preSets.CacheErrors = []string{"invalidrecord"}

	for range 2 {
		err := c.CachedCall(context.Background(), site, "f", nil, nil, preSets)
		require.Error(t, err)
		assert.True(t, IsWSError(err))
	}
	assert.Equal(t, 1, ws.calls)
}

func TestCachedCall_DoesNotCacheOtherErrors(t *testing.T) {
	ws := &stubWebService{err: &WSError{ErrorCode: "nopermission"}}
	c, _ := newTestCache(t, ws)
	site := models.Site{ID: "site-1"}

	for range 2 {
		require.Error(t, c.CachedCall(context.Background(), site, "f", nil, nil, DefaultPreSets()))
	}
	assert.Equal(t, 2, ws.calls)
}

func TestCachedCall_SkipsCacheWhenAsked(t *testing.T) {
	ws := &stubWebService{answer: `{}`}
	c, _ := newTestCache(t, ws)
	site := models.Site{ID: "site-1"}

	require.NoError(t, c.CachedCall(context.Background(), site, "f", nil, nil, DefaultPreSets()))
	require.NoError(t, c.CachedCall(context.Background(), site, "f", nil, nil, PreSets{SaveToCache: true}))
	assert.Equal(t, 2, ws.calls)
}

func TestInvalidateByKey(t *testing.T) {
	ws := &stubWebService{answer: `{}`}
	c, _ := newTestCache(t, ws)
	site := models.Site{ID: "site-1"}
	preSets := DefaultPreSets()
	preSets.CacheKey = CourseContentsCacheKey(3)

	require.NoError(t, c.CachedCall(context.Background(), site, "f", nil, nil, preSets))
	require.NoError(t, c.InvalidateByKey(context.Background(), "site-1", preSets.CacheKey))
	require.NoError(t, c.CachedCall(context.Background(), site, "f", nil, nil, preSets))
	assert.Equal(t, 2, ws.calls)

	preSets.OmitExpires = true
	require.NoError(t, c.InvalidateByKey(context.Background(), "site-1", preSets.CacheKey))
	require.NoError(t, c.CachedCall(context.Background(), site, "f", nil, nil, preSets))
	assert.Equal(t, 2, ws.calls, "expired entries are used when expiry is omitted")
}
