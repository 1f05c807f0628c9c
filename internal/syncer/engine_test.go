package syncer

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-course-sync/internal/adapter"
	"github.com/MKhiriev/go-course-sync/internal/offline"
	"github.com/MKhiriev/go-course-sync/internal/store"
	"github.com/MKhiriev/go-course-sync/models"
)

const testSiteID = "site-1"

var testSite = models.Site{ID: testSiteID, URL: "https://school.example.com", UserID: 7}

type answer struct {
	Text string `json:"text"`
}

// fakeStrategy records replayed keys and fails the keys listed in errs.
type fakeStrategy struct {
	mu       sync.Mutex
	replayed []int64
	errs     map[int64]error
	warnings []string
}

func (f *fakeStrategy) Replay(_ context.Context, _ models.Site, a offline.Action[answer]) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.replayed = append(f.replayed, a.Keys[0])
	if err := f.errs[a.Keys[0]]; err != nil {
		return nil, err
	}
	return f.warnings, nil
}

func (f *fakeStrategy) calls() []int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int64(nil), f.replayed...)
}

// editingStrategy records the replayed payloads and runs onReplay before
// answering, like a user saving while the sync is in flight.
type editingStrategy struct {
	onReplay func(a offline.Action[answer])
	sent     map[int64][]string
}

func (e *editingStrategy) Replay(_ context.Context, _ models.Site, a offline.Action[answer]) ([]string, error) {
	if e.sent == nil {
		e.sent = make(map[int64][]string)
	}
	e.sent[a.Keys[0]] = append(e.sent[a.Keys[0]], a.Payload.Text)
	if e.onReplay != nil {
		e.onReplay(a)
	}
	return nil, nil
}

// preparingStrategy discards the actions whose key is in stale.
type preparingStrategy struct {
	fakeStrategy
	stale map[int64]bool
}

func (p *preparingStrategy) Prepare(_ context.Context, _ models.Site, _ int64, actions []offline.Action[answer]) ([]offline.Action[answer], []Discarded[answer], error) {
	var keep []offline.Action[answer]
	var discard []Discarded[answer]
	for _, a := range actions {
		if p.stale[a.Keys[0]] {
			discard = append(discard, Discarded[answer]{Action: a, Reason: "stale"})
			continue
		}
		keep = append(keep, a)
	}
	return keep, discard, nil
}

func newTestRepo(t *testing.T) (*offline.Repository[answer], store.LocalStore) {
	t.Helper()

	st, err := store.NewMemoryStore(":memory:")
	require.NoError(t, err)

	repo := offline.NewRepository[answer](st, models.ModuleQuiz, "answers", offline.WithKeyArity(1))
	require.NoError(t, st.CreateTable(context.Background(), testSiteID, repo.Schema()))
	return repo, st
}

func saveAt(t *testing.T, repo *offline.Repository[answer], entityID, key, at int64) {
	t.Helper()
	_, err := repo.SaveAt(context.Background(), testSiteID, entityID, []int64{key}, answer{Text: "a"}, time.Unix(at, 0))
	require.NoError(t, err)
}

func TestEngine_NothingToSync(t *testing.T) {
	repo, _ := newTestRepo(t)
	strategy := &fakeStrategy{}

	result, err := NewEngine[answer](repo, strategy).SyncInstance(context.Background(), testSite, 1)

	require.NoError(t, err)
	assert.False(t, result.Updated)
	assert.Empty(t, result.Warnings)
	assert.Empty(t, strategy.calls())
}

func TestEngine_ReplaysOldestFirstAndDeletes(t *testing.T) {
	repo, _ := newTestRepo(t)
	saveAt(t, repo, 1, 30, 300)
	saveAt(t, repo, 1, 10, 100)
	saveAt(t, repo, 1, 20, 200)
	strategy := &fakeStrategy{warnings: []string{"late submission"}}

	result, err := NewEngine[answer](repo, strategy).SyncInstance(context.Background(), testSite, 1)

	require.NoError(t, err)
	assert.True(t, result.Updated)
	assert.Equal(t, []int64{10, 20, 30}, strategy.calls())
	require.Len(t, result.Warnings, 3)
	assert.Equal(t, "quiz 1: late submission", result.Warnings[0])

	has, err := repo.HasOfflineData(context.Background(), testSiteID, 1)
	require.NoError(t, err)
	assert.False(t, has)
}

func TestEngine_ReplayIsIdempotent(t *testing.T) {
	repo, _ := newTestRepo(t)
	saveAt(t, repo, 1, 10, 100)
	strategy := &fakeStrategy{}
	engine := NewEngine[answer](repo, strategy)

	_, err := engine.SyncInstance(context.Background(), testSite, 1)
	require.NoError(t, err)
	result, err := engine.SyncInstance(context.Background(), testSite, 1)
	require.NoError(t, err)

	assert.False(t, result.Updated)
	assert.Equal(t, []int64{10}, strategy.calls(), "nothing is sent twice")
}

func TestEngine_DefinitiveRejectionDiscardsAndContinues(t *testing.T) {
	repo, _ := newTestRepo(t)
	saveAt(t, repo, 1, 10, 100)
	saveAt(t, repo, 1, 20, 200)
	strategy := &fakeStrategy{errs: map[int64]error{
		10: &adapter.WSError{Exception: "moodle_exception", ErrorCode: "attemptalreadyclosed", Message: "This attempt is closed"},
	}}

	result, err := NewEngine[answer](repo, strategy).SyncInstance(context.Background(), testSite, 1)

	require.NoError(t, err)
	assert.True(t, result.Updated)
	assert.Equal(t, []string{"quiz 1: This attempt is closed"}, result.Warnings)
	assert.Equal(t, []int64{10, 20}, strategy.calls())

	has, err := repo.HasOfflineData(context.Background(), testSiteID, 1)
	require.NoError(t, err)
	assert.False(t, has)
}

func TestEngine_RemoteWinsDiscards(t *testing.T) {
	repo, _ := newTestRepo(t)
	saveAt(t, repo, 1, 10, 100)
	strategy := &fakeStrategy{errs: map[int64]error{10: ErrRemoteWins}}

	result, err := NewEngine[answer](repo, strategy).SyncInstance(context.Background(), testSite, 1)

	require.NoError(t, err)
	assert.Equal(t, []string{"quiz 1: " + ErrRemoteWins.Error()}, result.Warnings)
}

func TestEngine_TransientFailureAbortsAndKeepsEntry(t *testing.T) {
	repo, _ := newTestRepo(t)
	saveAt(t, repo, 1, 10, 100)
	saveAt(t, repo, 1, 20, 200)
	saveAt(t, repo, 1, 30, 300)
	strategy := &fakeStrategy{errs: map[int64]error{20: adapter.ErrNetwork}}

	result, err := NewEngine[answer](repo, strategy).SyncInstance(context.Background(), testSite, 1)

	require.Error(t, err)
	assert.ErrorIs(t, err, adapter.ErrTransient)
	assert.False(t, result.Updated, "a failed run reports no update")
	assert.Equal(t, []int64{10, 20}, strategy.calls())

	left, err := repo.ListFor(context.Background(), testSiteID, 1)
	require.NoError(t, err)
	require.Len(t, left, 2)
	for _, a := range left {
		assert.Equal(t, models.ActionPending, a.Status)
	}
}

func TestEngine_EditOfLaterEntryDuringReplayIsSent(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()
	saveAt(t, repo, 1, 10, 100)
	saveAt(t, repo, 1, 20, 200)

	strategy := &editingStrategy{}
	strategy.onReplay = func(a offline.Action[answer]) {
		if a.Keys[0] == 10 {
			_, err := repo.SaveAt(ctx, testSiteID, 1, []int64{20}, answer{Text: "edited"}, time.Unix(300, 0))
			require.NoError(t, err)
		}
	}

	result, err := NewEngine[answer](repo, strategy).SyncInstance(ctx, testSite, 1)

	require.NoError(t, err)
	assert.True(t, result.Updated)
	assert.Equal(t, []string{"edited"}, strategy.sent[20], "the stored payload is replayed")

	has, err := repo.HasOfflineData(ctx, testSiteID, 1)
	require.NoError(t, err)
	assert.False(t, has)
}

func TestEngine_EditOfEntryOnTheWireStaysQueued(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()
	saveAt(t, repo, 1, 10, 100)

	strategy := &editingStrategy{}
	strategy.onReplay = func(a offline.Action[answer]) {
		// same second as the first save
		_, err := repo.SaveAt(ctx, testSiteID, 1, []int64{10}, answer{Text: "edited"}, time.Unix(100, 0))
		require.NoError(t, err)
	}
	engine := NewEngine[answer](repo, strategy)

	_, err := engine.SyncInstance(ctx, testSite, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, strategy.sent[10])

	kept, ok, err := repo.Get(ctx, testSiteID, 1, 10)
	require.NoError(t, err)
	require.True(t, ok, "the edit is not dropped")
	assert.Equal(t, "edited", kept.Payload.Text)
	assert.Equal(t, models.ActionPending, kept.Status)

	strategy.onReplay = nil
	_, err = engine.SyncInstance(ctx, testSite, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "edited"}, strategy.sent[10])

	has, err := repo.HasOfflineData(ctx, testSiteID, 1)
	require.NoError(t, err)
	assert.False(t, has)
}

func TestEngine_StoreFailurePropagates(t *testing.T) {
	repo, st := newTestRepo(t)
	saveAt(t, repo, 1, 10, 100)
	require.NoError(t, st.Close())

	_, err := NewEngine[answer](repo, &fakeStrategy{}).SyncInstance(context.Background(), testSite, 1)
	assert.ErrorIs(t, err, store.ErrStoreClosed)
}

func TestEngine_PreparerDiscardsBeforeReplay(t *testing.T) {
	repo, _ := newTestRepo(t)
	saveAt(t, repo, 1, 10, 100)
	saveAt(t, repo, 1, 20, 200)
	strategy := &preparingStrategy{stale: map[int64]bool{10: true}}

	result, err := NewEngine[answer](repo, strategy).SyncInstance(context.Background(), testSite, 1)

	require.NoError(t, err)
	assert.Equal(t, []int64{20}, strategy.calls())
	assert.Equal(t, []string{"quiz 1: stale"}, result.Warnings)
}

func TestEngine_UnclassifiedErrorKeepsEntry(t *testing.T) {
	repo, _ := newTestRepo(t)
	saveAt(t, repo, 1, 10, 100)
	boom := errors.New("boom")
	strategy := &fakeStrategy{errs: map[int64]error{10: boom}}

	_, err := NewEngine[answer](repo, strategy).SyncInstance(context.Background(), testSite, 1)

	assert.ErrorIs(t, err, boom)
	has, err := repo.HasOfflineData(context.Background(), testSiteID, 1)
	require.NoError(t, err)
	assert.True(t, has)
}

func TestIsDefinitiveRejection(t *testing.T) {
	assert.True(t, IsDefinitiveRejection(&adapter.WSError{ErrorCode: "x"}))
	assert.True(t, IsDefinitiveRejection(ErrRemoteWins))
	assert.True(t, IsDefinitiveRejection(ErrInvalidAction))
	assert.False(t, IsDefinitiveRejection(adapter.ErrTimeout))
	assert.False(t, IsDefinitiveRejection(errors.New("other")))
}

func TestCompose(t *testing.T) {
	first, _ := newTestRepo(t)
	saveAt(t, first, 1, 10, 100)

	st, err := store.NewMemoryStore(":memory:")
	require.NoError(t, err)
	second := offline.NewRepository[answer](st, models.ModuleQuiz, "other", offline.WithKeyArity(1))
	require.NoError(t, st.CreateTable(context.Background(), testSiteID, second.Schema()))
	saveAt(t, second, 2, 20, 200)

	a, b := &fakeStrategy{}, &fakeStrategy{}
	m := Compose(models.ModuleQuiz, NewEngine[answer](first, a), NewEngine[answer](second, b))

	ids, err := m.EntitiesWithData(context.Background(), testSiteID)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2}, ids)
	assert.Len(t, m.Schemas(), 2)

	has, err := m.HasDataToSync(context.Background(), testSiteID, 2)
	require.NoError(t, err)
	assert.True(t, has)

	result, err := m.SyncInstance(context.Background(), testSite, 2)
	require.NoError(t, err)
	assert.True(t, result.Updated)
	assert.Empty(t, a.calls())
	assert.Equal(t, []int64{20}, b.calls())
}
