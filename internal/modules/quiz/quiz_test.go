package quiz

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-course-sync/internal/adapter"
	"github.com/MKhiriev/go-course-sync/internal/events"
	"github.com/MKhiriev/go-course-sync/internal/mock"
	"github.com/MKhiriev/go-course-sync/internal/network"
	"github.com/MKhiriev/go-course-sync/internal/store"
	"github.com/MKhiriev/go-course-sync/internal/syncer"
	"github.com/MKhiriev/go-course-sync/models"
)

const siteID = "site-1"

var site = models.Site{ID: siteID, URL: "https://school.example.com", UserID: 7, Token: "t"}

type onlineNetwork struct{}

func (onlineNetwork) State() network.State { return network.State{Online: true} }

func newFixture(t *testing.T) (*Module, *mock.MockCachedWebService, *syncer.ModuleSyncer) {
	t.Helper()
	ctrl := gomock.NewController(t)

	st, err := store.NewMemoryStore(":memory:")
	require.NoError(t, err)

	ws := mock.NewMockCachedWebService(ctrl)
	bus := events.NewBus()
	m := New(st, ws, mock.NewMockFileManifest(ctrl), bus)

	for _, schema := range append(m.Sync.Schemas(), syncer.Schemas()...) {
		require.NoError(t, st.CreateTable(context.Background(), siteID, schema))
	}
	return m, ws, syncer.NewModuleSyncer(m.Sync, syncer.NewCoordinator(), st, bus, onlineNetwork{}, syncer.Policy{})
}

func answerWith(body string) func(context.Context, models.Site, string, map[string]any, any) error {
	return func(_ context.Context, _ models.Site, _ string, _ map[string]any, result any) error {
		return json.Unmarshal([]byte(body), result)
	}
}

func TestOffline_SaveAnswersMerges(t *testing.T) {
	m, _, _ := newFixture(t)
	ctx := context.Background()

	_, err := m.Offline.SaveAnswers(ctx, siteID, 8, 100, 3, map[string]string{"q1:1_answer": "1"}, false, false)
	require.NoError(t, err)
	_, err = m.Offline.SaveAnswers(ctx, siteID, 8, 100, 3, map[string]string{"q2:1_answer": "0"}, true, false)
	require.NoError(t, err)

	got, ok, err := m.Offline.GetAttemptAnswers(ctx, siteID, 8, 100)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, map[string]string{"q1:1_answer": "1", "q2:1_answer": "0"}, got.Payload.Answers)
	assert.True(t, got.Payload.Finish)

	require.NoError(t, m.Offline.DeleteAttempt(ctx, siteID, 8, 100))
	has, err := m.Offline.HasOfflineData(ctx, siteID, 8)
	require.NoError(t, err)
	assert.False(t, has)
}

func TestSync_AttemptInProgress(t *testing.T) {
	m, ws, s := newFixture(t)
	ctx := context.Background()

	_, err := m.Offline.SaveAnswers(ctx, siteID, 8, 100, 3, map[string]string{"q1:1_answer": "1"}, true, false)
	require.NoError(t, err)

	ws.EXPECT().Call(gomock.Any(), site, fnGetUserAttempts, gomock.Any(), gomock.Any()).
		DoAndReturn(answerWith(`{"attempts":[{"id":100,"state":"inprogress"}]}`))
	ws.EXPECT().Call(gomock.Any(), site, fnProcessAttempt, gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ models.Site, _ string, params map[string]any, result any) error {
			assert.Equal(t, int64(100), params["attemptid"])
			assert.Equal(t, true, params["finishattempt"])
			assert.Equal(t, []map[string]any{{"name": "q1:1_answer", "value": "1"}}, params["data"])
			return json.Unmarshal([]byte(`{"state":"finished","warnings":[]}`), result)
		})
	ws.EXPECT().InvalidateByKey(gomock.Any(), siteID, UserAttemptsCacheKey(8)).Return(nil)

	result, err := s.Synchronize(ctx, site, 8)
	require.NoError(t, err)
	assert.True(t, result.Updated)
	assert.Empty(t, result.Warnings)
}

func TestSync_AttemptFinishedOnline(t *testing.T) {
	m, ws, s := newFixture(t)
	ctx := context.Background()

	_, err := m.Offline.SaveAnswers(ctx, siteID, 8, 100, 3, map[string]string{"q1:1_answer": "1"}, false, false)
	require.NoError(t, err)

	ws.EXPECT().Call(gomock.Any(), site, fnGetUserAttempts, gomock.Any(), gomock.Any()).
		DoAndReturn(answerWith(`{"attempts":[{"id":100,"state":"finished"}]}`))

	result, err := s.Synchronize(ctx, site, 8)
	require.NoError(t, err)
	assert.Equal(t, []string{"quiz 8: " + syncer.ErrRemoteWins.Error()}, result.Warnings)

	has, err := m.Offline.HasOfflineData(ctx, siteID, 8)
	require.NoError(t, err)
	assert.False(t, has)
}

func TestSync_AttemptMissingOnline(t *testing.T) {
	m, ws, s := newFixture(t)
	ctx := context.Background()

	_, err := m.Offline.SaveAnswers(ctx, siteID, 8, 100, 3, nil, false, false)
	require.NoError(t, err)

	ws.EXPECT().Call(gomock.Any(), site, fnGetUserAttempts, gomock.Any(), gomock.Any()).
		DoAndReturn(answerWith(`{"attempts":[]}`))

	result, err := s.Synchronize(ctx, site, 8)
	require.NoError(t, err)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "attempt 100 not found")
}

func TestSync_ServerRejectsAnswers(t *testing.T) {
	m, ws, s := newFixture(t)
	ctx := context.Background()

	_, err := m.Offline.SaveAnswers(ctx, siteID, 8, 100, 3, map[string]string{"q1:1_answer": "1"}, false, false)
	require.NoError(t, err)

	ws.EXPECT().Call(gomock.Any(), site, fnGetUserAttempts, gomock.Any(), gomock.Any()).
		DoAndReturn(answerWith(`{"attempts":[{"id":100,"state":"inprogress"}]}`))
	ws.EXPECT().Call(gomock.Any(), site, fnProcessAttempt, gomock.Any(), gomock.Any()).
		Return(&adapter.WSError{Exception: "moodle_exception", ErrorCode: "attemptalreadyclosed", Message: "This attempt has already been finished."})

	result, err := s.Synchronize(ctx, site, 8)
	require.NoError(t, err)
	assert.Equal(t, []string{"quiz 8: This attempt has already been finished."}, result.Warnings)
}
