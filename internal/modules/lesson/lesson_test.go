package lesson

import (
	"context"
	"encoding/json"
	"strconv"
	"testing"
	"time"

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

type fixture struct {
	module *Module
	ws     *mock.MockCachedWebService
	syncer *syncer.ModuleSyncer
}

func newFixture(t *testing.T) *fixture {
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

	return &fixture{
		module: m,
		ws:     ws,
		syncer: syncer.NewModuleSyncer(m.Sync, syncer.NewCoordinator(), st, bus, onlineNetwork{}, syncer.Policy{}),
	}
}

func question(answer string) models.LessonPageAttempt {
	return models.LessonPageAttempt{
		CourseID: 3,
		PageType: PageTypeQuestion,
		Data:     map[string]string{"answer": answer},
	}
}

func (f *fixture) expectCurrentRetake(retake int64, times int) {
	f.ws.EXPECT().Call(gomock.Any(), site, fnGetAccessInformation, map[string]any{"lessonid": int64(5)}, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ models.Site, _ string, _ map[string]any, result any) error {
			return json.Unmarshal([]byte(`{"attemptscount":`+strconv.FormatInt(retake, 10)+`}`), result)
		}).Times(times)
}

func TestOffline_LastQuestionPageAttemptIsMostRecent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	off := f.module.Offline

	_, err := off.ProcessPageAt(ctx, siteID, 5, 1, 21, question("late"), time.Unix(2000, 0))
	require.NoError(t, err)
	_, err = off.ProcessPageAt(ctx, siteID, 5, 1, 20, question("early"), time.Unix(1000, 0))
	require.NoError(t, err)

	got, ok, err := off.GetLastQuestionPageAttempt(ctx, siteID, 5, 1)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, int64(2000), got.TimeModified)
	assert.Equal(t, "late", got.Payload.Data["answer"])
}

func TestOffline_LastQuestionPageAttemptSkipsContentPages(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	off := f.module.Offline

	_, err := off.ProcessPageAt(ctx, siteID, 5, 1, 20, question("a"), time.Unix(1000, 0))
	require.NoError(t, err)
	_, err = off.ProcessPageAt(ctx, siteID, 5, 1, 30, models.LessonPageAttempt{PageType: PageTypeStructure}, time.Unix(3000, 0))
	require.NoError(t, err)

	got, ok, err := off.GetLastQuestionPageAttempt(ctx, siteID, 5, 1)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, int64(20), got.Keys[1])

	_, ok, err = off.GetLastQuestionPageAttempt(ctx, siteID, 5, 2)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestOffline_AttemptsAndRetake(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	off := f.module.Offline

	_, err := off.ProcessPageAt(ctx, siteID, 5, 1, 20, question("a"), time.Unix(1000, 0))
	require.NoError(t, err)
	_, err = off.ProcessPageAt(ctx, siteID, 5, 1, 20, question("b"), time.Unix(1500, 0))
	require.NoError(t, err)
	_, err = off.ProcessPageAt(ctx, siteID, 5, 1, 22, question("c"), time.Unix(1600, 0))
	require.NoError(t, err)

	all, err := off.GetRetakeAttempts(ctx, siteID, 5, 1)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	page, err := off.GetRetakeAttemptsForPage(ctx, siteID, 5, 1, 20)
	require.NoError(t, err)
	assert.Len(t, page, 2)

	rt, ok, err := off.GetRetake(ctx, siteID, 5)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, int64(22), rt.Payload.LastQuestionPage)

	finished, err := off.HasFinishedRetake(ctx, siteID, 5)
	require.NoError(t, err)
	assert.False(t, finished)

	require.NoError(t, off.FinishRetake(ctx, siteID, 5, 3, 1, true))
	finished, err = off.HasFinishedRetake(ctx, siteID, 5)
	require.NoError(t, err)
	assert.True(t, finished)

	require.NoError(t, off.DeleteAttempt(ctx, siteID, 5, 1, 20, 1000))
	page, err = off.GetRetakeAttemptsForPage(ctx, siteID, 5, 1, 20)
	require.NoError(t, err)
	assert.Len(t, page, 1)

	require.NoError(t, off.DeleteRetake(ctx, siteID, 5))
	has, err := off.HasOfflineData(ctx, siteID, 5)
	require.NoError(t, err)
	assert.True(t, has, "attempts remain")
}

func TestSync_ReplaysInVisitOrderAndFinishesRetake(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	off := f.module.Offline

	_, err := off.ProcessPageAt(ctx, siteID, 5, 0, 10, question("old"), time.Unix(500, 0))
	require.NoError(t, err)
	_, err = off.ProcessPageAt(ctx, siteID, 5, 1, 21, question("second"), time.Unix(2000, 0))
	require.NoError(t, err)
	_, err = off.ProcessPageAt(ctx, siteID, 5, 1, 20, question("first"), time.Unix(1000, 0))
	require.NoError(t, err)
	require.NoError(t, off.FinishRetake(ctx, siteID, 5, 3, 1, false))

	f.expectCurrentRetake(1, 2)

	var pages []int64
	f.ws.EXPECT().Call(gomock.Any(), site, fnProcessPage, gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ models.Site, _ string, params map[string]any, result any) error {
			pages = append(pages, params["pageid"].(int64))
			return json.Unmarshal([]byte(`{"warnings":[]}`), result)
		}).Times(2)
	f.ws.EXPECT().Call(gomock.Any(), site, fnFinishAttempt, map[string]any{"lessonid": int64(5), "outoftime": false}, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ models.Site, _ string, _ map[string]any, result any) error {
			return json.Unmarshal([]byte(`{"warnings":[{"warningcode":"x","message":"grade pending"}]}`), result)
		})
	f.ws.EXPECT().InvalidateByKey(gomock.Any(), siteID, AccessInfoCacheKey(5)).Return(nil).Times(3)

	result, err := f.syncer.Synchronize(ctx, site, 5)
	require.NoError(t, err)
	assert.Equal(t, []int64{20, 21}, pages)
	assert.Equal(t, []string{
		"lesson 5: retake 0 was finished online, offline answers discarded",
		"lesson 5: grade pending",
	}, result.Warnings)

	has, err := off.HasOfflineData(ctx, siteID, 5)
	require.NoError(t, err)
	assert.False(t, has)
}

func TestSync_TransientFailureKeepsRetake(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	off := f.module.Offline

	_, err := off.ProcessPageAt(ctx, siteID, 5, 1, 20, question("first"), time.Unix(1000, 0))
	require.NoError(t, err)
	_, err = off.ProcessPageAt(ctx, siteID, 5, 1, 21, question("second"), time.Unix(2000, 0))
	require.NoError(t, err)

	f.expectCurrentRetake(1, 1)
	gomock.InOrder(
		f.ws.EXPECT().Call(gomock.Any(), site, fnProcessPage, gomock.Any(), gomock.Any()).Return(nil),
		f.ws.EXPECT().Call(gomock.Any(), site, fnProcessPage, gomock.Any(), gomock.Any()).Return(adapter.ErrTimeout),
	)
	f.ws.EXPECT().InvalidateByKey(gomock.Any(), siteID, AccessInfoCacheKey(5)).Return(nil)

	_, err = f.syncer.Synchronize(ctx, site, 5)
	require.ErrorIs(t, err, adapter.ErrTransient)

	left, err := off.GetRetakeAttempts(ctx, siteID, 5, 1)
	require.NoError(t, err)
	require.Len(t, left, 1)
	assert.Equal(t, int64(21), left[0].Keys[1])
	assert.Equal(t, models.ActionPending, left[0].Status)

	_, ok, err := off.GetRetake(ctx, siteID, 5)
	require.NoError(t, err)
	assert.True(t, ok)
}
