package site

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-course-sync/internal/events"
	"github.com/MKhiriev/go-course-sync/internal/store"
	"github.com/MKhiriev/go-course-sync/models"
)

var (
	testSite    = models.Site{ID: "site-1", URL: "https://school.example.com", UserID: 7, Token: "secret"}
	notesSchema = store.TableSchema{Name: "notes"}
)

func newTestManager(t *testing.T) (*Manager, store.LocalStore, *events.Bus) {
	t.Helper()

	st, err := store.NewMemoryStore(":memory:")
	require.NoError(t, err)

	bus := events.NewBus()
	m := NewManager(st, bus, notesSchema)
	require.NoError(t, m.Init(context.Background()))
	return m, st, bus
}

func putNote(t *testing.T, st store.LocalStore, siteID string) error {
	t.Helper()
	rec, err := store.NewRecord("n1", map[string]string{"text": "x"}, nil)
	require.NoError(t, err)
	return st.Insert(context.Background(), siteID, notesSchema.Name, rec)
}

func TestManager_LoginCreatesTablesAndPublishes(t *testing.T) {
	m, st, bus := newTestManager(t)
	ctx := context.Background()

	var got []models.Event
	bus.Subscribe(models.EventLogin, func(_ context.Context, e models.Event) { got = append(got, e) })

	require.NoError(t, m.Login(ctx, testSite))
	require.NoError(t, putNote(t, st, testSite.ID))

	require.Len(t, got, 1)
	assert.Equal(t, testSite.ID, got[0].SiteID)

	current, err := m.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, testSite, current)
}

func TestManager_LoginRejectsIncompleteSite(t *testing.T) {
	m, _, _ := newTestManager(t)

	err := m.Login(context.Background(), models.Site{ID: "site-1"})
	require.ErrorIs(t, err, ErrInvalidSite)
}

func TestManager_LogoutDeletesData(t *testing.T) {
	m, st, bus := newTestManager(t)
	ctx := context.Background()

	var loggedOut bool
	bus.Subscribe(models.EventLogout, func(context.Context, models.Event) { loggedOut = true })

	require.NoError(t, m.Login(ctx, testSite))
	require.NoError(t, putNote(t, st, testSite.ID))
	require.NoError(t, m.Logout(ctx, testSite.ID, false))

	assert.True(t, loggedOut)
	require.ErrorIs(t, putNote(t, st, testSite.ID), store.ErrStoreNotInitialized)

	_, err := m.Get(ctx, testSite.ID)
	require.ErrorIs(t, err, ErrUnknownSite)

	_, err = m.Current(ctx)
	require.ErrorIs(t, err, ErrNoCurrentSite)
}

func TestManager_LogoutRetainsData(t *testing.T) {
	m, st, _ := newTestManager(t)
	ctx := context.Background()

	require.NoError(t, m.Login(ctx, testSite))
	require.NoError(t, m.Logout(ctx, testSite.ID, true))
	require.NoError(t, putNote(t, st, testSite.ID))

	sites, err := m.List(ctx)
	require.NoError(t, err)
	require.Len(t, sites, 1)
	assert.Empty(t, sites[0].Token)
	assert.True(t, sites[0].RetainOffline)
}

func TestManager_Update(t *testing.T) {
	m, _, bus := newTestManager(t)
	ctx := context.Background()

	var updated int
	bus.Subscribe(models.EventSiteUpdated, func(context.Context, models.Event) { updated++ })

	renewed := testSite
	renewed.Token = "renewed"
	require.ErrorIs(t, m.Update(ctx, renewed), ErrUnknownSite)

	require.NoError(t, m.Login(ctx, testSite))
	require.NoError(t, m.Update(ctx, renewed))

	got, err := m.Get(ctx, testSite.ID)
	require.NoError(t, err)
	assert.Equal(t, "renewed", got.Token)
	assert.Equal(t, 1, updated)
}
