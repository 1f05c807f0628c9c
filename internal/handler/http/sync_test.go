package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-course-sync/internal/adapter"
	"github.com/MKhiriev/go-course-sync/internal/syncer"
	"github.com/MKhiriev/go-course-sync/models"
)

// ─────────────────────────────────────────────
// Sync status
// ─────────────────────────────────────────────

func TestGetSyncStatus_UsesCurrentSite(t *testing.T) {
	env := newTestEnv(t)
	env.syncs.status = models.SyncStatus{Module: models.ModuleAssign, EntityID: 42, HasData: true}

	rec := env.do(http.MethodGet, "/api/sync/assign/42", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var got models.SyncStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.True(t, got.HasData)
	assert.Equal(t, []syncCall{{testSite.ID, models.ModuleAssign, 42}}, env.syncs.calls)
}

func TestGetSyncStatus_SiteHeader(t *testing.T) {
	env := newTestEnv(t)
	other := models.Site{ID: "site-2", URL: "https://other.example.com", Token: "t"}
	env.sites.sites[other.ID] = other

	rec := env.do(http.MethodGet, "/api/sync/quiz/8", "", siteIDHeader, other.ID)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []syncCall{{other.ID, models.ModuleQuiz, 8}}, env.syncs.calls)
}

func TestGetSyncStatus_UnknownSiteHeader(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodGet, "/api/sync/assign/42", "", siteIDHeader, "nope")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, env.syncs.calls)
}

func TestGetSyncStatus_NoSiteLoggedIn(t *testing.T) {
	env := newTestEnv(t)
	env.sites.current = ""

	rec := env.do(http.MethodGet, "/api/sync/assign/42", "")

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestGetSyncStatus_InvalidEntityID(t *testing.T) {
	for _, id := range []string{"abc", "0", "-3"} {
		t.Run(id, func(t *testing.T) {
			env := newTestEnv(t)

			rec := env.do(http.MethodGet, "/api/sync/assign/"+id, "")

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Empty(t, env.syncs.calls)
		})
	}
}

// ─────────────────────────────────────────────
// Synchronize
// ─────────────────────────────────────────────

func TestSynchronize_ReturnsResult(t *testing.T) {
	env := newTestEnv(t)
	env.syncs.result = models.SyncResult{Updated: true, Warnings: []string{"assign 42: Not all fields filled"}}

	rec := env.do(http.MethodPost, "/api/sync/assign/42", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"updated":true,"warnings":["assign 42: Not all fields filled"]}`, rec.Body.String())
}

func TestSynchronize_ErrorStatuses(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"offline", syncer.ErrOffline, http.StatusServiceUnavailable},
		{"wifi only", syncer.ErrWifiOnly, http.StatusServiceUnavailable},
		{"blocked", syncer.ErrSyncBlocked, http.StatusLocked},
		{"unknown module", fmt.Errorf("%w: %q", syncer.ErrUnknownModule, "forum"), http.StatusNotFound},
		{"transient", fmt.Errorf("sync: %w", adapter.ErrNetwork), http.StatusBadGateway},
		{"rejected", &adapter.WSError{ErrorCode: "nopermission", Message: "denied"}, http.StatusUnprocessableEntity},
		{"unexpected", fmt.Errorf("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			env.syncs.err = tt.err

			rec := env.do(http.MethodPost, "/api/sync/assign/42", "")

			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

// ─────────────────────────────────────────────
// Warnings
// ─────────────────────────────────────────────

func TestGetSyncWarnings_EmptyIsArray(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodGet, "/api/sync/lesson/5/warnings", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestGetSyncWarnings(t *testing.T) {
	env := newTestEnv(t)
	env.syncs.warnings = []string{"lesson 5: grade pending"}

	rec := env.do(http.MethodGet, "/api/sync/lesson/5/warnings", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `["lesson 5: grade pending"]`, rec.Body.String())
}

func TestClearSyncWarnings(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodDelete, "/api/sync/lesson/5/warnings", "")

	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, []syncCall{{testSite.ID, models.ModuleLesson, 5}}, env.syncs.cleared)
}

// ─────────────────────────────────────────────
// Wait
// ─────────────────────────────────────────────

func TestWaitForSync_ReturnsResult(t *testing.T) {
	env := newTestEnv(t)
	env.syncs.result = models.SyncResult{Updated: true, Warnings: []string{}}

	rec := env.do(http.MethodGet, "/api/sync/quiz/8/wait", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"updated":true,"warnings":[]}`, rec.Body.String())
	assert.Equal(t, []syncCall{{testSite.ID, models.ModuleQuiz, 8}}, env.syncs.waited)
}

func TestWaitForSync_Errors(t *testing.T) {
	tests := []struct {
		name string
		path string
		err  error
		want int
	}{
		{"invalid entity id", "/api/sync/quiz/abc/wait", nil, http.StatusBadRequest},
		{"running synchronization failed", "/api/sync/quiz/8/wait", fmt.Errorf("sync: %w", adapter.ErrNetwork), http.StatusBadGateway},
		{"unknown module", "/api/sync/forum/8/wait", syncer.ErrUnknownModule, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			env.syncs.err = tt.err

			rec := env.do(http.MethodGet, tt.path, "")

			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

// ─────────────────────────────────────────────
// Block
// ─────────────────────────────────────────────

func TestBlockSync(t *testing.T) {
	env := newTestEnv(t)
	resource := syncCall{testSite.ID, models.ModuleAssign, 42}

	require.Equal(t, http.StatusNoContent, env.do(http.MethodPost, "/api/sync/assign/42/block", "").Code)
	require.Equal(t, http.StatusNoContent, env.do(http.MethodPost, "/api/sync/assign/42/block", "").Code)
	assert.Equal(t, 2, env.syncs.blocks[resource])

	require.Equal(t, http.StatusNoContent, env.do(http.MethodDelete, "/api/sync/assign/42/block", "").Code)
	assert.Equal(t, 1, env.syncs.blocks[resource])
}

func TestBlockSync_Errors(t *testing.T) {
	env := newTestEnv(t)

	assert.Equal(t, http.StatusBadRequest, env.do(http.MethodPost, "/api/sync/assign/0/block", "").Code)

	env.syncs.err = syncer.ErrUnknownModule
	assert.Equal(t, http.StatusNotFound, env.do(http.MethodPost, "/api/sync/forum/3/block", "").Code)
	assert.Equal(t, http.StatusNotFound, env.do(http.MethodDelete, "/api/sync/forum/3/block", "").Code)
	assert.Empty(t, env.syncs.blocks)
}

// ─────────────────────────────────────────────
// Sync all
// ─────────────────────────────────────────────

func TestSyncAll(t *testing.T) {
	env := newTestEnv(t)

	require.Equal(t, http.StatusNoContent, env.do(http.MethodPost, "/api/sync", "").Code)
	require.Equal(t, http.StatusNoContent, env.do(http.MethodPost, "/api/sync?force=true", "").Code)

	assert.Equal(t, []bool{false, true}, env.syncs.syncAll)
	assert.Equal(t, testSite.ID, env.syncs.calls[0].siteID)
}
