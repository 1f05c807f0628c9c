package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-course-sync/models"
)

func TestLogin_HidesToken(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodPost, "/api/sites/login", `{"id":"site-2","url":"https://b.example.com","token":"tok","user_id":3}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var got models.Site
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "site-2", got.ID)
	assert.Empty(t, got.Token)
	assert.Equal(t, "tok", env.sites.sites["site-2"].Token)
	assert.Equal(t, "site-2", env.sites.current)
}

func TestLogin_IncompleteSite(t *testing.T) {
	rec := newTestEnv(t).do(http.MethodPost, "/api/sites/login", `{"id":"site-2"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLogin_Failure(t *testing.T) {
	env := newTestEnv(t)
	env.sites.loginErr = errors.New("disk full")

	rec := env.do(http.MethodPost, "/api/sites/login", `{"id":"site-2","url":"https://b.example.com","token":"tok"}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "login failed")
}

func TestLogout(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantRetain bool
	}{
		{"delete data", "", false},
		{"retain data", "?retain=true", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)

			rec := env.do(http.MethodPost, "/api/sites/site-1/logout"+tt.query, "")

			require.Equal(t, http.StatusNoContent, rec.Code)
			retain, ok := env.sites.logouts["site-1"]
			require.True(t, ok)
			assert.Equal(t, tt.wantRetain, retain)
		})
	}
}

func TestLogout_UnknownSite(t *testing.T) {
	rec := newTestEnv(t).do(http.MethodPost, "/api/sites/nope/logout", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListSites_HidesTokens(t *testing.T) {
	rec := newTestEnv(t).do(http.MethodGet, "/api/sites", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var got []models.Site
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, testSite.ID, got[0].ID)
	assert.Empty(t, got[0].Token)
}
