package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func doJSON(t *testing.T, h http.Handler, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestRouter_Health(t *testing.T) {
	cfg := testConfig()
	router := NewRouter(cfg, newTestServices(t, cfg))

	for _, path := range []string{"/healthz", "/api/health"} {
		rr := doJSON(t, router, "GET", path, "", nil)
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"message":"ok"}`, rr.Body.String())
	}
}

func TestRouter_UnknownRoute(t *testing.T) {
	cfg := testConfig()
	router := NewRouter(cfg, newTestServices(t, cfg))

	rr := doJSON(t, router, "GET", "/api/nothing-here", "", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.JSONEq(t, `{"message":"Route not found"}`, rr.Body.String())
}

func TestRouter_GoogleRoutesNeedConfig(t *testing.T) {
	cfg := testConfig()
	router := NewRouter(cfg, newTestServices(t, cfg))
	rr := doJSON(t, router, "GET", "/api/auth/google/login", "", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	cfg.GoogleClientID = "client-id"
	cfg.GoogleClientSecret = "client-secret"
	router = NewRouter(cfg, newTestServices(t, cfg))
	rr = doJSON(t, router, "GET", "/api/auth/google/login", "", nil)
	assert.Equal(t, http.StatusTemporaryRedirect, rr.Code)
	assert.Contains(t, rr.Header().Get("Location"), "accounts.google.com")
	assert.Contains(t, rr.Header().Get("Set-Cookie"), "oauthstate=")
}

func TestRouter_ProtectedRoutesRequireSession(t *testing.T) {
	cfg := testConfig()
	router := NewRouter(cfg, newTestServices(t, cfg))

	routes := []struct{ method, path string }{
		{"GET", "/api/links"},
		{"POST", "/api/links"},
		{"PUT", "/api/links/reorder"},
		{"PUT", "/api/links/some-id"},
		{"DELETE", "/api/links/some-id"},
		{"POST", "/api/links/some-id/click"},
		{"GET", "/api/analytics"},
		{"GET", "/api/analytics/link/some-id"},
		{"GET", "/api/users/profile"},
		{"PUT", "/api/users/profile"},
		{"PUT", "/api/users/theme"},
		{"DELETE", "/api/users/account"},
	}
	for _, rt := range routes {
		t.Run(rt.method+" "+rt.path, func(t *testing.T) {
			rr := doJSON(t, router, rt.method, rt.path, "", nil)
			assert.Equal(t, http.StatusUnauthorized, rr.Code)
		})
	}
}

func TestRouter_MalformedBody(t *testing.T) {
	cfg := testConfig()
	svc := newTestServices(t, cfg)
	router := NewRouter(cfg, svc)

	reg, err := svc.Auth.Register(t.Context(), "alice", "alice@example.com", "secret123", "secret123")
	require.NoError(t, err)

	req := httptest.NewRequest("POST", "/api/links", bytes.NewBufferString("{not json"))
	req.Header.Set("Authorization", "Bearer "+reg.AccessToken)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.JSONEq(t, `{"message":"Invalid request body"}`, rr.Body.String())
}

func TestRouter_Links(t *testing.T) {
	cfg := testConfig()
	svc := newTestServices(t, cfg)
	router := NewRouter(cfg, svc)

	reg, err := svc.Auth.Register(t.Context(), "alice", "alice@example.com", "secret123", "secret123")
	require.NoError(t, err)
	token := reg.AccessToken

	rr := doJSON(t, router, "POST", "/api/links", token, map[string]string{"title": "Blog", "url": "https://blog.example.com"})
	require.Equal(t, http.StatusCreated, rr.Code)
	var created struct {
		ID       string `json:"id"`
		Position int    `json:"position"`
		Icon     string `json:"icon"`
		IsActive bool   `json:"isActive"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&created))
	assert.Equal(t, 0, created.Position)
	assert.Equal(t, "🔗", created.Icon)
	assert.True(t, created.IsActive)

	rr = doJSON(t, router, "POST", "/api/links", token, map[string]string{"title": "", "url": "nope"})
	require.Equal(t, http.StatusBadRequest, rr.Code)
	var verr errorResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&verr))
	assert.Equal(t, "Validation failed", verr.Message)
	assert.Len(t, verr.Errors, 2)

	rr = doJSON(t, router, "PUT", "/api/links/"+created.ID, token, map[string]interface{}{"isActive": false})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"isActive":false`)

	rr = doJSON(t, router, "POST", "/api/links/"+created.ID+"/click", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"message":"Click recorded"}`, rr.Body.String())

	rr = doJSON(t, router, "GET", "/api/links", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"clicks":1`)

	rr = doJSON(t, router, "DELETE", "/api/links/"+created.ID, token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"message":"Link deleted successfully"}`, rr.Body.String())

	rr = doJSON(t, router, "DELETE", "/api/links/"+created.ID, token, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.JSONEq(t, `{"message":"Link not found"}`, rr.Body.String())
}

func TestRouter_AnalyticsBadRange(t *testing.T) {
	cfg := testConfig()
	svc := newTestServices(t, cfg)
	router := NewRouter(cfg, svc)

	reg, err := svc.Auth.Register(t.Context(), "alice", "alice@example.com", "secret123", "secret123")
	require.NoError(t, err)

	rr := doJSON(t, router, "GET", "/api/analytics?startDate=2024-02-01&endDate=2024-01-01", reg.AccessToken, nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = doJSON(t, router, "GET", "/api/analytics?startDate=garbage", reg.AccessToken, nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = doJSON(t, router, "GET", "/api/analytics", reg.AccessToken, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `0`, mustField(t, rr.Body.Bytes(), "totalClicks"))
}

func mustField(t *testing.T, body []byte, name string) string {
	t.Helper()
	var m map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(body, &m))
	raw, ok := m[name]
	require.True(t, ok, "missing field %s", name)
	return string(raw)
}
