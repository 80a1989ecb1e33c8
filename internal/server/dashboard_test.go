package server_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (e *testEnv) page(t *testing.T) string {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: "ecomdash_token", Value: e.srv.Token()})
	w := httptest.NewRecorder()
	e.srv.Handler().ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	require.True(t, strings.Contains(w.Header().Get("Content-Type"), "text/html"))
	return w.Body.String()
}

func TestDashboard_WithCookie(t *testing.T) {
	env := setupTestServer(t)

	body := env.page(t)
	assert.Contains(t, body, "E-Commerce Dashboard")
	assert.Contains(t, body, "2,347,845")
	assert.Contains(t, body, "1.59%")
	assert.Contains(t, body, "Ajouts panier")
	assert.Contains(t, body, "95.1%")
	assert.Contains(t, body, "461686")
	assert.Contains(t, body, "Run the test")
	assert.NotContains(t, body, `http-equiv="refresh"`)
}

func TestDashboard_Logout(t *testing.T) {
	env := setupTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/dashboard?logout=1", nil)
	req.AddCookie(&http.Cookie{Name: "ecomdash_token", Value: env.srv.Token()})
	w := httptest.NewRecorder()
	env.srv.Handler().ServeHTTP(w, req)

	require.Equal(t, http.StatusFound, w.Code)
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, -1, cookies[0].MaxAge)
}

func TestDashboard_RefreshForm(t *testing.T) {
	env := setupTestServer(t)

	w := env.do(t, http.MethodPost, "/dashboard/refresh")
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/dashboard", w.Header().Get("Location"))
	assert.True(t, env.live.IsRefreshing())

	body := env.page(t)
	assert.Contains(t, body, "Refreshing...")
	assert.Contains(t, body, `http-equiv="refresh"`)
}

func TestDashboard_ExperimentForm(t *testing.T) {
	env := setupTestServer(t)

	w := env.do(t, http.MethodPost, "/dashboard/experiment")
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Contains(t, env.page(t), "Test running...")

	op, started := env.runner.Start()
	require.False(t, started)
	env.abtest.open()
	_, err := op.Wait(context.Background())
	require.NoError(t, err)

	body := env.page(t)
	assert.Contains(t, body, "Statistically significant result")
	assert.Contains(t, body, "15.72%")
	assert.Contains(t, body, "7,145.63 €")
	assert.Contains(t, body, "Group B (variant)")
	assert.Contains(t, body, "43,589.29 €")
}
