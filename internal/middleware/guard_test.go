package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/julin-realestate/realestate-api/internal/config"
	"github.com/julin-realestate/realestate-api/internal/metrics"
	"github.com/julin-realestate/realestate-api/internal/utils"
)

const testSecret = "guard-test-secret"

func newGuardedEcho(t *testing.T, m *metrics.Metrics) *echo.Echo {
	t.Helper()
	e := echo.New()
	e.Pre(AdminGuard(GuardConfig{
		Prefixes:  config.DefaultAdminPathPrefixes,
		Secret:    testSecret,
		AllowList: config.ParseAllowList("owner@julin.co.ke"),
	}, m, zap.NewNop()))

	echoEmail := func(c echo.Context) error {
		return c.String(http.StatusOK, AdminEmail(c))
	}
	e.GET("/admin", echoEmail)
	e.GET("/admin/properties", echoEmail)
	e.GET("/api/admin/properties", echoEmail, RequireAdmin())
	e.GET("/api/properties", echoEmail)
	e.GET("/administrator", echoEmail)
	return e
}

func token(t *testing.T, email string, ttl time.Duration) string {
	t.Helper()
	tok, err := utils.NewSessionToken(testSecret, email, ttl)
	require.NoError(t, err)
	return tok.Token
}

func TestIsAdminPath(t *testing.T) {
	prefixes := []string{"/admin", "/api/admin"}
	cases := map[string]bool{
		"/admin":                 true,
		"/admin/":                true,
		"/admin/properties/9":    true,
		"/api/admin":             true,
		"/api/admin/blog":        true,
		"/administrator":         false,
		"/api/administration":    false,
		"/api/properties":        false,
		"/":                      false,
		"":                       false,
		"/public/../admin/users": true,
		"/admin/../api/blog":     false,
		"//admin":                true,
	}
	for p, want := range cases {
		assert.Equalf(t, want, IsAdminPath(p, prefixes), "path %q", p)
	}
}

func TestAdminGuardNoSessionRedirectsToLogin(t *testing.T) {
	m := metrics.New()
	e := newGuardedEcho(t, m)

	for _, p := range []string{"/admin", "/admin/properties", "/api/admin/properties"} {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, p, nil))

		assert.Equal(t, http.StatusTemporaryRedirect, rec.Code, p)
		assert.Equal(t, "/login?reason=auth_required", rec.Header().Get(echo.HeaderLocation), p)
	}
	assert.Equal(t, 3.0, testutil.ToFloat64(m.GuardDecisions.WithLabelValues(metrics.GuardAuthRequired)))
}

func TestAdminGuardRejectsBadTokens(t *testing.T) {
	e := newGuardedEcho(t, nil)

	expired := token(t, "owner@julin.co.ke", -time.Minute)
	forged, err := utils.NewSessionToken("another-secret", "owner@julin.co.ke", time.Hour)
	require.NoError(t, err)

	for name, raw := range map[string]string{
		"garbage": "not-a-jwt",
		"expired": expired,
		"forged":  forged.Token,
	} {
		req := httptest.NewRequest(http.MethodGet, "/admin/properties", nil)
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: raw})
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusTemporaryRedirect, rec.Code, name)
		assert.Equal(t, "/login?reason=auth_required", rec.Header().Get(echo.HeaderLocation), name)
	}
}

func TestAdminGuardUnlistedEmailIsUnauthorized(t *testing.T) {
	m := metrics.New()
	e := newGuardedEcho(t, m)

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: token(t, "visitor@gmail.com", time.Hour)})
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusTemporaryRedirect, rec.Code)
	assert.Equal(t, "/error?reason=unauthorized", rec.Header().Get(echo.HeaderLocation))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.GuardDecisions.WithLabelValues(metrics.GuardUnauthorized)))
}

func TestAdminGuardAdmitsAllowListedEmail(t *testing.T) {
	m := metrics.New()
	e := newGuardedEcho(t, m)

	t.Run("cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/admin/properties", nil)
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: token(t, "Owner@Julin.co.ke", time.Hour)})
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "owner@julin.co.ke", rec.Body.String())
	})

	t.Run("bearer", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/admin/properties", nil)
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token(t, "owner@julin.co.ke", time.Hour))
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "owner@julin.co.ke", rec.Body.String())
	})

	assert.Equal(t, 2.0, testutil.ToFloat64(m.GuardDecisions.WithLabelValues(metrics.GuardAllowed)))
}

func TestAdminGuardIgnoresPublicPaths(t *testing.T) {
	e := newGuardedEcho(t, nil)

	for _, p := range []string{"/api/properties", "/administrator"} {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, p, nil))

		assert.Equal(t, http.StatusOK, rec.Code, p)
		assert.Empty(t, rec.Body.String(), p)
	}
}

func TestRequireAdminFailsClosed(t *testing.T) {
	e := echo.New()
	e.GET("/internal/stats", func(c echo.Context) error { return c.NoContent(http.StatusOK) }, RequireAdmin())

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/internal/stats", nil))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.JSONEq(t, `{"error":"forbidden"}`, rec.Body.String())
}
