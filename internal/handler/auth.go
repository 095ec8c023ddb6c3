package handler

import (
	"context"
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/julin-realestate/realestate-api/internal/middleware"
	"github.com/julin-realestate/realestate-api/internal/utils"
)

const (
	oauthStateCookie = "oauth_state"
	oauthStateTTL    = 10 * time.Minute
	reasonOAuth      = "oauth_failed"
	dashboardPath    = "/admin/dashboard"
)

// OAuthProvider is the identity provider used for admin sign-in.
type OAuthProvider interface {
	AuthCodeURL(state string) string
	Email(ctx context.Context, code string) (string, error)
}

// AuthHandler runs the Google sign-in flow and issues session cookies.  It
// does not decide who is an admin; the guard does that on every request.
type AuthHandler struct {
	Provider     OAuthProvider // nil when sign-in is not configured
	Secret       string
	TTL          time.Duration
	SecureCookie bool
	Log          *zap.Logger
}

func NewAuthHandler(provider OAuthProvider, secret string, ttl time.Duration, secure bool, log *zap.Logger) *AuthHandler {
	return &AuthHandler{Provider: provider, Secret: secret, TTL: ttl, SecureCookie: secure, Log: log}
}

// GoogleLogin handles GET /api/auth/google/login.
func (h *AuthHandler) GoogleLogin(c echo.Context) error {
	if h.Provider == nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "google sign-in unavailable"})
	}
	state, err := utils.NewOAuthState()
	if err != nil {
		return respondError(c, h.Log, err)
	}
	c.SetCookie(&http.Cookie{
		Name:     oauthStateCookie,
		Value:    state,
		Path:     "/api/auth",
		MaxAge:   int(oauthStateTTL.Seconds()),
		HttpOnly: true,
		Secure:   h.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	return c.Redirect(http.StatusFound, h.Provider.AuthCodeURL(state))
}

// GoogleCallback handles GET /api/auth/google/callback.  Any failure sends
// the browser to the login page with reason=oauth_failed.
func (h *AuthHandler) GoogleCallback(c echo.Context) error {
	fail := func(msg string, err error) error {
		h.Log.Warn("oauth callback failed: "+msg, zap.Error(err))
		return c.Redirect(http.StatusTemporaryRedirect, "/login?reason="+reasonOAuth)
	}
	if h.Provider == nil {
		return fail("provider not configured", nil)
	}

	ck, err := c.Cookie(oauthStateCookie)
	state := c.QueryParam("state")
	if err != nil || state == "" || subtle.ConstantTimeCompare([]byte(ck.Value), []byte(state)) != 1 {
		return fail("state mismatch", err)
	}
	h.clearState(c)

	if e := c.QueryParam("error"); e != "" {
		return fail("provider returned "+e, nil)
	}
	code := c.QueryParam("code")
	if code == "" {
		return fail("missing code", nil)
	}

	email, err := h.Provider.Email(c.Request().Context(), code)
	if err != nil {
		return fail("userinfo", err)
	}
	tok, err := utils.NewSessionToken(h.Secret, email, h.TTL)
	if err != nil {
		return fail("issue session", err)
	}
	middleware.SetSessionCookie(c, tok.Token, tok.Exp, h.SecureCookie)
	h.Log.Info("signed in", zap.String("email", email))
	return c.Redirect(http.StatusFound, dashboardPath)
}

func (h *AuthHandler) clearState(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     oauthStateCookie,
		Value:    "",
		Path:     "/api/auth",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

// Logout handles POST /api/auth/logout.
func (h *AuthHandler) Logout(c echo.Context) error {
	middleware.ClearSessionCookie(c, h.SecureCookie)
	return c.NoContent(http.StatusNoContent)
}
