package middleware

import (
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/julin-realestate/realestate-api/internal/config"
	"github.com/julin-realestate/realestate-api/internal/metrics"
	"github.com/julin-realestate/realestate-api/internal/utils"
)

// Reason codes carried in guard redirects.
const (
	ReasonAuthRequired = "auth_required"
	ReasonUnauthorized = "unauthorized"
)

// GuardConfig configures AdminGuard.  AllowList is read-only after start-up.
type GuardConfig struct {
	Prefixes  []string
	Secret    string
	AllowList config.AllowList
	LoginPath string // default "/login"
	ErrorPath string // default "/error"
}

// IsAdminPath reports whether p equals one of prefixes or sits beneath one.
// The path is cleaned first so dot segments cannot step around a prefix.
func IsAdminPath(p string, prefixes []string) bool {
	if p == "" {
		p = "/"
	}
	p = path.Clean("/" + p)
	for _, prefix := range prefixes {
		if p == prefix || strings.HasPrefix(p, prefix+"/") {
			return true
		}
	}
	return false
}

// AdminGuard is pre-router middleware for admin-marked paths.  A request
// without a valid session is redirected to the login page with
// reason=auth_required; a valid session whose email is not on the allow-list
// goes to the error page with reason=unauthorized.  Admitted requests carry
// the email in the context (see AdminEmail).  Other paths pass untouched.
func AdminGuard(cfg GuardConfig, m *metrics.Metrics, log *zap.Logger) echo.MiddlewareFunc {
	loginPath := cfg.LoginPath
	if loginPath == "" {
		loginPath = "/login"
	}
	errorPath := cfg.ErrorPath
	if errorPath == "" {
		errorPath = "/error"
	}
	redirect := func(c echo.Context, target, reason string) error {
		m.ObserveGuard(reason)
		return c.Redirect(http.StatusTemporaryRedirect, target+"?reason="+url.QueryEscape(reason))
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			if !IsAdminPath(req.URL.Path, cfg.Prefixes) {
				return next(c)
			}

			raw := sessionTokenFrom(c)
			if raw == "" {
				return redirect(c, loginPath, ReasonAuthRequired)
			}
			claims, err := utils.ParseSessionToken(cfg.Secret, raw)
			if err != nil {
				log.Debug("guard: invalid session", zap.String("path", req.URL.Path), zap.Error(err))
				return redirect(c, loginPath, ReasonAuthRequired)
			}
			if !cfg.AllowList.Contains(claims.Email) {
				log.Info("guard: email not on allow-list", zap.String("path", req.URL.Path), zap.String("email", claims.Email))
				return redirect(c, errorPath, ReasonUnauthorized)
			}

			m.ObserveGuard(metrics.GuardAllowed)
			c.Set(adminEmailKey, claims.Email)
			return next(c)
		}
	}
}
