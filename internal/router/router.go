// Package router builds the echo instance and registers every route.
package router

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/julin-realestate/realestate-api/internal/handler"
	"github.com/julin-realestate/realestate-api/internal/metrics"
	"github.com/julin-realestate/realestate-api/internal/middleware"
)

// New returns an echo instance with the pre-router chain installed: panic
// recovery, access log, metrics, then the admin guard.  The guard runs before
// routing so unknown admin paths are redirected too instead of 404ing.
func New(guard middleware.GuardConfig, m *metrics.Metrics, log *zap.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Pre(echomw.Recover())
	e.Pre(middleware.AccessLog(log))
	e.Pre(m.Middleware())
	e.Pre(middleware.AdminGuard(guard, m, log))
	return e
}

// RegisterRoutes registers the unauthenticated infrastructure routes.
func RegisterRoutes(e *echo.Echo, m *metrics.Metrics) {
	e.GET("/healthz", handler.Health)
	e.GET("/metrics", m.Handler())
	e.GET("/login", handler.LoginPage)
	e.GET("/error", handler.ErrorPage)
}

// RegisterAuth registers the Google sign-in flow.  None of these routes need
// a session; the callback is what creates one.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler) {
	g := e.Group("/api/auth")
	g.GET("/google/login", a.GoogleLogin)
	g.GET("/google/callback", a.GoogleCallback)
	g.POST("/logout", a.Logout)
}

// RegisterPublic registers the visitor-facing API.  Every route is rate
// limited; the listing feed is also cached.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler, l *handler.LeadHandler, ch *handler.ChatbotHandler,
	limiter echo.MiddlewareFunc, cache *middleware.ResponseCache, siteURL string) {
	g := e.Group("/api", limiter)

	g.GET("/properties", p.ListProperties, cache.Middleware())
	g.GET("/properties/latest", p.LatestProperties, cache.Middleware())
	g.GET("/properties/:slug", p.GetProperty)
	g.GET("/blog", p.ListPosts)
	g.GET("/blog/:slug", p.GetPost)
	g.POST("/leads", l.Create)
	g.POST("/chatbot", ch.Public)

	e.GET("/sitemap.xml", p.Sitemap(siteURL))
}
