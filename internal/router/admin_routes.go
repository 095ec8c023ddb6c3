package router

import (
	"github.com/labstack/echo/v4"

	"github.com/julin-realestate/realestate-api/internal/handler"
	"github.com/julin-realestate/realestate-api/internal/middleware"
)

// RegisterAdmin registers the guarded admin surface.  The guard has already
// run before routing; RequireAdmin keeps the groups closed if the configured
// prefixes ever stop covering them.  Successful writes purge the public
// listing cache.
func RegisterAdmin(e *echo.Echo, a *handler.AdminHandler, l *handler.LeadHandler, ch *handler.ChatbotHandler, cache *middleware.ResponseCache) {
	ui := e.Group("/admin", middleware.RequireAdmin())
	ui.GET("/dashboard", a.Dashboard)

	g := e.Group("/api/admin", middleware.RequireAdmin(), cache.InvalidateOnWrite())
	g.GET("", a.Status)

	// ---- Properties ----
	g.GET("/properties", a.ListProperties)
	g.POST("/properties", a.CreateProperty)
	g.GET("/properties/:id", a.GetProperty)
	g.PUT("/properties/:id", a.UpdateProperty)
	g.PATCH("/properties/:id", a.UpdateProperty)
	g.DELETE("/properties/:id", a.DeleteProperty)
	g.DELETE("/properties/:id/hard", a.HardDeleteProperty)

	// ---- Blog ----
	g.GET("/blog", a.ListPosts)
	g.POST("/blog", a.CreatePost)
	g.PUT("/blog/:id", a.UpdatePost)
	g.PATCH("/blog/:id", a.UpdatePost)
	g.DELETE("/blog/:id", a.DeletePost)
	g.POST("/blog/:id/publish", a.PublishPost)

	// ---- Leads, uploads, assistant ----
	g.GET("/leads", l.List)
	g.POST("/upload", a.Upload)
	g.POST("/chatbot", ch.Admin)
}
