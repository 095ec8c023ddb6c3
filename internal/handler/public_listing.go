package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/julin-realestate/realestate-api/internal/service"
)

// PublicHandler serves the unauthenticated listing and blog reads.  Both
// services run against the read-only pool.
type PublicHandler struct {
	Listings *service.PublicReader
	Blog     *service.BlogService
	Log      *zap.Logger
}

func NewPublicHandler(listings *service.PublicReader, blog *service.BlogService, log *zap.Logger) *PublicHandler {
	if listings == nil || blog == nil {
		panic("nil service passed to NewPublicHandler")
	}
	return &PublicHandler{Listings: listings, Blog: blog, Log: log}
}

// ListProperties handles GET /api/properties.
func (h *PublicHandler) ListProperties(c echo.Context) error {
	params, err := service.ParseListParams(service.RawListParams{
		County:   c.QueryParam("county"),
		Type:     c.QueryParam("type"),
		MinPrice: c.QueryParam("minPrice"),
		MaxPrice: c.QueryParam("maxPrice"),
		Cursor:   c.QueryParam("cursor"),
		Limit:    c.QueryParam("limit"),
	})
	if err != nil {
		return respondError(c, h.Log, err)
	}
	page, err := h.Listings.List(c.Request().Context(), params)
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, page)
}

// LatestProperties handles GET /api/properties/latest.
func (h *PublicHandler) LatestProperties(c echo.Context) error {
	n := 0
	if s := strings.TrimSpace(c.QueryParam("limit")); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			return badRequest(c, "limit must be an integer")
		}
		n = v
	}
	rows, err := h.Listings.Latest(c.Request().Context(), n)
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"properties": rows})
}

// GetProperty handles GET /api/properties/:slug.  Listings that are not
// available are reported as missing.
func (h *PublicHandler) GetProperty(c echo.Context) error {
	l, err := h.Listings.BySlug(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, l)
}

// ListPosts handles GET /api/blog.
func (h *PublicHandler) ListPosts(c echo.Context) error {
	posts, err := h.Blog.ListPublished(c.Request().Context())
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"posts": posts})
}

// GetPost handles GET /api/blog/:slug.
func (h *PublicHandler) GetPost(c echo.Context) error {
	p, err := h.Blog.GetPublishedBySlug(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, p)
}
