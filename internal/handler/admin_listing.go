package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/julin-realestate/realestate-api/internal/middleware"
	"github.com/julin-realestate/realestate-api/internal/model"
	"github.com/julin-realestate/realestate-api/internal/service"
)

// AdminHandler bundles the services behind the guarded admin API.
type AdminHandler struct {
	Listings *service.AdminWriter
	Blog     *service.BlogService
	Leads    *service.LeadService
	Images   service.ImageStore // nil when object storage is not configured
	Log      *zap.Logger
}

// NewAdminHandler panics on a missing service; images may be nil.
func NewAdminHandler(listings *service.AdminWriter, blog *service.BlogService, leads *service.LeadService, images service.ImageStore, log *zap.Logger) *AdminHandler {
	if listings == nil || blog == nil || leads == nil {
		panic("nil service passed to NewAdminHandler")
	}
	return &AdminHandler{Listings: listings, Blog: blog, Leads: leads, Images: images, Log: log}
}

// ListProperties handles GET /api/admin/properties.
func (h *AdminHandler) ListProperties(c echo.Context) error {
	rows, err := h.Listings.ListAll(c.Request().Context())
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"properties": rows})
}

// GetProperty handles GET /api/admin/properties/:id.
func (h *AdminHandler) GetProperty(c echo.Context) error {
	l, err := h.Listings.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, l)
}

// CreateProperty handles POST /api/admin/properties.
func (h *AdminHandler) CreateProperty(c echo.Context) error {
	var in model.ListingInput
	if err := c.Bind(&in); err != nil {
		return badRequest(c, "invalid request body")
	}
	l, err := h.Listings.Create(c.Request().Context(), in)
	if err != nil {
		return respondError(c, h.Log, err)
	}
	h.Log.Info("admin created listing", zap.String("admin", middleware.AdminEmail(c)), zap.String("id", l.ID))
	return c.JSON(http.StatusCreated, l)
}

// UpdateProperty handles PATCH and PUT /api/admin/properties/:id.  Both are
// partial updates.
func (h *AdminHandler) UpdateProperty(c echo.Context) error {
	var patch model.ListingPatch
	if err := c.Bind(&patch); err != nil {
		return badRequest(c, "invalid request body")
	}
	l, err := h.Listings.Update(c.Request().Context(), c.Param("id"), patch)
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, l)
}

// DeleteProperty handles DELETE /api/admin/properties/:id by moving the
// listing back to draft.
func (h *AdminHandler) DeleteProperty(c echo.Context) error {
	if err := h.Listings.SoftDelete(c.Request().Context(), c.Param("id")); err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// HardDeleteProperty handles DELETE /api/admin/properties/:id/hard.
func (h *AdminHandler) HardDeleteProperty(c echo.Context) error {
	id := c.Param("id")
	if err := h.Listings.HardDelete(c.Request().Context(), id); err != nil {
		return respondError(c, h.Log, err)
	}
	h.Log.Warn("admin hard-deleted listing", zap.String("admin", middleware.AdminEmail(c)), zap.String("id", id))
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}
