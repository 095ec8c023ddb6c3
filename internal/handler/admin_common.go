package handler

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/julin-realestate/realestate-api/internal/middleware"
	"github.com/julin-realestate/realestate-api/internal/model"
	"github.com/julin-realestate/realestate-api/internal/service"
	"github.com/julin-realestate/realestate-api/internal/storage"
)

// Status handles GET /api/admin.
func (h *AdminHandler) Status(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"status": "OK"})
}

type dashboard struct {
	Admin      string         `json:"admin"`
	Properties map[string]int `json:"properties"`
	Leads      int            `json:"leads"`
	Posts      int            `json:"posts"`
}

// Dashboard handles GET /admin/dashboard.  Every status appears in the
// counts, with zero when no listing has it.
func (h *AdminHandler) Dashboard(c echo.Context) error {
	ctx := c.Request().Context()
	byStatus, err := h.Listings.CountByStatus(ctx)
	if err != nil {
		return respondError(c, h.Log, err)
	}
	leads, err := h.Leads.Count(ctx)
	if err != nil {
		return respondError(c, h.Log, err)
	}
	posts, err := h.Blog.Count(ctx)
	if err != nil {
		return respondError(c, h.Log, err)
	}

	out := dashboard{
		Admin:      middleware.AdminEmail(c),
		Properties: make(map[string]int, len(model.ListingStatuses)+1),
		Leads:      leads,
		Posts:      posts,
	}
	total := 0
	for _, s := range model.ListingStatuses {
		out.Properties[string(s)] = byStatus[s]
		total += byStatus[s]
	}
	out.Properties["total"] = total
	return c.JSON(http.StatusOK, out)
}

// Upload handles POST /api/admin/upload with {data, folder}.
func (h *AdminHandler) Upload(c echo.Context) error {
	var body struct {
		Data   string `json:"data"`
		Folder string `json:"folder"`
	}
	if err := c.Bind(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	if !storage.IsDataURL(strings.TrimSpace(body.Data)) {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error":  "validation failed",
			"fields": map[string]string{"data": "must be a base64 data URL"},
		})
	}
	if h.Images == nil {
		return respondError(c, h.Log, fmt.Errorf("image storage %w", service.ErrUnavailable))
	}
	folder := body.Folder
	if strings.TrimSpace(folder) == "" {
		folder = storage.DefaultFolder
	}
	url, err := h.Images.UploadDataURL(c.Request().Context(), strings.TrimSpace(body.Data), folder)
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"url": url})
}
