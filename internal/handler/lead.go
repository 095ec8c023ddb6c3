package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/julin-realestate/realestate-api/internal/model"
	"github.com/julin-realestate/realestate-api/internal/service"
)

// LeadHandler accepts contact form enquiries and lists them for admins.
type LeadHandler struct {
	Leads *service.LeadService
	Log   *zap.Logger
}

func NewLeadHandler(leads *service.LeadService, log *zap.Logger) *LeadHandler {
	return &LeadHandler{Leads: leads, Log: log}
}

// Create handles POST /api/leads.
func (h *LeadHandler) Create(c echo.Context) error {
	var in model.LeadInput
	if err := c.Bind(&in); err != nil {
		return badRequest(c, "invalid request body")
	}
	lead, err := h.Leads.Create(c.Request().Context(), in)
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "lead": lead})
}

// List handles GET /api/admin/leads.
func (h *LeadHandler) List(c echo.Context) error {
	leads, err := h.Leads.List(c.Request().Context())
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"leads": leads})
}
