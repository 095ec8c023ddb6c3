// Package handler contains the HTTP handlers.  Handlers bind and check the
// request, call one service method and translate its result into JSON.
package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/julin-realestate/realestate-api/internal/model"
	"github.com/julin-realestate/realestate-api/internal/repository"
	"github.com/julin-realestate/realestate-api/internal/service"
	"github.com/julin-realestate/realestate-api/internal/storage"
)

// respondError maps service and repository errors onto status codes.
// Anything unrecognised is logged and hidden behind a generic 500.
func respondError(c echo.Context, log *zap.Logger, err error) error {
	var ve *model.ValidationError
	switch {
	case errors.As(err, &ve):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation failed", "fields": ve.Fields})
	case errors.Is(err, repository.ErrListingNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "property not found"})
	case errors.Is(err, repository.ErrPostNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "post not found"})
	case errors.Is(err, repository.ErrSlugTaken):
		return c.JSON(http.StatusConflict, echo.Map{"error": "slug already exists"})
	case errors.Is(err, model.ErrInvalidTransition):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	case errors.Is(err, storage.ErrInvalidImage):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, service.ErrUnavailable):
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": err.Error()})
	}
	log.Error("request failed",
		zap.String("method", c.Request().Method),
		zap.String("path", c.Request().URL.Path),
		zap.Error(err))
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "request failed"})
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
}
