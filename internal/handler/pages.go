package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/julin-realestate/realestate-api/internal/middleware"
)

var reasonMessages = map[string]string{
	middleware.ReasonAuthRequired: "Please sign in with Google to continue.",
	middleware.ReasonUnauthorized: "Your account is not allowed to access the admin area.",
	reasonOAuth:                   "Sign-in with Google failed. Please try again.",
}

func reasonBody(c echo.Context, fallback string) echo.Map {
	reason := c.QueryParam("reason")
	msg, ok := reasonMessages[reason]
	if !ok {
		msg = fallback
	}
	return echo.Map{"reason": reason, "message": msg}
}

// LoginPage handles GET /login, the target of auth_required redirects.
func LoginPage(c echo.Context) error {
	return c.JSON(http.StatusOK, reasonBody(c, "Sign in to manage listings."))
}

// ErrorPage handles GET /error, the target of unauthorized redirects.
func ErrorPage(c echo.Context) error {
	return c.JSON(http.StatusOK, reasonBody(c, "Something went wrong."))
}
