package middleware

import "github.com/labstack/echo/v4"

// adminEmailKey is where the guard leaves the authorized admin's email.
const adminEmailKey = "admin_email"

// AdminEmail returns the email the guard admitted, or "" outside admin paths.
func AdminEmail(c echo.Context) string {
	if v, ok := c.Get(adminEmailKey).(string); ok {
		return v
	}
	return ""
}

// clientID identifies the caller for rate limiting: the admin email when the
// guard has run, "anon" otherwise.
func clientID(c echo.Context) string {
	if email := AdminEmail(c); email != "" {
		return email
	}
	return "anon"
}
