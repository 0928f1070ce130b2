package middleware

// identity.go defines helper functions shared across middleware files.
// Actor extraction is also used by handlers when stamping audit rows.

import (
	"github.com/labstack/echo/v4"
)

// Actor returns the authenticated caller identity placed in the context
// by JWTAuth. It returns "anonymous" when no caller is authenticated.
func Actor(c echo.Context) string {
	if v := c.Get("actor"); v != nil {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	return "anonymous"
}
