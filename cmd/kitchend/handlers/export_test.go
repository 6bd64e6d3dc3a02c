package handlers

import "github.com/labstack/echo/v4"

// SetIdentity stands in for AuthMiddleware in handler tests.
func SetIdentity(c echo.Context, id Identity) {
	c.Set(identityKey, id)
}
