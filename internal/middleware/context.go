package middleware

import "github.com/labstack/echo/v4"

// UserIDKey is the echo context key holding the authenticated user id.
const UserIDKey = "userID"

// UserID returns the authenticated user id, or 0 when the request was not
// authenticated.
func UserID(c echo.Context) uint {
	id, _ := c.Get(UserIDKey).(uint)
	return id
}
