package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/anonto42/quillpress/backend/internal/middleware"
	"github.com/anonto42/quillpress/backend/internal/services"
	"github.com/labstack/echo/v4"
)

func getUserIDFromContext(c echo.Context) uint {
	return middleware.UserID(c)
}

func requireUser(c echo.Context) (uint, error) {
	id := getUserIDFromContext(c)
	if id == 0 {
		return 0, echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	return id, nil
}

// parseIDParam reads a positive numeric path parameter.
func parseIDParam(c echo.Context, name, label string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "Invalid "+label+" ID")
	}
	return uint(id), nil
}

// pageParams reads page and limit; the services clamp out-of-range values.
func pageParams(c echo.Context) (int, int) {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	return page, limit
}

// toHTTPError maps service errors onto status codes. Storage failures never
// leak their cause.
func toHTTPError(err error) error {
	var se *services.Error
	if !errors.As(err, &se) {
		return echo.NewHTTPError(http.StatusInternalServerError, "something went wrong")
	}
	switch se.Kind {
	case services.KindValidation, services.KindConflict, services.KindSelfReference:
		return echo.NewHTTPError(http.StatusBadRequest, se.Message)
	case services.KindNotFound:
		return echo.NewHTTPError(http.StatusNotFound, se.Message)
	}
	if se.Retryable() {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "service temporarily unavailable, try again")
	}
	return echo.NewHTTPError(http.StatusInternalServerError, "something went wrong")
}

func ok(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": data})
}
