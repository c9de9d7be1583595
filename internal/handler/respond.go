package handler

import (
    "errors"
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/corporate-directory/internal/repository"
    "github.com/iliyamo/corporate-directory/internal/service"
)

// writeError translates a domain error into a status code and the
// standard {"error": ...} body. Validation and conflict messages are
// safe for clients; authentication failures stay deliberately generic;
// anything unclassified is logged and reported as a bare 500.
func writeError(c echo.Context, err error) error {
    switch {
    case errors.Is(err, service.ErrValidation), errors.Is(err, service.ErrConflict):
        return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
    case errors.Is(err, service.ErrAuthentication):
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Invalid credentials"})
    case errors.Is(err, service.ErrAuthorization):
        return c.JSON(http.StatusForbidden, echo.Map{"error": err.Error()})
    case errors.Is(err, service.ErrNotFound), errors.Is(err, repository.ErrNotFound):
        return c.JSON(http.StatusNotFound, echo.Map{"error": "Resource not found"})
    case errors.Is(err, repository.ErrEmailExists):
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "email already in use"})
    default:
        c.Logger().Errorf("unexpected error: %v", err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Internal server error"})
    }
}
