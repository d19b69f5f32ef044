package rest

import (
	"errors"
	"fmt"
	"net/http"

	"yatube/internal/auth"
	"yatube/internal/service"
	"yatube/pkg/logger"

	"github.com/labstack/echo/v4"
)

type detailResponse struct {
	Detail string `json:"detail"`
}

// ErrorHandler renders handler errors as JSON. Field-level validation
// problems are rendered as {"field": ["message", ...]}, everything else as
// {"detail": "..."}.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status, body := toHTTPError(err)
	if status >= http.StatusInternalServerError {
		logger.FromContext(c.Request().Context()).Error("request failed",
			"method", c.Request().Method,
			"path", c.Path(),
			"error", err,
		)
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(status)
	} else {
		err = c.JSON(status, body)
	}
	if err != nil {
		logger.FromContext(c.Request().Context()).Error("write error response", "error", err)
	}
}

func toHTTPError(err error) (int, any) {
	var (
		ve *service.ValidationError
		he *echo.HTTPError
	)

	switch {
	case errors.As(err, &ve):
		return http.StatusBadRequest, ve.Fields
	case errors.Is(err, service.ErrInvalidRequest):
		return http.StatusBadRequest, detailResponse{Detail: err.Error()}
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized, detailResponse{Detail: "No active account found with the given credentials"}
	case errors.Is(err, auth.ErrInvalidToken):
		return http.StatusUnauthorized, detailResponse{Detail: "Token is invalid or expired"}
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden, detailResponse{Detail: "You do not have permission to perform this action."}
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound, detailResponse{Detail: "Not found."}
	case errors.As(err, &he):
		return he.Code, detailResponse{Detail: fmt.Sprint(he.Message)}
	}
	return http.StatusInternalServerError, detailResponse{Detail: "Internal server error."}
}
