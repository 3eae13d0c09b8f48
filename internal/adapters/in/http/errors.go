package http

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"escrow/internal/core/domain/model/kernel"
	"escrow/internal/pkg/errs"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// statusFor maps an error kind to its HTTP status. Order matters: a rejected
// actor is also a failed precondition.
func statusFor(err error) int {
	var httpErr *echo.HTTPError
	var validationErrs validator.ValidationErrors
	switch {
	case errors.As(err, &httpErr):
		return httpErr.Code
	case errors.As(err, &validationErrs),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		return http.StatusBadRequest
	case errors.Is(err, kernel.ErrActorNotPermitted):
		return http.StatusForbidden
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound
	case errors.Is(err, errs.ErrPreconditionFailed),
		errors.Is(err, errs.ErrConcurrentModification):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func messageFor(status int, err error) string {
	var validationErrs validator.ValidationErrors
	switch {
	case status >= http.StatusInternalServerError:
		return "Internal error"
	case errors.As(err, &validationErrs):
		fields := make([]string, 0, len(validationErrs))
		for _, fe := range validationErrs {
			fields = append(fields, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
		}
		return "Invalid request: " + strings.Join(fields, "; ")
	default:
		var httpErr *echo.HTTPError
		if errors.As(err, &httpErr) {
			return fmt.Sprint(httpErr.Message)
		}
		return err.Error()
	}
}

// fail writes err as an Error body. Server-side failures are logged and
// hidden from the caller.
func (s *Server) fail(c echo.Context, err error) error {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.ErrorContext(c.Request().Context(), "Request failed",
			"method", c.Request().Method, "route", c.Path(), "error", err)
	}
	return c.JSON(status, Error{Code: status, Message: messageFor(status, err)})
}
