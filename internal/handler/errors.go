package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/trip-ticket-log/internal/apperr"
	"github.com/iliyamo/trip-ticket-log/internal/repository"
)

// ErrorHandler is the terminal error stage.  It maps typed errors onto
// status codes and JSON bodies.  Outside production the underlying error
// text is echoed in an "error" field; in production it never is.
func ErrorHandler(production bool, log *logrus.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		status, body := Resolve(err, production)
		if status >= http.StatusInternalServerError {
			log.WithError(err).WithFields(logrus.Fields{
				"method":     c.Request().Method,
				"uri":        c.Request().RequestURI,
				"status":     status,
				"request_id": c.Response().Header().Get(echo.HeaderXRequestID),
			}).Error("request failed")
		}

		var werr error
		if c.Request().Method == http.MethodHead {
			werr = c.NoContent(status)
		} else {
			werr = c.JSON(status, body)
		}
		if werr != nil {
			log.WithError(werr).Warn("write error response failed")
		}
	}
}

// Resolve returns the status and body for err.
func Resolve(err error, production bool) (int, echo.Map) {
	var (
		verr *apperr.ValidationError
		nf   *apperr.NotFoundError
		he   *echo.HTTPError
	)
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest, echo.Map{
			"message": "Validation failed",
			"errors":  verr.Violations,
		}
	case errors.As(err, &nf):
		return http.StatusNotFound, echo.Map{"message": nf.Message}
	case errors.Is(err, repository.ErrUnavailable):
		return http.StatusServiceUnavailable, withDetail(echo.Map{"message": "Database connection error"}, err, production)
	case errors.As(err, &he):
		if he.Code == http.StatusNotFound {
			return http.StatusNotFound, echo.Map{"message": "Route not found"}
		}
		body := echo.Map{"message": httpErrorMessage(he)}
		if he.Internal != nil {
			body = withDetail(body, he.Internal, production)
		}
		return he.Code, body
	}
	return http.StatusInternalServerError, withDetail(echo.Map{"message": "Internal server error"}, err, production)
}

func httpErrorMessage(he *echo.HTTPError) string {
	switch m := he.Message.(type) {
	case string:
		return m
	case nil:
		return http.StatusText(he.Code)
	default:
		return fmt.Sprint(m)
	}
}

func withDetail(body echo.Map, err error, production bool) echo.Map {
	if !production && err != nil {
		body["error"] = err.Error()
	}
	return body
}
