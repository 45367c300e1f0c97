package handler

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/iliyamo/trip-ticket-log/internal/apperr"
	"github.com/iliyamo/trip-ticket-log/internal/repository"
)

func TestResolve(t *testing.T) {
	unavailable := fmt.Errorf("count tickets: %w", fmt.Errorf("%w: dial tcp: refused", repository.ErrUnavailable))

	cases := []struct {
		name       string
		err        error
		production bool
		status     int
		message    string
		detail     bool
	}{
		{"validation", apperr.Invalid([]apperr.Violation{{Field: "city", Message: "city is required"}}), false, http.StatusBadRequest, "Validation failed", false},
		{"not found", apperr.NotFound("Ticket not found"), false, http.StatusNotFound, "Ticket not found", false},
		{"unavailable dev", unavailable, false, http.StatusServiceUnavailable, "Database connection error", true},
		{"unavailable prod", unavailable, true, http.StatusServiceUnavailable, "Database connection error", false},
		{"unknown route", echo.ErrNotFound, false, http.StatusNotFound, "Route not found", false},
		{"too large", echo.ErrStatusRequestEntityTooLarge, false, http.StatusRequestEntityTooLarge, "Request Entity Too Large", false},
		{"internal dev", errors.New("boom"), false, http.StatusInternalServerError, "Internal server error", true},
		{"internal prod", errors.New("boom"), true, http.StatusInternalServerError, "Internal server error", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, body := Resolve(tc.err, tc.production)
			assert.Equal(t, tc.status, status)
			assert.Equal(t, tc.message, body["message"])
			_, hasDetail := body["error"]
			assert.Equal(t, tc.detail, hasDetail)
		})
	}
}
