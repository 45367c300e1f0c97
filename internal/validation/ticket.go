package validation

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/iliyamo/trip-ticket-log/internal/apperr"
	"github.com/iliyamo/trip-ticket-log/internal/model"
)

// CreateTicketInput is the create payload after type checking.
type CreateTicketInput struct {
	TripID        string `json:"tripId" validate:"required"`
	TripDate      string `json:"tripDate" validate:"required,isodate"`
	DriverID      *int64 `json:"driverId" validate:"required"`
	Reason        string `json:"reason" validate:"required,reason"`
	City          string `json:"city" validate:"required"`
	ServiceType   string `json:"serviceType" validate:"required"`
	CustomerPhone string `json:"customerPhone" validate:"required,phone"`
	AgentName     string `json:"agentName" validate:"required"`
}

var createFields = []string{
	"tripId", "tripDate", "driverId", "reason",
	"city", "serviceType", "customerPhone", "agentName",
}

// Ticket converts an accepted input into a model ready to insert.
func (in CreateTicketInput) Ticket() model.Ticket {
	tripDate, _ := ParseDate(in.TripDate)
	var driverID int64
	if in.DriverID != nil {
		driverID = *in.DriverID
	}
	return model.Ticket{
		TripID:        in.TripID,
		TripDate:      time.Date(tripDate.Year(), tripDate.Month(), tripDate.Day(), 0, 0, 0, 0, time.UTC),
		DriverID:      driverID,
		Reason:        in.Reason,
		City:          in.City,
		ServiceType:   in.ServiceType,
		CustomerPhone: in.CustomerPhone,
		AgentName:     in.AgentName,
	}
}

// CheckCreate decodes and validates a create-ticket body.  Fields with the
// wrong JSON type are reported as such; every other field goes through the
// struct rules.  The input is only meaningful when no violations are
// returned.
func (val *Validator) CheckCreate(body []byte) (CreateTicketInput, []apperr.Violation) {
	var in CreateTicketInput

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil || raw == nil {
		return in, []apperr.Violation{{Field: "body", Message: "request body must be a JSON object"}}
	}

	byField := map[string]apperr.Violation{}
	str := func(name string, dst *string) {
		v, ok := raw[name]
		if !ok || isNull(v) {
			return
		}
		if err := json.Unmarshal(v, dst); err != nil {
			byField[name] = apperr.Violation{Field: name, Message: name + " must be a string"}
			return
		}
		*dst = strings.TrimSpace(*dst)
	}
	str("tripId", &in.TripID)
	str("tripDate", &in.TripDate)
	str("reason", &in.Reason)
	str("city", &in.City)
	str("serviceType", &in.ServiceType)
	str("customerPhone", &in.CustomerPhone)
	str("agentName", &in.AgentName)

	if v, ok := raw["driverId"]; ok && !isNull(v) {
		if n, ok := parseInt(v); ok {
			in.DriverID = &n
		} else {
			byField["driverId"] = apperr.Violation{Field: "driverId", Message: "driverId must be an integer"}
		}
	}

	if err := val.v.Struct(in); err != nil {
		for name, v := range translate(err) {
			if _, typed := byField[name]; !typed {
				byField[name] = v
			}
		}
	}
	return in, ordered(createFields, byField)
}

func isNull(v json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(v), []byte("null"))
}

// parseInt accepts an integral JSON number or a string of digits.
func parseInt(v json.RawMessage) (int64, bool) {
	var n int64
	if err := json.Unmarshal(v, &n); err == nil {
		return n, true
	}
	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		return 0, false
	}
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	return n, err == nil
}
