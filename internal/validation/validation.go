// Package validation checks the shape of inbound ticket requests before they
// reach the data access layer.  Each check returns an ordered list of
// violations; an empty list means the request was accepted.
package validation

import (
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/ttacon/libphonenumber"

	"github.com/iliyamo/trip-ticket-log/internal/apperr"
	"github.com/iliyamo/trip-ticket-log/internal/model"
)

// Validator runs the create and list checks.  It is safe for concurrent use.
type Validator struct {
	v      *validator.Validate
	region string
}

// New builds a Validator.  region is the default libphonenumber region used
// for numbers written without an international prefix.
func New(region string) *Validator {
	region = strings.ToUpper(strings.TrimSpace(region))
	if region == "" {
		region = "US"
	}
	val := &Validator{v: validator.New(), region: region}

	val.v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"json", "query"} {
			if name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]; name != "" && name != "-" {
				return name
			}
		}
		return f.Name
	})
	// Registration only fails for empty tags or nil funcs.
	_ = val.v.RegisterValidation("reason", func(fl validator.FieldLevel) bool {
		return model.IsReason(fl.Field().String())
	})
	_ = val.v.RegisterValidation("isodate", func(fl validator.FieldLevel) bool {
		_, ok := ParseDate(fl.Field().String())
		return ok
	})
	_ = val.v.RegisterValidation("posint", func(fl validator.FieldLevel) bool {
		n, err := strconv.Atoi(strings.TrimSpace(fl.Field().String()))
		return err == nil && n > 0
	})
	_ = val.v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return val.validPhone(fl.Field().String())
	})
	return val
}

func (val *Validator) validPhone(s string) bool {
	p, err := libphonenumber.Parse(strings.TrimSpace(s), val.region)
	if err != nil {
		return false
	}
	return libphonenumber.IsValidNumber(p)
}

// dateLayouts are the accepted spellings of a date or date-time, tried in
// order.  Values without a zone are read as UTC.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// ParseDate parses a calendar date or ISO 8601 timestamp.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// translate turns validator errors into violations keyed by field name.
func translate(err error) map[string]apperr.Violation {
	out := map[string]apperr.Violation{}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return out
	}
	for _, fe := range verrs {
		if _, seen := out[fe.Field()]; seen {
			continue
		}
		out[fe.Field()] = apperr.Violation{Field: fe.Field(), Message: message(fe)}
	}
	return out
}

func message(fe validator.FieldError) string {
	f := fe.Field()
	switch fe.Tag() {
	case "required":
		return f + " is required"
	case "reason":
		return f + " must be one of: " + strings.Join(model.Reasons, ", ")
	case "isodate":
		return f + " must be a valid date (YYYY-MM-DD)"
	case "phone":
		return f + " must be a valid phone number"
	case "posint":
		return f + " must be a positive integer"
	case "oneof":
		return f + " must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	}
	return f + " is invalid"
}

// ordered lists violations in the order fields are declared.
func ordered(fields []string, byField map[string]apperr.Violation) []apperr.Violation {
	out := make([]apperr.Violation, 0, len(byField))
	for _, f := range fields {
		if v, ok := byField[f]; ok {
			out = append(out, v)
		}
	}
	return out
}
