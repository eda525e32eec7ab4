// Package schema declares the prediction request form and validates it field
// by field, producing the user-facing messages shown inline next to each field.
package schema

import (
	"errors"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/netojaycee/forecast-prices-app/pkg/civildate"
)

// PredictionRequest is a candidate single-prediction submission built from the
// current form state.
type PredictionRequest struct {
	Location       string    `json:"location" validate:"required,oneof=Lagos Abuja Anambra Kano Rivers Oyo"`
	Date           time.Time `json:"date" validate:"required,todayorlater"`
	CPIFoodItems   float64   `json:"cpi_food_items" validate:"gte=0,lte=10000"`
	PMSPrice       float64   `json:"pms_price" validate:"gte=0,lte=10000"`
	CentralRateUSD float64   `json:"central_rate_usd" validate:"gte=0,lte=10000"`
	MPR            float64   `json:"mpr" validate:"gte=0,lte=100"`
}

// Payload is the wire form of a prediction request. The date is serialized as
// a calendar string computed in the fixed GMT+1 offset, not in UTC or local
// time, so it cannot shift across midnight boundaries.
type Payload struct {
	Location       string  `json:"location"`
	Date           string  `json:"date"`
	CPIFoodItems   float64 `json:"cpi_food_items"`
	PMSPrice       float64 `json:"pms_price"`
	CentralRateUSD float64 `json:"central_rate_usd"`
	MPR            float64 `json:"mpr"`
}

// Payload converts the request into its wire form.
func (r PredictionRequest) Payload() Payload {
	return Payload{
		Location:       r.Location,
		Date:           civildate.At(r.Date).String(),
		CPIFoodItems:   r.CPIFoodItems,
		PMSPrice:       r.PMSPrice,
		CentralRateUSD: r.CentralRateUSD,
		MPR:            r.MPR,
	}
}

// Violations maps a field name to the message displayed next to that field.
type Violations map[string]string

// OK reports whether the candidate passed validation.
func (v Violations) OK() bool {
	return len(v) == 0
}

// messages maps field name and failed rule to the displayed text. A location
// outside the enumerated set reads the same as a missing one.
var messages = map[string]map[string]string{
	"location": {
		"required": "Location is required",
		"oneof":    "Location is required",
	},
	"date": {
		"required":     "Date must be today or in the future (GMT+1)",
		"todayorlater": "Date must be today or in the future (GMT+1)",
	},
	"cpi_food_items": {
		"gte": "CPI must be positive",
		"lte": "CPI too high",
	},
	"pms_price": {
		"gte": "PMS Price must be positive",
		"lte": "PMS Price too high",
	},
	"central_rate_usd": {
		"gte": "USD Rate must be positive",
		"lte": "USD Rate too high",
	},
	"mpr": {
		"gte": "MPR must be positive",
		"lte": "MPR too high",
	},
}

// Schema validates prediction requests. The clock is read on every Validate
// call so "today" advances during long-lived sessions; it is injectable for
// tests only.
type Schema struct {
	validate *validator.Validate
	now      func() time.Time
}

// New constructs a Schema using the real clock.
func New() *Schema {
	return NewWithClock(time.Now)
}

// NewWithClock constructs a Schema that reads the current instant from now.
func NewWithClock(now func() time.Time) *Schema {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	s := &Schema{validate: v, now: now}
	if err := v.RegisterValidation("todayorlater", s.todayOrLater); err != nil {
		panic(err)
	}
	return s
}

// todayOrLater accepts any day that is today or later on the fixed GMT+1
// calendar. The boundary is inclusive: today's date passes. It shares the
// day-level comparison with the date-picker's disable predicate.
func (s *Schema) todayOrLater(fl validator.FieldLevel) bool {
	day, ok := fl.Field().Interface().(time.Time)
	if !ok {
		return false
	}
	return !civildate.At(day).Before(civildate.Today(s.now()))
}

// Validate checks every field of the candidate request and returns the
// violations keyed by field name, or an empty result when the request may be
// submitted. It never returns transport or system errors; a well-typed
// request always yields a verdict.
func (s *Schema) Validate(req PredictionRequest) Violations {
	err := s.validate.Struct(req)
	if err == nil {
		return Violations{}
	}

	violations := Violations{}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		violations["request"] = err.Error()
		return violations
	}

	for _, fe := range fieldErrs {
		field := fe.Field()
		if _, seen := violations[field]; seen {
			continue
		}
		if byTag, ok := messages[field]; ok {
			if msg, ok := byTag[fe.Tag()]; ok {
				violations[field] = msg
				continue
			}
		}
		violations[field] = field + " is invalid"
	}
	return violations
}
