// Package validation checks decoded request payloads and turns failures into
// per-field messages.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"

	"github.com/tutorapp/tutorapp/pkg/models/api"
)

const (
	isoDateTag   = "isodate"
	dateRangeTag = "daterange"
	datePairTag  = "datepair"
)

// Error lists every invalid field of a payload.
type Error struct {
	Fields []api.FieldError
}

func (e *Error) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

type Validator struct {
	validate   *validator.Validate
	translator ut.Translator
}

func New() *Validator {
	validate := validator.New(validator.WithRequiredStructEnabled())

	english := en.New()
	uni := ut.New(english, english)
	translator, _ := uni.GetTranslator("en")
	_ = enTranslations.RegisterDefaultTranslations(validate, translator)

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = validate.RegisterValidation(isoDateTag, func(fl validator.FieldLevel) bool {
		_, err := ParseDate(fl.Field().String(), time.UTC)
		return err == nil
	})
	validate.RegisterStructValidation(revenueQueryRange, api.RevenueQuery{})
	validate.RegisterStructValidation(pdfRequestRange, api.GeneratePDFRequest{})

	v := &Validator{validate: validate, translator: translator}
	v.registerMessages(isoDateTag, dateRangeTag, datePairTag)
	return v
}

// registerMessages overrides the message of tags whose default text is
// missing or unhelpful. Nothing is added to the translator itself.
func (v *Validator) registerMessages(tags ...string) {
	noop := func(ut.Translator) error { return nil }
	for _, tag := range tags {
		_ = v.validate.RegisterTranslation(tag, v.translator, noop, message)
	}
}

func message(_ ut.Translator, fe validator.FieldError) string {
	switch fe.Tag() {
	case isoDateTag:
		return fmt.Sprintf("%s must be a date formatted as YYYY-MM-DD", fe.Field())
	case dateRangeTag:
		return fmt.Sprintf("%s must not be before startDate", fe.Field())
	case datePairTag:
		return fmt.Sprintf("%s is required when %s is set", fe.Field(), fe.Param())
	default:
		return fe.Error()
	}
}

// Struct returns nil or an *Error describing every failing field.
func (v *Validator) Struct(s any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return err
	}

	res := &Error{Fields: make([]api.FieldError, 0, len(errs))}
	for _, fe := range errs {
		res.Fields = append(res.Fields, api.FieldError{
			Field:   fe.Field(),
			Message: fe.Translate(v.translator),
		})
	}
	return res
}

// ParseDate accepts YYYY-MM-DD or an RFC 3339 timestamp and returns the
// calendar date at midnight in loc. Timestamps keep the date they fall on in
// loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if d, err := time.ParseInLocation(time.DateOnly, s, loc); err == nil {
		return d, nil
	}
	ts, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q", s)
	}
	y, m, d := ts.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc), nil
}

func revenueQueryRange(sl validator.StructLevel) {
	q := sl.Current().Interface().(api.RevenueQuery)
	switch {
	case q.StartDate != "" && q.EndDate == "":
		sl.ReportError(q.EndDate, "endDate", "EndDate", datePairTag, "startDate")
	case q.StartDate == "" && q.EndDate != "":
		sl.ReportError(q.StartDate, "startDate", "StartDate", datePairTag, "endDate")
	}
	checkRange(sl, q.StartDate, q.EndDate)
}

func pdfRequestRange(sl validator.StructLevel) {
	r := sl.Current().Interface().(api.GeneratePDFRequest)
	checkRange(sl, r.StartDate, r.EndDate)
}

// checkRange reports endDate when both bounds parse and end comes first.
// Unparseable bounds are reported by their own field tags.
func checkRange(sl validator.StructLevel, start, end string) {
	if start == "" || end == "" {
		return
	}
	s, err := ParseDate(start, time.UTC)
	if err != nil {
		return
	}
	e, err := ParseDate(end, time.UTC)
	if err != nil {
		return
	}
	if e.Before(s) {
		sl.ReportError(end, "endDate", "EndDate", dateRangeTag, "")
	}
}
