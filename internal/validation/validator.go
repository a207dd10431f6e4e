// Spotwire - Real-Time Activation Spot Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/spotwire

package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// CodeValidationError is the API error code for every failure in this package.
const CodeValidationError = "VALIDATION_ERROR"

var (
	validate     *validator.Validate
	validateOnce sync.Once

	// Lowercase letters and digits in hyphen-separated runs: "pota", "iota-islands".
	slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

	// Callsign with optional portable prefix and suffix: K1ABC, VE3/K1ABC, K1ABC/P.
	callsignPattern = regexp.MustCompile(`^(?:[A-Z0-9]{1,4}/)?[A-Z0-9]{1,3}[0-9][A-Z0-9]{0,4}[A-Z](?:/[A-Z0-9]{1,4})?$`)
)

// ValidationError is one failed rule on one field.
type ValidationError struct {
	field   string
	tag     string
	param   string
	value   interface{}
	message string
}

// Field is the wire name of the field (json tag, then koanf tag, then Go name).
func (e *ValidationError) Field() string { return e.field }

// Tag is the rule that failed, e.g. "required" or "slug".
func (e *ValidationError) Tag() string { return e.tag }

func (e *ValidationError) Param() string { return e.param }

func (e *ValidationError) Value() interface{} { return e.value }

func (e *ValidationError) Error() string { return e.message }

// RequestValidationError collects every failed rule of one request.
type RequestValidationError struct {
	errors []ValidationError
}

func (ve *RequestValidationError) Errors() []ValidationError {
	return ve.errors
}

func (ve *RequestValidationError) Error() string {
	if len(ve.errors) == 0 {
		return "validation failed"
	}
	parts := make([]string, len(ve.errors))
	for i := range ve.errors {
		parts[i] = ve.errors[i].message
	}
	return strings.Join(parts, "; ")
}

// APIError mirrors models.APIError so this package stays import-free of models.
type APIError struct {
	Code    string
	Message string
	Details map[string]interface{}
}

// ToAPIError renders the errors for the response envelope. A single failure
// reports field, tag and value; several report a "fields" list.
func (ve *RequestValidationError) ToAPIError() *APIError {
	switch len(ve.errors) {
	case 0:
		return &APIError{Code: CodeValidationError, Message: "Validation failed"}
	case 1:
		e := ve.errors[0]
		return &APIError{
			Code:    CodeValidationError,
			Message: e.message,
			Details: map[string]interface{}{"field": e.field, "tag": e.tag, "value": e.value},
		}
	}

	fields := make([]map[string]interface{}, len(ve.errors))
	summary := make([]string, len(ve.errors))
	for i, e := range ve.errors {
		fields[i] = map[string]interface{}{"field": e.field, "tag": e.tag, "message": e.message}
		summary[i] = e.field + ": " + e.message
	}
	return &APIError{
		Code:    CodeValidationError,
		Message: strings.Join(summary, "; "),
		Details: map[string]interface{}{"fields": fields},
	}
}

// GetValidator returns the shared validator with the slug and callsign
// rules registered. Safe for concurrent use.
func GetValidator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(wireName)

		// Registration only fails on an empty tag or nil func.
		_ = v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
			return slugPattern.MatchString(fl.Field().String())
		})
		_ = v.RegisterValidation("callsign", func(fl validator.FieldLevel) bool {
			return callsignPattern.MatchString(strings.ToUpper(fl.Field().String()))
		})
		validate = v
	})
	return validate
}

// wireName reports request fields by their JSON name ("frequencyKhz") and
// config fields by their koanf key.
func wireName(fld reflect.StructField) string {
	for _, key := range []string{"json", "koanf"} {
		name, _, _ := strings.Cut(fld.Tag.Get(key), ",")
		switch name {
		case "-":
			return ""
		case "":
			continue
		default:
			return name
		}
	}
	return fld.Name
}

// ValidateStruct checks s against its validate tags. It returns nil when s
// is valid.
//
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    return verr
//	}
func ValidateStruct(s interface{}) *RequestValidationError {
	return collect(GetValidator().Struct(s), "")
}

// ValidateVar checks a single value, e.g. a query parameter, reporting
// failures under field.
func ValidateVar(field string, value interface{}, tag string) *RequestValidationError {
	return collect(GetValidator().Var(value, tag), field)
}

// collect converts validator output. A non-empty field overrides the name
// the validator reports.
func collect(err error, field string) *RequestValidationError {
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		name := field
		if name == "" {
			name = "unknown"
		}
		return &RequestValidationError{errors: []ValidationError{{field: name, tag: "unknown", message: err.Error()}}}
	}

	out := make([]ValidationError, len(fieldErrs))
	for i, fe := range fieldErrs {
		name := field
		if name == "" {
			name = fe.Field()
		}
		out[i] = ValidationError{
			field:   name,
			tag:     fe.Tag(),
			param:   fe.Param(),
			value:   fe.Value(),
			message: describe(fe, name),
		}
	}
	return &RequestValidationError{errors: out}
}

// describe renders a human-readable message for one failed rule.
func describe(fe validator.FieldError, field string) string {
	param := fe.Param()
	text := fe.Kind() == reflect.String

	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "datetime":
		return field + " must be a valid date/time in RFC3339 format"
	case "url":
		return field + " must be a valid URL"
	case "http_url":
		return field + " must be a valid http or https URL"
	case "slug":
		return field + " must be lowercase letters, digits and hyphens"
	case "callsign":
		return field + " must be a valid callsign"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, param)
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, param)
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", field, param)
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, param)
	case "lt":
		return fmt.Sprintf("%s must be less than %s", field, param)
	case "min":
		if text {
			return fmt.Sprintf("%s must be at least %s characters", field, param)
		}
		return fmt.Sprintf("%s must be at least %s", field, param)
	case "max":
		if text {
			return fmt.Sprintf("%s must be at most %s characters", field, param)
		}
		return fmt.Sprintf("%s must be at most %s", field, param)
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}
