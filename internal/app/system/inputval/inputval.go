// internal/app/system/inputval/inputval.go
//
// Package inputval validates form input structs with go-playground/validator
// and turns the failures into messages fit for a flash banner. Struct fields
// name themselves in messages through a `label` tag.
package inputval

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// FieldError is one failed rule.
type FieldError struct {
	Field   string
	Rule    string
	Message string
}

// Result collects the failures from one Validate call.
type Result struct {
	Errors []FieldError
}

// HasErrors reports whether any rule failed.
func (r *Result) HasErrors() bool { return r != nil && len(r.Errors) > 0 }

// First returns the first message, or "".
func (r *Result) First() string {
	if !r.HasErrors() {
		return ""
	}
	return r.Errors[0].Message
}

// All joins every message with "; ".
func (r *Result) All() string {
	if !r.HasErrors() {
		return ""
	}
	msgs := make([]string, len(r.Errors))
	for i, e := range r.Errors {
		msgs[i] = e.Message
	}
	return strings.Join(msgs, "; ")
}

var (
	once     sync.Once
	validate *validator.Validate
)

func instance() *validator.Validate {
	once.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			if l := f.Tag.Get("label"); l != "" {
				return l
			}
			return f.Name
		})
		_ = v.RegisterValidation("buildingcode", func(fl validator.FieldLevel) bool {
			return IsValidBuildingCode(fl.Field().String())
		})
		_ = v.RegisterValidation("status", func(fl validator.FieldLevel) bool {
			return IsValidStatus(fl.Field().String())
		})
		_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
			s := fl.Field().String()
			return s == "" || IsValidPhone(s)
		})
		validate = v
	})
	return validate
}

// Validate runs the struct's `validate` tags.
func Validate(input any) *Result {
	res := &Result{}
	err := instance().Struct(input)
	if err == nil {
		return res
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		res.Errors = append(res.Errors, FieldError{Message: err.Error()})
		return res
	}
	for _, fe := range verrs {
		res.Errors = append(res.Errors, FieldError{
			Field:   fe.Field(),
			Rule:    fe.Tag(),
			Message: message(fe),
		})
	}
	return res
}

func message(fe validator.FieldError) string {
	label := fe.Field()
	isString := fe.Kind() == reflect.String
	switch fe.Tag() {
	case "required":
		return label + " is required."
	case "max", "lte":
		if isString {
			return fmt.Sprintf("%s must be at most %s characters.", label, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s.", label, fe.Param())
	case "min", "gte":
		if isString {
			return fmt.Sprintf("%s must be at least %s characters.", label, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s.", label, fe.Param())
	case "buildingcode":
		return label + " must be one uppercase letter followed by digits (for example A1)."
	case "status":
		return label + " must be active or inactive."
	case "phone":
		return label + " must be a phone number."
	default:
		return label + " is not valid."
	}
}
