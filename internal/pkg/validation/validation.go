// Package validation runs struct-tag validation on request DTOs and converts
// failures into domain.ValidationError with one message per field.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"limpay/internal/core/domain"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var studentIDPattern = regexp.MustCompile(`^[0-9]{7}$`)

var (
	once     sync.Once
	validate *validator.Validate
)

func instance() *validator.Validate {
	once.Do(func() {
		v := validator.New()
		v.RegisterTagNameFunc(jsonName)
		v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
			if d, ok := field.Interface().(decimal.Decimal); ok {
				f, _ := d.Float64()
				return f
			}
			return nil
		}, decimal.Decimal{})
		_ = v.RegisterValidation("studentid", func(fl validator.FieldLevel) bool {
			return studentIDPattern.MatchString(fl.Field().String())
		})
		_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		})
		validate = v
	})
	return validate
}

// IsStudentID reports whether id is a 7-digit student number
func IsStudentID(id string) bool {
	return studentIDPattern.MatchString(id)
}

// Struct validates s and returns *domain.ValidationError on failure
func Struct(s interface{}) error {
	err := instance().Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	labels := labelsOf(s)
	out := &domain.ValidationError{}
	for _, fe := range verrs {
		label := labels[fe.Field()]
		if label == "" {
			label = fe.Field()
		}
		out.Fields = append(out.Fields, domain.FieldError{
			Field:   fe.Field(),
			Message: message(fe, label),
		})
	}
	return out
}

func message(fe validator.FieldError, label string) string {
	switch fe.Tag() {
	case "required", "required_without":
		return label + " is required"
	case "email":
		return "Valid email is required"
	case "studentid":
		return label + " must be exactly 7 digits"
	case "notblank":
		return label + " cannot be empty"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", label, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", label, fe.Param())
	case "len":
		return fmt.Sprintf("%s must be %s characters", label, fe.Param())
	case "gt", "gte":
		return "Valid " + strings.ToLower(label) + " is required"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", label, fe.Param())
	default:
		return label + " is invalid"
	}
}

func jsonName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return fld.Name
	}
	return name
}

// labelsOf maps json field names to their human label tag
func labelsOf(s interface{}) map[string]string {
	t := reflect.TypeOf(s)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	labels := make(map[string]string)
	if t.Kind() != reflect.Struct {
		return labels
	}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if label := f.Tag.Get("label"); label != "" {
			labels[jsonName(f)] = label
		}
	}
	return labels
}
