// Package validation checks operator input before it reaches the store and
// reports every problem per field.
package validation

import (
	"errors"
	"reflect"
	"strings"
	"sync"
	"time"
	"unicode"

	"garage_backend/pkg/apperr"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

// MinPhoneDigits is the fewest digits a phone number may contain
const MinPhoneDigits = 10

var (
	once     sync.Once
	validate *validator.Validate
	trans    ut.Translator
)

func setup() {
	validate = validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	uni := ut.New(en.New())
	trans, _ = uni.GetTranslator("en")
	if err := en_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		panic(err)
	}

	register("phone", validPhone, "{0} must contain at least 10 digits")
	register("vehicle_year", validVehicleYear, "{0} must be between 1900 and next year")
}

func register(tag string, fn validator.Func, message string) {
	if err := validate.RegisterValidation(tag, fn); err != nil {
		panic(err)
	}
	_ = validate.RegisterTranslation(tag, trans,
		func(ut ut.Translator) error {
			return ut.Add(tag, message, true)
		},
		func(ut ut.Translator, fe validator.FieldError) string {
			msg, _ := ut.T(tag, fe.Field())
			return msg
		},
	)
}

// Struct validates v and converts failures into an *apperr.ValidationError
func Struct(v interface{}) error {
	once.Do(setup)

	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	out := &apperr.ValidationError{Fields: make(map[string]string, len(fieldErrs))}
	for _, fe := range fieldErrs {
		key := fieldPath(fe.Namespace())
		if _, seen := out.Fields[key]; !seen {
			out.Fields[key] = fe.Translate(trans)
		}
	}
	return out
}

// fieldPath drops the struct name from a validator namespace
func fieldPath(ns string) string {
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func validPhone(fl validator.FieldLevel) bool {
	return CountDigits(fl.Field().String()) >= MinPhoneDigits
}

func validVehicleYear(fl validator.FieldLevel) bool {
	year := int(fl.Field().Int())
	return year >= 1900 && year <= time.Now().Year()+1
}

// CountDigits counts the decimal digits in s
func CountDigits(s string) int {
	n := 0
	for _, r := range s {
		if unicode.IsDigit(r) {
			n++
		}
	}
	return n
}

// Digits keeps only the decimal digits of s
func Digits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
