package service

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	validate   = newValidator()
	usernameRe = regexp.MustCompile(`^[\w.@+-]+$`)
)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// report fields under their wire names
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		switch name {
		case "-":
			return ""
		case "":
			return f.Name
		}
		return name
	})

	_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernameRe.MatchString(fl.Field().String())
	})
	return v
}

func validateStruct(req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	ve := &ValidationError{}
	for _, fe := range fieldErrs {
		ve.Add(fe.Field(), describe(fe))
	}
	return ve
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "min":
		if fe.Param() == "1" {
			return "This field may not be blank."
		}
		return fmt.Sprintf("Ensure this field has at least %s characters.", fe.Param())
	case "max":
		return fmt.Sprintf("Ensure this field has no more than %s characters.", fe.Param())
	case "gt":
		return fmt.Sprintf("Ensure this value is greater than %s.", fe.Param())
	case "username":
		return "Enter a valid username. This value may contain only letters, numbers, and @/./+/-/_ characters."
	}
	return fmt.Sprintf("Failed on the %q rule.", fe.Tag())
}

// trimText drops surrounding whitespace. Text is otherwise stored exactly as
// sent; escaping is left to whoever renders it.
func trimText(s string) string {
	return strings.TrimSpace(s)
}

func trimTextPtr(s *string) *string {
	if s == nil {
		return nil
	}
	out := trimText(*s)
	return &out
}
