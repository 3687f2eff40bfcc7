package validator

import (
	"errors"
	"fmt"
	"log"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// FieldError is a single failed rule with a human readable message.
type FieldError struct {
	Field   string
	Message string
}

// New returns a validator reporting json field names.
func New() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	registerTagName(v)
	return v
}

func RegisterGinValidator() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		registerTagName(v)
	} else {
		log.Fatal("unexpected gin validator engine")
	}
}

func registerTagName(v *validator.Validate) {
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// FirstError converts the first validation failure in err into a FieldError.
func FirstError(err error) (FieldError, bool) {
	var verr validator.ValidationErrors
	if !errors.As(err, &verr) || len(verr) == 0 {
		return FieldError{}, false
	}

	ferr := verr[0]
	return FieldError{Field: ferr.Field(), Message: MsgForTag(ferr.Field(), ferr.Tag(), ferr.Param())}, true
}

func MsgForTag(field string, tag string, value string) string {
	switch tag {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "contains":
		if value == "@" {
			return "please enter a valid email address"
		}
		return fmt.Sprintf("%s must contain %q", field, value)
	case "email":
		return "please enter a valid email address"
	case "min":
		return fmt.Sprintf("%s must be at least %v characters", field, value)
	case "max":
		return fmt.Sprintf("%s must be at most %v characters", field, value)
	}
	return tag
}
