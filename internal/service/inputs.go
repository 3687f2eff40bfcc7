package service

import (
	"strings"

	"github.com/go-playground/validator/v10"

	pkgValidator "github.com/rubbishit/backend/pkg/validator"
)

type SendCodeInput struct {
	Email    string `json:"email" validate:"required,contains=@"`
	Username string `json:"username" validate:"required,min=2"`
}

func (i *SendCodeInput) normalize() {
	i.Email = normalizeEmail(i.Email)
	i.Username = strings.TrimSpace(i.Username)
}

type RegisterInput struct {
	Email    string `json:"email" validate:"required"`
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required,min=6"`
	Code     string `json:"code" validate:"required"`
}

// normalize leaves the password untouched.
func (i *RegisterInput) normalize() {
	i.Email = normalizeEmail(i.Email)
	i.Username = strings.TrimSpace(i.Username)
	i.Code = strings.TrimSpace(i.Code)
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (i *LoginInput) normalize() {
	i.Email = normalizeEmail(i.Email)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateInput(v *validator.Validate, input interface{}) error {
	err := v.Struct(input)
	if err == nil {
		return nil
	}

	if ferr, ok := pkgValidator.FirstError(err); ok {
		return &ValidationError{Field: ferr.Field, Message: ferr.Message}
	}

	return &ValidationError{Field: "request", Message: err.Error()}
}
