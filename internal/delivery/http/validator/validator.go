// Package validator adapts go-playground/validator to echo's Validator
// interface so handlers can validate bound request payloads.
package validator

import (
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	domainerrors "github.com/dabinj96/Peaberry-sub000/internal/domain/errors"
)

type echoValidator struct {
	validate *validator.Validate
}

// New builds the request validator used by the HTTP server.
func New() echo.Validator {
	return &echoValidator{validate: validator.New(validator.WithRequiredStructEnabled())}
}

// Validate runs struct tag validation and maps failures onto the shared
// validation error so the error handler renders a 400.
func (v *echoValidator) Validate(i any) error {
	if err := v.validate.Struct(i); err != nil {
		return domainerrors.ErrValidationFailed.WrapMessage(err.Error())
	}

	return nil
}
