// Package validator adapts go-playground/validator to echo's Validator
// interface so request DTOs can declare their rules as struct tags.
package validator

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// CustomValidator wraps a validator.Validate instance.
type CustomValidator struct {
	validate *validator.Validate
}

// New creates the echo validator.
func New() echo.Validator {
	return &CustomValidator{validate: validator.New()}
}

// Validate checks a bound request struct against its validation tags.
func (cv *CustomValidator) Validate(i any) error {
	if err := cv.validate.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return nil
}
