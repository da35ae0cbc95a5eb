package transport

import (
	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the validate tags of a request DTO.
func Validate(req any) error {
	if err := validate.Struct(req); err != nil {
		return invalid(err)
	}
	return nil
}
