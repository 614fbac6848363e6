// Package validator checks assembled product records against the field
// constraints declared on their struct tags (price bounds, PIN shape,
// gender values) before a record reaches the formatter.
package validator

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/reviewcheckk/dealbot/internal/models"
)

// Validator is a wrapper around the validator library.
type Validator struct {
	validate *validator.Validate
}

// New creates a new Validator instance.
func New() *Validator {
	return &Validator{
		validate: validator.New(),
	}
}

// ValidateRecord checks one assembled product record.
func (v *Validator) ValidateRecord(rec *models.ProductRecord) error {
	return v.ValidateStruct(rec)
}

// ValidateStruct validates a struct based on its tags.
func (v *Validator) ValidateStruct(s interface{}) error {
	err := v.validate.Struct(s)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	return nil
}
