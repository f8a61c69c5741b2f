package config

import (
	"errors"
	"fmt"
	"slices"

	"github.com/go-playground/validator/v10"
)

// Validator validates configuration values using go-playground/validator
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a new configuration validator
func NewValidator() *Validator {
	v := validator.New()

	v.RegisterValidation("transport", oneOfOrEmpty("sse", "websocket"))
	v.RegisterValidation("render_format", oneOfOrEmpty("terminal", "html", "plain"))
	v.RegisterValidation("store_driver", oneOfOrEmpty("memory", "sqlite"))
	v.RegisterValidation("log_level", oneOfOrEmpty("debug", "info", "warn", "error"))
	v.RegisterValidation("log_format", oneOfOrEmpty("json", "text"))

	return &Validator{
		validate: v,
	}
}

// Validate validates a complete configuration
func (v *Validator) Validate(config *Config) error {
	if config.Version == "" {
		config.Version = "1.0"
	}

	if err := v.validate.Struct(config); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
			e := validationErrors[0]
			return ValidationError{
				Field:   e.Namespace(),
				Message: fmt.Sprintf("%s: validation failed on tag '%s' with value '%v'", e.Namespace(), e.Tag(), e.Value()),
				Value:   e.Value(),
			}
		}
		return err
	}

	return nil
}

// oneOfOrEmpty accepts an empty value, filled by defaults, or one of valid.
func oneOfOrEmpty(valid ...string) validator.Func {
	return func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		return value == "" || slices.Contains(valid, value)
	}
}
