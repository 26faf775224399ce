package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate reports fields by their koanf key so messages match the YAML and env names.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("koanf"), ",")
		if name == "" || name == "-" {
			return f.Name
		}

		return name
	})

	return v
}

// Validate checks the loaded configuration. The service refuses to start on error.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	lines := make([]string, 0, len(fieldErrs))
	for _, e := range fieldErrs {
		lines = append(lines, describe(e))
	}

	return fmt.Errorf("config validation failed:\n  %s", strings.Join(lines, "\n  "))
}

// describe renders one failure as "key (ENV_VAR) problem".
func describe(e validator.FieldError) string {
	key := formatFieldPath(e.Namespace())
	subject := fmt.Sprintf("%s (%s)", key, envName(key))

	switch e.Tag() {
	case "required":
		return subject + " is required"
	case "required_if":
		return fmt.Sprintf("%s is required when %s", subject, e.Param())
	case "required_unless":
		return fmt.Sprintf("%s is required unless %s", subject, e.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s", subject, e.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", subject, e.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", subject, e.Param())
	case "url":
		return subject + " must be a valid URL"
	case "gtefield":
		return fmt.Sprintf("%s must not be below %s", subject, e.Param())
	default:
		return fmt.Sprintf("%s failed validation: %s", subject, e.Tag())
	}
}

// formatFieldPath drops the root struct name: "Config.client.retry.max_attempts"
// becomes "client.retry.max_attempts".
func formatFieldPath(namespace string) string {
	_, path, found := strings.Cut(namespace, ".")
	if !found {
		return namespace
	}

	return path
}

// envName is the variable that overrides key.
func envName(key string) string {
	return "APP_" + strings.ToUpper(strings.ReplaceAll(key, ".", "__"))
}
