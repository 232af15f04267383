package runtime

import (
	"fmt"
	"net"
	"net/url"
	"reflect"
	"strings"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
)

// Package-level validator instance
var validate *validator.Validate

func init() {
	validate = validator.New()
	registerCustomValidators()
}

// InitializeConfig prepares a typed config struct in one call:
// defaults from struct tags, then raw value merging, then validation.
func InitializeConfig(config any, rawValues map[string]any) error {
	if err := ApplyDefaults(config); err != nil {
		return fmt.Errorf("failed to apply defaults: %w", err)
	}

	// Raw values come from YAML documents, so merging maps via yaml tags.
	if len(rawValues) > 0 {
		if err := mapToStructFromYAML(rawValues, config); err != nil {
			return fmt.Errorf("failed to apply config values: %w", err)
		}
	}

	// Validate AFTER rawValues are merged.
	configValue := reflect.ValueOf(config)
	if configValue.Kind() == reflect.Ptr {
		configValue = configValue.Elem()
	}
	if err := validateConfig(configValue.Interface()); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	return nil
}

// registerCustomValidators registers framework-provided validation functions
func registerCustomValidators() {
	// hostname_port validates "host:port" format with numeric port
	validate.RegisterValidation("hostname_port", func(fl validator.FieldLevel) bool {
		addr := fl.Field().String()
		host, port, err := net.SplitHostPort(addr)
		if err != nil || port == "" {
			return false
		}
		_ = host // an empty host means "all interfaces" and is allowed
		_, err = net.LookupPort("tcp", port)
		return err == nil
	})

	// url_format validates URL structure
	validate.RegisterValidation("url_format", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		u, err := url.Parse(s)
		return err == nil && u.Scheme != "" && u.Host != ""
	})
}

func ApplyDefaults(config any) error {
	if config == nil {
		return fmt.Errorf("config cannot be nil")
	}
	if err := defaults.Set(config); err != nil {
		return fmt.Errorf("failed to apply default values: %w", err)
	}
	return nil
}

func validateConfig(config any) error {
	if config == nil {
		return fmt.Errorf("config cannot be nil")
	}

	if err := validate.Struct(config); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			var errMessages []string
			for _, fieldErr := range validationErrors {
				errMessages = append(errMessages, fmt.Sprintf(
					"field '%s' failed validation (rule: %s)",
					fieldErr.Field(),
					fieldErr.Tag(),
				))
			}
			return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errMessages, "\n  - "))
		}
		return fmt.Errorf("config validation failed: %w", err)
	}

	return nil
}

// mapToStructFromYAML converts a map[string]any to a struct using yaml tags
// for field mapping.
func mapToStructFromYAML(m map[string]any, target any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		TagName:          "yaml",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return fmt.Errorf("failed to create decoder: %w", err)
	}

	if err := decoder.Decode(m); err != nil {
		return fmt.Errorf("failed to decode map to struct: %w", err)
	}
	return nil
}
