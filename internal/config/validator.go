package config

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	masonerrors "github.com/masonbuild/mason/pkg/errors"
)

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate

	// Unit and hook names share the source system's identifier shape: a
	// lowercase word, optionally dash/underscore separated.
	namePattern = regexp.MustCompile(`^[a-z][a-z0-9_-]*$`)
)

func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		validateInst = validator.New()
	})

	return validateInst
}

// ValidateConfig performs schema and cross-field validation on the configuration.
func ValidateConfig(cfg *Config) error {
	if cfg == nil {
		return masonerrors.NewValidationError("config", "configuration is nil", nil)
	}

	v := validatorInstance()
	if err := v.Struct(cfg); err != nil {
		return convertValidationError(err)
	}

	for name, unit := range cfg.Units {
		if !namePattern.MatchString(name) {
			return masonerrors.NewValidationError(fieldForUnit(name, ""), fmt.Sprintf("invalid unit name %q", name), nil)
		}

		for _, hook := range unit.Hook {
			if !namePattern.MatchString(hook) {
				return masonerrors.NewValidationError(fieldForUnit(name, "hook"), fmt.Sprintf("invalid hook name %q", hook), nil)
			}
		}

		for entry, pattern := range unit.Entry {
			if strings.TrimSpace(pattern) == "" {
				return masonerrors.NewValidationError(fieldForUnit(name, "entry."+entry), "entry pattern is empty", nil)
			}
		}
	}

	return nil
}

func convertValidationError(err error) error {
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		first := fieldErrs[0]
		field := strings.TrimPrefix(first.Namespace(), "Config.")
		message := fmt.Sprintf("failed %q constraint", first.Tag())
		return masonerrors.NewValidationError(strings.ToLower(field), message, err)
	}

	return masonerrors.NewValidationError("config", err.Error(), err)
}

func fieldForUnit(name, attr string) string {
	if attr == "" {
		return fmt.Sprintf("units.%s", name)
	}
	return fmt.Sprintf("units.%s.%s", name, attr)
}
