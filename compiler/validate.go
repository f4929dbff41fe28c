package compiler

import (
	"errors"
	"fmt"

	"github.com/gogpu/naga"
)

// validateWGSL runs assembled shader text through the naga front end and
// validator.
func validateWGSL(text string) error {
	parsed, err := naga.Parse(text)
	if err != nil {
		return fmt.Errorf("generated WGSL: %w", err)
	}
	module, err := naga.LowerWithSource(parsed, text)
	if err != nil {
		return fmt.Errorf("generated WGSL: %w", err)
	}
	validationErrors, err := naga.Validate(module)
	if err != nil {
		return fmt.Errorf("generated WGSL: %w", err)
	}
	if len(validationErrors) > 0 {
		errs := make([]error, len(validationErrors))
		for i, validationErr := range validationErrors {
			errs[i] = validationErr
		}
		return fmt.Errorf("generated WGSL is invalid: %w", errors.Join(errs...))
	}
	return nil
}

// ValidateWGSL checks shader text produced by shader.Module.WGSL.
func ValidateWGSL(text string) error {
	return validateWGSL(text)
}
