// Package validatex wraps go-playground/validator with the custom rules
// used across the client and friendlier error text.
package validatex

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/dmitrijs2005/escrowdeck/internal/common"
)

var hexAddressRe = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// eth_addr_hex accepts any 20-byte hex address regardless of checksum
	// casing; checksum verification happens in ethx where it matters.
	_ = v.RegisterValidation("eth_addr_hex", func(fl validator.FieldLevel) bool {
		return hexAddressRe.MatchString(fl.Field().String())
	})
	return v
}

// Struct validates s and converts validator errors into a single error
// wrapping common.ErrValidation with readable per-field messages.
func Struct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", common.ErrValidation, err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return fmt.Errorf("%w: %s", common.ErrValidation, strings.Join(msgs, "; "))
}

// Var validates a single value against the given tag.
func Var(value any, tag string) error {
	if err := validate.Var(value, tag); err != nil {
		return fmt.Errorf("%w: value does not satisfy %q", common.ErrValidation, tag)
	}
	return nil
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "eth_addr_hex":
		return fmt.Sprintf("%s must be a 0x-prefixed 40-digit hex address", field)
	case "eqfield":
		return fmt.Sprintf("%s must match %s", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid (%s)", field, fe.Tag())
	}
}
