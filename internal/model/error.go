package model

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrValidation         = errors.New("validation error") // 400
	ErrQuoteNotFound      = errors.New("quote not found")  // 404
	ErrConflict           = errors.New("conflict")         // 409
	ErrReferenceExhausted = errors.New("monthly reference counter exhausted")
	ErrUnknownStatus      = errors.New("unknown status")
	ErrStorageDisabled    = errors.New("document storage is not configured")
)

// RuleError is an expected business-rule failure carrying the
// human-readable reasons behind it. Kind is ErrValidation or ErrConflict.
type RuleError struct {
	Kind    error
	Reasons []string
}

func (e *RuleError) Error() string {
	if len(e.Reasons) == 0 {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%s: %s", e.Kind, strings.Join(e.Reasons, "; "))
}

func (e *RuleError) Unwrap() error { return e.Kind }

func NewValidationError(reasons ...string) error {
	return &RuleError{Kind: ErrValidation, Reasons: reasons}
}

func NewConflictError(reasons ...string) error {
	return &RuleError{Kind: ErrConflict, Reasons: reasons}
}

// Reasons extracts the reason list of a RuleError anywhere in err's chain.
func Reasons(err error) []string {
	var re *RuleError
	if errors.As(err, &re) {
		return re.Reasons
	}
	return nil
}
