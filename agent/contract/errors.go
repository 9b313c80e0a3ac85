package contract

import "errors"

var (
	ErrModelInvoke         = errors.New("model invoke failed")
	ErrSchemaViolation     = errors.New("model response violates schema")
	ErrPromptMissing       = errors.New("required prompt is missing")
	ErrValidation          = errors.New("validation failed")
	ErrStoreUnavailable    = errors.New("store unavailable")
	ErrCustomerNotVerified = errors.New("customer not verified")
)
