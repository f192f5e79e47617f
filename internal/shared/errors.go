package shared

import "errors"

var (
	// ErrNotFound indicates the resource is absent or belongs to another tenant.
	// The two cases are indistinguishable on purpose.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate indicates a uniqueness conflict.
	ErrDuplicate = errors.New("duplicate entry")
	// ErrValidation indicates malformed input.
	ErrValidation = errors.New("validation failed")
	// ErrUnauthorized indicates a missing or invalid bearer token.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInvalidCredentials indicates login failure.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrOrganizationRequired indicates the acting user has no organization.
	ErrOrganizationRequired = errors.New("organization required")
	// ErrOrganizationDisabled indicates a write against a disabled organization.
	ErrOrganizationDisabled = errors.New("organization disabled")
	// ErrInsufficientStock indicates a sell would drive product stock negative.
	ErrInsufficientStock = errors.New("insufficient stock")
)
