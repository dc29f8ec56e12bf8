// internal/errors/errors.go
package appErrors

import (
    "errors"
    "fmt"
)

// Stable error codes surfaced to API callers.
const (
    CodeDuplicateEmail = "duplicate_email"
    CodeInvalidInput   = "invalid_input"
    CodeNotFound       = "not_found"
    CodeStoreFailure   = "store_failure"
)

// Sentinel errors for validation rejects
var (
    ErrInvalidCustomerID = errors.New("customer id must be a positive integer")
    ErrInvalidEmail      = errors.New("invalid email format")
    ErrInvalidPhone      = errors.New("invalid mobile number format")
    ErrCustomerNotFound  = errors.New("customer not found")
)

// ErrDuplicateEmail means another account already owns the target email.
// Raised before any mutation so the caller can render a field-level message.
type ErrDuplicateEmail struct {
    Email string
}

func (e *ErrDuplicateEmail) Error() string {
    return fmt.Sprintf("email %s is already in use by another account", e.Email)
}

func NewDuplicateEmail(email string) error {
    return &ErrDuplicateEmail{Email: email}
}

// Store names reported in partial-failure results.
const (
    StoreAccounts = "accounts"
    StoreProfiles = "profiles"
)

// ErrStoreFailure wraps a native store error with the store that raised it.
// The native error text is operational detail, safe to surface to operators.
type ErrStoreFailure struct {
    Store string
    Op    string
    Err   error
}

func (e *ErrStoreFailure) Error() string {
    return fmt.Sprintf("%s store failed during %s: %v", e.Store, e.Op, e.Err)
}

func (e *ErrStoreFailure) Unwrap() error { return e.Err }

func NewStoreFailure(store, op string, err error) error {
    return &ErrStoreFailure{Store: store, Op: op, Err: err}
}
