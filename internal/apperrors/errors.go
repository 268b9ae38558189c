package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrForbidden indicates the caller lacks the required role for the action.
var ErrForbidden = errors.New("action not permitted")

// ErrUnauthorized indicates missing or invalid credentials.
var ErrUnauthorized = errors.New("unauthorized")

// ErrConflict indicates the request conflicts with the current state of a resource.
var ErrConflict = errors.New("resource state conflict")

// ErrInternal indicates an unexpected internal failure, distinct from the typed business errors.
var ErrInternal = errors.New("internal error")

// Business error taxonomy for the order-to-cash and ledger core.
var (
	// ErrInvalidState indicates a state-machine transition not permitted from the current status.
	ErrInvalidState = errors.New("transition not permitted from current status")

	// ErrTenantMismatch indicates the entity belongs to a different tenant than the caller.
	ErrTenantMismatch = errors.New("entity belongs to a different tenant")

	// ErrInvalidAmount indicates a ledger amount that is not strictly positive.
	ErrInvalidAmount = errors.New("amount must be strictly positive")

	// ErrInvalidDirection indicates a ledger direction outside of IN/OUT.
	ErrInvalidDirection = errors.New("direction must be IN or OUT")

	// ErrMissingCashAccount indicates a cash payment without a target cash account.
	ErrMissingCashAccount = errors.New("cash payment requires a cash account")

	// ErrProductNotFound indicates an order line references a product that no longer exists.
	ErrProductNotFound = errors.New("product not found")

	// ErrInsufficientStock indicates an adjustment that would drive stock below zero.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrOverPayment indicates a payment exceeding the remaining balance.
	ErrOverPayment = errors.New("payment exceeds remaining amount")
)

// AppError wraps an infrastructure failure with an HTTP-ish code and context message.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates an AppError wrapping the given cause.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewNotFoundError creates an AppError that unwraps to ErrNotFound.
func NewNotFoundError(message string) *AppError {
	return &AppError{Code: 404, Message: message, Err: ErrNotFound}
}
