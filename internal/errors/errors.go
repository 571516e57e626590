package errors

import (
	"errors"
	"fmt"
)

type ValidationDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ValidationError struct {
	Message string
	Details []ValidationDetail
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(message string, details ...ValidationDetail) *ValidationError {
	return &ValidationError{
		Message: message,
		Details: details,
	}
}

func IsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string {
	return e.Message
}

func NewNotFoundError(message string) *NotFoundError {
	return &NotFoundError{Message: message}
}

func IsNotFoundError(err error) (*NotFoundError, bool) {
	var nfe *NotFoundError
	if errors.As(err, &nfe) {
		return nfe, true
	}
	return nil, false
}

// QuotaExceededError is returned when a tenant has used up a subscription limit.
type QuotaExceededError struct {
	LimitType string
	Limit     int
	Usage     int
}

func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("quota exceeded for %s: usage %d of %d", e.LimitType, e.Usage, e.Limit)
}

func NewQuotaExceededError(limitType string, limit, usage int) *QuotaExceededError {
	return &QuotaExceededError{LimitType: limitType, Limit: limit, Usage: usage}
}

func IsQuotaExceededError(err error) (*QuotaExceededError, bool) {
	var qe *QuotaExceededError
	if errors.As(err, &qe) {
		return qe, true
	}
	return nil, false
}

type UnauthorizedError struct {
	Message string
}

func (e *UnauthorizedError) Error() string {
	return e.Message
}

func NewUnauthorizedError(message string) *UnauthorizedError {
	return &UnauthorizedError{Message: message}
}

func IsUnauthorizedError(err error) (*UnauthorizedError, bool) {
	var ue *UnauthorizedError
	if errors.As(err, &ue) {
		return ue, true
	}
	return nil, false
}

// OrderStatusError is returned when an order's status forbids the requested mutation.
type OrderStatusError struct {
	Status  string
	Message string
}

func (e *OrderStatusError) Error() string {
	return e.Message
}

func NewOrderStatusError(status, message string) *OrderStatusError {
	return &OrderStatusError{Status: status, Message: message}
}

func IsOrderStatusError(err error) (*OrderStatusError, bool) {
	var ose *OrderStatusError
	if errors.As(err, &ose) {
		return ose, true
	}
	return nil, false
}

// ProviderFailureError wraps a failed or timed out messaging provider call.
type ProviderFailureError struct {
	Provider string
	Cause    error
}

func (e *ProviderFailureError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("provider %s failed: %v", e.Provider, e.Cause)
	}
	return fmt.Sprintf("provider %s failed", e.Provider)
}

func (e *ProviderFailureError) Unwrap() error {
	return e.Cause
}

func NewProviderFailureError(provider string, cause error) *ProviderFailureError {
	return &ProviderFailureError{Provider: provider, Cause: cause}
}

func IsProviderFailureError(err error) (*ProviderFailureError, bool) {
	var pfe *ProviderFailureError
	if errors.As(err, &pfe) {
		return pfe, true
	}
	return nil, false
}

type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

func NewConflictError(message string) *ConflictError {
	return &ConflictError{Message: message}
}

func IsConflictError(err error) (*ConflictError, bool) {
	var ce *ConflictError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}

type DeadlockError struct {
	Message string
}

func (e *DeadlockError) Error() string {
	return e.Message
}

func NewDeadlockError(message string) *DeadlockError {
	return &DeadlockError{Message: message}
}

func IsDeadlockError(err error) (*DeadlockError, bool) {
	var de *DeadlockError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

type InternalError struct {
	Message string
	Cause   error
}

func (e *InternalError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *InternalError) Unwrap() error {
	return e.Cause
}

func NewInternalError(message string, cause error) *InternalError {
	return &InternalError{
		Message: message,
		Cause:   cause,
	}
}
