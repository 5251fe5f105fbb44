package model

import (
	"errors"
	"fmt"
)

// ErrUnsavedComparison is returned when comparing entities where either side
// has not been assigned an id yet.
var ErrUnsavedComparison = errors.New("can't compare entities without an id")

// InvalidCommodityError is returned when a commodity fails validation
type InvalidCommodityError struct {
	Code   string
	Reason string
}

func (e *InvalidCommodityError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("invalid commodity: %s", e.Reason)
	}
	return fmt.Sprintf("invalid commodity %q: %s", e.Code, e.Reason)
}

func (e *InvalidCommodityError) GetCode() string {
	return e.Code
}

// InvalidAccountError is returned when an account has a bad type or name
type InvalidAccountError struct {
	Name   string
	Reason string
}

func (e *InvalidAccountError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("invalid account: %s", e.Reason)
	}
	return fmt.Sprintf("invalid account %q: %s", e.Name, e.Reason)
}

func (e *InvalidAccountError) GetName() string {
	return e.Name
}

// InvalidPayeeError is returned when a payee fails validation
type InvalidPayeeError struct {
	Reason string
}

func (e *InvalidPayeeError) Error() string {
	return fmt.Sprintf("invalid payee: %s", e.Reason)
}

// InvalidAmountError is returned when a raw value can't be converted to an
// exact amount or quantity.
type InvalidAmountError struct {
	Value  any
	Reason string
}

func (e *InvalidAmountError) Error() string {
	switch e.Reason {
	case reasonInvalidType:
		return fmt.Sprintf("%s: %T %v", e.Reason, e.Value, e.Value)
	case reasonInvalidValue:
		return fmt.Sprintf("%s %q", e.Reason, fmt.Sprint(e.Value))
	default:
		return fmt.Sprintf("%s: %v", e.Reason, e.Value)
	}
}

func (e *InvalidAmountError) GetValue() any {
	return e.Value
}

// InvalidTransactionError is returned for split balance, precision, status
// and date violations.
type InvalidTransactionError struct {
	Reason string
	Err    error
}

func (e *InvalidTransactionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Reason, e.Err)
	}
	return e.Reason
}

func (e *InvalidTransactionError) Unwrap() error {
	return e.Err
}

// InvalidScheduledTransactionError is returned for a bad frequency, name or
// due date.
type InvalidScheduledTransactionError struct {
	Name   string
	Reason string
}

func (e *InvalidScheduledTransactionError) Error() string {
	if e.Name == "" {
		return e.Reason
	}
	return fmt.Sprintf("scheduled transaction %q: %s", e.Name, e.Reason)
}

func (e *InvalidScheduledTransactionError) GetName() string {
	return e.Name
}

// BudgetError is returned for missing or inverted budget dates, bad budget
// values and report requests without actual figures.
type BudgetError struct {
	Reason string
	Err    error
}

func (e *BudgetError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Reason, e.Err)
	}
	return e.Reason
}

func (e *BudgetError) Unwrap() error {
	return e.Err
}

// ValidationErrors wraps multiple validation errors
type ValidationErrors struct {
	Errors []error
}

func (e *ValidationErrors) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	return fmt.Sprintf("%d validation errors occurred", len(e.Errors))
}

// Unwrap returns the underlying errors for error unwrapping
func (e *ValidationErrors) Unwrap() []error {
	return e.Errors
}

// collect returns nil for no errors, the error itself for one, and a
// ValidationErrors otherwise.
func collect(errs []error) error {
	switch len(errs) {
	case 0:
		return nil
	case 1:
		return errs[0]
	default:
		return &ValidationErrors{Errors: errs}
	}
}
