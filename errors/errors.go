/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package errors

import (
	"errors"
	"fmt"
)

// Common sentinel errors
var (
	// ErrNotFound is returned when a token, its metadata or an owner has no record
	ErrNotFound = errors.New("record not found")

	// ErrAlreadyExists is returned when attempting to create a record that already exists
	ErrAlreadyExists = errors.New("record already exists")

	// ErrDuplicateMint is returned when minting a token id that has already been minted
	ErrDuplicateMint = errors.New("token already minted")

	// ErrDepositInsufficient is returned when the deposit attached to a mint is rejected
	ErrDepositInsufficient = errors.New("deposit insufficient")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")

	// ErrConditionFailed is returned when a conditional write fails
	ErrConditionFailed = errors.New("condition check failed")

	// ErrInconsistentIndex is returned when the owner index and the primary index disagree
	ErrInconsistentIndex = errors.New("inconsistent index")

	// ErrNoIndexMap is returned when no index map is found for a type
	ErrNoIndexMap = errors.New("no index map found for type")
)

// NotFoundError represents an error when a record is not found
type NotFoundError struct {
	Type string
	Key  string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with key %q not found", e.Type, e.Key)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// AlreadyExistsError represents an error when a record already exists
type AlreadyExistsError struct {
	Type string
	Key  string
}

func (e *AlreadyExistsError) Error() string {
	return fmt.Sprintf("%s with key %q already exists", e.Type, e.Key)
}

func (e *AlreadyExistsError) Is(target error) bool {
	return target == ErrAlreadyExists
}

// DuplicateMintError is returned when a token id is minted twice.
// OwnerID is the current owner when the backend knows it.
type DuplicateMintError struct {
	TokenID string
	OwnerID string
}

func (e *DuplicateMintError) Error() string {
	if e.OwnerID != "" {
		return fmt.Sprintf("token %q already minted by %q", e.TokenID, e.OwnerID)
	}
	return fmt.Sprintf("token %q already minted", e.TokenID)
}

func (e *DuplicateMintError) Is(target error) bool {
	return target == ErrDuplicateMint || target == ErrAlreadyExists
}

// DepositError represents a rejected mint deposit
type DepositError struct {
	Required string
	Attached string
}

func (e *DepositError) Error() string {
	return fmt.Sprintf("deposit insufficient: attached %s, required %s", e.Attached, e.Required)
}

func (e *DepositError) Is(target error) bool {
	return target == ErrDepositInsufficient
}

// ValidationError represents an input validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %q: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// ConditionFailedError represents a failed conditional operation
type ConditionFailedError struct {
	Operation string
	Condition string
}

func (e *ConditionFailedError) Error() string {
	return fmt.Sprintf("condition check failed for %s operation: %s", e.Operation, e.Condition)
}

func (e *ConditionFailedError) Is(target error) bool {
	return target == ErrConditionFailed
}

// InconsistencyError reports an owner index entry that has no matching primary record
type InconsistencyError struct {
	OwnerID string
	TokenID string
	Reason  string
}

func (e *InconsistencyError) Error() string {
	return fmt.Sprintf("owner %q lists token %q: %s", e.OwnerID, e.TokenID, e.Reason)
}

func (e *InconsistencyError) Is(target error) bool {
	return target == ErrInconsistentIndex
}

// Helper functions for creating errors

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(recordType, key string) error {
	return &NotFoundError{Type: recordType, Key: key}
}

// NewAlreadyExistsError creates a new AlreadyExistsError
func NewAlreadyExistsError(recordType, key string) error {
	return &AlreadyExistsError{Type: recordType, Key: key}
}

// NewDuplicateMintError creates a new DuplicateMintError
func NewDuplicateMintError(tokenID, ownerID string) error {
	return &DuplicateMintError{TokenID: tokenID, OwnerID: ownerID}
}

// NewDepositError creates a new DepositError
func NewDepositError(required, attached string) error {
	return &DepositError{Required: required, Attached: attached}
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// NewConditionFailedError creates a new ConditionFailedError
func NewConditionFailedError(operation, condition string) error {
	return &ConditionFailedError{Operation: operation, Condition: condition}
}

// NewInconsistencyError creates a new InconsistencyError
func NewInconsistencyError(ownerID, tokenID, reason string) error {
	return &InconsistencyError{OwnerID: ownerID, TokenID: tokenID, Reason: reason}
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAlreadyExists checks if an error is an already exists error
func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

// IsDuplicateMint checks if an error is a duplicate mint error
func IsDuplicateMint(err error) bool {
	return errors.Is(err, ErrDuplicateMint)
}

// IsDepositInsufficient checks if an error is a rejected deposit
func IsDepositInsufficient(err error) bool {
	return errors.Is(err, ErrDepositInsufficient)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsConditionFailed checks if an error is a condition failed error
func IsConditionFailed(err error) bool {
	return errors.Is(err, ErrConditionFailed)
}

// IsInconsistentIndex checks if an error reports diverging indexes
func IsInconsistentIndex(err error) bool {
	return errors.Is(err, ErrInconsistentIndex)
}

// IsNoIndexMap checks if an error reports a type without an index map
func IsNoIndexMap(err error) bool {
	return errors.Is(err, ErrNoIndexMap)
}
