/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestNotFoundError(t *testing.T) {
	err := NewNotFoundError("Token", "tok-1")

	expected := `Token with key "tok-1" not found`
	if err.Error() != expected {
		t.Errorf("Expected error message %q, got %q", expected, err.Error())
	}

	if !errors.Is(err, ErrNotFound) {
		t.Error("NotFoundError should match ErrNotFound")
	}

	if !IsNotFound(err) {
		t.Error("IsNotFound should return true for NotFoundError")
	}
}

func TestAlreadyExistsError(t *testing.T) {
	err := NewAlreadyExistsError("Owner", "alice")

	expected := `Owner with key "alice" already exists`
	if err.Error() != expected {
		t.Errorf("Expected error message %q, got %q", expected, err.Error())
	}

	if !IsAlreadyExists(err) {
		t.Error("IsAlreadyExists should return true for AlreadyExistsError")
	}
	if IsDuplicateMint(err) {
		t.Error("a generic AlreadyExistsError is not a duplicate mint")
	}
}

func TestDuplicateMintError(t *testing.T) {
	tests := []struct {
		name     string
		owner    string
		expected string
	}{
		{
			name:     "with owner",
			owner:    "alice",
			expected: `token "tok-1" already minted by "alice"`,
		},
		{
			name:     "without owner",
			owner:    "",
			expected: `token "tok-1" already minted`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewDuplicateMintError("tok-1", tt.owner)

			if err.Error() != tt.expected {
				t.Errorf("Expected error message %q, got %q", tt.expected, err.Error())
			}
			if !IsDuplicateMint(err) {
				t.Error("IsDuplicateMint should return true for DuplicateMintError")
			}
			if !IsAlreadyExists(err) {
				t.Error("DuplicateMintError should also match ErrAlreadyExists")
			}
		})
	}
}

func TestDepositError(t *testing.T) {
	err := NewDepositError("0.001", "0")

	expected := "deposit insufficient: attached 0, required 0.001"
	if err.Error() != expected {
		t.Errorf("Expected error message %q, got %q", expected, err.Error())
	}
	if !IsDepositInsufficient(err) {
		t.Error("IsDepositInsufficient should return true for DepositError")
	}
}

func TestValidationError(t *testing.T) {
	tests := []struct {
		name     string
		field    string
		message  string
		expected string
	}{
		{
			name:     "with field",
			field:    "token_id",
			message:  "must not be empty",
			expected: `validation failed for field "token_id": must not be empty`,
		},
		{
			name:     "without field",
			field:    "",
			message:  "missing required fields",
			expected: "validation failed: missing required fields",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewValidationError(tt.field, tt.message)

			if err.Error() != tt.expected {
				t.Errorf("Expected error message %q, got %q", tt.expected, err.Error())
			}

			if !errors.Is(err, ErrInvalidInput) {
				t.Error("ValidationError should match ErrInvalidInput")
			}

			if !IsValidationError(err) {
				t.Error("IsValidationError should return true for ValidationError")
			}
		})
	}
}

func TestConditionFailedError(t *testing.T) {
	err := NewConditionFailedError("mint", "attribute_not_exists(PK)")

	expected := "condition check failed for mint operation: attribute_not_exists(PK)"
	if err.Error() != expected {
		t.Errorf("Expected error message %q, got %q", expected, err.Error())
	}

	if !IsConditionFailed(err) {
		t.Error("IsConditionFailed should return true for ConditionFailedError")
	}
}

func TestInconsistencyError(t *testing.T) {
	err := NewInconsistencyError("alice", "tok-1", "missing from token_by_id")

	expected := `owner "alice" lists token "tok-1": missing from token_by_id`
	if err.Error() != expected {
		t.Errorf("Expected error message %q, got %q", expected, err.Error())
	}
	if !IsInconsistentIndex(err) {
		t.Error("IsInconsistentIndex should return true for InconsistencyError")
	}
}

func TestErrorWrapping(t *testing.T) {
	original := NewNotFoundError("Token", "tok-1")
	wrapped := fmt.Errorf("registry lookup failed: %w", original)

	if !IsNotFound(wrapped) {
		t.Error("IsNotFound should work with wrapped errors")
	}

	var nf *NotFoundError
	if !errors.As(wrapped, &nf) || nf.Key != "tok-1" {
		t.Errorf("errors.As should recover the NotFoundError, got %v", nf)
	}
}

func TestSentinelErrors(t *testing.T) {
	sentinels := []error{
		ErrNotFound,
		ErrAlreadyExists,
		ErrDuplicateMint,
		ErrDepositInsufficient,
		ErrInvalidInput,
		ErrConditionFailed,
		ErrInconsistentIndex,
		ErrNoIndexMap,
	}

	for i, err1 := range sentinels {
		for j, err2 := range sentinels {
			if i != j && errors.Is(err1, err2) {
				t.Errorf("Sentinel errors should be distinct: %v matches %v", err1, err2)
			}
		}
	}
}
