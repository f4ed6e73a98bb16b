/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package storagemodels

import (
	"testing"

	"github.com/suparena/nftstore/errors"
)

func TestTokenClone(t *testing.T) {
	title := "Sunrise"
	token := &Token{TokenID: "tok-1", OwnerID: "alice", Metadata: TokenMetadata{Title: &title}}

	clone := token.Clone()
	*clone.Metadata.Title = "Sunset"

	if *token.Metadata.Title != "Sunrise" {
		t.Fatalf("clone shares metadata with the original: %q", *token.Metadata.Title)
	}
	if clone.Metadata.Description != nil || clone.Metadata.Media != nil {
		t.Fatalf("absent fields must stay nil, got %+v", clone.Metadata)
	}

	var nilToken *Token
	if nilToken.Clone() != nil {
		t.Fatal("Clone of nil token should be nil")
	}
}

func TestNewOwnerEntry(t *testing.T) {
	entry := NewOwnerEntry("alice")
	if entry.OwnerID != "alice" || entry.Prefix != "alice" {
		t.Fatalf("unexpected entry %+v", entry)
	}
}

func TestContractMetadataValidate(t *testing.T) {
	tests := []struct {
		name  string
		md    ContractMetadata
		field string
	}{
		{name: "defaults", md: DefaultContractMetadata()},
		{name: "missing spec", md: ContractMetadata{Name: "n", Symbol: "s"}, field: "spec"},
		{name: "missing name", md: ContractMetadata{Spec: "s", Symbol: "s"}, field: "name"},
		{name: "missing symbol", md: ContractMetadata{Spec: "s", Name: "n"}, field: "symbol"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.md.Validate()
			if tt.field == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.IsValidationError(err) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if ve, ok := err.(*errors.ValidationError); !ok || ve.Field != tt.field {
				t.Fatalf("expected field %q, got %v", tt.field, err)
			}
		})
	}
}

func TestDefaultQueryOptions(t *testing.T) {
	opts := DefaultQueryOptions()
	for _, o := range []QueryOption{WithPageSize(10), WithMaxRetries(5)} {
		o(&opts)
	}
	if opts.PageSize != 10 || opts.MaxRetries != 5 || opts.RetryBackoff == 0 {
		t.Fatalf("unexpected options %+v", opts)
	}
}
