/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package storagemodels

import (
	"github.com/go-openapi/strfmt"

	"github.com/suparena/nftstore/errors"
)

// Storage partition names. They double as key prefixes in every backend.
const (
	PartitionTokensPerOwner    = "tokens_per_owner"
	PartitionTokenByID         = "token_by_id"
	PartitionTokenMetadataByID = "token_metadata_by_id"
	PartitionMetadata          = "metadata"
)

// MaxIDLength bounds token and account identifiers in bytes. The longest key
// prefix, token_metadata_by_id#, plus the id must fit a 1024 byte DynamoDB sort key.
const MaxIDLength = 1000

// Default contract metadata.
const (
	DefaultSpec   = "nft-1.0.0"
	DefaultName   = "Blockchain Bootcamp Contract"
	DefaultSymbol = "BBC"
)

// TokenMetadata holds the descriptive fields of a token. A nil field is absent,
// which is not the same as an empty string.
type TokenMetadata struct {
	Title       *string `json:"title" msgpack:"title"`
	Description *string `json:"description" msgpack:"description"`
	Media       *string `json:"media" msgpack:"media"`
}

// Clone returns a deep copy of m.
func (m *TokenMetadata) Clone() *TokenMetadata {
	if m == nil {
		return nil
	}
	return &TokenMetadata{
		Title:       cloneString(m.Title),
		Description: cloneString(m.Description),
		Media:       cloneString(m.Media),
	}
}

// Token is the record stored in the primary index. It is never mutated after mint.
type Token struct {
	TokenID  string        `json:"token_id" msgpack:"token_id"`
	OwnerID  string        `json:"owner_id" msgpack:"owner_id"`
	Metadata TokenMetadata `json:"metadata" msgpack:"metadata"`
}

// Clone returns a deep copy of t.
func (t *Token) Clone() *Token {
	if t == nil {
		return nil
	}
	return &Token{
		TokenID:  t.TokenID,
		OwnerID:  t.OwnerID,
		Metadata: *t.Metadata.Clone(),
	}
}

// OwnerEntry is the owner index handle. Prefix scopes the owner's set members.
type OwnerEntry struct {
	OwnerID string `json:"owner_id" msgpack:"owner_id"`
	Prefix  string `json:"prefix" msgpack:"prefix"`
}

// NewOwnerEntry creates the entry for owner, prefixed by the owner id itself.
func NewOwnerEntry(owner string) *OwnerEntry {
	return &OwnerEntry{OwnerID: owner, Prefix: owner}
}

// ContractMetadata describes the collection as a whole.
type ContractMetadata struct {
	Spec          string        `json:"spec" yaml:"spec" msgpack:"spec"`
	Name          string        `json:"name" yaml:"name" msgpack:"name"`
	Symbol        string        `json:"symbol" yaml:"symbol" msgpack:"symbol"`
	Icon          *string       `json:"icon" yaml:"icon" msgpack:"icon"`
	BaseURI       *string       `json:"base_uri" yaml:"base_uri" msgpack:"base_uri"`
	Reference     *string       `json:"reference" yaml:"reference" msgpack:"reference"`
	ReferenceHash strfmt.Base64 `json:"reference_hash" yaml:"reference_hash" msgpack:"reference_hash"`
}

// DefaultContractMetadata returns the metadata a registry is initialized with
// when none is given.
func DefaultContractMetadata() ContractMetadata {
	return ContractMetadata{
		Spec:   DefaultSpec,
		Name:   DefaultName,
		Symbol: DefaultSymbol,
	}
}

// Validate checks the required fields.
func (m *ContractMetadata) Validate() error {
	switch {
	case m.Spec == "":
		return errors.NewValidationError("spec", "must not be empty")
	case m.Name == "":
		return errors.NewValidationError("name", "must not be empty")
	case m.Symbol == "":
		return errors.NewValidationError("symbol", "must not be empty")
	}
	return nil
}

// Contract is the singleton record of the metadata partition.
type Contract struct {
	OwnerID  string           `json:"owner_id" msgpack:"owner_id"`
	Metadata ContractMetadata `json:"metadata" msgpack:"metadata"`
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
