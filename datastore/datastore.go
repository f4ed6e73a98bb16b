/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package datastore

import (
	"context"
	"errors"

	"github.com/suparena/nftstore/storagemodels"
)

// ErrReadOnly is returned by write methods of a transaction opened with View.
var ErrReadOnly = errors.New("datastore: write in read-only transaction")

// DataStore is a transactional backend holding the four registry partitions.
type DataStore interface {
	// View runs fn in a read-only transaction.
	View(ctx context.Context, fn func(Txn) error) error

	// Update runs fn in a read-write transaction. Writes are committed only
	// if fn returns nil, and then either all of them are or none are.
	Update(ctx context.Context, fn func(Txn) error) error

	Close() error
}

// Txn gives access to the partitions inside one transaction. Getters return
// (nil, nil) when the key is absent. Writes are visible to later reads in the
// same transaction.
type Txn interface {
	GetToken(id string) (*storagemodels.Token, error)
	PutToken(token *storagemodels.Token) error

	GetTokenMetadata(id string) (*storagemodels.TokenMetadata, error)
	PutTokenMetadata(id string, md *storagemodels.TokenMetadata) error

	GetOwnerEntry(owner string) (*storagemodels.OwnerEntry, error)
	PutOwnerEntry(entry *storagemodels.OwnerEntry) error

	// ListOwnerTokens returns the ids in the set scoped by entry.Prefix.
	ListOwnerTokens(entry *storagemodels.OwnerEntry) ([]string, error)
	// AddOwnerToken adds id to the set. Adding an existing member is a no-op.
	AddOwnerToken(entry *storagemodels.OwnerEntry, id string) error

	GetContract() (*storagemodels.Contract, error)
	PutContract(contract *storagemodels.Contract) error
}
