/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package datastore

import (
	"encoding/binary"

	"github.com/suparena/nftstore/storagemodels"
)

// Key scheme shared by the embedded key/value backends:
//
//	token_by_id:<id>
//	token_metadata_by_id:<id>
//	tokens_per_owner:<owner>                         owner entry
//	tokens_per_owner#<uint16 len(prefix)><prefix><id> set member
//	metadata
//
// The length in a member key keeps the set of owner "a" apart from owner "ab".

const (
	keySep       = ":"
	memberMarker = "#"
)

// TokenKey is the key of a token in the primary index.
func TokenKey(id string) []byte {
	return []byte(storagemodels.PartitionTokenByID + keySep + id)
}

// TokenMetadataKey is the key of a token's metadata.
func TokenMetadataKey(id string) []byte {
	return []byte(storagemodels.PartitionTokenMetadataByID + keySep + id)
}

// OwnerEntryKey is the key of an owner's entry.
func OwnerEntryKey(owner string) []byte {
	return []byte(storagemodels.PartitionTokensPerOwner + keySep + owner)
}

// OwnerTokenPrefix is the common prefix of all member keys of a set.
func OwnerTokenPrefix(prefix string) []byte {
	key := make([]byte, 0, len(storagemodels.PartitionTokensPerOwner)+len(memberMarker)+2+len(prefix))
	key = append(key, storagemodels.PartitionTokensPerOwner...)
	key = append(key, memberMarker...)
	key = binary.BigEndian.AppendUint16(key, uint16(len(prefix)))
	return append(key, prefix...)
}

// OwnerTokenKey is the key of one set member.
func OwnerTokenKey(prefix, id string) []byte {
	return append(OwnerTokenPrefix(prefix), id...)
}

// ContractKey is the key of the contract singleton.
func ContractKey() []byte {
	return []byte(storagemodels.PartitionMetadata)
}
