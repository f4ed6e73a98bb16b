/*
Package storagemodels defines the records persisted by the nftstore registry.

Partitions:

	tokens_per_owner      owner id -> OwnerEntry + set of token ids
	token_by_id           token id -> Token
	token_metadata_by_id  token id -> TokenMetadata
	metadata              singleton -> Contract

Token:
The primary record, created at mint and never changed:

	token := &Token{
	    TokenID:  "tok-1",
	    OwnerID:  "alice",
	    Metadata: TokenMetadata{Title: &title},
	}

OwnerEntry:
Handle of an owner's token set. Prefix scopes the set members in storage:

	entry := NewOwnerEntry("alice") // Prefix == "alice"

QueryOptions:
Paging and retry configuration for remote backends:

	opts := []QueryOption{
	    WithPageSize(25),
	    WithMaxRetries(3),
	    WithRetryBackoff(200 * time.Millisecond),
	}

Values carry json and msgpack tags. The DynamoDB backend marshals them with
their Go field names.
*/
package storagemodels
