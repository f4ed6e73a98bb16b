/*
Package ddb provides a DynamoDB implementation of the DataStore interface.

The DynamodbDataStore supports:
  - Single-table design with one index map per item type
  - Macro-based key expansion (e.g., "token_by_id#{TokenID}")
  - All-or-nothing commits through TransactWriteItems
  - Paged member queries with retry logic
  - Automatic EntityType injection on every item

Key Layout:

	item         PK                          SK
	token        token_by_id#{TokenID}       token_by_id#{TokenID}
	metadata     token_metadata_by_id#{ID}   token_metadata_by_id#{ID}
	owner entry  tokens_per_owner#{OwnerID}  tokens_per_owner#{OwnerID}
	set member   tokens_per_owner#{Prefix}   member#{TokenID}
	contract     metadata                    metadata

Transactions:
Reads inside Update are consistent GetItems. Writes are staged and sent in one
TransactWriteItems call with a fresh ClientRequestToken. Every record except a
set member is written with attribute_not_exists(PK), so a second mint of the
same token fails with a DuplicateMint error and a lost race on a new owner
entry re-runs the closure:

	store := ddb.New(client, "nft-table",
	    storagemodels.WithPageSize(100),
	    storagemodels.WithMaxRetries(3),
	)
	if err := store.CreateTable(ctx, 2*time.Minute); err != nil {
	    return err
	}

For usage examples, see the integration tests.
*/
package ddb
