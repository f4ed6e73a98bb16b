/*
Package nftstore is a minimal non-fungible token registry.

A registry keeps three indexes over one transactional backend:

  - tokens_per_owner: owner account -> set of token ids
  - token_by_id: token id -> Token{TokenID, OwnerID, Metadata}
  - token_metadata_by_id: token id -> TokenMetadata

plus a metadata singleton describing the contract. Minting writes all three
indexes in one transaction, so a reader never sees a token listed under an
owner that is missing from the primary index.

Backends register themselves with the datastore package; import the ones you
need for their side effects:

	import (
	    _ "github.com/suparena/nftstore/datastore/badgerdb"
	    _ "github.com/suparena/nftstore/datastore/ldb"
	)

Basic Usage:

	store, _ := badgerdb.Open(ctx, "nftstore-data")
	defer store.Close()

	reg, err := nftstore.New(ctx, store, nftstore.WithContractOwner("alice"))
	if err != nil {
	    return err
	}

	title := "First"
	token, err := reg.Mint(ctx, "alice", nftstore.MintRequest{
	    TokenID: "tok-1",
	    Title:   &title,
	})

	tokens, err := reg.GetTokensPerOwner(ctx, "alice")

Lookups of keys that were never written return errors.NotFoundError. Minting
an id twice returns errors.DuplicateMintError and writes nothing.
*/
package nftstore
