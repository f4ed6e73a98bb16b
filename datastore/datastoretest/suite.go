/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package datastoretest holds the behaviour every DataStore backend must share
package datastoretest

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"testing"

	"github.com/go-openapi/strfmt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suparena/nftstore/datastore"
	"github.com/suparena/nftstore/storagemodels"
)

// Opener returns a fresh, empty store. The suite closes it.
type Opener func(t *testing.T) datastore.DataStore

func strPtr(s string) *string { return &s }

// Run executes the conformance suite against stores returned by open.
func Run(t *testing.T, open Opener) {
	tests := []struct {
		name string
		fn   func(t *testing.T, ds datastore.DataStore)
	}{
		{"AbsentKeys", testAbsentKeys},
		{"RoundTrip", testRoundTrip},
		{"ReadYourWrites", testReadYourWrites},
		{"RollbackOnError", testRollbackOnError},
		{"OwnerSets", testOwnerSets},
		{"ReadOnlyView", testReadOnlyView},
		{"CanceledContext", testCanceledContext},
		{"ConcurrentUpdates", testConcurrentUpdates},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds := open(t)
			defer ds.Close()
			tt.fn(t, ds)
		})
	}
}

func testAbsentKeys(t *testing.T, ds datastore.DataStore) {
	err := ds.View(context.Background(), func(txn datastore.Txn) error {
		token, err := txn.GetToken("missing")
		require.NoError(t, err)
		assert.Nil(t, token)

		md, err := txn.GetTokenMetadata("missing")
		require.NoError(t, err)
		assert.Nil(t, md)

		entry, err := txn.GetOwnerEntry("nobody")
		require.NoError(t, err)
		assert.Nil(t, entry)

		contract, err := txn.GetContract()
		require.NoError(t, err)
		assert.Nil(t, contract)
		return nil
	})
	require.NoError(t, err)
}

func testRoundTrip(t *testing.T, ds datastore.DataStore) {
	ctx := context.Background()
	md := storagemodels.TokenMetadata{Title: strPtr("Sunrise"), Description: strPtr("")}
	token := &storagemodels.Token{TokenID: "tok-1", OwnerID: "alice", Metadata: md}
	contract := &storagemodels.Contract{
		OwnerID: "alice",
		Metadata: storagemodels.ContractMetadata{
			Spec:          storagemodels.DefaultSpec,
			Name:          storagemodels.DefaultName,
			Symbol:        storagemodels.DefaultSymbol,
			BaseURI:       strPtr("https://example.com/"),
			ReferenceHash: strfmt.Base64("hash"),
		},
	}

	err := ds.Update(ctx, func(txn datastore.Txn) error {
		if err := txn.PutTokenMetadata("tok-1", &md); err != nil {
			return err
		}
		if err := txn.PutToken(token); err != nil {
			return err
		}
		if err := txn.PutOwnerEntry(storagemodels.NewOwnerEntry("alice")); err != nil {
			return err
		}
		return txn.PutContract(contract)
	})
	require.NoError(t, err)

	err = ds.View(ctx, func(txn datastore.Txn) error {
		gotToken, err := txn.GetToken("tok-1")
		require.NoError(t, err)
		require.NotNil(t, gotToken)
		assert.Equal(t, token, gotToken)

		gotMD, err := txn.GetTokenMetadata("tok-1")
		require.NoError(t, err)
		require.NotNil(t, gotMD)
		assert.Equal(t, md, *gotMD)
		require.NotNil(t, gotMD.Description, "empty description must survive storage")
		assert.Nil(t, gotMD.Media)

		entry, err := txn.GetOwnerEntry("alice")
		require.NoError(t, err)
		assert.Equal(t, storagemodels.NewOwnerEntry("alice"), entry)

		gotContract, err := txn.GetContract()
		require.NoError(t, err)
		require.NotNil(t, gotContract)
		assert.Equal(t, contract.OwnerID, gotContract.OwnerID)
		assert.Equal(t, contract.Metadata.Symbol, gotContract.Metadata.Symbol)
		assert.Equal(t, contract.Metadata.BaseURI, gotContract.Metadata.BaseURI)
		assert.Nil(t, gotContract.Metadata.Icon)
		assert.Equal(t, []byte("hash"), []byte(gotContract.Metadata.ReferenceHash))
		return nil
	})
	require.NoError(t, err)
}

func testReadYourWrites(t *testing.T, ds datastore.DataStore) {
	err := ds.Update(context.Background(), func(txn datastore.Txn) error {
		entry := storagemodels.NewOwnerEntry("bob")
		require.NoError(t, txn.PutOwnerEntry(entry))
		require.NoError(t, txn.PutToken(&storagemodels.Token{TokenID: "tok-9", OwnerID: "bob"}))
		require.NoError(t, txn.AddOwnerToken(entry, "tok-9"))

		got, err := txn.GetOwnerEntry("bob")
		require.NoError(t, err)
		assert.NotNil(t, got)

		token, err := txn.GetToken("tok-9")
		require.NoError(t, err)
		require.NotNil(t, token)
		assert.Equal(t, "bob", token.OwnerID)

		ids, err := txn.ListOwnerTokens(entry)
		require.NoError(t, err)
		assert.Equal(t, []string{"tok-9"}, ids)
		return nil
	})
	require.NoError(t, err)
}

func testRollbackOnError(t *testing.T, ds datastore.DataStore) {
	ctx := context.Background()
	boom := fmt.Errorf("boom")

	err := ds.Update(ctx, func(txn datastore.Txn) error {
		entry := storagemodels.NewOwnerEntry("carol")
		if err := txn.PutOwnerEntry(entry); err != nil {
			return err
		}
		if err := txn.PutToken(&storagemodels.Token{TokenID: "tok-x", OwnerID: "carol"}); err != nil {
			return err
		}
		if err := txn.AddOwnerToken(entry, "tok-x"); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	err = ds.View(ctx, func(txn datastore.Txn) error {
		token, err := txn.GetToken("tok-x")
		require.NoError(t, err)
		assert.Nil(t, token)

		entry, err := txn.GetOwnerEntry("carol")
		require.NoError(t, err)
		assert.Nil(t, entry)

		ids, err := txn.ListOwnerTokens(storagemodels.NewOwnerEntry("carol"))
		require.NoError(t, err)
		assert.Empty(t, ids)
		return nil
	})
	require.NoError(t, err)
}

func testOwnerSets(t *testing.T, ds datastore.DataStore) {
	ctx := context.Background()
	a := storagemodels.NewOwnerEntry("a")
	ab := storagemodels.NewOwnerEntry("ab")
	empty := storagemodels.NewOwnerEntry("empty")

	err := ds.Update(ctx, func(txn datastore.Txn) error {
		for _, e := range []*storagemodels.OwnerEntry{a, ab, empty} {
			if err := txn.PutOwnerEntry(e); err != nil {
				return err
			}
		}
		for _, id := range []string{"b1", "z", "b1", "m"} {
			if err := txn.AddOwnerToken(a, id); err != nil {
				return err
			}
		}
		return txn.AddOwnerToken(ab, "1")
	})
	require.NoError(t, err)

	// A later transaction re-adding a member changes nothing.
	err = ds.Update(ctx, func(txn datastore.Txn) error {
		return txn.AddOwnerToken(a, "z")
	})
	require.NoError(t, err)

	err = ds.View(ctx, func(txn datastore.Txn) error {
		ids, err := txn.ListOwnerTokens(a)
		require.NoError(t, err)
		sort.Strings(ids)
		assert.Equal(t, []string{"b1", "m", "z"}, ids)

		ids, err = txn.ListOwnerTokens(ab)
		require.NoError(t, err)
		assert.Equal(t, []string{"1"}, ids)

		ids, err = txn.ListOwnerTokens(empty)
		require.NoError(t, err)
		assert.NotNil(t, ids)
		assert.Empty(t, ids)
		return nil
	})
	require.NoError(t, err)
}

func testReadOnlyView(t *testing.T, ds datastore.DataStore) {
	err := ds.View(context.Background(), func(txn datastore.Txn) error {
		assert.Error(t, txn.PutToken(&storagemodels.Token{TokenID: "tok-ro", OwnerID: "alice"}))
		assert.Error(t, txn.AddOwnerToken(storagemodels.NewOwnerEntry("alice"), "tok-ro"))
		return nil
	})
	require.NoError(t, err)

	err = ds.View(context.Background(), func(txn datastore.Txn) error {
		token, err := txn.GetToken("tok-ro")
		require.NoError(t, err)
		assert.Nil(t, token)
		return nil
	})
	require.NoError(t, err)
}

func testCanceledContext(t *testing.T, ds datastore.DataStore) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := ds.Update(ctx, func(txn datastore.Txn) error {
		return txn.PutToken(&storagemodels.Token{TokenID: "tok-c", OwnerID: "alice"})
	})
	require.Error(t, err)

	err = ds.View(context.Background(), func(txn datastore.Txn) error {
		token, err := txn.GetToken("tok-c")
		require.NoError(t, err)
		assert.Nil(t, token)
		return nil
	})
	require.NoError(t, err)
}

// testConcurrentUpdates races writers on the same owner entry, the only key
// two mints of different tokens share.
func testConcurrentUpdates(t *testing.T, ds datastore.DataStore) {
	const writers = 8
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("tok-%02d", i)
			errs <- ds.Update(ctx, func(txn datastore.Txn) error {
				entry, err := txn.GetOwnerEntry("dave")
				if err != nil {
					return err
				}
				if entry == nil {
					entry = storagemodels.NewOwnerEntry("dave")
					if err := txn.PutOwnerEntry(entry); err != nil {
						return err
					}
				}
				if err := txn.PutToken(&storagemodels.Token{TokenID: id, OwnerID: "dave"}); err != nil {
					return err
				}
				return txn.AddOwnerToken(entry, id)
			})
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	err := ds.View(ctx, func(txn datastore.Txn) error {
		entry, err := txn.GetOwnerEntry("dave")
		require.NoError(t, err)
		require.NotNil(t, entry)

		ids, err := txn.ListOwnerTokens(entry)
		require.NoError(t, err)
		assert.Len(t, ids, writers)
		return nil
	})
	require.NoError(t, err)
}
