/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package memory_test

import (
	"context"
	"testing"

	"github.com/suparena/nftstore/config"
	"github.com/suparena/nftstore/datastore"
	"github.com/suparena/nftstore/datastore/datastoretest"
	"github.com/suparena/nftstore/datastore/memory"
	"github.com/suparena/nftstore/errors"
	"github.com/suparena/nftstore/storagemodels"
)

func TestConformance(t *testing.T) {
	datastoretest.Run(t, func(t *testing.T) datastore.DataStore {
		return memory.New()
	})
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()

	putToken := func(txn datastore.Txn) error {
		return txn.PutToken(&storagemodels.Token{TokenID: "tok-1", OwnerID: "alice"})
	}

	t.Run("Driver", func(t *testing.T) {
		ds, err := datastore.Open(ctx, config.Backend{Driver: memory.DriverName})
		if err != nil {
			t.Fatalf("Open failed: %v", err)
		}
		if _, ok := ds.(*memory.Store); !ok {
			t.Fatalf("Expected *memory.Store, got %T", ds)
		}
	})

	t.Run("ErrorSimulation", func(t *testing.T) {
		store := memory.New()

		commitErr := errors.NewConditionFailedError("commit", "simulated")
		store.WithCommitError(commitErr)
		if err := store.Update(ctx, putToken); err != commitErr {
			t.Fatalf("Expected commit error, got: %v", err)
		}
		if store.Count() != 0 || store.Commits() != 0 {
			t.Fatalf("Failed commit must not write, have %d keys", store.Count())
		}

		updateErr := errors.NewValidationError("update", "simulated")
		store.WithUpdateError(updateErr)
		called := false
		err := store.Update(ctx, func(txn datastore.Txn) error {
			called = true
			return nil
		})
		if err != updateErr || called {
			t.Fatalf("Expected update error before the closure, got: %v (called=%v)", err, called)
		}

		viewErr := errors.NewValidationError("view", "simulated")
		store.WithViewError(viewErr)
		if err := store.View(ctx, func(datastore.Txn) error { return nil }); err != viewErr {
			t.Fatalf("Expected view error, got: %v", err)
		}

		store.Clear()
		if err := store.Update(ctx, putToken); err != nil {
			t.Fatalf("Update after Clear failed: %v", err)
		}
		if store.Commits() != 1 {
			t.Fatalf("Expected one commit, got %d", store.Commits())
		}
	})

	t.Run("RawAccess", func(t *testing.T) {
		store := memory.New()
		if err := store.Update(ctx, putToken); err != nil {
			t.Fatalf("Update failed: %v", err)
		}

		snap := store.Snapshot()
		if _, ok := snap[string(datastore.TokenKey("tok-1"))]; !ok {
			t.Fatalf("Snapshot misses token key: %v", snap)
		}

		store.DeleteRaw(datastore.TokenKey("tok-1"))
		err := store.View(ctx, func(txn datastore.Txn) error {
			token, err := txn.GetToken("tok-1")
			if err != nil || token != nil {
				t.Fatalf("Expected absent token, got %v, %v", token, err)
			}
			return nil
		})
		if err != nil {
			t.Fatalf("View failed: %v", err)
		}
	})

	t.Run("Closed", func(t *testing.T) {
		store := memory.New()
		_ = store.Close()
		if err := store.Update(ctx, putToken); err != memory.ErrClosed {
			t.Fatalf("Expected ErrClosed, got %v", err)
		}
	})
}
