/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package badgerdb

import (
	"context"
	"testing"
	"time"

	golog "github.com/ipfs/go-log"
	"github.com/stretchr/testify/require"

	"github.com/suparena/nftstore/config"
	"github.com/suparena/nftstore/datastore"
	"github.com/suparena/nftstore/datastore/datastoretest"
	"github.com/suparena/nftstore/storagemodels"
)

func init() {
	golog.SetLogLevel("nftstore/badger", "error")
}

func TestConformance(t *testing.T) {
	datastoretest.Run(t, func(t *testing.T) datastore.DataStore {
		store, err := OpenInMemory()
		require.NoError(t, err)
		return store
	})
}

func TestPersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	store, err := Open(ctx, dir)
	require.NoError(t, err)
	err = store.Update(ctx, func(txn datastore.Txn) error {
		return txn.PutToken(&storagemodels.Token{TokenID: "tok-1", OwnerID: "alice"})
	})
	require.NoError(t, err)
	require.NoError(t, store.Close())
	require.NoError(t, store.Close(), "second Close is a no-op")

	ds, err := datastore.Open(ctx, config.Backend{Driver: DriverName, Path: dir})
	require.NoError(t, err)
	defer ds.Close()

	err = ds.View(ctx, func(txn datastore.Txn) error {
		token, err := txn.GetToken("tok-1")
		require.NoError(t, err)
		require.NotNil(t, token)
		require.Equal(t, "alice", token.OwnerID)
		return nil
	})
	require.NoError(t, err)
}

func TestOpenRequiresPath(t *testing.T) {
	_, err := Open(context.Background(), "")
	require.Error(t, err)
}

func TestGCIntervalFromConfig(t *testing.T) {
	ctx := context.Background()

	ds, err := datastore.Open(ctx, config.Backend{Driver: DriverName, Path: t.TempDir(), GCInterval: 10 * time.Millisecond})
	require.NoError(t, err)
	require.Equal(t, 10*time.Millisecond, ds.(*Store).gcInterval)
	time.Sleep(30 * time.Millisecond)
	require.NoError(t, ds.Close())

	ds, err = datastore.Open(ctx, config.Backend{Driver: DriverName, InMemory: true})
	require.NoError(t, err)
	defer ds.Close()
	require.Equal(t, 5*time.Minute, ds.(*Store).gcInterval, "zero keeps the default")
}
