/*
Package badgerdb provides a DataStore on the embedded badger/v3 database.

Each registry transaction maps onto one badger transaction. Badger runs
transactions with serializable snapshot isolation, so two mints racing on the
same owner entry cannot both commit: the loser gets badger.ErrConflict and
Update runs its closure again on a fresh snapshot.

	store, err := badgerdb.Open(ctx, "/var/lib/nftstore")
	if err != nil {
	    return err
	}
	defer store.Close()

Values use the shared msgpack codec and key scheme of the datastore package.
A background goroutine runs value log garbage collection every five minutes
once the LSM or value log grows past a threshold.
*/
package badgerdb
