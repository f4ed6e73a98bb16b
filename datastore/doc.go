/*
Package datastore defines the persistence contract of the nftstore registry.

A DataStore runs closures inside transactions. The registry performs every
mint in one Update so that the primary, metadata and owner indexes change
together or not at all:

	err := store.Update(ctx, func(txn datastore.Txn) error {
	    if existing, err := txn.GetToken(id); err != nil || existing != nil {
	        return ...
	    }
	    ...
	    return txn.AddOwnerToken(entry, id)
	})

Implementations:
  - memory: in-process maps with failure injection for tests
  - badgerdb: embedded badger/v3
  - ldb: embedded goleveldb
  - ddb: DynamoDB single-table design with TransactWriteItems

The key/value backends share the key scheme in keys.go, the msgpack codec in
codec.go and the Txn adapter in kv.go. Backends register a driver name in init
so a process can pick one from configuration:

	ds, err := datastore.Open(ctx, cfg.Backend)
*/
package datastore
