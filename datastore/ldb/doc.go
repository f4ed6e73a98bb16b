/*
Package ldb provides a DataStore on the embedded goleveldb database.

All four partitions live in one database, separated by key prefix. An Update
buffers its writes, lets the closure read them back, and commits them as a
single leveldb.Batch so the indexes change together. Reads run on a snapshot.

	store, err := ldb.Open("/var/lib/nftstore")
*/
package ldb
