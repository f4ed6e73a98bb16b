/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ldb

import (
	"context"
	"errors"
	"fmt"
	"sync"

	golog "github.com/ipfs/go-log"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/iterator"
	ldb_opt "github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/storage"
	"github.com/syndtr/goleveldb/leveldb/util"

	"github.com/suparena/nftstore/config"
	"github.com/suparena/nftstore/datastore"
)

var log = golog.Logger("nftstore/leveldb")

// DriverName is the name the leveldb backend registers under
const DriverName = "leveldb"

// ErrClosed is returned by operations on a closed store
var ErrClosed = errors.New("leveldb: store closed")

func init() {
	if err := datastore.Register(DriverName, func(ctx context.Context, cfg config.Backend) (datastore.DataStore, error) {
		if cfg.InMemory {
			return OpenInMemory()
		}
		return Open(cfg.Path)
	}); err != nil {
		panic(err)
	}
}

// Store is a DataStore on a goleveldb database. Writers are serialised by one
// mutex and each Update is committed as a single leveldb.Batch.
type Store struct {
	mu     sync.RWMutex
	db     *leveldb.DB
	sync   bool
	closed bool
}

// Open opens or creates the database at path. Commits are synced to disk.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("leveldb: empty path")
	}
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open leveldb %s: %w", path, err)
	}
	log.Debugf("opened leveldb at %s", path)
	return &Store{db: db, sync: true}, nil
}

// OpenInMemory opens a database backed by memory storage
func OpenInMemory() (*Store, error) {
	db, err := leveldb.Open(storage.NewMemStorage(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open leveldb: %w", err)
	}
	return &Store{db: db}, nil
}

// View runs fn against a consistent snapshot
func (s *Store) View(ctx context.Context, fn func(datastore.Txn) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrClosed
	}

	snap, err := s.db.GetSnapshot()
	if err != nil {
		return fmt.Errorf("failed to get leveldb snapshot: %w", err)
	}
	defer snap.Release()

	return fn(datastore.NewKVReadTxn(&reader{src: snap}))
}

// Update runs fn with staged writes and commits them in one batch
func (s *Store) Update(ctx context.Context, fn func(datastore.Txn) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}

	staged := datastore.NewStaged(&reader{src: s.db})
	if err := fn(datastore.NewKVTxn(staged)); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	batch := new(leveldb.Batch)
	if err := staged.Writes(func(key, value []byte) error {
		batch.Put(key, value)
		return nil
	}); err != nil {
		return err
	}
	if batch.Len() == 0 {
		return nil
	}
	if err := s.db.Write(batch, &ldb_opt.WriteOptions{Sync: s.sync}); err != nil {
		return fmt.Errorf("failed to commit leveldb batch: %w", err)
	}
	return nil
}

// Close closes the database
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}

// source is implemented by both *leveldb.DB and *leveldb.Snapshot
type source interface {
	Get(key []byte, ro *ldb_opt.ReadOptions) ([]byte, error)
	NewIterator(slice *util.Range, ro *ldb_opt.ReadOptions) iterator.Iterator
}

type reader struct {
	src source
}

func (r *reader) Get(key []byte) ([]byte, error) {
	value, err := r.src.Get(key, nil)
	if err == leveldb.ErrNotFound {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	return value, nil
}

func (r *reader) Keys(prefix []byte, fn func(key []byte) error) error {
	iter := r.src.NewIterator(util.BytesPrefix(prefix), nil)
	defer iter.Release()

	for iter.Next() {
		key := append([]byte(nil), iter.Key()...)
		if err := fn(key); err != nil {
			return err
		}
	}
	return iter.Error()
}
