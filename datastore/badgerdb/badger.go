/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package badgerdb

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v3"
	golog "github.com/ipfs/go-log"

	"github.com/suparena/nftstore/config"
	"github.com/suparena/nftstore/datastore"
)

var log = golog.Logger("nftstore/badger")

// DriverName is the name the badger backend registers under
const DriverName = "badger"

// Value log garbage collection runs when either size crosses its threshold.
const (
	gcLSMThreshold  = 1024 * 1024 * 8
	gcVLogThreshold = 1024 * 1024 * 32
	gcDiscardRatio  = 0.5
)

func init() {
	if err := datastore.Register(DriverName, func(ctx context.Context, cfg config.Backend) (datastore.DataStore, error) {
		opts := []Option{WithGCInterval(cfg.GCInterval)}
		if cfg.InMemory {
			return OpenInMemory(opts...)
		}
		return Open(ctx, cfg.Path, opts...)
	}); err != nil {
		panic(err)
	}
}

// Store is a DataStore on an embedded badger database
type Store struct {
	db         *badger.DB
	maxRetries int
	gcInterval time.Duration

	done chan struct{}
	wg   sync.WaitGroup
}

// Option configures a Store
type Option func(*Store)

// WithMaxRetries sets how often an Update is retried after a transaction conflict
func WithMaxRetries(n int) Option {
	return func(s *Store) {
		s.maxRetries = n
	}
}

// WithGCInterval sets the period of the value log garbage collector.
// A non-positive d keeps the default.
func WithGCInterval(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.gcInterval = d
		}
	}
}

// Open opens or creates the database in dir
func Open(ctx context.Context, dir string, opts ...Option) (*Store, error) {
	if dir == "" {
		return nil, fmt.Errorf("badger: empty path")
	}
	s, err := open(badger.DefaultOptions(dir).WithLogger(nil), opts...)
	if err != nil {
		return nil, err
	}
	s.wg.Add(1)
	go s.collectGarbage()
	return s, nil
}

// OpenInMemory opens a database that lives only as long as the process
func OpenInMemory(opts ...Option) (*Store, error) {
	return open(badger.DefaultOptions("").WithInMemory(true).WithLogger(nil), opts...)
}

func open(bo badger.Options, opts ...Option) (*Store, error) {
	db, err := badger.Open(bo)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger: %w", err)
	}
	s := &Store{
		db:         db,
		maxRetries: 10,
		gcInterval: 5 * time.Minute,
		done:       make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *Store) collectGarbage() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.gcInterval)
	defer ticker.Stop()
	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
		}

		lsm, vlog := s.db.Size()
		log.Debugf("badger LSM %d VLOG %d", lsm, vlog)
		if lsm > gcLSMThreshold || vlog > gcVLogThreshold {
			err := s.db.RunValueLogGC(gcDiscardRatio)
			if err != nil && !errors.Is(err, badger.ErrNoRewrite) {
				log.Errorf("badger value log gc: %s", err)
				continue
			}
			log.Infof("badger value log gc done, rewrote=%v", err == nil)
		}
	}
}

// View runs fn in a read-only badger transaction
func (s *Store) View(ctx context.Context, fn func(datastore.Txn) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.View(func(txn *badger.Txn) error {
		return fn(datastore.NewKVReadTxn(&kv{txn: txn}))
	})
}

// Update runs fn in a read-write badger transaction. Badger detects
// conflicting writers at commit; the losing transaction is run again.
func (s *Store) Update(ctx context.Context, fn func(datastore.Txn) error) error {
	for attempt := 0; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		err := s.db.Update(func(txn *badger.Txn) error {
			return fn(datastore.NewKVTxn(&kv{txn: txn}))
		})
		if errors.Is(err, badger.ErrConflict) && attempt < s.maxRetries {
			log.Debugf("badger transaction conflict, retry %d", attempt+1)
			continue
		}
		return err
	}
}

// Close stops the garbage collector and closes the database
func (s *Store) Close() error {
	select {
	case <-s.done:
		return nil
	default:
		close(s.done)
	}
	s.wg.Wait()
	return s.db.Close()
}

// kv adapts a badger transaction to the raw key/value interface
type kv struct {
	txn *badger.Txn
}

func (k *kv) Get(key []byte) ([]byte, error) {
	item, err := k.txn.Get(key)
	if err == badger.ErrKeyNotFound {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	return item.ValueCopy(nil)
}

func (k *kv) Set(key, value []byte) error {
	return k.txn.Set(key, value)
}

func (k *kv) Keys(prefix []byte, fn func(key []byte) error) error {
	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false
	opts.Prefix = prefix
	it := k.txn.NewIterator(opts)
	defer it.Close()

	for it.Seek(prefix); it.Valid(); it.Next() {
		if err := fn(it.Item().KeyCopy(nil)); err != nil {
			return err
		}
	}
	return nil
}
