/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package memory provides an in-process DataStore for tests and throwaway runs
package memory

import (
	"bytes"
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/suparena/nftstore/config"
	"github.com/suparena/nftstore/datastore"
)

// DriverName is the name the memory backend registers under
const DriverName = "memory"

// ErrClosed is returned by operations on a closed store
var ErrClosed = errors.New("memory: store closed")

func init() {
	if err := datastore.Register(DriverName, func(ctx context.Context, cfg config.Backend) (datastore.DataStore, error) {
		return New(), nil
	}); err != nil {
		panic(err)
	}
}

// Store keeps committed values in a map guarded by a single mutex. Update
// stages writes and applies them only after the closure returned nil.
type Store struct {
	mu        sync.RWMutex
	data      map[string][]byte
	closed    bool
	viewErr   error
	updateErr error
	commitErr error
	commits   int
}

// New creates an empty Store
func New() *Store {
	return &Store{
		data: make(map[string][]byte),
	}
}

// WithViewError makes View return err without running the closure
func (s *Store) WithViewError(err error) *Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.viewErr = err
	return s
}

// WithUpdateError makes Update return err without running the closure
func (s *Store) WithUpdateError(err error) *Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updateErr = err
	return s
}

// WithCommitError makes Update run the closure and then fail to commit with err
func (s *Store) WithCommitError(err error) *Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.commitErr = err
	return s
}

// View runs fn against the committed data
func (s *Store) View(ctx context.Context, fn func(datastore.Txn) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return ErrClosed
	}
	if s.viewErr != nil {
		return s.viewErr
	}
	return fn(datastore.NewKVReadTxn(committed(s.data)))
}

// Update runs fn with staged writes and applies them if fn succeeds
func (s *Store) Update(ctx context.Context, fn func(datastore.Txn) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	if s.updateErr != nil {
		return s.updateErr
	}

	staged := datastore.NewStaged(committed(s.data))
	if err := fn(datastore.NewKVTxn(staged)); err != nil {
		return err
	}
	if s.commitErr != nil {
		return s.commitErr
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	err := staged.Writes(func(key, value []byte) error {
		s.data[string(key)] = value
		return nil
	})
	if err == nil && staged.Len() > 0 {
		s.commits++
	}
	return err
}

// Close marks the store closed
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// Helper methods for testing

// Snapshot returns a copy of the committed key/value pairs
func (s *Store) Snapshot() map[string][]byte {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make(map[string][]byte, len(s.data))
	for k, v := range s.data {
		result[k] = append([]byte(nil), v...)
	}
	return result
}

// SetRaw writes a raw value bypassing transactions
func (s *Store) SetRaw(key, value []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[string(key)] = append([]byte(nil), value...)
}

// DeleteRaw removes a raw value bypassing transactions
func (s *Store) DeleteRaw(key []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, string(key))
}

// Count returns the number of committed keys
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

// Commits returns the number of Updates that wrote something
func (s *Store) Commits() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.commits
}

// Clear removes all data and injected errors
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = make(map[string][]byte)
	s.viewErr, s.updateErr, s.commitErr = nil, nil, nil
}

// committed reads the store map. Callers hold the store lock.
type committed map[string][]byte

func (c committed) Get(key []byte) ([]byte, error) {
	v, ok := c[string(key)]
	if !ok {
		return nil, nil
	}
	return v, nil
}

func (c committed) Keys(prefix []byte, fn func(key []byte) error) error {
	keys := make([]string, 0)
	for k := range c {
		if bytes.HasPrefix([]byte(k), prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := fn([]byte(k)); err != nil {
			return err
		}
	}
	return nil
}
