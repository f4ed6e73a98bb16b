/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package datastore

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/suparena/nftstore/storagemodels"
)

// KVReader is the raw read side of an ordered key/value transaction.
type KVReader interface {
	// Get returns (nil, nil) when key is absent.
	Get(key []byte) ([]byte, error)
	// Keys calls fn for every key that starts with prefix, in ascending order.
	Keys(prefix []byte, fn func(key []byte) error) error
}

// KVWriter is a KVReader that can also stage writes.
type KVWriter interface {
	KVReader
	Set(key, value []byte) error
}

// memberValue is stored under set member keys. Only the key carries data.
var memberValue = []byte{1}

type kvTxn struct {
	r KVReader
	w KVWriter
}

// NewKVReadTxn adapts a raw reader to a read-only Txn using the shared key
// scheme and codec.
func NewKVReadTxn(r KVReader) Txn {
	return &kvTxn{r: r}
}

// NewKVTxn adapts a raw writer to a read-write Txn.
func NewKVTxn(w KVWriter) Txn {
	return &kvTxn{r: w, w: w}
}

func (t *kvTxn) get(key []byte, v any) (bool, error) {
	data, err := t.r.Get(key)
	if err != nil {
		return false, err
	}
	if data == nil {
		return false, nil
	}
	return true, Unmarshal(data, v)
}

func (t *kvTxn) put(key []byte, v any) error {
	if t.w == nil {
		return ErrReadOnly
	}
	data, err := Marshal(v)
	if err != nil {
		return err
	}
	return t.w.Set(key, data)
}

func (t *kvTxn) GetToken(id string) (*storagemodels.Token, error) {
	var token storagemodels.Token
	ok, err := t.get(TokenKey(id), &token)
	if err != nil || !ok {
		return nil, err
	}
	return &token, nil
}

func (t *kvTxn) PutToken(token *storagemodels.Token) error {
	if token == nil {
		return fmt.Errorf("nil token")
	}
	return t.put(TokenKey(token.TokenID), token)
}

func (t *kvTxn) GetTokenMetadata(id string) (*storagemodels.TokenMetadata, error) {
	var md storagemodels.TokenMetadata
	ok, err := t.get(TokenMetadataKey(id), &md)
	if err != nil || !ok {
		return nil, err
	}
	return &md, nil
}

func (t *kvTxn) PutTokenMetadata(id string, md *storagemodels.TokenMetadata) error {
	if md == nil {
		return fmt.Errorf("nil metadata for token %q", id)
	}
	return t.put(TokenMetadataKey(id), md)
}

func (t *kvTxn) GetOwnerEntry(owner string) (*storagemodels.OwnerEntry, error) {
	var entry storagemodels.OwnerEntry
	ok, err := t.get(OwnerEntryKey(owner), &entry)
	if err != nil || !ok {
		return nil, err
	}
	return &entry, nil
}

func (t *kvTxn) PutOwnerEntry(entry *storagemodels.OwnerEntry) error {
	if entry == nil {
		return fmt.Errorf("nil owner entry")
	}
	return t.put(OwnerEntryKey(entry.OwnerID), entry)
}

func (t *kvTxn) ListOwnerTokens(entry *storagemodels.OwnerEntry) ([]string, error) {
	prefix := OwnerTokenPrefix(entry.Prefix)
	ids := []string{}
	err := t.r.Keys(prefix, func(key []byte) error {
		ids = append(ids, string(key[len(prefix):]))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (t *kvTxn) AddOwnerToken(entry *storagemodels.OwnerEntry, id string) error {
	if t.w == nil {
		return ErrReadOnly
	}
	return t.w.Set(OwnerTokenKey(entry.Prefix, id), memberValue)
}

func (t *kvTxn) GetContract() (*storagemodels.Contract, error) {
	var contract storagemodels.Contract
	ok, err := t.get(ContractKey(), &contract)
	if err != nil || !ok {
		return nil, err
	}
	return &contract, nil
}

func (t *kvTxn) PutContract(contract *storagemodels.Contract) error {
	if contract == nil {
		return fmt.Errorf("nil contract")
	}
	return t.put(ContractKey(), contract)
}

// Staged buffers writes on top of a KVReader. Reads see the buffered writes
// first. Nothing reaches the base until the owner flushes Writes.
type Staged struct {
	base   KVReader
	writes map[string][]byte
}

// NewStaged creates an empty write buffer over base.
func NewStaged(base KVReader) *Staged {
	return &Staged{
		base:   base,
		writes: make(map[string][]byte),
	}
}

func (s *Staged) Get(key []byte) ([]byte, error) {
	if v, ok := s.writes[string(key)]; ok {
		return v, nil
	}
	return s.base.Get(key)
}

func (s *Staged) Set(key, value []byte) error {
	s.writes[string(key)] = append([]byte(nil), value...)
	return nil
}

func (s *Staged) Keys(prefix []byte, fn func(key []byte) error) error {
	seen := make(map[string]struct{})
	var keys []string
	err := s.base.Keys(prefix, func(key []byte) error {
		seen[string(key)] = struct{}{}
		keys = append(keys, string(key))
		return nil
	})
	if err != nil {
		return err
	}
	for k := range s.writes {
		if _, ok := seen[k]; !ok && bytes.HasPrefix([]byte(k), prefix) {
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

// Len returns the number of buffered writes.
func (s *Staged) Len() int {
	return len(s.writes)
}

// Writes calls fn for every buffered write in key order.
func (s *Staged) Writes(fn func(key, value []byte) error) error {
	keys := make([]string, 0, len(s.writes))
	for k := range s.writes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := fn([]byte(k), s.writes[k]); err != nil {
			return err
		}
	}
	return nil
}
