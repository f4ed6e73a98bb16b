/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package datastore

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/suparena/nftstore/config"
	nfterrors "github.com/suparena/nftstore/errors"
)

type nopStore struct{ cfg config.Backend }

func (s *nopStore) View(ctx context.Context, fn func(Txn) error) error   { return nil }
func (s *nopStore) Update(ctx context.Context, fn func(Txn) error) error { return nil }
func (s *nopStore) Close() error                                         { return nil }

func nopOpener(ctx context.Context, cfg config.Backend) (DataStore, error) {
	return &nopStore{cfg: cfg}, nil
}

func TestManager(t *testing.T) {
	ctx := context.Background()

	t.Run("RegisterAndOpen", func(t *testing.T) {
		m := NewManager()
		if err := m.Register("nop", nopOpener); err != nil {
			t.Fatalf("Failed to register: %v", err)
		}

		ds, err := m.Open(ctx, config.Backend{Driver: "nop", Path: "/tmp/x"})
		if err != nil {
			t.Fatalf("Failed to open: %v", err)
		}
		if ds.(*nopStore).cfg.Path != "/tmp/x" {
			t.Fatalf("backend config not passed to opener: %+v", ds)
		}
	})

	t.Run("DuplicateRegistration", func(t *testing.T) {
		m := NewManager()
		_ = m.Register("nop", nopOpener)
		if err := m.Register("nop", nopOpener); !nfterrors.IsAlreadyExists(err) {
			t.Fatalf("Expected AlreadyExistsError for duplicate registration, got %v", err)
		}
	})

	t.Run("InvalidRegistration", func(t *testing.T) {
		m := NewManager()
		if err := m.Register("", nopOpener); err == nil {
			t.Fatal("Expected error for empty name")
		}
		if err := m.Register("nil", nil); err == nil {
			t.Fatal("Expected error for nil opener")
		}
	})

	t.Run("UnknownDriver", func(t *testing.T) {
		m := NewManager()
		if _, err := m.Open(ctx, config.Backend{Driver: "absent"}); err == nil {
			t.Fatal("Expected error for unknown driver")
		}
	})

	t.Run("OpenerError", func(t *testing.T) {
		m := NewManager()
		_ = m.Register("broken", func(ctx context.Context, cfg config.Backend) (DataStore, error) {
			return nil, fmt.Errorf("disk on fire")
		})
		if _, err := m.Open(ctx, config.Backend{Driver: "broken"}); err == nil {
			t.Fatal("Expected opener error to propagate")
		}
	})

	t.Run("DriversSorted", func(t *testing.T) {
		m := NewManager()
		for _, name := range []string{"c", "a", "b"} {
			_ = m.Register(name, nopOpener)
		}
		got := m.Drivers()
		if len(got) != 3 || got[0] != "a" || got[1] != "b" || got[2] != "c" {
			t.Fatalf("Expected sorted drivers, got %v", got)
		}
	})

	t.Run("ConcurrentAccess", func(t *testing.T) {
		m := NewManager()
		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				name := fmt.Sprintf("driver-%d", i)
				if err := m.Register(name, nopOpener); err != nil {
					t.Errorf("Failed to register %s: %v", name, err)
				}
				if _, err := m.Open(ctx, config.Backend{Driver: name}); err != nil {
					t.Errorf("Failed to open %s: %v", name, err)
				}
			}(i)
		}
		wg.Wait()

		if len(m.Drivers()) != 10 {
			t.Fatalf("Expected 10 drivers, got %d", len(m.Drivers()))
		}
	})
}
