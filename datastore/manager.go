/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package datastore

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/suparena/nftstore/config"
	nfterrors "github.com/suparena/nftstore/errors"
)

// Opener opens a DataStore from its backend configuration.
type Opener func(ctx context.Context, cfg config.Backend) (DataStore, error)

// Manager is a thread-safe registry of backend drivers.
type Manager struct {
	mu      sync.RWMutex
	drivers map[string]Opener
}

// NewManager creates an empty Manager.
func NewManager() *Manager {
	return &Manager{
		drivers: make(map[string]Opener),
	}
}

// Register stores the opener under the given driver name.
func (m *Manager) Register(name string, open Opener) error {
	if name == "" || open == nil {
		return fmt.Errorf("datastore driver needs a name and an opener")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.drivers[name]; exists {
		return nfterrors.NewAlreadyExistsError("Driver", name)
	}
	m.drivers[name] = open
	return nil
}

// Open opens a DataStore with the driver named by cfg.Driver.
func (m *Manager) Open(ctx context.Context, cfg config.Backend) (DataStore, error) {
	m.mu.RLock()
	open, exists := m.drivers[cfg.Driver]
	m.mu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("datastore driver %q not found (registered: %v)", cfg.Driver, m.Drivers())
	}
	ds, err := open(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s datastore: %w", cfg.Driver, err)
	}
	return ds, nil
}

// Drivers returns the registered driver names, sorted.
func (m *Manager) Drivers() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.drivers))
	for name := range m.drivers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var drivers = NewManager()

// Register adds a driver to the process-wide manager. Backends call it from init.
func Register(name string, open Opener) error {
	return drivers.Register(name, open)
}

// Open opens a DataStore with a driver of the process-wide manager.
func Open(ctx context.Context, cfg config.Backend) (DataStore, error) {
	return drivers.Open(ctx, cfg)
}

// Drivers lists the drivers of the process-wide manager.
func Drivers() []string {
	return drivers.Drivers()
}
