// Package sqlite provides the public API for the SQLite record store.
// This package exposes the factory function for opening a store while
// keeping implementation details internal.
package sqlite

import (
	"github.com/mesh-intelligence/farmbook/internal/sqlite"
	"github.com/mesh-intelligence/farmbook/pkg/types"
)

// Store is an attached SQLite record store. Close releases it.
type Store interface {
	types.RecordStore
	Close() error
}

// Open attaches a SQLite record store to dataDir, creating the directory
// and loading any JSONL table files found there.
//
// Example:
//
//	store, err := sqlite.Open(".farmbook-db")
//	if err != nil {
//	    return err
//	}
//	defer store.Close()
func Open(dataDir string) (Store, error) {
	b, err := sqlite.Open(dataDir)
	if err != nil {
		return nil, err
	}
	return b, nil
}
