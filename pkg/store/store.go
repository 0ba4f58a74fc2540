// Package store persists the account map. The server loads the whole
// map once at startup and writes it back wholesale after every
// mutating command; the in-memory map stays the source of truth
// between flushes.
package store

import "github.com/pcs-chat/pcsd/pkg/model"

// Store is the durable key-to-account mapping the server talks to.
// Implementations include the default SQLite store and an in-memory
// store for testing.
type Store interface {
	// Load returns the full account map keyed by storage key.
	Load() (map[string]*model.Account, error)
	// Save overwrites the stored map wholesale.
	Save(accounts map[string]*model.Account) error
	Close() error
}
