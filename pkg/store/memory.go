package store

import (
	"sync"

	"github.com/pcs-chat/pcsd/pkg/model"
)

// Memory is an in-memory Store used in tests. It deep-copies on both
// Load and Save so callers never share account pointers with it.
type Memory struct {
	mu       sync.Mutex
	accounts map[string]*model.Account
	saves    int
	failSave error
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{accounts: make(map[string]*model.Account)}
}

// Load returns a deep copy of the stored map.
func (m *Memory) Load() (map[string]*model.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]*model.Account, len(m.accounts))
	for k, a := range m.accounts {
		out[k] = a.Clone()
	}
	return out, nil
}

// Save replaces the stored map with a deep copy of accounts.
func (m *Memory) Save(accounts map[string]*model.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves++
	if m.failSave != nil {
		return m.failSave
	}
	repl := make(map[string]*model.Account, len(accounts))
	for k, a := range accounts {
		repl[k] = a.Clone()
	}
	m.accounts = repl
	return nil
}

// Close is a no-op.
func (m *Memory) Close() error { return nil }

// Saves returns how many times Save has been called.
func (m *Memory) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

// FailSaves makes every subsequent Save return err (nil to clear).
func (m *Memory) FailSaves(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failSave = err
}

var _ Store = (*Memory)(nil)
var _ Store = (*SQLite)(nil)
