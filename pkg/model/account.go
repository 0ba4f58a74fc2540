// Package model defines the core domain types for PCS.
package model

import (
	"errors"
	"strings"
	"time"
)

var ErrNameEmpty = errors.New("account name must not be empty")
var ErrNameWhitespace = errors.New("account name must not contain whitespace")

// Account represents a registered identity. The map key it is stored
// under is the immutable lookup key; Name is the mutable display name.
type Account struct {
	Name     string     `yaml:"name,omitempty" json:"name,omitempty"`
	Password string     `yaml:"password,omitempty" json:"password,omitempty"`
	Admin    bool       `yaml:"admin,omitempty" json:"admin,omitempty"`
	Channels []string   `yaml:"channels,omitempty" json:"channels,omitempty"`
	Banned   *BanRecord `yaml:"banned,omitempty" json:"banned,omitempty"`
}

// BanRecord records who banned an account, when, and (optionally) why.
type BanRecord struct {
	By     string    `yaml:"by,omitempty" json:"by,omitempty"`
	Time   time.Time `yaml:"time,omitempty" json:"time,omitempty"`
	Reason string    `yaml:"reason,omitempty" json:"reason,omitempty"`
}

// ValidateName checks that an account name is a single non-empty token.
func ValidateName(name string) error {
	if name == "" {
		return ErrNameEmpty
	}
	if strings.ContainsAny(name, " \t\r\n") {
		return ErrNameWhitespace
	}
	return nil
}

// Normalize repairs an account record loaded from external storage so
// the rest of the server can rely on its invariants: the display name
// defaults to the storage key, the password is always a digest, the
// channel set defaults to the system channels (plus admin for admins),
// and non-admin accounts never hold admin-restricted channels.
func (a *Account) Normalize(key string) {
	if a.Name == "" {
		a.Name = key
	}
	if !IsDigest(a.Password) {
		a.Password = Digest(a.Password)
	}
	if a.Channels == nil {
		a.Channels = append([]string(nil), SystemChannels...)
		if a.Admin {
			a.Channels = append(a.Channels, "admin")
		}
	} else if !a.Admin {
		a.StripAdminChannels()
	}
}

// Subscribed reports whether the account's channel set contains name.
func (a *Account) Subscribed(name string) bool {
	for _, ch := range a.Channels {
		if ch == name {
			return true
		}
	}
	return false
}

// Subscribe adds a channel to the account's set. Reports false if the
// account was already subscribed.
func (a *Account) Subscribe(name string) bool {
	if a.Subscribed(name) {
		return false
	}
	a.Channels = append(a.Channels, name)
	return true
}

// Unsubscribe removes a channel from the account's set. Reports false
// if the account was not subscribed.
func (a *Account) Unsubscribe(name string) bool {
	for i, ch := range a.Channels {
		if ch == name {
			a.Channels = append(a.Channels[:i], a.Channels[i+1:]...)
			return true
		}
	}
	return false
}

// StripAdminChannels removes every admin-restricted channel from the
// account's set. Called on demotion and on load of non-admin records.
func (a *Account) StripAdminChannels() {
	kept := a.Channels[:0]
	for _, ch := range a.Channels {
		if !IsAdminChannel(ch) {
			kept = append(kept, ch)
		}
	}
	a.Channels = kept
}

// Clone returns a deep copy of the account.
func (a *Account) Clone() *Account {
	dup := *a
	dup.Channels = append([]string(nil), a.Channels...)
	if a.Banned != nil {
		ban := *a.Banned
		dup.Banned = &ban
	}
	return &dup
}
