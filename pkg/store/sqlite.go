package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/pcs-chat/pcsd/pkg/model"
)

const dbTimeLayout = "2006-01-02 15:04:05"

// SQLite is the default durable account store.
type SQLite struct {
	db *sql.DB
}

// NewSQLite opens (or creates) a SQLite database and runs migrations.
func NewSQLite(dbPath string) (*SQLite, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("store: open DB: %w", err)
	}

	ctx := context.Background()

	// Enable WAL mode for better concurrent read performance
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: set WAL: %w", err)
	}
	// Set busy timeout to avoid "database is locked" under concurrency
	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout=5000"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: set busy_timeout: %w", err)
	}

	s := &SQLite{db: db}
	if err := s.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: migrate: %w", err)
	}
	return s, nil
}

func (s *SQLite) migrate(ctx context.Context) error {
	const schema = `
	CREATE TABLE IF NOT EXISTS accounts (
		key           TEXT PRIMARY KEY CHECK(length(key) > 0),
		name          TEXT NOT NULL,
		password      TEXT NOT NULL,
		admin         INTEGER NOT NULL DEFAULT 0,
		channels      TEXT NOT NULL DEFAULT '[]',
		banned        INTEGER NOT NULL DEFAULT 0,
		banned_by     TEXT NOT NULL DEFAULT '',
		banned_time   TEXT NOT NULL DEFAULT '',
		banned_reason TEXT NOT NULL DEFAULT ''
	);
	`
	_, err := s.db.ExecContext(ctx, schema)
	return err
}

// Load returns the full account map.
func (s *SQLite) Load() (map[string]*model.Account, error) {
	rows, err := s.db.QueryContext(context.Background(), `
		SELECT key, name, password, admin, channels, banned, banned_by, banned_time, banned_reason
		FROM accounts`)
	if err != nil {
		return nil, fmt.Errorf("store: load accounts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	accounts := make(map[string]*model.Account)
	for rows.Next() {
		var (
			key, name, password, channels string
			admin, banned                 int
			banBy, banTime, banReason     string
		)
		if err := rows.Scan(&key, &name, &password, &admin, &channels, &banned, &banBy, &banTime, &banReason); err != nil {
			return nil, fmt.Errorf("store: scan account: %w", err)
		}

		a := &model.Account{
			Name:     name,
			Password: password,
			Admin:    admin != 0,
		}
		if err := json.Unmarshal([]byte(channels), &a.Channels); err != nil {
			return nil, fmt.Errorf("store: account %q: malformed channel set: %w", key, err)
		}
		if banned != 0 {
			rec := &model.BanRecord{By: banBy, Reason: banReason}
			if banTime != "" {
				t, err := time.Parse(dbTimeLayout, banTime)
				if err != nil {
					return nil, fmt.Errorf("store: account %q: malformed ban time: %w", key, err)
				}
				rec.Time = t
			}
			a.Banned = rec
		}
		accounts[key] = a
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: load accounts: %w", err)
	}
	return accounts, nil
}

// Save overwrites the stored map wholesale in one transaction.
func (s *SQLite) Save(accounts map[string]*model.Account) error {
	ctx := context.Background()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: begin save: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM accounts`); err != nil {
		return fmt.Errorf("store: clear accounts: %w", err)
	}

	for key, a := range accounts {
		channels, err := json.Marshal(a.Channels)
		if err != nil {
			return fmt.Errorf("store: account %q: encode channels: %w", key, err)
		}
		banned, banBy, banTime, banReason := 0, "", "", ""
		if a.Banned != nil {
			banned = 1
			banBy = a.Banned.By
			banReason = a.Banned.Reason
			if !a.Banned.Time.IsZero() {
				banTime = a.Banned.Time.UTC().Format(dbTimeLayout)
			}
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO accounts (key, name, password, admin, channels, banned, banned_by, banned_time, banned_reason)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			key, a.Name, a.Password, boolToInt(a.Admin), string(channels), banned, banBy, banTime, banReason,
		); err != nil {
			return fmt.Errorf("store: insert account %q: %w", key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store: commit save: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
