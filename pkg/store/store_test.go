package store_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/pcs-chat/pcsd/pkg/model"
	"github.com/pcs-chat/pcsd/pkg/store"
)

func newTestSQLite(t *testing.T) *store.SQLite {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := store.NewSQLite(dbPath)
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("close db: %v", err)
		}
	})
	return s
}

func testAccounts() map[string]*model.Account {
	return map[string]*model.Account{
		"admin": {
			Name:     "admin",
			Password: model.Digest("letmein"),
			Admin:    true,
			Channels: []string{"connected", "disconnected", "system", "admin"},
		},
		"bob": {
			Name:     "Bob",
			Password: model.Digest("secret"),
			Channels: []string{"connected", "disconnected", "system", "general"},
			Banned: &model.BanRecord{
				By:     "admin",
				Time:   time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC),
				Reason: "spamming",
			},
		},
	}
}

func TestSQLiteSaveLoadRoundTrip(t *testing.T) {
	s := newTestSQLite(t)

	want := testAccounts()
	if err := s.Save(want); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestSQLiteSaveIsWholesale(t *testing.T) {
	s := newTestSQLite(t)

	if err := s.Save(testAccounts()); err != nil {
		t.Fatalf("Save: %v", err)
	}

	// A second save with a different map must fully replace the first.
	repl := map[string]*model.Account{
		"carol": {Name: "carol", Password: model.Digest("pw"), Channels: []string{"connected"}},
	}
	if err := s.Save(repl); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if diff := cmp.Diff(repl, got); diff != "" {
		t.Errorf("second save not wholesale (-want +got):\n%s", diff)
	}
}

func TestSQLiteLoadEmpty(t *testing.T) {
	s := newTestSQLite(t)

	got, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Load of fresh db returned %d accounts, want 0", len(got))
	}
}

func TestMemoryIsolation(t *testing.T) {
	m := store.NewMemory()

	src := testAccounts()
	if err := m.Save(src); err != nil {
		t.Fatalf("Save: %v", err)
	}

	// Mutating the caller's map after Save must not leak into the store.
	src["bob"].Channels = append(src["bob"].Channels, "leaked")

	got, err := m.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if diff := cmp.Diff(testAccounts(), got); diff != "" {
		t.Errorf("memory store shares state with caller (-want +got):\n%s", diff)
	}
}
