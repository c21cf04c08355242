package storage

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
)

type blob struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func newTestDatabase(t *testing.T) *Database {
	t.Helper()
	db, err := New(filepath.Join(t.TempDir(), "state.db"), 4, nil)
	if err != nil {
		t.Fatalf("New() unexpected error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestDatabaseSetGet(t *testing.T) {
	db := newTestDatabase(t)

	if err := db.Set("a", blob{Name: "x", Count: 3}); err != nil {
		t.Fatalf("Set() unexpected error: %v", err)
	}

	var got blob
	if err := db.Get("a", &got); err != nil {
		t.Fatalf("Get() unexpected error: %v", err)
	}
	if got.Name != "x" || got.Count != 3 {
		t.Errorf("Get() = %+v, want {x 3}", got)
	}

	if err := db.Set("a", blob{Name: "y"}); err != nil {
		t.Fatalf("Set() overwrite unexpected error: %v", err)
	}
	if err := db.Get("a", &got); err != nil || got.Name != "y" {
		t.Errorf("Get() after overwrite = %+v, %v, want name y", got, err)
	}
}

func TestDatabaseGetMissing(t *testing.T) {
	db := newTestDatabase(t)

	var got blob
	if err := db.Get("missing", &got); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() err = %v, want %v", err, ErrNotFound)
	}
}

func TestDatabaseRemove(t *testing.T) {
	db := newTestDatabase(t)

	db.Set("a", blob{Name: "x"})
	if err := db.Remove("a"); err != nil {
		t.Fatalf("Remove() unexpected error: %v", err)
	}
	var got blob
	if err := db.Get("a", &got); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() after Remove err = %v, want %v", err, ErrNotFound)
	}
	if err := db.Remove("a"); err != nil {
		t.Errorf("Remove() of missing key err = %v, want nil", err)
	}
}

func TestDatabaseSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")

	db, err := New(path, 4, nil)
	if err != nil {
		t.Fatalf("New() unexpected error: %v", err)
	}
	db.Set("a", blob{Name: "persisted"})
	db.Close()

	db, err = New(path, 4, nil)
	if err != nil {
		t.Fatalf("New() reopen unexpected error: %v", err)
	}
	defer db.Close()

	var got blob
	if err := db.Get("a", &got); err != nil || got.Name != "persisted" {
		t.Errorf("Get() after reopen = %+v, %v", got, err)
	}
}

func TestDatabasePurgeSeesOtherWriters(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")
	reader, err := New(path, 4, nil)
	if err != nil {
		t.Fatalf("New() unexpected error: %v", err)
	}
	defer reader.Close()
	writer, err := New(path, 4, nil)
	if err != nil {
		t.Fatalf("New() unexpected error: %v", err)
	}
	defer writer.Close()

	writer.Set("a", blob{Count: 1})
	var got blob
	reader.Get("a", &got)

	writer.Set("a", blob{Count: 2})
	reader.Get("a", &got)
	if got.Count != 1 {
		t.Fatalf("cached Get() = %d, want 1", got.Count)
	}

	reader.Purge()
	reader.Get("a", &got)
	if got.Count != 2 {
		t.Errorf("Get() after Purge() = %d, want 2", got.Count)
	}
}

func TestDatabaseQuotaExceeded(t *testing.T) {
	db := newTestDatabase(t)
	db.SetMaxValueBytes(16)

	err := db.Set("a", blob{Name: strings.Repeat("x", 64)})
	if KindOf(err) != KindQuotaExceeded {
		t.Errorf("Set() kind = %q, want %q (err %v)", KindOf(err), KindQuotaExceeded, err)
	}
}

func TestDatabaseSerializationError(t *testing.T) {
	db := newTestDatabase(t)

	err := db.Set("a", map[string]any{"ch": make(chan int)})
	if KindOf(err) != KindSerialization {
		t.Errorf("Set() kind = %q, want %q", KindOf(err), KindSerialization)
	}
}

func TestDatabaseDeserializationError(t *testing.T) {
	db := newTestDatabase(t)

	if _, err := db.db.Exec(`INSERT INTO kv (key, value) VALUES ('a', '{not json')`); err != nil {
		t.Fatalf("seeding corrupt row: %v", err)
	}

	var got blob
	err := db.Get("a", &got)
	if KindOf(err) != KindDeserialization {
		t.Errorf("Get() kind = %q, want %q", KindOf(err), KindDeserialization)
	}
}

func TestMemoryInjectedFailures(t *testing.T) {
	m := NewMemory()
	m.FailWith("set", KindAccessDenied)

	err := m.Set("a", blob{})
	if KindOf(err) != KindAccessDenied {
		t.Errorf("Set() kind = %q, want %q", KindOf(err), KindAccessDenied)
	}

	m.FailWith("set", "")
	if err := m.Set("a", blob{Name: "ok"}); err != nil {
		t.Fatalf("Set() after clearing failure: %v", err)
	}

	m.SetRaw("b", []byte("garbage"))
	var got blob
	if err := m.Get("b", &got); KindOf(err) != KindDeserialization {
		t.Errorf("Get() corrupt kind = %q, want %q", KindOf(err), KindDeserialization)
	}
	if err := m.Get("c", &got); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() missing err = %v, want %v", err, ErrNotFound)
	}
}
