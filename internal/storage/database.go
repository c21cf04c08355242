package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/mattn/go-sqlite3"
)

// DefaultMaxValueBytes mirrors the per-origin budget browsers give local storage.
const DefaultMaxValueBytes = 5 << 20

// Database is a Store backed by a single SQLite key-value table. Reads are
// served from an LRU cache of the raw JSON blobs.
type Database struct {
	db       *sql.DB
	cache    *lru.Cache[string, []byte]
	maxBytes int
	logger   *slog.Logger
}

func New(path string, cacheSize int, logger *slog.Logger) (*Database, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cacheSize <= 0 {
		cacheSize = 64
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	cache, err := lru.New[string, []byte](cacheSize)
	if err != nil {
		db.Close()
		return nil, err
	}

	database := &Database{db: db, cache: cache, maxBytes: DefaultMaxValueBytes, logger: logger}
	if err := database.createTables(); err != nil {
		db.Close()
		return nil, err
	}

	return database, nil
}

func (d *Database) createTables() error {
	_, err := d.db.Exec(`CREATE TABLE IF NOT EXISTS kv (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`)
	if err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}
	return nil
}

// SetMaxValueBytes changes the size above which Set reports quota-exceeded.
func (d *Database) SetMaxValueBytes(n int) {
	d.maxBytes = n
}

// Purge drops the read cache so the next Get sees writes made by other
// processes.
func (d *Database) Purge() {
	d.cache.Purge()
}

func (d *Database) Close() error {
	return d.db.Close()
}

func (d *Database) Get(key string, v any) error {
	data, ok := d.cache.Get(key)
	if !ok {
		var raw string
		err := d.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&raw)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return d.wrap("get", key, err)
		}
		data = []byte(raw)
		d.cache.Add(key, data)
	}

	if err := json.Unmarshal(data, v); err != nil {
		return &Error{Op: "get", Key: key, Kind: KindDeserialization, Err: err}
	}
	return nil
}

func (d *Database) Set(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return &Error{Op: "set", Key: key, Kind: KindSerialization, Err: err}
	}
	if d.maxBytes > 0 && len(data) > d.maxBytes {
		return &Error{Op: "set", Key: key, Kind: KindQuotaExceeded,
			Err: fmt.Errorf("value of %d bytes exceeds limit of %d", len(data), d.maxBytes)}
	}

	_, err = d.db.Exec(
		`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, string(data),
	)
	if err != nil {
		d.cache.Remove(key)
		return d.wrap("set", key, err)
	}
	d.cache.Add(key, data)
	return nil
}

func (d *Database) Remove(key string) error {
	d.cache.Remove(key)
	if _, err := d.db.Exec(`DELETE FROM kv WHERE key = ?`, key); err != nil {
		return d.wrap("remove", key, err)
	}
	return nil
}

// wrap maps SQLite result codes onto storage error kinds.
func (d *Database) wrap(op, key string, err error) error {
	kind := KindUnknown
	var sqlErr sqlite3.Error
	if errors.As(err, &sqlErr) {
		switch sqlErr.Code {
		case sqlite3.ErrFull:
			kind = KindQuotaExceeded
		case sqlite3.ErrReadonly, sqlite3.ErrPerm, sqlite3.ErrAuth, sqlite3.ErrCantOpen:
			kind = KindAccessDenied
		}
	}
	d.logger.Warn("storage operation failed", "op", op, "key", key, "kind", kind, "error", err)
	return &Error{Op: op, Key: key, Kind: kind, Err: err}
}
