package storage

import (
	"errors"
	"fmt"
)

// Keys of the blobs the tracker persists.
const (
	KeySession  = "session"
	KeyEvents   = "autostop_events"
	KeyOverride = "override"
)

// ErrNotFound is returned by Get when the key holds no value.
var ErrNotFound = errors.New("key not found")

var errInjected = errors.New("injected failure")

// ErrorKind classifies storage failures.
type ErrorKind string

const (
	KindQuotaExceeded   ErrorKind = "quota-exceeded"
	KindAccessDenied    ErrorKind = "access-denied"
	KindSerialization   ErrorKind = "serialization-error"
	KindDeserialization ErrorKind = "deserialization-error"
	KindUnknown         ErrorKind = "unknown"
)

// Error is a failed store operation.
type Error struct {
	Op   string
	Key  string
	Kind ErrorKind
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("storage %s %q: %s: %v", e.Op, e.Key, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of a storage error, or "" if err is not one.
func KindOf(err error) ErrorKind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return ""
}

// Store persists JSON-serializable values by string key.
type Store interface {
	Get(key string, v any) error
	Set(key string, v any) error
	Remove(key string) error
}
