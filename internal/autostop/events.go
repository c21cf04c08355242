package autostop

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/arbeitszeit/internal/storage"
	"github.com/arbeitszeit/internal/work"
)

const (
	// MaxEvents caps the persisted log; the oldest entries are dropped first.
	MaxEvents = 100
	// RecentEvents is how many entries Recent returns.
	RecentEvents = 10
)

// ErrEventNotFound is returned by Acknowledge for an unknown id.
var ErrEventNotFound = errors.New("auto-stop event not found")

// AutoStopEvent records one forced stop.
type AutoStopEvent struct {
	ID               uuid.UUID   `json:"id"`
	Reason           work.Reason `json:"reason"`
	Message          string      `json:"message"`
	Timestamp        time.Time   `json:"timestamp"`
	WorkTime         int         `json:"workTime"`
	BreakTime        int         `json:"breakTime"`
	PlanName         string      `json:"planName"`
	UserAcknowledged bool        `json:"userAcknowledged"`
	OverrideActive   bool        `json:"overrideActive"`
}

// EventLog is the persisted list of auto-stop events, oldest first.
type EventLog struct {
	mu     sync.Mutex
	store  storage.Store
	logger *slog.Logger
	events []AutoStopEvent
}

func NewEventLog(store storage.Store, logger *slog.Logger) *EventLog {
	if logger == nil {
		logger = slog.Default()
	}
	return &EventLog{store: store, logger: logger}
}

// Load reads the persisted log. A corrupt log is discarded; other storage
// failures leave the log empty and are returned.
func (l *EventLog) Load() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.events = nil
	var events []AutoStopEvent
	err := l.store.Get(storage.KeyEvents, &events)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return nil
	case storage.KindOf(err) == storage.KindDeserialization:
		l.logger.Warn("discarding corrupt auto-stop log", "error", err)
		if err := l.store.Remove(storage.KeyEvents); err != nil {
			l.logger.Warn("failed to remove auto-stop log", "error", err)
		}
		return nil
	case err != nil:
		return err
	}
	if len(events) > MaxEvents {
		events = events[len(events)-MaxEvents:]
	}
	l.events = events
	return nil
}

// Append adds e and evicts the oldest entries beyond MaxEvents. The entry
// is kept in memory even if persisting fails.
func (l *EventLog) Append(e AutoStopEvent) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.events = append(l.events, e)
	if n := len(l.events) - MaxEvents; n > 0 {
		l.events = append([]AutoStopEvent(nil), l.events[n:]...)
	}
	return l.save()
}

// Acknowledge marks the event with id as seen by the user.
func (l *EventLog) Acknowledge(id uuid.UUID) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i := range l.events {
		if l.events[i].ID == id {
			l.events[i].UserAcknowledged = true
			return l.save()
		}
	}
	return fmt.Errorf("%w: %s", ErrEventNotFound, id)
}

// Recent returns up to RecentEvents entries, newest first.
func (l *EventLog) Recent() []AutoStopEvent {
	l.mu.Lock()
	defer l.mu.Unlock()

	n := min(RecentEvents, len(l.events))
	out := make([]AutoStopEvent, 0, n)
	for i := len(l.events) - 1; i >= len(l.events)-n; i-- {
		out = append(out, l.events[i])
	}
	return out
}

// All returns every entry, oldest first.
func (l *EventLog) All() []AutoStopEvent {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]AutoStopEvent(nil), l.events...)
}

// Clear drops the log.
func (l *EventLog) Clear() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = nil
	return l.store.Remove(storage.KeyEvents)
}

func (l *EventLog) save() error {
	if err := l.store.Set(storage.KeyEvents, l.events); err != nil {
		l.logger.Warn("failed to persist auto-stop log", "error", err)
		return err
	}
	return nil
}
