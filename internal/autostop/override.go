package autostop

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/arbeitszeit/internal/storage"
	"github.com/arbeitszeit/internal/work"
)

// OverrideStore holds the persisted override setting.
type OverrideStore struct {
	mu      sync.Mutex
	store   storage.Store
	logger  *slog.Logger
	now     func() time.Time
	setting work.OverrideSetting
}

func NewOverrideStore(store storage.Store, logger *slog.Logger) *OverrideStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &OverrideStore{store: store, logger: logger, now: time.Now}
}

// Load reads the setting. A corrupt or invalid setting is discarded and the
// override stays disabled.
func (o *OverrideStore) Load() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.setting = work.OverrideSetting{}
	var s work.OverrideSetting
	err := o.store.Get(storage.KeyOverride, &s)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return nil
	case storage.KindOf(err) == storage.KindDeserialization:
		o.logger.Warn("discarding corrupt override setting", "error", err)
		return nil
	case err != nil:
		return err
	}
	if err := s.Validate(); err != nil {
		o.logger.Warn("ignoring invalid override setting", "error", err)
		return nil
	}
	o.setting = s
	return nil
}

// Enable turns the override on. It must be acknowledged and the reason is
// limited to work.MaxOverrideReasonLength characters.
func (o *OverrideStore) Enable(reason string, acknowledged bool) error {
	s := work.OverrideSetting{
		Enabled:      true,
		Timestamp:    o.now(),
		Reason:       reason,
		Acknowledged: acknowledged,
	}
	if err := s.Validate(); err != nil {
		return err
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	o.setting = s
	o.logger.Info("auto-stop override enabled", "reason", reason)
	return o.store.Set(storage.KeyOverride, s)
}

// Disable turns the override off.
func (o *OverrideStore) Disable() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.setting = work.OverrideSetting{Timestamp: o.now()}
	o.logger.Info("auto-stop override disabled")
	return o.store.Set(storage.KeyOverride, o.setting)
}

// Setting returns the current setting.
func (o *OverrideStore) Setting() work.OverrideSetting {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.setting
}

// Enabled reports whether the override is on and valid.
func (o *OverrideStore) Enabled() bool {
	return o.Setting().Usable()
}

// Clear removes the persisted setting.
func (o *OverrideStore) Clear() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.setting = work.OverrideSetting{}
	return o.store.Remove(storage.KeyOverride)
}
