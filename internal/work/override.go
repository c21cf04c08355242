package work

import (
	"fmt"
	"time"
	"unicode/utf8"
)

// MaxOverrideReasonLength caps the free-text justification.
const MaxOverrideReasonLength = 200

// ValidationError represents an invalid setting or plan.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// OverrideSetting suppresses forced auto-stops once acknowledged.
type OverrideSetting struct {
	Enabled      bool      `json:"enabled"`
	Timestamp    time.Time `json:"timestamp"`
	Reason       string    `json:"reason"`
	Acknowledged bool      `json:"acknowledged"`
}

// Validate re-checks the invariants independently of how the setting was made.
func (s OverrideSetting) Validate() error {
	if utf8.RuneCountInString(s.Reason) > MaxOverrideReasonLength {
		return &ValidationError{Field: "Reason", Message: fmt.Sprintf("must be at most %d characters", MaxOverrideReasonLength)}
	}
	if s.Enabled && !s.Acknowledged {
		return &ValidationError{Field: "Acknowledged", Message: "override must be acknowledged before it is enabled"}
	}
	return nil
}

// Usable reports whether the setting is enabled and valid.
func (s OverrideSetting) Usable() bool {
	return s.Enabled && s.Validate() == nil
}

// OverrideCheck is the verdict of CanUseOverride.
type OverrideCheck struct {
	CanOverride bool
	Reason      string
}

// CanUseOverride allows the override only when enabled and not on a break.
func CanUseOverride(d WorkData, overrideEnabled bool) OverrideCheck {
	if d.IsOnBreak {
		return OverrideCheck{Reason: "override is not available during a break"}
	}
	if !overrideEnabled {
		return OverrideCheck{Reason: "override is not enabled"}
	}
	return OverrideCheck{CanOverride: true, Reason: "override active"}
}
