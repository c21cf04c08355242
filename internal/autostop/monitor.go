// Package autostop watches the tracked day and forces a stop when ArbZG or
// plan limits are reached.
package autostop

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/arbeitszeit/internal/work"
)

// Session is the tracked day as seen by the monitor.
type Session interface {
	WorkData() work.WorkData
	Plan() work.WorkPlan
	Ended() bool
	Stop() error
}

// OverrideSource reports whether the user enabled the override.
type OverrideSource interface {
	Enabled() bool
}

// Timers schedules the next check. *scheduler.Scheduler satisfies it.
type Timers interface {
	After(name string, d time.Duration, fn func())
	Cancel(name string) bool
}

const checkTimer = "autostop-check"

// NextCheckInterval shortens the polling cadence as the limits approach.
func NextCheckInterval(workedMinutes int) time.Duration {
	switch {
	case workedMinutes >= work.WarningWorkMinutes:
		return 10 * time.Second
	case workedMinutes >= work.NineHourThreshold:
		return 30 * time.Second
	case workedMinutes >= work.DefaultPlannedWorkMinutes:
		return time.Minute
	default:
		return 5 * time.Minute
	}
}

// Monitor re-evaluates compliance on an adaptive cadence. After it stopped
// the session it stays halted until Start is called again.
type Monitor struct {
	mu       sync.Mutex
	session  Session
	override OverrideSource
	events   *EventLog
	timers   Timers
	logger   *slog.Logger
	now      func() time.Time

	running bool
	warning work.Warning

	onStop    func(AutoStopEvent)
	onWarning func(work.Warning)
}

func NewMonitor(session Session, override OverrideSource, events *EventLog, timers Timers, logger *slog.Logger) *Monitor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Monitor{
		session:  session,
		override: override,
		events:   events,
		timers:   timers,
		logger:   logger,
		now:      time.Now,
	}
}

// SetOnStop sets the callback run after a forced stop.
func (m *Monitor) SetOnStop(fn func(AutoStopEvent)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onStop = fn
}

// SetOnWarning sets the callback run with the current warning after every
// check while one is active, and once with the zero value when it clears.
func (m *Monitor) SetOnWarning(fn func(work.Warning)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onWarning = fn
}

// Start begins monitoring with an immediate check.
func (m *Monitor) Start() {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return
	}
	m.running = true
	m.mu.Unlock()

	m.logger.Debug("auto-stop monitor started")
	m.Check()
}

// Stop cancels the pending check. No check runs after Stop returns.
func (m *Monitor) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.haltLocked()
}

func (m *Monitor) haltLocked() {
	m.running = false
	m.timers.Cancel(checkTimer)
}

// Running reports whether a check is scheduled.
func (m *Monitor) Running() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

// Warning returns the warning of the last check.
func (m *Monitor) Warning() work.Warning {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.warning
}

// Check evaluates the session once and schedules the next check. It does
// nothing while the monitor is stopped. A session ended elsewhere halts the
// monitor at the next check unless the owner calls Stop when the day ends,
// e.g. from tracker.Tracker.SetOnStop.
func (m *Monitor) Check() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	if m.session.Ended() {
		m.logger.Debug("session ended, auto-stop monitor halted")
		m.haltLocked()
		m.mu.Unlock()
		return
	}

	data := m.session.WorkData()
	plan := m.session.Plan()
	enabled := m.override != nil && m.override.Enabled()
	dec := work.Decide(data, plan, work.CanUseOverride(data, enabled).CanOverride)

	if dec.ShouldStop {
		m.haltLocked()
		m.warning = work.Warning{}
		onStop := m.onStop
		m.mu.Unlock()

		m.forceStop(dec, data, plan, enabled, onStop)
		return
	}
	if dec.Overridden {
		m.logger.Info("limit reached, stop suppressed by override", "reason", dec.Reason, "worked", data.TotalWorkTime)
	}

	prev := m.warning
	m.warning = work.ApproachingLimits(data, plan)
	warning := m.warning
	onWarning := m.onWarning

	next := NextCheckInterval(data.TotalWorkTime)
	m.timers.After(checkTimer, next, m.Check)
	m.logger.Debug("auto-stop check", "worked", data.TotalWorkTime, "break", data.TotalBreakTime, "next", next)
	m.mu.Unlock()

	if onWarning != nil && (warning.Active() || prev.Active()) {
		onWarning(warning)
	}
}

// forceStop records the event and stops the session. overrideEnabled is
// set when the override was on but unusable, i.e. during a break.
func (m *Monitor) forceStop(dec work.Decision, data work.WorkData, plan work.WorkPlan, overrideEnabled bool, onStop func(AutoStopEvent)) {
	event := AutoStopEvent{
		ID:             uuid.New(),
		Reason:         dec.Reason,
		Message:        dec.Message,
		Timestamp:      m.now(),
		WorkTime:       data.TotalWorkTime,
		BreakTime:      data.TotalBreakTime,
		PlanName:       plan.Name,
		OverrideActive: overrideEnabled,
	}
	m.logger.Info("auto-stopping work", "reason", dec.Reason, "worked", data.TotalWorkTime, "message", dec.Message)

	if m.events != nil {
		if err := m.events.Append(event); err != nil {
			m.logger.Warn("auto-stop event not persisted", "id", event.ID, "error", err)
		}
	}
	if err := m.session.Stop(); err != nil {
		m.logger.Warn("auto-stop failed to stop session", "error", err)
	}
	if onStop != nil {
		onStop(event)
	}
}
