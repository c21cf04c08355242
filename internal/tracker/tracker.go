package tracker

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/arbeitszeit/internal/breaks"
	"github.com/arbeitszeit/internal/storage"
	"github.com/arbeitszeit/internal/work"
)

// Defaults seed a fresh session.
type Defaults struct {
	Plan        string
	PlannedWork int
}

type Tracker struct {
	mu       sync.Mutex
	store    storage.Store
	plans    []work.WorkPlan
	defaults Defaults
	logger   *slog.Logger
	now      func() time.Time
	session  Session

	onStop func()
}

func New(store storage.Store, plans []work.WorkPlan, defaults Defaults, logger *slog.Logger) *Tracker {
	if logger == nil {
		logger = slog.Default()
	}
	if len(plans) == 0 {
		plans = work.DefaultPlans()
	}
	if defaults.PlannedWork <= 0 {
		defaults.PlannedWork = work.DefaultPlannedWorkMinutes
	}
	if _, ok := work.FindPlan(plans, defaults.Plan); !ok {
		defaults.Plan = plans[0].Name
	}
	t := &Tracker{
		store:    store,
		plans:    plans,
		defaults: defaults,
		logger:   logger,
		now:      time.Now,
	}
	t.session = t.fresh()
	return t
}

func (t *Tracker) fresh() Session {
	return Session{
		Plan:        t.defaults.Plan,
		Status:      StatusStopped,
		Breaks:      []breaks.Break{},
		PlannedWork: t.defaults.PlannedWork,
	}
}

// Load rehydrates today's session. A session from another day or a blob
// that cannot be decoded is discarded. Any other storage failure keeps the
// session already in memory and is returned for reporting only.
func (t *Tracker) Load() error {
	t.mu.Lock()
	wasEnded := !t.session.EndTime.IsZero()
	err := t.loadLocked()
	ended := !t.session.EndTime.IsZero()
	onStop := t.onStop
	t.mu.Unlock()

	if ended && !wasEnded && onStop != nil {
		onStop()
	}
	return err
}

func (t *Tracker) loadLocked() error {
	now := t.now()

	var rec sessionRecord
	err := t.store.Get(storage.KeySession, &rec)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		t.session = t.fresh()
		return nil
	case storage.KindOf(err) == storage.KindDeserialization:
		t.logger.Warn("discarding corrupt session state", "error", err)
		t.session = t.fresh()
		t.discard()
		return nil
	case err != nil:
		t.logger.Warn("session state unavailable, keeping current state", "error", err)
		return err
	}

	if day := recordDay(rec, now.Location()); day != now.Format(dateLayout) {
		t.logger.Info("discarding session from another day", "date", day)
		t.session = t.fresh()
		t.discard()
		return nil
	}

	session := decodeSession(rec, now.Location())
	if _, ok := work.FindPlan(t.plans, session.Plan); !ok {
		session.Plan = t.defaults.Plan
	}
	if session.PlannedWork <= 0 {
		session.PlannedWork = t.defaults.PlannedWork
	}
	t.session = session
	t.logger.Debug("session loaded", "status", t.session.Status, "breaks", len(t.session.Breaks))
	return nil
}

func (t *Tracker) discard() {
	if err := t.store.Remove(storage.KeySession); err != nil {
		t.logger.Warn("failed to remove stale session", "error", err)
	}
}

// save persists the session. The in-memory state stays authoritative if
// the store fails.
func (t *Tracker) save() error {
	if err := t.store.Set(storage.KeySession, encodeSession(t.session, t.now())); err != nil {
		t.logger.Warn("failed to persist session", "error", err)
		return fmt.Errorf("%w: %w", ErrNotPersisted, err)
	}
	return nil
}

// Session returns a copy of the current state.
func (t *Tracker) Session() Session {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.session.Clone()
}

// Summary computes the display values for now.
func (t *Tracker) Summary() Summary {
	t.mu.Lock()
	defer t.mu.Unlock()
	return Summarize(t.session, t.now())
}

// Start begins the day at the given "HH:MM" today, or now if empty.
func (t *Tracker) Start(hhmm string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.session.Status != StatusStopped {
		return ErrAlreadyStarted
	}
	if !t.session.EndTime.IsZero() {
		return ErrDayFinished
	}

	now := t.now()
	start := now
	if hhmm != "" {
		tod, err := breaks.ParseTimeOfDay(hhmm)
		if err != nil {
			return err
		}
		start = tod.On(now)
		if start.After(now) {
			return ErrStartInFuture
		}
	}

	if plan := t.planLocked(); !plan.Allows(start) {
		t.logger.Warn("start outside the plan's working window", "plan", plan.Name, "start", start.Format("15:04"))
	}

	t.session.StartTime = start
	t.session.Status = StatusRunning
	t.logger.Info("work started", "start", start.Format("15:04"))
	return t.save()
}

// Pause opens an unplanned break starting now.
func (t *Tracker) Pause() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.session.Status != StatusRunning {
		return ErrNotRunning
	}
	now := t.now()
	if _, i := freezePoint(t.session.StartTime, t.session.Breaks, now); i >= 0 {
		return ErrBreakActive
	}

	t.session.Breaks = append(t.session.Breaks, breaks.Opened(breaks.TimeOfDayOf(now)))
	t.session.Status = StatusPaused
	t.logger.Info("work paused", "at", now.Format("15:04"))
	return t.save()
}

// Resume ends the break worked time is frozen at, which is whichever of the
// active scheduled break and the open break started first. Without a break
// in progress it only sets the status back to running.
func (t *Tracker) Resume() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.session.Status == StatusStopped {
		return ErrNotRunning
	}
	now := t.now()
	if _, i := freezePoint(t.session.StartTime, t.session.Breaks, now); i >= 0 {
		t.closeBreak(i, breaks.TimeOfDayOf(now))
	}

	t.session.Status = StatusRunning
	t.logger.Info("work resumed", "at", now.Format("15:04"))
	return t.save()
}

// closeBreak ends break i at end. Concrete and open breaks starting inside
// the closed interval are absorbed into it, including a scheduled break
// still running at end.
func (t *Tracker) closeBreak(i int, end breaks.TimeOfDay) {
	b := &t.session.Breaks[i]
	b.End = end.Ptr()
	b.Sync()

	start := *b.Start
	kept := t.session.Breaks[:0]
	for j, other := range t.session.Breaks {
		if j != i && absorbed(other, start, end) {
			t.logger.Debug("absorbing break into resumed break", "start", other.Start.String(), "kind", other.Kind())
			continue
		}
		kept = append(kept, other)
	}
	t.session.Breaks = kept
}

func absorbed(b breaks.Break, start, end breaks.TimeOfDay) bool {
	switch b.Kind() {
	case breaks.KindConcrete, breaks.KindOpen:
		return *b.Start >= start && *b.Start < end
	default:
		return false
	}
}

// Stop ends the day. An open break is left open.
func (t *Tracker) Stop() error {
	t.mu.Lock()
	if t.session.Status == StatusStopped {
		t.mu.Unlock()
		return ErrNotRunning
	}
	now := t.now()
	t.session.Status = StatusStopped
	t.session.EndTime = now
	t.logger.Info("work stopped", "at", now.Format("15:04"))
	err := t.save()
	onStop := t.onStop
	t.mu.Unlock()

	if onStop != nil {
		onStop()
	}
	return err
}

// SetOnStop sets a callback run once the day ends, by Stop or by a reload
// that finds the day stopped elsewhere.
func (t *Tracker) SetOnStop(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onStop = fn
}

// Reset discards the tracked day.
func (t *Tracker) Reset() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.session = t.fresh()
	if err := t.store.Remove(storage.KeySession); err != nil {
		return fmt.Errorf("%w: %w", ErrNotPersisted, err)
	}
	return nil
}

// AddPlannedBreak appends a break with an intended duration only.
func (t *Tracker) AddPlannedBreak(minutes int) error {
	return t.AddBreak(breaks.Planned(minutes))
}

// AddBreak appends b after validating it against the existing breaks.
func (t *Tracker) AddBreak(b breaks.Break) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	b = b.Clone()
	if err := checkBreak(b); err != nil {
		return err
	}
	b.Sync()
	if err := breaks.ValidateOverlap(b, t.session.Breaks).Err(); err != nil {
		return err
	}
	t.session.Breaks = append(t.session.Breaks, b)
	return t.save()
}

// DeleteBreak removes the break at index.
func (t *Tracker) DeleteBreak(index int) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if index < 0 || index >= len(t.session.Breaks) {
		return ErrBreakIndex
	}
	t.session.Breaks = append(t.session.Breaks[:index], t.session.Breaks[index+1:]...)
	return t.save()
}

// UpdateBreakStart moves the start of break index. A planned break with a
// duration becomes scheduled at start.
func (t *Tracker) UpdateBreakStart(index int, start breaks.TimeOfDay) error {
	return t.updateBreak(index, func(b *breaks.Break) error {
		b.Start = start.Ptr()
		if b.End == nil && b.Duration > 0 {
			b.End = start.Add(b.Duration).Ptr()
		}
		return nil
	})
}

// UpdateBreakEnd moves the end of break index. A planned break with a
// duration gets its start derived from the end.
func (t *Tracker) UpdateBreakEnd(index int, end breaks.TimeOfDay) error {
	return t.updateBreak(index, func(b *breaks.Break) error {
		if b.Start == nil {
			start := end.Add(-b.Duration)
			if b.Duration <= 0 || !start.Valid() {
				return ErrMissingStart
			}
			b.Start = start.Ptr()
		}
		b.End = end.Ptr()
		return nil
	})
}

// UpdateBreakDuration changes the length of break index. Started breaks get
// their end moved to start plus minutes.
func (t *Tracker) UpdateBreakDuration(index int, minutes int) error {
	return t.updateBreak(index, func(b *breaks.Break) error {
		if minutes <= 0 {
			return ErrInvalidDuration
		}
		b.Duration = minutes
		if b.Start != nil {
			end := b.Start.Add(minutes)
			if !end.Valid() {
				return ErrInvalidDuration
			}
			b.End = end.Ptr()
		}
		return nil
	})
}

// updateBreak applies edit to a copy of break index and only stores it if
// the result is valid and overlaps nothing.
func (t *Tracker) updateBreak(index int, edit func(*breaks.Break) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if index < 0 || index >= len(t.session.Breaks) {
		return ErrBreakIndex
	}
	candidate := t.session.Breaks[index].Clone()
	if err := edit(&candidate); err != nil {
		return err
	}
	if err := checkBreak(candidate); err != nil {
		return err
	}
	candidate.Sync()
	if err := breaks.ValidateAt(t.session.Breaks, index, candidate).Err(); err != nil {
		return err
	}
	t.session.Breaks[index] = candidate
	return t.save()
}

func checkBreak(b breaks.Break) error {
	switch b.Kind() {
	case breaks.KindInvalid:
		return ErrInvalidBreak
	case breaks.KindPlanned:
		if b.Duration <= 0 {
			return ErrInvalidDuration
		}
	case breaks.KindConcrete:
		if *b.End < *b.Start {
			return ErrEndBeforeStart
		}
	}
	return nil
}

// SetPlan switches the active work plan.
func (t *Tracker) SetPlan(name string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := work.FindPlan(t.plans, name); !ok {
		return fmt.Errorf("%w: %s", ErrUnknownPlan, name)
	}
	t.session.Plan = name
	return t.save()
}

// SetPlannedWork changes the target minutes for the day.
func (t *Tracker) SetPlannedWork(minutes int) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if minutes <= 0 {
		return fmt.Errorf("planned work must be positive, got %d", minutes)
	}
	t.session.PlannedWork = minutes
	return t.save()
}

// Plan returns the session's work plan.
func (t *Tracker) Plan() work.WorkPlan {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.planLocked()
}

func (t *Tracker) planLocked() work.WorkPlan {
	if p, ok := work.FindPlan(t.plans, t.session.Plan); ok {
		return p
	}
	return t.plans[0]
}

// Plans lists the configured work plans.
func (t *Tracker) Plans() []work.WorkPlan {
	return append([]work.WorkPlan(nil), t.plans...)
}

// WorkData returns the compliance input for now.
func (t *Tracker) WorkData() work.WorkData {
	return t.Summary().WorkData()
}

// Ended reports whether the day was stopped.
func (t *Tracker) Ended() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return !t.session.EndTime.IsZero()
}
