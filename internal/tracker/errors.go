package tracker

import "errors"

var (
	// ErrAlreadyStarted is returned by Start while the day is being tracked
	ErrAlreadyStarted = errors.New("work already started")

	// ErrDayFinished is returned by Start after the day was stopped; Reset starts over
	ErrDayFinished = errors.New("work already stopped for today")

	// ErrStartInFuture is returned when the manual start time lies ahead of now
	ErrStartInFuture = errors.New("start time is in the future")

	// ErrNotRunning is returned by Pause, Resume and Stop on a stopped session
	ErrNotRunning = errors.New("work is not running")

	// ErrBreakActive is returned by Pause while a break is in progress
	ErrBreakActive = errors.New("a break is already in progress")

	// ErrBreakIndex is returned for a break index outside the list
	ErrBreakIndex = errors.New("no break at that index")

	// ErrInvalidBreak is returned for a break with an end but no start
	ErrInvalidBreak = errors.New("invalid break")

	// ErrEndBeforeStart is returned when a break would end before it starts
	ErrEndBeforeStart = errors.New("break end is before its start")

	// ErrMissingStart is returned when a break end cannot be placed without a start
	ErrMissingStart = errors.New("break has no start")

	// ErrInvalidDuration is returned for non-positive or day-crossing durations
	ErrInvalidDuration = errors.New("invalid break duration")

	// ErrUnknownPlan is returned by SetPlan for a name not in the plan list
	ErrUnknownPlan = errors.New("unknown work plan")

	// ErrNotPersisted wraps storage failures; the change is kept in memory
	ErrNotPersisted = errors.New("change not persisted")
)
