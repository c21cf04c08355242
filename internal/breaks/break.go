package breaks

import (
	"math"
	"time"
)

// Kind classifies a break by which of its times are known.
type Kind int

const (
	// KindPlanned has a duration but no start or end.
	KindPlanned Kind = iota
	// KindOpen has started but not ended yet.
	KindOpen
	// KindConcrete has both start and end.
	KindConcrete
	// KindInvalid has an end without a start or a time outside the day.
	KindInvalid
)

func (k Kind) String() string {
	switch k {
	case KindPlanned:
		return "planned"
	case KindOpen:
		return "open"
	case KindConcrete:
		return "concrete"
	default:
		return "invalid"
	}
}

// Break is a single rest interval within the tracked day.
type Break struct {
	Start    *TimeOfDay
	End      *TimeOfDay
	Duration int // minutes
}

// Planned returns a break with an intended duration only.
func Planned(minutes int) Break {
	return Break{Duration: minutes}
}

// Opened returns a break that started at start and has not ended.
func Opened(start TimeOfDay) Break {
	return Break{Start: start.Ptr()}
}

// Between returns a concrete break with its duration derived from the interval.
func Between(start, end TimeOfDay) Break {
	b := Break{Start: start.Ptr(), End: end.Ptr()}
	b.Duration = b.derivedMinutes()
	return b
}

// Kind reports which variant b is.
func (b Break) Kind() Kind {
	switch {
	case b.Start == nil && b.End == nil:
		return KindPlanned
	case b.Start == nil:
		return KindInvalid
	case !b.Start.Valid():
		return KindInvalid
	case b.End == nil:
		return KindOpen
	case !b.End.Valid():
		return KindInvalid
	default:
		return KindConcrete
	}
}

// Interval returns the absolute bounds of a concrete break on the given day.
func (b Break) Interval(day time.Time) (start, end time.Time, ok bool) {
	if b.Kind() != KindConcrete {
		return time.Time{}, time.Time{}, false
	}
	return b.Start.On(day), b.End.On(day), true
}

// Minutes is the break length: derived from the interval for concrete
// breaks, the intended duration otherwise.
func (b Break) Minutes() int {
	if b.Kind() == KindConcrete {
		return b.derivedMinutes()
	}
	return b.Duration
}

// Sync recomputes Duration from start and end when both are known.
func (b *Break) Sync() {
	if b.Kind() == KindConcrete {
		b.Duration = b.derivedMinutes()
	}
}

func (b Break) derivedMinutes() int {
	return int(math.Round(time.Duration(*b.End - *b.Start).Minutes()))
}

// Clone returns a deep copy of b.
func (b Break) Clone() Break {
	c := Break{Duration: b.Duration}
	if b.Start != nil {
		c.Start = b.Start.Ptr()
	}
	if b.End != nil {
		c.End = b.End.Ptr()
	}
	return c
}

// CloneAll deep copies a break list.
func CloneAll(list []Break) []Break {
	out := make([]Break, len(list))
	for i, b := range list {
		out[i] = b.Clone()
	}
	return out
}
