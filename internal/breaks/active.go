package breaks

import "time"

// Mode is what the display should show.
type Mode string

const (
	ModeWork  Mode = "work"
	ModeBreak Mode = "break"
)

// ActiveAt returns the index of the concrete break containing instant when
// the list is placed on day. Intervals are half-open, so a break ending
// exactly at instant is not active. When several breaks contain instant the
// one ending last wins.
func ActiveAt(list []Break, day, instant time.Time) (int, bool) {
	found := -1
	var foundEnd time.Time
	for i, b := range list {
		start, end, ok := b.Interval(day)
		if !ok {
			continue
		}
		if instant.Before(start) || !instant.Before(end) {
			continue
		}
		if found < 0 || end.After(foundEnd) {
			found, foundEnd = i, end
		}
	}
	return found, found >= 0
}

// Resolve returns the break active at instant, placing the list on the
// instant's own calendar day.
func Resolve(list []Break, instant time.Time) (Break, bool) {
	i, ok := ActiveAt(list, instant, instant)
	if !ok {
		return Break{}, false
	}
	return list[i], true
}

// LatestOpen returns the most recently added open break that started at or
// before instant.
func LatestOpen(list []Break, day, instant time.Time) (int, bool) {
	for i := len(list) - 1; i >= 0; i-- {
		b := list[i]
		if b.Kind() != KindOpen {
			continue
		}
		if b.Start.On(day).After(instant) {
			continue
		}
		return i, true
	}
	return -1, false
}

// DisplayMode is ModeBreak iff a break is active at instant.
func DisplayMode(list []Break, instant time.Time) Mode {
	if _, ok := Resolve(list, instant); ok {
		return ModeBreak
	}
	return ModeWork
}
