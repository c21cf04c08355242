package breaks

import (
	"fmt"
	"time"
)

// TimeOfDay is a wall-clock offset from local midnight. Breaks only carry
// the time of day; the calendar day comes from the session they belong to.
type TimeOfDay time.Duration

const fullDay = TimeOfDay(24 * time.Hour)

// At builds a TimeOfDay from hours and minutes.
func At(hour, minute int) TimeOfDay {
	return TimeOfDay(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
}

// TimeOfDayOf extracts the wall-clock part of t in its own location.
func TimeOfDayOf(t time.Time) TimeOfDay {
	return TimeOfDay(time.Duration(t.Hour())*time.Hour +
		time.Duration(t.Minute())*time.Minute +
		time.Duration(t.Second())*time.Second +
		time.Duration(t.Nanosecond()))
}

// ParseTimeOfDay accepts "15:04", "3:04" and "15:04:05".
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	for _, format := range []string{"15:04", "3:04", "15:04:05"} {
		if t, err := time.Parse(format, s); err == nil {
			return TimeOfDayOf(t), nil
		}
	}
	return 0, fmt.Errorf("invalid time format: %q", s)
}

// Valid reports whether d lies within a single day.
func (d TimeOfDay) Valid() bool {
	return d >= 0 && d < fullDay
}

// On places d on the calendar day of ref. The wall clock is rebuilt with
// time.Date so the result stays correct on DST transition days.
func (d TimeOfDay) On(ref time.Time) time.Time {
	dur := time.Duration(d)
	h := int(dur / time.Hour)
	m := int(dur % time.Hour / time.Minute)
	s := int(dur % time.Minute / time.Second)
	ns := int(dur % time.Second)
	return time.Date(ref.Year(), ref.Month(), ref.Day(), h, m, s, ns, ref.Location())
}

// Add shifts d by n minutes.
func (d TimeOfDay) Add(minutes int) TimeOfDay {
	return d + TimeOfDay(time.Duration(minutes)*time.Minute)
}

// Minutes is d in whole minutes since midnight.
func (d TimeOfDay) Minutes() int {
	return int(time.Duration(d) / time.Minute)
}

func (d TimeOfDay) String() string {
	if !d.Valid() {
		return "--:--"
	}
	dur := time.Duration(d)
	return fmt.Sprintf("%02d:%02d", int(dur/time.Hour), int(dur%time.Hour/time.Minute))
}

// Ptr returns a pointer to a copy of d.
func (d TimeOfDay) Ptr() *TimeOfDay {
	return &d
}
