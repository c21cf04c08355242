package tracker

import (
	"time"

	"github.com/arbeitszeit/internal/breaks"
)

// Session is the tracked day.
type Session struct {
	Plan        string
	Status      Status
	StartTime   time.Time // zero until started
	EndTime     time.Time // zero until stopped
	Breaks      []breaks.Break
	PlannedWork int
}

// Clone returns a deep copy of s.
func (s Session) Clone() Session {
	c := s
	c.Breaks = breaks.CloneAll(s.Breaks)
	return c
}

// sessionRecord is the persisted JSON shape. Times are ISO-8601 strings;
// break times are written on the session's day.
type sessionRecord struct {
	Date        string        `json:"date"`
	Plan        string        `json:"plan"`
	Status      Status        `json:"status"`
	StartTime   *string       `json:"startTime"`
	EndTime     *string       `json:"endTime,omitempty"`
	Breaks      []breakRecord `json:"breaks"`
	PlannedWork int           `json:"plannedWork"`
}

type breakRecord struct {
	Start    *string `json:"start"`
	End      *string `json:"end"`
	Duration int     `json:"duration"`
}

const dateLayout = "2006-01-02"

func encodeSession(s Session, now time.Time) sessionRecord {
	day := now
	if !s.StartTime.IsZero() {
		day = s.StartTime
	}
	rec := sessionRecord{
		Date:        day.Format(dateLayout),
		Plan:        s.Plan,
		Status:      s.Status,
		StartTime:   formatTime(s.StartTime),
		EndTime:     formatTime(s.EndTime),
		Breaks:      make([]breakRecord, 0, len(s.Breaks)),
		PlannedWork: s.PlannedWork,
	}
	for _, b := range s.Breaks {
		br := breakRecord{Duration: b.Duration}
		if b.Start != nil && b.Start.Valid() {
			br.Start = formatTime(b.Start.On(day))
		}
		if b.End != nil && b.End.Valid() {
			br.End = formatTime(b.End.On(day))
		}
		rec.Breaks = append(rec.Breaks, br)
	}
	return rec
}

// decodeSession converts a record back. Unparseable times become invalid
// breaks rather than errors, so they are skipped by every calculation.
func decodeSession(rec sessionRecord, loc *time.Location) Session {
	s := Session{
		Plan:        rec.Plan,
		Status:      rec.Status,
		StartTime:   parseTime(rec.StartTime, loc),
		EndTime:     parseTime(rec.EndTime, loc),
		Breaks:      make([]breaks.Break, 0, len(rec.Breaks)),
		PlannedWork: rec.PlannedWork,
	}
	switch s.Status {
	case StatusStopped, StatusRunning, StatusPaused:
	default:
		s.Status = StatusStopped
	}
	if s.StartTime.IsZero() && s.Status != StatusStopped {
		s.Status = StatusStopped
	}
	for _, br := range rec.Breaks {
		b := breaks.Break{Duration: br.Duration}
		b.Start = parseTimeOfDay(br.Start, loc)
		b.End = parseTimeOfDay(br.End, loc)
		b.Sync()
		s.Breaks = append(s.Breaks, b)
	}
	return s
}

// recordDay returns the calendar day a record belongs to.
func recordDay(rec sessionRecord, loc *time.Location) string {
	if start := parseTime(rec.StartTime, loc); !start.IsZero() {
		return start.Format(dateLayout)
	}
	return rec.Date
}

func formatTime(t time.Time) *string {
	if t.IsZero() {
		return nil
	}
	s := t.Format(time.RFC3339Nano)
	return &s
}

func parseTime(s *string, loc *time.Location) time.Time {
	if s == nil {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, *s)
	if err != nil {
		return time.Time{}
	}
	return t.In(loc)
}

func parseTimeOfDay(s *string, loc *time.Location) *breaks.TimeOfDay {
	if s == nil {
		return nil
	}
	t := parseTime(s, loc)
	if t.IsZero() {
		return breaks.TimeOfDay(-1).Ptr()
	}
	return breaks.TimeOfDayOf(t).Ptr()
}
