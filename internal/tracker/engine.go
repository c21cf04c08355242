package tracker

import (
	"math"
	"time"

	"github.com/arbeitszeit/internal/breaks"
	"github.com/arbeitszeit/internal/work"
)

// Status of the tracked day.
type Status string

const (
	StatusStopped Status = "stopped"
	StatusRunning Status = "running"
	StatusPaused  Status = "paused"
)

// EndTimePlaceholder is shown when no end time can be projected.
const EndTimePlaceholder = "--:--"

// freezePoint returns the instant worked time is frozen at: the earlier
// start of the active concrete break and the latest open break that has
// begun, else now. The index is that break's, or -1.
func freezePoint(day time.Time, list []breaks.Break, now time.Time) (time.Time, int) {
	at, idx := now, -1
	if i, ok := breaks.ActiveAt(list, day, now); ok {
		at, idx = list[i].Start.On(day), i
	}
	if i, ok := breaks.LatestOpen(list, day, now); ok {
		if s := list[i].Start.On(day); idx < 0 || s.Before(at) {
			at, idx = s, i
		}
	}
	return at, idx
}

// ComputeWorkedMinutes returns the minutes worked since start, minus the
// concrete breaks taken within that span. During a break the counter is
// frozen at the break's start. Planned breaks do not count until they have
// concrete times.
func ComputeWorkedMinutes(start time.Time, list []breaks.Break, status Status, now time.Time) int {
	if status == StatusStopped || start.IsZero() {
		return 0
	}

	calc, active := freezePoint(start, list, now)
	calc = calc.Truncate(time.Minute)
	from := start.Truncate(time.Minute)

	elapsed := calc.Sub(from).Minutes()
	var taken float64
	for i, b := range list {
		if i == active {
			continue
		}
		bs, be, ok := b.Interval(start)
		if !ok {
			continue
		}
		taken += overlap(bs, be, from, calc).Minutes()
	}

	return max(0, int(math.Round(elapsed-taken)))
}

// ComputeBreakMinutes returns the break time taken between start and now:
// the part of each concrete break inside that span, plus the elapsed part
// of a running open break.
func ComputeBreakMinutes(start time.Time, list []breaks.Break, now time.Time) int {
	if start.IsZero() {
		return 0
	}
	var taken time.Duration
	for _, b := range list {
		switch b.Kind() {
		case breaks.KindConcrete:
			bs, be, _ := b.Interval(start)
			taken += overlap(bs, be, start, now)
		case breaks.KindOpen:
			taken += overlap(b.Start.On(start), now, start, now)
		}
	}
	return int(math.Round(taken.Minutes()))
}

// ComputeEndTime projects the clock time the planned work will be done.
// Completed and planned breaks push the projection out; the active break
// adds what is left of it, an open break what has elapsed so far.
func ComputeEndTime(start time.Time, list []breaks.Break, plannedWork, workedMinutes int, status Status, now time.Time) string {
	end, ok := ProjectEnd(start, list, plannedWork, workedMinutes, status, now)
	if !ok {
		return EndTimePlaceholder
	}
	return end.Format("15:04")
}

// ProjectEnd is ComputeEndTime without the formatting.
func ProjectEnd(start time.Time, list []breaks.Break, plannedWork, workedMinutes int, status Status, now time.Time) (time.Time, bool) {
	if status == StatusStopped || start.IsZero() {
		return time.Time{}, false
	}

	remaining := plannedWork - workedMinutes
	breakTotal := 0
	for _, b := range list {
		switch b.Kind() {
		case breaks.KindPlanned:
			breakTotal += b.Duration
		case breaks.KindConcrete:
			if _, be, _ := b.Interval(start); !now.Before(be) {
				breakTotal += b.Minutes()
			}
		}
	}

	end := start.Add(time.Duration(workedMinutes+remaining+breakTotal) * time.Minute)

	if i, ok := breaks.ActiveAt(list, start, now); ok {
		_, be, _ := list[i].Interval(start)
		end = end.Add(max(0, be.Sub(now)))
	} else if i, ok := breaks.LatestOpen(list, start, now); ok {
		end = end.Add(now.Sub(list[i].Start.On(start)))
	}
	return end, true
}

// Summary is everything a display needs for one instant.
type Summary struct {
	Status        Status
	Mode          breaks.Mode
	WorkedMinutes int
	BreakMinutes  int
	RemainingWork int
	Overtime      int
	EndTime       string
	ActiveBreak   int // index, -1 if none
	OnBreak       bool
	PlannedWork   int
	PlanName      string
}

// Summarize computes the display values for s at now. A finished day
// reports the minutes worked up to its end time.
func Summarize(s Session, now time.Time) Summary {
	worked := ComputeWorkedMinutes(s.StartTime, s.Breaks, s.Status, now)
	if s.Status == StatusStopped && !s.EndTime.IsZero() {
		now = s.EndTime
		worked = ComputeWorkedMinutes(s.StartTime, s.Breaks, StatusRunning, now)
	}
	sum := Summary{
		Status:        s.Status,
		Mode:          breaks.ModeWork,
		WorkedMinutes: worked,
		BreakMinutes:  ComputeBreakMinutes(s.StartTime, s.Breaks, now),
		RemainingWork: max(0, s.PlannedWork-worked),
		Overtime:      max(0, worked-s.PlannedWork),
		EndTime:       ComputeEndTime(s.StartTime, s.Breaks, s.PlannedWork, worked, s.Status, now),
		ActiveBreak:   -1,
		PlannedWork:   s.PlannedWork,
		PlanName:      s.Plan,
	}
	if !s.StartTime.IsZero() {
		if _, i := freezePoint(s.StartTime, s.Breaks, now); i >= 0 {
			sum.ActiveBreak = i
			sum.OnBreak = true
			sum.Mode = breaks.ModeBreak
		}
	}
	return sum
}

// WorkData converts a summary into the compliance input.
func (s Summary) WorkData() work.WorkData {
	return work.WorkData{
		TotalWorkTime:  s.WorkedMinutes,
		TotalBreakTime: s.BreakMinutes,
		IsOnBreak:      s.OnBreak,
	}
}

func overlap(aStart, aEnd, bStart, bEnd time.Time) time.Duration {
	lo := aStart
	if bStart.After(lo) {
		lo = bStart
	}
	hi := aEnd
	if bEnd.Before(hi) {
		hi = bEnd
	}
	return max(0, hi.Sub(lo))
}
