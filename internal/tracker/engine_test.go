package tracker

import (
	"testing"
	"time"

	"github.com/arbeitszeit/internal/breaks"
)

func at(h, m int) time.Time {
	return time.Date(2024, 3, 12, h, m, 0, 0, time.Local)
}

func span(h1, m1, h2, m2 int) breaks.Break {
	return breaks.Between(breaks.At(h1, m1), breaks.At(h2, m2))
}

func TestComputeWorkedMinutesScenarios(t *testing.T) {
	tests := []struct {
		name     string
		start    time.Time
		list     []breaks.Break
		status   Status
		now      time.Time
		expected int
	}{
		{"stopped", at(9, 0), nil, StatusStopped, at(12, 0), 0},
		{"no start", time.Time{}, nil, StatusRunning, at(12, 0), 0},
		{"planned break not subtracted", at(9, 59), []breaks.Break{breaks.Planned(30)}, StatusRunning, at(10, 0), 1},
		// One hour elapsed with the 30 minute break just over. Starting at
		// 08:00 would give 90, so the scenario is pinned to a 09:00 start.
		{"break just completed", at(9, 0), []breaks.Break{span(9, 30, 10, 0)}, StatusRunning, at(10, 0), 30},
		{"active break frozen at start", at(9, 0), []breaks.Break{span(9, 45, 10, 15)}, StatusRunning, at(10, 0), 45},
		{"after active break", at(9, 0), []breaks.Break{span(9, 45, 10, 15)}, StatusRunning, at(10, 30), 60},
		{"break before start ignored", at(9, 0), []breaks.Break{span(8, 0, 8, 30)}, StatusRunning, at(10, 0), 60},
		{"break straddling start", at(9, 0), []breaks.Break{span(8, 45, 9, 15)}, StatusRunning, at(10, 0), 45},
		{"future break ignored", at(9, 0), []breaks.Break{span(12, 0, 12, 30)}, StatusRunning, at(10, 0), 60},
		{"paused counts like running", at(9, 0), nil, StatusPaused, at(9, 30), 30},
		{"malformed break ignored", at(9, 0), []breaks.Break{{End: breaks.At(9, 30).Ptr()}}, StatusRunning, at(10, 0), 60},
		{"open break freezes", at(9, 0), []breaks.Break{breaks.Opened(breaks.At(10, 0))}, StatusPaused, at(10, 40), 60},
		{"now before start", at(9, 0), nil, StatusRunning, at(8, 0), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeWorkedMinutes(tt.start, tt.list, tt.status, tt.now)
			if got != tt.expected {
				t.Errorf("ComputeWorkedMinutes() = %d, want %d", got, tt.expected)
			}
		})
	}
}

func TestComputeWorkedMinutesTruncatesSeconds(t *testing.T) {
	start := at(9, 0).Add(40 * time.Second)
	now := at(9, 10).Add(20 * time.Second)
	if got := ComputeWorkedMinutes(start, nil, StatusRunning, now); got != 10 {
		t.Errorf("ComputeWorkedMinutes() = %d, want 10", got)
	}

	list := []breaks.Break{breaks.Between(breaks.At(9, 5)+breaks.TimeOfDay(50*time.Second), breaks.At(9, 30))}
	if got := ComputeWorkedMinutes(at(9, 0), list, StatusRunning, at(9, 20)); got != 5 {
		t.Errorf("ComputeWorkedMinutes() during break = %d, want 5", got)
	}
}

func TestComputeWorkedMinutesFreezeIsMonotonic(t *testing.T) {
	start := at(9, 0)
	list := []breaks.Break{span(9, 45, 10, 15), span(11, 0, 11, 10)}

	prev := -1
	for now := start; now.Before(at(12, 0)); now = now.Add(30 * time.Second) {
		got := ComputeWorkedMinutes(start, list, StatusRunning, now)
		if got < prev {
			t.Fatalf("worked minutes decreased at %s: %d -> %d", now.Format("15:04:05"), prev, got)
		}
		inBreak := !now.Before(at(9, 45)) && now.Before(at(10, 15))
		if inBreak && got != 45 {
			t.Fatalf("worked minutes at %s = %d, want frozen 45", now.Format("15:04:05"), got)
		}
		prev = got
	}
	if prev != 139 {
		t.Errorf("worked minutes at 11:59:30 = %d, want 139", prev)
	}
}

func TestComputeWorkedMinutesIsPure(t *testing.T) {
	list := []breaks.Break{span(9, 45, 10, 15), breaks.Planned(30)}
	a := ComputeWorkedMinutes(at(9, 0), list, StatusRunning, at(11, 0))
	b := ComputeWorkedMinutes(at(9, 0), list, StatusRunning, at(11, 0))
	if a != b {
		t.Errorf("ComputeWorkedMinutes() not idempotent: %d != %d", a, b)
	}
	e1 := ComputeEndTime(at(9, 0), list, 480, a, StatusRunning, at(11, 0))
	e2 := ComputeEndTime(at(9, 0), list, 480, a, StatusRunning, at(11, 0))
	if e1 != e2 {
		t.Errorf("ComputeEndTime() not idempotent: %s != %s", e1, e2)
	}
}

func TestComputeBreakMinutes(t *testing.T) {
	tests := []struct {
		name     string
		list     []breaks.Break
		now      time.Time
		expected int
	}{
		{"none", nil, at(12, 0), 0},
		{"completed", []breaks.Break{span(10, 0, 10, 30)}, at(12, 0), 30},
		{"in progress", []breaks.Break{span(10, 0, 10, 30)}, at(10, 10), 10},
		{"planned only", []breaks.Break{breaks.Planned(30)}, at(12, 0), 0},
		{"open", []breaks.Break{breaks.Opened(breaks.At(11, 30))}, at(12, 0), 30},
		{"before start", []breaks.Break{span(7, 0, 7, 30)}, at(12, 0), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ComputeBreakMinutes(at(8, 0), tt.list, tt.now); got != tt.expected {
				t.Errorf("ComputeBreakMinutes() = %d, want %d", got, tt.expected)
			}
		})
	}
}

func TestComputeEndTime(t *testing.T) {
	start := at(8, 0)

	tests := []struct {
		name     string
		list     []breaks.Break
		status   Status
		now      time.Time
		expected string
	}{
		{"no breaks", nil, StatusRunning, at(9, 0), "16:00"},
		{"planned break pushes out", []breaks.Break{breaks.Planned(30)}, StatusRunning, at(9, 0), "16:30"},
		{"completed break", []breaks.Break{span(12, 0, 12, 30)}, StatusRunning, at(13, 0), "16:30"},
		{"future concrete break not yet counted", []breaks.Break{span(12, 0, 12, 30)}, StatusRunning, at(9, 0), "16:00"},
		{"active break adds remainder", []breaks.Break{span(12, 0, 12, 30)}, StatusRunning, at(12, 10), "16:20"},
		{"open break adds elapsed", []breaks.Break{breaks.Opened(breaks.At(12, 0))}, StatusPaused, at(12, 15), "16:15"},
		{"stopped", nil, StatusStopped, at(9, 0), EndTimePlaceholder},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			worked := ComputeWorkedMinutes(start, tt.list, tt.status, tt.now)
			got := ComputeEndTime(start, tt.list, 480, worked, tt.status, tt.now)
			if got != tt.expected {
				t.Errorf("ComputeEndTime() = %s, want %s", got, tt.expected)
			}
		})
	}
}

func TestComputeEndTimeWithoutStart(t *testing.T) {
	if got := ComputeEndTime(time.Time{}, nil, 480, 0, StatusRunning, at(9, 0)); got != EndTimePlaceholder {
		t.Errorf("ComputeEndTime() = %s, want placeholder", got)
	}
}

func TestSummarize(t *testing.T) {
	s := Session{
		Plan:        "fulltime",
		Status:      StatusRunning,
		StartTime:   at(8, 0),
		Breaks:      []breaks.Break{span(12, 0, 12, 30)},
		PlannedWork: 480,
	}

	sum := Summarize(s, at(12, 10))
	if !sum.OnBreak || sum.Mode != breaks.ModeBreak || sum.ActiveBreak != 0 {
		t.Errorf("Summarize() during break = %+v", sum)
	}
	if sum.WorkedMinutes != 240 || sum.RemainingWork != 240 {
		t.Errorf("Summarize() worked/remaining = %d/%d, want 240/240", sum.WorkedMinutes, sum.RemainingWork)
	}

	sum = Summarize(s, at(17, 30))
	if sum.Overtime != 60 || sum.RemainingWork != 0 {
		t.Errorf("Summarize() overtime = %d remaining = %d, want 60/0", sum.Overtime, sum.RemainingWork)
	}
	data := sum.WorkData()
	if data.TotalWorkTime != 540 || data.TotalBreakTime != 30 || data.IsOnBreak {
		t.Errorf("WorkData() = %+v", data)
	}
}

func TestSummarizeFinishedDay(t *testing.T) {
	s := Session{
		Status:      StatusStopped,
		StartTime:   at(8, 0),
		EndTime:     at(16, 30),
		Breaks:      []breaks.Break{span(12, 0, 12, 30)},
		PlannedWork: 480,
	}
	sum := Summarize(s, at(20, 0))
	if sum.WorkedMinutes != 480 {
		t.Errorf("Summarize() of finished day worked = %d, want 480", sum.WorkedMinutes)
	}
	if sum.EndTime != EndTimePlaceholder {
		t.Errorf("Summarize() of finished day end = %s, want placeholder", sum.EndTime)
	}
}

func TestComputeWorkedMinutesPauseSpanningScheduledBreak(t *testing.T) {
	list := []breaks.Break{span(12, 0, 12, 15), breaks.Opened(breaks.At(11, 50))}
	for _, now := range []time.Time{at(11, 55), at(12, 5), at(12, 20)} {
		if got := ComputeWorkedMinutes(at(8, 0), list, StatusPaused, now); got != 230 {
			t.Errorf("ComputeWorkedMinutes() at %s = %d, want frozen 230", now.Format("15:04"), got)
		}
	}
}
