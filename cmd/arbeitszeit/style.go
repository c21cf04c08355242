package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/arbeitszeit/internal/breaks"
	"github.com/arbeitszeit/internal/tracker"
	"github.com/arbeitszeit/internal/work"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	workingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#04B575")).
			Bold(true)

	breakStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFA500")).
			Bold(true)

	idleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F7DC6F")).
			Bold(true)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#874BFD")).
			Padding(0, 1)
)

func hm(m int) string {
	return fmt.Sprintf("%dh %02dm", m/60, m%60)
}

func statusLabel(sum tracker.Summary, ended bool) string {
	switch {
	case sum.OnBreak:
		return breakStyle.Render("on break")
	case sum.Status == tracker.StatusRunning:
		return workingStyle.Render("working")
	case ended:
		return idleStyle.Render("finished")
	default:
		return idleStyle.Render("not started")
	}
}

func renderStatus(s tracker.Session, sum tracker.Summary, warning work.Warning) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s  %s\n", titleStyle.Render("Arbeitszeit"), statusLabel(sum, !s.EndTime.IsZero()))
	if !s.StartTime.IsZero() {
		fmt.Fprintf(&sb, "Start:     %s\n", s.StartTime.Format("15:04"))
	}
	if !s.EndTime.IsZero() {
		fmt.Fprintf(&sb, "Stopped:   %s\n", s.EndTime.Format("15:04"))
	}
	fmt.Fprintf(&sb, "Worked:    %s of %s\n", hm(sum.WorkedMinutes), hm(sum.PlannedWork))
	fmt.Fprintf(&sb, "Breaks:    %s\n", hm(sum.BreakMinutes))
	if sum.Overtime > 0 {
		fmt.Fprintf(&sb, "Overtime:  %s\n", hm(sum.Overtime))
	} else {
		fmt.Fprintf(&sb, "Remaining: %s\n", hm(sum.RemainingWork))
	}
	fmt.Fprintf(&sb, "End:       %s\n", sum.EndTime)
	fmt.Fprintf(&sb, "Plan:      %s", sum.PlanName)
	if warning.Active() {
		fmt.Fprintf(&sb, "\n%s", warningStyle.Render("! "+warning.Message))
	}
	return boxStyle.Render(sb.String())
}

func renderBreaks(list []breaks.Break) string {
	if len(list) == 0 {
		return "No breaks."
	}
	var sb strings.Builder
	for i, b := range list {
		fmt.Fprintf(&sb, "%2d  %-8s  %s-%s  %3d min\n", i+1, b.Kind(), tod(b.Start), tod(b.End), b.Minutes())
	}
	return strings.TrimRight(sb.String(), "\n")
}

func tod(d *breaks.TimeOfDay) string {
	if d == nil {
		return "  ?  "
	}
	return d.String()
}

// describe turns mutation errors into a message listing every conflict.
func describe(err error) error {
	var overlap *breaks.OverlapError
	if errors.As(err, &overlap) {
		return fmt.Errorf("break rejected:\n  %s", strings.Join(overlap.Errors, "\n  "))
	}
	if errors.Is(err, tracker.ErrNotPersisted) {
		logger.Warn("change kept for this run only", "error", err)
		return nil
	}
	return err
}
