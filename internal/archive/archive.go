package archive

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/arbeitszeit/internal/autostop"
	"github.com/arbeitszeit/internal/breaks"
	"github.com/arbeitszeit/internal/tracker"
)

const dateLayout = "2006-01-02"

// Archiver writes day reports to markdown files
type Archiver struct {
	historyPath string
}

// New creates a new Archiver
func New(historyPath string) *Archiver {
	return &Archiver{historyPath: historyPath}
}

// Report is everything written for one day.
type Report struct {
	Session     tracker.Session
	Summary     tracker.Summary
	Events      []autostop.AutoStopEvent
	GeneratedAt time.Time
}

// Day is the calendar day the report covers.
func (r Report) Day() time.Time {
	if !r.Session.StartTime.IsZero() {
		return r.Session.StartTime
	}
	return r.GeneratedAt
}

// ArchiveDay writes the report to <historyPath>/<date>.md, replacing an
// earlier export of the same day, and returns the file path.
func (a *Archiver) ArchiveDay(r Report) (string, error) {
	if err := os.MkdirAll(a.historyPath, 0755); err != nil {
		return "", fmt.Errorf("failed to create history directory: %w", err)
	}

	filePath := filepath.Join(a.historyPath, r.Day().Format(dateLayout)+".md")
	if err := os.WriteFile(filePath, []byte(GenerateMarkdown(r)), 0644); err != nil {
		return "", fmt.Errorf("failed to write archive: %w", err)
	}
	return filePath, nil
}

// GenerateMarkdown renders r.
func GenerateMarkdown(r Report) string {
	var sb strings.Builder
	s, sum := r.Session, r.Summary

	fmt.Fprintf(&sb, "# %s\n\n", r.Day().Format("Monday, 2 January 2006"))

	sb.WriteString("## Summary\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	fmt.Fprintf(&sb, "| Plan | %s |\n", s.Plan)
	fmt.Fprintf(&sb, "| Status | %s |\n", s.Status)
	fmt.Fprintf(&sb, "| Start | %s |\n", clock(s.StartTime))
	fmt.Fprintf(&sb, "| End | %s |\n", clock(s.EndTime))
	fmt.Fprintf(&sb, "| Projected End | %s |\n", sum.EndTime)
	fmt.Fprintf(&sb, "| Worked | %s |\n", minutes(sum.WorkedMinutes))
	fmt.Fprintf(&sb, "| Breaks | %s |\n", minutes(sum.BreakMinutes))
	fmt.Fprintf(&sb, "| Planned | %s |\n", minutes(sum.PlannedWork))
	fmt.Fprintf(&sb, "| Remaining | %s |\n", minutes(sum.RemainingWork))
	fmt.Fprintf(&sb, "| Overtime | %s |\n", minutes(sum.Overtime))
	sb.WriteString("\n")

	sb.WriteString("## Breaks\n\n")
	if len(s.Breaks) == 0 {
		sb.WriteString("No breaks recorded.\n\n")
	} else {
		sb.WriteString("| # | Kind | Start | End | Duration |\n")
		sb.WriteString("|---|------|-------|-----|----------|\n")
		for i, b := range s.Breaks {
			fmt.Fprintf(&sb, "| %d | %s | %s | %s | %s |\n",
				i+1, b.Kind(), timeOfDay(b.Start), timeOfDay(b.End), minutes(b.Minutes()))
		}
		sb.WriteString("\n")
	}

	if len(r.Events) > 0 {
		events := append([]autostop.AutoStopEvent(nil), r.Events...)
		sort.Slice(events, func(i, j int) bool { return events[i].Timestamp.Before(events[j].Timestamp) })

		sb.WriteString("## Auto-Stops\n\n")
		sb.WriteString("| When | Reason | Worked | Plan | Acknowledged | Message |\n")
		sb.WriteString("|------|--------|--------|------|--------------|---------|\n")
		for _, e := range events {
			ack := "no"
			if e.UserAcknowledged {
				ack = "yes"
			}
			fmt.Fprintf(&sb, "| %s (%s) | %s | %s | %s | %s | %s |\n",
				e.Timestamp.Format("2006-01-02 15:04"), humanize.RelTime(e.Timestamp, r.GeneratedAt, "ago", "from now"),
				e.Reason, minutes(e.WorkTime), e.PlanName, ack, e.Message)
		}
		sb.WriteString("\n")
	}

	fmt.Fprintf(&sb, "---\n*Exported: %s*\n", r.GeneratedAt.Format("2006-01-02 15:04"))
	return sb.String()
}

// ListArchives returns the archived day files, oldest first
func (a *Archiver) ListArchives() ([]string, error) {
	entries, err := os.ReadDir(a.historyPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var archives []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".md") {
			archives = append(archives, e.Name())
		}
	}

	sort.Strings(archives)
	return archives, nil
}

// ReadArchive reads the export of a specific day
func (a *Archiver) ReadArchive(day time.Time) (string, error) {
	filename := day.Format(dateLayout) + ".md"
	data, err := os.ReadFile(filepath.Join(a.historyPath, filename))
	if err != nil {
		return "", fmt.Errorf("archive not found: %s", filename)
	}
	return string(data), nil
}

func clock(t time.Time) string {
	if t.IsZero() {
		return tracker.EndTimePlaceholder
	}
	return t.Format("15:04")
}

func timeOfDay(d *breaks.TimeOfDay) string {
	if d == nil {
		return "-"
	}
	return d.String()
}

func minutes(m int) string {
	return fmt.Sprintf("%dh %02dm", m/60, m%60)
}
