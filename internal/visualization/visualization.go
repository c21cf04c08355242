package visualization

import (
	"fmt"
	"strings"
	"time"

	"github.com/arbeitszeit/internal/breaks"
	"github.com/arbeitszeit/internal/tracker"
	"github.com/arbeitszeit/internal/work"
)

const (
	width   = 720
	height  = 200
	padding = 40
	barY    = 90
	barH    = 40

	workColor  = "#4CAF50"
	breakColor = "#FF9800"
	planColor  = "#DDE6EE"
	endColor   = "#E74C3C"
)

type Visualizer struct{}

func New() *Visualizer {
	return &Visualizer{}
}

// axis maps minutes since midnight onto the drawing width.
type axis struct {
	from, to int
}

func (a axis) x(minute int) float64 {
	minute = max(a.from, min(a.to, minute))
	return float64(padding) + float64(minute-a.from)/float64(a.to-a.from)*float64(width-2*padding)
}

// GenerateDaySVG draws the tracked day: the plan window, the work span
// from start to end (or now), and every break taken on top of it.
func (v *Visualizer) GenerateDaySVG(s tracker.Session, sum tracker.Summary, plan work.WorkPlan, now time.Time) string {
	last := now
	if !s.EndTime.IsZero() {
		last = s.EndTime
	}

	from, to := plan.Start, plan.End
	if !s.StartTime.IsZero() {
		from = min(from, minuteOf(s.StartTime))
		to = max(to, minuteOf(last))
		if end, ok := tracker.ProjectEnd(s.StartTime, s.Breaks, s.PlannedWork, sum.WorkedMinutes, s.Status, now); ok && sameDay(end, s.StartTime) {
			to = max(to, minuteOf(end))
		}
	}
	ax := axis{from: from / 60 * 60, to: min(24*60, (to+59)/60*60)}
	if ax.to <= ax.from {
		ax.to = ax.from + 60
	}

	var bars strings.Builder
	fmt.Fprintf(&bars, `<rect x="%.0f" y="%d" width="%.0f" height="%d" fill="%s" rx="4"/>`,
		ax.x(plan.Start), barY-10, ax.x(plan.End)-ax.x(plan.Start), barH+20, planColor)

	if !s.StartTime.IsZero() {
		x1, x2 := ax.x(minuteOf(s.StartTime)), ax.x(minuteOf(last))
		fmt.Fprintf(&bars, "\n    "+`<rect x="%.0f" y="%d" width="%.0f" height="%d" fill="%s" rx="4"/>`,
			x1, barY, x2-x1, barH, workColor)

		for _, b := range s.Breaks {
			var bs, be int
			switch b.Kind() {
			case breaks.KindConcrete:
				bs, be = b.Start.Minutes(), b.End.Minutes()
			case breaks.KindOpen:
				bs, be = b.Start.Minutes(), minuteOf(last)
			default:
				continue
			}
			x1, x2 := ax.x(bs), ax.x(be)
			fmt.Fprintf(&bars, "\n    "+`<rect x="%.0f" y="%d" width="%.0f" height="%d" fill="%s"/>`,
				x1, barY, x2-x1, barH, breakColor)
		}

		if end, ok := tracker.ProjectEnd(s.StartTime, s.Breaks, s.PlannedWork, sum.WorkedMinutes, s.Status, now); ok && sameDay(end, s.StartTime) {
			x := ax.x(minuteOf(end))
			fmt.Fprintf(&bars, "\n    "+`<line x1="%.0f" y1="%d" x2="%.0f" y2="%d" stroke="%s" stroke-width="2" stroke-dasharray="5,5"/>`,
				x, barY-20, x, barY+barH+10, endColor)
		}
	}

	day := now
	if !s.StartTime.IsZero() {
		day = s.StartTime
	}

	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %d" width="%d" height="%d">
  <defs>
    <linearGradient id="bgGrad" x1="0%%" y1="0%%" x2="0%%" y2="100%%">
      <stop offset="0%%" style="stop-color:#f5f7fa"/>
      <stop offset="100%%" style="stop-color:#e4e8ec"/>
    </linearGradient>
  </defs>
  <rect width="%d" height="%d" fill="url(#bgGrad)" rx="10"/>
  <text x="%d" y="30" text-anchor="middle" font-size="18" font-weight="bold" fill="#2c3e50">Day Timeline</text>
  <text x="%d" y="55" text-anchor="middle" font-size="12" fill="#7f8c8d">%s | %s | Worked: %s | Breaks: %s | End: %s</text>

  <!-- Bars -->
  %s

  <!-- Hour labels -->
  %s
</svg>`,
		width, height, width, height,
		width, height,
		width/2,
		width/2, day.Format("Mon Jan 2"), plan.Name, hm(sum.WorkedMinutes), hm(sum.BreakMinutes), sum.EndTime,
		bars.String(),
		v.generateHourLabels(ax),
	)
}

func (v *Visualizer) generateHourLabels(ax axis) string {
	var labels strings.Builder
	step := 60
	if ax.to-ax.from > 12*60 {
		step = 120
	}
	for m := ax.from; m <= ax.to; m += step {
		x := ax.x(m)
		fmt.Fprintf(&labels, `<line x1="%.0f" y1="%d" x2="%.0f" y2="%d" stroke="#E0E0E0"/>`,
			x, barY+barH+12, x, barY+barH+18)
		fmt.Fprintf(&labels, `<text x="%.0f" y="%d" text-anchor="middle" font-size="11" fill="#7f8c8d">%02d:00</text>`,
			x, barY+barH+32, m/60)
	}
	return labels.String()
}

func minuteOf(t time.Time) int {
	return breaks.TimeOfDayOf(t).Minutes()
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func hm(m int) string {
	return fmt.Sprintf("%dh %02dm", m/60, m%60)
}
