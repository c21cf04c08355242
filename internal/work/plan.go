package work

import (
	"fmt"
	"strings"
	"time"
)

// WorkPlan bounds when and how long work may happen under a named policy.
// Start and End are minutes since midnight; Max is the presence limit in
// minutes (work plus breaks).
type WorkPlan struct {
	Name  string
	Start int
	End   int
	Max   int
}

// PlanLimits are the thresholds checked by CheckPlan.
type PlanLimits struct {
	MaxWorkTime     int
	MaxPresenceTime int
}

// DefaultPlans are used when the configuration names none.
func DefaultPlans() []WorkPlan {
	return []WorkPlan{
		{Name: "fulltime", Start: 6 * 60, End: 20 * 60, Max: 645},
		{Name: "flextime", Start: 6 * 60, End: 22 * 60, Max: 645},
		{Name: "parttime", Start: 7 * 60, End: 14 * 60, Max: 390},
	}
}

// Limits derives the plan thresholds. Work time is capped at the statutory
// daily maximum even if the presence limit would allow more.
func (p WorkPlan) Limits() PlanLimits {
	return PlanLimits{
		MaxWorkTime:     min(p.Max, MaxDailyWorkMinutes),
		MaxPresenceTime: p.Max,
	}
}

// Allows reports whether t falls within the plan's working window.
func (p WorkPlan) Allows(t time.Time) bool {
	m := t.Hour()*60 + t.Minute()
	return m >= p.Start && m < p.End
}

// Validate checks the plan bounds.
func (p WorkPlan) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return &ValidationError{Field: "Name", Message: "plan name is required"}
	}
	if p.Start < 0 || p.End > 24*60 || p.Start >= p.End {
		return &ValidationError{Field: "Start/End", Message: fmt.Sprintf("plan %s: window %d-%d is invalid", p.Name, p.Start, p.End)}
	}
	if p.Max <= 0 {
		return &ValidationError{Field: "Max", Message: fmt.Sprintf("plan %s: max must be positive", p.Name)}
	}
	return nil
}

// FindPlan looks a plan up by name.
func FindPlan(plans []WorkPlan, name string) (WorkPlan, bool) {
	for _, p := range plans {
		if p.Name == name {
			return p, true
		}
	}
	return WorkPlan{}, false
}
