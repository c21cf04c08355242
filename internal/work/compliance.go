package work

import "fmt"

// Reason is why work must stop.
type Reason string

const (
	ReasonMaxHours    Reason = "maxHours"
	ReasonMaxPresence Reason = "maxPresence"
)

// WorkData is the accumulated state the rules are evaluated against.
type WorkData struct {
	TotalWorkTime  int // minutes
	TotalBreakTime int // minutes
	IsOnBreak      bool
}

// PresenceTime is work plus breaks.
func (d WorkData) PresenceTime() int {
	return d.TotalWorkTime + d.TotalBreakTime
}

// Result is the verdict of a single rule set.
type Result struct {
	ShouldStop    bool
	Reason        Reason
	Message       string
	TimeRemaining int // break minutes still owed, if any
}

// CheckArbzg applies the statutory rules. The 10h maximum is checked first,
// then the 6h and 9h break requirements.
func CheckArbzg(d WorkData) Result {
	if d.TotalWorkTime >= MaxDailyWorkMinutes {
		return Result{
			ShouldStop: true,
			Reason:     ReasonMaxHours,
			Message:    "maximum daily working time of 10 hours reached (§3 ArbZG)",
		}
	}
	if d.TotalWorkTime >= SixHourThreshold && d.TotalBreakTime < SixHourBreakMinutes {
		owed := SixHourBreakMinutes - d.TotalBreakTime
		return Result{
			ShouldStop:    true,
			Reason:        ReasonMaxHours,
			Message:       fmt.Sprintf("more than 6 hours worked with %d min break, %d min missing (§4 ArbZG)", d.TotalBreakTime, owed),
			TimeRemaining: owed,
		}
	}
	if d.TotalWorkTime >= NineHourThreshold && d.TotalBreakTime < NineHourBreakMinutes {
		owed := NineHourBreakMinutes - d.TotalBreakTime
		return Result{
			ShouldStop:    true,
			Reason:        ReasonMaxHours,
			Message:       fmt.Sprintf("more than 9 hours worked with %d min break, %d min missing (§4 ArbZG)", d.TotalBreakTime, owed),
			TimeRemaining: owed,
		}
	}
	return Result{Message: "compliant with ArbZG"}
}

// CheckPlan applies the plan's presence and work limits.
func CheckPlan(d WorkData, limits PlanLimits) Result {
	if d.PresenceTime() >= limits.MaxPresenceTime {
		return Result{
			ShouldStop: true,
			Reason:     ReasonMaxPresence,
			Message:    fmt.Sprintf("maximum presence time of %d min reached", limits.MaxPresenceTime),
		}
	}
	if d.TotalWorkTime >= limits.MaxWorkTime {
		return Result{
			ShouldStop: true,
			Reason:     ReasonMaxHours,
			Message:    fmt.Sprintf("maximum working time of %d min for this plan reached", limits.MaxWorkTime),
		}
	}
	return Result{Message: "compliant with plan"}
}

// Decision combines both rule sets with the override state.
type Decision struct {
	ShouldStop bool
	// Violation is set whenever a rule fired, even if the override
	// suppressed the stop.
	Violation  bool
	Overridden bool
	Reason     Reason
	Message    string
	Arbzg      Result
	Plan       Result
}

// Decide evaluates both rule sets. ArbZG wins the reported reason when both
// fire. The override only suppresses the stop, never the violation.
func Decide(d WorkData, plan WorkPlan, overrideActive bool) Decision {
	dec := Decision{
		Arbzg: CheckArbzg(d),
		Plan:  CheckPlan(d, plan.Limits()),
	}
	switch {
	case dec.Arbzg.ShouldStop:
		dec.Violation, dec.Reason, dec.Message = true, dec.Arbzg.Reason, dec.Arbzg.Message
	case dec.Plan.ShouldStop:
		dec.Violation, dec.Reason, dec.Message = true, dec.Plan.Reason, dec.Plan.Message
	}
	dec.ShouldStop = dec.Violation && !overrideActive
	dec.Overridden = dec.Violation && overrideActive
	return dec
}

// Warning is a non-blocking advisory.
type Warning struct {
	ArbzgWarning bool
	PlanWarning  bool
	Message      string
}

// Active reports whether any warning fired.
func (w Warning) Active() bool {
	return w.ArbzgWarning || w.PlanWarning
}

// ApproachingLimits warns at 9.5h of work and at 90% of the plan's presence
// limit. It does not look at the override.
func ApproachingLimits(d WorkData, plan WorkPlan) Warning {
	var w Warning
	limits := plan.Limits()
	w.ArbzgWarning = d.TotalWorkTime >= WarningWorkMinutes
	w.PlanWarning = float64(d.PresenceTime()) >= PresenceWarningRatio*float64(limits.MaxPresenceTime)

	switch {
	case w.ArbzgWarning && w.PlanWarning:
		w.Message = fmt.Sprintf("approaching 10h limit (%d min left) and plan presence limit (%d min left)",
			MaxDailyWorkMinutes-d.TotalWorkTime, limits.MaxPresenceTime-d.PresenceTime())
	case w.ArbzgWarning:
		w.Message = fmt.Sprintf("approaching 10h limit, %d min left", MaxDailyWorkMinutes-d.TotalWorkTime)
	case w.PlanWarning:
		w.Message = fmt.Sprintf("approaching plan presence limit, %d min left", limits.MaxPresenceTime-d.PresenceTime())
	}
	return w
}
