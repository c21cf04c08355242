package work

// =============================================================================
// WORK RULES CONFIGURATION
// =============================================================================
// Statutory limits of the German Working Hours Act (Arbeitszeitgesetz, ArbZG).
//
// §3  ArbZG: daily working time may be extended to at most 10 hours.
// §4  ArbZG: more than 6 hours of work require 30 minutes of rest,
//            more than 9 hours require 45 minutes.
//
// Plan limits (WorkPlan.Max) are checked separately and may be stricter.
// =============================================================================

const (
	// MaxDailyWorkMinutes - absolute daily maximum (10h)
	MaxDailyWorkMinutes = 600

	// SixHourThreshold - work time after which the first break is due
	SixHourThreshold = 360
	// SixHourBreakMinutes - break required beyond six hours
	SixHourBreakMinutes = 30

	// NineHourThreshold - work time after which the longer break is due
	NineHourThreshold = 540
	// NineHourBreakMinutes - break required beyond nine hours
	NineHourBreakMinutes = 45

	// WarningWorkMinutes - worked time at which the approaching-limit warning shows (9.5h)
	WarningWorkMinutes = 570

	// PresenceWarningRatio - share of a plan's presence limit that triggers a warning
	PresenceWarningRatio = 0.9

	// DefaultPlannedWorkMinutes - standard 8h day
	DefaultPlannedWorkMinutes = 480
)

// RequiredBreakMinutes returns the statutory break for the given work time.
func RequiredBreakMinutes(workMinutes int) int {
	switch {
	case workMinutes >= NineHourThreshold:
		return NineHourBreakMinutes
	case workMinutes >= SixHourThreshold:
		return SixHourBreakMinutes
	default:
		return 0
	}
}
