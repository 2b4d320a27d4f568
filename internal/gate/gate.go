// Package gate implements the auto-apply gate:
//
//	Idle ──► Eligible ──► Applied ──► (next day) Idle
//
// Eligibility is recomputed on every check, never cached, and the daily
// counter rolls over lazily on first access after midnight. There is no
// background timer: an idle coordinator performs no actions that need fresh
// quota, so delaying the check until the next read costs nothing.
package gate

import "time"

// State is the gate's position for reporting purposes.
type State string

const (
	StateIdle     State = "idle"
	StateEligible State = "eligible"
	StateApplied  State = "applied"
)

// DateFormat renders the calendar date used for rollover comparison. The
// comparison is string equality of calendar dates, not elapsed time, so a
// long-idle process still resets correctly on next use instead of drifting.
const DateFormat = "2006-01-02"

// Quota is the part of the settings record the gate reads and writes.
type Quota struct {
	AutoApplyEnabled      bool
	DailyApplicationLimit int
	ApplicationsToday     int
	LastResetDate         string
}

// RolloverIfNeeded resets ApplicationsToday to zero when LastResetDate is
// not today, updating LastResetDate in the process. It reports whether a
// reset happened. Callers must invoke this before any eligibility decision.
func RolloverIfNeeded(q *Quota, now time.Time) bool {
	today := now.Format(DateFormat)
	if q.LastResetDate == today {
		return false
	}
	q.ApplicationsToday = 0
	q.LastResetDate = today
	return true
}

// Eligible reports whether an automatic application may proceed right now.
// It assumes RolloverIfNeeded has already run for the current instant.
func Eligible(q Quota) bool {
	return q.AutoApplyEnabled && q.ApplicationsToday < q.DailyApplicationLimit
}

// Current returns the gate state for q at now, after lazy rollover.
func Current(q *Quota, now time.Time) State {
	RolloverIfNeeded(q, now)
	if Eligible(*q) {
		return StateEligible
	}
	if q.ApplicationsToday >= q.DailyApplicationLimit && q.DailyApplicationLimit > 0 {
		return StateApplied
	}
	return StateIdle
}
