package gate

import (
	"testing"
	"time"
)

var (
	day1 = time.Date(2024, time.March, 1, 9, 0, 0, 0, time.UTC)
	day2 = time.Date(2024, time.March, 2, 0, 0, 1, 0, time.UTC)
)

func TestRolloverIfNeeded(t *testing.T) {
	q := Quota{
		AutoApplyEnabled:      true,
		DailyApplicationLimit: 10,
		ApplicationsToday:     7,
		LastResetDate:         day1.Format(DateFormat),
	}

	if RolloverIfNeeded(&q, day1) {
		t.Fatal("rolled over within the same day")
	}
	if q.ApplicationsToday != 7 {
		t.Fatalf("counter changed without a rollover: %d", q.ApplicationsToday)
	}

	if !RolloverIfNeeded(&q, day2) {
		t.Fatal("no rollover on the next calendar day")
	}
	if q.ApplicationsToday != 0 {
		t.Errorf("counter = %d after rollover, want 0", q.ApplicationsToday)
	}
	if q.LastResetDate != day2.Format(DateFormat) {
		t.Errorf("LastResetDate = %q, want %q", q.LastResetDate, day2.Format(DateFormat))
	}

	// A second check that day is a no-op: rollover happens exactly once.
	if RolloverIfNeeded(&q, day2.Add(10*time.Hour)) {
		t.Error("rolled over twice on the same day")
	}
}

func TestRolloverIfNeeded_EmptyDate(t *testing.T) {
	// Fresh settings carry no reset date; the first check initializes it.
	q := Quota{ApplicationsToday: 3}
	if !RolloverIfNeeded(&q, day1) {
		t.Fatal("empty LastResetDate did not trigger a reset")
	}
	if q.ApplicationsToday != 0 || q.LastResetDate != day1.Format(DateFormat) {
		t.Errorf("after reset: %+v", q)
	}
}

func TestEligible(t *testing.T) {
	cases := []struct {
		name string
		q    Quota
		want bool
	}{
		{"under limit", Quota{AutoApplyEnabled: true, DailyApplicationLimit: 10, ApplicationsToday: 9}, true},
		{"at limit", Quota{AutoApplyEnabled: true, DailyApplicationLimit: 10, ApplicationsToday: 10}, false},
		{"over limit", Quota{AutoApplyEnabled: true, DailyApplicationLimit: 10, ApplicationsToday: 11}, false},
		{"disabled", Quota{AutoApplyEnabled: false, DailyApplicationLimit: 10, ApplicationsToday: 0}, false},
		{"zero limit", Quota{AutoApplyEnabled: true, DailyApplicationLimit: 0, ApplicationsToday: 0}, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := Eligible(c.q); got != c.want {
				t.Errorf("Eligible(%+v) = %v, want %v", c.q, got, c.want)
			}
		})
	}
}

func TestCurrent(t *testing.T) {
	today := day1.Format(DateFormat)
	cases := []struct {
		name string
		q    Quota
		want State
	}{
		{"eligible", Quota{AutoApplyEnabled: true, DailyApplicationLimit: 5, ApplicationsToday: 1, LastResetDate: today}, StateEligible},
		{"quota exhausted", Quota{AutoApplyEnabled: true, DailyApplicationLimit: 5, ApplicationsToday: 5, LastResetDate: today}, StateApplied},
		{"disabled", Quota{AutoApplyEnabled: false, DailyApplicationLimit: 5, ApplicationsToday: 0, LastResetDate: today}, StateIdle},
		{"disabled and exhausted", Quota{AutoApplyEnabled: false, DailyApplicationLimit: 5, ApplicationsToday: 5, LastResetDate: today}, StateApplied},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := Current(&c.q, day1); got != c.want {
				t.Errorf("Current = %v, want %v", got, c.want)
			}
		})
	}
}

func TestCurrent_RollsOverFirst(t *testing.T) {
	// Exhausted yesterday; the next day's first check must be eligible again.
	q := Quota{
		AutoApplyEnabled:      true,
		DailyApplicationLimit: 10,
		ApplicationsToday:     10,
		LastResetDate:         day1.Format(DateFormat),
	}
	if got := Current(&q, day2); got != StateEligible {
		t.Fatalf("Current on the next day = %v, want %v", got, StateEligible)
	}
	if q.ApplicationsToday != 0 {
		t.Errorf("counter = %d, want 0", q.ApplicationsToday)
	}
}
