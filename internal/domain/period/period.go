// Package period computes benefit tracking periods from a recurrence rule
// and an as-of date.
//
// Period labels are canonical strings ("2026-03", "2026 Q1", "2026 H1",
// "2026") used both for storage comparison and display. Labels and the
// used/reminder flags derived from them are pure functions of stored facts
// plus the as-of date and must never be persisted; caching them is how
// stale "used" state sneaks back in after a period rolls over.
package period

import (
	"fmt"
	"time"

	"github.com/eshaffer321/churnpilot-backend/internal/domain/card"
)

// LifetimeLabel is the single fixed label shared by every one-time
// benefit period. Once marked used under it, the benefit never resets.
const LifetimeLabel = "lifetime"

// Status is the computed state of one benefit at one as-of date.
type Status struct {
	Label     string `json:"period"`
	Used      bool   `json:"used"`
	RemindDue bool   `json:"remind_due"`
}

// Label returns the canonical label of the period containing asOf.
// An unrecognized recurrence is treated as one-time: a benefit whose
// cadence we can't parse must never be counted more than once.
func Label(rec card.Recurrence, asOf time.Time) string {
	switch rec {
	case card.RecurrenceMonthly:
		return asOf.Format("2006-01")
	case card.RecurrenceQuarterly:
		quarter := (int(asOf.Month())-1)/3 + 1
		return fmt.Sprintf("%d Q%d", asOf.Year(), quarter)
	case card.RecurrenceSemiannual:
		half := 1
		if asOf.Month() > time.June {
			half = 2
		}
		return fmt.Sprintf("%d H%d", asOf.Year(), half)
	case card.RecurrenceAnnual:
		return fmt.Sprintf("%d", asOf.Year())
	default:
		return LifetimeLabel
	}
}

// Evaluate computes the current period label, whether the benefit is used
// for that period, and whether a reminder should fire right now.
//
// Used is pure string equality on the canonical label, so a calendar
// rollover resets usage with no explicit action. A reminder fires when
// the benefit is unused and any snooze date is strictly before asOf.
func Evaluate(rec card.Recurrence, usage card.UsageState, asOf time.Time) Status {
	label := Label(rec, asOf)
	used := usage.LastUsedPeriod == label

	snoozed := usage.ReminderSnoozedUntil != nil && !usage.ReminderSnoozedUntil.Before(asOf)

	return Status{
		Label:     label,
		Used:      used,
		RemindDue: !used && !snoozed,
	}
}

// MarkUsed stamps the current period label onto the usage state and clears
// any snooze: the next unused period starts with reminders live again.
func MarkUsed(rec card.Recurrence, asOf time.Time) card.UsageState {
	return card.UsageState{LastUsedPeriod: Label(rec, asOf)}
}

// MarkUnused reverts a mistaken usage mark.
func MarkUnused(usage card.UsageState) card.UsageState {
	usage.LastUsedPeriod = ""
	return usage
}

// Snooze suppresses reminders for the benefit through the given date.
func Snooze(usage card.UsageState, until time.Time) card.UsageState {
	usage.ReminderSnoozedUntil = &until
	return usage
}

// Unsnooze clears a snooze so reminders resume immediately.
func Unsnooze(usage card.UsageState) card.UsageState {
	usage.ReminderSnoozedUntil = nil
	return usage
}

// DisplayName renders a recurrence with its current window for the UI,
// e.g. "Quarterly (2026 Q2)".
func DisplayName(rec card.Recurrence, asOf time.Time) string {
	switch rec {
	case card.RecurrenceMonthly:
		return fmt.Sprintf("Monthly (%s)", Label(rec, asOf))
	case card.RecurrenceQuarterly:
		return fmt.Sprintf("Quarterly (%s)", Label(rec, asOf))
	case card.RecurrenceSemiannual:
		return fmt.Sprintf("Semiannual (%s)", Label(rec, asOf))
	case card.RecurrenceAnnual:
		return fmt.Sprintf("Calendar year %s", Label(rec, asOf))
	default:
		return "One-time"
	}
}
