// Package bonus evaluates signup-bonus progress and rolling-window
// account-opening eligibility. Everything here is computed on read from
// stored facts plus an as-of date; nothing is cached.
package bonus

import (
	"time"

	"github.com/eshaffer321/churnpilot-backend/internal/domain/card"
)

// Status is the computed state of a signup bonus at one as-of date.
//
// DeadlineUnknown is an explicit state, not a guess: without an opened
// date there is no deadline and no expiry, and the UI tells the user to
// fill the date in rather than showing a fabricated one.
type Status struct {
	Deadline        *time.Time `json:"deadline,omitempty"`
	DeadlineUnknown bool       `json:"deadline_unknown"`
	Achieved        bool       `json:"achieved"`
	Expired         bool       `json:"expired"`
	DaysRemaining   *int       `json:"days_remaining,omitempty"`
	SpendRemaining  float64    `json:"spend_remaining"`
}

// Evaluate computes bonus status for a card as of the given date. Returns
// nil when the record carries no signup bonus.
func Evaluate(rec *card.Record, asOf time.Time) *Status {
	sb := rec.SignupBonus
	if sb == nil {
		return nil
	}

	st := &Status{
		Achieved: sb.Achieved || sb.AccruedSpend >= sb.SpendRequirement,
	}
	if remaining := sb.SpendRequirement - sb.AccruedSpend; remaining > 0 && !st.Achieved {
		st.SpendRemaining = remaining
	}

	deadline := sb.Deadline
	if deadline == nil && rec.OpenedDate != nil && sb.WindowDays > 0 {
		d := rec.OpenedDate.AddDate(0, 0, sb.WindowDays)
		deadline = &d
	}
	if deadline == nil {
		st.DeadlineUnknown = true
		return st
	}

	st.Deadline = deadline
	// Achievement is terminal; a met bonus never reports expired.
	if !st.Achieved && asOf.After(*deadline) {
		st.Expired = true
	}
	if !asOf.After(*deadline) {
		days := int(deadline.Sub(asOf).Hours() / 24)
		st.DaysRemaining = &days
	}
	return st
}

// NextAnnualFeeDate returns the next anniversary on which the annual fee
// posts, or nil when the opened date is unknown.
func NextAnnualFeeDate(opened *time.Time, asOf time.Time) *time.Time {
	if opened == nil {
		return nil
	}
	next := opened.AddDate(1, 0, 0)
	for !next.After(asOf) {
		next = next.AddDate(1, 0, 0)
	}
	return &next
}
