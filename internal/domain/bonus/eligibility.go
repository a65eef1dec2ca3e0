package bonus

import (
	"sort"
	"strings"
	"time"

	"github.com/eshaffer321/churnpilot-backend/internal/domain/card"
)

// Standing describes where a portfolio sits relative to the rule's limit.
type Standing string

const (
	StandingUnder Standing = "under" // safe to apply
	StandingAt    Standing = "at"    // at the limit, next approval is risky
	StandingOver  Standing = "over"  // applications will be denied
)

// Rule is a rolling-window account-opening rule such as Chase's 5/24:
// at most Limit personal cards opened in the trailing WindowMonths.
type Rule struct {
	WindowMonths int `json:"window_months"`
	Limit        int `json:"limit"`
}

// DefaultRule returns the 5/24 rule.
func DefaultRule() Rule {
	return Rule{WindowMonths: 24, Limit: 5}
}

// WindowStatus is the evaluated state of a portfolio against a Rule.
type WindowStatus struct {
	Count    int      `json:"count"`
	Standing Standing `json:"standing"`
	// Counted holds the cards inside the window, oldest first.
	Counted []card.Record `json:"counted"`
	// Unverified holds cards with no opened date. They cannot be placed
	// in the window and are excluded from the count, but the user should
	// confirm them before trusting the number.
	Unverified []card.Record `json:"unverified"`
	// NextDropOff is the first as-of date on which the oldest counted
	// card leaves the window, nil when nothing is counted.
	NextDropOff   *time.Time `json:"next_drop_off,omitempty"`
	DaysUntilDrop *int       `json:"days_until_drop,omitempty"`
}

// DropOff is one entry in the drop-off timeline.
type DropOff struct {
	Record    card.Record `json:"record"`
	Date      time.Time   `json:"date"`
	DaysUntil int         `json:"days_until"`
}

// issuersCountingBusiness lists issuers whose business cards report to
// personal credit and therefore still count toward the window.
var issuersCountingBusiness = []string{"capital one", "discover", "td bank"}

// Evaluate counts the cards opened inside the trailing window ending at
// asOf. The window's start boundary is inclusive: a card opened exactly
// WindowMonths before asOf still counts. Closed cards count too - the
// rule reflects how many accounts were opened, not how many stay open.
func (r Rule) Evaluate(records []card.Record, asOf time.Time) WindowStatus {
	windowStart := asOf.AddDate(0, -r.WindowMonths, 0)

	st := WindowStatus{}
	for _, rec := range records {
		if !countsTowardWindow(&rec) {
			continue
		}
		if rec.OpenedDate == nil {
			st.Unverified = append(st.Unverified, rec)
			continue
		}
		opened := *rec.OpenedDate
		if opened.Before(windowStart) || opened.After(asOf) {
			continue
		}
		st.Counted = append(st.Counted, rec)
	}

	sort.SliceStable(st.Counted, func(i, j int) bool {
		return st.Counted[i].OpenedDate.Before(*st.Counted[j].OpenedDate)
	})

	st.Count = len(st.Counted)
	switch {
	case st.Count < r.Limit:
		st.Standing = StandingUnder
	case st.Count == r.Limit:
		st.Standing = StandingAt
	default:
		st.Standing = StandingOver
	}

	if len(st.Counted) > 0 {
		drop := r.dropOffDate(*st.Counted[0].OpenedDate)
		if drop.After(asOf) {
			days := int(drop.Sub(asOf).Hours() / 24)
			st.NextDropOff = &drop
			st.DaysUntilDrop = &days
		}
	}
	return st
}

// Timeline returns when each counted card will leave the window, soonest
// first.
func (r Rule) Timeline(records []card.Record, asOf time.Time) []DropOff {
	st := r.Evaluate(records, asOf)
	timeline := make([]DropOff, 0, len(st.Counted))
	for _, rec := range st.Counted {
		drop := r.dropOffDate(*rec.OpenedDate)
		timeline = append(timeline, DropOff{
			Record:    rec,
			Date:      drop,
			DaysUntil: int(drop.Sub(asOf).Hours() / 24),
		})
	}
	sort.SliceStable(timeline, func(i, j int) bool {
		return timeline[i].Date.Before(timeline[j].Date)
	})
	return timeline
}

// dropOffDate is the first as-of date on which a card opened on the given
// date no longer falls inside the window. With the start boundary
// inclusive, that is one day past opened + WindowMonths.
func (r Rule) dropOffDate(opened time.Time) time.Time {
	return opened.AddDate(0, r.WindowMonths, 1)
}

// countsTowardWindow applies the personal-card rule: business cards are
// exempt unless the issuer reports business accounts to personal credit.
func countsTowardWindow(rec *card.Record) bool {
	if !rec.Business {
		return true
	}
	issuer := strings.ToLower(rec.Issuer)
	for _, name := range issuersCountingBusiness {
		if strings.Contains(issuer, name) {
			return true
		}
	}
	return false
}
