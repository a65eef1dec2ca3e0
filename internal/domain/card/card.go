// Package card defines the core data model for tracked credit cards:
// benefit definitions, signup bonuses, per-benefit usage state, and the
// card record itself.
//
// Everything in this package is a plain value. Records are created by the
// extraction, import, or manual-entry paths and mutated by their owner; no
// type here performs I/O or holds shared state.
package card

import (
	"fmt"
	"strings"
	"time"
)

// AnnualFeeUnknown marks an annual fee that has not been determined yet.
// Templates scraped from issuer pages sometimes fail to extract a fee, and
// a fee of -1 must never overwrite or be treated as $0.
const AnnualFeeUnknown = -1

// Recurrence describes how often a benefit's usage window resets.
type Recurrence string

const (
	RecurrenceMonthly    Recurrence = "monthly"
	RecurrenceQuarterly  Recurrence = "quarterly"
	RecurrenceSemiannual Recurrence = "semiannual"
	RecurrenceAnnual     Recurrence = "annual"
	RecurrenceOneTime    Recurrence = "one-time"
)

// Known reports whether r is one of the defined recurrence values.
// Unknown values are treated as one-time downstream so a benefit whose
// cadence we can't parse is never double-counted.
func (r Recurrence) Known() bool {
	switch r {
	case RecurrenceMonthly, RecurrenceQuarterly, RecurrenceSemiannual,
		RecurrenceAnnual, RecurrenceOneTime:
		return true
	}
	return false
}

// BenefitDefinition is a recurring credit or perk attached to a card.
// Identity within a card is the name, case-insensitive.
type BenefitDefinition struct {
	Name       string     `json:"name"`
	Amount     float64    `json:"amount"`
	Recurrence Recurrence `json:"recurrence"`
	Notes      string     `json:"notes,omitempty"`
}

// Template is an immutable catalog entry describing a known card product.
// Templates are defined once at startup and never mutated; records copy
// benefit definitions out of them rather than sharing slices.
type Template struct {
	ID        string              `json:"id"`
	Name      string              `json:"name"`
	Issuer    string              `json:"issuer"`
	AnnualFee int                 `json:"annual_fee"` // dollars, AnnualFeeUnknown if not known
	Benefits  []BenefitDefinition `json:"benefits"`
}

// SignupBonus holds the facts of a sign-up bonus offer. Derived state
// (deadline expiry, days remaining) is computed on read by the bonus
// package, never stored here beyond the raw inputs.
type SignupBonus struct {
	Reward           string     `json:"reward"` // e.g. "60,000 points", "$200 cash back"
	SpendRequirement float64    `json:"spend_requirement"`
	WindowDays       int        `json:"window_days"`
	Deadline         *time.Time `json:"deadline,omitempty"` // set when derivable from opened date
	AccruedSpend     float64    `json:"accrued_spend"`
	Achieved         bool       `json:"achieved"`
}

// UsageState tracks whether a benefit was used in a given period.
//
// There is deliberately no "used" boolean: a benefit is used for the
// current period iff LastUsedPeriod equals the canonical label of the
// period containing the as-of date. A calendar rollover resets usage with
// no action required.
type UsageState struct {
	LastUsedPeriod       string     `json:"last_used_period,omitempty"`
	ReminderSnoozedUntil *time.Time `json:"reminder_snoozed_until,omitempty"`
}

// Record is a single tracked card instance.
type Record struct {
	ID          string                `json:"id"`
	Name        string                `json:"name"`
	Nickname    string                `json:"nickname,omitempty"`
	Issuer      string                `json:"issuer"`
	AnnualFee   int                   `json:"annual_fee"`
	TemplateID  string                `json:"template_id,omitempty"`
	Business    bool                  `json:"business"`
	Closed      bool                  `json:"closed"`
	OpenedDate  *time.Time            `json:"opened_date,omitempty"`
	SignupBonus *SignupBonus          `json:"signup_bonus,omitempty"`
	Benefits    []BenefitDefinition   `json:"benefits"`
	Usage       map[string]UsageState `json:"benefit_usage,omitempty"`
	Notes       string                `json:"notes,omitempty"`
	RawText     string                `json:"raw_text,omitempty"` // original text the record was extracted from
	CreatedAt   time.Time             `json:"created_at"`
}

// UsageFor returns the stored usage state for a benefit, matched by name
// case-insensitively.
func (r *Record) UsageFor(benefitName string) UsageState {
	if u, ok := r.Usage[benefitName]; ok {
		return u
	}
	for name, u := range r.Usage {
		if strings.EqualFold(name, benefitName) {
			return u
		}
	}
	return UsageState{}
}

// SetUsage stores usage state for a benefit, replacing any entry whose name
// differs only in case.
func (r *Record) SetUsage(benefitName string, u UsageState) {
	if r.Usage == nil {
		r.Usage = make(map[string]UsageState)
	}
	for name := range r.Usage {
		if strings.EqualFold(name, benefitName) && name != benefitName {
			delete(r.Usage, name)
		}
	}
	r.Usage[benefitName] = u
}

// HasBenefit reports whether the record already carries a benefit with the
// given name (case-insensitive).
func (r *Record) HasBenefit(name string) bool {
	for _, b := range r.Benefits {
		if strings.EqualFold(b.Name, name) {
			return true
		}
	}
	return false
}

// Validate checks the structural invariants that must hold before a record
// enters the engine. The engine itself assumes valid input and never fails.
func (r *Record) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("card: record has no id")
	}
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("card %s: name is required", r.ID)
	}
	if r.AnnualFee < AnnualFeeUnknown {
		return fmt.Errorf("card %s: annual fee %d is invalid", r.ID, r.AnnualFee)
	}
	if sb := r.SignupBonus; sb != nil {
		if sb.SpendRequirement < 0 {
			return fmt.Errorf("card %s: negative spend requirement", r.ID)
		}
		if sb.WindowDays < 0 {
			return fmt.Errorf("card %s: negative bonus window", r.ID)
		}
		if sb.AccruedSpend < 0 {
			return fmt.Errorf("card %s: negative accrued spend", r.ID)
		}
	}
	for _, b := range r.Benefits {
		if strings.TrimSpace(b.Name) == "" {
			return fmt.Errorf("card %s: benefit with empty name", r.ID)
		}
	}
	return nil
}

// Date builds a date-only time.Time in UTC. All dates in this package are
// day-granular; midnight UTC is the canonical representation.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// DatePtr is Date returning a pointer, for optional date fields.
func DatePtr(year int, month time.Month, day int) *time.Time {
	d := Date(year, month, day)
	return &d
}
