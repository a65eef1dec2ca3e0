package dto

import (
	"fmt"
	"strings"
	"time"

	"github.com/eshaffer321/churnpilot-backend/internal/domain/card"
)

// dateFormat is the wire format for all date fields.
const dateFormat = "2006-01-02"

// BenefitRequest is one benefit in a create or update request.
type BenefitRequest struct {
	Name       string  `json:"name" binding:"required"`
	Amount     float64 `json:"amount"`
	Recurrence string  `json:"recurrence"`
	Notes      string  `json:"notes,omitempty"`
}

// SignupBonusRequest is the signup bonus portion of a card request.
type SignupBonusRequest struct {
	Reward           string  `json:"reward"`
	SpendRequirement float64 `json:"spend_requirement"`
	WindowDays       int     `json:"window_days"`
	Deadline         string  `json:"deadline,omitempty"` // YYYY-MM-DD
	AccruedSpend     float64 `json:"accrued_spend"`
	Achieved         bool    `json:"achieved"`
}

// CardRequest creates or replaces a card. An absent annual fee means
// unknown, which is distinct from a $0 fee.
type CardRequest struct {
	Name        string              `json:"name" binding:"required"`
	Nickname    string              `json:"nickname,omitempty"`
	Issuer      string              `json:"issuer,omitempty"`
	AnnualFee   *int                `json:"annual_fee,omitempty"`
	Business    bool                `json:"business,omitempty"`
	Closed      bool                `json:"closed,omitempty"`
	OpenedDate  string              `json:"opened_date,omitempty"` // YYYY-MM-DD
	SignupBonus *SignupBonusRequest `json:"signup_bonus,omitempty"`
	Benefits    []BenefitRequest    `json:"benefits,omitempty"`
	Notes       string              `json:"notes,omitempty"`
}

// ToRecord converts the request into a card record with the given ID.
// Usage state is not part of the request; it survives updates separately.
func (r *CardRequest) ToRecord(id string) (card.Record, error) {
	rec := card.Record{
		ID:        id,
		Name:      strings.TrimSpace(r.Name),
		Nickname:  r.Nickname,
		Issuer:    r.Issuer,
		AnnualFee: card.AnnualFeeUnknown,
		Business:  r.Business,
		Closed:    r.Closed,
		Notes:     r.Notes,
	}
	if r.AnnualFee != nil {
		rec.AnnualFee = *r.AnnualFee
	}

	opened, err := parseOptionalDate(r.OpenedDate, "opened_date")
	if err != nil {
		return card.Record{}, err
	}
	rec.OpenedDate = opened

	if r.SignupBonus != nil {
		deadline, err := parseOptionalDate(r.SignupBonus.Deadline, "signup_bonus.deadline")
		if err != nil {
			return card.Record{}, err
		}
		rec.SignupBonus = &card.SignupBonus{
			Reward:           r.SignupBonus.Reward,
			SpendRequirement: r.SignupBonus.SpendRequirement,
			WindowDays:       r.SignupBonus.WindowDays,
			Deadline:         deadline,
			AccruedSpend:     r.SignupBonus.AccruedSpend,
			Achieved:         r.SignupBonus.Achieved,
		}
	}

	for _, b := range r.Benefits {
		rec.Benefits = append(rec.Benefits, card.BenefitDefinition{
			Name:       b.Name,
			Amount:     b.Amount,
			Recurrence: card.Recurrence(b.Recurrence),
			Notes:      b.Notes,
		})
	}

	return rec, nil
}

// ImportRequest holds raw spreadsheet content to import.
type ImportRequest struct {
	Content    string `json:"content" binding:"required"`
	SkipClosed *bool  `json:"skip_closed,omitempty"` // default true
}

// ExtractRequest holds raw offer text to extract a card from.
type ExtractRequest struct {
	Text string `json:"text" binding:"required"`
	Save bool   `json:"save,omitempty"` // persist the extracted card
}

// SnoozeRequest snoozes a benefit reminder through a date.
type SnoozeRequest struct {
	Until string `json:"until" binding:"required"` // YYYY-MM-DD
}

// SpendRequest records accrued spend toward a signup bonus.
type SpendRequest struct {
	AccruedSpend float64 `json:"accrued_spend"`
}

func parseOptionalDate(s, field string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(dateFormat, s)
	if err != nil {
		return nil, fmt.Errorf("%s: expected YYYY-MM-DD, got %q", field, s)
	}
	t = t.UTC()
	return &t, nil
}
