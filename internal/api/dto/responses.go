package dto

import (
	"time"

	"github.com/eshaffer321/churnpilot-backend/internal/domain/bonus"
	"github.com/eshaffer321/churnpilot-backend/internal/domain/card"
	"github.com/eshaffer321/churnpilot-backend/internal/domain/period"
)

// HealthResponse is the health check payload.
type HealthResponse struct {
	Status string `json:"status"`
}

// BenefitView is a benefit definition decorated with its computed state
// at the requested as-of date. The computed fields are derived on every
// read and never stored.
type BenefitView struct {
	Name        string  `json:"name"`
	Amount      float64 `json:"amount"`
	Recurrence  string  `json:"recurrence"`
	Notes       string  `json:"notes,omitempty"`
	Period      string  `json:"period"`
	PeriodLabel string  `json:"period_display"`
	Used        bool    `json:"used"`
	RemindDue   bool    `json:"remind_due"`
}

// CardResponse is a card record plus everything computed from it.
type CardResponse struct {
	ID                string        `json:"id"`
	Name              string        `json:"name"`
	Nickname          string        `json:"nickname,omitempty"`
	Issuer            string        `json:"issuer"`
	AnnualFee         int           `json:"annual_fee"`
	AnnualFeeKnown    bool          `json:"annual_fee_known"`
	TemplateID        string        `json:"template_id,omitempty"`
	Business          bool          `json:"business"`
	Closed            bool          `json:"closed"`
	OpenedDate        string        `json:"opened_date,omitempty"`
	Notes             string        `json:"notes,omitempty"`
	CreatedAt         string        `json:"created_at,omitempty"`
	Benefits          []BenefitView `json:"benefits"`
	SignupBonus       *bonus.Status `json:"signup_bonus,omitempty"`
	NextAnnualFeeDate string        `json:"next_annual_fee_date,omitempty"`
}

// NewCardResponse decorates a record with its computed state as of the
// given date.
func NewCardResponse(rec *card.Record, asOf time.Time) CardResponse {
	resp := CardResponse{
		ID:             rec.ID,
		Name:           rec.Name,
		Nickname:       rec.Nickname,
		Issuer:         rec.Issuer,
		AnnualFee:      rec.AnnualFee,
		AnnualFeeKnown: rec.AnnualFee != card.AnnualFeeUnknown,
		TemplateID:     rec.TemplateID,
		Business:       rec.Business,
		Closed:         rec.Closed,
		Notes:          rec.Notes,
		Benefits:       make([]BenefitView, 0, len(rec.Benefits)),
		SignupBonus:    bonus.Evaluate(rec, asOf),
	}
	if rec.OpenedDate != nil {
		resp.OpenedDate = rec.OpenedDate.Format(dateFormat)
	}
	if !rec.CreatedAt.IsZero() {
		resp.CreatedAt = rec.CreatedAt.Format(time.RFC3339)
	}
	if next := bonus.NextAnnualFeeDate(rec.OpenedDate, asOf); next != nil {
		resp.NextAnnualFeeDate = next.Format(dateFormat)
	}

	for _, b := range rec.Benefits {
		st := period.Evaluate(b.Recurrence, rec.UsageFor(b.Name), asOf)
		resp.Benefits = append(resp.Benefits, BenefitView{
			Name:        b.Name,
			Amount:      b.Amount,
			Recurrence:  string(b.Recurrence),
			Notes:       b.Notes,
			Period:      st.Label,
			PeriodLabel: period.DisplayName(b.Recurrence, asOf),
			Used:        st.Used,
			RemindDue:   st.RemindDue,
		})
	}

	return resp
}

// NewCardResponses decorates a batch of records.
func NewCardResponses(records []card.Record, asOf time.Time) []CardResponse {
	out := make([]CardResponse, 0, len(records))
	for i := range records {
		out = append(out, NewCardResponse(&records[i], asOf))
	}
	return out
}

// MatchPreviewResponse shows what the matcher would do for a name without
// creating anything.
type MatchPreviewResponse struct {
	Query   string           `json:"query"`
	Issuer  string           `json:"issuer,omitempty"`
	Matches []MatchCandidate `json:"matches"`
	Best    *MatchCandidate  `json:"best,omitempty"`
}

// MatchCandidate is one scored catalog candidate.
type MatchCandidate struct {
	TemplateID   string  `json:"template_id"`
	TemplateName string  `json:"template_name"`
	Issuer       string  `json:"issuer"`
	Confidence   float64 `json:"confidence"`
	Tier         string  `json:"match_tier"`
}

// EligibilityResponse reports rolling-window standing plus the drop-off
// timeline.
type EligibilityResponse struct {
	Rule          bonus.Rule        `json:"rule"`
	Count         int               `json:"count"`
	Limit         int               `json:"limit"`
	Standing      string            `json:"standing"`
	Counted       []CardResponse    `json:"counted"`
	Unverified    []CardResponse    `json:"unverified,omitempty"`
	NextDropOff   string            `json:"next_drop_off,omitempty"`
	DaysUntilDrop *int              `json:"days_until_drop,omitempty"`
	Timeline      []DropOffResponse `json:"timeline"`
}

// DropOffResponse is one entry in the drop-off timeline.
type DropOffResponse struct {
	CardID    string `json:"card_id"`
	CardName  string `json:"card_name"`
	Date      string `json:"date"`
	DaysUntil int    `json:"days_until"`
}
