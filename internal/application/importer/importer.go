// Package importer brings cards in from tracking spreadsheets. A chat
// model parses the free-form spreadsheet into rows, and the importer
// turns rows into card records: template enrichment, signup bonus
// deadlines, and initial benefit usage stamps.
package importer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/eshaffer321/churnpilot-backend/internal/adapters/extraction"
	"github.com/eshaffer321/churnpilot-backend/internal/domain/card"
	"github.com/eshaffer321/churnpilot-backend/internal/domain/enrich"
	"github.com/eshaffer321/churnpilot-backend/internal/domain/period"
	"github.com/eshaffer321/churnpilot-backend/internal/infrastructure/storage"
)

// ParsedRow is the intermediate representation of one spreadsheet row.
type ParsedRow struct {
	CardName            string          `json:"card_name"`
	Nickname            string          `json:"nickname,omitempty"`
	Status              string          `json:"status,omitempty"`
	Issuer              string          `json:"issuer,omitempty"`
	Business            bool            `json:"business,omitempty"`
	AnnualFee           *int            `json:"annual_fee,omitempty"`
	OpenedDate          string          `json:"opened_date,omitempty"` // YYYY-MM-DD
	SubReward           string          `json:"sub_reward,omitempty"`
	SubSpendRequirement float64         `json:"sub_spend_requirement,omitempty"`
	SubWindowDays       int             `json:"sub_window_days,omitempty"`
	SubDeadline         string          `json:"sub_deadline,omitempty"` // YYYY-MM-DD
	SubAchieved         bool            `json:"sub_achieved,omitempty"`
	Benefits            []ParsedBenefit `json:"benefits,omitempty"`
	Notes               string          `json:"notes,omitempty"`
}

// ParsedBenefit is one benefit entry on a parsed row.
type ParsedBenefit struct {
	Name      string  `json:"name"`
	Amount    float64 `json:"amount"`
	Frequency string  `json:"frequency"`
	IsUsed    bool    `json:"is_used,omitempty"`
}

// Report aggregates an import run. Rows that fail to parse are collected
// in Errors and never halt the run.
type Report struct {
	Imported   int                `json:"imported"`
	Skipped    int                `json:"skipped"`
	Enrichment enrich.BatchReport `json:"enrichment"`
	Errors     []string           `json:"errors,omitempty"`
	Cards      []card.Record      `json:"cards"`
}

// Importer converts parsed spreadsheet rows into stored card records
type Importer struct {
	repo   storage.Repository
	merger *enrich.Merger
	client extraction.ChatClient
	model  string
	logger *slog.Logger
	now    func() time.Time
}

// NewImporter creates an importer. The chat client may be nil when only
// ImportRows is used; the logger may be nil.
func NewImporter(repo storage.Repository, merger *enrich.Merger, client extraction.ChatClient, model string, logger *slog.Logger) *Importer {
	if model == "" {
		model = "gpt-4o"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Importer{
		repo:   repo,
		merger: merger,
		client: client,
		model:  model,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

const parsePrompt = `You are parsing a credit card tracking spreadsheet into structured data.

The spreadsheet may be in any format, any language, with any column names.

For each card, extract:
1. card_name: The card name
2. nickname: User's nickname for the card (optional)
3. status: Card status (e.g., "Long-term", "Closed", "Active")
4. issuer: Card issuer if determinable
5. business: true if it is a business card
6. annual_fee: Annual fee as a number (0 if free, omit if unknown)
7. opened_date: When card was opened (YYYY-MM-DD format)
8. sub_reward: Signup bonus reward text (e.g., "80,000 points", "$500 cash")
9. sub_spend_requirement: Dollar amount to spend for the bonus
10. sub_window_days: Days to complete the bonus (3 months = 90, 6 months = 180)
11. sub_deadline: Actual deadline date if stated (YYYY-MM-DD)
12. sub_achieved: true if the bonus is already earned
13. benefits: Array of {name, amount, frequency, is_used}
    - frequency: "monthly", "quarterly", "semiannual", "annual", or "one-time"
    - Parse periods: Q1-Q4 (quarterly), H1-H2 (semiannual), CY (annual)
    - is_used: true if marked used/completed for the current period
14. notes: Any important notes

Output ONLY a JSON array of cards. No markdown, no explanations.

Spreadsheet content:
` + "```" + `
%s
` + "```"

// ParseSpreadsheet sends raw spreadsheet content to the chat model and
// parses the response into rows. Rows the model produced but that fail
// local validation come back as error strings, not a failed call.
func (im *Importer) ParseSpreadsheet(ctx context.Context, content string) ([]ParsedRow, []string, error) {
	if strings.TrimSpace(content) == "" {
		return nil, nil, fmt.Errorf("importer: empty spreadsheet content")
	}
	if im.client == nil {
		return nil, nil, fmt.Errorf("importer: no chat client configured")
	}

	resp, err := im.client.CreateChatCompletion(ctx, extraction.ChatCompletionRequest{
		Model:       im.model,
		Temperature: 0.1,
		Messages: []extraction.Message{
			{Role: "user", Content: fmt.Sprintf(parsePrompt, content)},
		},
	})
	if err != nil {
		return nil, nil, fmt.Errorf("importer: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, nil, fmt.Errorf("importer: response has no choices")
	}

	jsonStr, err := extractJSONArray(resp.Choices[0].Message.Content)
	if err != nil {
		return nil, nil, err
	}

	var rows []ParsedRow
	if err := json.Unmarshal([]byte(jsonStr), &rows); err != nil {
		return nil, nil, fmt.Errorf("importer: failed to parse model output: %w", err)
	}

	var valid []ParsedRow
	var errs []string
	for i, row := range rows {
		if strings.TrimSpace(row.CardName) == "" {
			errs = append(errs, fmt.Sprintf("row %d: missing card name", i+1))
			continue
		}
		valid = append(valid, row)
	}
	return valid, errs, nil
}

// Import parses spreadsheet content and imports the resulting rows.
func (im *Importer) Import(ctx context.Context, content string, skipClosed bool) (*Report, error) {
	rows, parseErrs, err := im.ParseSpreadsheet(ctx, content)
	if err != nil {
		return nil, err
	}
	report := im.ImportRows(rows, skipClosed)
	report.Errors = append(parseErrs, report.Errors...)
	return report, nil
}

// ImportRows converts rows into card records, enriches them against the
// catalog, and persists them. Closed rows are skipped when skipClosed is
// set; a row that fails to save is reported, not fatal.
func (im *Importer) ImportRows(rows []ParsedRow, skipClosed bool) *Report {
	report := &Report{}
	asOf := im.now()

	var records []card.Record
	for _, row := range rows {
		if skipClosed && strings.EqualFold(strings.TrimSpace(row.Status), "closed") {
			report.Skipped++
			continue
		}
		records = append(records, im.buildRecord(row, asOf))
	}

	enriched, batch := im.merger.EnrichAll(records)
	report.Enrichment = batch

	for i := range enriched {
		rec := enriched[i]
		if err := im.repo.SaveCard(&rec); err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("%s: %v", rec.Name, err))
			continue
		}
		report.Imported++
		report.Cards = append(report.Cards, rec)
	}

	im.logger.Info("import complete",
		"imported", report.Imported,
		"skipped", report.Skipped,
		"unmatched", batch.Unmatched,
		"benefits_added", batch.BenefitsAdded,
		"errors", len(report.Errors))

	return report
}

// buildRecord converts one parsed row into a card record.
func (im *Importer) buildRecord(row ParsedRow, asOf time.Time) card.Record {
	rec := card.Record{
		ID:        uuid.New().String(),
		Name:      strings.TrimSpace(row.CardName),
		Nickname:  row.Nickname,
		Issuer:    row.Issuer,
		AnnualFee: card.AnnualFeeUnknown,
		Business:  row.Business,
		Closed:    strings.EqualFold(strings.TrimSpace(row.Status), "closed"),
		Notes:     row.Notes,
		CreatedAt: asOf,
	}
	if row.AnnualFee != nil && *row.AnnualFee >= 0 {
		rec.AnnualFee = *row.AnnualFee
	}
	rec.OpenedDate = parseDate(row.OpenedDate)

	if row.SubReward != "" || row.SubSpendRequirement > 0 {
		sb := &card.SignupBonus{
			Reward:           row.SubReward,
			SpendRequirement: row.SubSpendRequirement,
			WindowDays:       row.SubWindowDays,
			Deadline:         parseDate(row.SubDeadline),
			Achieved:         row.SubAchieved,
		}
		if sb.WindowDays == 0 && sb.Deadline == nil {
			sb.WindowDays = 90
		}
		rec.SignupBonus = sb
	}

	for _, b := range row.Benefits {
		if strings.TrimSpace(b.Name) == "" {
			continue
		}
		recurrence := coerceRecurrence(b.Frequency)
		rec.Benefits = append(rec.Benefits, card.BenefitDefinition{
			Name:       b.Name,
			Amount:     b.Amount,
			Recurrence: recurrence,
		})
		// A benefit marked used in the sheet gets stamped with the current
		// period so it reads used until the next rollover.
		if b.IsUsed {
			rec.SetUsage(b.Name, period.MarkUsed(recurrence, asOf))
		}
	}

	return rec
}

func coerceRecurrence(freq string) card.Recurrence {
	switch strings.ToLower(strings.TrimSpace(freq)) {
	case "monthly", "month":
		return card.RecurrenceMonthly
	case "quarterly", "quarter":
		return card.RecurrenceQuarterly
	case "semiannual", "semi-annual", "semi-annually", "biannual":
		return card.RecurrenceSemiannual
	case "annual", "annually", "yearly":
		return card.RecurrenceAnnual
	default:
		return card.RecurrenceOneTime
	}
}

func parseDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil
	}
	t = t.UTC()
	return &t
}

// extractJSONArray pulls the outermost JSON array out of a model response,
// skipping brackets inside string literals.
func extractJSONArray(response string) (string, error) {
	text := strings.TrimSpace(response)

	start := strings.IndexByte(text, '[')
	if start == -1 {
		return "", fmt.Errorf("importer: no JSON array found in response")
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if escaped {
			escaped = false
			continue
		}
		switch c {
		case '\\':
			escaped = true
		case '"':
			inString = !inString
		case '[':
			if !inString {
				depth++
			}
		case ']':
			if !inString {
				depth--
				if depth == 0 {
					return text[start : i+1], nil
				}
			}
		}
	}

	return "", fmt.Errorf("importer: no valid JSON array found (unmatched brackets)")
}
