package extraction

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/eshaffer321/churnpilot-backend/internal/domain/card"
)

const systemPrompt = `You are a credit card data analyst specializing in extracting structured information from credit card marketing materials and reviews.

Your job is to:
1. Ignore marketing fluff, ads, and promotional language
2. Extract only factual, quantifiable data about the credit card
3. Be precise with numbers (fees, points, spend requirements)
4. Convert time periods to days (3 months = 90 days)

Always respond with valid JSON only. No explanations, no markdown formatting.`

const extractionPrompt = `Analyze the following credit card information and extract structured data.

Extract these fields:
- name: Full card name (e.g., "The Platinum Card from American Express")
- issuer: Card issuer (American Express, Chase, Citi, Capital One, Bank of America, Discover, Wells Fargo, US Bank, Barclays, or Other)
- annual_fee: Annual fee in dollars as integer (0 if no fee, -1 if unknown)
- signup_bonus: Current sign-up bonus offer (null if none mentioned)
  - reward: The bonus value with unit (e.g., "80,000 points", "$200 cash back")
  - spend_requirement: Required spend amount in dollars
  - window_days: Days to meet requirement (convert months: 3 months = 90 days)
- benefits: List of recurring credits/benefits with dollar value
  - name: Credit name (e.g., "Uber Credit", "Airline Fee Credit")
  - amount: Dollar amount per occurrence
  - frequency: "monthly", "quarterly", "semiannual", "annual", or "one-time"
  - notes: Any conditions or limitations (optional)

Return JSON matching this exact schema:
{
  "name": "string",
  "issuer": "string",
  "annual_fee": number,
  "signup_bonus": {
    "reward": "string",
    "spend_requirement": number,
    "window_days": number
  } | null,
  "benefits": [
    {
      "name": "string",
      "amount": number,
      "frequency": "string",
      "notes": "string or null"
    }
  ]
}

Content to analyze:
---
%s
---

Respond with JSON only:`

// maxContentChars caps how much text is sent per request. The key facts
// of an offer page sit near the top, so truncation keeps them.
const maxContentChars = 15000

// CardData is the structured output of a single extraction.
type CardData struct {
	Name        string                   `json:"name"`
	Issuer      string                   `json:"issuer"`
	AnnualFee   int                      `json:"annual_fee"`
	SignupBonus *extractedBonus          `json:"signup_bonus"`
	Benefits    []card.BenefitDefinition `json:"benefits"`
}

type extractedBonus struct {
	Reward           string  `json:"reward"`
	SpendRequirement float64 `json:"spend_requirement"`
	WindowDays       int     `json:"window_days"`
}

// ApplyTo copies the extracted fields onto a card record. The record's raw
// text is set to the source so extraction can be re-run later.
func (d *CardData) ApplyTo(rec *card.Record, sourceText string) {
	rec.Name = d.Name
	rec.Issuer = d.Issuer
	rec.AnnualFee = d.AnnualFee
	rec.RawText = sourceText
	if d.SignupBonus != nil {
		rec.SignupBonus = &card.SignupBonus{
			Reward:           d.SignupBonus.Reward,
			SpendRequirement: d.SignupBonus.SpendRequirement,
			WindowDays:       d.SignupBonus.WindowDays,
		}
	}
	rec.Benefits = append([]card.BenefitDefinition(nil), d.Benefits...)
}

// Extractor extracts structured card data from offer text
type Extractor struct {
	client ChatClient
	model  string
	logger *slog.Logger
}

// NewExtractor creates an extractor backed by the given chat client
func NewExtractor(client ChatClient, model string, logger *slog.Logger) *Extractor {
	if model == "" {
		model = "gpt-4o"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{client: client, model: model, logger: logger}
}

// ExtractFromText analyzes raw offer text and returns structured card data
func (e *Extractor) ExtractFromText(ctx context.Context, text string) (*CardData, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("extraction: empty text provided")
	}

	content := text
	if len(content) > maxContentChars {
		content = content[:maxContentChars] + "\n\n[Content truncated...]"
	}

	resp, err := e.client.CreateChatCompletion(ctx, ChatCompletionRequest{
		Model:       e.model,
		Temperature: 0.1,
		Messages: []Message{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: fmt.Sprintf(extractionPrompt, content)},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("extraction: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("extraction: response has no choices")
	}

	raw := resp.Choices[0].Message.Content
	jsonStr, err := extractJSON(raw)
	if err != nil {
		return nil, err
	}

	var data CardData
	if err := json.Unmarshal([]byte(jsonStr), &data); err != nil {
		return nil, fmt.Errorf("extraction: failed to parse model output as JSON: %w", err)
	}
	normalizeCardData(&data)

	e.logger.Debug("extracted card data",
		"name", data.Name,
		"issuer", data.Issuer,
		"benefits", len(data.Benefits),
	)

	return &data, nil
}

// normalizeCardData fills defaults and coerces frequency strings so the
// rest of the engine sees only known recurrence values or one-time.
func normalizeCardData(d *CardData) {
	if d.Name == "" {
		d.Name = "Unknown Card"
	}
	for i := range d.Benefits {
		b := &d.Benefits[i]
		if b.Name == "" {
			b.Name = "Unknown Credit"
		}
		b.Recurrence = coerceRecurrence(string(b.Recurrence))
	}
}

func coerceRecurrence(freq string) card.Recurrence {
	switch strings.ToLower(strings.TrimSpace(freq)) {
	case "monthly", "month":
		return card.RecurrenceMonthly
	case "quarterly", "quarter":
		return card.RecurrenceQuarterly
	case "semiannual", "semi-annual", "semi annual", "biannual":
		return card.RecurrenceSemiannual
	case "annual", "annually", "yearly":
		return card.RecurrenceAnnual
	default:
		return card.RecurrenceOneTime
	}
}

// codeBlockPattern matches a JSON object inside ```json ... ``` fences.
var codeBlockPattern = regexp.MustCompile("```(?:json)?\\s*(\\{[\\s\\S]*?\\})\\s*```")

// extractJSON pulls the outermost JSON object out of a model response.
// Handles raw JSON, markdown code fences, and JSON mixed with prose.
func extractJSON(response string) (string, error) {
	text := strings.TrimSpace(response)

	if m := codeBlockPattern.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1]), nil
	}

	start := strings.IndexByte(text, '{')
	if start == -1 {
		return "", fmt.Errorf("extraction: no JSON object found in response")
	}

	// Brace-match from the first opening brace, skipping braces inside
	// string literals.
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
		case '{':
			if !inString {
				depth++
			}
		case '}':
			if !inString {
				depth--
				if depth == 0 {
					return text[start : i+1], nil
				}
			}
		}
	}

	return "", fmt.Errorf("extraction: no valid JSON object found (unmatched braces)")
}
