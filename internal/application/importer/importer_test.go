package importer

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eshaffer321/churnpilot-backend/internal/adapters/extraction"
	"github.com/eshaffer321/churnpilot-backend/internal/domain/card"
	"github.com/eshaffer321/churnpilot-backend/internal/domain/catalog"
	"github.com/eshaffer321/churnpilot-backend/internal/domain/enrich"
	"github.com/eshaffer321/churnpilot-backend/internal/domain/matcher"
	"github.com/eshaffer321/churnpilot-backend/internal/infrastructure/storage"
)

type stubChatClient struct {
	response string
	err      error
}

func (s *stubChatClient) CreateChatCompletion(_ context.Context, _ extraction.ChatCompletionRequest) (*extraction.ChatCompletionResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &extraction.ChatCompletionResponse{
		Choices: []extraction.Choice{{Message: extraction.Message{Content: s.response}}},
	}, nil
}

func newTestImporter(t *testing.T, client extraction.ChatClient) (*Importer, *storage.MockRepository) {
	t.Helper()
	cat := catalog.Builtin()
	m, err := matcher.New(cat, matcher.DefaultConfig())
	require.NoError(t, err)
	repo := storage.NewMockRepository()
	im := NewImporter(repo, enrich.NewMerger(cat, m, nil), client, "gpt-4o", nil)
	im.now = func() time.Time { return card.Date(2026, time.February, 1) }
	return im, repo
}

func TestImportRows(t *testing.T) {
	im, repo := newTestImporter(t, nil)

	fee := 95
	rows := []ParsedRow{
		{
			CardName:            "Chase Sapphire Preferred",
			Nickname:            "P2's Card",
			Status:              "Long-term",
			AnnualFee:           &fee,
			OpenedDate:          "2026-01-10",
			SubReward:           "60,000 points",
			SubSpendRequirement: 4000,
			SubWindowDays:       90,
			Benefits: []ParsedBenefit{
				{Name: "Hotel Credit", Amount: 50, Frequency: "annual", IsUsed: true},
			},
		},
		{CardName: "Old Card", Status: "Closed"},
	}

	report := im.ImportRows(rows, true)

	assert.Equal(t, 1, report.Imported)
	assert.Equal(t, 1, report.Skipped)
	assert.Empty(t, report.Errors)

	stored, err := repo.ListCards()
	require.NoError(t, err)
	require.Len(t, stored, 1)

	rec := stored[0]
	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, "P2's Card", rec.Nickname)
	assert.Equal(t, 95, rec.AnnualFee)
	require.NotNil(t, rec.OpenedDate)
	assert.True(t, rec.OpenedDate.Equal(card.Date(2026, time.January, 10)))

	require.NotNil(t, rec.SignupBonus)
	assert.Equal(t, 4000.0, rec.SignupBonus.SpendRequirement)
	assert.Equal(t, 90, rec.SignupBonus.WindowDays)

	// Enrichment matched the builtin template and merged its benefits in.
	assert.Equal(t, "chase_sapphire_preferred", rec.TemplateID)
	assert.True(t, rec.HasBenefit("Hotel Credit"))

	// is_used stamps the current period for the benefit's cadence.
	assert.Equal(t, "2026", rec.UsageFor("Hotel Credit").LastUsedPeriod)
}

func TestImportRows_UnknownFeeStaysUnknown(t *testing.T) {
	im, repo := newTestImporter(t, nil)

	report := im.ImportRows([]ParsedRow{{CardName: "Totally Unknown Card XYZ"}}, true)

	assert.Equal(t, 1, report.Imported)
	stored, err := repo.ListCards()
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, card.AnnualFeeUnknown, stored[0].AnnualFee)
	assert.Empty(t, stored[0].TemplateID)
}

func TestImportRows_ClosedKeptWhenNotSkipping(t *testing.T) {
	im, repo := newTestImporter(t, nil)

	report := im.ImportRows([]ParsedRow{{CardName: "Old Card", Status: "closed"}}, false)

	assert.Equal(t, 1, report.Imported)
	stored, err := repo.ListCards()
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.True(t, stored[0].Closed)
}

func TestImportRows_DefaultBonusWindow(t *testing.T) {
	im, repo := newTestImporter(t, nil)

	im.ImportRows([]ParsedRow{{CardName: "Some Card", SubReward: "50k points"}}, true)

	stored, err := repo.ListCards()
	require.NoError(t, err)
	require.NotNil(t, stored[0].SignupBonus)
	assert.Equal(t, 90, stored[0].SignupBonus.WindowDays)
}

func TestImportRows_SaveErrorReportedNotFatal(t *testing.T) {
	im, repo := newTestImporter(t, nil)
	repo.SaveErr = assert.AnError

	report := im.ImportRows([]ParsedRow{{CardName: "Some Card"}}, true)

	assert.Equal(t, 0, report.Imported)
	require.Len(t, report.Errors, 1)
	assert.Contains(t, report.Errors[0], "Some Card")
}

func TestParseSpreadsheet(t *testing.T) {
	client := &stubChatClient{response: `Here you go:
[
  {"card_name": "Chase Sapphire Preferred", "opened_date": "2026-01-10"},
  {"card_name": ""},
  {"card_name": "Amex Gold", "benefits": [{"name": "Uber [monthly] Credit", "amount": 10, "frequency": "monthly"}]}
]`}
	im, _ := newTestImporter(t, client)

	rows, errs, err := im.ParseSpreadsheet(context.Background(), "name,opened\nCSP,2026-01-10")
	require.NoError(t, err)

	require.Len(t, rows, 2)
	assert.Equal(t, "Chase Sapphire Preferred", rows[0].CardName)
	assert.Equal(t, "Amex Gold", rows[1].CardName)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "row 2")
}

func TestParseSpreadsheet_EmptyContent(t *testing.T) {
	im, _ := newTestImporter(t, &stubChatClient{response: "[]"})
	_, _, err := im.ParseSpreadsheet(context.Background(), "  ")
	assert.Error(t, err)
}

func TestParseSpreadsheet_NoArrayInResponse(t *testing.T) {
	im, _ := newTestImporter(t, &stubChatClient{response: "I could not parse that."})
	_, _, err := im.ParseSpreadsheet(context.Background(), "data")
	assert.Error(t, err)
}

func TestExtractJSONArray_BracketsInsideStrings(t *testing.T) {
	out, err := extractJSONArray(`note [{"card_name": "Weird [Card]"}] done`)
	require.NoError(t, err)
	assert.Equal(t, `[{"card_name": "Weird [Card]"}]`, out)
}

func TestImport_EndToEnd(t *testing.T) {
	client := &stubChatClient{response: `[
  {"card_name": "Chase Sapphire Preferred", "status": "Closed"},
  {"card_name": "Capital One Venture X", "annual_fee": 395}
]`}
	im, repo := newTestImporter(t, client)

	report, err := im.Import(context.Background(), "some,sheet", true)
	require.NoError(t, err)

	assert.Equal(t, 1, report.Imported)
	assert.Equal(t, 1, report.Skipped)

	stored, err := repo.ListCards()
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, "capital_one_venture_x", stored[0].TemplateID)
}
