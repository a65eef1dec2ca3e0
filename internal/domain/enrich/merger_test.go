package enrich

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eshaffer321/churnpilot-backend/internal/domain/card"
	"github.com/eshaffer321/churnpilot-backend/internal/domain/catalog"
	"github.com/eshaffer321/churnpilot-backend/internal/domain/matcher"
)

func sapphireTemplate() card.Template {
	return card.Template{
		ID:        "chase_sapphire_preferred",
		Name:      "Chase Sapphire Preferred Credit Card",
		Issuer:    "Chase",
		AnnualFee: 95,
		Benefits: []card.BenefitDefinition{
			{Name: "Travel Credit", Amount: 50, Recurrence: card.RecurrenceAnnual},
			{Name: "Dining Credit", Amount: 10, Recurrence: card.RecurrenceMonthly},
			{Name: "Hotel Credit", Amount: 60, Recurrence: card.RecurrenceAnnual},
		},
	}
}

func newTestMerger(t *testing.T) (*Merger, *catalog.Catalog) {
	t.Helper()
	cat, err := catalog.New([]card.Template{sapphireTemplate()})
	require.NoError(t, err)
	m, err := matcher.New(cat, matcher.DefaultConfig())
	require.NoError(t, err)
	return NewMerger(cat, m, nil), cat
}

func TestApply_AddsOnlyMissingBenefits(t *testing.T) {
	tpl := sapphireTemplate()
	rec := card.Record{
		ID:        "rec1",
		Name:      "Chase Sapphire Preferred",
		Issuer:    "Chase",
		AnnualFee: 95,
		Benefits: []card.BenefitDefinition{
			// User already tracks this one with a custom amount.
			{Name: "Travel Credit", Amount: 75, Recurrence: card.RecurrenceAnnual},
		},
	}

	merged, added := Apply(rec, &tpl)

	assert.Equal(t, 2, added)
	require.Len(t, merged.Benefits, 3)
	assert.Equal(t, 75.0, merged.Benefits[0].Amount, "existing benefit value must be untouched")
	assert.True(t, merged.HasBenefit("Dining Credit"))
	assert.True(t, merged.HasBenefit("Hotel Credit"))
	assert.Equal(t, "chase_sapphire_preferred", merged.TemplateID)
}

func TestApply_BenefitNameMatchIsCaseInsensitive(t *testing.T) {
	tpl := sapphireTemplate()
	rec := card.Record{
		ID:   "rec1",
		Name: "Chase Sapphire Preferred",
		Benefits: []card.BenefitDefinition{
			{Name: "TRAVEL credit", Amount: 75, Recurrence: card.RecurrenceAnnual},
		},
	}

	merged, added := Apply(rec, &tpl)

	assert.Equal(t, 2, added)
	assert.Len(t, merged.Benefits, 3)
}

func TestApply_NeverOverwritesScalars(t *testing.T) {
	tpl := sapphireTemplate()
	rec := card.Record{
		ID:        "rec1",
		Name:      "My Sapphire",
		Issuer:    "JPMorgan Chase",
		AnnualFee: 0, // user says fee is waived; 0 is a set value, not unknown
	}

	merged, _ := Apply(rec, &tpl)

	assert.Equal(t, "My Sapphire", merged.Name)
	assert.Equal(t, "JPMorgan Chase", merged.Issuer)
	assert.Equal(t, 0, merged.AnnualFee)
}

func TestApply_FillsUnsetScalars(t *testing.T) {
	tpl := sapphireTemplate()
	rec := card.Record{ID: "rec1", AnnualFee: card.AnnualFeeUnknown}

	merged, _ := Apply(rec, &tpl)

	assert.Equal(t, tpl.Name, merged.Name)
	assert.Equal(t, "Chase", merged.Issuer)
	assert.Equal(t, 95, merged.AnnualFee)
}

func TestApply_UnknownTemplateFeeDoesNotFill(t *testing.T) {
	tpl := sapphireTemplate()
	tpl.AnnualFee = card.AnnualFeeUnknown
	rec := card.Record{ID: "rec1", Name: "x", AnnualFee: card.AnnualFeeUnknown}

	merged, _ := Apply(rec, &tpl)

	assert.Equal(t, card.AnnualFeeUnknown, merged.AnnualFee)
}

func TestApply_Idempotent(t *testing.T) {
	tpl := sapphireTemplate()
	rec := card.Record{ID: "rec1", Name: "Chase Sapphire Preferred"}

	once, addedFirst := Apply(rec, &tpl)
	twice, addedSecond := Apply(once, &tpl)

	assert.Equal(t, 3, addedFirst)
	assert.Equal(t, 0, addedSecond)
	assert.Equal(t, once.Benefits, twice.Benefits)
}

func TestApply_DoesNotAliasTemplateBenefits(t *testing.T) {
	tpl := sapphireTemplate()
	rec := card.Record{ID: "rec1", Name: "Chase Sapphire Preferred"}

	merged, _ := Apply(rec, &tpl)
	require.NotEmpty(t, merged.Benefits)

	merged.Benefits[0].Amount = 9999
	assert.Equal(t, 50.0, tpl.Benefits[0].Amount, "mutating the record must not reach the template")
}

func TestMerger_Enrich_MatchAboveFloor(t *testing.T) {
	m, _ := newTestMerger(t)
	rec := card.Record{ID: "rec1", Name: "CSP", Issuer: "Chase", AnnualFee: card.AnnualFeeUnknown}

	res := m.Enrich(rec)

	assert.True(t, res.Matched)
	assert.Equal(t, "chase_sapphire_preferred", res.TemplateID)
	assert.Equal(t, 3, res.BenefitsAdded)
	assert.Equal(t, 95, res.Record.AnnualFee)
}

func TestMerger_Enrich_NoMatchIsNoOp(t *testing.T) {
	m, _ := newTestMerger(t)
	rec := card.Record{
		ID:     "rec1",
		Name:   "Obscure Regional Bank Card",
		Issuer: "Obscure Regional Bank",
	}

	res := m.Enrich(rec)

	assert.False(t, res.Matched)
	assert.Equal(t, 0, res.BenefitsAdded)
	assert.Equal(t, rec, res.Record, "unmatched record must come back byte-for-byte unchanged")
}

func TestMerger_EnrichAll_Report(t *testing.T) {
	m, _ := newTestMerger(t)
	records := []card.Record{
		{ID: "a", Name: "Chase Sapphire Preferred Credit Card"},
		{ID: "b", Name: "Nobody Knows This Card"},
		{ID: "c", Name: "CSP", Issuer: "Chase"},
	}

	out, report := m.EnrichAll(records)

	require.Len(t, out, 3)
	assert.Equal(t, 3, report.Processed)
	assert.Equal(t, 2, report.Enriched)
	assert.Equal(t, 1, report.Unmatched)
	assert.Equal(t, 6, report.BenefitsAdded)
	assert.Equal(t, "Nobody Knows This Card", out[1].Name)
}
