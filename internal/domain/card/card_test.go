package card

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRecord_Validate(t *testing.T) {
	valid := Record{ID: "1", Name: "Test Card"}
	assert.NoError(t, valid.Validate())

	tests := []struct {
		name string
		rec  Record
	}{
		{"missing id", Record{Name: "Test Card"}},
		{"missing name", Record{ID: "1", Name: "   "}},
		{"bad annual fee", Record{ID: "1", Name: "x", AnnualFee: -2}},
		{"negative spend requirement", Record{
			ID: "1", Name: "x",
			SignupBonus: &SignupBonus{SpendRequirement: -100},
		}},
		{"negative window", Record{
			ID: "1", Name: "x",
			SignupBonus: &SignupBonus{WindowDays: -1},
		}},
		{"negative accrued spend", Record{
			ID: "1", Name: "x",
			SignupBonus: &SignupBonus{AccruedSpend: -5},
		}},
		{"empty benefit name", Record{
			ID: "1", Name: "x",
			Benefits: []BenefitDefinition{{Name: " "}},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, tt.rec.Validate())
		})
	}
}

func TestRecord_UsageForCaseInsensitive(t *testing.T) {
	rec := Record{
		ID:   "1",
		Name: "x",
		Usage: map[string]UsageState{
			"Travel Credit": {LastUsedPeriod: "2026 Q1"},
		},
	}

	assert.Equal(t, "2026 Q1", rec.UsageFor("travel credit").LastUsedPeriod)
	assert.Equal(t, "", rec.UsageFor("dining credit").LastUsedPeriod)
}

func TestRecord_SetUsageReplacesCaseVariant(t *testing.T) {
	rec := Record{ID: "1", Name: "x"}
	rec.SetUsage("travel credit", UsageState{LastUsedPeriod: "2026 Q1"})
	rec.SetUsage("Travel Credit", UsageState{LastUsedPeriod: "2026 Q2"})

	assert.Len(t, rec.Usage, 1)
	assert.Equal(t, "2026 Q2", rec.UsageFor("TRAVEL CREDIT").LastUsedPeriod)
}

func TestRecord_HasBenefit(t *testing.T) {
	rec := Record{
		ID:   "1",
		Name: "x",
		Benefits: []BenefitDefinition{
			{Name: "Uber Credit", Amount: 15, Recurrence: RecurrenceMonthly},
		},
	}

	assert.True(t, rec.HasBenefit("UBER credit"))
	assert.False(t, rec.HasBenefit("Hotel Credit"))
}

func TestRecurrence_Known(t *testing.T) {
	assert.True(t, RecurrenceMonthly.Known())
	assert.True(t, RecurrenceOneTime.Known())
	assert.False(t, Recurrence("fortnightly").Known())
	assert.False(t, Recurrence("").Known())
}

func TestDate(t *testing.T) {
	d := Date(2026, time.March, 15)
	assert.Equal(t, time.UTC, d.Location())
	assert.Equal(t, 0, d.Hour())

	p := DatePtr(2026, time.March, 15)
	assert.True(t, p.Equal(d))
}
