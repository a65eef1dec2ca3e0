package bonus

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eshaffer321/churnpilot-backend/internal/domain/card"
)

func TestEvaluate_DeadlineFromOpenedDate(t *testing.T) {
	rec := &card.Record{
		ID:         "rec1",
		Name:       "Test Card",
		OpenedDate: card.DatePtr(2026, time.January, 10),
		SignupBonus: &card.SignupBonus{
			Reward:           "60,000 points",
			SpendRequirement: 4000,
			WindowDays:       90,
		},
	}

	st := Evaluate(rec, card.Date(2026, time.February, 1))

	require.NotNil(t, st)
	require.NotNil(t, st.Deadline)
	assert.Equal(t, card.Date(2026, time.April, 10), *st.Deadline)
	assert.False(t, st.DeadlineUnknown)
	assert.False(t, st.Achieved)
	assert.False(t, st.Expired)
	require.NotNil(t, st.DaysRemaining)
	assert.Equal(t, 68, *st.DaysRemaining)
	assert.Equal(t, 4000.0, st.SpendRemaining)
}

func TestEvaluate_NoOpenedDateMeansNoDeadline(t *testing.T) {
	rec := &card.Record{
		ID:   "rec1",
		Name: "Test Card",
		SignupBonus: &card.SignupBonus{
			SpendRequirement: 4000,
			WindowDays:       90,
		},
	}

	// A missing opened date is an explicit unknown, never a guessed
	// deadline and never an expiry - regardless of the as-of date.
	for _, asOf := range []time.Time{
		card.Date(2026, time.January, 1),
		card.Date(2030, time.January, 1),
	} {
		st := Evaluate(rec, asOf)
		require.NotNil(t, st)
		assert.Nil(t, st.Deadline)
		assert.True(t, st.DeadlineUnknown)
		assert.False(t, st.Expired)
	}
}

func TestEvaluate_AchievedByAccruedSpend(t *testing.T) {
	rec := &card.Record{
		ID:         "rec1",
		Name:       "Test Card",
		OpenedDate: card.DatePtr(2026, time.January, 10),
		SignupBonus: &card.SignupBonus{
			SpendRequirement: 4000,
			WindowDays:       90,
			AccruedSpend:     4000,
		},
	}

	// Achievement is terminal: even evaluated well past the deadline the
	// bonus reads achieved, not expired.
	st := Evaluate(rec, card.Date(2026, time.December, 1))

	require.NotNil(t, st)
	assert.True(t, st.Achieved)
	assert.False(t, st.Expired)
	assert.Equal(t, 0.0, st.SpendRemaining)
}

func TestEvaluate_ExpiredWhenPastDeadlineUnachieved(t *testing.T) {
	rec := &card.Record{
		ID:         "rec1",
		Name:       "Test Card",
		OpenedDate: card.DatePtr(2026, time.January, 10),
		SignupBonus: &card.SignupBonus{
			SpendRequirement: 4000,
			WindowDays:       90,
			AccruedSpend:     2500,
		},
	}

	st := Evaluate(rec, card.Date(2026, time.April, 11))

	require.NotNil(t, st)
	assert.False(t, st.Achieved)
	assert.True(t, st.Expired)
	assert.Nil(t, st.DaysRemaining)
	assert.Equal(t, 1500.0, st.SpendRemaining)
}

func TestEvaluate_OnDeadlineDayNotExpired(t *testing.T) {
	rec := &card.Record{
		ID:         "rec1",
		Name:       "Test Card",
		OpenedDate: card.DatePtr(2026, time.January, 10),
		SignupBonus: &card.SignupBonus{
			SpendRequirement: 4000,
			WindowDays:       90,
		},
	}

	st := Evaluate(rec, card.Date(2026, time.April, 10))

	require.NotNil(t, st)
	assert.False(t, st.Expired)
	require.NotNil(t, st.DaysRemaining)
	assert.Equal(t, 0, *st.DaysRemaining)
}

func TestEvaluate_ExplicitDeadlineWins(t *testing.T) {
	// An imported record may carry the issuer's actual deadline; the
	// derived opened+window date must not replace it.
	rec := &card.Record{
		ID:         "rec1",
		Name:       "Test Card",
		OpenedDate: card.DatePtr(2026, time.January, 10),
		SignupBonus: &card.SignupBonus{
			SpendRequirement: 4000,
			WindowDays:       90,
			Deadline:         card.DatePtr(2026, time.May, 1),
		},
	}

	st := Evaluate(rec, card.Date(2026, time.February, 1))

	require.NotNil(t, st)
	require.NotNil(t, st.Deadline)
	assert.Equal(t, card.Date(2026, time.May, 1), *st.Deadline)
}

func TestEvaluate_NoBonus(t *testing.T) {
	rec := &card.Record{ID: "rec1", Name: "Test Card"}
	assert.Nil(t, Evaluate(rec, card.Date(2026, time.January, 1)))
}

func TestNextAnnualFeeDate(t *testing.T) {
	opened := card.DatePtr(2024, time.March, 18)

	next := NextAnnualFeeDate(opened, card.Date(2026, time.January, 5))
	require.NotNil(t, next)
	assert.Equal(t, card.Date(2026, time.March, 18), *next)

	// On the anniversary itself the next fee is a year out.
	next = NextAnnualFeeDate(opened, card.Date(2026, time.March, 18))
	require.NotNil(t, next)
	assert.Equal(t, card.Date(2027, time.March, 18), *next)

	assert.Nil(t, NextAnnualFeeDate(nil, card.Date(2026, time.January, 5)))
}
