package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eshaffer321/churnpilot-backend/internal/domain/card"
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()
	s, err := NewStorage(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func sampleRecord() *card.Record {
	return &card.Record{
		ID:         "rec-1",
		Name:       "Chase Sapphire Preferred",
		Nickname:   "daily driver",
		Issuer:     "Chase",
		AnnualFee:  95,
		TemplateID: "chase_sapphire_preferred",
		OpenedDate: card.DatePtr(2026, time.January, 10),
		SignupBonus: &card.SignupBonus{
			Reward:           "60,000 points",
			SpendRequirement: 4000,
			WindowDays:       90,
			AccruedSpend:     1200,
		},
		Benefits: []card.BenefitDefinition{
			{Name: "Chase Travel Hotel Credit", Amount: 50, Recurrence: card.RecurrenceAnnual},
		},
		Usage: map[string]card.UsageState{
			"Chase Travel Hotel Credit": {LastUsedPeriod: "2026"},
		},
		Notes:     "opened for the bonus",
		RawText:   "Earn 60,000 bonus points...",
		CreatedAt: card.Date(2026, time.January, 10),
	}
}

func TestStorage_SaveAndGetRoundTrip(t *testing.T) {
	s := newTestStorage(t)
	rec := sampleRecord()

	require.NoError(t, s.SaveCard(rec))

	got, err := s.GetCard("rec-1")
	require.NoError(t, err)

	assert.Equal(t, rec.Name, got.Name)
	assert.Equal(t, rec.Nickname, got.Nickname)
	assert.Equal(t, rec.AnnualFee, got.AnnualFee)
	assert.Equal(t, rec.TemplateID, got.TemplateID)
	require.NotNil(t, got.OpenedDate)
	assert.True(t, got.OpenedDate.Equal(*rec.OpenedDate))
	require.NotNil(t, got.SignupBonus)
	assert.Equal(t, 4000.0, got.SignupBonus.SpendRequirement)
	assert.Equal(t, 1200.0, got.SignupBonus.AccruedSpend)
	require.Len(t, got.Benefits, 1)
	assert.Equal(t, card.RecurrenceAnnual, got.Benefits[0].Recurrence)
	assert.Equal(t, "2026", got.UsageFor("chase travel hotel credit").LastUsedPeriod)
	assert.Equal(t, rec.RawText, got.RawText)
}

func TestStorage_SaveReplacesExisting(t *testing.T) {
	s := newTestStorage(t)
	rec := sampleRecord()
	require.NoError(t, s.SaveCard(rec))

	rec.Nickname = "renamed"
	rec.SignupBonus.AccruedSpend = 4000
	require.NoError(t, s.SaveCard(rec))

	got, err := s.GetCard("rec-1")
	require.NoError(t, err)
	assert.Equal(t, "renamed", got.Nickname)
	assert.Equal(t, 4000.0, got.SignupBonus.AccruedSpend)

	all, err := s.ListCards()
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestStorage_NilOptionalFields(t *testing.T) {
	s := newTestStorage(t)
	rec := &card.Record{ID: "bare", Name: "Bare Card"}
	require.NoError(t, s.SaveCard(rec))

	got, err := s.GetCard("bare")
	require.NoError(t, err)
	assert.Nil(t, got.OpenedDate)
	assert.Nil(t, got.SignupBonus)
	assert.Empty(t, got.Benefits)
}

func TestStorage_GetMissing(t *testing.T) {
	s := newTestStorage(t)
	_, err := s.GetCard("nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStorage_Delete(t *testing.T) {
	s := newTestStorage(t)
	require.NoError(t, s.SaveCard(sampleRecord()))

	require.NoError(t, s.DeleteCard("rec-1"))
	_, err := s.GetCard("rec-1")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, s.DeleteCard("rec-1"), ErrNotFound)
}

func TestStorage_ListOrdering(t *testing.T) {
	s := newTestStorage(t)

	older := &card.Record{ID: "b", Name: "Older", CreatedAt: card.Date(2025, time.March, 1)}
	newer := &card.Record{ID: "a", Name: "Newer", CreatedAt: card.Date(2026, time.March, 1)}
	require.NoError(t, s.SaveCard(newer))
	require.NoError(t, s.SaveCard(older))

	all, err := s.ListCards()
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Older", all[0].Name)
	assert.Equal(t, "Newer", all[1].Name)
}

func TestStorage_SaveInvalidRecord(t *testing.T) {
	s := newTestStorage(t)
	assert.Error(t, s.SaveCard(&card.Record{Name: "no id"}))
}

func TestStorage_MigrationsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reopen.db")

	s1, err := NewStorage(path)
	require.NoError(t, err)
	require.NoError(t, s1.SaveCard(sampleRecord()))
	require.NoError(t, s1.Close())

	// Reopening the same file must not re-run applied migrations or lose data.
	s2, err := NewStorage(path)
	require.NoError(t, err)
	defer func() { _ = s2.Close() }()

	got, err := s2.GetCard("rec-1")
	require.NoError(t, err)
	assert.Equal(t, "Chase Sapphire Preferred", got.Name)
}

func TestMockRepository(t *testing.T) {
	m := NewMockRepository()

	require.NoError(t, m.SaveCard(sampleRecord()))

	got, err := m.GetCard("rec-1")
	require.NoError(t, err)
	assert.Equal(t, "Chase Sapphire Preferred", got.Name)

	// The mock hands back copies, not aliases.
	got.Name = "mutated"
	again, err := m.GetCard("rec-1")
	require.NoError(t, err)
	assert.Equal(t, "Chase Sapphire Preferred", again.Name)

	require.NoError(t, m.DeleteCard("rec-1"))
	_, err = m.GetCard("rec-1")
	assert.ErrorIs(t, err, ErrNotFound)
}
