package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eshaffer321/churnpilot-backend/internal/domain/card"
)

func TestNew_LookupByIDAndName(t *testing.T) {
	cat, err := New([]card.Template{
		{ID: "a", Name: "Alpha Card", Issuer: "Acme"},
		{ID: "b", Name: "Beta Card", Issuer: "Acme"},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, cat.Len())

	tpl := cat.Get("a")
	require.NotNil(t, tpl)
	assert.Equal(t, "Alpha Card", tpl.Name)

	assert.Nil(t, cat.Get("missing"))

	byName := cat.GetByName("  beta   CARD ")
	require.NotNil(t, byName)
	assert.Equal(t, "b", byName.ID)
}

func TestNew_DuplicateIDRejected(t *testing.T) {
	_, err := New([]card.Template{
		{ID: "a", Name: "Alpha Card"},
		{ID: "a", Name: "Alpha Card Again"},
	})
	assert.Error(t, err)
}

func TestNew_MissingIDRejected(t *testing.T) {
	_, err := New([]card.Template{{Name: "No ID Card"}})
	assert.Error(t, err)
}

func TestAll_PreservesOrderAndCopies(t *testing.T) {
	cat, err := New([]card.Template{
		{ID: "a", Name: "Alpha Card"},
		{ID: "b", Name: "Beta Card"},
		{ID: "c", Name: "Gamma Card"},
	})
	require.NoError(t, err)

	all := cat.All()
	require.Len(t, all, 3)
	assert.Equal(t, []string{"a", "b", "c"}, []string{all[0].ID, all[1].ID, all[2].ID})

	// Mutating the returned slice must not corrupt the catalog.
	all[0].Name = "Hacked"
	assert.Equal(t, "Alpha Card", cat.Get("a").Name)
}

func TestBuiltin(t *testing.T) {
	cat := Builtin()

	require.Greater(t, cat.Len(), 10)

	csp := cat.Get("chase_sapphire_preferred")
	require.NotNil(t, csp)
	assert.Equal(t, "Chase", csp.Issuer)
	assert.Equal(t, 95, csp.AnnualFee)
	assert.NotEmpty(t, csp.Benefits)

	// Unknown fees stay marked unknown rather than reading as $0.
	plat := cat.Get("amex_platinum")
	require.NotNil(t, plat)
	assert.Equal(t, card.AnnualFeeUnknown, plat.AnnualFee)
}
