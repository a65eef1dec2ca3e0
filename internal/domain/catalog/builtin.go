package catalog

import "github.com/eshaffer321/churnpilot-backend/internal/domain/card"

// builtinTemplates is the shipped template library. Annual fees of
// card.AnnualFeeUnknown come from issuer pages where extraction could not
// determine the current fee.
var builtinTemplates = []card.Template{
	{
		ID:        "amex_platinum",
		Name:      "Platinum Card",
		Issuer:    "American Express",
		AnnualFee: card.AnnualFeeUnknown,
	},
	{
		ID:        "amex_gold",
		Name:      "The American Express Gold Card",
		Issuer:    "American Express",
		AnnualFee: card.AnnualFeeUnknown,
	},
	{
		ID:        "amex_green",
		Name:      "American Express Green Card",
		Issuer:    "American Express",
		AnnualFee: card.AnnualFeeUnknown,
	},
	{
		ID:        "amex_blue_cash_preferred",
		Name:      "Blue Cash Preferred Card from American Express",
		Issuer:    "American Express",
		AnnualFee: card.AnnualFeeUnknown,
	},
	{
		ID:        "chase_sapphire_preferred",
		Name:      "Chase Sapphire Preferred Credit Card",
		Issuer:    "Chase",
		AnnualFee: 95,
		Benefits: []card.BenefitDefinition{
			{
				Name:       "Chase Travel Hotel Credit",
				Amount:     50,
				Recurrence: card.RecurrenceAnnual,
				Notes:      "Statement credits for hotel stays purchased through Chase Travel",
			},
		},
	},
	{
		ID:        "chase_sapphire_reserve",
		Name:      "Chase Sapphire Reserve",
		Issuer:    "Chase",
		AnnualFee: 795,
		Benefits: []card.BenefitDefinition{
			{
				Name:       "Annual Travel Credit",
				Amount:     300,
				Recurrence: card.RecurrenceAnnual,
				Notes:      "Statement credits for travel purchases each account anniversary year",
			},
			{
				Name:       "The Edit Credit",
				Amount:     500,
				Recurrence: card.RecurrenceSemiannual,
				Notes:      "Up to $250 per half for prepaid bookings with The Edit. Two-night minimum.",
			},
		},
	},
	{
		ID:        "chase_freedom_unlimited",
		Name:      "Chase Freedom Unlimited Credit Card",
		Issuer:    "Chase",
		AnnualFee: 0,
	},
	{
		ID:        "chase_freedom_flex",
		Name:      "Chase Freedom Flex Credit Card",
		Issuer:    "Chase",
		AnnualFee: 0,
	},
	{
		ID:        "chase_ink_preferred",
		Name:      "Ink Business Preferred Credit Card",
		Issuer:    "Chase",
		AnnualFee: 95,
	},
	{
		ID:        "capital_one_venture_x",
		Name:      "Venture X Rewards Card",
		Issuer:    "Capital One",
		AnnualFee: card.AnnualFeeUnknown,
		Benefits: []card.BenefitDefinition{
			{
				Name:       "Capital One Travel Credit",
				Amount:     300,
				Recurrence: card.RecurrenceAnnual,
				Notes:      "Only usable on Capital One travel portal",
			},
			{
				Name:       "Global Entry/TSA PreCheck Credit",
				Amount:     120,
				Recurrence: card.RecurrenceAnnual,
				Notes:      "Statement credit, one per account every four years",
			},
		},
	},
	{
		ID:        "capital_one_venture",
		Name:      "Capital One Venture Rewards Credit Card",
		Issuer:    "Capital One",
		AnnualFee: card.AnnualFeeUnknown,
	},
	{
		ID:        "capital_one_savor_one",
		Name:      "SavorOne Rewards Credit Card",
		Issuer:    "Capital One",
		AnnualFee: card.AnnualFeeUnknown,
	},
	{
		ID:        "citi_premier",
		Name:      "Citi Strata Premier Card",
		Issuer:    "Citi",
		AnnualFee: 95,
		Benefits: []card.BenefitDefinition{
			{
				Name:       "Annual Hotel Benefit",
				Amount:     100,
				Recurrence: card.RecurrenceAnnual,
				Notes:      "Once per calendar year, $100 off a single hotel stay of $500+ booked through cititravel.com",
			},
		},
	},
	{
		ID:        "citi_custom_cash",
		Name:      "Citi Custom Cash Card",
		Issuer:    "Citi",
		AnnualFee: 0,
	},
	{
		ID:        "citi_double_cash",
		Name:      "Citi Double Cash Card",
		Issuer:    "Citi",
		AnnualFee: 0,
	},
	{
		ID:        "us_bank_cash_plus",
		Name:      "U.S. Bank Cash+ Visa Signature Card",
		Issuer:    "US Bank",
		AnnualFee: 0,
	},
	{
		ID:        "wells_fargo_autograph",
		Name:      "Wells Fargo Autograph Card",
		Issuer:    "Wells Fargo",
		AnnualFee: 0,
	},
	{
		ID:        "bilt_mastercard",
		Name:      "Bilt Blue Card",
		Issuer:    "Bilt",
		AnnualFee: 0,
	},
}
