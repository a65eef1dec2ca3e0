// Package enrich fills gaps in a partially-known card record from a
// matched catalog template.
//
// The one rule that matters: template data never overwrites anything the
// user or the extractor already supplied. Scalars only fill empty fields,
// benefits only append when the name is new, and re-running enrichment is
// always a no-op on an already-enriched record.
package enrich

import (
	"log/slog"

	"github.com/eshaffer321/churnpilot-backend/internal/domain/card"
	"github.com/eshaffer321/churnpilot-backend/internal/domain/catalog"
	"github.com/eshaffer321/churnpilot-backend/internal/domain/matcher"
)

// Result reports what enrichment did to a single record.
type Result struct {
	Record        card.Record `json:"record"`
	Matched       bool        `json:"matched"`
	TemplateID    string      `json:"template_id,omitempty"`
	Confidence    float64     `json:"confidence,omitempty"`
	BenefitsAdded int         `json:"benefits_added"`
}

// BatchReport aggregates a batch enrichment run. A record that fails to
// match is passed through unchanged and counted in Unmatched; nothing
// halts the batch.
type BatchReport struct {
	Processed     int `json:"processed"`
	Enriched      int `json:"enriched"`
	Unmatched     int `json:"unmatched"`
	BenefitsAdded int `json:"benefits_added"`
}

// Merger matches records against the catalog and applies template data.
type Merger struct {
	catalog *catalog.Catalog
	matcher *matcher.Matcher
	logger  *slog.Logger
}

// NewMerger creates a merger. The logger may be nil.
func NewMerger(cat *catalog.Catalog, m *matcher.Matcher, logger *slog.Logger) *Merger {
	if logger == nil {
		logger = slog.Default()
	}
	return &Merger{catalog: cat, matcher: m, logger: logger}
}

// Enrich matches the record's name and issuer against the catalog and, on
// a match above the confidence floor, merges template data in. Below the
// floor the record comes back untouched with Matched false - a no-op, not
// an error.
func (m *Merger) Enrich(rec card.Record) Result {
	best := m.matcher.Best(rec.Name, rec.Issuer)
	if best == nil {
		return Result{Record: rec}
	}
	tpl := m.catalog.Get(best.TemplateID)
	if tpl == nil {
		// A matcher result always points at a catalog entry; a miss here
		// means the catalog changed underneath us.
		m.logger.Warn("match points at unknown template", "template_id", best.TemplateID)
		return Result{Record: rec}
	}

	merged, added := Apply(rec, tpl)
	m.logger.Debug("enriched record",
		"card", rec.Name,
		"template_id", tpl.ID,
		"tier", best.Tier,
		"confidence", best.Confidence,
		"benefits_added", added)

	return Result{
		Record:        merged,
		Matched:       true,
		TemplateID:    tpl.ID,
		Confidence:    best.Confidence,
		BenefitsAdded: added,
	}
}

// EnrichAll runs Enrich over every record and reports aggregate counts.
// The returned slice is positionally aligned with the input.
func (m *Merger) EnrichAll(records []card.Record) ([]card.Record, BatchReport) {
	report := BatchReport{Processed: len(records)}
	out := make([]card.Record, len(records))
	for i, rec := range records {
		res := m.Enrich(rec)
		out[i] = res.Record
		if !res.Matched {
			report.Unmatched++
			continue
		}
		if res.BenefitsAdded > 0 {
			report.Enriched++
			report.BenefitsAdded += res.BenefitsAdded
		}
	}
	return out, report
}

// Apply merges a template into a record and returns the merged record plus
// the number of benefits appended.
//
// Scalar fields fill only when the record's value is unset: empty name or
// issuer, unknown annual fee. Benefits append only when no existing
// benefit has the same case-insensitive name, and appended definitions
// are copies - mutating the record later must never reach the template.
func Apply(rec card.Record, tpl *card.Template) (card.Record, int) {
	if rec.Name == "" {
		rec.Name = tpl.Name
	}
	if rec.Issuer == "" {
		rec.Issuer = tpl.Issuer
	}
	if rec.AnnualFee == card.AnnualFeeUnknown && tpl.AnnualFee != card.AnnualFeeUnknown {
		rec.AnnualFee = tpl.AnnualFee
	}
	rec.TemplateID = tpl.ID

	// Copy-on-write for the benefit slice so the caller's original record
	// is not aliased either.
	added := 0
	merged := make([]card.BenefitDefinition, len(rec.Benefits), len(rec.Benefits)+len(tpl.Benefits))
	copy(merged, rec.Benefits)
	rec.Benefits = merged

	for _, b := range tpl.Benefits {
		if rec.HasBenefit(b.Name) {
			continue
		}
		rec.Benefits = append(rec.Benefits, b)
		added++
	}
	return rec, added
}
