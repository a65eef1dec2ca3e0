// Package matcher scores free-text card names against the template
// catalog and returns ranked candidates with a confidence and the tier
// that produced it.
//
// Tiers are evaluated in a fixed order per candidate; the first tier that
// hits sets the candidate's score and lower tiers are not consulted:
//
//  1. exact         - normalized equality with the canonical name (1.0)
//  2. abbreviation  - known shorthand expanded, then (near-)equality (0.9)
//  3. normalized    - issuer and filler stripped, equality or substring (0.9)
//  4. keyword       - fraction of candidate keywords present in the input
//                     (0.85 / 0.75 / 0.65 by coverage)
//
// Example usage:
//
//	m, err := matcher.New(cat, matcher.DefaultConfig())
//	results := m.Match("CSP", "Chase")
//	if len(results) > 0 {
//		tpl := cat.Get(results[0].TemplateID)
//	}
package matcher

import (
	"fmt"
	"sort"
	"strings"

	"github.com/eshaffer321/churnpilot-backend/internal/domain/card"
	"github.com/eshaffer321/churnpilot-backend/internal/domain/catalog"
)

// input carries the precomputed forms of the free-text name so each tier
// works from the same normalization.
type input struct {
	normalized  string
	expanded    string // after abbreviation expansion
	wasExpanded bool
	simplified  string
	tokens      map[string]bool
	issuer      string // normalized supplied issuer, may be empty
}

// tierScorer is one scoring strategy. Tiers are an explicit ordered list
// so each can be tested on its own and new tiers slot in without touching
// the cascade.
type tierScorer struct {
	tier  Tier
	score func(in input, tpl *card.Template) (float64, bool)
}

// Matcher matches free-text card names against a catalog.
type Matcher struct {
	catalog *catalog.Catalog
	config  Config
	tiers   []tierScorer
}

// New creates a matcher over the given catalog. An empty catalog is a
// construction error; matching against nothing is always a caller bug.
func New(cat *catalog.Catalog, config Config) (*Matcher, error) {
	if cat == nil || cat.Len() == 0 {
		return nil, fmt.Errorf("matcher: catalog is empty")
	}
	if config.MinConfidence <= 0 {
		config.MinConfidence = DefaultConfig().MinConfidence
	}
	m := &Matcher{catalog: cat, config: config}
	m.tiers = []tierScorer{
		{TierExact, scoreExact},
		{TierAbbreviation, scoreAbbreviation},
		{TierNormalized, scoreNormalized},
		{TierKeyword, scoreKeyword},
	}
	return m, nil
}

// Match scores name (and optionally issuer) against every template and
// returns candidates at or above the configured minimum confidence,
// ordered by descending confidence. Unmatched input yields an empty
// slice, never an error.
func (m *Matcher) Match(name, issuer string) []MatchResult {
	return m.MatchAbove(name, issuer, m.config.MinConfidence)
}

// MatchAbove is Match with a caller-supplied confidence floor.
func (m *Matcher) MatchAbove(name, issuer string, minConfidence float64) []MatchResult {
	in := newInput(name, issuer)
	if in.normalized == "" {
		return nil
	}

	templates := m.catalog.All()

	type scored struct {
		MatchResult
		issuerMatch  bool
		benefitCount int
	}
	var candidates []scored

	for i := range templates {
		tpl := &templates[i]
		for _, t := range m.tiers {
			conf, ok := t.score(in, tpl)
			if !ok {
				continue
			}
			if conf+1e-9 < minConfidence {
				break // lower tiers never score higher
			}
			candidates = append(candidates, scored{
				MatchResult: MatchResult{
					TemplateID: tpl.ID,
					Confidence: conf,
					Tier:       t.tier,
				},
				issuerMatch:  in.issuer != "" && normalizeIssuer(tpl.Issuer) == in.issuer,
				benefitCount: len(tpl.Benefits),
			})
			break
		}
	}

	// Equal confidence ties break on issuer agreement, then on benefit
	// count as a completeness proxy. The stable sort keeps catalog
	// definition order as the final, deterministic tie-break.
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.Confidence != b.Confidence {
			return a.Confidence > b.Confidence
		}
		if a.issuerMatch != b.issuerMatch {
			return a.issuerMatch
		}
		return a.benefitCount > b.benefitCount
	})

	results := make([]MatchResult, len(candidates))
	for i, c := range candidates {
		results[i] = c.MatchResult
	}
	return results
}

// Best returns the top-ranked match, or nil when nothing clears the floor.
func (m *Matcher) Best(name, issuer string) *MatchResult {
	results := m.Match(name, issuer)
	if len(results) == 0 {
		return nil
	}
	return &results[0]
}

func newInput(name, issuer string) input {
	normalized := normalize(name)
	expanded, wasExpanded := expandAbbreviations(normalized)
	in := input{
		normalized:  normalized,
		expanded:    expanded,
		wasExpanded: wasExpanded,
		simplified:  simplify(name),
		tokens:      keywords(name),
	}
	if issuer != "" {
		in.issuer = normalizeIssuer(issuer)
	}
	return in
}

func scoreExact(in input, tpl *card.Template) (float64, bool) {
	if in.normalized == normalize(tpl.Name) {
		return 1.0, true
	}
	return 0, false
}

// scoreAbbreviation only fires when expansion actually rewrote the input;
// plain substring matches belong to the normalized tier below.
func scoreAbbreviation(in input, tpl *card.Template) (float64, bool) {
	if !in.wasExpanded {
		return 0, false
	}
	canonical := normalize(tpl.Name)
	if in.expanded == canonical ||
		strings.Contains(canonical, in.expanded) ||
		strings.Contains(in.expanded, canonical) {
		return 0.9, true
	}
	// The expansion may name the product without issuer prefix, e.g.
	// "blue cash preferred" against the full Amex canonical name.
	expandedSimple := simplify(in.expanded)
	canonicalSimple := simplify(tpl.Name)
	if expandedSimple != "" && canonicalSimple != "" &&
		(expandedSimple == canonicalSimple ||
			strings.Contains(canonicalSimple, expandedSimple) ||
			strings.Contains(expandedSimple, canonicalSimple)) {
		return 0.9, true
	}
	return 0, false
}

func scoreNormalized(in input, tpl *card.Template) (float64, bool) {
	canonical := simplify(tpl.Name)
	if in.simplified == "" || canonical == "" {
		return 0, false
	}
	if in.simplified == canonical ||
		strings.Contains(canonical, in.simplified) ||
		strings.Contains(in.simplified, canonical) {
		return 0.9, true
	}
	return 0, false
}

func scoreKeyword(in input, tpl *card.Template) (float64, bool) {
	candidate := keywords(tpl.Name)
	if len(candidate) == 0 {
		return 0, false
	}
	hits := 0
	for tok := range candidate {
		if in.tokens[tok] {
			hits++
		}
	}
	fraction := float64(hits) / float64(len(candidate))
	switch {
	case fraction >= 0.8:
		return 0.85, true
	case fraction >= 0.6:
		return 0.75, true
	case fraction >= 0.4:
		return 0.65, true
	}
	return 0, false
}
