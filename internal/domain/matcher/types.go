package matcher

// Tier identifies which scoring strategy produced a match.
type Tier string

const (
	TierExact        Tier = "exact"
	TierAbbreviation Tier = "abbreviation"
	TierNormalized   Tier = "normalized"
	TierKeyword      Tier = "keyword"
)

// Config holds matcher configuration.
type Config struct {
	MinConfidence float64 // results below this are dropped (default: 0.7)
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		MinConfidence: 0.7,
	}
}

// MatchResult is a scored candidate template. Results are ephemeral:
// recomputed on demand, never persisted.
type MatchResult struct {
	TemplateID string  `json:"template_id"`
	Confidence float64 `json:"confidence"` // 0-1
	Tier       Tier    `json:"match_tier"`
}
