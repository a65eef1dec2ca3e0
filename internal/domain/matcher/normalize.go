package matcher

import (
	"strings"
	"unicode"
)

// abbreviations maps common churner shorthand to the product name it
// stands for. Whole-input entries are tried before token-level expansion
// so "csp" never gets split into letters.
var abbreviations = map[string]string{
	"csp": "chase sapphire preferred",
	"csr": "chase sapphire reserve",
	"cfu": "chase freedom unlimited",
	"cff": "chase freedom flex",
	"cip": "ink business preferred",
	"bcp": "blue cash preferred",
	"bce": "blue cash everyday",
	"vx":  "venture x",
	"wfa": "wells fargo autograph",
}

// tokenAbbreviations expand single words inside a longer input, e.g.
// "amex plat" -> "american express platinum".
var tokenAbbreviations = map[string]string{
	"amex": "american express",
	"plat": "platinum",
	"biz":  "business",
	"pref": "preferred",
	"wf":   "wells fargo",
	"boa":  "bank of america",
}

// issuerNames are stripped when simplifying a card name down to its
// product identity. Longer names first so "american express" is removed
// before "express" could be left behind.
var issuerNames = []string{
	"american express",
	"capital one",
	"bank of america",
	"wells fargo",
	"u s bank",
	"us bank",
	"td bank",
	"citibank",
	"barclays",
	"discover",
	"chase",
	"amex",
	"citi",
	"bilt",
}

// fillerTokens carry no product identity and are dropped when simplifying
// or extracting keywords.
var fillerTokens = map[string]bool{
	"the":        true,
	"from":       true,
	"credit":     true,
	"card":       true,
	"cards":      true,
	"visa":       true,
	"mastercard": true,
	"signature":  true,
	"infinite":   true,
}

// issuerAliases fold the common short forms when comparing issuer strings.
var issuerAliases = map[string]string{
	"amex":     "american express",
	"citibank": "citi",
	"u s bank": "us bank",
	"wf":       "wells fargo",
	"boa":      "bank of america",
}

// normalize lowercases and collapses all whitespace runs to single spaces.
func normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// normalizeIssuer canonicalizes an issuer string for comparison.
func normalizeIssuer(s string) string {
	n := normalize(stripPunctuation(s))
	if full, ok := issuerAliases[n]; ok {
		return full
	}
	return n
}

// stripPunctuation replaces every non-letter, non-digit rune with a space.
// Trademark glyphs, hyphens and slashes all collapse into token breaks.
func stripPunctuation(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}
	return b.String()
}

// expandAbbreviations rewrites known shorthand in an already-normalized
// input. Returns the expanded string and whether anything changed.
func expandAbbreviations(normalized string) (string, bool) {
	if full, ok := abbreviations[normalized]; ok {
		return full, true
	}

	tokens := strings.Fields(normalized)
	changed := false
	for i, tok := range tokens {
		if full, ok := abbreviations[tok]; ok {
			tokens[i] = full
			changed = true
		} else if full, ok := tokenAbbreviations[tok]; ok {
			tokens[i] = full
			changed = true
		}
	}
	if !changed {
		return normalized, false
	}
	return strings.Join(tokens, " "), true
}

// simplify reduces a card name to its product identity: punctuation gone,
// issuer names gone, filler tokens gone.
func simplify(s string) string {
	n := normalize(stripPunctuation(s))
	for _, issuer := range issuerNames {
		n = strings.ReplaceAll(n, issuer, " ")
	}
	tokens := strings.Fields(n)
	kept := tokens[:0]
	for _, tok := range tokens {
		if !fillerTokens[tok] {
			kept = append(kept, tok)
		}
	}
	return strings.Join(kept, " ")
}

// keywords returns the set of meaningful lowercase tokens in a name.
func keywords(s string) map[string]bool {
	out := make(map[string]bool)
	for _, tok := range strings.Fields(normalize(stripPunctuation(s))) {
		if !fillerTokens[tok] {
			out[tok] = true
		}
	}
	return out
}
