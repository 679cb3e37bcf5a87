package usecase

import (
	"regexp"
	"strings"
)

// Package-level compiled regex patterns for performance
var (
	tokenStripRegex = regexp.MustCompile(`[^a-z0-9\s.%-]`)

	// Dosage strings are written inconsistently across pharmacies
	// ("500 mg" vs "500mg"); splitting letter/digit boundaries makes
	// both forms produce the same tokens.
	digitToLetterRegex = regexp.MustCompile(`([0-9])([a-z])`)
	letterToDigitRegex = regexp.MustCompile(`([a-z])([0-9])`)
)

// Similarity blend weights
const (
	jaccardWeight = 0.6
	diceWeight    = 0.4
)

// Defaults for the tunable matching constants
const (
	defaultMinScore    = 0.25
	defaultDosageBonus = 0.02
)

// dosageTerms are strength/form tokens that disambiguate products sharing a
// generic name. A match on any of them earns an additive bonus, since plain
// text overlap under-weights them.
var dosageTerms = map[string]bool{
	"mg": true, "mcg": true, "%": true,
	"tablet": true, "tab": true, "capsule": true, "syrup": true,
	"ointment": true, "gel": true, "injection": true,
	"500": true, "650": true, "250": true, "1000": true,
}

// MatchConfig holds configuration for the matching service
type MatchConfig struct {
	MinScore    float64
	DosageBonus float64
}

// MatchingService scores how confidently an extracted product title refers
// to the user's query, and gates acceptance on a minimum score.
type MatchingService struct {
	minScore    float64
	dosageBonus float64
}

// NewMatchingService creates a matching service with the given configuration
func NewMatchingService(config MatchConfig) *MatchingService {
	minScore := config.MinScore
	if minScore <= 0 {
		minScore = defaultMinScore
	}

	bonus := config.DosageBonus
	if bonus <= 0 {
		bonus = defaultDosageBonus
	}

	return &MatchingService{
		minScore:    minScore,
		dosageBonus: bonus,
	}
}

// Score computes similarity between the query and an extracted title as a
// weighted blend of Jaccard and Dice coefficients over token sets, plus a
// small bonus per shared dosage term, clamped to [0,1].
func (s *MatchingService) Score(query, title string) float64 {
	queryTokens := tokenSet(query)
	titleTokens := tokenSet(title)

	inter := 0
	for token := range queryTokens {
		if titleTokens[token] {
			inter++
		}
	}

	union := len(titleTokens)
	for token := range queryTokens {
		if !titleTokens[token] {
			union++
		}
	}

	jaccard := float64(inter) / float64(maxInt(1, union))
	dice := float64(2*inter) / float64(maxInt(1, len(queryTokens)+len(titleTokens)))

	score := jaccardWeight*jaccard + diceWeight*dice

	for term := range dosageTerms {
		if queryTokens[term] && titleTokens[term] {
			score += s.dosageBonus
		}
	}

	if score > 1 {
		score = 1
	}
	return score
}

// Accept reports whether a score clears the acceptance threshold. The gate
// suppresses false positives where the extractors latched onto an unrelated
// price/title pair on the page.
func (s *MatchingService) Accept(score float64) bool {
	return score >= s.minScore
}

// MinScore returns the configured acceptance threshold
func (s *MatchingService) MinScore() float64 {
	return s.minScore
}

// tokenSet normalizes a string into a set of lowercase tokens: characters
// outside [a-z0-9 .%-] become spaces, letter/digit boundaries split, and
// duplicates collapse.
func tokenSet(s string) map[string]bool {
	cleaned := tokenStripRegex.ReplaceAllString(strings.ToLower(s), " ")
	cleaned = digitToLetterRegex.ReplaceAllString(cleaned, "$1 $2")
	cleaned = letterToDigitRegex.ReplaceAllString(cleaned, "$1 $2")

	tokens := make(map[string]bool)
	for _, token := range strings.Fields(cleaned) {
		tokens[token] = true
	}
	return tokens
}

// maxInt guards the similarity denominators against empty token sets
func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
