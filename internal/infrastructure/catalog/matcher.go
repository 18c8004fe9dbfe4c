package catalog

import (
	"regexp"
	"strings"

	"github.com/recipecost/backend/internal/domain"
)

// Compiled regex patterns for name cleaning
var (
	// Matches size/quantity patterns like "1kg", "500 g", "1.5 litres", "2 lb", "12 fl oz"
	sizeQuantityPattern = regexp.MustCompile(`(?i)\b\d+\.?\d*\s*(fl\s*oz|oz|ounces?|lbs?|pounds?|kg|kilograms?|mg|milligrams?|g|grams?|ml|millilitres?|milliliters?|l|litres?|liters?|cups?|tbsp|tsp)\b`)

	// Matches pack/count patterns like "12 pack", "pack of 6", "6-pack", "24 count", "6 ct"
	packCountPattern = regexp.MustCompile(`(?i)\b\d+[-\s]*(pack|pk|count|ct)\b|\bpack\s*of\s*\d+\b`)

	punctuationRegex = regexp.MustCompile(`[^\w\s]`)
)

// stopWords are dropped before matching: English fillers, units and packaging terms
var stopWords = map[string]bool{
	// Basic English stop words
	"a": true, "an": true, "the": true, "and": true, "or": true,
	"of": true, "in": true, "on": true, "to": true, "for": true,
	"with": true, "by": true, "from": true,
	// Size/quantity units
	"oz": true, "fl": true, "lb": true, "lbs": true, "ml": true, "kg": true,
	"gram": true, "grams": true, "ounce": true, "ounces": true, "litre": true,
	"litres": true, "liter": true, "liters": true, "cup": true, "cups": true,
	"tbsp": true, "tsp": true, "dozen": true,
	// Packaging terms
	"pack": true, "packs": true, "count": true, "ct": true, "pk": true,
	"box": true, "bag": true, "bottle": true, "can": true, "carton": true,
	"jar": true, "tub": true, "pouch": true, "sack": true,
	// Marketing/generic terms
	"size": true, "value": true, "family": true, "each": true, "bulk": true,
	"premium": true, "select": true, "quality": true, "brand": true,
}

// MatcherConfig holds configuration for ingredient matching
type MatcherConfig struct {
	EnableFuzzyMatching bool
	FuzzyEditDistance   int
}

// Matcher decides which catalog products belong to an ingredient
type Matcher struct {
	enableFuzzyMatching bool
	fuzzyEditDistance   int
}

// NewMatcher creates a matcher with the given configuration
func NewMatcher(config MatcherConfig) *Matcher {
	fuzzyDist := config.FuzzyEditDistance
	if fuzzyDist <= 0 {
		fuzzyDist = 1 // Default edit distance of 1
	}

	return &Matcher{
		enableFuzzyMatching: config.EnableFuzzyMatching,
		fuzzyEditDistance:   fuzzyDist,
	}
}

// Matches reports whether every token of the ingredient name appears among
// the product name tokens, so "flour" matches "All-Purpose Flour, 1kg".
func (m *Matcher) Matches(ingredientName, productName string) bool {
	ingredientTokens := tokenize(ingredientName)
	if len(ingredientTokens) == 0 {
		return false
	}
	productTokens := tokenize(productName)

	for _, token := range ingredientTokens {
		if !m.containsToken(productTokens, token) {
			return false
		}
	}
	return true
}

// Select returns the products that belong to an ingredient, in catalog order.
// When some product names normalize to exactly the ingredient name only those
// are returned, so "flour" does not pick up "rice flour" next to "Flour, 1kg".
func (m *Matcher) Select(ingredientName string, products []domain.Product) []domain.Product {
	target := NormalizeName(ingredientName)
	if target == "" {
		return nil
	}

	var exact, partial []domain.Product
	for _, product := range products {
		if NormalizeName(product.ProductName) == target {
			exact = append(exact, product)
			continue
		}
		if m.Matches(ingredientName, product.ProductName) {
			partial = append(partial, product)
		}
	}

	if len(exact) > 0 {
		return exact
	}
	return partial
}

func (m *Matcher) containsToken(tokens []string, token string) bool {
	for _, candidate := range tokens {
		if candidate == token {
			return true
		}
		if m.enableFuzzyMatching && fuzzyTokenMatch(candidate, token, m.fuzzyEditDistance) {
			return true
		}
	}
	return false
}

// NormalizeName reduces a product or ingredient name to its matching tokens
func NormalizeName(name string) string {
	return strings.Join(tokenize(name), " ")
}

// cleanName strips sizes and pack counts from a name
func cleanName(name string) string {
	cleaned := sizeQuantityPattern.ReplaceAllString(name, " ")
	cleaned = packCountPattern.ReplaceAllString(cleaned, " ")
	return cleaned
}

// tokenize splits a name into normalized lowercase tokens.
// Removes punctuation, stop words, pure numeric tokens and plural "s".
func tokenize(s string) []string {
	cleaned := punctuationRegex.ReplaceAllString(strings.ToLower(cleanName(s)), " ")

	var tokens []string
	for _, word := range strings.Fields(cleaned) {
		// Skip short tokens (1 char or less)
		if len(word) <= 1 {
			continue
		}
		if stopWords[word] {
			continue
		}
		// Skip pure numeric tokens (e.g., "500", "12")
		if isNumeric(word) {
			continue
		}
		tokens = append(tokens, singular(word))
	}

	return tokens
}

// singular drops a plural "s" so "eggs" and "egg" compare equal
func singular(word string) string {
	if len(word) > 3 && strings.HasSuffix(word, "s") && !strings.HasSuffix(word, "ss") {
		return word[:len(word)-1]
	}
	return word
}

// isNumeric checks if a string contains only digits
func isNumeric(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return len(s) > 0
}

// fuzzyTokenMatch checks if two tokens are similar within the edit distance threshold
func fuzzyTokenMatch(token1, token2 string, threshold int) bool {
	if token1 == token2 {
		return true
	}

	// Only apply fuzzy matching to tokens of 4+ chars to avoid false positives
	if len(token1) < 4 || len(token2) < 4 {
		return false
	}

	// Quick length check - if lengths differ by more than threshold, can't match
	lenDiff := len(token1) - len(token2)
	if lenDiff < 0 {
		lenDiff = -lenDiff
	}
	if lenDiff > threshold {
		return false
	}

	return levenshteinDistance(token1, token2) <= threshold
}

// levenshteinDistance calculates the edit distance between two strings
func levenshteinDistance(s1, s2 string) int {
	r1 := []rune(s1)
	r2 := []rune(s2)
	if len(r1) == 0 {
		return len(r2)
	}
	if len(r2) == 0 {
		return len(r1)
	}

	// Two rows instead of the full matrix
	prev := make([]int, len(r2)+1)
	curr := make([]int, len(r2)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(r1); i++ {
		curr[0] = i
		for j := 1; j <= len(r2); j++ {
			cost := 0
			if r1[i-1] != r2[j-1] {
				cost = 1
			}
			curr[j] = min(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}

	return prev[len(r2)]
}
