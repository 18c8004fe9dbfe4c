package catalog

import (
	"reflect"
	"testing"

	"github.com/recipecost/backend/internal/domain"
)

func TestNewMatcher(t *testing.T) {
	t.Run("defaults edit distance to 1", func(t *testing.T) {
		m := NewMatcher(MatcherConfig{EnableFuzzyMatching: true})
		if m.fuzzyEditDistance != 1 {
			t.Errorf("expected edit distance 1, got %d", m.fuzzyEditDistance)
		}
	})

	t.Run("keeps configured edit distance", func(t *testing.T) {
		m := NewMatcher(MatcherConfig{EnableFuzzyMatching: true, FuzzyEditDistance: 2})
		if m.fuzzyEditDistance != 2 {
			t.Errorf("expected edit distance 2, got %d", m.fuzzyEditDistance)
		}
	})
}

func TestMatches(t *testing.T) {
	m := NewMatcher(MatcherConfig{})

	testCases := []struct {
		name       string
		ingredient string
		product    string
		want       bool
	}{
		{"exact name", "Flour", "Flour", true},
		{"name with size and packaging", "flour", "All-Purpose Flour, 1kg bag", true},
		{"case insensitive", "Flour", "wheat FLOUR", true},
		{"unrelated product", "flour", "Corn starch", false},
		{"plural ingredient", "eggs", "Free range egg, dozen", true},
		{"multi word in any order", "brown sugar", "Sugar, brown, 500g", true},
		{"missing word", "brown sugar", "White sugar", false},
		{"empty ingredient", "", "Flour", false},
		{"stop words only", "the bag", "Flour", false},
		{"typo without fuzzy", "flor", "Flour", false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := m.Matches(tc.ingredient, tc.product)
			if got != tc.want {
				t.Errorf("Matches(%q, %q) = %v, want %v", tc.ingredient, tc.product, got, tc.want)
			}
		})
	}
}

func TestMatches_Fuzzy(t *testing.T) {
	m := NewMatcher(MatcherConfig{EnableFuzzyMatching: true, FuzzyEditDistance: 1})

	if !m.Matches("flor", "Flour") {
		t.Error("expected fuzzy match for one-letter typo")
	}
	if m.Matches("sugra", "Sugar") {
		t.Error("expected no match for transposed letters at distance 2")
	}
	if m.Matches("egg", "Eel") {
		t.Error("expected short tokens to skip fuzzy matching")
	}
}

func TestSelect(t *testing.T) {
	m := NewMatcher(MatcherConfig{})
	products := []domain.Product{
		{ProductName: "Rice Flour"},
		{ProductName: "Flour, 1kg"},
		{ProductName: "Sugar"},
		{ProductName: "flour"},
	}

	t.Run("prefers exact names", func(t *testing.T) {
		got := m.Select("Flour", products)
		if len(got) != 2 {
			t.Fatalf("expected 2 products, got %d", len(got))
		}
		if got[0].ProductName != "Flour, 1kg" || got[1].ProductName != "flour" {
			t.Errorf("unexpected selection order: %v", got)
		}
	})

	t.Run("falls back to partial matches", func(t *testing.T) {
		got := m.Select("rice", products)
		if len(got) != 1 || got[0].ProductName != "Rice Flour" {
			t.Errorf("unexpected selection: %v", got)
		}
	})

	t.Run("no match", func(t *testing.T) {
		if got := m.Select("butter", products); len(got) != 0 {
			t.Errorf("expected no products, got %v", got)
		}
	})

	t.Run("blank ingredient", func(t *testing.T) {
		if got := m.Select("  ", products); got != nil {
			t.Errorf("expected nil, got %v", got)
		}
	})
}

func TestTokenize(t *testing.T) {
	testCases := []struct {
		name  string
		input string
		want  []string
	}{
		{"lowercases and splits", "Whole Milk", []string{"whole", "milk"}},
		{"removes size", "Whole Milk 1 l", []string{"whole", "milk"}},
		{"removes size without space", "All-Purpose Flour, 1kg bag", []string{"all", "purpose", "flour"}},
		{"removes pack count", "Eggs, Free Range, 12 ct", []string{"egg", "free", "range"}},
		{"removes stop words", "the flour of the mill", []string{"flour", "mill"}},
		{"drops numeric tokens", "Sugar 2024", []string{"sugar"}},
		{"keeps double s", "Watercress", []string{"watercress"}},
		{"empty string", "", nil},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := tokenize(tc.input)
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("tokenize(%q) = %v, want %v", tc.input, got, tc.want)
			}
		})
	}
}

func TestNormalizeName(t *testing.T) {
	if got := NormalizeName("  Brown Sugar, 1 kg "); got != "brown sugar" {
		t.Errorf("NormalizeName() = %q, want %q", got, "brown sugar")
	}
}

func TestIsNumeric(t *testing.T) {
	testCases := []struct {
		input string
		want  bool
	}{
		{"123", true},
		{"0", true},
		{"12a", false},
		{"1.5", false},
		{"", false},
	}

	for _, tc := range testCases {
		if got := isNumeric(tc.input); got != tc.want {
			t.Errorf("isNumeric(%q) = %v, want %v", tc.input, got, tc.want)
		}
	}
}

func TestLevenshteinDistance(t *testing.T) {
	testCases := []struct {
		s1, s2 string
		want   int
	}{
		{"kitten", "sitting", 3},
		{"chicken", "chiken", 1},
		{"flour", "flour", 0},
		{"", "abc", 3},
		{"abc", "", 3},
	}

	for _, tc := range testCases {
		if got := levenshteinDistance(tc.s1, tc.s2); got != tc.want {
			t.Errorf("levenshteinDistance(%q, %q) = %d, want %d", tc.s1, tc.s2, got, tc.want)
		}
	}
}

func TestFuzzyTokenMatch(t *testing.T) {
	testCases := []struct {
		t1, t2    string
		threshold int
		want      bool
	}{
		{"flour", "flor", 1, true},
		{"butter", "butter", 1, true},
		{"egg", "eggs", 1, false},
		{"sugar", "sugra", 1, false},
		{"sugar", "sugra", 2, true},
		{"milk", "cheese", 1, false},
	}

	for _, tc := range testCases {
		if got := fuzzyTokenMatch(tc.t1, tc.t2, tc.threshold); got != tc.want {
			t.Errorf("fuzzyTokenMatch(%q, %q, %d) = %v, want %v", tc.t1, tc.t2, tc.threshold, got, tc.want)
		}
	}
}
