package ranking

import (
	"fmt"
	"strings"
	"unicode"
)

// DiscountList is an immutable set of provider names eligible for the employer discount.
type DiscountList struct {
	entries []string // normalized, deduplicated, in load order
}

// NewDiscountList normalizes names and returns the list.
// Blank entries are rejected since they would match every provider.
func NewDiscountList(names []string) (DiscountList, error) {
	seen := make(map[string]bool, len(names))
	entries := make([]string, 0, len(names))
	for i, name := range names {
		normalized := NormalizeName(name)
		if normalized == "" {
			return DiscountList{}, &ConfigError{
				Field:   "discount_list",
				Message: fmt.Sprintf("entry %d is blank", i),
			}
		}
		if seen[normalized] {
			continue
		}
		seen[normalized] = true
		entries = append(entries, normalized)
	}
	return DiscountList{entries: entries}, nil
}

// Len returns the number of distinct entries.
func (d DiscountList) Len() int {
	return len(d.entries)
}

// Eligible reports whether a provider name matches an entry.
// A match is either the same normalized name, or the entry appearing inside the name
// on word boundaries ("Bright Horizons" matches "Bright Horizons at Factoria").
func (d DiscountList) Eligible(name string) bool {
	normalized := NormalizeName(name)
	if normalized == "" {
		return false
	}
	padded := " " + normalized + " "
	for _, entry := range d.entries {
		if normalized == entry || strings.Contains(padded, " "+entry+" ") {
			return true
		}
	}
	return false
}

// NormalizeName lowercases a name, turns punctuation into spaces and collapses whitespace.
func NormalizeName(name string) string {
	mapped := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return unicode.ToLower(r)
		}
		return ' '
	}, name)
	return strings.Join(strings.Fields(mapped), " ")
}
