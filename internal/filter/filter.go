// Package filter decides which scraped titles belong to the tracked product
// specification. It is a pure predicate: no state, no side effects.
package filter

import (
	"fmt"
	"strings"
)

// fourKSignals are the substrings accepted as an UltraHD marker.
var fourKSignals = []string{"4k", "ultra hd", "uhd"}

// Filter matches titles against a brand set, a screen size and a 4K signal.
// All checks are independent case-insensitive substring tests; a title like
// "65-inch" misses every recognized size form, which is a configuration
// limit rather than something the filter tries to repair.
type Filter struct {
	brands    []string
	sizeForms []string
}

// New builds a filter for the given brand names and screen size in inches.
func New(brands []string, sizeInches int) *Filter {
	lowered := make([]string, 0, len(brands))
	for _, b := range brands {
		b = strings.ToLower(strings.TrimSpace(b))
		if b != "" {
			lowered = append(lowered, b)
		}
	}

	return &Filter{
		brands: lowered,
		sizeForms: []string{
			fmt.Sprintf(`%d"`, sizeInches),
			fmt.Sprintf("%d inch", sizeInches),
			fmt.Sprintf("%din", sizeInches),
		},
	}
}

// Matches reports whether the title names a tracked brand, the tracked size
// and a 4K panel.
func (f *Filter) Matches(title string) bool {
	lower := strings.ToLower(title)
	return f.matchesBrand(lower) && f.matchesSize(lower) && matchesFourK(lower)
}

func (f *Filter) matchesBrand(lower string) bool {
	for _, brand := range f.brands {
		if strings.Contains(lower, brand) {
			return true
		}
	}
	return false
}

func (f *Filter) matchesSize(lower string) bool {
	for _, form := range f.sizeForms {
		if strings.Contains(lower, form) {
			return true
		}
	}
	return false
}

func matchesFourK(lower string) bool {
	for _, signal := range fourKSignals {
		if strings.Contains(lower, signal) {
			return true
		}
	}
	return false
}
