// Package filter implements the listing filters applied to API views.
package filter

import (
	"strings"

	"github.com/Additional-Code/gridlock/internal/dto"
)

// All is the sentinel value that disables an equality filter.
const All = "all"

// Vehicles narrows vehicle listings.
type Vehicles struct {
	Search    string
	Status    string
	Condition string
}

// Auctions narrows auction listings.
type Auctions struct {
	Search string
	Status string
}

// Apply returns the vehicles matching every populated criterion.
func (f Vehicles) Apply(in []dto.Vehicle) []dto.Vehicle {
	out := make([]dto.Vehicle, 0, len(in))
	for _, v := range in {
		if !matchText(f.Search, v.Make, v.Model) {
			continue
		}
		if !matchEqual(f.Status, v.Status) || !matchEqual(f.Condition, v.Condition) {
			continue
		}
		out = append(out, v)
	}
	return out
}

// Apply returns the auctions matching every populated criterion.
func (f Auctions) Apply(in []dto.Auction) []dto.Auction {
	out := make([]dto.Auction, 0, len(in))
	for _, a := range in {
		if !matchText(f.Search, a.Vehicle.Make, a.Vehicle.Model) {
			continue
		}
		if !matchEqual(f.Status, a.Status) {
			continue
		}
		out = append(out, a)
	}
	return out
}

// matchText reports whether search is a case-insensitive substring of
// "make model".
func matchText(search, brand, model string) bool {
	search = strings.TrimSpace(search)
	if search == "" {
		return true
	}
	haystack := strings.ToLower(brand + " " + model)
	return strings.Contains(haystack, strings.ToLower(search))
}

func matchEqual(want, got string) bool {
	want = strings.TrimSpace(want)
	if want == "" || strings.EqualFold(want, All) {
		return true
	}
	return strings.EqualFold(want, got)
}
