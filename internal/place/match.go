package place

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
)

var foldCaser = cases.Fold()

// normalizeName strips all whitespace and case-folds, so "Seoul  Tower" and
// "seoultower" compare equal. Korean names are unaffected by the fold but
// mixed Latin branding ("CU", "GS25") is common in place names.
func normalizeName(s string) string {
	s = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
	return foldCaser.String(s)
}

// bestCandidate selects among the candidates of one keyword search: an exact
// normalized-name match beats a substring containment, which beats provider
// order. With a blank name, provider order decides. Ties within a rule also
// keep provider order.
func bestCandidate(candidates []PlaceCandidate, name string) PlaceCandidate {
	target := normalizeName(name)
	if target == "" {
		return candidates[0]
	}

	substring := -1
	for i, c := range candidates {
		got := normalizeName(c.Name)
		if got == target {
			return c
		}
		if substring < 0 && strings.Contains(got, target) {
			substring = i
		}
	}
	if substring >= 0 {
		return candidates[substring]
	}
	return candidates[0]
}

// keywordDisplayAddress derives the label for a selected candidate: road
// address, else lot address, else the keyword that found it.
func keywordDisplayAddress(c PlaceCandidate, keyword string) string {
	if c.RoadAddress != "" {
		return c.RoadAddress
	}
	if c.LotAddress != "" {
		return c.LotAddress
	}
	return keyword
}

// fallbackDisplayAddress derives the label for an address-geocoding match:
// road, else lot, else the provider's generic string, else the raw input.
func fallbackDisplayAddress(m AddressMatch, address string) string {
	if m.RoadAddress != "" {
		return m.RoadAddress
	}
	if m.LotAddress != "" {
		return m.LotAddress
	}
	if m.Address != "" {
		return m.Address
	}
	return address
}
