package place

import (
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/goccy/go-yaml"
)

// Heuristics holds the tunable thresholds of the "too generic" address
// predicate. The defaults reflect Korean addresses; operators can override
// them with a YAML file (see LoadHeuristics) without touching control flow.
type Heuristics struct {
	// MaxGenericLength is the rune count at or below which an address is
	// considered too generic for keyword search.
	MaxGenericLength int `yaml:"max_generic_length"`

	// DistrictSuffixes are trailing tokens meaning an administrative
	// district (city, county, borough, neighborhood, ...). An address
	// ending in one of these over-matches broad areas.
	DistrictSuffixes []string `yaml:"district_suffixes"`
}

// DefaultHeuristics returns the built-in thresholds: eight runes, and the
// common Korean administrative suffixes.
func DefaultHeuristics() Heuristics {
	return Heuristics{
		MaxGenericLength: 8,
		DistrictSuffixes: []string{"시", "군", "구", "동", "읍", "면", "리"},
	}
}

// LoadHeuristics reads heuristic overrides from a YAML file. Fields left
// unset keep their defaults. An empty path returns the defaults unchanged.
func LoadHeuristics(path string) (Heuristics, error) {
	h := DefaultHeuristics()
	if path == "" {
		return h, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return h, fmt.Errorf("read heuristics file: %w", err)
	}

	var override Heuristics
	if err := yaml.Unmarshal(data, &override); err != nil {
		return h, fmt.Errorf("parse heuristics file: %w", err)
	}

	if override.MaxGenericLength > 0 {
		h.MaxGenericLength = override.MaxGenericLength
	}
	if len(override.DistrictSuffixes) > 0 {
		h.DistrictSuffixes = override.DistrictSuffixes
	}
	return h, nil
}

// TooGeneric reports whether an address is too broad to be worth a keyword
// search: very short, or ending in an administrative district suffix. It
// never suppresses the last-resort strategy, only the ranked ones.
func (h Heuristics) TooGeneric(address string) bool {
	address = strings.TrimSpace(address)
	if address == "" {
		return true
	}
	if utf8.RuneCountInString(address) <= h.MaxGenericLength {
		return true
	}
	for _, suffix := range h.DistrictSuffixes {
		if strings.HasSuffix(address, suffix) {
			return true
		}
	}
	return false
}

// BuildStrategies produces the ordered keyword list for one resolution
// attempt. Keywords are trimmed, never empty, and de-duplicated; the result
// is immutable for the attempt and must be rebuilt when the inputs change.
//
// Priority: the name alone (the caller knows the specific place), then the
// combined "{address} {name}", then the address alone. The combined and
// plain-address strategies are gated by the TooGeneric predicate; if nothing
// survived the gate, the raw address is kept so any non-empty address still
// gets one attempt.
func BuildStrategies(address, name string, h Heuristics) []string {
	address = strings.TrimSpace(address)
	name = strings.TrimSpace(name)

	var strategies []string
	push := func(keyword string) {
		keyword = strings.TrimSpace(keyword)
		if keyword == "" {
			return
		}
		for _, existing := range strategies {
			if existing == keyword {
				return
			}
		}
		strategies = append(strategies, keyword)
	}

	if name != "" {
		push(name)
	}
	if name != "" && address != "" && !h.TooGeneric(address) {
		push(address + " " + name)
	}
	if address != "" && !h.TooGeneric(address) {
		push(address)
	}
	if len(strategies) == 0 && address != "" {
		push(address)
	}

	return strategies
}
