package place

import (
	"context"
	"errors"
)

// ErrUnavailable indicates the search provider cannot be reached at all
// (unconfigured key, connection refused). It aborts the strategy chain
// instead of advancing to the next keyword.
var ErrUnavailable = errors.New("place: search provider unavailable")

// ErrUnresolved indicates every keyword strategy and the address fallback
// were exhausted without a usable result. Callers should display the raw
// input address with no coordinates.
var ErrUnresolved = errors.New("place: address could not be resolved")

// Provider is a keyword place search plus address geocoding backend.
//
// Both calls return candidates in provider ranking order. A non-OK provider
// status is reported as an ordinary error and treated the same as an empty
// result set; only a provider that is fundamentally unreachable should
// return an error wrapping ErrUnavailable.
type Provider interface {
	// KeywordSearch queries the place/business directory by free-text term.
	KeywordSearch(ctx context.Context, keyword string) ([]PlaceCandidate, error)

	// AddressSearch geocodes a free-text address.
	AddressSearch(ctx context.Context, address string) ([]AddressMatch, error)
}
