package place

import "time"

// Coordinates is a WGS-84 latitude/longitude pair.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// PlaceCandidate is one row returned by a keyword place search, in provider
// order. RoadAddress and LotAddress may be empty.
type PlaceCandidate struct {
	Name        string
	RoadAddress string
	LotAddress  string
	Coord       Coordinates
}

// AddressMatch is one row returned by address geocoding. Address is the
// provider's generic formatted string; the road and lot forms may be empty.
type AddressMatch struct {
	RoadAddress string
	LotAddress  string
	Address     string
	Coord       Coordinates
}

// ResolutionSource records which search path produced a resolution.
type ResolutionSource string

const (
	// SourceKeyword means a keyword strategy matched.
	SourceKeyword ResolutionSource = "keyword"
	// SourceAddress means the address-geocoding fallback matched.
	SourceAddress ResolutionSource = "address"
)

// ResolvedLocation is the single terminal output of a successful resolution
// attempt.
type ResolvedLocation struct {
	DisplayAddress string           `json:"display_address"`
	Coord          Coordinates      `json:"coord"`
	Source         ResolutionSource `json:"source"`
	Keyword        string           `json:"keyword,omitempty"` // strategy that matched, empty for the address fallback
	Attempts       int              `json:"attempts"`          // provider queries issued, including the fallback
	ResolvedAt     time.Time        `json:"resolved_at"`
}
