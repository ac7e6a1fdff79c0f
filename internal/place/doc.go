// Package place resolves a free-text address and an optional place name to a
// single map point with a display label.
//
// # Resolution Strategy
//
// A user-entered destination is rarely a clean query. The engine therefore
// builds an ordered list of search keywords per input pair and tries them
// against a keyword place search one at a time:
//
//	1. the place name alone         — "스타벅스 한신대점"
//	2. "{address} {name}" combined  — "경기 오산시 한신대길 137 스타벅스 한신대점"
//	3. the address alone            — "경기 오산시 한신대길 137"
//
// Steps 2 and 3 are skipped when the address is "too generic" (very short, or
// ending in an administrative district suffix such as 구 or 동), since such
// strings over-match broad areas in keyword search. If nothing else made the
// list, the raw address is kept as a last resort so any address gets at least
// one attempt.
//
// A keyword search that fails or returns nothing is never fatal: the engine
// degrades to the next keyword, and after the list is exhausted it falls back
// to plain address geocoding. Only when that also fails is the attempt
// reported as unresolved, in which case callers display the raw input address
// without a marker.
//
// # Address Forms
//
// Korean places carry up to three address renderings: the road-based address
// (도로명 주소), the legacy lot-number address (지번 주소), and a generic
// formatted string. Display labels prefer them in that order.
//
// # Candidate Selection
//
// When one keyword returns several candidates, the caller-supplied name is
// matched against candidate place names after stripping all whitespace and
// case-folding. An exact match wins over a substring containment, which wins
// over plain provider order. Equal substring matches keep provider order.
package place
