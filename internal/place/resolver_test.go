package place

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedProvider replays canned responses per keyword/address and records
// the exact query order.
type scriptedProvider struct {
	keyword  map[string][]PlaceCandidate
	keywordE map[string]error
	address  map[string][]AddressMatch
	addressE map[string]error

	keywordCalls []string
	addressCalls []string
}

func (p *scriptedProvider) KeywordSearch(_ context.Context, keyword string) ([]PlaceCandidate, error) {
	p.keywordCalls = append(p.keywordCalls, keyword)
	if err := p.keywordE[keyword]; err != nil {
		return nil, err
	}
	return p.keyword[keyword], nil
}

func (p *scriptedProvider) AddressSearch(_ context.Context, address string) ([]AddressMatch, error) {
	p.addressCalls = append(p.addressCalls, address)
	if err := p.addressE[address]; err != nil {
		return nil, err
	}
	return p.address[address], nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testResolver(p Provider) *Resolver {
	return NewResolver(p, DefaultHeuristics(), 0, discardLogger())
}

func TestResolve_FirstStrategyWins(t *testing.T) {
	provider := &scriptedProvider{
		keyword: map[string][]PlaceCandidate{
			"한신대학교": {{
				Name:        "한신대학교",
				RoadAddress: "경기 오산시 한신대길 137",
				Coord:       Coordinates{Lat: 37.1941, Lng: 127.0216},
			}},
		},
	}

	loc, err := testResolver(provider).Resolve(context.Background(), "경기 오산시 한신대길 137", "한신대학교")
	require.NoError(t, err)

	assert.Equal(t, "경기 오산시 한신대길 137", loc.DisplayAddress)
	assert.Equal(t, Coordinates{Lat: 37.1941, Lng: 127.0216}, loc.Coord)
	assert.Equal(t, SourceKeyword, loc.Source)
	assert.Equal(t, "한신대학교", loc.Keyword)
	assert.Equal(t, 1, loc.Attempts)
	assert.Equal(t, []string{"한신대학교"}, provider.keywordCalls)
	assert.Empty(t, provider.addressCalls, "address fallback must not run")
}

func TestResolve_FallbackChainQueryCount(t *testing.T) {
	// Strategies 0..k-1 empty, strategy k hits: exactly k+1 keyword queries.
	addr := "경기 오산시 한신대길 137"
	name := "한신대학교"
	provider := &scriptedProvider{
		keyword: map[string][]PlaceCandidate{
			addr: {{Name: "한신대학교", LotAddress: "경기 오산시 양산동 411", Coord: Coordinates{Lat: 37.19, Lng: 127.02}}},
		},
	}

	loc, err := testResolver(provider).Resolve(context.Background(), addr, name)
	require.NoError(t, err)

	assert.Equal(t, []string{name, addr + " " + name, addr}, provider.keywordCalls)
	assert.Equal(t, 3, loc.Attempts)
	assert.Equal(t, addr, loc.Keyword)
	assert.Equal(t, "경기 오산시 양산동 411", loc.DisplayAddress)
	assert.Empty(t, provider.addressCalls)
}

func TestResolve_StrategyErrorAdvancesChain(t *testing.T) {
	addr := "경기 오산시 한신대길 137"
	name := "한신대학교"
	provider := &scriptedProvider{
		keywordE: map[string]error{
			name: errors.New("status 429"),
		},
		keyword: map[string][]PlaceCandidate{
			addr + " " + name: {{Name: name, RoadAddress: addr, Coord: Coordinates{Lat: 37.19, Lng: 127.02}}},
		},
	}

	loc, err := testResolver(provider).Resolve(context.Background(), addr, name)
	require.NoError(t, err)
	assert.Equal(t, 2, loc.Attempts)
	assert.Equal(t, addr+" "+name, loc.Keyword)
}

func TestResolve_GenericAddressFallsThroughToAddressSearch(t *testing.T) {
	// "경복궁" is 3 runes: only the last-resort keyword fires, and when it
	// comes back empty the address geocoder decides.
	provider := &scriptedProvider{
		address: map[string][]AddressMatch{
			"경복궁": {{
				RoadAddress: "서울 종로구 사직로 161",
				LotAddress:  "서울 종로구 세종로 1-91",
				Coord:       Coordinates{Lat: 37.5796, Lng: 126.977},
			}},
		},
	}

	loc, err := testResolver(provider).Resolve(context.Background(), "경복궁", "")
	require.NoError(t, err)

	assert.Equal(t, []string{"경복궁"}, provider.keywordCalls)
	assert.Equal(t, []string{"경복궁"}, provider.addressCalls)
	assert.Equal(t, SourceAddress, loc.Source)
	assert.Empty(t, loc.Keyword)
	assert.Equal(t, "서울 종로구 사직로 161", loc.DisplayAddress)
	assert.Equal(t, 2, loc.Attempts)
}

func TestResolve_TotalFailure(t *testing.T) {
	provider := &scriptedProvider{} // everything empty

	_, err := testResolver(provider).Resolve(context.Background(), "경복궁", "")
	require.ErrorIs(t, err, ErrUnresolved)
	assert.Equal(t, []string{"경복궁"}, provider.addressCalls)
}

func TestResolve_AddressFallbackErrorIsUnresolved(t *testing.T) {
	provider := &scriptedProvider{
		addressE: map[string]error{"경복궁": errors.New("status 500")},
	}

	_, err := testResolver(provider).Resolve(context.Background(), "경복궁", "")
	require.ErrorIs(t, err, ErrUnresolved)
}

func TestResolve_EmptyInputNoProviderCall(t *testing.T) {
	provider := &scriptedProvider{}

	_, err := testResolver(provider).Resolve(context.Background(), "", "  ")
	require.ErrorIs(t, err, ErrUnresolved)
	assert.Empty(t, provider.keywordCalls)
	assert.Empty(t, provider.addressCalls)
}

func TestResolve_NameOnlySkipsAddressFallback(t *testing.T) {
	// With no address there is nothing to geocode after the keyword misses.
	provider := &scriptedProvider{}

	_, err := testResolver(provider).Resolve(context.Background(), "", "서울타워")
	require.ErrorIs(t, err, ErrUnresolved)
	assert.Equal(t, []string{"서울타워"}, provider.keywordCalls)
	assert.Empty(t, provider.addressCalls)
}

func TestResolve_UnavailableAbortsChain(t *testing.T) {
	addr := "경기 오산시 한신대길 137"
	provider := &scriptedProvider{
		keywordE: map[string]error{
			"한신대학교": ErrUnavailable,
		},
	}

	_, err := testResolver(provider).Resolve(context.Background(), addr, "한신대학교")
	require.ErrorIs(t, err, ErrUnavailable)
	assert.Len(t, provider.keywordCalls, 1, "chain must stop on an unreachable provider")
	assert.Empty(t, provider.addressCalls)
}

func TestResolve_TieBreakUsesName(t *testing.T) {
	addr := "서울 용산구 남산공원길 105"
	provider := &scriptedProvider{
		keyword: map[string][]PlaceCandidate{
			"Seoul Tower": {
				{Name: "Seoul Tower Cafe", RoadAddress: "카페길 1", Coord: Coordinates{Lat: 1, Lng: 1}},
				{Name: "Seoul Tower", RoadAddress: addr, Coord: Coordinates{Lat: 37.5512, Lng: 126.9882}},
			},
		},
	}

	loc, err := testResolver(provider).Resolve(context.Background(), addr, "Seoul Tower")
	require.NoError(t, err)
	assert.Equal(t, addr, loc.DisplayAddress)
	assert.Equal(t, Coordinates{Lat: 37.5512, Lng: 126.9882}, loc.Coord)
}

func TestResolve_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	provider := &scriptedProvider{}
	_, err := testResolver(provider).Resolve(ctx, "경기 오산시 한신대길 137", "한신대학교")
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, provider.keywordCalls)
}

// slowProvider blocks on the call context so the per-call timeout fires.
type slowProvider struct {
	scriptedProvider
	slowKeyword string
}

func (p *slowProvider) KeywordSearch(ctx context.Context, keyword string) ([]PlaceCandidate, error) {
	if keyword == p.slowKeyword {
		p.keywordCalls = append(p.keywordCalls, keyword)
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return p.scriptedProvider.KeywordSearch(ctx, keyword)
}

func TestResolve_CallTimeoutAdvancesChain(t *testing.T) {
	addr := "경기 오산시 한신대길 137"
	name := "한신대학교"
	provider := &slowProvider{
		slowKeyword: name,
		scriptedProvider: scriptedProvider{
			keyword: map[string][]PlaceCandidate{
				addr + " " + name: {{Name: name, RoadAddress: addr, Coord: Coordinates{Lat: 37.19, Lng: 127.02}}},
			},
		},
	}

	r := NewResolver(provider, DefaultHeuristics(), 20*time.Millisecond, discardLogger())
	loc, err := r.Resolve(context.Background(), addr, name)
	require.NoError(t, err)
	assert.Equal(t, 2, loc.Attempts, "timeout counts as a failed strategy, not an abort")
}

func TestResolve_ResolvedAtUsesClock(t *testing.T) {
	frozen := clockwork.NewFakeClockAt(time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC))
	SetClock(frozen)
	t.Cleanup(func() { SetClock(nil) })

	provider := &scriptedProvider{
		keyword: map[string][]PlaceCandidate{
			"서울타워": {{Name: "서울타워", RoadAddress: "남산공원길 105", Coord: Coordinates{Lat: 37.55, Lng: 126.99}}},
		},
	}

	loc, err := testResolver(provider).Resolve(context.Background(), "", "서울타워")
	require.NoError(t, err)
	assert.Equal(t, frozen.Now(), loc.ResolvedAt)
}
