package amadeus

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skysearch/internal/flight"
)

const directOffer = `{
	"id": "1",
	"itineraries": [{
		"duration": "PT7H30M",
		"segments": [{
			"departure": {"iataCode": "JFK", "terminal": "4", "at": "2026-04-01T18:00:00"},
			"arrival": {"iataCode": "LHR", "terminal": "5", "at": "2026-04-02T06:30:00"},
			"carrierCode": "BA", "number": "112", "duration": "PT7H30M"
		}]
	}],
	"price": {"currency": "USD", "total": "512.30", "grandTotal": "540.00"},
	"travelerPricings": [{"fareDetailsBySegment": [{"cabin": "BUSINESS"}]}]
}`

const twoStopOffer = `{
	"id": "2",
	"itineraries": [{
		"duration": "PT16H",
		"segments": [
			{"departure": {"iataCode": "JFK", "at": "2026-04-01T08:00:00"},
			 "arrival": {"iataCode": "ORD", "at": "2026-04-01T10:00:00"},
			 "carrierCode": "UA", "number": "300"},
			{"departure": {"iataCode": "ORD", "at": "2026-04-01T12:00:00"},
			 "arrival": {"iataCode": "IAD", "at": "2026-04-01T14:00:00"},
			 "carrierCode": "UA", "number": "410"},
			{"departure": {"iataCode": "IAD", "at": "2026-04-01T17:00:00"},
			 "arrival": {"iataCode": "LHR", "at": "2026-04-02T05:00:00+01:00"},
			 "carrierCode": "LH", "number": "919"}
		]
	}],
	"price": {"currency": "USD", "grandTotal": "389.99"}
}`

const roundTripOffer = `{
	"id": "3",
	"itineraries": [
		{"duration": "PT7H", "segments": [
			{"departure": {"iataCode": "JFK", "at": "2026-04-01T18:00:00"},
			 "arrival": {"iataCode": "LHR", "at": "2026-04-02T06:00:00"},
			 "carrierCode": "VS", "number": "4"}
		]},
		{"duration": "PT8H", "segments": [
			{"departure": {"iataCode": "LHR", "at": "2026-04-08T11:00:00"},
			 "arrival": {"iataCode": "JFK", "at": "2026-04-08T14:00:00"},
			 "carrierCode": "VS", "number": "3"}
		]}
	],
	"price": {"currency": "GBP", "total": "820.00"}
}`

func TestNormalizeDirectOffer(t *testing.T) {
	f, err := normalizeOffer(json.RawMessage(directOffer))
	require.NoError(t, err)

	assert.Equal(t, "1", f.ID)
	assert.Equal(t, "JFK", f.Departure.Airport)
	assert.Equal(t, "4", f.Departure.Terminal)
	assert.Equal(t, "LHR", f.Arrival.Airport)
	assert.Equal(t, "PT7H30M", f.Duration)
	assert.Equal(t, 0, f.Stops, "a single segment is a direct flight")
	assert.Equal(t, []string{"BA"}, f.Airlines)
	assert.Equal(t, 512.30, f.Price, "total wins over grandTotal when both are present")
	assert.Equal(t, "USD", f.Currency)
	assert.Equal(t, flight.CabinBusiness, f.Cabin)
	assert.Nil(t, f.Return)
	assert.JSONEq(t, directOffer, string(f.Raw))
}

func TestNormalizeConnectingOffer(t *testing.T) {
	f, err := normalizeOffer(json.RawMessage(twoStopOffer))
	require.NoError(t, err)

	assert.Equal(t, 2, f.Stops, "three segments make two stops")
	assert.Equal(t, []string{"UA", "LH"}, f.Airlines, "carriers dedupe in first-seen order")
	assert.Equal(t, 389.99, f.Price, "grandTotal backfills a missing total")
	assert.Equal(t, flight.CabinEconomy, f.Cabin, "missing fare details default to economy")
	assert.Len(t, f.Segments, 3)
	assert.Equal(t, "JFK", f.Departure.Airport)
	assert.Equal(t, "LHR", f.Arrival.Airport)
}

func TestNormalizeRoundTripOffer(t *testing.T) {
	f, err := normalizeOffer(json.RawMessage(roundTripOffer))
	require.NoError(t, err)

	// The top-level leg is the outbound itinerary.
	assert.Equal(t, "JFK", f.Departure.Airport)
	assert.Equal(t, "PT7H", f.Duration)

	require.NotNil(t, f.Return)
	assert.Equal(t, "LHR", f.Return.Departure.Airport)
	assert.Equal(t, "JFK", f.Return.Arrival.Airport)
	assert.Equal(t, "PT8H", f.Return.Duration)
	assert.Equal(t, 0, f.Return.Stops)
}

func TestNormalizeRejects(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"no itineraries", `{"id":"x","itineraries":[],"price":{"total":"10"}}`},
		{"no segments", `{"id":"x","itineraries":[{"segments":[]}],"price":{"total":"10"}}`},
		{"unparseable price", `{"id":"x","itineraries":[{"segments":[{"departure":{"iataCode":"JFK","at":"2026-04-01T08:00:00"},"arrival":{"iataCode":"LHR","at":"2026-04-01T20:00:00"}}]}],"price":{"total":"free"}}`},
		{"negative price", `{"id":"x","itineraries":[{"segments":[{"departure":{"iataCode":"JFK","at":"2026-04-01T08:00:00"},"arrival":{"iataCode":"LHR","at":"2026-04-01T20:00:00"}}]}],"price":{"total":"-5"}}`},
		{"bad timestamp", `{"id":"x","itineraries":[{"segments":[{"departure":{"iataCode":"JFK","at":"April 1st"},"arrival":{"iataCode":"LHR","at":"2026-04-01T20:00:00"}}]}],"price":{"total":"10"}}`},
		{"not json", `nope`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := normalizeOffer(json.RawMessage(tc.raw))
			assert.Error(t, err)
		})
	}
}

func TestParseDateTimeZones(t *testing.T) {
	local, err := parseDateTime("2026-04-01T18:00:00")
	require.NoError(t, err)
	assert.Equal(t, 18, local.Hour())

	zoned, err := parseDateTime("2026-04-02T05:00:00+01:00")
	require.NoError(t, err)
	assert.Equal(t, 5, zoned.Hour())
}

func TestUpstreamDetail(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{"errors detail", `{"errors":[{"detail":"Origin and destination must differ","title":"INVALID"}]}`, "Origin and destination must differ"},
		{"errors title", `{"errors":[{"title":"INVALID FORMAT"}]}`, "INVALID FORMAT"},
		{"oauth description", `{"error":"invalid_client","error_description":"bad secret"}`, "bad secret"},
		{"plain message", `{"message":"something broke"}`, "something broke"},
		{"unintelligible", `<html>`, "flight provider rejected the request"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, upstreamDetail([]byte(tc.body)))
		})
	}
}
