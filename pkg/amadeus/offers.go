package amadeus

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"skysearch/internal/flight"
)

const flightOffersPath = "/v2/shopping/flight-offers"

type flightOffersResponse struct {
	Data []json.RawMessage `json:"data"`
}

// flightOffer is the provider's raw offer shape, projected selectively.
type flightOffer struct {
	ID               string            `json:"id"`
	Itineraries      []itinerary       `json:"itineraries"`
	Price            offerPrice        `json:"price"`
	TravelerPricings []travelerPricing `json:"travelerPricings"`
}

type itinerary struct {
	Duration string         `json:"duration"`
	Segments []offerSegment `json:"segments"`
}

type offerSegment struct {
	Departure   segmentPoint `json:"departure"`
	Arrival     segmentPoint `json:"arrival"`
	CarrierCode string       `json:"carrierCode"`
	Number      string       `json:"number"`
	Duration    string       `json:"duration"`
}

type segmentPoint struct {
	IataCode string `json:"iataCode"`
	Terminal string `json:"terminal"`
	At       string `json:"at"`
}

type offerPrice struct {
	Currency   string `json:"currency"`
	Total      string `json:"total"`
	GrandTotal string `json:"grandTotal"`
}

type travelerPricing struct {
	FareDetailsBySegment []fareDetail `json:"fareDetailsBySegment"`
}

type fareDetail struct {
	Cabin string `json:"cabin"`
}

// normalizeOffer converts one raw offer into the canonical ProcessedFlight.
// The first itinerary describes the flight being displayed; a second one is
// the return leg of a round trip. The untouched raw payload is retained.
func normalizeOffer(raw json.RawMessage) (flight.ProcessedFlight, error) {
	var offer flightOffer
	if err := json.Unmarshal(raw, &offer); err != nil {
		return flight.ProcessedFlight{}, fmt.Errorf("failed to decode offer: %w", err)
	}
	if len(offer.Itineraries) == 0 {
		return flight.ProcessedFlight{}, fmt.Errorf("offer %s has no itineraries", offer.ID)
	}

	outbound, err := buildLeg(offer.Itineraries[0])
	if err != nil {
		return flight.ProcessedFlight{}, fmt.Errorf("offer %s outbound: %w", offer.ID, err)
	}

	var returnLeg *flight.Leg
	if len(offer.Itineraries) > 1 {
		leg, err := buildLeg(offer.Itineraries[1])
		if err != nil {
			return flight.ProcessedFlight{}, fmt.Errorf("offer %s return: %w", offer.ID, err)
		}
		returnLeg = &leg
	}

	price, err := parsePrice(offer.Price)
	if err != nil {
		return flight.ProcessedFlight{}, fmt.Errorf("offer %s: %w", offer.ID, err)
	}

	return flight.ProcessedFlight{
		ID:        offer.ID,
		Departure: outbound.Departure,
		Arrival:   outbound.Arrival,
		Duration:  outbound.Duration,
		Stops:     outbound.Stops,
		Airlines:  carrierSet(offer.Itineraries[0].Segments),
		Price:     price,
		Currency:  offer.Price.Currency,
		Cabin:     offerCabin(offer),
		Segments:  outbound.Segments,
		Return:    returnLeg,
		Raw:       raw,
	}, nil
}

// buildLeg derives one direction of travel from its segment sequence.
func buildLeg(it itinerary) (flight.Leg, error) {
	if len(it.Segments) == 0 {
		return flight.Leg{}, fmt.Errorf("itinerary has no segments")
	}

	segments := make([]flight.Segment, 0, len(it.Segments))
	for _, s := range it.Segments {
		depAt, err := parseDateTime(s.Departure.At)
		if err != nil {
			return flight.Leg{}, err
		}
		arrAt, err := parseDateTime(s.Arrival.At)
		if err != nil {
			return flight.Leg{}, err
		}
		segments = append(segments, flight.Segment{
			Departure: flight.Endpoint{Airport: s.Departure.IataCode, At: depAt, Terminal: s.Departure.Terminal},
			Arrival:   flight.Endpoint{Airport: s.Arrival.IataCode, At: arrAt, Terminal: s.Arrival.Terminal},
			Carrier:   s.CarrierCode,
			Number:    s.Number,
			Duration:  s.Duration,
		})
	}

	stops := len(segments) - 1
	if stops < 0 {
		stops = 0
	}

	return flight.Leg{
		Departure: segments[0].Departure,
		Arrival:   segments[len(segments)-1].Arrival,
		Duration:  it.Duration,
		Stops:     stops,
		Segments:  segments,
	}, nil
}

// carrierSet collects distinct carrier codes in first-seen order.
func carrierSet(segments []offerSegment) []string {
	seen := make(map[string]bool, len(segments))
	carriers := make([]string, 0, len(segments))
	for _, s := range segments {
		if s.CarrierCode == "" || seen[s.CarrierCode] {
			continue
		}
		seen[s.CarrierCode] = true
		carriers = append(carriers, s.CarrierCode)
	}
	return carriers
}

func parsePrice(p offerPrice) (float64, error) {
	total := p.Total
	if total == "" {
		total = p.GrandTotal
	}
	v, err := strconv.ParseFloat(total, 64)
	if err != nil {
		return 0, fmt.Errorf("unparseable price %q", total)
	}
	if v < 0 {
		return 0, fmt.Errorf("negative price %q", total)
	}
	return v, nil
}

// offerCabin reads the first traveler-pricing segment's cabin, defaulting
// to economy when absent or unrecognized.
func offerCabin(offer flightOffer) flight.CabinClass {
	if len(offer.TravelerPricings) > 0 && len(offer.TravelerPricings[0].FareDetailsBySegment) > 0 {
		cabin := offer.TravelerPricings[0].FareDetailsBySegment[0].Cabin
		if flight.ValidCabin(cabin) {
			return flight.CabinClass(cabin)
		}
	}
	return flight.CabinEconomy
}

// parseDateTime accepts the provider's local timestamps with or without a
// zone offset.
func parseDateTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01-02T15:04:05", s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("unable to parse timestamp %q", s)
}
