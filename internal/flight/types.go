package flight

import (
	"encoding/json"
	"time"
)

type CabinClass string

const (
	CabinEconomy        CabinClass = "ECONOMY"
	CabinPremiumEconomy CabinClass = "PREMIUM_ECONOMY"
	CabinBusiness       CabinClass = "BUSINESS"
	CabinFirst          CabinClass = "FIRST"
)

// ValidCabin reports whether s names one of the four fare classes.
func ValidCabin(s string) bool {
	switch CabinClass(s) {
	case CabinEconomy, CabinPremiumEconomy, CabinBusiness, CabinFirst:
		return true
	}
	return false
}

type SearchCriteria struct {
	Departure  string     `json:"departure"`
	Arrival    string     `json:"arrival"`
	DepartDate string     `json:"departDate"`
	ReturnDate string     `json:"returnDate,omitempty"`
	Adults     int        `json:"adults"`
	Children   int        `json:"children,omitempty"`
	Cabin      CabinClass `json:"cabin,omitempty"`
	Max        int        `json:"max"`
}

// Endpoint is one end of a flown leg.
type Endpoint struct {
	Airport  string    `json:"airport"`
	At       time.Time `json:"at"`
	Terminal string    `json:"terminal,omitempty"`
}

// Segment is a single flown leg between two airports on one aircraft.
type Segment struct {
	Departure Endpoint `json:"departure"`
	Arrival   Endpoint `json:"arrival"`
	Carrier   string   `json:"carrier"`
	Number    string   `json:"number,omitempty"`
	Duration  string   `json:"duration,omitempty"`
}

// Leg is one direction of travel, composed of one or more segments.
type Leg struct {
	Departure Endpoint  `json:"departure"`
	Arrival   Endpoint  `json:"arrival"`
	Duration  string    `json:"duration"`
	Stops     int       `json:"stops"`
	Segments  []Segment `json:"segments"`
}

// ProcessedFlight is the canonical shape the rest of the system consumes.
// The top-level departure/arrival/duration/stops fields describe the
// outbound itinerary; a round-trip offer carries its return leg in Return.
// Raw retains the untouched upstream offer for debugging.
type ProcessedFlight struct {
	ID        string          `json:"id"`
	Departure Endpoint        `json:"departure"`
	Arrival   Endpoint        `json:"arrival"`
	Duration  string          `json:"duration"`
	Stops     int             `json:"stops"`
	Airlines  []string        `json:"airlines"`
	Price     float64         `json:"price"`
	Currency  string          `json:"currency"`
	Cabin     CabinClass      `json:"cabin"`
	Segments  []Segment       `json:"segments"`
	Return    *Leg            `json:"return,omitempty"`
	Raw       json.RawMessage `json:"raw,omitempty"`
}

type PriceBounds struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// HourRange is a [From, To) hour-of-day window. From > To wraps past
// midnight: 22-6 keeps hours >= 22 or < 6.
type HourRange struct {
	From int `json:"from"`
	To   int `json:"to"`
}

type FilterState struct {
	Price       *PriceBounds `json:"price,omitempty"`
	MaxStops    *int         `json:"max_stops,omitempty"`
	Airlines    []string     `json:"airlines,omitempty"`
	Departure   *HourRange   `json:"departure_hours,omitempty"`
	Arrival     *HourRange   `json:"arrival_hours,omitempty"`
	Cabins      []CabinClass `json:"cabins,omitempty"`
	MaxDuration *int         `json:"max_duration,omitempty"` // minutes
}

type SortOptions struct {
	By    string `json:"by"`    // price, duration, departure, arrival, stops
	Order string `json:"order"` // asc, desc
}
