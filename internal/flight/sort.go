package flight

import (
	"sort"

	"skysearch/pkg/isodur"
)

const (
	SortByPrice     = "price"
	SortByDuration  = "duration"
	SortByDeparture = "departure"
	SortByArrival   = "arrival"
	SortByStops     = "stops"

	OrderAsc  = "asc"
	OrderDesc = "desc"
)

// ValidSortKey reports whether by names a supported comparator.
func ValidSortKey(by string) bool {
	switch by {
	case SortByPrice, SortByDuration, SortByDeparture, SortByArrival, SortByStops:
		return true
	}
	return false
}

// SortFlights returns a new slice ordered by the given key. The sort is
// stable, so flights comparing equal keep their relative order. An unknown
// key returns the input order unchanged.
func SortFlights(flights []ProcessedFlight, by, order string) []ProcessedFlight {
	sorted := make([]ProcessedFlight, len(flights))
	copy(sorted, flights)

	cmp := comparator(by)
	if cmp == nil {
		return sorted
	}

	sign := 1
	if order == OrderDesc {
		sign = -1
	}

	sort.SliceStable(sorted, func(i, j int) bool {
		return sign*cmp(sorted[i], sorted[j]) < 0
	})

	return sorted
}

// comparator returns a three-way compare for the sort key.
func comparator(by string) func(a, b ProcessedFlight) int {
	switch by {
	case SortByPrice:
		return func(a, b ProcessedFlight) int {
			return compareFloat(a.Price, b.Price)
		}
	case SortByDuration:
		return func(a, b ProcessedFlight) int {
			return isodur.Minutes(a.Duration) - isodur.Minutes(b.Duration)
		}
	case SortByDeparture:
		return func(a, b ProcessedFlight) int {
			return a.Departure.At.Compare(b.Departure.At)
		}
	case SortByArrival:
		return func(a, b ProcessedFlight) int {
			return a.Arrival.At.Compare(b.Arrival.At)
		}
	case SortByStops:
		return func(a, b ProcessedFlight) int {
			return a.Stops - b.Stops
		}
	}
	return nil
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
