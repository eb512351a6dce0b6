package flight

import (
	"strings"

	"skysearch/pkg/isodur"
)

// filterContext holds the active predicates so per-flight checks stay cheap
type filterContext struct {
	state FilterState
}

// ApplyFilters returns the flights passing every active predicate, in their
// original order. The input slice is never mutated; a FilterState with no
// active predicates returns an equal sequence.
func ApplyFilters(flights []ProcessedFlight, state FilterState) []ProcessedFlight {
	fc := &filterContext{state: state}

	// Pre-allocate assuming worst case (no flights filtered) to avoid resizing
	filtered := make([]ProcessedFlight, 0, len(flights))

	for _, f := range flights {
		if fc.matches(f) {
			filtered = append(filtered, f)
		}
	}

	return filtered
}

// matches returns true only if ALL active filters pass
func (fc *filterContext) matches(f ProcessedFlight) bool {
	// Price
	if fc.state.Price != nil {
		if f.Price < fc.state.Price.Min || f.Price > fc.state.Price.Max {
			return false
		}
	}

	// Stops; a bound of 2 means "2 or more" and keeps everything
	if fc.state.MaxStops != nil && *fc.state.MaxStops < 2 {
		if f.Stops > *fc.state.MaxStops {
			return false
		}
	}

	// Airlines: empty selection is no restriction, otherwise the flight's
	// carrier set must intersect it
	if len(fc.state.Airlines) > 0 {
		matched := false
		for _, selected := range fc.state.Airlines {
			for _, carrier := range f.Airlines {
				if strings.EqualFold(carrier, selected) {
					matched = true
					break
				}
			}
			if matched {
				break
			}
		}
		if !matched {
			return false
		}
	}

	// Departure / arrival hour windows
	if fc.state.Departure != nil && !fc.state.Departure.contains(f.Departure.At.Hour()) {
		return false
	}
	if fc.state.Arrival != nil && !fc.state.Arrival.contains(f.Arrival.At.Hour()) {
		return false
	}

	// Cabin
	if len(fc.state.Cabins) > 0 {
		matched := false
		for _, cabin := range fc.state.Cabins {
			if f.Cabin == cabin {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	// Duration
	if fc.state.MaxDuration != nil {
		if isodur.Minutes(f.Duration) > *fc.state.MaxDuration {
			return false
		}
	}

	return true
}

// contains checks hour against the [From, To) window, wrapping past
// midnight when From > To.
func (r HourRange) contains(hour int) bool {
	if r.From == r.To {
		return true
	}
	if r.From < r.To {
		return hour >= r.From && hour < r.To
	}
	return hour >= r.From || hour < r.To
}
