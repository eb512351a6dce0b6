package flight

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

const (
	MinAdults   = 1
	MaxAdults   = 9
	MaxChildren = 8
	MinResults  = 1
	MaxResults  = 250
	DefaultMax  = 50

	dateLayout = "2006-01-02"
)

var iataCodeRe = regexp.MustCompile(`^[A-Za-z]{3}$`)

// Normalize uppercases airport codes and fills defaults. Call before Validate.
func (c *SearchCriteria) Normalize() {
	c.Departure = strings.ToUpper(strings.TrimSpace(c.Departure))
	c.Arrival = strings.ToUpper(strings.TrimSpace(c.Arrival))
	c.DepartDate = strings.TrimSpace(c.DepartDate)
	c.ReturnDate = strings.TrimSpace(c.ReturnDate)
	c.Cabin = CabinClass(strings.ToUpper(string(c.Cabin)))

	if c.Adults == 0 {
		c.Adults = MinAdults
	}
	if c.Max == 0 {
		c.Max = DefaultMax
	}
}

// Validate checks the criteria against ref, compared at day granularity in
// UTC. It fails before any upstream call so bad input never spends quota.
func (c SearchCriteria) Validate(ref time.Time) *AppError {
	if !iataCodeRe.MatchString(c.Departure) {
		return NewValidationError("departure", "departure must be a 3-letter IATA code")
	}
	if !iataCodeRe.MatchString(c.Arrival) {
		return NewValidationError("arrival", "arrival must be a 3-letter IATA code")
	}

	today := ref.UTC().Truncate(24 * time.Hour)

	depart, err := time.ParseInLocation(dateLayout, c.DepartDate, time.UTC)
	if err != nil {
		return NewValidationError("departDate", "departDate must be a YYYY-MM-DD date")
	}
	if depart.Before(today) {
		return NewValidationError("departDate", "departDate must be today or later")
	}

	if c.ReturnDate != "" {
		ret, err := time.ParseInLocation(dateLayout, c.ReturnDate, time.UTC)
		if err != nil {
			return NewValidationError("returnDate", "returnDate must be a YYYY-MM-DD date")
		}
		if ret.Before(today) {
			return NewValidationError("returnDate", "returnDate must be today or later")
		}
		if ret.Before(depart) {
			return NewValidationError("returnDate", "returnDate must not precede departDate")
		}
	}

	if c.Adults < MinAdults || c.Adults > MaxAdults {
		return NewValidationError("adults", fmt.Sprintf("adults must be between %d and %d", MinAdults, MaxAdults))
	}
	if c.Children < 0 || c.Children > MaxChildren {
		return NewValidationError("children", fmt.Sprintf("children must be between 0 and %d", MaxChildren))
	}
	if c.Cabin != "" && !ValidCabin(string(c.Cabin)) {
		return NewValidationError("cabin", "cabin must be one of ECONOMY, PREMIUM_ECONOMY, BUSINESS, FIRST")
	}
	if c.Max < MinResults || c.Max > MaxResults {
		return NewValidationError("max", fmt.Sprintf("max must be between %d and %d", MinResults, MaxResults))
	}

	return nil
}
