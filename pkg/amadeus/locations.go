package amadeus

import "skysearch/internal/airport"

const locationsPath = "/v1/reference-data/locations"

type locationsResponse struct {
	Data []locationRecord `json:"data"`
}

type locationRecord struct {
	IataCode string          `json:"iataCode"`
	Name     string          `json:"name"`
	SubType  string          `json:"subType"`
	Address  locationAddress `json:"address"`
}

type locationAddress struct {
	CityName    string `json:"cityName"`
	CountryCode string `json:"countryCode"`
}

// mapLocations projects reference-data records onto the Airport shape,
// dropping records without an IATA code. Missing city and country fields
// stay empty strings.
func mapLocations(records []locationRecord) []airport.Airport {
	airports := make([]airport.Airport, 0, len(records))
	for _, r := range records {
		if r.IataCode == "" {
			continue
		}
		airports = append(airports, airport.Airport{
			Code:    r.IataCode,
			Name:    r.Name,
			City:    r.Address.CityName,
			Country: r.Address.CountryCode,
		})
	}
	return airports
}
