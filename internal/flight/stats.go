package flight

import "sort"

type PriceStats struct {
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Average float64 `json:"average"`
	Median  float64 `json:"median"`
}

type AirlineStats struct {
	Count        int     `json:"count"`
	AveragePrice float64 `json:"average_price"`
	MinPrice     float64 `json:"min_price"`
	MaxPrice     float64 `json:"max_price"`
}

// PriceStatsOf aggregates the price distribution of a result set. An empty
// input yields the zero value.
func PriceStatsOf(flights []ProcessedFlight) PriceStats {
	if len(flights) == 0 {
		return PriceStats{}
	}

	prices := make([]float64, len(flights))
	sum := 0.0
	for i, f := range flights {
		prices[i] = f.Price
		sum += f.Price
	}
	sort.Float64s(prices)

	n := len(prices)
	median := prices[n/2]
	if n%2 == 0 {
		median = (prices[n/2-1] + prices[n/2]) / 2
	}

	return PriceStats{
		Min:     prices[0],
		Max:     prices[n-1],
		Average: sum / float64(n),
		Median:  median,
	}
}

// AirlineStatsOf aggregates per-carrier counts and price extremes. A flight
// with several carriers contributes to each of them.
func AirlineStatsOf(flights []ProcessedFlight) map[string]AirlineStats {
	sums := make(map[string]float64)
	stats := make(map[string]AirlineStats)

	for _, f := range flights {
		for _, carrier := range f.Airlines {
			s, ok := stats[carrier]
			if !ok {
				s = AirlineStats{MinPrice: f.Price, MaxPrice: f.Price}
			}
			s.Count++
			if f.Price < s.MinPrice {
				s.MinPrice = f.Price
			}
			if f.Price > s.MaxPrice {
				s.MaxPrice = f.Price
			}
			sums[carrier] += f.Price
			stats[carrier] = s
		}
	}

	for carrier, s := range stats {
		s.AveragePrice = sums[carrier] / float64(s.Count)
		stats[carrier] = s
	}

	return stats
}
