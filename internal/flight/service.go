package flight

import (
	"context"
	"time"

	"skysearch/pkg/logger"
	"skysearch/pkg/ratelimit"
)

// Searcher is the gateway-client contract the service depends on.
type Searcher interface {
	SearchFlights(ctx context.Context, criteria SearchCriteria) ([]ProcessedFlight, error)
	RateStatus() ratelimit.Status
}

type Service struct {
	searcher Searcher
	logger   logger.Client
	now      func() time.Time
}

func NewService(searcher Searcher, logger logger.Client) *Service {
	return &Service{
		searcher: searcher,
		logger:   logger,
		now:      time.Now,
	}
}

// Search validates the criteria, runs the upstream search and applies the
// optional filter and sort passes over the normalized results.
func (s *Service) Search(ctx context.Context, criteria SearchCriteria, filters *FilterState, sortOpts *SortOptions) ([]ProcessedFlight, error) {
	criteria.Normalize()
	if appErr := criteria.Validate(s.now()); appErr != nil {
		return nil, appErr
	}

	startTime := time.Now()
	flights, err := s.searcher.SearchFlights(ctx, criteria)
	if err != nil {
		return nil, err
	}

	s.logger.Info("flight search completed",
		logger.Field{Key: "route", Value: criteria.Departure + "->" + criteria.Arrival},
		logger.Field{Key: "results", Value: len(flights)},
		logger.Field{Key: "took_ms", Value: time.Since(startTime).Milliseconds()},
	)

	if filters != nil {
		flights = ApplyFilters(flights, *filters)
	}
	if sortOpts != nil && sortOpts.By != "" {
		flights = SortFlights(flights, sortOpts.By, sortOpts.Order)
	}

	return flights, nil
}

// RateStatus exposes the gateway's current quota window for response headers.
func (s *Service) RateStatus() ratelimit.Status {
	return s.searcher.RateStatus()
}
