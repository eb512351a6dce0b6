package airport

import (
	"context"
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
	"time"

	"skysearch/pkg/logger"
	"skysearch/pkg/memcache"
)

var exactCodeRe = regexp.MustCompile(`^[A-Z]{3}$`)

// Source is the gateway-client contract for reference-data lookups.
type Source interface {
	SearchAirports(ctx context.Context, keyword string) ([]Airport, error)
	GetAirport(ctx context.Context, code string) (*Airport, error)
}

// Service ranks autocomplete results and keeps them in a 24-hour cache
// keyed by (lowercased query, limit).
type Service struct {
	source Source
	cache  *memcache.Store
	ttl    time.Duration
	logger logger.Client
}

func NewService(source Source, cache *memcache.Store, ttl time.Duration, logger logger.Client) *Service {
	return &Service{
		source: source,
		cache:  cache,
		ttl:    ttl,
		logger: logger,
	}
}

// Search resolves an autocomplete query. The bool reports whether the
// result came from the local cache.
func (s *Service) Search(ctx context.Context, query string, limit int) ([]Airport, bool, error) {
	query = strings.TrimSpace(query)
	key := cacheKey(query, limit)

	if data, ok := s.cache.Get(key); ok {
		var cached []Airport
		if err := json.Unmarshal(data, &cached); err == nil {
			return cached, true, nil
		}
		s.logger.Error("failed to unmarshal cached airports", logger.Field{Key: "key", Value: key})
	}

	results, err := s.resolve(ctx, query, limit)
	if err != nil {
		return nil, false, err
	}

	if data, err := json.Marshal(results); err == nil {
		s.cache.Set(key, data, s.ttl)
	}

	return results, false, nil
}

// resolve tries an exact-code lookup for 3-uppercase-letter queries before
// falling back to keyword search with fuzzy ranking.
func (s *Service) resolve(ctx context.Context, query string, limit int) ([]Airport, error) {
	if exactCodeRe.MatchString(query) {
		a, err := s.source.GetAirport(ctx, query)
		if err != nil {
			return nil, err
		}
		if a != nil {
			return []Airport{*a}, nil
		}
	}

	candidates, err := s.source.SearchAirports(ctx, query)
	if err != nil {
		return nil, err
	}

	return Rank(query, candidates, limit), nil
}

// ClearCache drops every cached autocomplete result.
func (s *Service) ClearCache() {
	s.cache.Flush()
	s.logger.Info("airport cache cleared")
}

func cacheKey(query string, limit int) string {
	return "airports:" + strings.ToLower(query) + ":" + strconv.Itoa(limit)
}
