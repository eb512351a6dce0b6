package amadeus

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"skysearch/internal/airport"
	"skysearch/internal/flight"
	"skysearch/pkg/httpx"
	"skysearch/pkg/logger"
	"skysearch/pkg/memcache"
	"skysearch/pkg/metrics"
	"skysearch/pkg/ratelimit"
)

type Config struct {
	BaseURL      string
	ClientID     string
	ClientSecret string

	RateQuota  int           // requests per window, 0 means 30
	RateWindow time.Duration // 0 means 60s
	SearchTTL  time.Duration // 0 means 5m
	AirportTTL time.Duration // 0 means 24h

	Retry      httpx.Policy
	HTTPClient *http.Client
}

// Client is the gateway to the upstream flight API. Every public call runs
// the same gates in order: rate-limit check, cache lookup, auth, retrying
// request. The token cache, rate-limit windows and request cache live on
// the instance; separate processes therefore keep separate quota and cache
// state, a documented scaling limitation of this design.
type Client struct {
	httpClient *http.Client
	baseURL    string
	auth       *tokenManager
	limiter    *ratelimit.Limiter
	cache      *memcache.Store
	retry      httpx.Policy
	searchTTL  time.Duration
	airportTTL time.Duration
	logger     logger.Client
	metrics    *metrics.Metrics
}

func New(cfg Config, log logger.Client, m *metrics.Metrics) *Client {
	if cfg.RateQuota == 0 {
		cfg.RateQuota = 30
	}
	if cfg.RateWindow == 0 {
		cfg.RateWindow = time.Minute
	}
	if cfg.SearchTTL == 0 {
		cfg.SearchTTL = 5 * time.Minute
	}
	if cfg.AirportTTL == 0 {
		cfg.AirportTTL = 24 * time.Hour
	}
	if cfg.Retry.MaxAttempts == 0 {
		cfg.Retry = httpx.DefaultPolicy()
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{}
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	return &Client{
		httpClient: cfg.HTTPClient,
		baseURL:    cfg.BaseURL,
		auth:       newTokenManager(cfg.HTTPClient, cfg.BaseURL, cfg.ClientID, cfg.ClientSecret),
		limiter:    ratelimit.New(cfg.RateQuota, cfg.RateWindow),
		cache:      memcache.NewStore(),
		retry:      cfg.Retry,
		searchTTL:  cfg.SearchTTL,
		airportTTL: cfg.AirportTTL,
		logger:     log,
		metrics:    m,
	}
}

// SearchFlights runs an offer search for the given criteria and maps every
// raw offer through the normalizer. Offers that fail to normalize are
// skipped with a warning rather than failing the whole result set.
func (c *Client) SearchFlights(ctx context.Context, criteria flight.SearchCriteria) ([]flight.ProcessedFlight, error) {
	c.count(func(m *metrics.Metrics) { m.FlightSearches.Inc() })

	if !c.limiter.TryAcquire(ratelimit.GlobalKey) {
		c.count(func(m *metrics.Metrics) { m.RateLimitRejected.Inc() })
		return nil, flight.NewRateLimitedError("flight search quota exhausted, retry shortly")
	}

	params := searchParams(criteria)
	sig := memcache.Signature(flightOffersPath, params)

	if data, ok := c.cache.Get(sig); ok {
		var flights []flight.ProcessedFlight
		if err := json.Unmarshal(data, &flights); err == nil {
			c.count(func(m *metrics.Metrics) { m.CacheHits.WithLabelValues("search").Inc() })
			return flights, nil
		}
		c.logger.Error("failed to unmarshal cached search results", logger.Field{Key: "signature", Value: sig})
	}
	c.count(func(m *metrics.Metrics) { m.CacheMisses.WithLabelValues("search").Inc() })

	body, err := c.get(ctx, flightOffersPath, params)
	if err != nil {
		return nil, err
	}

	var envelope flightOffersResponse
	if err := json.Unmarshal(body, &envelope); err != nil {
		c.logger.Error("malformed flight-offers payload", logger.Err(err))
		return nil, flight.NewInternalError()
	}

	flights := make([]flight.ProcessedFlight, 0, len(envelope.Data))
	for _, raw := range envelope.Data {
		f, err := normalizeOffer(raw)
		if err != nil {
			c.logger.Warn("skipping offer", logger.Err(err))
			continue
		}
		flights = append(flights, f)
	}

	if data, err := json.Marshal(flights); err == nil {
		c.cache.Set(sig, data, c.searchTTL)
	}

	return flights, nil
}

// SearchAirports queries reference data by free-text keyword.
func (c *Client) SearchAirports(ctx context.Context, keyword string) ([]airport.Airport, error) {
	c.count(func(m *metrics.Metrics) { m.AirportLookups.Inc() })

	if !c.limiter.TryAcquire(ratelimit.GlobalKey) {
		c.count(func(m *metrics.Metrics) { m.RateLimitRejected.Inc() })
		return nil, flight.NewRateLimitedError("airport lookup quota exhausted, retry shortly")
	}

	params := map[string]string{
		"subType": "AIRPORT",
		"keyword": keyword,
	}
	sig := memcache.Signature(locationsPath, params)

	if data, ok := c.cache.Get(sig); ok {
		var airports []airport.Airport
		if err := json.Unmarshal(data, &airports); err == nil {
			c.count(func(m *metrics.Metrics) { m.CacheHits.WithLabelValues("airports").Inc() })
			return airports, nil
		}
		c.logger.Error("failed to unmarshal cached airports", logger.Field{Key: "signature", Value: sig})
	}
	c.count(func(m *metrics.Metrics) { m.CacheMisses.WithLabelValues("airports").Inc() })

	body, err := c.get(ctx, locationsPath, params)
	if err != nil {
		return nil, err
	}

	var envelope locationsResponse
	if err := json.Unmarshal(body, &envelope); err != nil {
		c.logger.Error("malformed locations payload", logger.Err(err))
		return nil, flight.NewInternalError()
	}

	airports := mapLocations(envelope.Data)
	if data, err := json.Marshal(airports); err == nil {
		c.cache.Set(sig, data, c.airportTTL)
	}

	return airports, nil
}

// GetAirport looks up one airport by exact IATA code. A miss is a nil
// result, not an error; callers decide whether to fall back to keyword
// search.
func (c *Client) GetAirport(ctx context.Context, iataCode string) (*airport.Airport, error) {
	code := strings.ToUpper(strings.TrimSpace(iataCode))

	airports, err := c.SearchAirports(ctx, code)
	if err != nil {
		return nil, err
	}

	for _, a := range airports {
		if a.Code == code {
			return &a, nil
		}
	}
	return nil, nil
}

// IsValidAirport reports whether the code resolves to a known airport.
func (c *Client) IsValidAirport(ctx context.Context, code string) (bool, error) {
	a, err := c.GetAirport(ctx, code)
	if err != nil {
		return false, err
	}
	return a != nil, nil
}

// RateStatus exposes the global quota window for diagnostics.
func (c *Client) RateStatus() ratelimit.Status {
	return c.limiter.Status(ratelimit.GlobalKey)
}

// get authenticates and executes one retried GET, mapping failures onto the
// error taxonomy. Rate-limit and cache gates already ran by the time get is
// called, once per logical request, not per attempt.
func (c *Client) get(ctx context.Context, path string, params map[string]string) ([]byte, error) {
	token, err := c.auth.Token(ctx)
	if err != nil {
		return nil, err
	}

	query := url.Values{}
	for k, v := range params {
		query.Set(k, v)
	}
	u := c.baseURL + path + "?" + query.Encode()

	attempts := 0
	start := time.Now()
	status, body, err := c.retry.Execute(ctx, func(attemptCtx context.Context) (*http.Response, error) {
		attempts++
		req, reqErr := http.NewRequestWithContext(attemptCtx, http.MethodGet, u, nil)
		if reqErr != nil {
			return nil, reqErr
		}
		req.Header.Set("Authorization", "Bearer "+token)
		req.Header.Set("Accept", "application/json")
		return c.httpClient.Do(req)
	})
	c.count(func(m *metrics.Metrics) {
		m.UpstreamLatency.Observe(time.Since(start).Seconds())
		for i := 1; i < attempts; i++ {
			m.UpstreamRetries.Inc()
		}
	})

	if err != nil {
		switch {
		case errors.Is(err, context.Canceled):
			return nil, err
		case errors.Is(err, context.DeadlineExceeded):
			return nil, flight.NewTimeoutError("flight provider timed out")
		default:
			return nil, flight.NewUpstreamError("flight provider unreachable: " + err.Error())
		}
	}

	switch {
	case status == http.StatusTooManyRequests:
		return nil, flight.NewRateLimitedError("flight provider rate limit reached")
	case status == http.StatusUnauthorized:
		return nil, flight.NewAuthError(status, upstreamDetail(body))
	case status >= 400:
		return nil, flight.NewUpstreamError(upstreamDetail(body))
	}

	return body, nil
}

// count guards metric increments so tests can run without a registry.
func (c *Client) count(fn func(*metrics.Metrics)) {
	if c.metrics != nil {
		fn(c.metrics)
	}
}

// searchParams builds the upstream query. Return date and children appear
// only when set, matching what the provider accepts.
func searchParams(criteria flight.SearchCriteria) map[string]string {
	params := map[string]string{
		"originLocationCode":      criteria.Departure,
		"destinationLocationCode": criteria.Arrival,
		"departureDate":           criteria.DepartDate,
		"adults":                  strconv.Itoa(criteria.Adults),
		"max":                     strconv.Itoa(criteria.Max),
	}
	if criteria.ReturnDate != "" {
		params["returnDate"] = criteria.ReturnDate
	}
	if criteria.Children > 0 {
		params["children"] = strconv.Itoa(criteria.Children)
	}
	if criteria.Cabin != "" {
		params["travelClass"] = string(criteria.Cabin)
	}
	return params
}
