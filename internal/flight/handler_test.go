package flight

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skysearch/pkg/logger"
	"skysearch/pkg/ratelimit"
)

type fakeSearcher struct {
	flights  []ProcessedFlight
	err      error
	status   ratelimit.Status
	criteria SearchCriteria
}

func (f *fakeSearcher) SearchFlights(_ context.Context, criteria SearchCriteria) ([]ProcessedFlight, error) {
	f.criteria = criteria
	return f.flights, f.err
}

func (f *fakeSearcher) RateStatus() ratelimit.Status {
	return f.status
}

func newTestRouter(searcher *fakeSearcher) *gin.Engine {
	gin.SetMode(gin.TestMode)
	log := logger.NewWithWriter("test", io.Discard)
	handler := NewHandler(NewService(searcher, log), log)
	router := gin.New()
	handler.RegisterRoutes(router)
	return router
}

func futureDate(days int) string {
	return time.Now().UTC().AddDate(0, 0, days).Format("2006-01-02")
}

func doSearch(t *testing.T, router *gin.Engine, query string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/flights?"+query, nil)
	router.ServeHTTP(rec, req)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec, body
}

func TestSearchFlightsNormalizesEchoedParams(t *testing.T) {
	searcher := &fakeSearcher{flights: testFlights(), status: ratelimit.Status{Used: 3, Quota: 30, Reset: 42 * time.Second}}
	router := newTestRouter(searcher)

	rec, body := doSearch(t, router, "departure=jfk&arrival=lhr&departDate="+futureDate(30))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["success"])

	meta := body["meta"].(map[string]any)
	params := meta["searchParams"].(map[string]any)
	assert.Equal(t, "LHR", params["arrival"])
	assert.Equal(t, "JFK", params["departure"])
	assert.Equal(t, float64(4), meta["count"])

	// Upstream receives the normalized criteria and the filled defaults.
	assert.Equal(t, "LHR", searcher.criteria.Arrival)
	assert.Equal(t, 1, searcher.criteria.Adults)
	assert.Equal(t, DefaultMax, searcher.criteria.Max)
}

func TestSearchFlightsRateHeaders(t *testing.T) {
	searcher := &fakeSearcher{status: ratelimit.Status{Used: 12, Quota: 30, Reset: 42 * time.Second}}
	router := newTestRouter(searcher)

	rec, _ := doSearch(t, router, "departure=JFK&arrival=LHR&departDate="+futureDate(7))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "18", rec.Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, "42000", rec.Header().Get("X-RateLimit-Reset"))
	assert.Contains(t, rec.Header().Get("Cache-Control"), "s-maxage=300")
}

func TestSearchFlightsPastDate(t *testing.T) {
	searcher := &fakeSearcher{}
	router := newTestRouter(searcher)

	rec, body := doSearch(t, router, "departure=JFK&arrival=LHR&departDate=2020-01-01")

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, string(ErrorCodeValidation), body["code"])
	assert.Equal(t, "departDate", body["field"])
	assert.Empty(t, searcher.criteria.Departure, "invalid input must not reach the upstream")
}

func TestSearchFlightsMissingRequired(t *testing.T) {
	router := newTestRouter(&fakeSearcher{})

	rec, body := doSearch(t, router, "departure=JFK")

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, string(ErrorCodeValidation), body["code"])
}

func TestSearchFlightsBadFilterParams(t *testing.T) {
	router := newTestRouter(&fakeSearcher{})
	base := "departure=JFK&arrival=LHR&departDate=" + futureDate(7)

	cases := []struct {
		name  string
		extra string
		field string
	}{
		{"negative minPrice", "&minPrice=-5", "minPrice"},
		{"inverted bounds", "&minPrice=500&maxPrice=100", "minPrice"},
		{"maxStops out of range", "&maxStops=3", "maxStops"},
		{"bad sort key", "&sortBy=comfort", "sortBy"},
		{"bad sort order", "&sortBy=price&sortOrder=sideways", "sortOrder"},
		{"zero maxDuration", "&maxDuration=0", "maxDuration"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec, body := doSearch(t, router, base+tc.extra)
			require.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tc.field, body["field"])
		})
	}
}

func TestSearchFlightsFiltersAndSorts(t *testing.T) {
	searcher := &fakeSearcher{flights: testFlights()}
	router := newTestRouter(searcher)

	rec, body := doSearch(t, router,
		"departure=JFK&arrival=LHR&departDate="+futureDate(7)+"&maxPrice=500&sortBy=price&sortOrder=desc")

	require.Equal(t, http.StatusOK, rec.Code)
	data := body["data"].([]any)
	require.Len(t, data, 3)
	first := data[0].(map[string]any)
	assert.Equal(t, 410.0, first["price"])
}

func TestSearchFlightsStats(t *testing.T) {
	searcher := &fakeSearcher{flights: testFlights()}
	router := newTestRouter(searcher)

	_, body := doSearch(t, router, "departure=JFK&arrival=LHR&departDate="+futureDate(7)+"&stats=true")

	meta := body["meta"].(map[string]any)
	stats := meta["priceStats"].(map[string]any)
	assert.Equal(t, 220.0, stats["min"])
	assert.Equal(t, 380.0, stats["median"])
	assert.Contains(t, meta, "airlineStats")
}

func TestSearchFlightsUpstreamError(t *testing.T) {
	searcher := &fakeSearcher{err: NewRateLimitedError("rate limit exceeded, please try again later")}
	router := newTestRouter(searcher)

	rec, body := doSearch(t, router, "departure=JFK&arrival=LHR&departDate="+futureDate(7))

	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, string(ErrorCodeRateLimited), body["code"])
}

func TestWriteErrorUnknown(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)

	WriteError(c, context.DeadlineExceeded)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
