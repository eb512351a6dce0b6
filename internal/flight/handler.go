package flight

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"skysearch/pkg/logger"
)

type Handler struct {
	service *Service
	logger  logger.Client
}

func NewHandler(s *Service, logger logger.Client) *Handler {
	return &Handler{
		service: s,
		logger:  logger,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.GET("/flights", h.SearchFlights)
	router.HEAD("/flights", h.Head)
	router.OPTIONS("/flights", h.Options)
}

// searchQuery is the raw query-string shape of GET /flights.
type searchQuery struct {
	Departure  string `form:"departure" binding:"required"`
	Arrival    string `form:"arrival" binding:"required"`
	DepartDate string `form:"departDate" binding:"required"`
	ReturnDate string `form:"returnDate"`
	Adults     int    `form:"adults"`
	Children   int    `form:"children"`
	Cabin      string `form:"cabin"`
	Max        int    `form:"max"`

	MinPrice    string `form:"minPrice"`
	MaxPrice    string `form:"maxPrice"`
	MaxStops    string `form:"maxStops"`
	Airlines    string `form:"airlines"` // comma-separated carrier codes
	MaxDuration string `form:"maxDuration"`
	SortBy      string `form:"sortBy"`
	SortOrder   string `form:"sortOrder"`
	Stats       bool   `form:"stats"`
}

// SearchFlights godoc
// @Summary      Search flights
// @Description  Search one-way or round-trip flight offers, optionally filtered and sorted
// @Tags         flights
// @Produce      json
// @Param        departure  query string true  "Origin IATA code"
// @Param        arrival    query string true  "Destination IATA code"
// @Param        departDate query string true  "Departure date (YYYY-MM-DD)"
// @Param        returnDate query string false "Return date (YYYY-MM-DD)"
// @Param        adults     query int    false "Adult count (1-9)"
// @Param        children   query int    false "Child count (0-8)"
// @Param        cabin      query string false "Cabin class"
// @Param        max        query int    false "Result cap (1-250)"
// @Success      200 {object} map[string]interface{}
// @Failure      400 {object} map[string]interface{}
// @Router       /flights [get]
func (h *Handler) SearchFlights(c *gin.Context) {
	var q searchQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		WriteError(c, NewValidationError("", "invalid query parameters: "+err.Error()))
		return
	}

	criteria := SearchCriteria{
		Departure:  q.Departure,
		Arrival:    q.Arrival,
		DepartDate: q.DepartDate,
		ReturnDate: q.ReturnDate,
		Adults:     q.Adults,
		Children:   q.Children,
		Cabin:      CabinClass(q.Cabin),
		Max:        q.Max,
	}

	// Normalize here too so the echoed searchParams carry canonical codes.
	criteria.Normalize()

	filters, sortOpts, appErr := q.filterState()
	if appErr != nil {
		WriteError(c, appErr)
		return
	}

	flights, err := h.service.Search(c.Request.Context(), criteria, filters, sortOpts)
	if err != nil {
		h.logger.Error("flight search failed", logger.Err(err))
		WriteError(c, err)
		return
	}

	meta := gin.H{
		"count":        len(flights),
		"searchParams": criteria,
		"timestamp":    time.Now().UTC().Format(time.RFC3339),
	}
	if q.Stats {
		meta["priceStats"] = PriceStatsOf(flights)
		meta["airlineStats"] = AirlineStatsOf(flights)
	}

	writeRateHeaders(c, h.service)
	c.Header("Cache-Control", "public, s-maxage=300, stale-while-revalidate=600")
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    flights,
		"meta":    meta,
	})
}

func (h *Handler) Head(c *gin.Context) {
	c.Status(http.StatusOK)
}

func (h *Handler) Options(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// filterState builds the optional filter and sort passes from the query.
func (q searchQuery) filterState() (*FilterState, *SortOptions, *AppError) {
	state := FilterState{}
	active := false

	if q.MinPrice != "" || q.MaxPrice != "" {
		bounds := PriceBounds{Min: 0, Max: math.MaxFloat64}
		if q.MinPrice != "" {
			v, err := strconv.ParseFloat(q.MinPrice, 64)
			if err != nil || v < 0 {
				return nil, nil, NewValidationError("minPrice", "minPrice must be a non-negative number")
			}
			bounds.Min = v
		}
		if q.MaxPrice != "" {
			v, err := strconv.ParseFloat(q.MaxPrice, 64)
			if err != nil || v < 0 {
				return nil, nil, NewValidationError("maxPrice", "maxPrice must be a non-negative number")
			}
			bounds.Max = v
		}
		if bounds.Min > bounds.Max {
			return nil, nil, NewValidationError("minPrice", "minPrice must not exceed maxPrice")
		}
		state.Price = &bounds
		active = true
	}

	if q.MaxStops != "" {
		v, err := strconv.Atoi(q.MaxStops)
		if err != nil || v < 0 || v > 2 {
			return nil, nil, NewValidationError("maxStops", "maxStops must be 0, 1 or 2")
		}
		state.MaxStops = &v
		active = true
	}

	if q.Airlines != "" {
		for _, code := range strings.Split(q.Airlines, ",") {
			code = strings.ToUpper(strings.TrimSpace(code))
			if code != "" {
				state.Airlines = append(state.Airlines, code)
			}
		}
		active = len(state.Airlines) > 0
	}

	if q.MaxDuration != "" {
		v, err := strconv.Atoi(q.MaxDuration)
		if err != nil || v <= 0 {
			return nil, nil, NewValidationError("maxDuration", "maxDuration must be a positive minute count")
		}
		state.MaxDuration = &v
		active = true
	}

	var filters *FilterState
	if active {
		filters = &state
	}

	var sortOpts *SortOptions
	if q.SortBy != "" {
		if !ValidSortKey(q.SortBy) {
			return nil, nil, NewValidationError("sortBy", "sortBy must be one of price, duration, departure, arrival, stops")
		}
		order := q.SortOrder
		if order == "" {
			order = OrderAsc
		}
		if order != OrderAsc && order != OrderDesc {
			return nil, nil, NewValidationError("sortOrder", "sortOrder must be asc or desc")
		}
		sortOpts = &SortOptions{By: q.SortBy, Order: order}
	}

	return filters, sortOpts, nil
}

func writeRateHeaders(c *gin.Context, s *Service) {
	st := s.RateStatus()
	remaining := st.Quota - st.Used
	if remaining < 0 {
		remaining = 0
	}
	c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
	c.Header("X-RateLimit-Reset", fmt.Sprintf("%d", st.Reset.Milliseconds()))
}

// WriteError maps an error onto its HTTP response. Anything outside the
// AppError taxonomy is an unexpected internal failure with detail suppressed.
func WriteError(c *gin.Context, err error) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		body := gin.H{
			"success": false,
			"error":   appErr.Message,
			"code":    appErr.Code,
		}
		if appErr.Field != "" {
			body["field"] = appErr.Field
		}
		c.JSON(appErr.Status, body)
		return
	}

	c.JSON(http.StatusInternalServerError, gin.H{
		"success": false,
		"error":   "internal server error",
		"code":    ErrorCodeInternalFailure,
	})
}
