package airport

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"skysearch/internal/flight"
	"skysearch/pkg/logger"
)

const (
	maxQueryLen  = 100
	defaultLimit = 10
	maxLimit     = 50
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
	router.GET("/airports", h.SearchAirports)
	router.DELETE("/airports", h.ClearCache)
	router.HEAD("/airports", h.Head)
	router.OPTIONS("/airports", h.Options)
}

type airportQuery struct {
	Q     string `form:"q"`
	Limit int    `form:"limit"`
}

// SearchAirports godoc
// @Summary      Airport autocomplete
// @Description  Rank airports matching a free-text query by code, city and name
// @Tags         airports
// @Produce      json
// @Param        q     query string true  "Search text (1-100 chars)"
// @Param        limit query int    false "Result limit (1-50, default 10)"
// @Success      200 {object} map[string]interface{}
// @Failure      400 {object} map[string]interface{}
// @Router       /airports [get]
func (h *Handler) SearchAirports(c *gin.Context) {
	var q airportQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		flight.WriteError(c, flight.NewValidationError("", "invalid query parameters: "+err.Error()))
		return
	}

	query := strings.TrimSpace(q.Q)
	if query == "" || len(query) > maxQueryLen {
		flight.WriteError(c, flight.NewValidationError("q", "q must be between 1 and 100 characters"))
		return
	}

	limit := q.Limit
	if limit == 0 {
		limit = defaultLimit
	}
	if limit < 1 || limit > maxLimit {
		flight.WriteError(c, flight.NewValidationError("limit", "limit must be between 1 and 50"))
		return
	}

	airports, cached, err := h.service.Search(c.Request.Context(), query, limit)
	if err != nil {
		// Autocomplete never hard-fails the UI: anything besides quota and
		// timeout rejections degrades to an empty result set.
		var appErr *flight.AppError
		if errors.As(err, &appErr) &&
			(appErr.Code == flight.ErrorCodeRateLimited || appErr.Code == flight.ErrorCodeTimeout) {
			flight.WriteError(c, err)
			return
		}
		h.logger.Error("airport search degraded to empty", logger.Err(err),
			logger.Field{Key: "query", Value: query})
		airports = []Airport{}
	}

	if airports == nil {
		airports = []Airport{}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    airports,
		"meta": gin.H{
			"count":  len(airports),
			"cached": cached,
			"query":  query,
			"limit":  limit,
		},
	})
}

// ClearCache godoc
// @Summary      Clear the airport autocomplete cache
// @Tags         airports
// @Produce      json
// @Success      200 {object} map[string]interface{}
// @Router       /airports [delete]
func (h *Handler) ClearCache(c *gin.Context) {
	h.service.ClearCache()
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "airport cache cleared",
	})
}

func (h *Handler) Head(c *gin.Context) {
	c.Status(http.StatusOK)
}

func (h *Handler) Options(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
