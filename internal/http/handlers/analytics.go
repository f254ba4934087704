package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/storefront-backend/internal/http/response"
	"github.com/yungbote/storefront-backend/internal/services"
)

const (
	defaultTopProducts = 10
	maxTopProducts     = 100
)

type AnalyticsHandler struct {
	analytics services.AnalyticsService
}

func NewAnalyticsHandler(analytics services.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics}
}

// query reads category_id, start_date and end_date. Date-only values are
// midnight UTC and the range is compared against raw order timestamps.
func (h *AnalyticsHandler) query(c *gin.Context) (services.AnalyticsQuery, bool) {
	var q services.AnalyticsQuery
	var ok bool
	if q.CategoryID, ok = optionalUintQuery(c, "category_id"); !ok {
		return q, false
	}
	if q.Start, ok = optionalTimeQuery(c, "start_date"); !ok {
		return q, false
	}
	if q.End, ok = optionalTimeQuery(c, "end_date"); !ok {
		return q, false
	}
	if q.Start != nil && q.End != nil && q.End.Before(*q.Start) {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", fmt.Errorf("end_date is before start_date"))
		return q, false
	}
	return q, true
}

func (h *AnalyticsHandler) OrdersOverTime(c *gin.Context) {
	q, ok := h.query(c)
	if !ok {
		return
	}
	out, err := h.analytics.OrdersOverTime(c.Request.Context(), q)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, out)
}

func (h *AnalyticsHandler) RevenueOverTime(c *gin.Context) {
	q, ok := h.query(c)
	if !ok {
		return
	}
	out, err := h.analytics.RevenueOverTime(c.Request.Context(), q)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, out)
}

func (h *AnalyticsHandler) OrdersByCategory(c *gin.Context) {
	q, ok := h.query(c)
	if !ok {
		return
	}
	out, err := h.analytics.OrdersByCategory(c.Request.Context(), q)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, out)
}

func (h *AnalyticsHandler) AovByCategory(c *gin.Context) {
	q, ok := h.query(c)
	if !ok {
		return
	}
	out, err := h.analytics.AovByCategory(c.Request.Context(), q)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, out)
}

func (h *AnalyticsHandler) TopProducts(c *gin.Context) {
	q, ok := h.query(c)
	if !ok {
		return
	}
	q.Limit = defaultTopProducts
	if raw := strings.TrimSpace(c.Query("limit")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			response.RespondError(c, http.StatusBadRequest, "invalid_request", fmt.Errorf("invalid limit: %q", raw))
			return
		}
		q.Limit = min(n, maxTopProducts)
	}
	out, err := h.analytics.TopSellingProducts(c.Request.Context(), q)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, out)
}
