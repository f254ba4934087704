package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	domainagg "github.com/yungbote/storefront-backend/internal/domain/aggregates"
	"github.com/yungbote/storefront-backend/internal/http/response"
)

// lineRequest is one cart or order line in a request body.
type lineRequest struct {
	ProductID uint `json:"product_id"`
	Quantity  int  `json:"quantity"`
}

// toLines keeps nil apart from empty: a body without "items" leaves stored
// lines alone on replace, while "items": [] clears them.
func toLines(in []lineRequest) []domainagg.LineInput {
	if in == nil {
		return nil
	}
	out := make([]domainagg.LineInput, 0, len(in))
	for _, l := range in {
		out = append(out, domainagg.LineInput{ProductID: l.ProductID, Quantity: l.Quantity})
	}
	return out
}

func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return false
	}
	return true
}

func uintParam(c *gin.Context, name string) (uint, bool) {
	raw := strings.TrimSpace(c.Param(name))
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", fmt.Errorf("invalid %s: %q", name, raw))
		return 0, false
	}
	return uint(id), true
}

func uuidParam(c *gin.Context, name string) (uuid.UUID, bool) {
	raw := strings.TrimSpace(c.Param(name))
	id, err := uuid.Parse(raw)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", fmt.Errorf("invalid %s: %q", name, raw))
		return uuid.Nil, false
	}
	return id, true
}

// optionalUUID parses an optional id from a request body.
func optionalUUID(c *gin.Context, field, raw string) (uuid.UUID, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return uuid.Nil, true
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", fmt.Errorf("invalid %s: %q", field, raw))
		return uuid.Nil, false
	}
	return id, true
}

func optionalUintQuery(c *gin.Context, name string) (*uint, bool) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, true
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", fmt.Errorf("invalid %s: %q", name, raw))
		return nil, false
	}
	id := uint(v)
	return &id, true
}

// parseTime accepts RFC3339 timestamps and bare YYYY-MM-DD dates (midnight UTC).
func parseTime(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return t, nil
	}
	return time.Parse(time.DateOnly, raw)
}

func optionalTimeQuery(c *gin.Context, name string) (*time.Time, bool) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, true
	}
	t, err := parseTime(raw)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", fmt.Errorf("invalid %s: %q (want RFC3339 or YYYY-MM-DD)", name, raw))
		return nil, false
	}
	return &t, true
}
