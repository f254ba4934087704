package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/storefront-backend/internal/platform/ctxutil"
)

func TestAttachTraceContext(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var seen *ctxutil.TraceData
	r := gin.New()
	r.Use(AttachTraceContext())
	r.GET("/ping", func(c *gin.Context) {
		seen = ctxutil.GetTraceData(c.Request.Context())
		c.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(headerRequestID, "req-123")
	req.Header.Set(headerTraceID, strings.Repeat("x", maxInboundIDLength+1))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if seen == nil {
		t.Fatalf("trace data not attached")
	}
	if seen.RequestID != "req-123" || rec.Header().Get(headerRequestID) != "req-123" {
		t.Fatalf("request id not propagated: ctx=%q header=%q", seen.RequestID, rec.Header().Get(headerRequestID))
	}
	if seen.TraceID == "" || len(seen.TraceID) > maxInboundIDLength {
		t.Fatalf("oversized inbound trace id should be replaced, got %q", seen.TraceID)
	}
	if rec.Header().Get(headerTraceID) != seen.TraceID {
		t.Fatalf("trace header mismatch")
	}
}
