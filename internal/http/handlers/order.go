package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/yungbote/storefront-backend/internal/http/response"
	"github.com/yungbote/storefront-backend/internal/services"
)

type OrderHandler struct {
	orders services.OrderService
}

func NewOrderHandler(orders services.OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

type orderRequest struct {
	CustomerID string           `json:"customer_id"`
	Price      *decimal.Decimal `json:"price"`
	OrderDate  string           `json:"order_date"`
	Items      []lineRequest    `json:"items"`
}

func (h *OrderHandler) input(c *gin.Context) (services.OrderInput, bool) {
	var req orderRequest
	if !bindJSON(c, &req) {
		return services.OrderInput{}, false
	}
	customerID, ok := optionalUUID(c, "customer_id", req.CustomerID)
	if !ok {
		return services.OrderInput{}, false
	}
	in := services.OrderInput{CustomerID: customerID, Price: req.Price, Items: toLines(req.Items)}
	if raw := strings.TrimSpace(req.OrderDate); raw != "" {
		t, err := parseTime(raw)
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_request", fmt.Errorf("invalid order_date: %q", raw))
			return services.OrderInput{}, false
		}
		in.OrderDate = &t
	}
	return in, true
}

func (h *OrderHandler) List(c *gin.Context) {
	out, err := h.orders.List(c.Request.Context())
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, out)
}

func (h *OrderHandler) Get(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	out, err := h.orders.Get(c.Request.Context(), id)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, out)
}

func (h *OrderHandler) Create(c *gin.Context) {
	in, ok := h.input(c)
	if !ok {
		return
	}
	out, err := h.orders.Create(c.Request.Context(), in)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondCreated(c, out)
}

func (h *OrderHandler) Replace(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	in, ok := h.input(c)
	if !ok {
		return
	}
	out, err := h.orders.Replace(c.Request.Context(), id, in)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, out)
}

func (h *OrderHandler) Delete(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	if err := h.orders.Delete(c.Request.Context(), id); err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondNoContent(c)
}

