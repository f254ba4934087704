package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/yungbote/storefront-backend/internal/http/response"
	"github.com/yungbote/storefront-backend/internal/services"
)

type CartHandler struct {
	carts services.CartService
}

func NewCartHandler(carts services.CartService) *CartHandler {
	return &CartHandler{carts: carts}
}

type cartRequest struct {
	CustomerID string           `json:"customer_id"`
	Price      *decimal.Decimal `json:"price"`
	Items      []lineRequest    `json:"items"`
}

func (h *CartHandler) input(c *gin.Context) (services.CartInput, bool) {
	var req cartRequest
	if !bindJSON(c, &req) {
		return services.CartInput{}, false
	}
	customerID, ok := optionalUUID(c, "customer_id", req.CustomerID)
	if !ok {
		return services.CartInput{}, false
	}
	return services.CartInput{CustomerID: customerID, Price: req.Price, Items: toLines(req.Items)}, true
}

func (h *CartHandler) List(c *gin.Context) {
	out, err := h.carts.List(c.Request.Context())
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, out)
}

func (h *CartHandler) Get(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	out, err := h.carts.Get(c.Request.Context(), id)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, out)
}

func (h *CartHandler) Create(c *gin.Context) {
	in, ok := h.input(c)
	if !ok {
		return
	}
	out, err := h.carts.Create(c.Request.Context(), in)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondCreated(c, out)
}

// Replace updates the cart header. Lines are reconciled only when the body
// carries "items".
func (h *CartHandler) Replace(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	in, ok := h.input(c)
	if !ok {
		return
	}
	out, err := h.carts.Replace(c.Request.Context(), id, in)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, out)
}

func (h *CartHandler) Delete(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	if err := h.carts.Delete(c.Request.Context(), id); err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondNoContent(c)
}
