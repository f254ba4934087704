package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	types "github.com/yungbote/storefront-backend/internal/domain"
	"github.com/yungbote/storefront-backend/internal/http/response"
	"github.com/yungbote/storefront-backend/internal/services"
)

// itemService is the shape shared by the cart and order line services.
type itemService[T any] interface {
	List(ctx context.Context, parentID uint) ([]*T, error)
	Get(ctx context.Context, id uint) (*T, error)
	Create(ctx context.Context, in services.ItemInput) (*T, error)
	SetQuantity(ctx context.Context, id uint, quantity int) (*T, error)
	Delete(ctx context.Context, id uint) error
}

// ItemHandler serves cart-items and order-items. parentField names the
// parent id in query strings and bodies ("cart_id" or "order_id").
type ItemHandler[T any] struct {
	items       itemService[T]
	parentField string
}

func NewCartItemHandler(items services.CartItemService) *ItemHandler[types.CartItem] {
	return &ItemHandler[types.CartItem]{items: items, parentField: "cart_id"}
}

func NewOrderItemHandler(items services.OrderItemService) *ItemHandler[types.OrderItem] {
	return &ItemHandler[types.OrderItem]{items: items, parentField: "order_id"}
}

type itemRequest struct {
	CartID    uint `json:"cart_id"`
	OrderID   uint `json:"order_id"`
	ProductID uint `json:"product_id"`
	Quantity  int  `json:"quantity"`
}

func (r itemRequest) parent(field string) uint {
	if field == "order_id" {
		return r.OrderID
	}
	return r.CartID
}

func (h *ItemHandler[T]) List(c *gin.Context) {
	var parentID uint
	if raw := strings.TrimSpace(c.Query(h.parentField)); raw != "" {
		v, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_request", fmt.Errorf("invalid %s: %q", h.parentField, raw))
			return
		}
		parentID = uint(v)
	}
	out, err := h.items.List(c.Request.Context(), parentID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, out)
}

func (h *ItemHandler[T]) Get(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	out, err := h.items.Get(c.Request.Context(), id)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, out)
}

func (h *ItemHandler[T]) Create(c *gin.Context) {
	var req itemRequest
	if !bindJSON(c, &req) {
		return
	}
	out, err := h.items.Create(c.Request.Context(), services.ItemInput{
		ParentID:  req.parent(h.parentField),
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
	})
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondCreated(c, out)
}

func (h *ItemHandler[T]) Update(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	var req struct {
		Quantity int `json:"quantity"`
	}
	if !bindJSON(c, &req) {
		return
	}
	out, err := h.items.SetQuantity(c.Request.Context(), id, req.Quantity)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, out)
}

func (h *ItemHandler[T]) Delete(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	if err := h.items.Delete(c.Request.Context(), id); err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondNoContent(c)
}
