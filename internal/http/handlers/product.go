package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/yungbote/storefront-backend/internal/http/response"
	"github.com/yungbote/storefront-backend/internal/services"
)

type ProductHandler struct {
	products services.ProductService
}

func NewProductHandler(products services.ProductService) *ProductHandler {
	return &ProductHandler{products: products}
}

type productRequest struct {
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Featured    bool            `json:"featured"`
	ImageURL    string          `json:"image_url"`
	CategoryIDs []uint          `json:"category_ids"`
}

func (r productRequest) input() services.ProductInput {
	return services.ProductInput{
		Name:        r.Name,
		Price:       r.Price,
		Featured:    r.Featured,
		ImageURL:    r.ImageURL,
		CategoryIDs: r.CategoryIDs,
	}
}

// productView adds the category ids hidden on the model.
type productView struct {
	ID          uint            `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Featured    bool            `json:"featured"`
	ImageURL    string          `json:"image_url"`
	CategoryIDs []uint          `json:"category_ids"`
	Categories  []string        `json:"categories"`
}

func (h *ProductHandler) List(c *gin.Context) {
	out, err := h.products.List(c.Request.Context())
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, productViews(out))
}

func (h *ProductHandler) ListByCategory(c *gin.Context) {
	out, err := h.products.ListByCategoryName(c.Request.Context(), c.Query("category_name"))
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, productViews(out))
}

func (h *ProductHandler) Get(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	out, err := h.products.Get(c.Request.Context(), id)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, newProductView(out))
}

func (h *ProductHandler) Create(c *gin.Context) {
	var req productRequest
	if !bindJSON(c, &req) {
		return
	}
	out, err := h.products.Create(c.Request.Context(), req.input())
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondCreated(c, newProductView(out))
}

func (h *ProductHandler) Update(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	var req productRequest
	if !bindJSON(c, &req) {
		return
	}
	out, err := h.products.Update(c.Request.Context(), id, req.input())
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, newProductView(out))
}

func (h *ProductHandler) Delete(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	if err := h.products.Delete(c.Request.Context(), id); err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondNoContent(c)
}
