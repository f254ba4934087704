package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/storefront-backend/internal/http/response"
	"github.com/yungbote/storefront-backend/internal/services"
)

type ProductCategoryHandler struct {
	links services.ProductCategoryService
}

func NewProductCategoryHandler(links services.ProductCategoryService) *ProductCategoryHandler {
	return &ProductCategoryHandler{links: links}
}

func (h *ProductCategoryHandler) List(c *gin.Context) {
	out, err := h.links.List(c.Request.Context())
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, out)
}

func (h *ProductCategoryHandler) Add(c *gin.Context) {
	var req struct {
		ProductID  uint `json:"product_id"`
		CategoryID uint `json:"category_id"`
	}
	if !bindJSON(c, &req) {
		return
	}
	out, err := h.links.Add(c.Request.Context(), req.ProductID, req.CategoryID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondCreated(c, out)
}

// Remove handles DELETE /product-categories/:product_id/:category_id.
func (h *ProductCategoryHandler) Remove(c *gin.Context) {
	productID, ok := uintParam(c, "product_id")
	if !ok {
		return
	}
	categoryID, ok := uintParam(c, "category_id")
	if !ok {
		return
	}
	if err := h.links.Remove(c.Request.Context(), productID, categoryID); err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondNoContent(c)
}
