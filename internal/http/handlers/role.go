package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/storefront-backend/internal/http/response"
	"github.com/yungbote/storefront-backend/internal/services"
)

type RoleHandler struct {
	roles services.RoleService
}

func NewRoleHandler(roles services.RoleService) *RoleHandler {
	return &RoleHandler{roles: roles}
}

type roleRequest struct {
	Name string `json:"name"`
}

func (h *RoleHandler) List(c *gin.Context) {
	out, err := h.roles.List(c.Request.Context())
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, out)
}

func (h *RoleHandler) Get(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	out, err := h.roles.Get(c.Request.Context(), id)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, out)
}

func (h *RoleHandler) Create(c *gin.Context) {
	var req roleRequest
	if !bindJSON(c, &req) {
		return
	}
	out, err := h.roles.Create(c.Request.Context(), req.Name)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondCreated(c, out)
}

func (h *RoleHandler) Rename(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	var req roleRequest
	if !bindJSON(c, &req) {
		return
	}
	out, err := h.roles.Rename(c.Request.Context(), id, req.Name)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, out)
}

func (h *RoleHandler) Delete(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	if err := h.roles.Delete(c.Request.Context(), id); err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondNoContent(c)
}

func (h *RoleHandler) Assign(c *gin.Context) {
	var req struct {
		CustomerID string `json:"customer_id"`
		Role       string `json:"role"`
	}
	if !bindJSON(c, &req) {
		return
	}
	customerID, ok := optionalUUID(c, "customer_id", req.CustomerID)
	if !ok {
		return
	}
	if err := h.roles.Assign(c.Request.Context(), customerID, req.Role); err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}
