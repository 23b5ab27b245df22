package handler

import (
	"net/http"

	"counterpos/internal/apierror"
	"counterpos/internal/dto"
	"counterpos/internal/service"

	"github.com/gin-gonic/gin"
)

// InventoryHandler exposes the stock views that are not product CRUD:
// low-stock alerts and the movement audit trail.
type InventoryHandler struct{ svc service.InventoryService }

func NewInventoryHandler(svc service.InventoryService) *InventoryHandler {
	return &InventoryHandler{svc: svc}
}

func (h *InventoryHandler) Alerts(c *gin.Context) {
	resp, err := h.svc.Alerts(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("failed to load stock alerts"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *InventoryHandler) Movements(c *gin.Context) {
	var filter dto.MovementFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	movements, total, err := h.svc.Movements(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("failed to load stock movements"))
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"data":  movements,
		"total": total,
		"page":  filter.Page,
		"limit": filter.Limit,
	})
}
