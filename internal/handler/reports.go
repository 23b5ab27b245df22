package handler

import (
	"net/http"
	"strconv"

	"counterpos/internal/apierror"
	"counterpos/internal/dto"
	"counterpos/internal/service"

	"github.com/gin-gonic/gin"
)

type ReportsHandler struct{ svc service.ReportService }

func NewReportsHandler(svc service.ReportService) *ReportsHandler {
	return &ReportsHandler{svc: svc}
}

func (h *ReportsHandler) Summary(c *gin.Context) {
	var filter dto.ReportFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.Summary(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("failed to build sales summary"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ReportsHandler) TopProducts(c *gin.Context) {
	var filter dto.ReportFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || limit < 1 || limit > 100 {
		limit = 10
	}
	resp, err := h.svc.TopProducts(c.Request.Context(), filter, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("failed to build top products report"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ReportsHandler) Valuation(c *gin.Context) {
	resp, err := h.svc.Valuation(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("failed to value inventory"))
		return
	}
	c.JSON(http.StatusOK, resp)
}
