package handler

import (
	"net/http"
	"os"

	"counterpos/internal/apierror"
	"counterpos/internal/dto"
	"counterpos/internal/infra"
	"counterpos/internal/repository"
	"counterpos/internal/service"

	"github.com/gin-gonic/gin"
)

type CheckoutHandler struct{ svc service.CheckoutService }

func NewCheckoutHandler(svc service.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{svc: svc}
}

// Commit godoc
// @Summary Commit the operator's cart as a sale
// @Tags checkout
// @Accept json
// @Produce json
// @Param body body dto.CheckoutRequest true "Payment details"
// @Success 201 {object} dto.SaleResponse
// @Success 204 "Cart was empty, nothing recorded"
// @Failure 422 {object} apierror.ValidationError
// @Router /v1/checkout [post]
func (h *CheckoutHandler) Commit(c *gin.Context) {
	opID, ok := operatorID(c)
	if !ok {
		return
	}
	var req dto.CheckoutRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Commit(c.Request.Context(), opID, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	if resp == nil {
		// empty cart: nothing was sold, nothing to return
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ── Sales ledger ─────────────────────────────────────────────────────────────

type SalesHandler struct {
	svc         service.SalesService
	saleRepo    repository.SaleRepository
	storeName   string
	storagePath string
}

func NewSalesHandler(svc service.SalesService, saleRepo repository.SaleRepository, storeName, storagePath string) *SalesHandler {
	return &SalesHandler{svc: svc, saleRepo: saleRepo, storeName: storeName, storagePath: storagePath}
}

func (h *SalesHandler) List(c *gin.Context) {
	var filter dto.SaleFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("failed to list sales"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *SalesHandler) GetByID(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	resp, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New("sale not found"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Receipt streams the sale's receipt as a PDF, rendered on demand.
func (h *SalesHandler) Receipt(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	sale, err := h.saleRepo.FindByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New("sale not found"))
		return
	}

	pdfPath, err := infra.GenerateReceiptPDF(sale, h.storeName, h.storagePath)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("failed to render receipt"))
		return
	}
	defer os.Remove(pdfPath)

	c.Header("Content-Type", "application/pdf")
	c.FileAttachment(pdfPath, "receipt.pdf")
}
