package handler

import (
	"errors"
	"net/http"

	"counterpos/internal/apierror"
	"counterpos/internal/dto"
	"counterpos/internal/service"

	"github.com/gin-gonic/gin"
)

// CartHandler works on the authenticated operator's cart only; the
// operator id always comes from the JWT, never from the request body.
type CartHandler struct{ svc service.CartService }

func NewCartHandler(svc service.CartService) *CartHandler { return &CartHandler{svc: svc} }

func (h *CartHandler) Get(c *gin.Context) {
	opID, ok := operatorID(c)
	if !ok {
		return
	}
	resp, err := h.svc.Get(c.Request.Context(), opID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("failed to load cart"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CartHandler) AddItem(c *gin.Context) {
	opID, ok := operatorID(c)
	if !ok {
		return
	}
	var req dto.AddCartItemRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AddItem(c.Request.Context(), opID, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProductNotFound):
			c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		case errors.Is(err, service.ErrOutOfStock):
			c.JSON(http.StatusConflict, apierror.New(err.Error()))
		default:
			c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		}
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CartHandler) UpdateItem(c *gin.Context) {
	opID, ok := operatorID(c)
	if !ok {
		return
	}
	itemID, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.UpdateCartItemRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.UpdateItem(c.Request.Context(), opID, itemID, req.Op)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CartHandler) RemoveItem(c *gin.Context) {
	opID, ok := operatorID(c)
	if !ok {
		return
	}
	itemID, ok := pathID(c)
	if !ok {
		return
	}
	resp, err := h.svc.RemoveItem(c.Request.Context(), opID, itemID)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CartHandler) Clear(c *gin.Context) {
	opID, ok := operatorID(c)
	if !ok {
		return
	}
	if err := h.svc.Clear(c.Request.Context(), opID); err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("failed to clear cart"))
		return
	}
	c.Status(http.StatusNoContent)
}
