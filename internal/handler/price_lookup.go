package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"counterpos/internal/apierror"
	"counterpos/internal/dto"
	"counterpos/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// Short TTL: the lookup tolerates a few minutes of staleness but a sold-out
// product should not advertise itself for hours.
const priceCacheTTL = 5 * time.Minute

// PriceLookupHandler serves the public barcode price check.
// No authentication, no side effects.
type PriceLookupHandler struct {
	productRepo  repository.ProductRepository
	settingsRepo repository.SettingsRepository
	rdb          *redis.Client
}

func NewPriceLookupHandler(productRepo repository.ProductRepository, settingsRepo repository.SettingsRepository, rdb *redis.Client) *PriceLookupHandler {
	return &PriceLookupHandler{productRepo: productRepo, settingsRepo: settingsRepo, rdb: rdb}
}

// GetByBarcode godoc
// @Summary Price check by barcode (no authentication)
// @Tags price
// @Produce json
// @Param barcode path string true "Barcode"
// @Success 200 {object} dto.PriceLookupResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/price/{barcode} [get]
func (h *PriceLookupHandler) GetByBarcode(c *gin.Context) {
	barcode := c.Param("barcode")
	ctx := c.Request.Context()
	cacheKey := "price:" + barcode

	if cached, err := h.rdb.Get(ctx, cacheKey).Bytes(); err == nil {
		var resp dto.PriceLookupResponse
		if jsonErr := json.Unmarshal(cached, &resp); jsonErr == nil {
			c.JSON(http.StatusOK, resp)
			return
		}
	}

	product, err := h.productRepo.FindByBarcode(ctx, barcode)
	if err != nil || !product.Active {
		c.JSON(http.StatusNotFound, apierror.New("product not found"))
		return
	}

	threshold := 5
	if settings, err := h.settingsRepo.Get(ctx); err == nil {
		threshold = settings.LowStockThreshold
	}

	resp := dto.PriceLookupResponse{
		Name:          product.Name,
		UnitPrice:     product.UnitPrice,
		DiscountType:  product.DiscountType,
		DiscountValue: product.DiscountValue,
		Status:        product.Status(threshold),
	}

	// populate cache best effort
	if b, jsonErr := json.Marshal(resp); jsonErr == nil {
		_ = h.rdb.Set(context.Background(), cacheKey, b, priceCacheTTL).Err()
	}

	c.JSON(http.StatusOK, resp)
}
