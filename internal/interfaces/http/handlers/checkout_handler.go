package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"nft-market.backend/internal/domain/entities"
	domainerrors "nft-market.backend/internal/domain/errors"
	"nft-market.backend/internal/interfaces/http/middleware"
	"nft-market.backend/internal/interfaces/http/response"
	"nft-market.backend/internal/usecases"
)

// CheckoutHandler serves the fiat checkout for lazy-mint entries
type CheckoutHandler struct {
	checkoutUsecase *usecases.CheckoutUsecase
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(checkoutUsecase *usecases.CheckoutUsecase) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutUsecase: checkoutUsecase,
	}
}

// Create signs a lazy-mint checkout for the connected buyer
// POST /api/v1/checkouts
func (h *CheckoutHandler) Create(c *gin.Context) {
	var input struct {
		NFTID string `json:"nftId" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	address, _ := middleware.GetConnectedAddress(c)
	checkout, err := h.checkoutUsecase.CreateCheckout(c.Request.Context(), input.NFTID, address)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, checkout)
}

// Close discards the cached checkout payload for an NFT
// DELETE /api/v1/checkouts/:nftId
func (h *CheckoutHandler) Close(c *gin.Context) {
	address, _ := middleware.GetConnectedAddress(c)
	h.checkoutUsecase.CloseCheckout(address, c.Param("nftId"))
	response.Success(c, http.StatusOK, gin.H{
		"message": "Checkout closed",
	})
}

// PaymentStatus ingests a status event from the payment widget. Unknown
// statuses are acknowledged and dropped.
// POST /api/v1/checkouts/payment-status
func (h *CheckoutHandler) PaymentStatus(c *gin.Context) {
	var input struct {
		NFTID  string `json:"nftId" binding:"required"`
		Status string `json:"status" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	address, _ := middleware.GetConnectedAddress(c)
	result := h.checkoutUsecase.HandlePaymentStatus(c.Request.Context(), input.NFTID, address, entities.PaymentStatus(input.Status))

	response.Success(c, http.StatusOK, result)
}
