package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	domainerrors "nft-market.backend/internal/domain/errors"
	"nft-market.backend/internal/interfaces/http/middleware"
	"nft-market.backend/internal/interfaces/http/response"
	"nft-market.backend/internal/usecases"
)

// PurchaseHandler drives the buy flow for minted tokens
type PurchaseHandler struct {
	purchaseUsecase *usecases.PurchaseUsecase
}

// NewPurchaseHandler creates a new purchase handler
func NewPurchaseHandler(purchaseUsecase *usecases.PurchaseUsecase) *PurchaseHandler {
	return &PurchaseHandler{
		purchaseUsecase: purchaseUsecase,
	}
}

// Open starts a purchase attempt for a minted token
// POST /api/v1/purchases
func (h *PurchaseHandler) Open(c *gin.Context) {
	var input struct {
		NFTID string `json:"nftId" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	address, _ := middleware.GetConnectedAddress(c)
	attempt, err := h.purchaseUsecase.Open(c.Request.Context(), input.NFTID, address)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, attempt)
}

// Confirm estimates and submits the purchase
// POST /api/v1/purchases/:id/confirm
func (h *PurchaseHandler) Confirm(c *gin.Context) {
	attemptID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid attempt id"))
		return
	}

	attempt, err := h.purchaseUsecase.Confirm(c.Request.Context(), attemptID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, attempt)
}

// Get returns the current state of a purchase attempt
// GET /api/v1/purchases/:id
func (h *PurchaseHandler) Get(c *gin.Context) {
	attemptID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid attempt id"))
		return
	}

	attempt, err := h.purchaseUsecase.Get(c.Request.Context(), attemptID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, attempt)
}

// Close discards the attempt
// DELETE /api/v1/purchases/:id
func (h *PurchaseHandler) Close(c *gin.Context) {
	attemptID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid attempt id"))
		return
	}

	h.purchaseUsecase.Close(c.Request.Context(), attemptID)
	response.Success(c, http.StatusOK, gin.H{
		"message": "Attempt closed",
	})
}
