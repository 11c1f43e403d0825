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

// TransferHandler drives the send-to-address flow
type TransferHandler struct {
	transferUsecase *usecases.TransferUsecase
}

// NewTransferHandler creates a new transfer handler
func NewTransferHandler(transferUsecase *usecases.TransferUsecase) *TransferHandler {
	return &TransferHandler{
		transferUsecase: transferUsecase,
	}
}

// Open starts a transfer attempt for an owned token
// POST /api/v1/transfers
func (h *TransferHandler) Open(c *gin.Context) {
	var input struct {
		NFTID string `json:"nftId" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	address, _ := middleware.GetConnectedAddress(c)
	attempt, err := h.transferUsecase.Open(c.Request.Context(), input.NFTID, address)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, attempt)
}

// SetDestination records the recipient address and moves the attempt to the
// confirmation step
// PUT /api/v1/transfers/:id/destination
func (h *TransferHandler) SetDestination(c *gin.Context) {
	attemptID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid attempt id"))
		return
	}

	var input struct {
		ToAddress string `json:"toAddress" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	attempt, err := h.transferUsecase.SetDestination(c.Request.Context(), attemptID, input.ToAddress)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, attempt)
}

// Confirm estimates and submits the transfer
// POST /api/v1/transfers/:id/confirm
func (h *TransferHandler) Confirm(c *gin.Context) {
	attemptID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid attempt id"))
		return
	}

	attempt, err := h.transferUsecase.Confirm(c.Request.Context(), attemptID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, attempt)
}

// Get returns the current state of a transfer attempt
// GET /api/v1/transfers/:id
func (h *TransferHandler) Get(c *gin.Context) {
	attemptID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid attempt id"))
		return
	}

	attempt, err := h.transferUsecase.Get(c.Request.Context(), attemptID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, attempt)
}

// Close discards the attempt. An in-flight estimate keeps running but its
// result is thrown away.
// DELETE /api/v1/transfers/:id
func (h *TransferHandler) Close(c *gin.Context) {
	attemptID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid attempt id"))
		return
	}

	h.transferUsecase.Close(c.Request.Context(), attemptID)
	response.Success(c, http.StatusOK, gin.H{
		"message": "Attempt closed",
	})
}
