package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"nft-market.backend/internal/domain/entities"
	domainerrors "nft-market.backend/internal/domain/errors"
	"nft-market.backend/internal/domain/repositories"
	"nft-market.backend/internal/interfaces/http/middleware"
	"nft-market.backend/internal/interfaces/http/response"
	"nft-market.backend/internal/usecases"
	"nft-market.backend/pkg/utils"
)

// ReceiptReader reports the on-chain outcome of a submitted transaction.
type ReceiptReader interface {
	TxStatus(ctx context.Context, txHash string) (*usecases.TxStatus, error)
}

// AttemptHandler serves the transaction attempt history of the connected
// account
type AttemptHandler struct {
	attemptRepo repositories.AttemptRepository
	receipts    ReceiptReader
}

// NewAttemptHandler creates a new attempt handler
func NewAttemptHandler(attemptRepo repositories.AttemptRepository, receipts ReceiptReader) *AttemptHandler {
	return &AttemptHandler{
		attemptRepo: attemptRepo,
		receipts:    receipts,
	}
}

// List returns the attempt audit trail for the connected account
// GET /api/v1/attempts
func (h *AttemptHandler) List(c *gin.Context) {
	address, ok := middleware.GetConnectedAddress(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("Account not connected"))
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}

	attempts, total, err := h.attemptRepo.GetByAddress(c.Request.Context(), address, limit, (page-1)*limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	totalPages := (total + limit - 1) / limit

	response.Success(c, http.StatusOK, gin.H{
		"attempts": attempts,
		"pagination": gin.H{
			"page":       page,
			"limit":      limit,
			"total":      total,
			"totalPages": totalPages,
		},
	})
}

// Get returns one audit row of the connected account. For sent attempts the
// response carries the receipt outcome when the chain answers; a failed
// receipt lookup drops the receipt, never the row.
// GET /api/v1/attempts/:id
func (h *AttemptHandler) Get(c *gin.Context) {
	address, ok := middleware.GetConnectedAddress(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("Account not connected"))
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid attempt id"))
		return
	}

	attempt, err := h.attemptRepo.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			response.Error(c, domainerrors.NotFound("Attempt not found"))
			return
		}
		response.Error(c, err)
		return
	}
	if !utils.SameAddress(attempt.FromAddress, address) {
		response.Error(c, domainerrors.NotFound("Attempt not found"))
		return
	}

	payload := gin.H{"attempt": attempt}
	if attempt.State == entities.AttemptStateSent && attempt.TxHash.Valid && h.receipts != nil {
		if receipt, err := h.receipts.TxStatus(c.Request.Context(), attempt.TxHash.String); err == nil {
			payload["receipt"] = receipt
		}
	}

	response.Success(c, http.StatusOK, payload)
}
