package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"nft-market.backend/internal/interfaces/http/middleware"
	"nft-market.backend/internal/interfaces/http/response"
	"nft-market.backend/internal/usecases"
)

// CatalogHandler serves the marketplace and panel catalog projections
type CatalogHandler struct {
	catalogUsecase *usecases.CatalogUsecase
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(catalogUsecase *usecases.CatalogUsecase) *CatalogHandler {
	return &CatalogHandler{
		catalogUsecase: catalogUsecase,
	}
}

// ListMarketplace lists every catalog entry with ownership resolved against
// the connected account, if any
// GET /api/v1/nfts
func (h *CatalogHandler) ListMarketplace(c *gin.Context) {
	address, _ := middleware.GetConnectedAddress(c)

	views, err := h.catalogUsecase.ListMarketplace(c.Request.Context(), address)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"nfts": views,
	})
}

// ListOwned lists the entries the connected account owns on-chain
// GET /api/v1/nfts/owned
func (h *CatalogHandler) ListOwned(c *gin.Context) {
	address, _ := middleware.GetConnectedAddress(c)

	views, err := h.catalogUsecase.ListOwned(c.Request.Context(), address)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"nfts": views,
	})
}

// Get returns one catalog entry by id
// GET /api/v1/nfts/:id
func (h *CatalogHandler) Get(c *gin.Context) {
	address, _ := middleware.GetConnectedAddress(c)

	view, err := h.catalogUsecase.Get(c.Request.Context(), c.Param("id"), address)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, view)
}
