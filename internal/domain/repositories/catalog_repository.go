package repositories

import (
	"context"

	"nft-market.backend/internal/domain/entities"
)

// CatalogRepository defines read access to the fixed NFT catalog
type CatalogRepository interface {
	List(ctx context.Context) ([]*entities.NFTRecord, error)
	GetByID(ctx context.Context, id string) (*entities.NFTRecord, error)
}
