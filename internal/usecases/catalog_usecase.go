package usecases

import (
	"context"

	"nft-market.backend/internal/domain/entities"
	"nft-market.backend/internal/domain/repositories"
)

// CatalogUsecase projects catalog records into API views with resolved
// ownership. The marketplace view lists everything; the panel view lists
// only what the connected account owns.
type CatalogUsecase struct {
	catalogRepo repositories.CatalogRepository
	resolver    *OwnershipResolver
	ipfsGateway string
}

// NewCatalogUsecase creates a new catalog usecase
func NewCatalogUsecase(catalogRepo repositories.CatalogRepository, resolver *OwnershipResolver, ipfsGateway string) *CatalogUsecase {
	return &CatalogUsecase{
		catalogRepo: catalogRepo,
		resolver:    resolver,
		ipfsGateway: ipfsGateway,
	}
}

// ListMarketplace returns every catalog entry with ownership resolved against
// the connected address. An empty address yields unknown ownership with buy
// affordances only.
func (u *CatalogUsecase) ListMarketplace(ctx context.Context, connectedAddress string) ([]*entities.CatalogView, error) {
	records, err := u.catalogRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]*entities.CatalogView, 0, len(records))
	for _, record := range records {
		views = append(views, u.toView(ctx, record, connectedAddress))
	}
	return views, nil
}

// ListOwned returns the panel projection: only entries the connected account
// owns on-chain.
func (u *CatalogUsecase) ListOwned(ctx context.Context, connectedAddress string) ([]*entities.CatalogView, error) {
	records, err := u.catalogRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	var views []*entities.CatalogView
	for _, record := range records {
		view := u.toView(ctx, record, connectedAddress)
		if view.Ownership == entities.OwnershipOwner {
			views = append(views, view)
		}
	}
	return views, nil
}

// Get returns one catalog entry by id with ownership resolved.
func (u *CatalogUsecase) Get(ctx context.Context, id, connectedAddress string) (*entities.CatalogView, error) {
	record, err := u.catalogRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return u.toView(ctx, record, connectedAddress), nil
}

func (u *CatalogUsecase) toView(ctx context.Context, record *entities.NFTRecord, connectedAddress string) *entities.CatalogView {
	ownership := u.resolver.Resolve(ctx, record, connectedAddress)
	view := &entities.CatalogView{
		ID:        record.ID,
		Title:     record.Title,
		ImageURL:  record.GatewayImageURL(u.ipfsGateway),
		TokenID:   record.TokenID,
		Price:     record.Price,
		Ownership: ownership,
		CanBuy:    ownership != entities.OwnershipOwner,
		CanSend:   ownership == entities.OwnershipOwner,
	}
	if owner, ok := u.resolver.Owner(record.ID); ok {
		view.Owner = owner
	}
	return view
}
