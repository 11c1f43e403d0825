package usecases_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"

	"nft-market.backend/internal/domain/entities"
	"nft-market.backend/internal/usecases"
)

const testGateway = "https://ipfs.io/ipfs/"

func catalogFixtures() []*entities.NFTRecord {
	return []*entities.NFTRecord{
		{ID: "nft-1", Title: "First", ImageURI: "ipfs://QmAAA", TokenID: null.Int64From(1), Price: "0.05"},
		{ID: "nft-2", Title: "Second", ImageURI: "ipfs://QmBBB", TokenID: null.Int64From(2), Price: "0.07"},
		{ID: "nft-3", Title: "Lazy", ImageURI: "https://cdn.example/lazy.png", Price: "0.09"},
	}
}

func newCatalogFixture(t *testing.T, ownerByToken map[int64]string) (*usecases.CatalogUsecase, *MockCatalogRepository) {
	t.Helper()
	catalogRepo := new(MockCatalogRepository)
	resolver := usecases.NewOwnershipResolver(ownerReaderFunc(func(ctx context.Context, tokenID int64) (string, error) {
		return ownerByToken[tokenID], nil
	}), nil)
	return usecases.NewCatalogUsecase(catalogRepo, resolver, testGateway), catalogRepo
}

func TestListMarketplace_ResolvesOwnershipPerEntry(t *testing.T) {
	u, repo := newCatalogFixture(t, map[int64]string{1: aliceAddr, 2: bobAddr})
	repo.On("List", mock.Anything).Return(catalogFixtures(), nil)

	views, err := u.ListMarketplace(context.Background(), aliceAddr)
	require.NoError(t, err)
	require.Len(t, views, 3)

	assert.Equal(t, entities.OwnershipOwner, views[0].Ownership)
	assert.Equal(t, aliceAddr, views[0].Owner)
	assert.False(t, views[0].CanBuy)
	assert.True(t, views[0].CanSend)

	assert.Equal(t, entities.OwnershipNotOwner, views[1].Ownership)
	assert.Equal(t, bobAddr, views[1].Owner)
	assert.True(t, views[1].CanBuy)
	assert.False(t, views[1].CanSend)

	// Lazy entries resolve to unknown and stay buyable.
	assert.Equal(t, entities.OwnershipUnknown, views[2].Ownership)
	assert.Empty(t, views[2].Owner)
	assert.True(t, views[2].CanBuy)
	assert.False(t, views[2].CanSend)

	assert.Equal(t, "https://ipfs.io/ipfs/QmAAA/nft.jpg", views[0].ImageURL)
	assert.Equal(t, "https://cdn.example/lazy.png", views[2].ImageURL)
}

func TestListMarketplace_DisconnectedRendersUnknown(t *testing.T) {
	u, repo := newCatalogFixture(t, map[int64]string{1: aliceAddr, 2: bobAddr})
	repo.On("List", mock.Anything).Return(catalogFixtures(), nil)

	views, err := u.ListMarketplace(context.Background(), "")
	require.NoError(t, err)
	for _, view := range views {
		assert.Equal(t, entities.OwnershipUnknown, view.Ownership)
		assert.Empty(t, view.Owner)
		assert.True(t, view.CanBuy)
		assert.False(t, view.CanSend)
	}
}

func TestListOwned_FiltersToOwnerVerdicts(t *testing.T) {
	u, repo := newCatalogFixture(t, map[int64]string{1: aliceAddr, 2: bobAddr})
	repo.On("List", mock.Anything).Return(catalogFixtures(), nil)

	views, err := u.ListOwned(context.Background(), aliceAddr)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "nft-1", views[0].ID)
}

func TestCatalogGet_SingleEntry(t *testing.T) {
	u, repo := newCatalogFixture(t, map[int64]string{2: bobAddr})
	repo.On("GetByID", mock.Anything, "nft-2").Return(catalogFixtures()[1], nil)

	view, err := u.Get(context.Background(), "nft-2", bobAddr)
	require.NoError(t, err)
	assert.Equal(t, entities.OwnershipOwner, view.Ownership)
	assert.True(t, view.CanSend)
}
