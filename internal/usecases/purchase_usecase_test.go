package usecases_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"nft-market.backend/internal/domain/entities"
	domainerrors "nft-market.backend/internal/domain/errors"
	"nft-market.backend/internal/infrastructure/batching"
	"nft-market.backend/internal/usecases"
)

const (
	custodianAddr = "0x3333333333333333333333333333333333333333"
	custodianKey  = "0x8b3a350cf5c34c9194ca85829a2df0ec3153be0318b5e2d3348e872092edffba"
)

type purchaseFixture struct {
	usecase     *usecases.PurchaseUsecase
	catalogRepo *MockCatalogRepository
	attemptRepo *MockAttemptRepository
	batcher     *MockBatcher
	resolver    *usecases.OwnershipResolver
}

func newPurchaseFixture(t *testing.T, owner string) *purchaseFixture {
	t.Helper()
	catalogRepo := new(MockCatalogRepository)
	attemptRepo := new(MockAttemptRepository)
	batcher := new(MockBatcher)
	resolver := usecases.NewOwnershipResolver(ownerReaderFunc(func(ctx context.Context, tokenID int64) (string, error) {
		return owner, nil
	}), nil)

	return &purchaseFixture{
		usecase:     usecases.NewPurchaseUsecase(catalogRepo, attemptRepo, batcher, resolver, nil, contractAddr, custodianAddr, custodianKey),
		catalogRepo: catalogRepo,
		attemptRepo: attemptRepo,
		batcher:     batcher,
		resolver:    resolver,
	}
}

func TestPurchaseOpen_SetsCustodianAsSender(t *testing.T) {
	f := newPurchaseFixture(t, custodianAddr)
	f.catalogRepo.On("GetByID", mock.Anything, "nft-1").Return(mintedNFT("nft-1", 7), nil)
	f.attemptRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

	attempt, err := f.usecase.Open(context.Background(), "nft-1", aliceAddr)
	require.NoError(t, err)
	assert.Equal(t, entities.AttemptKindPurchase, attempt.Kind)
	assert.Equal(t, entities.AttemptStateConfirming, attempt.State)
	assert.Equal(t, custodianAddr, attempt.FromAddress)
	assert.Equal(t, aliceAddr, attempt.ToAddress)
}

func TestPurchaseOpen_RejectsCurrentOwner(t *testing.T) {
	f := newPurchaseFixture(t, aliceAddr) // alice already owns it
	f.catalogRepo.On("GetByID", mock.Anything, "nft-1").Return(mintedNFT("nft-1", 7), nil)

	_, err := f.usecase.Open(context.Background(), "nft-1", aliceAddr)
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidInput))
}

func TestPurchaseOpen_RejectsLazyMintEntry(t *testing.T) {
	f := newPurchaseFixture(t, custodianAddr)
	f.catalogRepo.On("GetByID", mock.Anything, "nft-lazy").Return(&entities.NFTRecord{ID: "nft-lazy"}, nil)

	_, err := f.usecase.Open(context.Background(), "nft-lazy", aliceAddr)
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidInput))
}

func TestPurchaseConfirm_TransfersFromCustodian(t *testing.T) {
	f := newPurchaseFixture(t, custodianAddr)
	f.catalogRepo.On("GetByID", mock.Anything, "nft-1").Return(mintedNFT("nft-1", 7), nil)
	f.attemptRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.attemptRepo.On("UpdateState", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	attempt, err := f.usecase.Open(context.Background(), "nft-1", aliceAddr)
	require.NoError(t, err)

	var sentIntents []batching.Intent
	f.batcher.On("Estimate", mock.Anything, custodianAddr, mock.Anything).Return(&batching.EstimateResult{GasTotal: 60000}, nil).Once()
	f.batcher.On("Send", mock.Anything, custodianKey, mock.Anything).
		Run(func(args mock.Arguments) { sentIntents = args.Get(2).([]batching.Intent) }).
		Return("0xsent", nil).Once()
	f.attemptRepo.On("MarkSent", mock.Anything, attempt.ID, "0xsent").Return(nil)

	result, err := f.usecase.Confirm(context.Background(), attempt.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.AttemptStateSent, result.State)

	require.Len(t, sentIntents, 1)
	assert.Equal(t, "transferFrom", sentIntents[0].Method)
	assert.Equal(t, contractAddr, sentIntents[0].ContractAddress)

	_, ok := f.resolver.Owner("nft-1")
	assert.False(t, ok, "ownership must be re-read after the transfer")
}

func TestPurchaseConfirm_UnknownAttempt(t *testing.T) {
	f := newPurchaseFixture(t, custodianAddr)
	_, err := f.usecase.Get(context.Background(), uuid.New())
	assert.True(t, errors.Is(err, domainerrors.ErrNotFound))
}
