package usecases

import (
	"context"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"

	"nft-market.backend/internal/domain/entities"
	domainerrors "nft-market.backend/internal/domain/errors"
	"nft-market.backend/internal/domain/repositories"
	"nft-market.backend/internal/infrastructure/batching"
	"nft-market.backend/internal/observability"
	"nft-market.backend/pkg/utils"
)

// PurchaseUsecase drives the crypto purchase flow for minted tokens held by
// the custodial wallet. Lazy-mint entries are bought through the fiat
// checkout instead.
type PurchaseUsecase struct {
	engine           *flowEngine
	catalogRepo      repositories.CatalogRepository
	resolver         *OwnershipResolver
	contractAddress  string
	custodianAddress string
	custodianKey     string
}

// NewPurchaseUsecase creates a new purchase usecase
func NewPurchaseUsecase(
	catalogRepo repositories.CatalogRepository,
	attemptRepo repositories.AttemptRepository,
	batcher BatchSubmitter,
	resolver *OwnershipResolver,
	metrics *observability.Metrics,
	contractAddress string,
	custodianAddress string,
	custodianKey string,
) *PurchaseUsecase {
	return &PurchaseUsecase{
		engine:           newFlowEngine(attemptRepo, batcher, metrics),
		catalogRepo:      catalogRepo,
		resolver:         resolver,
		contractAddress:  contractAddress,
		custodianAddress: custodianAddress,
		custodianKey:     custodianKey,
	}
}

// Open starts a purchase attempt for a minted token the buyer does not
// already own.
func (u *PurchaseUsecase) Open(ctx context.Context, nftID, buyerAddress string) (*entities.TransactionAttempt, error) {
	if buyerAddress == "" {
		return nil, domainerrors.Unauthorized("no connected account")
	}
	record, err := u.catalogRepo.GetByID(ctx, nftID)
	if err != nil {
		return nil, err
	}
	if !record.Minted() {
		return nil, domainerrors.BadRequest("token is not minted on-chain; use the fiat checkout")
	}
	if u.resolver.Resolve(ctx, record, buyerAddress) == entities.OwnershipOwner {
		return nil, domainerrors.BadRequest("connected account already owns this token")
	}

	now := time.Now().UTC()
	attempt := &entities.TransactionAttempt{
		ID:          utils.GenerateUUIDv7(),
		Kind:        entities.AttemptKindPurchase,
		NFTID:       record.ID,
		TokenID:     record.TokenID.Int64,
		FromAddress: utils.NormalizeAddress(u.custodianAddress),
		ToAddress:   utils.NormalizeAddress(buyerAddress),
		State:       entities.AttemptStateConfirming,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := u.engine.open(ctx, attempt); err != nil {
		return nil, err
	}
	snap := *attempt
	return &snap, nil
}

// Confirm submits the purchase transfer from the custodian to the buyer.
// Estimate first, send only on a passing estimate; repeated confirms while
// in flight are no-ops.
func (u *PurchaseUsecase) Confirm(ctx context.Context, attemptID uuid.UUID) (*entities.TransactionAttempt, error) {
	attempt, err := u.engine.get(attemptID)
	if err != nil {
		return nil, err
	}

	intents := []batching.Intent{{
		ContractAddress: u.contractAddress,
		ABI:             FallbackERC721ABI,
		Method:          "transferFrom",
		Args: []interface{}{
			common.HexToAddress(attempt.FromAddress),
			common.HexToAddress(attempt.ToAddress),
			big.NewInt(attempt.TokenID),
		},
		Value: big.NewInt(0),
	}}

	result, err := u.engine.confirm(ctx, attemptID, attempt.FromAddress, u.custodianKey, intents)
	if err != nil {
		return nil, err
	}
	if result.State == entities.AttemptStateSent {
		u.resolver.Invalidate(result.NFTID)
	}
	return result, nil
}

// Get returns the current attempt snapshot.
func (u *PurchaseUsecase) Get(ctx context.Context, attemptID uuid.UUID) (*entities.TransactionAttempt, error) {
	return u.engine.get(attemptID)
}

// Close abandons the attempt.
func (u *PurchaseUsecase) Close(ctx context.Context, attemptID uuid.UUID) {
	u.engine.close(attemptID)
}
