package usecases

import (
	"context"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"nft-market.backend/internal/domain/entities"
	domainerrors "nft-market.backend/internal/domain/errors"
	"nft-market.backend/internal/domain/repositories"
	"nft-market.backend/internal/infrastructure/batching"
	"nft-market.backend/internal/observability"
	"nft-market.backend/pkg/logger"
	"nft-market.backend/pkg/utils"
)

// TransferUsecase drives the send-to-address flow. It adds one step over the
// purchase flow: the destination address is collected and validated before
// the attempt reaches the confirming state.
type TransferUsecase struct {
	engine          *flowEngine
	catalogRepo     repositories.CatalogRepository
	attemptRepo     repositories.AttemptRepository
	resolver        *OwnershipResolver
	contractAddress string
	operatorKey     string
}

// NewTransferUsecase creates a new transfer usecase
func NewTransferUsecase(
	catalogRepo repositories.CatalogRepository,
	attemptRepo repositories.AttemptRepository,
	batcher BatchSubmitter,
	resolver *OwnershipResolver,
	metrics *observability.Metrics,
	contractAddress string,
	operatorKey string,
) *TransferUsecase {
	return &TransferUsecase{
		engine:          newFlowEngine(attemptRepo, batcher, metrics),
		catalogRepo:     catalogRepo,
		attemptRepo:     attemptRepo,
		resolver:        resolver,
		contractAddress: contractAddress,
		operatorKey:     operatorKey,
	}
}

// Open starts a transfer attempt for an owned token. Ownership is checked
// against chain state, not the catalog hint.
func (u *TransferUsecase) Open(ctx context.Context, nftID, fromAddress string) (*entities.TransactionAttempt, error) {
	if fromAddress == "" {
		return nil, domainerrors.Unauthorized("no connected account")
	}
	record, err := u.catalogRepo.GetByID(ctx, nftID)
	if err != nil {
		return nil, err
	}
	if !record.Minted() {
		return nil, domainerrors.BadRequest("token is not minted on-chain")
	}
	if u.resolver.Resolve(ctx, record, fromAddress) != entities.OwnershipOwner {
		return nil, domainerrors.Forbidden("connected account is not the token owner")
	}

	now := time.Now().UTC()
	attempt := &entities.TransactionAttempt{
		ID:          utils.GenerateUUIDv7(),
		Kind:        entities.AttemptKindTransfer,
		NFTID:       record.ID,
		TokenID:     record.TokenID.Int64,
		FromAddress: utils.NormalizeAddress(fromAddress),
		State:       entities.AttemptStateConfirmingAddress,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := u.engine.open(ctx, attempt); err != nil {
		return nil, err
	}
	snap := *attempt
	return &snap, nil
}

// SetDestination validates and records the destination, moving the attempt
// to the confirming state. An empty or malformed address is rejected here,
// before any network activity.
func (u *TransferUsecase) SetDestination(ctx context.Context, attemptID uuid.UUID, toAddress string) (*entities.TransactionAttempt, error) {
	if toAddress == "" {
		return nil, domainerrors.BadRequest("destination address is required")
	}
	if !common.IsHexAddress(toAddress) {
		return nil, domainerrors.BadRequest("invalid destination address")
	}

	normalized := utils.NormalizeAddress(toAddress)
	snap, err := u.engine.mutate(attemptID, func(attempt *entities.TransactionAttempt) error {
		if attempt.State != entities.AttemptStateConfirmingAddress {
			return domainerrors.BadRequest("attempt is not awaiting a destination")
		}
		if utils.SameAddress(attempt.FromAddress, normalized) {
			return domainerrors.BadRequest("destination equals the sender address")
		}
		attempt.ToAddress = normalized
		attempt.State = entities.AttemptStateConfirming
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Audit rows never gate the flow; persistence failures are logged and
	// the in-memory attempt stays authoritative.
	if err := u.attemptRepo.SetDestination(ctx, attemptID, normalized); err != nil {
		logger.Error(ctx, "failed to persist attempt destination", zap.String("attemptId", attemptID.String()), zap.Error(err))
	}
	if err := u.attemptRepo.UpdateState(ctx, attemptID, entities.AttemptStateConfirming); err != nil {
		logger.Error(ctx, "failed to persist attempt state", zap.String("attemptId", attemptID.String()), zap.Error(err))
	}
	return snap, nil
}

// Confirm submits the transfer: estimate first, send only if the estimate
// passes. Repeated confirms while in flight are no-ops.
func (u *TransferUsecase) Confirm(ctx context.Context, attemptID uuid.UUID) (*entities.TransactionAttempt, error) {
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

	result, err := u.engine.confirm(ctx, attemptID, attempt.FromAddress, u.operatorKey, intents)
	if err != nil {
		return nil, err
	}
	if result.State == entities.AttemptStateSent {
		u.resolver.Invalidate(result.NFTID)
	}
	return result, nil
}

// Get returns the current attempt snapshot.
func (u *TransferUsecase) Get(ctx context.Context, attemptID uuid.UUID) (*entities.TransactionAttempt, error) {
	return u.engine.get(attemptID)
}

// Close abandons the attempt. In-flight estimates or sends are discarded
// when they complete.
func (u *TransferUsecase) Close(ctx context.Context, attemptID uuid.UUID) {
	u.engine.close(attemptID)
}
