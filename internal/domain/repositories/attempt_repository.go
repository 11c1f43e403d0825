package repositories

import (
	"context"

	"github.com/google/uuid"
	"nft-market.backend/internal/domain/entities"
)

// AttemptRepository defines transaction attempt audit operations
type AttemptRepository interface {
	Create(ctx context.Context, attempt *entities.TransactionAttempt) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.TransactionAttempt, error)
	GetByAddress(ctx context.Context, address string, limit, offset int) ([]*entities.TransactionAttempt, int, error)
	UpdateState(ctx context.Context, id uuid.UUID, state entities.AttemptState) error
	SetDestination(ctx context.Context, id uuid.UUID, toAddress string) error
	MarkSent(ctx context.Context, id uuid.UUID, txHash string) error
	MarkFailed(ctx context.Context, id uuid.UUID, state entities.AttemptState, reason string) error
}
