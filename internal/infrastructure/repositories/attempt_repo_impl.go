package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"

	"nft-market.backend/internal/domain/entities"
	domainerrors "nft-market.backend/internal/domain/errors"
	"nft-market.backend/internal/infrastructure/models"
)

// AttemptRepository implements transaction attempt audit operations
type AttemptRepository struct {
	db *gorm.DB
}

// NewAttemptRepository creates a new attempt repository
func NewAttemptRepository(db *gorm.DB) *AttemptRepository {
	return &AttemptRepository{db: db}
}

// Create persists a new attempt row
func (r *AttemptRepository) Create(ctx context.Context, attempt *entities.TransactionAttempt) error {
	m := &models.TransactionAttempt{
		ID:          attempt.ID,
		Kind:        string(attempt.Kind),
		NFTID:       attempt.NFTID,
		TokenID:     attempt.TokenID,
		FromAddress: attempt.FromAddress,
		ToAddress:   attempt.ToAddress,
		State:       string(attempt.State),
		CreatedAt:   attempt.CreatedAt,
		UpdatedAt:   attempt.UpdatedAt,
	}
	if attempt.TxHash.Valid {
		m.TxHash = &attempt.TxHash.String
	}
	if attempt.FailureReason.Valid {
		m.FailureReason = &attempt.FailureReason.String
	}
	return r.db.WithContext(ctx).Create(m).Error
}

// GetByID gets an attempt by ID
func (r *AttemptRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.TransactionAttempt, error) {
	var m models.TransactionAttempt
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return r.toEntity(&m), nil
}

// GetByAddress gets attempts initiated by an address with pagination
func (r *AttemptRepository) GetByAddress(ctx context.Context, address string, limit, offset int) ([]*entities.TransactionAttempt, int, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.TransactionAttempt{}).
		Where("from_address = ?", address).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var ms []models.TransactionAttempt
	if err := r.db.WithContext(ctx).
		Where("from_address = ?", address).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&ms).Error; err != nil {
		return nil, 0, err
	}

	var attempts []*entities.TransactionAttempt
	for _, m := range ms {
		model := m
		attempts = append(attempts, r.toEntity(&model))
	}

	return attempts, int(total), nil
}

// UpdateState moves an attempt to a new lifecycle state
func (r *AttemptRepository) UpdateState(ctx context.Context, id uuid.UUID, state entities.AttemptState) error {
	result := r.db.WithContext(ctx).Model(&models.TransactionAttempt{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"state":      string(state),
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// SetDestination records the confirmed destination address
func (r *AttemptRepository) SetDestination(ctx context.Context, id uuid.UUID, toAddress string) error {
	result := r.db.WithContext(ctx).Model(&models.TransactionAttempt{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"to_address": toAddress,
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// MarkSent records the terminal sent state with the submitted tx hash
func (r *AttemptRepository) MarkSent(ctx context.Context, id uuid.UUID, txHash string) error {
	result := r.db.WithContext(ctx).Model(&models.TransactionAttempt{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"state":      string(entities.AttemptStateSent),
			"tx_hash":    txHash,
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// MarkFailed records a terminal failure state with the reason
func (r *AttemptRepository) MarkFailed(ctx context.Context, id uuid.UUID, state entities.AttemptState, reason string) error {
	result := r.db.WithContext(ctx).Model(&models.TransactionAttempt{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"state":          string(state),
			"failure_reason": reason,
			"updated_at":     time.Now(),
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

func (r *AttemptRepository) toEntity(m *models.TransactionAttempt) *entities.TransactionAttempt {
	return &entities.TransactionAttempt{
		ID:            m.ID,
		Kind:          entities.AttemptKind(m.Kind),
		NFTID:         m.NFTID,
		TokenID:       m.TokenID,
		FromAddress:   m.FromAddress,
		ToAddress:     m.ToAddress,
		State:         entities.AttemptState(m.State),
		TxHash:        null.StringFromPtr(m.TxHash),
		FailureReason: null.StringFromPtr(m.FailureReason),
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}
