package usecases_test

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"nft-market.backend/internal/domain/entities"
	"nft-market.backend/internal/infrastructure/batching"
	"nft-market.backend/pkg/redis"
)

// Mock CatalogRepository
type MockCatalogRepository struct {
	mock.Mock
}

func (m *MockCatalogRepository) List(ctx context.Context) ([]*entities.NFTRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.NFTRecord), args.Error(1)
}

func (m *MockCatalogRepository) GetByID(ctx context.Context, id string) (*entities.NFTRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.NFTRecord), args.Error(1)
}

// Mock AttemptRepository
type MockAttemptRepository struct {
	mock.Mock
}

func (m *MockAttemptRepository) Create(ctx context.Context, attempt *entities.TransactionAttempt) error {
	args := m.Called(ctx, attempt)
	return args.Error(0)
}

func (m *MockAttemptRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.TransactionAttempt, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.TransactionAttempt), args.Error(1)
}

func (m *MockAttemptRepository) GetByAddress(ctx context.Context, address string, limit, offset int) ([]*entities.TransactionAttempt, int, error) {
	args := m.Called(ctx, address, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*entities.TransactionAttempt), args.Int(1), args.Error(2)
}

func (m *MockAttemptRepository) UpdateState(ctx context.Context, id uuid.UUID, state entities.AttemptState) error {
	args := m.Called(ctx, id, state)
	return args.Error(0)
}

func (m *MockAttemptRepository) SetDestination(ctx context.Context, id uuid.UUID, toAddress string) error {
	args := m.Called(ctx, id, toAddress)
	return args.Error(0)
}

func (m *MockAttemptRepository) MarkSent(ctx context.Context, id uuid.UUID, txHash string) error {
	args := m.Called(ctx, id, txHash)
	return args.Error(0)
}

func (m *MockAttemptRepository) MarkFailed(ctx context.Context, id uuid.UUID, state entities.AttemptState, reason string) error {
	args := m.Called(ctx, id, state, reason)
	return args.Error(0)
}

// Mock BatchSubmitter
type MockBatcher struct {
	mock.Mock
}

func (m *MockBatcher) Estimate(ctx context.Context, from string, intents []batching.Intent) (*batching.EstimateResult, error) {
	args := m.Called(ctx, from, intents)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*batching.EstimateResult), args.Error(1)
}

func (m *MockBatcher) Send(ctx context.Context, senderKey string, intents []batching.Intent) (string, error) {
	args := m.Called(ctx, senderKey, intents)
	return args.String(0), args.Error(1)
}

// ownerReaderFunc adapts a function to the OwnerReader interface.
type ownerReaderFunc func(ctx context.Context, tokenID int64) (string, error)

func (f ownerReaderFunc) OwnerOf(ctx context.Context, tokenID int64) (string, error) {
	return f(ctx, tokenID)
}

// Mock WalletProvider
type MockWalletProvider struct {
	mock.Mock
}

func (m *MockWalletProvider) AuthenticateUser(ctx context.Context, provider entities.LoginProviderConfig, idToken string) (string, error) {
	args := m.Called(ctx, provider, idToken)
	return args.String(0), args.Error(1)
}

// Mock SessionStore
type MockSessionStore struct {
	mock.Mock
}

func (m *MockSessionStore) CreateSession(ctx context.Context, sessionID string, data *redis.SessionData, expiration time.Duration) error {
	args := m.Called(ctx, sessionID, data, expiration)
	return args.Error(0)
}

func (m *MockSessionStore) GetSession(ctx context.Context, sessionID string) (*redis.SessionData, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*redis.SessionData), args.Error(1)
}

func (m *MockSessionStore) DeleteSession(ctx context.Context, sessionID string) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}
