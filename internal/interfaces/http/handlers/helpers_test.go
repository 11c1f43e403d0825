package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"nft-market.backend/internal/domain/entities"
	domainerrors "nft-market.backend/internal/domain/errors"
	"nft-market.backend/internal/infrastructure/batching"
	"nft-market.backend/internal/interfaces/http/middleware"
	"nft-market.backend/internal/usecases"
	"nft-market.backend/pkg/jwt"
	"nft-market.backend/pkg/redis"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const (
	testContract  = "0x091541AC5b5B1BCBd879F4dCD07B5F01007aBA7B"
	testOwnerAddr = "0x1111111111111111111111111111111111111111"
	testOtherAddr = "0x2222222222222222222222222222222222222222"
	testSenderKey = "0x59c6995e998f97a5a0044966f0945389dc9e86dae88c7a8412f4603b6b78690d"
)

type catalogRepoStub struct {
	listFn func(ctx context.Context) ([]*entities.NFTRecord, error)
	getFn  func(ctx context.Context, id string) (*entities.NFTRecord, error)
}

func (s *catalogRepoStub) List(ctx context.Context) ([]*entities.NFTRecord, error) {
	if s.listFn != nil {
		return s.listFn(ctx)
	}
	return []*entities.NFTRecord{}, nil
}

func (s *catalogRepoStub) GetByID(ctx context.Context, id string) (*entities.NFTRecord, error) {
	if s.getFn != nil {
		return s.getFn(ctx, id)
	}
	return nil, domainerrors.NotFound("nft not found")
}

type attemptRepoStub struct {
	createFn       func(ctx context.Context, attempt *entities.TransactionAttempt) error
	getByIDFn      func(ctx context.Context, id uuid.UUID) (*entities.TransactionAttempt, error)
	getByAddressFn func(ctx context.Context, address string, limit, offset int) ([]*entities.TransactionAttempt, int, error)
}

func (s *attemptRepoStub) Create(ctx context.Context, attempt *entities.TransactionAttempt) error {
	if s.createFn != nil {
		return s.createFn(ctx, attempt)
	}
	return nil
}

func (s *attemptRepoStub) GetByID(ctx context.Context, id uuid.UUID) (*entities.TransactionAttempt, error) {
	if s.getByIDFn != nil {
		return s.getByIDFn(ctx, id)
	}
	return nil, domainerrors.ErrNotFound
}

func (s *attemptRepoStub) GetByAddress(ctx context.Context, address string, limit, offset int) ([]*entities.TransactionAttempt, int, error) {
	if s.getByAddressFn != nil {
		return s.getByAddressFn(ctx, address, limit, offset)
	}
	return []*entities.TransactionAttempt{}, 0, nil
}

func (s *attemptRepoStub) UpdateState(ctx context.Context, id uuid.UUID, state entities.AttemptState) error {
	return nil
}

func (s *attemptRepoStub) SetDestination(ctx context.Context, id uuid.UUID, toAddress string) error {
	return nil
}

func (s *attemptRepoStub) MarkSent(ctx context.Context, id uuid.UUID, txHash string) error {
	return nil
}

func (s *attemptRepoStub) MarkFailed(ctx context.Context, id uuid.UUID, state entities.AttemptState, reason string) error {
	return nil
}

type batcherStub struct {
	estimateFn func(ctx context.Context, from string, intents []batching.Intent) (*batching.EstimateResult, error)
	sendFn     func(ctx context.Context, senderKey string, intents []batching.Intent) (string, error)
}

func (s *batcherStub) Estimate(ctx context.Context, from string, intents []batching.Intent) (*batching.EstimateResult, error) {
	if s.estimateFn != nil {
		return s.estimateFn(ctx, from, intents)
	}
	return &batching.EstimateResult{GasTotal: 21000}, nil
}

func (s *batcherStub) Send(ctx context.Context, senderKey string, intents []batching.Intent) (string, error) {
	if s.sendFn != nil {
		return s.sendFn(ctx, senderKey, intents)
	}
	return "0xsent", nil
}

type receiptReaderStub struct {
	statusFn func(ctx context.Context, txHash string) (*usecases.TxStatus, error)
}

func (s *receiptReaderStub) TxStatus(ctx context.Context, txHash string) (*usecases.TxStatus, error) {
	if s.statusFn != nil {
		return s.statusFn(ctx, txHash)
	}
	return &usecases.TxStatus{TxHash: txHash, Success: true, BlockNumber: 1}, nil
}

type walletProviderStub struct {
	authFn func(ctx context.Context, provider entities.LoginProviderConfig, idToken string) (string, error)
}

func (s *walletProviderStub) AuthenticateUser(ctx context.Context, provider entities.LoginProviderConfig, idToken string) (string, error) {
	if s.authFn != nil {
		return s.authFn(ctx, provider, idToken)
	}
	return testOwnerAddr, nil
}

type sessionStoreStub struct {
	sessions map[string]*redis.SessionData
}

func newSessionStoreStub() *sessionStoreStub {
	return &sessionStoreStub{sessions: make(map[string]*redis.SessionData)}
}

func (s *sessionStoreStub) CreateSession(ctx context.Context, sessionID string, data *redis.SessionData, expiration time.Duration) error {
	s.sessions[sessionID] = data
	return nil
}

func (s *sessionStoreStub) GetSession(ctx context.Context, sessionID string) (*redis.SessionData, error) {
	data, ok := s.sessions[sessionID]
	if !ok {
		return nil, domainerrors.ErrNotFound
	}
	return data, nil
}

func (s *sessionStoreStub) DeleteSession(ctx context.Context, sessionID string) error {
	delete(s.sessions, sessionID)
	return nil
}

// connectedAs injects a resolved address the way the auth middleware would.
func connectedAs(address string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if address != "" {
			c.Set(middleware.ConnectedAddressKey, address)
		}
		c.Next()
	}
}

func fixedOwnerResolver(owner string) *usecases.OwnershipResolver {
	return usecases.NewOwnershipResolver(ownerReaderFunc(func(ctx context.Context, tokenID int64) (string, error) {
		return owner, nil
	}), nil)
}

type ownerReaderFunc func(ctx context.Context, tokenID int64) (string, error)

func (f ownerReaderFunc) OwnerOf(ctx context.Context, tokenID int64) (string, error) {
	return f(ctx, tokenID)
}

func testJWTService() *jwt.JWTService {
	return jwt.NewJWTService("test-secret", 15*time.Minute, time.Hour)
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	return body
}

func requireStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("expected status %d, got %d: %s", want, rec.Code, rec.Body.String())
	}
}
