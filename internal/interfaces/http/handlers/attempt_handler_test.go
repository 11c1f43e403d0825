package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"

	"nft-market.backend/internal/domain/entities"
	"nft-market.backend/internal/usecases"
	"nft-market.backend/pkg/utils"
)

func newAttemptRouter(repo *attemptRepoStub, receipts *receiptReaderStub, connected string) *gin.Engine {
	h := NewAttemptHandler(repo, receipts)
	r := gin.New()
	r.GET("/attempts", connectedAs(connected), h.List)
	r.GET("/attempts/:id", connectedAs(connected), h.Get)
	return r
}

func sentAttempt(from string) *entities.TransactionAttempt {
	return &entities.TransactionAttempt{
		ID:          utils.GenerateUUIDv7(),
		Kind:        entities.AttemptKindTransfer,
		NFTID:       "nft-1",
		TokenID:     7,
		FromAddress: from,
		ToAddress:   testOtherAddr,
		State:       entities.AttemptStateSent,
		TxHash:      null.StringFrom("0xsent"),
	}
}

func TestAttemptList(t *testing.T) {
	var gotLimit, gotOffset int
	repo := &attemptRepoStub{
		getByAddressFn: func(ctx context.Context, address string, limit, offset int) ([]*entities.TransactionAttempt, int, error) {
			gotLimit, gotOffset = limit, offset
			return []*entities.TransactionAttempt{
				{ID: utils.GenerateUUIDv7(), Kind: entities.AttemptKindTransfer, NFTID: "nft-1", State: entities.AttemptStateSent},
			}, 11, nil
		},
	}
	r := newAttemptRouter(repo, &receiptReaderStub{}, testOwnerAddr)

	req := httptest.NewRequest(http.MethodGet, "/attempts?page=2&limit=5", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	requireStatus(t, rec, http.StatusOK)

	if gotLimit != 5 || gotOffset != 5 {
		t.Fatalf("unexpected pagination: limit=%d offset=%d", gotLimit, gotOffset)
	}

	body := decodeBody(t, rec)
	pagination := body["pagination"].(map[string]interface{})
	if pagination["total"] != float64(11) || pagination["totalPages"] != float64(3) {
		t.Fatalf("unexpected pagination block: %v", pagination)
	}
}

func TestAttemptList_RequiresConnection(t *testing.T) {
	r := newAttemptRouter(&attemptRepoStub{}, &receiptReaderStub{}, "")

	req := httptest.NewRequest(http.MethodGet, "/attempts", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	requireStatus(t, rec, http.StatusUnauthorized)
}

func TestAttemptGet_SentCarriesReceipt(t *testing.T) {
	attempt := sentAttempt(testOwnerAddr)
	repo := &attemptRepoStub{
		getByIDFn: func(ctx context.Context, id uuid.UUID) (*entities.TransactionAttempt, error) {
			return attempt, nil
		},
	}
	var gotHash string
	receipts := &receiptReaderStub{
		statusFn: func(ctx context.Context, txHash string) (*usecases.TxStatus, error) {
			gotHash = txHash
			return &usecases.TxStatus{TxHash: txHash, Success: true, BlockNumber: 42}, nil
		},
	}
	r := newAttemptRouter(repo, receipts, testOwnerAddr)

	req := httptest.NewRequest(http.MethodGet, "/attempts/"+attempt.ID.String(), nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	requireStatus(t, rec, http.StatusOK)

	if gotHash != "0xsent" {
		t.Fatalf("unexpected receipt lookup hash: %s", gotHash)
	}
	if !strings.Contains(rec.Body.String(), `"success":true`) {
		t.Fatalf("receipt missing from body: %s", rec.Body.String())
	}
}

func TestAttemptGet_OtherAccountIsNotFound(t *testing.T) {
	attempt := sentAttempt(testOtherAddr)
	repo := &attemptRepoStub{
		getByIDFn: func(ctx context.Context, id uuid.UUID) (*entities.TransactionAttempt, error) {
			return attempt, nil
		},
	}
	r := newAttemptRouter(repo, &receiptReaderStub{}, testOwnerAddr)

	req := httptest.NewRequest(http.MethodGet, "/attempts/"+attempt.ID.String(), nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	requireStatus(t, rec, http.StatusNotFound)
}

func TestAttemptGet_BadIDAndUnknownID(t *testing.T) {
	r := newAttemptRouter(&attemptRepoStub{}, &receiptReaderStub{}, testOwnerAddr)

	req := httptest.NewRequest(http.MethodGet, "/attempts/not-a-uuid", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	requireStatus(t, rec, http.StatusBadRequest)

	req = httptest.NewRequest(http.MethodGet, "/attempts/"+uuid.New().String(), nil)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	requireStatus(t, rec, http.StatusNotFound)
}
