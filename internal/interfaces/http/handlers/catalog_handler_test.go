package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/volatiletech/null/v8"

	"nft-market.backend/internal/domain/entities"
	domainerrors "nft-market.backend/internal/domain/errors"
	"nft-market.backend/internal/usecases"
)

func catalogStubRecords() []*entities.NFTRecord {
	return []*entities.NFTRecord{
		{ID: "nft-1", Title: "First", ImageURI: "ipfs://QmAAA", TokenID: null.Int64From(1), Price: "0.05"},
		{ID: "nft-2", Title: "Second", ImageURI: "ipfs://QmBBB", TokenID: null.Int64From(2), Price: "0.07"},
	}
}

func newCatalogRouter(owner, connected string) *gin.Engine {
	repo := &catalogRepoStub{
		listFn: func(ctx context.Context) ([]*entities.NFTRecord, error) {
			return catalogStubRecords(), nil
		},
		getFn: func(ctx context.Context, id string) (*entities.NFTRecord, error) {
			for _, record := range catalogStubRecords() {
				if record.ID == id {
					return record, nil
				}
			}
			return nil, domainerrors.NotFound("nft not found")
		},
	}
	catalogUsecase := usecases.NewCatalogUsecase(repo, fixedOwnerResolver(owner), "https://ipfs.io/ipfs/")
	h := NewCatalogHandler(catalogUsecase)

	r := gin.New()
	r.GET("/nfts", connectedAs(connected), h.ListMarketplace)
	r.GET("/nfts/owned", connectedAs(connected), h.ListOwned)
	r.GET("/nfts/:id", connectedAs(connected), h.Get)
	return r
}

func TestCatalogList(t *testing.T) {
	r := newCatalogRouter(testOwnerAddr, testOwnerAddr)

	req := httptest.NewRequest(http.MethodGet, "/nfts", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	requireStatus(t, rec, http.StatusOK)

	body := decodeBody(t, rec)
	nfts := body["nfts"].([]interface{})
	if len(nfts) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(nfts))
	}
	first := nfts[0].(map[string]interface{})
	if first["ownership"] != string(entities.OwnershipOwner) {
		t.Fatalf("unexpected ownership: %v", first["ownership"])
	}
	if first["imageUrl"] != "https://ipfs.io/ipfs/QmAAA/nft.jpg" {
		t.Fatalf("unexpected image url: %v", first["imageUrl"])
	}
}

func TestCatalogList_Disconnected(t *testing.T) {
	r := newCatalogRouter(testOwnerAddr, "")

	req := httptest.NewRequest(http.MethodGet, "/nfts", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	requireStatus(t, rec, http.StatusOK)

	body := decodeBody(t, rec)
	for _, raw := range body["nfts"].([]interface{}) {
		view := raw.(map[string]interface{})
		if view["ownership"] != string(entities.OwnershipUnknown) {
			t.Fatalf("disconnected visitor must see unknown ownership: %v", view["ownership"])
		}
	}
}

func TestCatalogOwned(t *testing.T) {
	r := newCatalogRouter(testOwnerAddr, testOwnerAddr)

	req := httptest.NewRequest(http.MethodGet, "/nfts/owned", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	requireStatus(t, rec, http.StatusOK)

	body := decodeBody(t, rec)
	nfts := body["nfts"].([]interface{})
	if len(nfts) != 2 {
		t.Fatalf("expected 2 owned entries, got %d", len(nfts))
	}
}

func TestCatalogGet_NotFound(t *testing.T) {
	r := newCatalogRouter(testOwnerAddr, "")

	req := httptest.NewRequest(http.MethodGet, "/nfts/missing", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	requireStatus(t, rec, http.StatusNotFound)
}
