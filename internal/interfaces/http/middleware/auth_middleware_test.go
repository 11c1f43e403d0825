package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"nft-market.backend/pkg/jwt"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newAuthTestRouter(t *testing.T, required bool) (*gin.Engine, *jwt.JWTService) {
	t.Helper()
	jwtService := jwt.NewJWTService("test-secret", time.Minute, time.Hour)

	r := gin.New()
	var mw gin.HandlerFunc
	if required {
		mw = AuthMiddleware(jwtService)
	} else {
		mw = OptionalAuthMiddleware(jwtService)
	}
	r.GET("/whoami", mw, func(c *gin.Context) {
		address, ok := GetConnectedAddress(c)
		c.JSON(http.StatusOK, gin.H{"address": address, "connected": ok})
	})
	return r, jwtService
}

func accessToken(t *testing.T, jwtService *jwt.JWTService, address string) string {
	t.Helper()
	pair, err := jwtService.GenerateTokenPair(address, "google")
	if err != nil {
		t.Fatalf("generate tokens: %v", err)
	}
	return pair.AccessToken
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	r, jwtService := newAuthTestRouter(t, true)
	token := accessToken(t, jwtService, "0xAbC0000000000000000000000000000000000001")

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set(AuthorizationHeader, BearerPrefix+token)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	// Claims carry the address lower-cased.
	if want := `"address":"0xabc0000000000000000000000000000000000001"`; !strings.Contains(rec.Body.String(), want) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	r, _ := newAuthTestRouter(t, true)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthMiddleware_BadFormat(t *testing.T) {
	r, _ := newAuthTestRouter(t, true)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set(AuthorizationHeader, "Token abc")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthMiddleware_GarbageToken(t *testing.T) {
	r, _ := newAuthTestRouter(t, true)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set(AuthorizationHeader, BearerPrefix+"garbage")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestOptionalAuth_NoToken(t *testing.T) {
	r, _ := newAuthTestRouter(t, false)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"connected":false`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestOptionalAuth_WithToken(t *testing.T) {
	r, jwtService := newAuthTestRouter(t, false)
	token := accessToken(t, jwtService, "0xabc0000000000000000000000000000000000001")

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set(AuthorizationHeader, BearerPrefix+token)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if !strings.Contains(rec.Body.String(), `"connected":true`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}
