package walletauth

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/go-jose/go-jose/v3"

	"nft-market.backend/internal/domain/entities"
)

// idTokenClaims is the payload of a hosted-wallet login token. The wallets
// claim carries the user's session public key; the account address is
// derived from it, never taken from a plain claim.
type idTokenClaims struct {
	Issuer   string        `json:"iss"`
	Audience string        `json:"aud"`
	Email    string        `json:"email"`
	Verifier string        `json:"verifier"`
	Exp      int64         `json:"exp"`
	Wallets  []walletClaim `json:"wallets"`
}

type walletClaim struct {
	PublicKey string `json:"public_key"`
	Type      string `json:"type"`
	Curve     string `json:"curve"`
}

var fetchJWKSKeys = func(ctx context.Context, client *http.Client, url string) (*jose.JSONWebKeySet, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("jwks endpoint returned %d", resp.StatusCode)
	}

	var keySet jose.JSONWebKeySet
	if err := json.NewDecoder(resp.Body).Decode(&keySet); err != nil {
		return nil, err
	}
	return &keySet, nil
}

// Web3AuthProvider verifies hosted-wallet login tokens against the provider's
// JWKS endpoint and derives the smart-account address from the session key.
type Web3AuthProvider struct {
	clientID   string
	jwksURL    string
	httpClient *http.Client

	mu        sync.Mutex
	keySet    *jose.JSONWebKeySet
	fetchedAt time.Time
}

// NewWeb3AuthProvider creates a provider for one registered client id.
func NewWeb3AuthProvider(clientID, jwksURL string) *Web3AuthProvider {
	return &Web3AuthProvider{
		clientID:   clientID,
		jwksURL:    jwksURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// AuthenticateUser verifies the login token's signature and claims and
// returns the derived account address.
func (p *Web3AuthProvider) AuthenticateUser(ctx context.Context, provider entities.LoginProviderConfig, idToken string) (string, error) {
	sig, err := jose.ParseSigned(idToken)
	if err != nil {
		return "", errors.New("malformed id token")
	}
	if len(sig.Signatures) == 0 {
		return "", errors.New("unsigned id token")
	}

	keySet, err := p.keys(ctx)
	if err != nil {
		return "", err
	}

	kid := sig.Signatures[0].Header.KeyID
	keys := keySet.Key(kid)
	if len(keys) == 0 {
		return "", errors.New("unknown signing key")
	}

	payload, err := sig.Verify(keys[0])
	if err != nil {
		return "", errors.New("id token signature verification failed")
	}

	var claims idTokenClaims
	if err := json.Unmarshal(payload, &claims); err != nil {
		return "", errors.New("malformed id token claims")
	}
	if claims.Exp != 0 && time.Now().Unix() > claims.Exp {
		return "", errors.New("id token expired")
	}
	expectedAud := provider.ClientID
	if expectedAud == "" {
		expectedAud = p.clientID
	}
	if expectedAud != "" && claims.Audience != expectedAud {
		return "", errors.New("id token audience mismatch")
	}
	if provider.Verifier != "" && claims.Verifier != "" && claims.Verifier != provider.Verifier {
		return "", errors.New("id token verifier mismatch")
	}

	return deriveAddress(claims.Wallets)
}

// keys returns the cached JWKS, refetching after an hour.
func (p *Web3AuthProvider) keys(ctx context.Context) (*jose.JSONWebKeySet, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.keySet != nil && time.Since(p.fetchedAt) < time.Hour {
		return p.keySet, nil
	}
	keySet, err := fetchJWKSKeys(ctx, p.httpClient, p.jwksURL)
	if err != nil {
		if p.keySet != nil {
			return p.keySet, nil
		}
		return nil, err
	}
	p.keySet = keySet
	p.fetchedAt = time.Now()
	return keySet, nil
}

// deriveAddress turns the secp256k1 session public key into an EVM address.
func deriveAddress(wallets []walletClaim) (string, error) {
	for _, wallet := range wallets {
		if wallet.Curve != "" && wallet.Curve != "secp256k1" {
			continue
		}
		if wallet.PublicKey == "" {
			continue
		}
		keyBytes, err := decodeHex(wallet.PublicKey)
		if err != nil {
			continue
		}
		pub, err := ethcrypto.DecompressPubkey(keyBytes)
		if err != nil {
			// Some tokens carry the uncompressed 65-byte form.
			pub, err = ethcrypto.UnmarshalPubkey(keyBytes)
			if err != nil {
				continue
			}
		}
		return ethcrypto.PubkeyToAddress(*pub).Hex(), nil
	}
	return "", errors.New("no usable wallet key in id token")
}

func decodeHex(s string) ([]byte, error) {
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		s = s[2:]
	}
	return hex.DecodeString(s)
}
