package usecases

import (
	"context"
	"sort"
	"time"

	"nft-market.backend/internal/domain/entities"
	domainerrors "nft-market.backend/internal/domain/errors"
	"nft-market.backend/pkg/jwt"
	"nft-market.backend/pkg/redis"
	"nft-market.backend/pkg/utils"
)

// WalletProvider authenticates a social login against the hosted wallet
// service and resolves the user's smart-account address.
type WalletProvider interface {
	AuthenticateUser(ctx context.Context, provider entities.LoginProviderConfig, idToken string) (string, error)
}

// SessionStore is the slice of the redis session store the auth flow needs.
type SessionStore interface {
	CreateSession(ctx context.Context, sessionID string, data *redis.SessionData, expiration time.Duration) error
	GetSession(ctx context.Context, sessionID string) (*redis.SessionData, error)
	DeleteSession(ctx context.Context, sessionID string) error
}

// AuthUsecase handles wallet connect and session lifecycle
type AuthUsecase struct {
	walletProvider WalletProvider
	jwtService     *jwt.JWTService
	sessionStore   SessionStore
	loginConfigs   map[string]entities.LoginProviderConfig
	sessionTTL     time.Duration
}

// NewAuthUsecase creates a new auth usecase
func NewAuthUsecase(
	walletProvider WalletProvider,
	jwtService *jwt.JWTService,
	sessionStore SessionStore,
	loginConfigs map[string]entities.LoginProviderConfig,
	sessionTTL time.Duration,
) *AuthUsecase {
	return &AuthUsecase{
		walletProvider: walletProvider,
		jwtService:     jwtService,
		sessionStore:   sessionStore,
		loginConfigs:   loginConfigs,
		sessionTTL:     sessionTTL,
	}
}

// LoginProviders lists the configured social login providers.
func (u *AuthUsecase) LoginProviders() []entities.LoginProviderConfig {
	providers := make([]entities.LoginProviderConfig, 0, len(u.loginConfigs))
	for _, cfg := range u.loginConfigs {
		providers = append(providers, cfg)
	}
	sort.Slice(providers, func(i, j int) bool { return providers[i].Name < providers[j].Name })
	return providers
}

// Connect authenticates a social login token and opens a session. The
// returned address is the account used for every ownership decision until
// logout.
func (u *AuthUsecase) Connect(ctx context.Context, providerName, idToken string) (*entities.SessionResponse, error) {
	cfg, ok := u.loginConfigs[providerName]
	if !ok {
		return nil, domainerrors.BadRequest("unknown login provider")
	}
	if idToken == "" {
		return nil, domainerrors.BadRequest("id token is required")
	}

	address, err := u.walletProvider.AuthenticateUser(ctx, cfg, idToken)
	if err != nil {
		return nil, domainerrors.Unauthorized("login verification failed")
	}
	normalized := utils.NormalizeAddress(address)

	tokens, err := u.jwtService.GenerateTokenPair(normalized, cfg.Name)
	if err != nil {
		return nil, err
	}

	sessionID := utils.GenerateUUIDv7().String()
	err = u.sessionStore.CreateSession(ctx, sessionID, &redis.SessionData{
		Address:       normalized,
		LoginProvider: cfg.Name,
		AccessToken:   tokens.AccessToken,
		RefreshToken:  tokens.RefreshToken,
	}, u.sessionTTL)
	if err != nil {
		return nil, err
	}

	return &entities.SessionResponse{
		SessionID:    sessionID,
		Address:      normalized,
		ShortAddress: utils.ShortAddress(normalized),
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	}, nil
}

// GetSession returns the connected account behind a session id.
func (u *AuthUsecase) GetSession(ctx context.Context, sessionID string) (*entities.AccountSession, error) {
	data, err := u.sessionStore.GetSession(ctx, sessionID)
	if err != nil {
		return nil, domainerrors.Unauthorized("session not found")
	}
	return &entities.AccountSession{
		SessionID:     sessionID,
		Address:       data.Address,
		LoginProvider: data.LoginProvider,
	}, nil
}

// Logout destroys the session. The address and every per-account cache die
// with it on the client side.
func (u *AuthUsecase) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return domainerrors.BadRequest("session id is required")
	}
	return u.sessionStore.DeleteSession(ctx, sessionID)
}

// Refresh validates a refresh token and issues a new token pair.
func (u *AuthUsecase) Refresh(ctx context.Context, refreshToken string) (*jwt.TokenPair, error) {
	claims, err := u.jwtService.ValidateToken(refreshToken)
	if err != nil {
		return nil, domainerrors.Unauthorized("invalid refresh token")
	}
	return u.jwtService.GenerateTokenPair(claims.Address, claims.LoginProvider)
}
