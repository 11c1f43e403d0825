package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"nft-market.backend/pkg/jwt"
)

const (
	// AuthorizationHeader is the header key for authorization
	AuthorizationHeader = "Authorization"
	// BearerPrefix is the prefix for bearer tokens
	BearerPrefix = "Bearer "
	// ConnectedAddressKey is the context key for the connected account address
	ConnectedAddressKey = "connectedAddress"
	// LoginProviderKey is the context key for the login provider
	LoginProviderKey = "loginProvider"
)

// AuthMiddleware requires a valid session access token. The connected address
// carried in the claims becomes the account for every ownership decision
// downstream.
func AuthMiddleware(jwtService *jwt.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader(AuthorizationHeader)
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Authorization header is required",
			})
			return
		}

		if !strings.HasPrefix(authHeader, BearerPrefix) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid authorization format. Use: Bearer <token>",
			})
			return
		}

		tokenString := strings.TrimPrefix(authHeader, BearerPrefix)
		claims, err := jwtService.ValidateToken(tokenString)
		if err != nil {
			if err == jwt.ErrExpiredToken {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
					"error": "Token has expired",
				})
				return
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid token",
			})
			return
		}

		c.Set(ConnectedAddressKey, claims.Address)
		c.Set(LoginProviderKey, claims.LoginProvider)

		c.Next()
	}
}

// OptionalAuthMiddleware resolves the connected address when a valid token is
// present and leaves it unset otherwise. Public catalog views use it so a
// disconnected visitor still gets a listing, just with unknown ownership.
func OptionalAuthMiddleware(jwtService *jwt.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader(AuthorizationHeader)
		if strings.HasPrefix(authHeader, BearerPrefix) {
			tokenString := strings.TrimPrefix(authHeader, BearerPrefix)
			if claims, err := jwtService.ValidateToken(tokenString); err == nil {
				c.Set(ConnectedAddressKey, claims.Address)
				c.Set(LoginProviderKey, claims.LoginProvider)
			}
		}
		c.Next()
	}
}

// GetConnectedAddress gets the connected account address from context
func GetConnectedAddress(c *gin.Context) (string, bool) {
	address, exists := c.Get(ConnectedAddressKey)
	if !exists {
		return "", false
	}
	return address.(string), true
}
