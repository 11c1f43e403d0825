package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"nft-market.backend/internal/interfaces/http/handlers"
)

type routeDeps struct {
	authHandler     *handlers.AuthHandler
	catalogHandler  *handlers.CatalogHandler
	purchaseHandler *handlers.PurchaseHandler
	transferHandler *handlers.TransferHandler
	checkoutHandler *handlers.CheckoutHandler
	attemptHandler  *handlers.AttemptHandler
	authMiddleware  gin.HandlerFunc
	optionalAuth    gin.HandlerFunc
}

func applyCORSMiddleware(r *gin.Engine) {
	r.Use(func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Credentials", "true")
			c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Request-ID, X-Session-ID")
			c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		}
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})
}

func registerHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "nft-market-backend",
			"version": "0.1.0",
		})
	})
}

func registerMetricsRoute(r *gin.Engine) {
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

func registerAPIV1Routes(r *gin.Engine, d routeDeps) {
	v1 := r.Group("/api/v1")
	{
		// Auth routes (public)
		auth := v1.Group("/auth")
		{
			auth.GET("/providers", d.authHandler.ListProviders)
			auth.POST("/connect", d.authHandler.Connect)
			auth.GET("/session", d.authHandler.GetSession)
			auth.POST("/refresh", d.authHandler.Refresh)
			auth.POST("/logout", d.authHandler.Logout)
		}

		// Catalog routes (public read, ownership resolved when connected)
		nfts := v1.Group("/nfts")
		{
			nfts.GET("", d.optionalAuth, d.catalogHandler.ListMarketplace)
			nfts.GET("/owned", d.authMiddleware, d.catalogHandler.ListOwned)
			nfts.GET("/:id", d.optionalAuth, d.catalogHandler.Get)
		}

		// Purchase flow (protected)
		purchases := v1.Group("/purchases")
		purchases.Use(d.authMiddleware)
		{
			purchases.POST("", d.purchaseHandler.Open)
			purchases.GET("/:id", d.purchaseHandler.Get)
			purchases.POST("/:id/confirm", d.purchaseHandler.Confirm)
			purchases.DELETE("/:id", d.purchaseHandler.Close)
		}

		// Transfer flow (protected)
		transfers := v1.Group("/transfers")
		transfers.Use(d.authMiddleware)
		{
			transfers.POST("", d.transferHandler.Open)
			transfers.GET("/:id", d.transferHandler.Get)
			transfers.PUT("/:id/destination", d.transferHandler.SetDestination)
			transfers.POST("/:id/confirm", d.transferHandler.Confirm)
			transfers.DELETE("/:id", d.transferHandler.Close)
		}

		// Fiat checkout (protected)
		checkouts := v1.Group("/checkouts")
		checkouts.Use(d.authMiddleware)
		{
			checkouts.POST("", d.checkoutHandler.Create)
			checkouts.POST("/payment-status", d.checkoutHandler.PaymentStatus)
			checkouts.DELETE("/:nftId", d.checkoutHandler.Close)
		}

		// Attempt history (protected)
		attempts := v1.Group("/attempts")
		attempts.Use(d.authMiddleware)
		{
			attempts.GET("", d.attemptHandler.List)
			attempts.GET("/:id", d.attemptHandler.Get)
		}
	}
}
