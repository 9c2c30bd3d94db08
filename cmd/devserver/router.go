package main

import (
	"github.com/gin-gonic/gin"

	"leafside-client/internal/shared/middleware"
	"leafside-client/pkg/jwt"
)

// SetupRouter wires the LeafSide REST contract the mobile client
// consumes. Success bodies are raw resource shapes; errors use the
// shared error envelope.
func SetupRouter(h *handlers, manager *jwt.Manager) *gin.Engine {
	router := gin.New()

	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
	)

	api := router.Group("/api")
	{
		api.GET("/health", h.health)

		account := api.Group("/account")
		{
			account.POST("/register", h.register)
			account.POST("/login", h.login)
			account.POST("/refresh", h.refresh)

			account.GET("/profile", middleware.AuthMiddleware(manager), h.profile)
			account.PUT("/profile", middleware.AuthMiddleware(manager), h.updateProfile)
		}

		api.GET("/books", h.listBooks)
		api.GET("/books/:id", h.getBook)

		authed := api.Group("", middleware.AuthMiddleware(manager))
		{
			authed.GET("/cart", h.getCart)
			authed.DELETE("/cart", h.clearCart)
			authed.POST("/cart/items", h.upsertCartItem)
			authed.DELETE("/cart/items/:bookId", h.removeCartItem)

			authed.POST("/orders", h.createOrder)
			authed.GET("/orders", h.listOrders)
		}
	}

	return router
}
