package http

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/arbit-labs/arbit/service"
)

// SetupRouter sets up the Gin router exposing the trading core.
func SetupRouter(trade *service.TradeClient, log *logrus.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), RequestID(), RequestLogger(log))

	handlers := NewTradeHandlers(trade)

	api := router.Group("/api")
	{
		api.GET("/health", handlers.Health)
		api.POST("/execute-trade", handlers.ExecuteTrade)
		api.GET("/agent-wallet", handlers.AgentWalletStatus)
		api.POST("/agent-wallet", handlers.CreateAgentWallet)

		auth := api.Group("/auth")
		{
			auth.POST("/login", handlers.Login)
			auth.POST("/refresh", handlers.Refresh)
			auth.POST("/logout", handlers.Logout)
		}
	}

	return router
}
