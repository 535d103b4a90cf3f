package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/arbit-labs/arbit/core"
	"github.com/arbit-labs/arbit/service"
)

// TradeHandlers contains HTTP handlers for the trading endpoints.
type TradeHandlers struct {
	trade *service.TradeClient
}

// NewTradeHandlers creates new trade handlers.
func NewTradeHandlers(trade *service.TradeClient) *TradeHandlers {
	return &TradeHandlers{trade: trade}
}

// Health reports liveness.
func (h *TradeHandlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Login runs the automated handshake with the configured credential.
func (h *TradeHandlers) Login(c *gin.Context) {
	if err := h.trade.EnsureAuthenticated(c.Request.Context()); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Refresh rotates the stored token pair.
func (h *TradeHandlers) Refresh(c *gin.Context) {
	if _, err := h.trade.RefreshTokens(c.Request.Context()); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Logout drops the stored tokens and best-effort invalidates them remotely.
func (h *TradeHandlers) Logout(c *gin.Context) {
	h.trade.Logout(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// AgentWalletStatus reports the delegated wallet state.
func (h *TradeHandlers) AgentWalletStatus(c *gin.Context) {
	state, err := h.trade.CheckAgentWallet(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	if state.Empty() {
		c.JSON(http.StatusOK, gin.H{
			"exists":  false,
			"status":  state.Status,
			"message": "Agent wallet is empty or not found. Use POST to create one.",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"exists": true,
		"status": state.Status,
		"wallet": state.Raw,
	})
}

// CreateAgentWallet creates the delegated wallet when none exists.
func (h *TradeHandlers) CreateAgentWallet(c *gin.Context) {
	result, err := h.trade.CreateAgentWallet(c.Request.Context())
	if err != nil {
		if errors.Is(err, core.ErrNeedsApproval) {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error":   "Agent wallet already exists but needs approval.",
				"hint":    "Approve the agent wallet with your wallet signature before trading.",
			})
			return
		}
		writeError(c, err)
		return
	}

	if result.Exists {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Agent wallet already exists but may need approval.",
			"data":    result,
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Agent wallet created. Approve it with your wallet signature before trading.",
		"data":    result,
	})
}

type executeTradeRequest struct {
	Long     []string `json:"long"`
	Short    []string `json:"short"`
	Notional float64  `json:"notional"`
}

// ExecuteTrade submits a basket trade.
func (h *TradeHandlers) ExecuteTrade(c *gin.Context) {
	var req executeTradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	if req.Notional <= 0 {
		req.Notional = 10
	}

	result, err := h.trade.ExecuteBasketTrade(c.Request.Context(), core.BasketTradeParams{
		Long:  req.Long,
		Short: req.Short,
	}, req.Notional)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "result": result})
}

// writeError maps core errors to status codes. Error text reaching callers
// has already been redacted by the service layer.
func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, core.ErrInvalidBasket),
		errors.Is(err, core.ErrWeightSumInvalid),
		errors.Is(err, core.ErrNeedsApproval):
		status = http.StatusBadRequest
	case errors.Is(err, core.ErrMissingCredential),
		errors.Is(err, core.ErrInvalidKeyFormat):
		status = http.StatusInternalServerError
	case errors.Is(err, core.ErrRemoteUnavailable):
		status = http.StatusServiceUnavailable
	case errors.Is(err, core.ErrAuthenticationFailed),
		errors.Is(err, core.ErrRefreshFailed):
		status = http.StatusUnauthorized
	case errors.Is(err, core.ErrRemoteRejected),
		errors.Is(err, core.ErrTradeExecutionFailed),
		errors.Is(err, core.ErrAgentWalletCreationFailed):
		status = http.StatusBadGateway
	}
	c.JSON(status, gin.H{"success": false, "error": err.Error()})
}
