package settlement

import (
	"errors"
	"net/http"

	"propcoin/internal/auth"
	"propcoin/internal/order"

	"github.com/gin-gonic/gin"
)

// SignatureHeader carries the provider's webhook HMAC.
const SignatureHeader = "X-Razorpay-Signature"

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

type RechargeRequest struct {
	Amount   int64  `json:"amount" binding:"required,gt=0"`
	Currency string `json:"currency"`
}

type ValidateRequest struct {
	OrderID   string `json:"order_id" binding:"required"`
	PaymentID string `json:"payment_id" binding:"required"`
	Signature string `json:"signature" binding:"required"`
}

type StatusRequest struct {
	OrderID string `json:"order_id" binding:"required"`
}

// Recharge godoc
// @Summary      Start a coin recharge
// @Description  Creates a provider order and a local processing order. Coins are credited later, by the payment webhook.
// @Tags         coins
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body  RechargeRequest  true  "Amount in currency units"
// @Success      200  {object}  gin.H
// @Failure      400  {object}  gin.H
// @Failure      502  {object}  gin.H
// @Router       /coins/recharge [post]
func (h *Handler) Recharge(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req RechargeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount must be positive"})
		return
	}

	o, expectedCoins, err := h.service.CreateRecharge(c.Request.Context(), userID, req.Amount, req.Currency)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to create recharge order"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"order":          o,
		"expected_coins": expectedCoins,
		"message":        "order created successfully",
	})
}

// Validate godoc
// @Summary      Confirm a payment from the client
// @Tags         coins
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body  ValidateRequest  true  "Provider confirmation"
// @Success      200  {object}  gin.H
// @Failure      400  {object}  gin.H
// @Failure      404  {object}  gin.H
// @Router       /coins/order/validate [post]
func (h *Handler) Validate(c *gin.Context) {
	if _, ok := auth.GetUserID(c); !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req ValidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	o, err := h.service.ValidatePayment(c.Request.Context(), req.OrderID, req.PaymentID, req.Signature)
	if err != nil {
		respondSettlementError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"order": o})
}

// Status godoc
// @Summary      Poll a recharge order
// @Description  Read-only; polling never credits coins.
// @Tags         coins
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body  StatusRequest  true  "Order id"
// @Success      200  {object}  gin.H
// @Failure      404  {object}  gin.H
// @Router       /coins/payment/status [post]
func (h *Handler) Status(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	o, err := h.service.CheckStatus(c.Request.Context(), userID, req.OrderID)
	if err != nil {
		if errors.Is(err, order.ErrOrderNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load order"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"order": o})
}

// Webhook godoc
// @Summary      Provider payment webhook
// @Description  Authenticated by HMAC over the raw body, not by session.
// @Tags         coins
// @Accept       json
// @Produce      json
// @Success      200  {object}  gin.H
// @Failure      400  {object}  gin.H
// @Router       /coins/webhook [post]
func (h *Handler) Webhook(c *gin.Context) {
	// The signature is computed over the transport bytes; grab them before
	// any binding can touch the body.
	rawBody, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read body"})
		return
	}

	err = h.service.HandleWebhook(c.Request.Context(), rawBody, c.GetHeader(SignatureHeader))
	if err != nil {
		respondSettlementError(c, err)
		return
	}

	// Tell the provider the delivery landed so it stops retrying.
	c.JSON(http.StatusOK, gin.H{"received": true})
}

func respondSettlementError(c *gin.Context, err error) {
	var pErr *PartialSettlementError
	switch {
	case errors.Is(err, ErrInvalidSignature):
		c.JSON(http.StatusBadRequest, gin.H{"error": "transaction is not legit"})
	case errors.Is(err, order.ErrOrderNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
	case errors.As(err, &pErr):
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":    "settlement incomplete, pending reconciliation",
			"order_id": pErr.OrderID,
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "webhook processing failed"})
	}
}
