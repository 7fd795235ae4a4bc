package handler

import (
	"errors"
	"net/http"

	"farmstore/internal/middleware"
	"farmstore/internal/models"
	"farmstore/internal/repository"
	"farmstore/internal/service"
	"farmstore/pkg/gateway"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type CheckoutHandler struct {
	checkoutSvc *service.CheckoutService
	userRepo    *repository.UserRepository
}

func NewCheckoutHandler(checkoutSvc *service.CheckoutService, userRepo *repository.UserRepository) *CheckoutHandler {
	return &CheckoutHandler{checkoutSvc: checkoutSvc, userRepo: userRepo}
}

// Quote prices the current cart without any side effect.
func (h *CheckoutHandler) Quote(c *gin.Context) {
	userID := middleware.GetUserID(c)
	q, lines, err := h.checkoutSvc.QuoteCart(userID)
	if err != nil {
		if service.IsValidation(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to quote cart"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"quote": q, "items": lines})
}

// CreateIntent opens a payment intent with the gateway for the given amount.
func (h *CheckoutHandler) CreateIntent(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var req struct {
		AmountCents int64 `json:"amount_cents"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	intent, err := h.checkoutSvc.OpenIntent(c.Request.Context(), userID, req.AmountCents)
	if err != nil {
		switch {
		case service.IsValidation(err):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, gateway.ErrUnavailable):
			// Retriable; no intent was recorded.
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "payment gateway unavailable, please retry"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to open payment intent"})
		}
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"intent_id":    intent.ID,
		"amount_cents": intent.AmountCents,
		"currency":     intent.Currency,
	})
}

// Finalize verifies the client-relayed gateway result and commits the order.
// Safe to retry: a consumed intent answers with the prior order.
func (h *CheckoutHandler) Finalize(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var req struct {
		IntentID             string          `json:"intent_id" binding:"required"`
		GatewayPaymentID     string          `json:"gateway_payment_id" binding:"required"`
		Signature            string          `json:"signature" binding:"required"`
		AddressID            *uint           `json:"address_id"`
		Address              *models.Address `json:"address"`
		DeliveryInstructions string          `json:"delivery_instructions"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var addr models.Address
	switch {
	case req.AddressID != nil:
		stored, err := h.userRepo.GetAddress(userID, *req.AddressID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "address not found"})
			return
		}
		addr = *stored
	case req.Address != nil:
		addr = *req.Address
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "address_id or address required"})
		return
	}

	vp, err := h.checkoutSvc.VerifyPayment(userID, req.IntentID, req.GatewayPaymentID, req.Signature)
	if err != nil {
		h.writeFinalizeError(c, err)
		return
	}
	order, created, err := h.checkoutSvc.Finalize(vp, userID, addr, req.DeliveryInstructions)
	if err != nil {
		h.writeFinalizeError(c, err)
		return
	}
	status := http.StatusCreated
	if !created {
		status = http.StatusOK
	}
	c.JSON(status, gin.H{
		"order_id":         order.ID,
		"order_number":     order.Number,
		"amount_cents":     order.AmountChargedCents,
		"already_consumed": !created,
	})
}

// Cancel abandons a CREATED intent. Verified intents are out of reach here.
func (h *CheckoutHandler) Cancel(c *gin.Context) {
	userID := middleware.GetUserID(c)
	intentID := c.Param("id")
	err := h.checkoutSvc.Cancel(userID, intentID)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "intent not found"})
		case errors.Is(err, service.ErrNotCancellable):
			c.JSON(http.StatusConflict, gin.H{"error": "intent can no longer be cancelled"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "cancel failed"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"cancelled": true})
}

func (h *CheckoutHandler) writeFinalizeError(c *gin.Context, err error) {
	switch {
	case service.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrVerificationFailed):
		// Details stay in the server log for reconciliation review.
		c.JSON(http.StatusPaymentRequired, gin.H{"error": "payment verification failed"})
	case errors.Is(err, service.ErrIntegrity):
		// A charge may exist; never tell the user nothing happened.
		c.JSON(http.StatusInternalServerError, gin.H{"error": "payment is being verified, please contact support"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "payment is being verified, please retry shortly"})
	}
}
