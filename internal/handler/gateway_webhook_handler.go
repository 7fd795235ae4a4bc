package handler

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"log"
	"net/http"

	"farmstore/config"
	"farmstore/internal/models"
	"farmstore/internal/repository"
	"farmstore/internal/service"

	"github.com/gin-gonic/gin"
)

// GatewayWebhookHandler takes server-to-server gateway events. It is a
// reconciliation side channel only: captured events are recorded, failed
// events kill a still-CREATED intent. Verification itself always goes
// through the client-relayed finalize call.
type GatewayWebhookHandler struct {
	checkoutSvc *service.CheckoutService
	auditRepo   *repository.AuditLogRepository
	cfg         *config.Config
}

func NewGatewayWebhookHandler(checkoutSvc *service.CheckoutService, auditRepo *repository.AuditLogRepository, cfg *config.Config) *GatewayWebhookHandler {
	return &GatewayWebhookHandler{checkoutSvc: checkoutSvc, auditRepo: auditRepo, cfg: cfg}
}

func (h *GatewayWebhookHandler) Handle(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	if h.cfg.Gateway.WebhookSecret != "" {
		sig := c.GetHeader("X-Webhook-Signature")
		if !h.verifySignature(body, sig) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid signature"})
			return
		}
	}
	var payload struct {
		Event    string `json:"event"`
		IntentID string `json:"intent_id"`
		OrderID  string `json:"order_id"` // some gateways name the intent this way
		Reason   string `json:"reason"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	intentID := payload.IntentID
	if intentID == "" {
		intentID = payload.OrderID
	}
	if intentID == "" {
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	}
	switch payload.Event {
	case "payment.failed":
		h.checkoutSvc.FailFromGateway(intentID, payload.Reason)
	case "payment.captured":
		_ = h.auditRepo.Create(&models.AuditLog{
			Action:     "gateway_payment_captured",
			Resource:   "payment_intent",
			ResourceID: intentID,
			IP:         c.ClientIP(),
			UserAgent:  c.Request.UserAgent(),
		})
	default:
		log.Printf("[WEBHOOK] ignoring event=%s intent_id=%s", payload.Event, intentID)
	}
	c.JSON(http.StatusOK, gin.H{"received": true})
}

func (h *GatewayWebhookHandler) verifySignature(body []byte, signature string) bool {
	mac := hmac.New(sha256.New, []byte(h.cfg.Gateway.WebhookSecret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(signature), []byte(expected))
}
