package handler

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"farmstore/config"
	"farmstore/internal/database"
	"farmstore/internal/domain"
	"farmstore/internal/models"
	"farmstore/internal/repository"
	"farmstore/internal/service"
	"farmstore/pkg/gateway"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type webhookEnv struct {
	engine  http.Handler
	cfg     *config.Config
	intents *repository.IntentRepository
	audit   *repository.AuditLogRepository
	db      *gorm.DB
}

func newWebhookEnv(t *testing.T, webhookSecret string) *webhookEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	dsn := filepath.Join(t.TempDir(), "test.db") + "?_busy_timeout=5000"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))

	cfg := config.Load()
	cfg.Gateway.WebhookSecret = webhookSecret

	intents := repository.NewIntentRepository(db)
	orders := repository.NewOrderRepository(db)
	carts := repository.NewCartRepository(db)
	audit := repository.NewAuditLogRepository(db)
	pricing := service.NewPricingService(&cfg.Checkout)
	checkoutSvc := service.NewCheckoutService(cfg, &gateway.StubProvider{}, intents, orders, carts, audit, pricing)

	r := gin.New()
	r.POST("/webhooks/gateway", NewGatewayWebhookHandler(checkoutSvc, audit, cfg).Handle)
	return &webhookEnv{engine: r, cfg: cfg, intents: intents, audit: audit, db: db}
}

func (e *webhookEnv) seedIntent(t *testing.T, id, status string) {
	t.Helper()
	require.NoError(t, e.db.Create(&models.PaymentIntent{
		ID:          id,
		OwnerID:     1,
		AmountCents: 5200,
		Currency:    "INR",
		Status:      status,
	}).Error)
}

func (e *webhookEnv) post(body []byte, signature string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/webhooks/gateway", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if signature != "" {
		req.Header.Set("X-Webhook-Signature", signature)
	}
	w := httptest.NewRecorder()
	e.engine.ServeHTTP(w, req)
	return w
}

func signBody(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestWebhookRejectsBadBodySignature(t *testing.T) {
	env := newWebhookEnv(t, "hook-secret")
	env.seedIntent(t, "order_wh1", domain.IntentStatusCreated)

	body := []byte(`{"event":"payment.failed","intent_id":"order_wh1","reason":"card declined"}`)
	w := env.post(body, signBody("wrong-secret", body))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// an unauthenticated event must not touch the intent
	stored, err := env.intents.GetByID("order_wh1")
	require.NoError(t, err)
	assert.Equal(t, domain.IntentStatusCreated, stored.Status)
}

func TestWebhookFailedEventKillsCreatedIntent(t *testing.T) {
	env := newWebhookEnv(t, "hook-secret")
	env.seedIntent(t, "order_wh2", domain.IntentStatusCreated)

	body := []byte(`{"event":"payment.failed","intent_id":"order_wh2","reason":"card declined"}`)
	w := env.post(body, signBody("hook-secret", body))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	stored, err := env.intents.GetByID("order_wh2")
	require.NoError(t, err)
	assert.Equal(t, domain.IntentStatusFailed, stored.Status)

	entries, err := env.audit.ListByResource("payment_intent", 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "gateway_payment_failed", entries[0].Action)
	assert.Equal(t, "order_wh2", entries[0].ResourceID)
}

func TestWebhookFailedEventLeavesVerifiedIntent(t *testing.T) {
	env := newWebhookEnv(t, "hook-secret")
	env.seedIntent(t, "order_wh3", domain.IntentStatusVerified)

	body := []byte(`{"event":"payment.failed","intent_id":"order_wh3","reason":"late failure"}`)
	w := env.post(body, signBody("hook-secret", body))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// a verified charge is never discarded on the gateway's say-so
	stored, err := env.intents.GetByID("order_wh3")
	require.NoError(t, err)
	assert.Equal(t, domain.IntentStatusVerified, stored.Status)

	entries, err := env.audit.ListByResource("payment_intent", 10)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestWebhookCapturedEventIsAuditOnly(t *testing.T) {
	env := newWebhookEnv(t, "hook-secret")
	env.seedIntent(t, "order_wh4", domain.IntentStatusCreated)

	body := []byte(`{"event":"payment.captured","intent_id":"order_wh4"}`)
	w := env.post(body, signBody("hook-secret", body))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// captured events never verify; the signed client relay is the only path
	stored, err := env.intents.GetByID("order_wh4")
	require.NoError(t, err)
	assert.Equal(t, domain.IntentStatusCreated, stored.Status)

	entries, err := env.audit.ListByResource("payment_intent", 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "gateway_payment_captured", entries[0].Action)
	assert.Equal(t, "order_wh4", entries[0].ResourceID)
}

func TestWebhookWithoutConfiguredSecretSkipsCheck(t *testing.T) {
	env := newWebhookEnv(t, "")
	env.seedIntent(t, "order_wh5", domain.IntentStatusCreated)

	body := []byte(`{"event":"payment.failed","order_id":"order_wh5","reason":"card declined"}`)
	w := env.post(body, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	stored, err := env.intents.GetByID("order_wh5")
	require.NoError(t, err)
	assert.Equal(t, domain.IntentStatusFailed, stored.Status)
}
