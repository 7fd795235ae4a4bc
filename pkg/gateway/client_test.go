package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateIntentSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/orders", r.URL.Path)
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "key_id", user)
		assert.Equal(t, "key_secret", pass)

		var req createOrderReq
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, int64(5200), req.Amount)
		assert.Equal(t, "INR", req.Currency)
		assert.NotEmpty(t, req.Receipt)

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(createOrderResp{
			ID:       "order_abc123",
			Amount:   req.Amount,
			Currency: req.Currency,
			Status:   "created",
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "key_id", "key_secret", 5*time.Second)
	ref, err := c.CreateIntent(context.Background(), 5200, "INR")
	require.NoError(t, err)
	assert.Equal(t, "order_abc123", ref.ID)
	assert.Equal(t, int64(5200), ref.AmountCents)
}

func TestCreateIntentServerErrorIsRetriable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "key_id", "key_secret", 5*time.Second)
	_, err := c.CreateIntent(context.Background(), 5200, "INR")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestCreateIntentNetworkErrorIsRetriable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections

	c := NewClient(srv.URL, "key_id", "key_secret", time.Second)
	_, err := c.CreateIntent(context.Background(), 5200, "INR")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestCreateIntentClientErrorIsNotRetriable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "key_id", "bad_secret", 5*time.Second)
	_, err := c.CreateIntent(context.Background(), 5200, "INR")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnavailable)
}
