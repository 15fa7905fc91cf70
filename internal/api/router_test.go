package api

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHealthEndpoints(t *testing.T) {
	r := newTestAPI("test").Router()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"env":"test"`)
}

func TestProtectedRoutesRejectAnonymous(t *testing.T) {
	r := newTestAPI("test").Router()

	for _, path := range []string{"/api/cart", "/api/orders", "/api/addresses", "/api/auth/profile"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equalf(t, http.StatusUnauthorized, w.Code, "GET %s", path)
	}
}

func TestAdminRoutesRejectAnonymous(t *testing.T) {
	r := newTestAPI("test").Router()

	for _, path := range []string{"/api/contact", "/api/admin/blogs", "/api/payments/admin/payouts", "/api/catalog/vendors"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equalf(t, http.StatusUnauthorized, w.Code, "GET %s", path)
	}
}

func TestWebhookRejectsUnsignedRequests(t *testing.T) {
	r := newTestAPI("test").Router()
	body := `{"event":"payment.captured","payload":{"payment":{"entity":{"id":"pay_x","order_id":"order_x"}}}}`

	t.Run("missing signature header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/orders/webhook", strings.NewReader(body))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Invalid webhook signature")
	})

	t.Run("forged signature", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/orders/webhook", strings.NewReader(body))
		req.Header.Set("X-Razorpay-Signature", "deadbeef")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("signature over a different body", func(t *testing.T) {
		mac := hmac.New(sha256.New, []byte("whsec_test"))
		mac.Write([]byte(`{"event":"payment.failed"}`))
		req := httptest.NewRequest(http.MethodPost, "/api/orders/webhook", strings.NewReader(body))
		req.Header.Set("X-Razorpay-Signature", hex.EncodeToString(mac.Sum(nil)))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestCORSPreflight(t *testing.T) {
	r := newTestAPI("test").Router()

	req := httptest.NewRequest(http.MethodOptions, "/api/catalog/categories", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
}
