package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
)

func sign(payload, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifySignature(t *testing.T) {
	const secret = "test_key_secret"
	sig := sign("order_abc|pay_xyz", secret)

	assert.True(t, VerifySignature("order_abc", "pay_xyz", sig, secret))
	assert.False(t, VerifySignature("order_abc", "pay_other", sig, secret))
	assert.False(t, VerifySignature("order_abc", "pay_xyz", sig, "wrong_secret"))
	assert.False(t, VerifySignature("", "pay_xyz", sig, secret))
	assert.False(t, VerifySignature("order_abc", "", sig, secret))
	assert.False(t, VerifySignature("order_abc", "pay_xyz", "", secret))
	assert.False(t, VerifySignature("order_abc", "pay_xyz", "not-hex!", secret))
}

func TestVerifyWebhookSignature(t *testing.T) {
	const secret = "whsec_123"
	body := []byte(`{"event":"payment.captured","payload":{}}`)
	sig := sign(string(body), secret)

	assert.True(t, VerifyWebhookSignature(body, sig, secret))
	assert.False(t, VerifyWebhookSignature([]byte(`{"event":"tampered"}`), sig, secret))
	assert.False(t, VerifyWebhookSignature(body, sig, "other"))
	assert.False(t, VerifyWebhookSignature(nil, sig, secret))
	assert.False(t, VerifyWebhookSignature(body, "", secret))
	assert.False(t, VerifyWebhookSignature(body, sig, ""))
}
