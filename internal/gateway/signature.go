package gateway

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// VerifyWebhookSignature checks the provider's signature header against an
// HMAC-SHA256 of the raw request body. The body must be the untouched
// transport bytes; hashing a re-serialized parse of the JSON breaks on key
// order and whitespace. Fails closed when the secret or signature is unset.
func VerifyWebhookSignature(rawBody []byte, signature, secret string) bool {
	if secret == "" || signature == "" {
		return false
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(rawBody)
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(signature))
}

// VerifyPaymentSignature checks the client-submitted confirmation
// signature, computed by the provider over "orderID|paymentID".
func VerifyPaymentSignature(orderID, paymentID, signature, secret string) bool {
	if secret == "" || signature == "" {
		return false
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(signature))
}
