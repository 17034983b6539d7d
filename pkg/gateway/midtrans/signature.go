package midtrans

import (
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"strings"
)

// Signature computes the Midtrans webhook signature:
// sha512(order_id + status_code + gross_amount + server_key).
func Signature(orderID, statusCode, grossAmount, serverKey string) string {
	sum := sha512.Sum512([]byte(orderID + statusCode + grossAmount + serverKey))
	return hex.EncodeToString(sum[:])
}

// VerifySignature authenticates an inbound notification. The webhook
// endpoint carries no caller auth; this signature is the only thing
// standing between the ledger and forged status updates.
func (c *Client) VerifySignature(orderID, statusCode, grossAmount, signatureKey string) bool {
	if signatureKey == "" {
		return false
	}
	want := Signature(orderID, statusCode, grossAmount, c.serverKey)
	got := strings.ToLower(signatureKey)
	return subtle.ConstantTimeCompare([]byte(want), []byte(got)) == 1
}
