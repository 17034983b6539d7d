package midtrans

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"sekolah/config"
)

const testServerKey = "SB-Mid-server-testkey"

func verifierClient() *Client {
	return NewClient(config.MidtransConfig{ServerKey: testServerKey})
}

func TestSignatureDeterministic(t *testing.T) {
	a := Signature("ORD-20250314-ABC123", "200", "255000.00", testServerKey)
	b := Signature("ORD-20250314-ABC123", "200", "255000.00", testServerKey)
	assert.Equal(t, a, b)
	assert.Len(t, a, 128) // hex-encoded sha512
}

func TestVerifySignature(t *testing.T) {
	c := verifierClient()
	sig := Signature("ORD-20250314-ABC123", "200", "255000.00", testServerKey)

	assert.True(t, c.VerifySignature("ORD-20250314-ABC123", "200", "255000.00", sig))

	// uppercase hex from the sender still verifies
	assert.True(t, c.VerifySignature("ORD-20250314-ABC123", "200", "255000.00", strings.ToUpper(sig)))
}

func TestVerifySignatureRejects(t *testing.T) {
	c := verifierClient()
	sig := Signature("ORD-20250314-ABC123", "200", "255000.00", testServerKey)

	// any input change invalidates the signature
	assert.False(t, c.VerifySignature("ORD-20250314-XYZ999", "200", "255000.00", sig))
	assert.False(t, c.VerifySignature("ORD-20250314-ABC123", "201", "255000.00", sig))
	assert.False(t, c.VerifySignature("ORD-20250314-ABC123", "200", "255001.00", sig))

	// signed with the wrong key
	forged := Signature("ORD-20250314-ABC123", "200", "255000.00", "attacker-key")
	assert.False(t, c.VerifySignature("ORD-20250314-ABC123", "200", "255000.00", forged))

	assert.False(t, c.VerifySignature("ORD-20250314-ABC123", "200", "255000.00", ""))
}
