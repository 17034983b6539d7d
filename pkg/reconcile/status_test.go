package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sekolah/app/models/payment"
	"sekolah/pkg/errs"
)

func TestMapStatus(t *testing.T) {
	tests := []struct {
		gateway string
		fraud   string
		want    string
	}{
		{"settlement", "", payment.StatusSettlement},
		{"pending", "", payment.StatusPending},
		{"deny", "", payment.StatusDeny},
		{"expire", "", payment.StatusExpire},
		{"cancel", "", payment.StatusCancel},
		{"refund", "", payment.StatusRefund},
		{"capture", "accept", payment.StatusCapture},
	}
	for _, tt := range tests {
		got, err := mapStatus("ORD-20250314-ABC123", tt.gateway, tt.fraud)
		require.NoError(t, err, tt.gateway)
		assert.Equal(t, tt.want, got, tt.gateway)
	}
}

func TestMapStatusFraudGate(t *testing.T) {
	// a capture is only complete once the risk engine accepts it
	for _, fraud := range []string{"challenge", "deny", ""} {
		got, err := mapStatus("ORD-20250314-ABC123", "capture", fraud)
		require.NoError(t, err)
		assert.Equal(t, payment.StatusPending, got, "fraud=%q", fraud)
	}
}

func TestMapStatusUnknown(t *testing.T) {
	_, err := mapStatus("ORD-20250314-ABC123", "foobar", "")
	require.Error(t, err)
	assert.True(t, errs.IsUnmappedStatus(err))
	assert.Contains(t, err.Error(), "foobar")
}

func TestAllowedTransition(t *testing.T) {
	tests := []struct {
		from, to string
		want     bool
	}{
		// pending moves anywhere
		{payment.StatusPending, payment.StatusSettlement, true},
		{payment.StatusPending, payment.StatusDeny, true},
		{payment.StatusPending, payment.StatusExpire, true},

		// replays are harmless
		{payment.StatusSettlement, payment.StatusSettlement, true},
		{payment.StatusExpire, payment.StatusExpire, true},

		// completed charges may only be refunded
		{payment.StatusSettlement, payment.StatusRefund, true},
		{payment.StatusCapture, payment.StatusRefund, true},
		{payment.StatusCapture, payment.StatusSettlement, true},
		{payment.StatusSettlement, payment.StatusPending, false},
		{payment.StatusSettlement, payment.StatusCancel, false},

		// terminal states stay terminal
		{payment.StatusExpire, payment.StatusSettlement, false},
		{payment.StatusCancel, payment.StatusPending, false},
		{payment.StatusDeny, payment.StatusSettlement, false},
		{payment.StatusRefund, payment.StatusSettlement, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, allowedTransition(tt.from, tt.to), "%s -> %s", tt.from, tt.to)
	}
}
