package reconcile

import (
	"sekolah/app/models/payment"
	"sekolah/pkg/errs"
)

// fraudAccept is the only fraud verdict that lets a capture through.
const fraudAccept = "accept"

// statusTable is the fixed mapping from gateway status vocabulary to
// local status. Anything outside this table is rejected with
// UnmappedStatusError, never silently stored.
var statusTable = map[string]string{
	"capture":    payment.StatusCapture,
	"settlement": payment.StatusSettlement,
	"pending":    payment.StatusPending,
	"deny":       payment.StatusDeny,
	"expire":     payment.StatusExpire,
	"cancel":     payment.StatusCancel,
	"refund":     payment.StatusRefund,
}

// mapStatus resolves a gateway status/fraud pair to a local status.
// A capture whose fraud verdict is not "accept" resolves to pending:
// the money is held but the charge is not considered complete until
// the risk engine clears it.
func mapStatus(orderID, gatewayStatus, fraudStatus string) (string, error) {
	local, ok := statusTable[gatewayStatus]
	if !ok {
		return "", errs.UnmappedStatusError{OrderID: orderID, Status: gatewayStatus}
	}
	if local == payment.StatusCapture && fraudStatus != fraudAccept {
		return payment.StatusPending, nil
	}
	return local, nil
}

// allowedTransition validates a status change against the state
// machine: pending may move anywhere, a completed charge may still
// be refunded, and a replay of the current status is a harmless
// no-op. Everything else is an out-of-order or stale notification
// and must not regress the payment.
func allowedTransition(from, to string) bool {
	if from == to {
		return true
	}
	switch from {
	case payment.StatusPending:
		return true
	case payment.StatusSettlement, payment.StatusCapture:
		return to == payment.StatusRefund ||
			// capture confirmed as settled by the gateway later on
			(from == payment.StatusCapture && to == payment.StatusSettlement)
	}
	return false
}
