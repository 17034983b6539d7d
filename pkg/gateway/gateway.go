// Package gateway defines the payment gateway contract. The gateway
// itself is a black box: implementations live in subpackages, the
// reconciliation engine only sees this interface.
package gateway

import (
	"context"
	"time"
)

// CheckoutItem is one line item forwarded to the hosted checkout.
type CheckoutItem struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Price    int64  `json:"price"`
	Quantity int    `json:"quantity"`
}

// CustomerInfo identifies the payer on the hosted checkout page.
type CustomerInfo struct {
	FirstName string `json:"first_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

// CheckoutRequest asks the gateway for a hosted checkout keyed by
// order id.
type CheckoutRequest struct {
	OrderID     string
	GrossAmount int64
	Items       []CheckoutItem
	Customer    CustomerInfo
}

// Checkout is the gateway-issued handle directing the payer to the
// hosted payment page.
type Checkout struct {
	Token       string
	RedirectURL string
	ExpiredAt   time.Time
}

// StatusReport is one gateway-reported transaction state, either
// pushed by webhook or pulled by polling. Raw carries the full
// payload for the audit trail.
type StatusReport struct {
	OrderID           string
	TransactionID     string
	TransactionStatus string
	FraudStatus       string
	PaymentType       string
	StatusCode        string
	GrossAmount       string

	// payment method details, present depending on channel
	VANumber   string
	Bank       string
	BillerCode string
	BillKey    string

	Raw map[string]interface{}
}

// Adapter is the external collaborator contract. Every method may
// fail with errs.GatewayError; callers impose their own timeouts via
// ctx and treat a timeout as a failure.
type Adapter interface {
	// CreateCheckout registers the transaction remotely and returns
	// the checkout handle.
	CreateCheckout(ctx context.Context, req *CheckoutRequest) (*Checkout, error)

	// QueryStatus pulls the current transaction state.
	QueryStatus(ctx context.Context, orderID string) (*StatusReport, error)

	// Cancel voids a transaction that has not completed.
	Cancel(ctx context.Context, orderID string) error

	// Refund reverses a completed charge.
	Refund(ctx context.Context, orderID, reason string) error
}
