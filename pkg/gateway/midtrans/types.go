package midtrans

import (
	"sekolah/pkg/gateway"

	"github.com/spf13/cast"
)

type snapTransactionDetails struct {
	OrderID     string `json:"order_id"`
	GrossAmount int64  `json:"gross_amount"`
}

type snapExpiry struct {
	Duration int    `json:"duration"`
	Unit     string `json:"unit"`
}

type snapCallbacks struct {
	Finish string `json:"finish"`
}

type snapRequest struct {
	TransactionDetails snapTransactionDetails `json:"transaction_details"`
	ItemDetails        []gateway.CheckoutItem `json:"item_details"`
	CustomerDetails    gateway.CustomerInfo   `json:"customer_details"`
	EnabledPayments    []string               `json:"enabled_payments"`
	Expiry             *snapExpiry            `json:"expiry,omitempty"`
	Callbacks          *snapCallbacks         `json:"callbacks,omitempty"`
}

type snapResponse struct {
	Token       string `json:"token"`
	RedirectURL string `json:"redirect_url"`
}

// ParseStatusReport maps a raw Midtrans status or notification
// payload onto the adapter-neutral report. Payment method details
// vary by channel: bank VAs arrive in va_numbers, Permata in a
// dedicated field, Mandiri bill payments as biller_code/bill_key.
func ParseStatusReport(raw map[string]interface{}) *gateway.StatusReport {
	report := &gateway.StatusReport{
		OrderID:           cast.ToString(raw["order_id"]),
		TransactionID:     cast.ToString(raw["transaction_id"]),
		TransactionStatus: cast.ToString(raw["transaction_status"]),
		FraudStatus:       cast.ToString(raw["fraud_status"]),
		PaymentType:       cast.ToString(raw["payment_type"]),
		StatusCode:        cast.ToString(raw["status_code"]),
		GrossAmount:       cast.ToString(raw["gross_amount"]),
		BillerCode:        cast.ToString(raw["biller_code"]),
		BillKey:           cast.ToString(raw["bill_key"]),
		Raw:               raw,
	}

	if vas, ok := raw["va_numbers"].([]interface{}); ok && len(vas) > 0 {
		if va, ok := vas[0].(map[string]interface{}); ok {
			report.VANumber = cast.ToString(va["va_number"])
			report.Bank = cast.ToString(va["bank"])
		}
	} else if permata := cast.ToString(raw["permata_va_number"]); permata != "" {
		report.VANumber = permata
		report.Bank = "permata"
	}

	return report
}
