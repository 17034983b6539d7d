package payment

import (
	"crypto/rand"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// PaymentType vocabulary
const (
	TypeRegistrationFee = "registration_fee"
	TypeTuitionFee      = "tuition_fee"
	TypeUniformFee      = "uniform_fee"
	TypeBookFee         = "book_fee"
	TypeOther           = "other"
)

// Status vocabulary. pending is the sole initial state;
// settlement/capture may still move to refund via admin action.
const (
	StatusPending    = "pending"
	StatusSettlement = "settlement"
	StatusCapture    = "capture"
	StatusDeny       = "deny"
	StatusExpire     = "expire"
	StatusCancel     = "cancel"
	StatusRefund     = "refund"
)

// ValidType reports whether t is a known payment type.
func ValidType(t string) bool {
	switch t {
	case TypeRegistrationFee, TypeTuitionFee, TypeUniformFee, TypeBookFee, TypeOther:
		return true
	}
	return false
}

// JSON is a json column type
type JSON map[string]interface{}

// Value implements driver.Valuer.
func (j JSON) Value() (driver.Value, error) {
	if len(j) == 0 {
		return nil, nil
	}
	return json.Marshal(j)
}

// Scan implements sql.Scanner.
func (j *JSON) Scan(value interface{}) error {
	if value == nil {
		*j = make(JSON)
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("invalid scan source")
	}
	return json.Unmarshal(bytes, j)
}

const orderIDAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateOrderID produces a new external order identifier of the
// form ORD-<YYYYMMDD>-<6 alphanumeric>. The random suffix comes from
// crypto/rand; identifiers are never reused.
func GenerateOrderID(now time.Time) string {
	suffix := make([]byte, 6)
	random := make([]byte, 6)
	// rand.Read on the system source does not fail in practice
	_, _ = rand.Read(random)
	for i, b := range random {
		suffix[i] = orderIDAlphabet[int(b)%len(orderIDAlphabet)]
	}
	return fmt.Sprintf("ORD-%s-%s", now.Format("20060102"), string(suffix))
}

// IsPending reports whether the payment still awaits the payer.
func (p *Payment) IsPending() bool {
	return p.Status == StatusPending
}

// IsSuccess reports whether the charge completed.
func (p *Payment) IsSuccess() bool {
	return p.Status == StatusSettlement || p.Status == StatusCapture
}

// IsExpired is the read-time expiry check: a pending payment whose
// checkout window has passed. There is no background reaper; stale
// payments are caught here and by the admin sweep.
func (p *Payment) IsExpired() bool {
	return p.Status == StatusPending && p.ExpiredAt != nil && p.ExpiredAt.Before(time.Now())
}

// StatusLabel returns the display label for the current status.
func (p *Payment) StatusLabel() string {
	labels := map[string]string{
		StatusPending:    "Menunggu Pembayaran",
		StatusSettlement: "Berhasil",
		StatusCapture:    "Berhasil",
		StatusDeny:       "Ditolak",
		StatusCancel:     "Dibatalkan",
		StatusExpire:     "Kadaluarsa",
		StatusRefund:     "Dikembalikan",
	}
	if label, ok := labels[p.Status]; ok {
		return label
	}
	return p.Status
}
