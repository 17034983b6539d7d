package payment

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment is one purchase intent tied to exactly one registration.
// Rows are never hard-deleted: this is a financial record.
type Payment struct {
	ID             uint64 `gorm:"primaryKey;autoIncrement" json:"id"`
	RegistrationID uint64 `gorm:"index;not null" json:"registration_id"`

	// OrderID is the external identity, immutable once assigned and
	// the join key for every gateway interaction.
	OrderID string `gorm:"type:varchar(32);uniqueIndex" json:"order_id"`

	PaymentType string `gorm:"type:varchar(32);index" json:"payment_type"`

	// Amount/AdminFee/TotalAmount are always server-computed;
	// total_amount = amount + admin_fee, 2 decimal places.
	Amount      decimal.Decimal `gorm:"type:decimal(15,2)" json:"amount"`
	AdminFee    decimal.Decimal `gorm:"type:decimal(15,2)" json:"admin_fee"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(15,2)" json:"total_amount"`

	Status        string `gorm:"type:varchar(20);index;default:pending" json:"status"`
	PaymentMethod string `gorm:"type:varchar(32)" json:"payment_method"`

	// gateway identifiers
	TransactionID string `gorm:"type:varchar(64);index" json:"transaction_id"`
	VANumber      string `gorm:"type:varchar(64)" json:"va_number"`
	Bank          string `gorm:"type:varchar(32)" json:"bank"`
	BillerCode    string `gorm:"type:varchar(32)" json:"biller_code"`
	BillKey       string `gorm:"type:varchar(64)" json:"bill_key"`

	// gateway-issued checkout handles
	SnapToken string `gorm:"type:varchar(128)" json:"snap_token"`
	SnapURL   string `gorm:"type:varchar(255)" json:"snap_url"`

	PaidAt    *time.Time `json:"paid_at"`
	ExpiredAt *time.Time `json:"expired_at"`

	// raw gateway response blob, stored as received
	GatewayResponse JSON `gorm:"type:json" json:"gateway_response"`

	Notes string `gorm:"type:text" json:"notes"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Items         []PaymentItem         `gorm:"foreignKey:PaymentID" json:"items,omitempty"`
	Notifications []PaymentNotification `gorm:"foreignKey:PaymentID" json:"notifications,omitempty"`
}

// TableName sets the table name.
func (Payment) TableName() string {
	return "payments"
}

// PaymentItem is one line item belonging to exactly one Payment.
// Immutable after creation.
type PaymentItem struct {
	ID        uint64 `gorm:"primaryKey;autoIncrement" json:"id"`
	PaymentID uint64 `gorm:"index;not null" json:"payment_id"`

	ItemName        string `gorm:"type:varchar(128);not null" json:"item_name"`
	ItemDescription string `gorm:"type:varchar(255)" json:"item_description"`

	Quantity int             `gorm:"not null" json:"quantity"`
	Price    decimal.Decimal `gorm:"type:decimal(15,2)" json:"price"`

	// Subtotal = quantity * price, recomputed server-side, never
	// settable by a caller.
	Subtotal decimal.Decimal `gorm:"type:decimal(15,2)" json:"subtotal"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName sets the table name.
func (PaymentItem) TableName() string {
	return "payment_items"
}

// PaymentNotification is the append-only audit record of one inbound
// status event. Rows are never updated or deleted; every ingress
// call produces exactly one row, including no-op updates. Ordering
// is by receipt time, never by gateway-reported time.
type PaymentNotification struct {
	ID        uint64 `gorm:"primaryKey;autoIncrement" json:"id"`
	PaymentID uint64 `gorm:"index;not null" json:"payment_id"`

	OrderID           string `gorm:"type:varchar(32);index" json:"order_id"`
	TransactionID     string `gorm:"type:varchar(64)" json:"transaction_id"`
	TransactionStatus string `gorm:"type:varchar(32)" json:"transaction_status"`
	FraudStatus       string `gorm:"type:varchar(32)" json:"fraud_status"`

	// full raw payload, opaque
	NotificationBody JSON `gorm:"type:json" json:"notification_body"`

	NotificationAt time.Time `gorm:"index" json:"notification_at"`
	CreatedAt      time.Time `json:"created_at"`
}

// TableName sets the table name.
func (PaymentNotification) TableName() string {
	return "payment_notifications"
}
