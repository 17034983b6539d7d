// Package registration holds the student enrollment record whose
// state gates and is advanced by payment.
package registration

import (
	"time"
)

// Registration statuses. Only submitted registrations may create a
// payment; paid is a one-way ratchet set by the reconciliation
// engine and never reverted automatically (a refund requires an
// explicit admin decision to undo enrollment).
const (
	StatusDraft     = "draft"
	StatusSubmitted = "submitted"
	StatusPaid      = "paid"
	StatusRejected  = "rejected"
)

// Registration is the PPDB enrollment record. The wider student CRUD
// lives outside this service; only the fields the payment flow needs
// are modelled here.
type Registration struct {
	ID     uint64 `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID string `gorm:"type:varchar(36);uniqueIndex" json:"user_id"`

	FullName     string `gorm:"type:varchar(128)" json:"full_name"`
	Email        string `gorm:"type:varchar(128)" json:"email"`
	MobileNumber string `gorm:"type:varchar(32)" json:"mobile_number"`

	Status string `gorm:"type:varchar(20);index;default:draft" json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName sets the table name.
func (Registration) TableName() string {
	return "registrations"
}

// CanPay reports whether the registration state permits creating a
// payment.
func (r *Registration) CanPay() bool {
	return r.Status == StatusSubmitted
}

// IsPaid reports whether the enrollment fee has been settled.
func (r *Registration) IsPaid() bool {
	return r.Status == StatusPaid
}
