package migrations

import (
	"sekolah/app/models/payment"
	"sekolah/app/models/registration"
)

// RegisterTables lists every model that takes part in automigration.
func RegisterTables() []interface{} {
	return []interface{}{
		&registration.Registration{},
		&payment.Payment{},
		&payment.PaymentItem{},
		&payment.PaymentNotification{},
	}
}
