package reconcile

import (
	"github.com/shopspring/decimal"

	"sekolah/app/models/payment"
)

// ItemInput is one requested line item.
type ItemInput struct {
	Name        string
	Description string
	Quantity    int
	Price       decimal.Decimal
}

// catalogItems returns the implicit line items for payment types
// with a fixed price list. book_fee and other carry no catalog and
// require explicit items.
func catalogItems(paymentType string) []ItemInput {
	switch paymentType {
	case payment.TypeRegistrationFee:
		return []ItemInput{
			{Name: "Biaya Formulir", Quantity: 1, Price: decimal.NewFromInt(100000)},
			{Name: "Biaya Tes Masuk", Quantity: 1, Price: decimal.NewFromInt(150000)},
		}
	case payment.TypeUniformFee:
		return []ItemInput{
			{Name: "Seragam Wearpack", Quantity: 1, Price: decimal.NewFromInt(10000)},
			{Name: "Seragam Batik", Quantity: 1, Price: decimal.NewFromInt(10000)},
			{Name: "Seragam Olahraga", Quantity: 1, Price: decimal.NewFromInt(10000)},
		}
	case payment.TypeTuitionFee:
		return []ItemInput{
			{Name: "SPP Bulanan", Quantity: 1, Price: decimal.NewFromInt(200000)},
		}
	}
	return nil
}
