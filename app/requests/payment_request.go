package requests

import (
	"fmt"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/thedevsaddam/govalidator"
)

// PaymentItemRequest is one explicit line item in a create request.
type PaymentItemRequest struct {
	ItemName        string  `json:"item_name"`
	ItemDescription string  `json:"item_description"`
	Quantity        int     `json:"quantity"`
	Price           float64 `json:"price"`
}

// StorePaymentRequest is the create-payment body. Items are optional
// for payment types that carry an implicit catalog.
type StorePaymentRequest struct {
	PaymentType string               `json:"payment_type" valid:"payment_type"`
	Items       []PaymentItemRequest `json:"items"`
	Notes       string               `json:"notes" valid:"notes"`
}

// ValidateStorePayment binds and validates the create-payment body.
func ValidateStorePayment(c *gin.Context) (*StorePaymentRequest, error) {
	req, err := Bind[StorePaymentRequest](c)
	if err != nil {
		return nil, err
	}

	rules := govalidator.MapData{
		"payment_type": []string{"required", "in:registration_fee,tuition_fee,uniform_fee,book_fee,other"},
		"notes":        []string{"max:500"},
	}
	messages := govalidator.MapData{
		"payment_type": []string{
			"required:payment type is required",
			"in:payment type must be one of registration_fee, tuition_fee, uniform_fee, book_fee, other",
		},
		"notes": []string{
			"max:notes may not exceed 500 characters",
		},
	}

	if err := ValidateStruct(&req, rules, messages); err != nil {
		return nil, err
	}

	// per-item checks are easier to read outside the rule map; they
	// feed the same ValidationError shape govalidator produces
	itemErrors := url.Values{}
	for i, item := range req.Items {
		field := fmt.Sprintf("items.%d", i)
		if item.ItemName == "" {
			itemErrors.Add(field, "item_name is required")
		}
		if item.Quantity <= 0 {
			itemErrors.Add(field, "quantity must be a positive integer")
		}
		if item.Price < 0 {
			itemErrors.Add(field, "price must not be negative")
		}
	}
	if len(itemErrors) > 0 {
		return nil, ValidationError{Errors: itemErrors}
	}

	return &req, nil
}

// RefundRequest is the admin refund body.
type RefundRequest struct {
	Reason string `json:"reason" valid:"reason"`
}

// ValidateRefund binds and validates the refund body.
func ValidateRefund(c *gin.Context) (*RefundRequest, error) {
	req, err := Bind[RefundRequest](c)
	if err != nil {
		return nil, err
	}

	rules := govalidator.MapData{
		"reason": []string{"required", "min:3", "max:255"},
	}
	messages := govalidator.MapData{
		"reason": []string{
			"required:refund reason is required",
			"min:refund reason must be at least 3 characters",
			"max:refund reason may not exceed 255 characters",
		},
	}

	if err := ValidateStruct(&req, rules, messages); err != nil {
		return nil, err
	}

	return &req, nil
}
