// Package reconcile keeps local payment state consistent with the
// gateway. It owns every status transition: payments are created
// here, webhook and polling updates both funnel through
// ApplyStatusUpdate, and the registration's paid flag only ever
// advances from here.
package reconcile

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"sekolah/app/models/payment"
	"sekolah/app/models/registration"
	"sekolah/app/repositories"
	"sekolah/pkg/errs"
	"sekolah/pkg/fee"
	"sekolah/pkg/gateway"
	"sekolah/pkg/logger"
)

// Engine is the reconciliation core.
type Engine struct {
	db     *gorm.DB
	gw     gateway.Adapter
	locker Locker

	// now is swappable for tests
	now func() time.Time
}

// NewEngine wires the engine.
func NewEngine(db *gorm.DB, gw gateway.Adapter, locker Locker) *Engine {
	return &Engine{
		db:     db,
		gw:     gw,
		locker: locker,
		now:    time.Now,
	}
}

// CreateResult is the outcome of CreatePayment.
type CreateResult struct {
	Payment  *payment.Payment
	Checkout *gateway.Checkout
}

// CreatePayment validates the request, computes amounts, persists
// the payment with its items and obtains a checkout handle in one
// atomic unit. A gateway failure rolls the whole thing back: no
// orphan payment row survives a failed checkout.
func (e *Engine) CreatePayment(ctx context.Context, userID, paymentType string, items []ItemInput, notes string) (*CreateResult, error) {
	regs := repositories.NewRegistrationRepositoryWithDB(e.db)
	reg, err := regs.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !reg.CanPay() {
		return nil, errs.Preconditionf("registration has not been submitted")
	}

	if !payment.ValidType(paymentType) {
		return nil, errs.Validationf("unknown payment type %q", paymentType)
	}
	if len(items) == 0 {
		items = catalogItems(paymentType)
	}
	if err := validateItems(items); err != nil {
		return nil, err
	}

	lineItems := make([]fee.LineItem, len(items))
	for i, item := range items {
		lineItems[i] = fee.LineItem{Quantity: item.Quantity, Price: item.Price}
	}
	amount := fee.Subtotal(lineItems)
	adminFee := fee.AdminFee(amount)
	total := fee.Total(amount, adminFee)

	result := &CreateResult{}
	err = e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		p := &payment.Payment{
			RegistrationID: reg.ID,
			OrderID:        payment.GenerateOrderID(e.now()),
			PaymentType:    paymentType,
			Amount:         amount,
			AdminFee:       adminFee,
			TotalAmount:    total,
			Status:         payment.StatusPending,
			Notes:          notes,
		}
		for _, item := range items {
			p.Items = append(p.Items, payment.PaymentItem{
				ItemName:        item.Name,
				ItemDescription: item.Description,
				Quantity:        item.Quantity,
				Price:           item.Price.Round(2),
				Subtotal:        item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))).Round(2),
			})
		}
		if err := tx.Create(p).Error; err != nil {
			return err
		}

		checkout, err := e.gw.CreateCheckout(ctx, buildCheckoutRequest(p, reg))
		if err != nil {
			// bubbling the GatewayError aborts the transaction
			return err
		}

		p.SnapToken = checkout.Token
		p.SnapURL = checkout.RedirectURL
		p.ExpiredAt = &checkout.ExpiredAt
		if err := tx.Save(p).Error; err != nil {
			return err
		}

		result.Payment = p
		result.Checkout = checkout
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("reconcile",
		zap.String("event", "payment_created"),
		zap.String("order_id", result.Payment.OrderID),
		zap.String("total", result.Payment.TotalAmount.String()),
	)
	return result, nil
}

// ApplyStatusUpdate is the heart of reconciliation. It appends the
// audit row unconditionally, maps the gateway status, and applies
// the transition idempotently: replaying a notification changes
// nothing but the audit trail. Updates for one order are serialized
// through the locker because webhook delivery and polling race.
func (e *Engine) ApplyStatusUpdate(ctx context.Context, orderID string, report *gateway.StatusReport) (*payment.Payment, error) {
	var updated *payment.Payment
	err := e.locker.WithLock(ctx, "reconcile:"+orderID, func() error {
		var err error
		updated, err = e.applyLocked(ctx, orderID, report)
		return err
	})
	return updated, err
}

func (e *Engine) applyLocked(ctx context.Context, orderID string, report *gateway.StatusReport) (*payment.Payment, error) {
	tx := e.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}
	defer tx.Rollback()

	payments := repositories.NewPaymentRepositoryWithDB(tx)
	p, err := payments.GetByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	receivedAt := e.now()
	notification := &payment.PaymentNotification{
		PaymentID:         p.ID,
		OrderID:           orderID,
		TransactionID:     report.TransactionID,
		TransactionStatus: report.TransactionStatus,
		FraudStatus:       report.FraudStatus,
		NotificationBody:  payment.JSON(report.Raw),
		NotificationAt:    receivedAt,
	}
	if err := payments.AppendNotification(ctx, notification); err != nil {
		return nil, err
	}

	newStatus, mapErr := mapStatus(orderID, report.TransactionStatus, report.FraudStatus)
	if mapErr != nil {
		// the audit row still counts; commit it before surfacing
		if err := tx.Commit().Error; err != nil {
			return nil, err
		}
		logger.Error("reconcile",
			zap.String("event", "unmapped_status"),
			zap.String("order_id", orderID),
			zap.String("transaction_status", report.TransactionStatus),
		)
		return p, mapErr
	}

	if !allowedTransition(p.Status, newStatus) {
		// stale or out-of-order notification: audit it, change nothing
		if err := tx.Commit().Error; err != nil {
			return nil, err
		}
		logger.Warn("reconcile",
			zap.String("event", "transition_ignored"),
			zap.String("order_id", orderID),
			zap.String("from", p.Status),
			zap.String("to", newStatus),
		)
		return p, nil
	}

	applyGatewayDetails(p, report)
	p.Status = newStatus

	if p.IsSuccess() && p.PaidAt == nil {
		paidAt := receivedAt
		p.PaidAt = &paidAt
	}

	if err := payments.Save(ctx, p); err != nil {
		return nil, err
	}

	if p.IsSuccess() {
		regs := repositories.NewRegistrationRepositoryWithDB(tx)
		if err := regs.MarkPaid(ctx, p.RegistrationID); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	logger.Info("reconcile",
		zap.String("event", "status_applied"),
		zap.String("order_id", orderID),
		zap.String("status", p.Status),
	)
	return p, nil
}

// Cancel voids an owner's pending payment. The gateway is cancelled
// first: when that fails local state stays untouched and the caller
// may retry. Like status updates, cancellation holds the per-order
// lock; a webhook landing mid-cancel must not be clobbered, so the
// write is additionally guarded on the pending status.
func (e *Engine) Cancel(ctx context.Context, userID string, paymentID uint64) (*payment.Payment, error) {
	regs := repositories.NewRegistrationRepositoryWithDB(e.db)
	reg, err := regs.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	payments := repositories.NewPaymentRepositoryWithDB(e.db)
	p, err := payments.FindForOwner(ctx, reg.ID, paymentID)
	if err != nil {
		return nil, err
	}
	if !p.IsPending() {
		return nil, errs.InvalidStateError{Op: "cancel", Status: p.Status}
	}

	err = e.locker.WithLock(ctx, "reconcile:"+p.OrderID, func() error {
		fresh, err := payments.GetByOrderID(ctx, p.OrderID)
		if err != nil {
			return err
		}
		if !fresh.IsPending() {
			return errs.InvalidStateError{Op: "cancel", Status: fresh.Status}
		}

		if err := e.gw.Cancel(ctx, p.OrderID); err != nil {
			return err
		}

		res := e.db.WithContext(ctx).
			Model(&payment.Payment{}).
			Where("id = ? AND status = ?", p.ID, payment.StatusPending).
			Update("status", payment.StatusCancel)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// a notification slipped in while the gateway call was in
			// flight; the payment is no longer ours to cancel
			current, err := payments.GetByOrderID(ctx, p.OrderID)
			if err != nil {
				return err
			}
			return errs.InvalidStateError{Op: "cancel", Status: current.Status}
		}

		p = fresh
		p.Status = payment.StatusCancel
		return nil
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Refund reverses a completed charge. Administrative only; the
// registration's paid status is deliberately NOT reverted, since
// undoing enrollment is a human decision. Holds the per-order lock
// and re-checks the status under it, same as Cancel.
func (e *Engine) Refund(ctx context.Context, paymentID uint64, reason string) (*payment.Payment, error) {
	payments := repositories.NewPaymentRepositoryWithDB(e.db)
	p, err := payments.GetByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if !p.IsSuccess() {
		return nil, errs.InvalidStateError{Op: "refund", Status: p.Status}
	}

	err = e.locker.WithLock(ctx, "reconcile:"+p.OrderID, func() error {
		fresh, err := payments.GetByOrderID(ctx, p.OrderID)
		if err != nil {
			return err
		}
		if !fresh.IsSuccess() {
			return errs.InvalidStateError{Op: "refund", Status: fresh.Status}
		}

		if err := e.gw.Refund(ctx, p.OrderID, reason); err != nil {
			return err
		}

		notes := fresh.Notes
		if reason != "" {
			notes = strings.TrimSpace(notes + "\nrefund: " + reason)
		}
		res := e.db.WithContext(ctx).
			Model(&payment.Payment{}).
			Where("id = ? AND status IN ?", p.ID, []string{payment.StatusSettlement, payment.StatusCapture}).
			Updates(map[string]interface{}{
				"status": payment.StatusRefund,
				"notes":  notes,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			current, err := payments.GetByOrderID(ctx, p.OrderID)
			if err != nil {
				return err
			}
			return errs.InvalidStateError{Op: "refund", Status: current.Status}
		}

		p = fresh
		p.Status = payment.StatusRefund
		p.Notes = notes
		return nil
	})
	if err != nil {
		return nil, err
	}

	regs := repositories.NewRegistrationRepositoryWithDB(e.db)
	if reg, err := regs.GetByID(ctx, p.RegistrationID); err == nil && reg.IsPaid() {
		logger.Warn("reconcile",
			zap.String("event", "refund_on_paid_registration"),
			zap.String("order_id", p.OrderID),
			zap.Uint64("registration_id", reg.ID),
		)
	}
	return p, nil
}

// SyncStatus is the owner-initiated poll: pull the gateway state and
// feed it through the exact same path a webhook takes, so the two
// ingestion routes can never diverge.
func (e *Engine) SyncStatus(ctx context.Context, userID string, paymentID uint64) (*payment.Payment, error) {
	regs := repositories.NewRegistrationRepositoryWithDB(e.db)
	reg, err := regs.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	payments := repositories.NewPaymentRepositoryWithDB(e.db)
	p, err := payments.FindForOwner(ctx, reg.ID, paymentID)
	if err != nil {
		return nil, err
	}

	return e.SyncByOrderID(ctx, p.OrderID)
}

// SyncByOrderID polls the gateway for one order and applies the
// result. Also the unit of work for queued sweep jobs.
func (e *Engine) SyncByOrderID(ctx context.Context, orderID string) (*payment.Payment, error) {
	report, err := e.gw.QueryStatus(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return e.ApplyStatusUpdate(ctx, orderID, report)
}

// SyncOrder adapts SyncByOrderID to the queue worker contract.
func (e *Engine) SyncOrder(ctx context.Context, orderID string) error {
	_, err := e.SyncByOrderID(ctx, orderID)
	return err
}

func validateItems(items []ItemInput) error {
	if len(items) == 0 {
		return errs.Validationf("payment requires at least one item")
	}
	for i, item := range items {
		if strings.TrimSpace(item.Name) == "" {
			return errs.Validationf("item %d: name is required", i+1)
		}
		if item.Quantity <= 0 {
			return errs.Validationf("item %d: quantity must be positive", i+1)
		}
		if item.Price.Sign() < 0 {
			return errs.Validationf("item %d: price must not be negative", i+1)
		}
	}
	return nil
}

// buildCheckoutRequest converts the ledger rows into the gateway
// checkout payload. The admin fee rides along as its own line item
// so the item sum matches the gross amount.
func buildCheckoutRequest(p *payment.Payment, reg *registration.Registration) *gateway.CheckoutRequest {
	items := make([]gateway.CheckoutItem, 0, len(p.Items)+1)
	for _, item := range p.Items {
		items = append(items, gateway.CheckoutItem{
			ID:       fmt.Sprintf("item-%d", item.ID),
			Name:     item.ItemName,
			Price:    item.Price.IntPart(),
			Quantity: item.Quantity,
		})
	}
	if p.AdminFee.Sign() > 0 {
		items = append(items, gateway.CheckoutItem{
			ID:       "admin-fee",
			Name:     "Biaya Admin",
			Price:    p.AdminFee.IntPart(),
			Quantity: 1,
		})
	}

	return &gateway.CheckoutRequest{
		OrderID:     p.OrderID,
		GrossAmount: p.TotalAmount.IntPart(),
		Items:       items,
		Customer: gateway.CustomerInfo{
			FirstName: reg.FullName,
			Email:     reg.Email,
			Phone:     reg.MobileNumber,
		},
	}
}

// applyGatewayDetails copies gateway-supplied method details onto
// the payment. Additive and overwriting: later notifications win,
// no validation against prior values.
func applyGatewayDetails(p *payment.Payment, report *gateway.StatusReport) {
	if report.TransactionID != "" {
		p.TransactionID = report.TransactionID
	}
	if report.PaymentType != "" {
		p.PaymentMethod = report.PaymentType
	}
	if report.VANumber != "" {
		p.VANumber = report.VANumber
	}
	if report.Bank != "" {
		p.Bank = report.Bank
	}
	if report.BillerCode != "" {
		p.BillerCode = report.BillerCode
	}
	if report.BillKey != "" {
		p.BillKey = report.BillKey
	}
	if len(report.Raw) > 0 {
		p.GatewayResponse = payment.JSON(report.Raw)
	}
}
