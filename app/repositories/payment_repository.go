package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"sekolah/app/models/payment"
	"sekolah/pkg/database"
	"sekolah/pkg/errs"
)

// PaymentRepository is the ledger access layer for payments, items
// and notifications. Every owner-facing query is scoped by
// registration so records can never leak across owners.
type PaymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository builds a repository on the shared connection.
func NewPaymentRepository() *PaymentRepository {
	return &PaymentRepository{
		db: database.DB,
	}
}

// NewPaymentRepositoryWithDB builds a repository on an explicit
// connection, used inside transactions and tests.
func NewPaymentRepositoryWithDB(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// Create inserts a payment together with its line items.
func (r *PaymentRepository) Create(ctx context.Context, p *payment.Payment) error {
	return r.db.WithContext(ctx).Create(p).Error
}

// Save persists all fields of an existing payment.
func (r *PaymentRepository) Save(ctx context.Context, p *payment.Payment) error {
	return r.db.WithContext(ctx).Save(p).Error
}

// FindForOwner fetches one payment scoped to its owning
// registration. A missing id and a foreign id return the same
// NotFoundError so callers cannot tell other owners' records apart from missing ones.
func (r *PaymentRepository) FindForOwner(ctx context.Context, registrationID, paymentID uint64) (*payment.Payment, error) {
	var p payment.Payment
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("id = ? AND registration_id = ?", paymentID, registrationID).
		First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NotFound("payment")
		}
		return nil, err
	}
	return &p, nil
}

// FindForOwnerWithNotifications also loads the audit trail, newest
// first by receipt time.
func (r *PaymentRepository) FindForOwnerWithNotifications(ctx context.Context, registrationID, paymentID uint64) (*payment.Payment, error) {
	var p payment.Payment
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Notifications", func(db *gorm.DB) *gorm.DB {
			return db.Order("notification_at DESC")
		}).
		Where("id = ? AND registration_id = ?", paymentID, registrationID).
		First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NotFound("payment")
		}
		return nil, err
	}
	return &p, nil
}

// ListForOwner pages through a registration's payments, newest
// first.
func (r *PaymentRepository) ListForOwner(ctx context.Context, registrationID uint64, page, perPage int) ([]payment.Payment, int64, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 10
	}

	base := r.db.WithContext(ctx).
		Model(&payment.Payment{}).
		Where("registration_id = ?", registrationID)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var payments []payment.Payment
	err := base.
		Preload("Items").
		Order("created_at DESC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&payments).Error
	return payments, total, err
}

// GetByID resolves a payment without ownership scoping. Admin use
// only; owner-facing paths go through FindForOwner.
func (r *PaymentRepository) GetByID(ctx context.Context, paymentID uint64) (*payment.Payment, error) {
	var p payment.Payment
	err := r.db.WithContext(ctx).Preload("Items").First(&p, paymentID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NotFound("payment")
		}
		return nil, err
	}
	return &p, nil
}

// GetByOrderID resolves a payment by its external order id.
func (r *PaymentRepository) GetByOrderID(ctx context.Context, orderID string) (*payment.Payment, error) {
	var p payment.Payment
	err := r.db.WithContext(ctx).Where("order_id = ?", orderID).First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NotFound("payment")
		}
		return nil, err
	}
	return &p, nil
}

// AppendNotification inserts one audit row. Pure insert: the
// referenced payment is never touched here and rows are never
// updated afterwards.
func (r *PaymentRepository) AppendNotification(ctx context.Context, n *payment.PaymentNotification) error {
	return r.db.WithContext(ctx).Create(n).Error
}

// NotificationCount returns the number of audit rows for a payment.
func (r *PaymentRepository) NotificationCount(ctx context.Context, paymentID uint64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&payment.PaymentNotification{}).
		Where("payment_id = ?", paymentID).
		Count(&count).Error
	return count, err
}

// PendingOrderIDs lists order ids of payments still in pending,
// oldest first. Feeds the admin sweep.
func (r *PaymentRepository) PendingOrderIDs(ctx context.Context) ([]string, error) {
	var orderIDs []string
	err := r.db.WithContext(ctx).
		Model(&payment.Payment{}).
		Where("status = ?", payment.StatusPending).
		Order("created_at ASC").
		Pluck("order_id", &orderIDs).Error
	return orderIDs, err
}

// StatusSummary is one row of the admin summary.
type StatusSummary struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
	Total  string `json:"total"`
}

// Summary aggregates payment counts and totals per status.
func (r *PaymentRepository) Summary(ctx context.Context) ([]StatusSummary, error) {
	var rows []StatusSummary
	err := r.db.WithContext(ctx).
		Model(&payment.Payment{}).
		Select("status, COUNT(*) AS count, COALESCE(SUM(total_amount), 0) AS total").
		Group("status").
		Order("status").
		Scan(&rows).Error
	return rows, err
}
