package reconcile

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"sekolah/app/models/payment"
	"sekolah/app/models/registration"
	"sekolah/app/repositories"
	"sekolah/pkg/database/migrations"
	"sekolah/pkg/errs"
	"sekolah/pkg/gateway"
)

// fakeGateway records calls and returns canned responses.
type fakeGateway struct {
	checkoutErr  error
	lastCheckout *gateway.CheckoutRequest

	report    *gateway.StatusReport
	statusErr error

	cancelErr error
	cancelled []string
	onCancel  func()

	refundErr error
	refunded  []string
	onRefund  func()
}

func (f *fakeGateway) CreateCheckout(_ context.Context, req *gateway.CheckoutRequest) (*gateway.Checkout, error) {
	f.lastCheckout = req
	if f.checkoutErr != nil {
		return nil, f.checkoutErr
	}
	expiredAt := time.Now().Add(24 * time.Hour)
	return &gateway.Checkout{
		Token:       "snap-token-1",
		RedirectURL: "https://app.sandbox.midtrans.com/snap/v3/redirection/snap-token-1",
		ExpiredAt:   expiredAt,
	}, nil
}

func (f *fakeGateway) QueryStatus(_ context.Context, orderID string) (*gateway.StatusReport, error) {
	if f.statusErr != nil {
		return nil, f.statusErr
	}
	report := *f.report
	report.OrderID = orderID
	return &report, nil
}

func (f *fakeGateway) Cancel(_ context.Context, orderID string) error {
	if f.onCancel != nil {
		f.onCancel()
	}
	if f.cancelErr != nil {
		return f.cancelErr
	}
	f.cancelled = append(f.cancelled, orderID)
	return nil
}

func (f *fakeGateway) Refund(_ context.Context, orderID, _ string) error {
	if f.onRefund != nil {
		f.onRefund()
	}
	if f.refundErr != nil {
		return f.refundErr
	}
	f.refunded = append(f.refunded, orderID)
	return nil
}

func setupEngine(t *testing.T) (*Engine, *fakeGateway, *gorm.DB) {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(migrations.RegisterTables()...))

	gw := &fakeGateway{}
	engine := NewEngine(db, gw, NewLocalLocker())
	return engine, gw, db
}

func seedRegistration(t *testing.T, db *gorm.DB, status string) *registration.Registration {
	t.Helper()
	reg := &registration.Registration{
		UserID:       "user-" + status,
		FullName:     "Budi Santoso",
		Email:        "budi@example.com",
		MobileNumber: "081234567890",
		Status:       status,
	}
	require.NoError(t, db.Create(reg).Error)
	return reg
}

func statusReport(orderID, status, fraud string) *gateway.StatusReport {
	return &gateway.StatusReport{
		OrderID:           orderID,
		TransactionID:     "txn-1",
		TransactionStatus: status,
		FraudStatus:       fraud,
		PaymentType:       "bank_transfer",
		StatusCode:        "200",
		GrossAmount:       "555000.00",
		VANumber:          "9888123456789",
		Bank:              "bca",
		Raw:               map[string]interface{}{"transaction_status": status},
	}
}

func TestCreatePayment(t *testing.T) {
	engine, gw, db := setupEngine(t)
	reg := seedRegistration(t, db, registration.StatusSubmitted)

	items := []ItemInput{
		{Name: "Uang Gedung", Quantity: 1, Price: decimal.NewFromInt(550000)},
	}
	result, err := engine.CreatePayment(context.Background(), reg.UserID, payment.TypeOther, items, "angsuran pertama")
	require.NoError(t, err)

	p := result.Payment
	assert.True(t, p.Amount.Equal(decimal.NewFromInt(550000)))
	assert.True(t, p.AdminFee.Equal(decimal.NewFromInt(5000)), "fee capped at 5000, got %s", p.AdminFee)
	assert.True(t, p.TotalAmount.Equal(decimal.NewFromInt(555000)))
	assert.Equal(t, payment.StatusPending, p.Status)
	assert.Equal(t, "snap-token-1", p.SnapToken)
	assert.NotNil(t, p.ExpiredAt)
	assert.Regexp(t, `^ORD-\d{8}-[A-Z0-9]{6}$`, p.OrderID)

	// the checkout gross must equal the item sum, so the admin fee
	// rides along as its own line item
	require.NotNil(t, gw.lastCheckout)
	assert.Equal(t, int64(555000), gw.lastCheckout.GrossAmount)
	require.Len(t, gw.lastCheckout.Items, 2)
	assert.Equal(t, "Biaya Admin", gw.lastCheckout.Items[1].Name)
	assert.Equal(t, int64(5000), gw.lastCheckout.Items[1].Price)

	// persisted with its line item
	stored, err := repositories.NewPaymentRepositoryWithDB(db).GetByOrderID(context.Background(), p.OrderID)
	require.NoError(t, err)
	assert.Equal(t, payment.StatusPending, stored.Status)
}

func TestCreatePaymentCatalogFallback(t *testing.T) {
	engine, _, db := setupEngine(t)
	reg := seedRegistration(t, db, registration.StatusSubmitted)

	result, err := engine.CreatePayment(context.Background(), reg.UserID, payment.TypeRegistrationFee, nil, "")
	require.NoError(t, err)

	// Biaya Formulir 100000 + Biaya Tes Masuk 150000
	p := result.Payment
	assert.True(t, p.Amount.Equal(decimal.NewFromInt(250000)))
	assert.True(t, p.AdminFee.Equal(decimal.NewFromInt(5000)))
	assert.True(t, p.TotalAmount.Equal(decimal.NewFromInt(255000)))
	assert.Len(t, p.Items, 2)
}

func TestCreatePaymentRequiresExplicitItems(t *testing.T) {
	engine, _, db := setupEngine(t)
	reg := seedRegistration(t, db, registration.StatusSubmitted)

	// book_fee has no catalog
	_, err := engine.CreatePayment(context.Background(), reg.UserID, payment.TypeBookFee, nil, "")
	require.Error(t, err)
	assert.True(t, errs.IsValidation(err))
}

func TestCreatePaymentUnknownType(t *testing.T) {
	engine, _, db := setupEngine(t)
	reg := seedRegistration(t, db, registration.StatusSubmitted)

	_, err := engine.CreatePayment(context.Background(), reg.UserID, "exam_fee", nil, "")
	require.Error(t, err)
	assert.True(t, errs.IsValidation(err))
}

func TestCreatePaymentRegistrationNotSubmitted(t *testing.T) {
	engine, _, db := setupEngine(t)

	for _, status := range []string{registration.StatusDraft, registration.StatusRejected} {
		reg := seedRegistration(t, db, status)
		_, err := engine.CreatePayment(context.Background(), reg.UserID, payment.TypeTuitionFee, nil, "")
		require.Error(t, err, status)
		assert.True(t, errs.IsPrecondition(err), status)
	}
}

func TestCreatePaymentGatewayFailureLeavesNothing(t *testing.T) {
	engine, gw, db := setupEngine(t)
	reg := seedRegistration(t, db, registration.StatusSubmitted)
	gw.checkoutErr = errs.Gatewayf("create_checkout", errors.New("midtrans unavailable"))

	_, err := engine.CreatePayment(context.Background(), reg.UserID, payment.TypeTuitionFee, nil, "")
	require.Error(t, err)
	assert.True(t, errs.IsGateway(err))

	// the rollback must leave no orphan rows
	var count int64
	require.NoError(t, db.Model(&payment.Payment{}).Count(&count).Error)
	assert.Zero(t, count)
	require.NoError(t, db.Model(&payment.PaymentItem{}).Count(&count).Error)
	assert.Zero(t, count)
}

func createPending(t *testing.T, engine *Engine, db *gorm.DB) (*registration.Registration, *payment.Payment) {
	t.Helper()
	reg := seedRegistration(t, db, registration.StatusSubmitted)
	result, err := engine.CreatePayment(context.Background(), reg.UserID, payment.TypeOther,
		[]ItemInput{{Name: "Uang Gedung", Quantity: 1, Price: decimal.NewFromInt(550000)}}, "")
	require.NoError(t, err)
	return reg, result.Payment
}

func TestApplySettlement(t *testing.T) {
	engine, _, db := setupEngine(t)
	reg, p := createPending(t, engine, db)

	updated, err := engine.ApplyStatusUpdate(context.Background(), p.OrderID, statusReport(p.OrderID, "settlement", ""))
	require.NoError(t, err)

	assert.Equal(t, payment.StatusSettlement, updated.Status)
	require.NotNil(t, updated.PaidAt)
	assert.Equal(t, "9888123456789", updated.VANumber)
	assert.Equal(t, "bca", updated.Bank)

	// success ratchets the registration
	var storedReg registration.Registration
	require.NoError(t, db.First(&storedReg, reg.ID).Error)
	assert.Equal(t, registration.StatusPaid, storedReg.Status)

	// one audit row per notification
	count, err := repositories.NewPaymentRepositoryWithDB(db).NotificationCount(context.Background(), p.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestApplySettlementReplayIsIdempotent(t *testing.T) {
	engine, _, db := setupEngine(t)
	_, p := createPending(t, engine, db)

	first, err := engine.ApplyStatusUpdate(context.Background(), p.OrderID, statusReport(p.OrderID, "settlement", ""))
	require.NoError(t, err)
	paidAt := *first.PaidAt

	time.Sleep(10 * time.Millisecond)
	second, err := engine.ApplyStatusUpdate(context.Background(), p.OrderID, statusReport(p.OrderID, "settlement", ""))
	require.NoError(t, err)

	assert.Equal(t, payment.StatusSettlement, second.Status)
	// paid_at is set exactly once
	assert.True(t, second.PaidAt.Equal(paidAt))

	// the audit trail still grows on replay
	count, err := repositories.NewPaymentRepositoryWithDB(db).NotificationCount(context.Background(), p.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)
}

func TestApplyCaptureFraudChallenge(t *testing.T) {
	engine, _, db := setupEngine(t)
	reg, p := createPending(t, engine, db)

	updated, err := engine.ApplyStatusUpdate(context.Background(), p.OrderID, statusReport(p.OrderID, "capture", "challenge"))
	require.NoError(t, err)

	// held by the risk engine: not complete yet
	assert.Equal(t, payment.StatusPending, updated.Status)
	assert.Nil(t, updated.PaidAt)

	var storedReg registration.Registration
	require.NoError(t, db.First(&storedReg, reg.ID).Error)
	assert.Equal(t, registration.StatusSubmitted, storedReg.Status)
}

func TestApplyCaptureFraudAccept(t *testing.T) {
	engine, _, db := setupEngine(t)
	_, p := createPending(t, engine, db)

	updated, err := engine.ApplyStatusUpdate(context.Background(), p.OrderID, statusReport(p.OrderID, "capture", "accept"))
	require.NoError(t, err)
	assert.Equal(t, payment.StatusCapture, updated.Status)
	assert.NotNil(t, updated.PaidAt)
}

func TestApplyUnmappedStatus(t *testing.T) {
	engine, _, db := setupEngine(t)
	_, p := createPending(t, engine, db)

	_, err := engine.ApplyStatusUpdate(context.Background(), p.OrderID, statusReport(p.OrderID, "foobar", ""))
	require.Error(t, err)
	assert.True(t, errs.IsUnmappedStatus(err))

	// the payment did not move, but the audit row was committed
	stored, err := repositories.NewPaymentRepositoryWithDB(db).GetByOrderID(context.Background(), p.OrderID)
	require.NoError(t, err)
	assert.Equal(t, payment.StatusPending, stored.Status)

	count, err := repositories.NewPaymentRepositoryWithDB(db).NotificationCount(context.Background(), p.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestApplyLatePendingIgnored(t *testing.T) {
	engine, _, db := setupEngine(t)
	_, p := createPending(t, engine, db)

	_, err := engine.ApplyStatusUpdate(context.Background(), p.OrderID, statusReport(p.OrderID, "settlement", ""))
	require.NoError(t, err)

	// a delayed pending notification arriving after settlement
	updated, err := engine.ApplyStatusUpdate(context.Background(), p.OrderID, statusReport(p.OrderID, "pending", ""))
	require.NoError(t, err)
	assert.Equal(t, payment.StatusSettlement, updated.Status)

	count, err := repositories.NewPaymentRepositoryWithDB(db).NotificationCount(context.Background(), p.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)
}

func TestApplyUnknownOrder(t *testing.T) {
	engine, _, _ := setupEngine(t)

	_, err := engine.ApplyStatusUpdate(context.Background(), "ORD-20250314-ZZZZZZ",
		statusReport("ORD-20250314-ZZZZZZ", "settlement", ""))
	require.Error(t, err)
	assert.True(t, errs.IsNotFound(err))
}

func TestCancelPending(t *testing.T) {
	engine, gw, db := setupEngine(t)
	reg, p := createPending(t, engine, db)

	cancelled, err := engine.Cancel(context.Background(), reg.UserID, p.ID)
	require.NoError(t, err)
	assert.Equal(t, payment.StatusCancel, cancelled.Status)
	assert.Equal(t, []string{p.OrderID}, gw.cancelled)
}

func TestCancelRejectsNonPending(t *testing.T) {
	engine, gw, db := setupEngine(t)
	reg, p := createPending(t, engine, db)

	_, err := engine.ApplyStatusUpdate(context.Background(), p.OrderID, statusReport(p.OrderID, "settlement", ""))
	require.NoError(t, err)

	_, err = engine.Cancel(context.Background(), reg.UserID, p.ID)
	require.Error(t, err)
	assert.True(t, errs.IsInvalidState(err))
	assert.Empty(t, gw.cancelled)
}

func TestCancelGatewayFailureKeepsPending(t *testing.T) {
	engine, gw, db := setupEngine(t)
	reg, p := createPending(t, engine, db)
	gw.cancelErr = errs.Gatewayf("cancel", errors.New("midtrans unavailable"))

	_, err := engine.Cancel(context.Background(), reg.UserID, p.ID)
	require.Error(t, err)

	stored, err := repositories.NewPaymentRepositoryWithDB(db).GetByOrderID(context.Background(), p.OrderID)
	require.NoError(t, err)
	assert.Equal(t, payment.StatusPending, stored.Status)
}

func TestCancelRacingSettlementRejected(t *testing.T) {
	engine, gw, db := setupEngine(t)
	reg, p := createPending(t, engine, db)

	// a settlement notification lands while the gateway cancel call
	// is in flight; the cancel must not overwrite it
	gw.onCancel = func() {
		now := time.Now()
		require.NoError(t, db.Model(&payment.Payment{}).
			Where("id = ?", p.ID).
			Updates(map[string]interface{}{
				"status":  payment.StatusSettlement,
				"paid_at": now,
			}).Error)
	}

	_, err := engine.Cancel(context.Background(), reg.UserID, p.ID)
	require.Error(t, err)
	assert.True(t, errs.IsInvalidState(err))

	stored, err := repositories.NewPaymentRepositoryWithDB(db).GetByOrderID(context.Background(), p.OrderID)
	require.NoError(t, err)
	assert.Equal(t, payment.StatusSettlement, stored.Status)
	assert.NotNil(t, stored.PaidAt)
}

func TestRefundRacingRefundRejected(t *testing.T) {
	engine, gw, db := setupEngine(t)
	_, p := createPending(t, engine, db)

	_, err := engine.ApplyStatusUpdate(context.Background(), p.OrderID, statusReport(p.OrderID, "settlement", ""))
	require.NoError(t, err)

	// a refund notification lands while the gateway refund call is in
	// flight, e.g. the same refund issued from the gateway dashboard
	gw.onRefund = func() {
		require.NoError(t, db.Model(&payment.Payment{}).
			Where("id = ?", p.ID).
			Update("status", payment.StatusRefund).Error)
	}

	_, err = engine.Refund(context.Background(), p.ID, "pendaftaran dibatalkan")
	require.Error(t, err)
	assert.True(t, errs.IsInvalidState(err))

	stored, err := repositories.NewPaymentRepositoryWithDB(db).GetByOrderID(context.Background(), p.OrderID)
	require.NoError(t, err)
	assert.Equal(t, payment.StatusRefund, stored.Status)
	// the aborted second refund must not append its note
	assert.NotContains(t, stored.Notes, "refund:")
}

func TestCancelForeignPaymentNotFound(t *testing.T) {
	engine, _, db := setupEngine(t)
	_, p := createPending(t, engine, db)

	other := seedRegistration(t, db, registration.StatusPaid)
	other.UserID = "user-other"
	require.NoError(t, db.Save(other).Error)

	// a foreign id is indistinguishable from a missing one
	_, err := engine.Cancel(context.Background(), other.UserID, p.ID)
	require.Error(t, err)
	assert.True(t, errs.IsNotFound(err))
}

func TestRefund(t *testing.T) {
	engine, gw, db := setupEngine(t)
	reg, p := createPending(t, engine, db)

	_, err := engine.ApplyStatusUpdate(context.Background(), p.OrderID, statusReport(p.OrderID, "settlement", ""))
	require.NoError(t, err)

	refunded, err := engine.Refund(context.Background(), p.ID, "pendaftaran dibatalkan")
	require.NoError(t, err)
	assert.Equal(t, payment.StatusRefund, refunded.Status)
	assert.Contains(t, refunded.Notes, "refund: pendaftaran dibatalkan")
	assert.Equal(t, []string{p.OrderID}, gw.refunded)

	// the registration stays paid: reverting enrollment is a human
	// decision, not an automatic side effect
	var storedReg registration.Registration
	require.NoError(t, db.First(&storedReg, reg.ID).Error)
	assert.Equal(t, registration.StatusPaid, storedReg.Status)
}

func TestRefundRejectsPending(t *testing.T) {
	engine, gw, db := setupEngine(t)
	_, p := createPending(t, engine, db)

	_, err := engine.Refund(context.Background(), p.ID, "salah bayar")
	require.Error(t, err)
	assert.True(t, errs.IsInvalidState(err))
	assert.Empty(t, gw.refunded)
}

func TestSyncStatus(t *testing.T) {
	engine, gw, db := setupEngine(t)
	reg, p := createPending(t, engine, db)
	gw.report = statusReport("", "settlement", "")

	updated, err := engine.SyncStatus(context.Background(), reg.UserID, p.ID)
	require.NoError(t, err)
	assert.Equal(t, payment.StatusSettlement, updated.Status)

	// polling writes the same audit trail a webhook would
	count, err := repositories.NewPaymentRepositoryWithDB(db).NotificationCount(context.Background(), p.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}
